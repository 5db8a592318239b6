package eval

import (
	"context"

	"github.com/mikecarlton/qcalc/internal/approx"
	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/dateutil"
	"github.com/mikecarlton/qcalc/internal/dice"
	"github.com/mikecarlton/qcalc/internal/parser"
	"github.com/mikecarlton/qcalc/internal/units"
	"github.com/mikecarlton/qcalc/internal/value"
)

func evalUnary(goCtx context.Context, c *Context, e *parser.Expr) (value.Value, error) {
	if e.Name == "roll" {
		v, err := Eval(goCtx, c, e.X)
		if err != nil {
			return value.Value{}, err
		}
		if v.Kind != value.KindDist {
			return value.Value{}, errf(KindDomainError, "roll requires a dice expression")
		}
		return rollDist(c, v.Dist)
	}
	v, err := Eval(goCtx, c, e.X)
	if err != nil {
		return value.Value{}, err
	}
	if v.Kind != value.KindNumber {
		return value.Value{}, errf(KindDomainError, "operator %q requires a number", e.Name)
	}
	return unaryNumberOp(e.Name, v.Num)
}

func evalBinary(goCtx context.Context, c *Context, e *parser.Expr) (value.Value, error) {
	left, err := Eval(goCtx, c, e.X)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Eval(goCtx, c, e.Y)
	if err != nil {
		return value.Value{}, err
	}

	switch {
	case left.Kind == value.KindNumber && right.Kind == value.KindNumber:
		return binaryNumberOp(c.Units, e.Name, left.Num, right.Num)

	case left.Kind == value.KindDist && right.Kind == value.KindDist:
		switch e.Name {
		case "+":
			return value.FromDist(dice.Add(left.Dist, right.Dist, false)), nil
		case "-":
			return value.FromDist(dice.Add(left.Dist, right.Dist, true)), nil
		}
		return value.Value{}, errf(KindDomainError, "unsupported distribution operator %q", e.Name)

	case left.Kind == value.KindDist && right.Kind == value.KindNumber:
		if e.Name != "*" {
			return value.Value{}, errf(KindDomainError, "unsupported distribution operator %q", e.Name)
		}
		n, ok := right.Num.Magnitude.Re.Rat.AsInt64()
		if !ok {
			return value.Value{}, errf(KindDomainError, "distribution scale factor must be an integer")
		}
		return value.FromDist(dice.Scale(left.Dist, n)), nil

	case left.Kind == value.KindString && right.Kind == value.KindString:
		if e.Name != "+" {
			return value.Value{}, errf(KindDomainError, "unsupported string operator %q", e.Name)
		}
		return value.FromString(left.Str + right.Str), nil

	case left.Kind == value.KindDate && right.Kind == value.KindNumber:
		return dateArith(left.Date, right.Num, e.Name)

	case left.Kind == value.KindDate && right.Kind == value.KindDate:
		if e.Name != "-" {
			return value.Value{}, errf(KindDomainError, "dates only support subtraction")
		}
		days := left.Date.DiffDays(right.Date)
		return value.Value{Kind: value.KindNumber, Num: &value.Number{
			Magnitude: approx.FromReal(approx.FromInt(days)), Unit: units.Single(units.Time, 1), Scale: mustRat(86400), UnitName: "day", BaseHint: 10,
		}}, nil
	}
	return value.Value{}, errf(KindDomainError, "operator %q not supported between %s and %s", e.Name, left.Kind.String(), right.Kind.String())
}

func dateArith(d dateutil.Date, dur *value.Number, op string) (value.Value, error) {
	if !units.Equal(dur.Unit, units.Single(units.Time, 1)) {
		return value.Value{}, errf(KindIncompatibleUnits, "date arithmetic requires a time-unit duration")
	}
	baseSeconds := toBase(dur)
	if !baseSeconds.IsReal() {
		return value.Value{}, errf(KindDomainError, "date arithmetic requires a real duration")
	}
	daysRat, err := bignum.Quo(baseSeconds.Re.Rat, mustRat(86400))
	if err != nil {
		return value.Value{}, errf(KindDivisionByZero, "division by zero")
	}
	days, ok := daysRat.AsInt64()
	if !ok {
		return value.Value{}, errf(KindDomainError, "date arithmetic requires a whole number of days")
	}
	if op == "-" {
		days = -days
	} else if op != "+" {
		return value.Value{}, errf(KindDomainError, "dates only support + and -")
	}
	return value.FromDate(d.AddDays(days)), nil
}
