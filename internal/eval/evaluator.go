// Package eval walks a parser.Expr tree against a Context/Scope,
// producing a value.Value per spec.md §4.3.
//
// Grounded on the teacher's Value.binaryOp/unaryOp/convertTo/apply
// (value.go): same Operator-table dispatch shape, generalized from
// panic-on-violation to explicit error returns (see DESIGN.md).
package eval

import (
	"context"
	"fmt"

	"github.com/mikecarlton/qcalc/internal/approx"
	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/parser"
	"github.com/mikecarlton/qcalc/internal/units"
	"github.com/mikecarlton/qcalc/internal/value"
)

// Eval evaluates e against c.Scope, returning the resulting Value.
// Assignments mutate c.Scope's innermost frame only on success (no
// partial mutation on failure, per spec.md §7).
func Eval(goCtx context.Context, c *Context, e *parser.Expr) (value.Value, error) {
	if err := c.checkCancel(goCtx); err != nil {
		return value.Value{}, err
	}
	switch e.Kind {
	case parser.KindEmpty:
		return value.Unit(), nil

	case parser.KindNumberLit:
		return evalNumberLit(e)

	case parser.KindStringLit:
		return value.FromString(e.Str), nil

	case parser.KindDateLit:
		return value.FromDate(e.Date), nil

	case parser.KindDiceLit:
		return evalDiceLit(e)

	case parser.KindIdent:
		return evalIdent(c, e)

	case parser.KindAttribute:
		return evalAttribute(goCtx, c, e)

	case parser.KindAssign:
		v, err := Eval(goCtx, c, e.Value)
		if err != nil {
			return value.Value{}, err
		}
		c.Scope.Set(e.Target, v)
		c.setAns(v)
		return v, nil

	case parser.KindSeq:
		var last value.Value
		for _, stmt := range e.Stmts {
			v, err := Eval(goCtx, c, stmt)
			if err != nil {
				return value.Value{}, err
			}
			last = v
			c.setAns(v)
		}
		return last, nil

	case parser.KindLambda:
		return value.Value{Kind: value.KindLambda, Lambda: &value.Lambda{
			Param: e.Param, Body: e.Body, Closure: c.Scope,
		}}, nil

	case parser.KindApply:
		return evalApply(goCtx, c, e)

	case parser.KindUnaryOp:
		return evalUnary(goCtx, c, e)

	case parser.KindBinaryOp:
		return evalBinary(goCtx, c, e)

	case parser.KindConvert:
		return evalConvert(goCtx, c, e)
	}
	return value.Value{}, errf(KindInternalInvariant, "unhandled expression kind %v", e.Kind)
}

// setAns rebinds `_`/`ans` after each top-level statement, spec.md §4.3.
func (c *Context) setAns(v value.Value) {
	c.Ans = v
	c.HasAns = true
	c.Scope.Set("_", v)
	c.Scope.Set("ans", v)
}

func evalNumberLit(e *parser.Expr) (value.Value, error) {
	r, err := parseNumberLiteral(e)
	if err != nil {
		return value.Value{}, err
	}
	return numberFromRat(r), nil
}

// parseNumberLiteral turns a KindNumberLit Expr's lexed text into an
// exact BigRat, handling non-decimal bases, explicit points, recurring
// digit groups, and decimal exponents.
func parseNumberLiteral(e *parser.Expr) (*bignum.BigRat, error) {
	if e.Base != 10 {
		u, err := bignum.ParseBigUInt(e.Text, e.Base)
		if err != nil {
			return nil, errf(KindInvalidBase, "%s", err.Error())
		}
		return bignum.NewExact(u.Int)
	}
	if !e.ExplicitDot {
		r, err := bignum.NewExact(e.Text)
		if err != nil {
			return nil, errf(KindParseError, "%s", err.Error())
		}
		return applyExponent(r, e.ExponentText)
	}
	if e.RecurStart >= 0 {
		return parseRecurring(e)
	}
	r, err := bignum.NewExact(e.Text)
	if err != nil {
		return nil, errf(KindParseError, "%s", err.Error())
	}
	return applyExponent(r, e.ExponentText)
}

// parseRecurring converts "0.1(6)"-style text (RecurStart/RecurEnd mark
// the repeating group's byte offsets within the fractional part) into
// the exact fraction it represents.
func parseRecurring(e *parser.Expr) (*bignum.BigRat, error) {
	dot := indexByte(e.Text, '.')
	whole := e.Text[:dot]
	frac := e.Text[dot+1:]
	nonRepeating := frac[:e.RecurStart]
	repeating := frac[e.RecurStart:e.RecurEnd]
	if repeating == "" {
		r, err := bignum.NewExact(e.Text[:dot+1+e.RecurStart])
		if err != nil {
			return nil, errf(KindParseError, "%s", err.Error())
		}
		return r, nil
	}
	// value = whole.nonRepeating + repeating / (10^len(repeating)-1) / 10^len(nonRepeating), shifted appropriately
	base, err := bignum.NewExact(whole + "." + nonRepeating)
	if err != nil {
		return nil, errf(KindParseError, "invalid recurring-decimal literal")
	}
	repInt, err := bignum.NewExact(repeating)
	if err != nil {
		return nil, errf(KindParseError, "invalid recurring-decimal literal")
	}
	nines := pow10MinusOne(len(repeating))
	repFrac, err := bignum.Quo(repInt, nines)
	if err != nil {
		return nil, errf(KindParseError, "invalid recurring-decimal literal")
	}
	shift := pow10(len(nonRepeating))
	shifted, err := bignum.Quo(repFrac, shift)
	if err != nil {
		return nil, errf(KindParseError, "invalid recurring-decimal literal")
	}
	result := bignum.Add(base, shifted)
	result.Exact = true
	return result, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func pow10(n int) *bignum.BigRat {
	s := "1"
	for i := 0; i < n; i++ {
		s += "0"
	}
	return bignum.MustExact(s)
}

func pow10MinusOne(n int) *bignum.BigRat {
	s := ""
	for i := 0; i < n; i++ {
		s += "9"
	}
	if s == "" {
		s = "0"
	}
	return bignum.MustExact(s)
}

func applyExponent(r *bignum.BigRat, expText string) (*bignum.BigRat, error) {
	if expText == "" {
		return r, nil
	}
	if expText[0] == '!' {
		return applyMagnitudeSuffix(r, expText[1:])
	}
	n, err := bignum.NewExact(expText)
	if err != nil {
		return nil, errf(KindParseError, "invalid exponent %q", expText)
	}
	exp, ok := n.AsInt64()
	if !ok {
		return nil, errf(KindParseError, "invalid exponent %q", expText)
	}
	ten := bignum.MustExact(10)
	result := r
	if exp >= 0 {
		for i := int64(0); i < exp; i++ {
			result = bignum.Mul(result, ten)
		}
	} else {
		for i := int64(0); i < -exp; i++ {
			q, err := bignum.Quo(result, ten)
			if err != nil {
				return nil, err
			}
			result = q
		}
	}
	return result, nil
}

var magnitudeSuffixFactors = map[string]string{
	"K": "1e3", "M": "1e6", "G": "1e9", "T": "1e12", "P": "1e15", "E": "1e18", "Z": "1e21", "Y": "1e24",
}

func applyMagnitudeSuffix(r *bignum.BigRat, suffix string) (*bignum.BigRat, error) {
	factorText, ok := magnitudeSuffixFactors[suffix]
	if !ok {
		return nil, errf(KindParseError, "unknown magnitude suffix %q", suffix)
	}
	factor := bignum.MustExact(factorText)
	return bignum.Mul(r, factor), nil
}

func evalIdent(c *Context, e *parser.Expr) (value.Value, error) {
	if v, ok := c.Scope.Get(e.Name); ok {
		return v, nil
	}
	if v, ok := lookupUnitIdent(c, e.Name); ok {
		return v, nil
	}
	if v, ok := lookupCurrencyIdent(c, e.Name); ok {
		return v, nil
	}
	return value.Value{}, errf(KindUnknownIdentifier, "unknown identifier %q", e.Name)
}

// lookupUnitIdent resolves name as a unit, yielding a Number value of
// magnitude 1 in that unit (spec.md §4.5).
func lookupUnitIdent(c *Context, name string) (value.Value, bool) {
	exp, scale, offset, err := c.Units.Lookup(name)
	if err != nil {
		return value.Value{}, false
	}
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: approx.FromReal(approx.Exact(mustRat(1))),
		Unit:      exp, Scale: scale, Offset: offset, UnitName: name, BaseHint: 10,
	}}, true
}

// lookupCurrencyIdent resolves a 3-letter currency code via the
// configured exchange-rate handler (spec.md §4.5 step 5); absent a
// handler or rate, resolution simply fails rather than erroring,
// letting the caller report unknown-identifier.
func lookupCurrencyIdent(c *Context, name string) (value.Value, bool) {
	if c.Currency == nil || len(name) != 3 {
		return value.Value{}, false
	}
	rate, ok := c.Currency(name)
	if !ok {
		return value.Value{}, false
	}
	scale := bignum.MustExact(fmt.Sprintf("%v", rate))
	exp := units.Single(units.Currency, 1)
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: approx.FromReal(approx.Exact(mustRat(1))),
		Unit:      exp, Scale: scale, UnitName: name, BaseHint: 10,
	}}, true
}

func evalAttribute(goCtx context.Context, c *Context, e *parser.Expr) (value.Value, error) {
	if e.X == nil {
		// @YYYY-MM-DD, already folded into a DateLit by the parser when
		// it looked like a date; otherwise a bare output modifier with
		// no operand applies to the remainder of the current statement,
		// which the caller (qcalc.Evaluate) handles at the top level.
		return value.Value{}, errf(KindInvalidDate, "attribute %q requires an expression", e.Name)
	}
	v, err := Eval(goCtx, c, e.X)
	if err != nil {
		return value.Value{}, err
	}
	switch e.Name {
	case "noapprox", "plain_number", "debug", "no_trailing_newline":
		// Output-only modifiers; internal/format applies them. Evaluation
		// itself is a transparent pass-through.
		return v, nil
	}
	return value.Value{}, errf(KindInvalidFormat, "unknown attribute %q", e.Name)
}
