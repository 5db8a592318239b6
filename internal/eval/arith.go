package eval

import (
	"math/big"

	"github.com/mikecarlton/qcalc/internal/approx"
	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/unitdb"
	"github.com/mikecarlton/qcalc/internal/units"
	"github.com/mikecarlton/qcalc/internal/value"
)

// binaryNumberOp dispatches a binary operator between two Number
// values. Grounded on the teacher's OPERATOR table (value.go: a
// map[string]Operator, each entry a func plus multiplicative/
// dimensionless/integerOnly boolean gates) generalized from
// panic-on-violation to error-return per spec.md §7.
func binaryNumberOp(db *unitdb.Database, op string, a, b *value.Number) (value.Value, error) {
	switch op {
	case "+":
		return addSub(db, a, b, false)
	case "-":
		return addSub(db, a, b, true)
	case "*":
		return mulDiv(db, a, b, false)
	case "/":
		return mulDiv(db, a, b, true)
	case "^":
		return pow(a, b)
	case "%":
		return modulo(a, b)
	case "and":
		return bitwise(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).And(x, y) })
	case "|":
		return bitwise(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Or(x, y) })
	case "xor":
		return bitwise(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Xor(x, y) })
	case "<<":
		return shift(a, b, true)
	case ">>":
		return shift(a, b, false)
	case "of":
		return mulDiv(db, a, b, false)
	case "permute":
		return permute(a, b)
	case "choose":
		return choose(a, b)
	}
	return value.Value{}, errf(KindInternalInvariant, "unknown binary operator %q", op)
}

func addSub(db *unitdb.Database, a, b *value.Number, sub bool) (value.Value, error) {
	if !units.Equal(a.Unit, b.Unit) {
		return value.Value{}, errf(KindIncompatibleUnits, "units are incompatible: %s vs %s", a.Unit.String(), b.Unit.String())
	}
	if a.Offset != nil || b.Offset != nil {
		aBase, bBase := toBase(a), toBase(b)
		var resBase *approx.Complex
		if sub {
			resBase = approx.CSub(aBase, bBase)
		} else {
			resBase = approx.CAdd(aBase, bBase)
		}
		return fromBase(resBase, a.Unit, a.Scale, a.Offset, a.UnitName)
	}
	scaleRatio, err := bignum.Quo(b.Scale, a.Scale)
	if err != nil {
		return value.Value{}, errf(KindDivisionByZero, "division by zero scaling units")
	}
	bInA := approx.CMul(b.Magnitude, approx.FromReal(approx.Exact(scaleRatio)))
	var resMag *approx.Complex
	if sub {
		resMag = approx.CSub(a.Magnitude, bInA)
	} else {
		resMag = approx.CAdd(a.Magnitude, bInA)
	}
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: resMag, Unit: a.Unit, Scale: a.Scale, Offset: a.Offset,
		UnitName: a.UnitName, BaseHint: a.BaseHint,
	}}, nil
}

func mulDiv(db *unitdb.Database, a, b *value.Number, div bool) (value.Value, error) {
	aBase, bBase := toBase(a), toBase(b)
	var resUnit units.Exponents
	var resMag *approx.Complex
	if div {
		if bBase.Re.Rat.Rat.Sign() == 0 && bBase.Im.Rat.Rat.Sign() == 0 {
			return value.Value{}, errf(KindDivisionByZero, "division by zero")
		}
		resUnit = units.Div(a.Unit, b.Unit)
		q, err := approx.CQuo(aBase, bBase)
		if err != nil {
			return value.Value{}, errf(KindDivisionByZero, "division by zero")
		}
		resMag = q
	} else {
		resUnit = units.Mul(a.Unit, b.Unit)
		resMag = approx.CMul(aBase, bBase)
	}
	result := &value.Number{Magnitude: resMag, Unit: resUnit, Scale: mustRat(1), BaseHint: a.BaseHint}
	return simplifyUnit(db, result, a, b, div), nil
}

func pow(a, b *value.Number) (value.Value, error) {
	if !b.Unit.IsEmpty() {
		return value.Value{}, errf(KindIncompatibleUnits, "exponent must be dimensionless")
	}
	if b.Magnitude.IsReal() && b.Magnitude.Re.Rat.IsInt() {
		n, ok := b.Magnitude.Re.Rat.AsInt64()
		if !ok {
			return value.Value{}, errf(KindOverflowGuard, "exponent too large")
		}
		if n > (1<<20) || n < -(1<<20) {
			return value.Value{}, errf(KindOverflowGuard, "exponent %d exceeds guard", n)
		}
		return intPow(a, n)
	}
	// Rational (non-integer) or irrational/complex exponent: scale unit
	// exponents by the rational part when possible, else require
	// dimensionless, then evaluate via the complex principal branch.
	if !a.Unit.IsEmpty() {
		if !b.Magnitude.IsReal() || !b.Magnitude.Re.Rat.Exact {
			return value.Value{}, errf(KindDomainError, "cannot raise a unit-bearing value to a non-rational power")
		}
		newUnit := units.Scale(a.Unit, b.Magnitude.Re.Rat)
		aBase := toBase(a)
		resMag, err := approx.CPow(aBase, b.Magnitude)
		if err != nil {
			return value.Value{}, errf(KindDomainError, "%s", err.Error())
		}
		return value.Value{Kind: value.KindNumber, Num: &value.Number{
			Magnitude: resMag, Unit: newUnit, Scale: mustRat(1), BaseHint: a.BaseHint,
		}}, nil
	}
	resMag, err := approx.CPow(a.Magnitude, b.Magnitude)
	if err != nil {
		return value.Value{}, errf(KindDomainError, "%s", err.Error())
	}
	return numberFromComplexUnit(resMag, a), nil
}

func numberFromComplexUnit(c *approx.Complex, like *value.Number) value.Value {
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: c, Unit: units.Dimensionless(), Scale: mustRat(1), BaseHint: like.BaseHint,
	}}
}

func intPow(a *value.Number, n int64) (value.Value, error) {
	neg := n < 0
	if neg {
		n = -n
	}
	mag := approx.FromReal(approx.Exact(mustRat(1)))
	magC := &approx.Complex{Re: mag, Im: approx.FromInt(0)}
	for i := int64(0); i < n; i++ {
		magC = approx.CMul(magC, a.Magnitude)
	}
	scale := mustRat(1)
	for i := int64(0); i < n; i++ {
		scale = bignum.Mul(scale, a.Scale)
	}
	exp, _ := bignum.NewExact(n)
	newUnit := units.Scale(a.Unit, exp)
	if neg {
		one := &approx.Complex{Re: approx.FromInt(1), Im: approx.FromInt(0)}
		q, err := approx.CQuo(one, magC)
		if err != nil {
			return value.Value{}, errf(KindDivisionByZero, "division by zero")
		}
		magC = q
		scaleOne := mustRat(1)
		s, err := bignum.Quo(scaleOne, scale)
		if err != nil {
			return value.Value{}, errf(KindDivisionByZero, "division by zero")
		}
		scale = s
		newUnit = units.Neg(newUnit)
	}
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: magC, Unit: newUnit, Scale: scale, BaseHint: a.BaseHint,
	}}, nil
}

func modulo(a, b *value.Number) (value.Value, error) {
	if !units.Equal(a.Unit, b.Unit) {
		return value.Value{}, errf(KindIncompatibleUnits, "units are incompatible for modulo")
	}
	if !a.Magnitude.IsReal() || !b.Magnitude.IsReal() {
		return value.Value{}, errf(KindDomainError, "modulo requires real operands")
	}
	r, err := bignum.Mod(a.Magnitude.Re.Rat, b.Magnitude.Re.Rat)
	if err != nil {
		return value.Value{}, errf(KindDivisionByZero, "modulo by zero")
	}
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: approx.FromReal(approx.Exact(r)), Unit: a.Unit, Scale: a.Scale, UnitName: a.UnitName, BaseHint: a.BaseHint,
	}}, nil
}

func asExactInt(n *value.Number) (*big.Int, error) {
	if !n.Magnitude.IsReal() || !n.Magnitude.Re.Rat.IsInt() {
		return nil, errf(KindDomainError, "bitwise operators require integer operands")
	}
	v, ok := n.Magnitude.Re.Rat.AsInt64()
	if !ok {
		return new(big.Int).Set(n.Magnitude.Re.Rat.Rat.Num()), nil
	}
	return big.NewInt(v), nil
}

func bitwise(a, b *value.Number, f func(x, y *big.Int) *big.Int) (value.Value, error) {
	if !units.Equal(a.Unit, b.Unit) {
		return value.Value{}, errf(KindIncompatibleUnits, "bitwise operators require identical units")
	}
	ai, err := asExactInt(a)
	if err != nil {
		return value.Value{}, err
	}
	bi, err := asExactInt(b)
	if err != nil {
		return value.Value{}, err
	}
	result := f(ai, bi)
	r, _ := bignum.NewExact(result)
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: approx.FromReal(approx.Exact(r)), Unit: a.Unit, Scale: a.Scale, UnitName: a.UnitName, BaseHint: a.BaseHint,
	}}, nil
}

func shift(a, b *value.Number, left bool) (value.Value, error) {
	ai, err := asExactInt(a)
	if err != nil {
		return value.Value{}, err
	}
	bi, err := asExactInt(b)
	if err != nil {
		return value.Value{}, err
	}
	if !bi.IsInt64() || bi.Int64() < 0 {
		return value.Value{}, errf(KindValueOutOfRange, "shift amount out of range")
	}
	n := uint(bi.Int64())
	var result *big.Int
	if left {
		result = new(big.Int).Lsh(ai, n)
	} else {
		result = new(big.Int).Rsh(ai, n)
	}
	r, _ := bignum.NewExact(result)
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: approx.FromReal(approx.Exact(r)), Unit: a.Unit, Scale: a.Scale, UnitName: a.UnitName, BaseHint: a.BaseHint,
	}}, nil
}

func permute(a, b *value.Number) (value.Value, error) {
	n, err := asExactInt(a)
	if err != nil {
		return value.Value{}, err
	}
	r, err := asExactInt(b)
	if err != nil {
		return value.Value{}, err
	}
	if r.Sign() < 0 || r.Cmp(n) > 0 {
		return value.Value{}, errf(KindDomainError, "permute requires 0 <= r <= n")
	}
	result := big.NewInt(1)
	ni, ri := n.Int64(), r.Int64()
	for i := int64(0); i < ri; i++ {
		result.Mul(result, big.NewInt(ni-i))
	}
	rr, _ := bignum.NewExact(result)
	return numberFromRat(rr), nil
}

func choose(a, b *value.Number) (value.Value, error) {
	n, err := asExactInt(a)
	if err != nil {
		return value.Value{}, err
	}
	r, err := asExactInt(b)
	if err != nil {
		return value.Value{}, err
	}
	if r.Sign() < 0 || r.Cmp(n) > 0 {
		return value.Value{}, errf(KindDomainError, "choose requires 0 <= r <= n")
	}
	result := new(big.Int).Binomial(n.Int64(), r.Int64())
	rr, _ := bignum.NewExact(result)
	return numberFromRat(rr), nil
}

func unaryNumberOp(op string, a *value.Number) (value.Value, error) {
	switch op {
	case "-":
		return value.Value{Kind: value.KindNumber, Num: &value.Number{
			Magnitude: approx.CNeg(a.Magnitude), Unit: a.Unit, Scale: a.Scale, Offset: a.Offset, UnitName: a.UnitName, BaseHint: a.BaseHint,
		}}, nil
	case "+":
		return value.Value{Kind: value.KindNumber, Num: a}, nil
	case "!":
		return factorial(a)
	case "%":
		return percent(a)
	}
	return value.Value{}, errf(KindInternalInvariant, "unknown unary operator %q", op)
}

// percent implements postfix '%': a numeral immediately followed by
// '%' is scaled by 1/100, spec.md §4.3 "Percent". The result carries
// UnitName "%" but keeps a's units, so a dimensionless percentage
// renders as the plain scalar (50% shows as 0.5). convert.go defines
// no '%' conversion target.
func percent(a *value.Number) (value.Value, error) {
	hundred := mustRat(100)
	scaled, err := approx.Quo(a.Magnitude.Re, approx.Exact(hundred))
	if err != nil {
		return value.Value{}, errf(KindDivisionByZero, "division by zero")
	}
	scaledIm, err := approx.Quo(a.Magnitude.Im, approx.Exact(hundred))
	if err != nil {
		return value.Value{}, errf(KindDivisionByZero, "division by zero")
	}
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: &approx.Complex{Re: scaled, Im: scaledIm}, Unit: a.Unit, Scale: a.Scale,
		Offset: a.Offset, UnitName: "%", BaseHint: a.BaseHint,
	}}, nil
}

func factorial(a *value.Number) (value.Value, error) {
	if !a.Unit.IsEmpty() {
		return value.Value{}, errf(KindDomainError, "factorial requires a dimensionless integer")
	}
	n, err := asExactInt(a)
	if err != nil {
		return value.Value{}, err
	}
	if n.Sign() < 0 {
		return value.Value{}, errf(KindDomainError, "factorial of a negative number")
	}
	if !n.IsInt64() || n.Int64() > 100000 {
		return value.Value{}, errf(KindOverflowGuard, "factorial argument too large")
	}
	result := big.NewInt(1)
	for i := int64(2); i <= n.Int64(); i++ {
		result.Mul(result, big.NewInt(i))
	}
	r, _ := bignum.NewExact(result)
	return numberFromRat(r), nil
}
