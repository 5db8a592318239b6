package eval

import (
	"github.com/mikecarlton/qcalc/internal/approx"
	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/unitdb"
	"github.com/mikecarlton/qcalc/internal/units"
	"github.com/mikecarlton/qcalc/internal/value"
)

func mustRat(v any) *bignum.BigRat { return bignum.MustExact(v) }

// numberFromComplex builds a dimensionless Number.
func numberFromComplex(c *approx.Complex) value.Value {
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: c,
		Unit:      units.Dimensionless(),
		Scale:     mustRat(1),
		BaseHint:  10,
	}}
}

func numberFromRat(r *bignum.BigRat) value.Value {
	return numberFromComplex(approx.FromReal(approx.Exact(r)))
}

// toBase converts n to its pure base-unit representation: magnitude
// expressed directly in base units with scale 1 and no offset, per
// spec.md §4.3's "promote both operands to base form" rule for * / and
// for +/- across affine units.
func toBase(n *value.Number) *approx.Complex {
	scaled := approx.Mul(n.Magnitude.Re, approx.Exact(n.Scale))
	re := scaled
	if n.Offset != nil {
		re = approx.Add(scaled, approx.Exact(n.Offset))
	}
	im := approx.Mul(n.Magnitude.Im, approx.Exact(n.Scale))
	return &approx.Complex{Re: re, Im: im}
}

// fromBase builds a display Number for baseMag (pure base-unit value)
// shown at the given scale/offset/unitName.
func fromBase(baseMag *approx.Complex, unit units.Exponents, scale, offset *bignum.BigRat, unitName string) (value.Value, error) {
	re := baseMag.Re
	if offset != nil {
		re = approx.Sub(re, approx.Exact(offset))
	}
	reScaled, err := approx.Quo(re, approx.Exact(scale))
	if err != nil {
		return value.Value{}, errf(KindDivisionByZero, "division by zero converting to %s", unitName)
	}
	imScaled, err := approx.Quo(baseMag.Im, approx.Exact(scale))
	if err != nil {
		return value.Value{}, errf(KindDivisionByZero, "division by zero converting to %s", unitName)
	}
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: &approx.Complex{Re: reScaled, Im: imScaled},
		Unit:      unit,
		Scale:     scale,
		Offset:    offset,
		UnitName:  unitName,
		BaseHint:  10,
	}}, nil
}

// simplifyUnit scans the derived-unit table for an exact exponent-vector
// match and relabels n for display in that unit, per spec.md §4.3
// "Automatic simplification". n must already be in base form (Scale=1,
// Offset=nil, UnitName=""). Failing a named-derived-unit match, it
// falls back to a display name/scale built from a and b's own units
// (spec.md §8 scenario 9, `4 kg * 2` must stay `8 kg` rather than
// silently losing its unit) instead of leaving UnitName empty.
func simplifyUnit(db *unitdb.Database, n *value.Number, a, b *value.Number, div bool) value.Value {
	for _, name := range db.DerivedNames() {
		def, ok := db.Def(name)
		if !ok {
			continue
		}
		r, err := db.Resolved(name)
		if err != nil {
			continue
		}
		if units.Equal(n.Unit, r.Unit) {
			out, err := fromBase(n.Magnitude, n.Unit, r.Scale, r.Offset, def.Name(isMagnitudeOne(n.Magnitude)))
			if err == nil {
				return out
			}
		}
	}
	if n.Unit.IsEmpty() {
		return value.Value{Kind: value.KindNumber, Num: n}
	}
	if scale, name, ok := combineDisplay(a, b, div); ok {
		if out, err := fromBase(n.Magnitude, n.Unit, scale, nil, name); err == nil {
			return out
		}
	}
	return value.Value{Kind: value.KindNumber, Num: n}
}

// combineDisplay builds a fallback display scale/name for a compound
// unit result when no named derived unit applies, composing operand
// names the way units.Exponents.String joins dimensions ("A / B",
// "A B") rather than discarding them.
func combineDisplay(a, b *value.Number, div bool) (*bignum.BigRat, string, bool) {
	if div {
		if b.Scale.Rat.Sign() == 0 {
			return nil, "", false
		}
	}
	var scale *bignum.BigRat
	if div {
		q, err := bignum.Quo(a.Scale, b.Scale)
		if err != nil {
			return nil, "", false
		}
		scale = q
	} else {
		scale = bignum.Mul(a.Scale, b.Scale)
	}

	switch {
	case a.UnitName != "" && b.UnitName == "":
		return scale, a.UnitName, true
	case a.UnitName == "" && b.UnitName != "":
		if div {
			return scale, "1 / " + b.UnitName, true
		}
		return scale, b.UnitName, true
	case a.UnitName != "" && b.UnitName != "":
		if div {
			return scale, a.UnitName + " / " + b.UnitName, true
		}
		return scale, a.UnitName + " " + b.UnitName, true
	}
	return nil, "", false
}

func isMagnitudeOne(c *approx.Complex) bool {
	return c.IsReal() && bignum.Cmp(c.Re.Rat, mustRat(1)) == 0
}
