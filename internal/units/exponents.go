// Package units implements the dimensional algebra layer: vectors of
// base-unit exponents, equality/compatibility checks, and the
// multiplicative combination rules arithmetic needs.
//
// Grounded on the teacher's Unit type (value.go, unit.go): the teacher
// keeps a fixed [Dimension]UnitPower array over six hand-picked
// dimensions with integer powers. UnitExponents generalizes this to the
// ten base units spec.md §3 names, with BigRat-valued (not int)
// exponents so `sqrt(second)` can produce a half-integer power, and
// switches from a dense array to a sparse map since most values only
// ever touch one or two base units.
package units

import (
	"fmt"
	"sort"

	"github.com/mikecarlton/qcalc/internal/bignum"
)

// BaseUnit identifies one of the fixed canonical physical dimensions.
type BaseUnit string

const (
	Mass        BaseUnit = "mass"
	Length      BaseUnit = "length"
	Time        BaseUnit = "time"
	Current     BaseUnit = "current"
	Temperature BaseUnit = "temperature"
	Amount      BaseUnit = "amount"
	Luminous    BaseUnit = "luminous"
	Angle       BaseUnit = "angle"
	Information BaseUnit = "information"
	Currency    BaseUnit = "currency"
)

// allBaseUnits lists the base units in a canonical order. Exponents.String
// does not use it; it sorts dimension names alphabetically.
var allBaseUnits = []BaseUnit{Mass, Length, Time, Current, Temperature, Amount, Luminous, Angle, Information, Currency}

// Exponents maps a base unit to its exponent. Absent key means exponent
// zero; this is the dimensionless unit value when the map is empty.
type Exponents map[BaseUnit]*bignum.BigRat

// Dimensionless returns the empty exponent vector.
func Dimensionless() Exponents { return Exponents{} }

// Single returns the exponent vector for one base unit raised to an
// integer power (the common case: `m` -> {length: 1}).
func Single(u BaseUnit, power int64) Exponents {
	if power == 0 {
		return Dimensionless()
	}
	e, _ := bignum.NewExact(power)
	return Exponents{u: e}
}

func (e Exponents) clone() Exponents {
	out := make(Exponents, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// normalize drops zero-valued entries so the invariant "absent key
// implies zero" holds after arithmetic.
func (e Exponents) normalize() Exponents {
	out := make(Exponents, len(e))
	zero, _ := bignum.NewExact(0)
	for k, v := range e {
		if bignum.Cmp(v, zero) != 0 {
			out[k] = v
		}
	}
	return out
}

// IsEmpty reports whether e is dimensionless.
func (e Exponents) IsEmpty() bool { return len(e.normalize()) == 0 }

// Equal reports whether two exponent vectors represent the same unit
// expression (spec.md §3: "two unit expressions are compatible iff
// their exponent maps are equal as functions").
func Equal(a, b Exponents) bool {
	na, nb := a.normalize(), b.normalize()
	if len(na) != len(nb) {
		return false
	}
	for k, v := range na {
		ov, ok := nb[k]
		if !ok || bignum.Cmp(v, ov) != 0 {
			return false
		}
	}
	return true
}

// Mul adds exponents (used for multiplying Number values).
func Mul(a, b Exponents) Exponents {
	out := a.clone()
	for k, v := range b {
		if cur, ok := out[k]; ok {
			out[k] = bignum.Add(cur, v)
		} else {
			out[k] = v
		}
	}
	return out.normalize()
}

// Div subtracts exponents (used for dividing Number values).
func Div(a, b Exponents) Exponents {
	out := a.clone()
	for k, v := range b {
		if cur, ok := out[k]; ok {
			out[k] = bignum.Sub(cur, v)
		} else {
			out[k] = bignum.Neg(v)
		}
	}
	return out.normalize()
}

// Scale multiplies every exponent by a rational factor, used by Pow
// (x^(p/q) scales unit exponents by p/q) and by Sqrt/Cbrt (scale by
// 1/2, 1/3).
func Scale(a Exponents, factor *bignum.BigRat) Exponents {
	out := make(Exponents, len(a))
	for k, v := range a {
		out[k] = bignum.Mul(v, factor)
	}
	return out.normalize()
}

// Neg negates every exponent (used for reciprocal).
func Neg(a Exponents) Exponents {
	out := make(Exponents, len(a))
	for k, v := range a {
		out[k] = bignum.Neg(v)
	}
	return out.normalize()
}

// String renders the exponent vector for debugging, e.g. "length^1 time^-2".
func (e Exponents) String() string {
	n := e.normalize()
	keys := make([]BaseUnit, 0, len(n))
	for k := range n {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	s := ""
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s^%s", k, n[k].String())
	}
	return s
}
