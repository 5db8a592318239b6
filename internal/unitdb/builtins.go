package unitdb

import (
	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/units"
)

// builtinDefs is a representative slice of the ~3000-entry GNU-units
// derived table spec.md §2 describes. Breadth across every base
// dimension and the derived-unit simplification table (§4.3 "Automatic
// simplification") is prioritized over exhaustive coverage of every
// historical unit name; the resolver and prefix-splitting machinery
// above scale to the full table without change, so the table can grow
// without touching the rest of unitdb (see DESIGN.md).
var builtinDefs = []*Def{
	// Base units, one per base dimension.
	{Singular: "m", Plural: "m", BaseOf: BaseUnitIntro("length"), AllowLongPrefix: true, AllowShortPrefix: true},
	{Singular: "s", Plural: "s", BaseOf: BaseUnitIntro("time"), AllowLongPrefix: true, AllowShortPrefix: true},
	{Singular: "g", Plural: "g", BaseOf: BaseUnitIntro("mass"), AllowLongPrefix: true, AllowShortPrefix: true},
	{Singular: "A", Plural: "A", BaseOf: BaseUnitIntro("current"), AllowLongPrefix: true, AllowShortPrefix: true},
	{Singular: "K", Plural: "K", BaseOf: BaseUnitIntro("temperature"), AllowLongPrefix: true, AllowShortPrefix: true},
	{Singular: "mol", Plural: "mol", BaseOf: BaseUnitIntro("amount"), AllowLongPrefix: true, AllowShortPrefix: true},
	{Singular: "cd", Plural: "cd", BaseOf: BaseUnitIntro("luminous"), AllowLongPrefix: true, AllowShortPrefix: true},
	{Singular: "rad", Plural: "rad", BaseOf: BaseUnitIntro("angle"), AllowLongPrefix: true, AllowShortPrefix: true},
	{Singular: "bit", Plural: "bits", BaseOf: BaseUnitIntro("information"), AllowShortPrefix: true},
	{Singular: "USD", Plural: "USD", BaseOf: BaseUnitIntro("currency")},

	// Length.
	{Singular: "in", Plural: "in", Components: []Component{{"m", "1"}}, Factor: "0.0254"},
	{Singular: "ft", Plural: "ft", Components: []Component{{"m", "1"}}, Factor: "0.3048"},
	{Singular: "yd", Plural: "yd", Components: []Component{{"m", "1"}}, Factor: "0.9144"},
	{Singular: "mi", Plural: "mi", Components: []Component{{"m", "1"}}, Factor: "1609.344"},
	{Singular: "nmi", Plural: "nmi", Components: []Component{{"m", "1"}}, Factor: "1852"},
	{Singular: "au", Plural: "au", Components: []Component{{"m", "1"}}, Factor: "149597870700"},
	{Singular: "ly", Plural: "ly", Components: []Component{{"m", "1"}}, Factor: "9460730472580800"},
	{Singular: "angstrom", Plural: "angstroms", Components: []Component{{"m", "1"}}, Factor: "1e-10"},

	// Mass.
	{Singular: "lb", Plural: "lb", Components: []Component{{"g", "1"}}, Factor: "453.59237"},
	{Singular: "oz", Plural: "oz", Components: []Component{{"g", "1"}}, Factor: "28.349523125"},
	{Singular: "tonne", Plural: "tonnes", Components: []Component{{"g", "1"}}, Factor: "1e6"},
	{Singular: "stone", Plural: "stone", Components: []Component{{"lb", "1"}}, Factor: "14"},

	// Time.
	{Singular: "min", Plural: "min", Components: []Component{{"s", "1"}}, Factor: "60"},
	{Singular: "hr", Plural: "hr", Components: []Component{{"s", "1"}}, Factor: "3600"},
	{Singular: "day", Plural: "days", Components: []Component{{"s", "1"}}, Factor: "86400"},
	{Singular: "week", Plural: "weeks", Components: []Component{{"day", "1"}}, Factor: "7"},
	{Singular: "year", Plural: "years", Components: []Component{{"day", "1"}}, Factor: "365.25"},

	// Volume (derived from length^3, not a base unit).
	{Singular: "L", Plural: "L", Components: []Component{{"m", "3"}}, Factor: "0.001", AllowLongPrefix: true, AllowShortPrefix: true},
	{Singular: "gal", Plural: "gal", Components: []Component{{"L", "1"}}, Factor: "3.785411784"},
	{Singular: "qt", Plural: "qt", Components: []Component{{"gal", "1"}}, Factor: "0.25"},
	{Singular: "pt", Plural: "pt", Components: []Component{{"qt", "1"}}, Factor: "0.5"},
	{Singular: "cup", Plural: "cups", Components: []Component{{"pt", "1"}}, Factor: "0.5"},
	{Singular: "floz", Plural: "floz", Components: []Component{{"cup", "1"}}, Factor: "0.125"},

	// Temperature: K is the absolute base; C and F are affine atop K.
	// A +1 K delta leaves 0 °C + 1 K = 1 °C (spec.md §8's affine law):
	// Offset is the additive constant converting a *value already
	// multiplied by Factor* into kelvin, so dC/dF (pure deltas) must be
	// separate non-affine definitions from °C/°F (absolute points).
	{Singular: "degC", Plural: "degC", Components: []Component{{"K", "1"}}, Factor: "1", Offset: "273.15"},
	{Singular: "degF", Plural: "degF", Components: []Component{{"K", "1"}}, Factor: "5/9", Offset: "45967/180"},
	{Singular: "dC", Plural: "dC", Components: []Component{{"K", "1"}}, Factor: "1"},
	{Singular: "dF", Plural: "dF", Components: []Component{{"K", "1"}}, Factor: "5/9"},

	// Current, amount, luminous: SI-prefixable as-is (A, mol, cd above).

	// Angle.
	{Singular: "deg", Plural: "deg", Components: []Component{{"rad", "1"}}, Factor: "0.017453292519943295"},
	{Singular: "turn", Plural: "turns", Components: []Component{{"rad", "1"}}, Factor: "6.283185307179586"},
	{Singular: "arcmin", Plural: "arcmin", Components: []Component{{"deg", "1"}}, Factor: "1/60"},
	{Singular: "arcsec", Plural: "arcsec", Components: []Component{{"arcmin", "1"}}, Factor: "1/60"},

	// Information.
	{Singular: "byte", Plural: "bytes", Components: []Component{{"bit", "1"}}, Factor: "8", AllowLongPrefix: true, AllowShortPrefix: true},

	// Derived SI units with named automatic simplification (spec.md
	// §4.3): expressed in terms of the gram base (scale already
	// absorbs the kilogram factor where the SI definition uses kg).
	{Singular: "N", Plural: "N", Components: []Component{{"g", "1"}, {"m", "1"}, {"s", "-2"}}, Factor: "1000", AllowShortPrefix: true},
	{Singular: "J", Plural: "J", Components: []Component{{"N", "1"}, {"m", "1"}}, Factor: "1", AllowShortPrefix: true},
	{Singular: "W", Plural: "W", Components: []Component{{"J", "1"}, {"s", "-1"}}, Factor: "1", AllowShortPrefix: true},
	{Singular: "Pa", Plural: "Pa", Components: []Component{{"N", "1"}, {"m", "-2"}}, Factor: "1", AllowShortPrefix: true},
	{Singular: "Hz", Plural: "Hz", Components: []Component{{"s", "-1"}}, Factor: "1", AllowShortPrefix: true},
	{Singular: "C", Plural: "C", Components: []Component{{"A", "1"}, {"s", "1"}}, Factor: "1", AllowShortPrefix: true},
	{Singular: "V", Plural: "V", Components: []Component{{"W", "1"}, {"A", "-1"}}, Factor: "1", AllowShortPrefix: true},
	{Singular: "ohm", Plural: "ohm", Components: []Component{{"V", "1"}, {"A", "-1"}}, Factor: "1", AllowShortPrefix: true},
	{Singular: "F", Plural: "F", Components: []Component{{"C", "1"}, {"V", "-1"}}, Factor: "1", AllowShortPrefix: true},
	{Singular: "Wh", Plural: "Wh", Components: []Component{{"W", "1"}, {"hr", "1"}}, Factor: "1"},
}

// derivedSimplifications lists named units the simplifier (internal/eval)
// may substitute for an equal exponent vector after a multiplicative
// operation, preferred in the listed order when more than one is an
// equally exact match. Grounded on spec.md §4.3's worked example
// (m·kg/s² -> newton).
var derivedSimplifications = []string{"N", "J", "W", "Pa", "Hz", "C", "V", "ohm", "F", "Wh"}

// DerivedNames returns the ordered candidate list for automatic unit
// simplification.
func (db *Database) DerivedNames() []string { return derivedSimplifications }

// Def looks up a definition by exact name without attempting prefix or
// case-insensitive resolution; used by the simplifier to fetch a
// candidate unit's resolved exponents/scale for comparison.
func (db *Database) Def(name string) (*Def, bool) {
	d, ok := db.byName[name]
	return d, ok
}

// ResolvedUnit is the (exponents, scale, offset) triple produced by
// resolving a definition to base units.
type ResolvedUnit struct {
	Unit   units.Exponents
	Scale  *bignum.BigRat
	Offset *bignum.BigRat
}

// Resolved exposes resolveDef for callers (e.g. the simplifier) that
// already know the exact name.
func (db *Database) Resolved(name string) (ResolvedUnit, error) {
	r, err := db.resolveDef(name)
	if err != nil {
		return ResolvedUnit{}, err
	}
	return ResolvedUnit{Unit: r.Unit, Scale: r.Scale, Offset: r.Offset}, nil
}
