// Package value implements Value, the tagged union every expression
// evaluates to (spec.md §3), plus the Scope chain values are looked up
// and bound through.
//
// Grounded on the teacher's Value type (value.go: `Value struct {
// number *Number; units Unit }`), generalized from "always a number,
// maybe with units" to the full closed sum spec.md names: Number,
// String, Date, Lambda, Dist, BuiltinFn, Object. The teacher's
// Operator-table dispatch style (OPERATOR map[string]Operator, each
// entry a func pointer plus boolean gates) carries over directly into
// the arithmetic placed in internal/eval rather than on Value itself,
// since units.Exponents/approx.Complex combination needs error returns
// the teacher's panicking Operator.exec does not support (see
// DESIGN.md).
package value

import (
	"fmt"

	"github.com/mikecarlton/qcalc/internal/approx"
	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/dateutil"
	"github.com/mikecarlton/qcalc/internal/units"
)

// Kind tags which field of Value is populated.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindDate
	KindLambda
	KindDist
	KindBuiltinFn
	KindObject
	KindFormatSpec
	KindBaseSpec
	KindUnitValue // a bare unit name used as a value, e.g. referring to "km" itself
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindLambda:
		return "lambda"
	case KindDist:
		return "distribution"
	case KindBuiltinFn:
		return "builtin"
	case KindObject:
		return "object"
	case KindFormatSpec:
		return "format"
	case KindBaseSpec:
		return "base"
	case KindUnitValue:
		return "unit"
	default:
		return "unknown"
	}
}

// Number is a magnitude with a unit, scale, and optional affine offset,
// per spec.md §3.
type Number struct {
	Magnitude  *approx.Complex
	Unit       units.Exponents
	Scale      *bignum.BigRat // multiplicative factor against the base-unit product
	Offset     *bignum.BigRat // non-nil only for affine scales (°C, °F); nil otherwise
	UnitName   string         // display name of the unit last applied, e.g. "km" (empty for unitless)
	BaseHint   int            // display radix, 2..36, default 10
	FormatHint bignum.FormatKind
	FormatArg  int // N for FormatDecimalPlaces/FormatSignificantFigures
}

// IsDimensionless reports whether n carries no units.
func (n *Number) IsDimensionless() bool { return n.Unit.IsEmpty() }

// FormatSpec names a conversion target that isn't a unit: `N dp`,
// `N sf`, `fraction`, `roman`, `words`, `string`, `date`, `codepoint`,
// `character`, `text`, `exact`, `auto`, `float`, `binary`, `base N`.
type FormatSpec struct {
	Kind bignum.FormatKind
	N    int // significant figures / decimal places count, when applicable
}

// BaseSpec names a display radix conversion target (`to hex`, `to base 6`).
type BaseSpec struct {
	Base int
}

// Lambda captures its defining Scope (by reference, non-owning per
// spec.md §9 "Lambda closures") plus its parameter name and
// unevaluated body. The body's concrete type is declared by the
// caller (internal/eval) via the Body any field to avoid an import
// cycle between value and parser; internal/eval type-asserts it back
// to *parser.Expr.
type Lambda struct {
	Param   string
	Body    any
	Closure *Scope
}

// Dist is an exact discrete probability distribution over integer
// outcomes, spec.md §3/§4.6.
type Dist struct {
	Outcomes []int64
	Probs    map[int64]*bignum.BigRat
}

// Prob returns the probability of outcome o, or exact zero if absent.
func (d *Dist) Prob(o int64) *bignum.BigRat {
	if p, ok := d.Probs[o]; ok {
		return p
	}
	z, _ := bignum.NewExact(0)
	return z
}

// BuiltinFunc is the signature every built-in function and operator
// implementation must satisfy once bound into a Scope frame.
type BuiltinFunc func(args []Value) (Value, error)

// BuiltinFn names and wraps a BuiltinFunc for display purposes (so
// printing an unapplied builtin shows its name, matching how the
// teacher's CONSTANTS/OPERATOR tables are keyed by name for messages).
type BuiltinFn struct {
	Name string
	Fn   BuiltinFunc
}

// Value is the tagged union every expression evaluates to.
type Value struct {
	Kind Kind

	Num        *Number
	Str        string
	Date       dateutil.Date
	Lambda     *Lambda
	Dist       *Dist
	Builtin    *BuiltinFn
	Object     map[string]Value
	Format     FormatSpec
	Base       BaseSpec
	UnitMarker string // for KindUnitValue: the unit's canonical name
}

// FromInt constructs a dimensionless Number Value from an exact integer,
// the common case for literal construction in tests and builtins.
func FromInt(v int64) Value {
	r, _ := bignum.NewExact(v)
	one, _ := bignum.NewExact(1)
	return Value{Kind: KindNumber, Num: &Number{
		Magnitude: approx.FromReal(approx.Exact(r)),
		Unit:      units.Dimensionless(),
		Scale:     one,
		BaseHint:  10,
	}}
}

// FromString constructs a String Value.
func FromString(s string) Value { return Value{Kind: KindString, Str: s} }

// FromDate constructs a Date Value.
func FromDate(d dateutil.Date) Value { return Value{Kind: KindDate, Date: d} }

// FromDist constructs a Dist Value.
func FromDist(d *Dist) Value { return Value{Kind: KindDist, Dist: d} }

// Unit is the dimensionless scalar value 1, used as the result of an
// empty sequence or trailing separator (spec.md §4.3 "Sequence").
func Unit() Value { return FromInt(1) }

// TypeName reports a short name for error messages.
func (v Value) TypeName() string { return v.Kind.String() }

// String implements a debugging Stringer; internal/format owns the
// user-facing renderer.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return fmt.Sprintf("%s %s", v.Num.Magnitude.Re.Rat.String(), v.Num.Unit.String())
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindDate:
		return v.Date.String()
	case KindLambda:
		return fmt.Sprintf("\\%s.<body>", v.Lambda.Param)
	case KindDist:
		return "<distribution>"
	case KindBuiltinFn:
		return fmt.Sprintf("<builtin %s>", v.Builtin.Name)
	case KindObject:
		return "<object>"
	case KindUnitValue:
		return v.UnitMarker
	default:
		return "<value>"
	}
}
