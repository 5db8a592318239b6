package eval

import (
	"context"

	"github.com/mikecarlton/qcalc/internal/parser"
	"github.com/mikecarlton/qcalc/internal/units"
	"github.com/mikecarlton/qcalc/internal/value"
)

// evalConvert implements `to`/`as`/`in`, spec.md §4.3/§4.5. The right
// side is evaluated through the very same Eval used everywhere else;
// it is expected to settle on a unit-bearing Number, a FormatSpec, or
// a BaseSpec, since those are the only things the base scope binds
// "fraction", "dp 3", "hex" and friends to.
func evalConvert(goCtx context.Context, c *Context, e *parser.Expr) (value.Value, error) {
	left, err := Eval(goCtx, c, e.X)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Eval(goCtx, c, e.Y)
	if err != nil {
		return value.Value{}, err
	}

	switch right.Kind {
	case value.KindNumber:
		return convertUnit(left, right.Num)
	case value.KindFormatSpec:
		return applyFormatSpec(left, right.Format)
	case value.KindBaseSpec:
		return applyBaseSpec(left, right.Base)
	case value.KindUnitValue:
		exp, scale, offset, lookupErr := c.Units.Lookup(right.UnitMarker)
		if lookupErr != nil {
			return value.Value{}, errf(KindIncompatibleUnits, "unknown conversion target %q", right.UnitMarker)
		}
		return convertUnit(left, &value.Number{Unit: exp, Scale: scale, Offset: offset, UnitName: right.UnitMarker})
	}
	return value.Value{}, errf(KindDomainError, "cannot convert to a %s", right.Kind.String())
}

// convertUnit re-expresses left's magnitude in target's display scale
// and offset, requiring identical unit exponents (spec.md §4.3 "Unit
// conversion"): both operands are promoted to base form, then the
// magnitude is relabeled using target's Scale/Offset/UnitName.
func convertUnit(left value.Value, target *value.Number) (value.Value, error) {
	if left.Kind != value.KindNumber {
		return value.Value{}, errf(KindDomainError, "cannot convert a %s to a unit", left.Kind.String())
	}
	a := left.Num
	if !units.Equal(a.Unit, target.Unit) {
		return value.Value{}, errf(KindIncompatibleUnits, "cannot convert %s to %s", a.Unit.String(), target.Unit.String())
	}
	baseMag := toBase(a)
	return fromBase(baseMag, target.Unit, target.Scale, target.Offset, target.UnitName)
}

func applyFormatSpec(left value.Value, spec value.FormatSpec) (value.Value, error) {
	if left.Kind != value.KindNumber {
		return value.Value{}, errf(KindDomainError, "cannot apply a display format to a %s", left.Kind.String())
	}
	n := *left.Num
	n.FormatHint = spec.Kind
	n.FormatArg = spec.N
	return value.Value{Kind: value.KindNumber, Num: &n, Format: spec}, nil
}

func applyBaseSpec(left value.Value, spec value.BaseSpec) (value.Value, error) {
	if left.Kind != value.KindNumber {
		return value.Value{}, errf(KindDomainError, "cannot apply a display base to a %s", left.Kind.String())
	}
	if spec.Base < 2 || spec.Base > 36 {
		return value.Value{}, errf(KindInvalidBase, "display base must be between 2 and 36, got %d", spec.Base)
	}
	n := *left.Num
	n.BaseHint = spec.Base
	return value.Value{Kind: value.KindNumber, Num: &n}, nil
}
