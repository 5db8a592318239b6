package eval

import (
	"context"

	"github.com/mikecarlton/qcalc/internal/parser"
	"github.com/mikecarlton/qcalc/internal/value"
)

// evalApply evaluates a juxtaposition node. Depending on the left
// operand's kind this means: lambda application, built-in-function
// application, or unit/scalar attachment ("5 kg", "3 dp") — spec.md
// §4.3 "Lambdas" and §4.5's unit-suffix juxtaposition share this one
// mechanism, mirroring the teacher's single polymorphic Value.apply.
func evalApply(goCtx context.Context, c *Context, e *parser.Expr) (value.Value, error) {
	left, err := Eval(goCtx, c, e.X)
	if err != nil {
		return value.Value{}, err
	}
	switch left.Kind {
	case value.KindLambda:
		arg, err := Eval(goCtx, c, e.Y)
		if err != nil {
			return value.Value{}, err
		}
		return applyLambda(goCtx, c, left.Lambda, arg)
	case value.KindBuiltinFn:
		arg, err := Eval(goCtx, c, e.Y)
		if err != nil {
			return value.Value{}, err
		}
		return left.Builtin.Fn([]value.Value{arg})
	case value.KindNumber:
		right, err := Eval(goCtx, c, e.Y)
		if err != nil {
			return value.Value{}, err
		}
		if right.Kind == value.KindBuiltinFn {
			return right.Builtin.Fn([]value.Value{left})
		}
		if right.Kind != value.KindNumber {
			return value.Value{}, errf(KindDomainError, "cannot apply a %s to a number", right.Kind.String())
		}
		return mulDiv(c.Units, left.Num, right.Num, false)
	}
	return value.Value{}, errf(KindDomainError, "cannot apply a value of kind %s", left.Kind.String())
}

func applyLambda(goCtx context.Context, c *Context, l *value.Lambda, arg value.Value) (value.Value, error) {
	body, ok := l.Body.(*parser.Expr)
	if !ok {
		return value.Value{}, errf(KindInternalInvariant, "lambda body is not an expression")
	}
	inner := &Context{
		Scope: l.Closure.Push(value.Frame{l.Param: arg}),
		Units: c.Units, Currency: c.Currency, Random: c.Random, BaseHint: c.BaseHint, DecimalStyle: c.DecimalStyle,
	}
	inner.Interrupted.Store(c.Interrupted.Load())
	return Eval(goCtx, inner, body)
}
