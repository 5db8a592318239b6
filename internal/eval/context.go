package eval

import (
	"context"
	"sync/atomic"

	"github.com/mikecarlton/qcalc/internal/unitdb"
	"github.com/mikecarlton/qcalc/internal/value"
)

// CurrencyHandler looks up a currency code's scale relative to USD, or
// returns ok=false if the rate is unavailable (spec.md §4.5 step 5).
type CurrencyHandler func(code string) (scale float64, ok bool)

// RandomHandler supplies n uniformly-random bytes for `roll`, or
// returns ok=false when no source is configured.
type RandomHandler func(n int) (b []byte, ok bool)

// Context is the process-wide mutable evaluation environment: user
// scope, unit database, and the handler/cancellation hooks spec.md §5
// describes. Not shared between concurrent evaluations.
//
// Grounded on the teacher's global `options` struct (options.go) plus
// Stack (stack.go) for "small mutable evaluation companion object";
// generalized so multiple independent Contexts can be constructed
// instead of one process-global.
type Context struct {
	Scope  *value.Scope
	Units  *unitdb.Database
	Ans    value.Value
	HasAns bool

	DecimalStyle int // 0 = dot, 1 = comma, mirrors lexer.DecimalStyle without importing it here
	BaseHint     int

	Currency CurrencyHandler
	Random   RandomHandler

	Interrupted atomic.Bool
}

// NewContext builds a Context with the built-in scope (constants,
// format/base specs, math functions), the built-in unit database, and
// no handlers configured.
func NewContext() *Context {
	return &Context{
		Scope:    bootstrapScope(),
		Units:    unitdb.New(),
		BaseHint: 10,
	}
}

// checkCancel reports the interrupt/timeout error if either has
// fired, per spec.md §4.7. Eval calls it on entry to every recursion
// step; the arithmetic helpers (factorial, integer powers, bignum
// loops) do not call it, so a single long-running operation is not
// interrupted part way through.
func (c *Context) checkCancel(ctx context.Context) error {
	if c.Interrupted.Load() {
		return &Error{Kind: KindInterrupted, Message: "evaluation interrupted"}
	}
	if ctx != nil && ctx.Err() != nil {
		return &Error{Kind: KindTimedOut, Message: "evaluation timed out"}
	}
	return nil
}
