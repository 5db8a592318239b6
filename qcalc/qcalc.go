// Package qcalc is the public entry point: lex, parse, evaluate, and
// render a single input string against a Context built from Config,
// round-tripping the user's variable scope through internal/serialize.
//
// Grounded on the teacher's calc.go:main, generalized from "loop over
// os.Args, print to stdout, os.Exit on error" to a single pure
// function a caller (CLI, REPL, WASM, whatever) drives itself.
package qcalc

import (
	"context"
	"fmt"

	"github.com/mikecarlton/qcalc/internal/currency"
	"github.com/mikecarlton/qcalc/internal/eval"
	"github.com/mikecarlton/qcalc/internal/format"
	"github.com/mikecarlton/qcalc/internal/lexer"
	"github.com/mikecarlton/qcalc/internal/parser"
	"github.com/mikecarlton/qcalc/internal/serialize"
	"github.com/mikecarlton/qcalc/internal/unitdb"
)

// Config selects the handful of per-call knobs spec.md §5/§6 name;
// everything else (units, constants, math builtins) comes from
// eval.NewContext's fixed bootstrap scope.
type Config struct {
	DecimalStyle lexer.DecimalStyle
	Group        bool // digit grouping on output, per spec.md §4.4
	BaseHint     int  // default display radix, 0 means 10

	Currency eval.CurrencyHandler
	Random   eval.RandomHandler

	// UnitCache, if set (via OpenUnitCache), lets repeated Evaluate
	// calls in a long-running process share one on-disk unit-resolution
	// cache instead of each rebuilding a fresh Context's memo from
	// scratch.
	UnitCache *unitdb.Cache
}

// Result is the outcome of one Evaluate call.
type Result struct {
	OK        bool
	Output    string
	Variables []byte
	Err       error
}

// Evaluate lexes, parses, and evaluates input against a fresh Context
// seeded from vars (the prior call's Result.Variables, or nil for a
// blank scope), returning the rendered answer and the updated scope
// re-encoded for the next call. A single top-level recover converts
// any programmer-error panic into an internal-invariant-violation
// result instead of propagating it, mirroring calc.go:main's
// `defer func() { recover() }()` but returning rather than exiting.
func Evaluate(ctx context.Context, input string, vars []byte, cfg Config) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Err: &eval.Error{Kind: eval.KindInternalInvariant, Message: fmt.Sprintf("%v", r)}}
		}
	}()

	c := eval.NewContext()
	if cfg.BaseHint != 0 {
		c.BaseHint = cfg.BaseHint
	}
	c.Currency = cfg.Currency
	c.Random = cfg.Random
	c.DecimalStyle = int(cfg.DecimalStyle)
	if cfg.UnitCache != nil {
		c.Units.UseCache(cfg.UnitCache)
	}

	frame, err := serialize.Decode(vars)
	if err != nil {
		return Result{Err: err}
	}
	for name, v := range frame {
		c.Scope.Set(name, v)
	}

	expr, err := parser.Parse(input, cfg.DecimalStyle)
	if err != nil {
		return Result{Err: err}
	}

	v, err := eval.Eval(ctx, c, expr)
	if err != nil {
		return Result{Err: err}
	}

	opt := format.Options{Group: cfg.Group}
	applyAttributes(lastStatement(expr), &opt)

	out, err := format.Render(v, opt)
	if err != nil {
		return Result{Err: err}
	}
	if !opt.NoTrailingNewline {
		out += "\n"
	}

	blob, err := serialize.Encode(c.Scope.InnermostFrame())
	if err != nil {
		return Result{Err: err}
	}

	return Result{OK: true, Output: out, Variables: blob}
}

// OpenCurrencyHandler wires a ready-to-use CurrencyHandler backed by
// internal/currency.OpenExchangeRates, for callers (cmd/qcalc) that
// want live exchange rates without reaching into internal/ themselves.
func OpenCurrencyHandler(date string) (eval.CurrencyHandler, func(), error) {
	oxr, err := currency.Open()
	if err != nil {
		return nil, nil, err
	}
	oxr.Date = date
	return oxr.Handler(), oxr.Close, nil
}

// OpenUnitCache wires a ready-to-use persistent unit-resolution cache
// backed by internal/unitdb.OpenCache, for callers (cmd/qcalc) that
// want cross-call resolution caching (Config.UnitCache) without
// reaching into internal/ themselves. Mirrors OpenCurrencyHandler's
// open-once/Close-on-exit shape.
func OpenUnitCache() (*unitdb.Cache, func(), error) {
	c, err := unitdb.OpenCache()
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// lastStatement descends to the final statement of a top-level
// sequence, the one whose leading attributes govern this call's
// output (spec.md §4.1 "a leading @name... applies to the remainder
// of the current statement").
func lastStatement(e *parser.Expr) *parser.Expr {
	for e.Kind == parser.KindSeq && len(e.Stmts) > 0 {
		e = e.Stmts[len(e.Stmts)-1]
	}
	return e
}

// applyAttributes walks e's chain of leading @name wrappers, setting
// the corresponding format.Options field for each one it recognises.
func applyAttributes(e *parser.Expr, opt *format.Options) {
	for e != nil && e.Kind == parser.KindAttribute {
		switch e.Name {
		case "plain_number":
			opt.PlainNumber = true
		case "noapprox":
			opt.NoApprox = true
		case "no_trailing_newline":
			opt.NoTrailingNewline = true
		}
		e = e.X
	}
}
