package eval

import "fmt"

// Kind enumerates the error categories spec.md §7 names. Unlike the
// teacher's die()/panic call sites (calc.go, value.go), every Kind here
// is returned, never thrown, except for the single top-level recover
// backstop in qcalc.Evaluate.
type Kind string

const (
	KindParseError          Kind = "parse-error"
	KindUnknownIdentifier   Kind = "unknown-identifier"
	KindIncompatibleUnits   Kind = "incompatible-units"
	KindDivisionByZero      Kind = "division-by-zero"
	KindValueOutOfRange     Kind = "value-out-of-range"
	KindDomainError         Kind = "domain-error"
	KindInvalidBase         Kind = "invalid-base"
	KindInvalidFormat       Kind = "invalid-format"
	KindInvalidDate         Kind = "invalid-date"
	KindOverflowGuard       Kind = "overflow-guard"
	KindCurrencyUnavailable Kind = "currency-unavailable"
	KindRandomUnavailable   Kind = "random-unavailable"
	KindInterrupted         Kind = "interrupted"
	KindTimedOut            Kind = "timed-out"
	KindInternalInvariant   Kind = "internal-invariant-violation"
)

// Error is the concrete error type every evaluation failure returns.
// Grounded on the message-building style of the teacher's die/panic
// call sites (value.go:78's `fmt.Sprintf("Incompatible units for '%s': %s vs %s", ...)`),
// generalized to a returned value carrying a Kind rather than a string
// printed straight to stderr before exit.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("Error: %s", e.Message) }

func errf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}
