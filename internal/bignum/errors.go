package bignum

import "errors"

// ErrDivisionByZero is returned by any quotient operation given a zero
// divisor.
var ErrDivisionByZero = errors.New("bignum: division by zero")
