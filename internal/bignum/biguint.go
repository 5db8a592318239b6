// Package bignum provides the unbounded integer and rational primitives
// the rest of qcalc builds on.
package bignum

import (
	"fmt"
	"math/big"
)

// BigUInt is an arbitrary-precision unsigned integer.
//
// Embed *big.Int directly, the way Number embeds *big.Rat in the
// original calc tool: every read-only big.Int method is available
// without forwarding boilerplate. BigUInt's own methods (Add, Sub, Mul,
// QuoRem, ...) shadow the big.Int methods of the same name and keep
// results non-negative; the other embedded big.Int methods, including
// mutating ones such as SetInt64 and Neg, remain reachable and do not
// enforce that invariant.
type BigUInt struct {
	*big.Int
}

// ErrNegative is returned by ParseBigUInt for a negative literal. Sub
// does not return it: a negative difference saturates at zero.
var ErrNegative = fmt.Errorf("bignum: negative result not representable as BigUInt")

// Zero returns the BigUInt zero value (the empty limb sequence).
func Zero() *BigUInt {
	return &BigUInt{Int: new(big.Int)}
}

// NewUInt64 builds a BigUInt from a uint64.
func NewUInt64(v uint64) *BigUInt {
	return &BigUInt{Int: new(big.Int).SetUint64(v)}
}

// ParseBigUInt parses s in the given base (2..36, or 0 to auto-detect
// 0x/0o/0b prefixes). Returns an error if s is not a valid non-negative
// integer literal in that base.
func ParseBigUInt(s string, base int) (*BigUInt, error) {
	i, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("bignum: invalid integer literal %q (base %d)", s, base)
	}
	if i.Sign() < 0 {
		return nil, ErrNegative
	}
	return &BigUInt{Int: i}, nil
}

func (u *BigUInt) clone() *BigUInt { return &BigUInt{Int: new(big.Int).Set(u.Int)} }

// Add returns u+v.
func (u *BigUInt) Add(v *BigUInt) *BigUInt {
	r := u.clone()
	r.Int.Add(u.Int, v.Int)
	return r
}

// Sub returns u-v, saturating at zero: the caller is responsible for
// ensuring u >= v when a true subtraction is intended.
func (u *BigUInt) Sub(v *BigUInt) *BigUInt {
	r := new(big.Int).Sub(u.Int, v.Int)
	if r.Sign() < 0 {
		r.SetInt64(0)
	}
	return &BigUInt{Int: r}
}

// Mul returns u*v.
func (u *BigUInt) Mul(v *BigUInt) *BigUInt {
	r := u.clone()
	r.Int.Mul(u.Int, v.Int)
	return r
}

// QuoRem returns (u/v, u%v) using truncated (schoolbook) division.
func (u *BigUInt) QuoRem(v *BigUInt) (q, rem *BigUInt, err error) {
	if v.Sign() == 0 {
		return nil, nil, ErrDivisionByZero
	}
	qi, ri := new(big.Int), new(big.Int)
	qi.QuoRem(u.Int, v.Int, ri)
	return &BigUInt{Int: qi}, &BigUInt{Int: ri}, nil
}

// And, Or, Xor implement bitwise operations over the two's-complement-free
// magnitude representation (both operands are non-negative).
func (u *BigUInt) And(v *BigUInt) *BigUInt {
	return &BigUInt{Int: new(big.Int).And(u.Int, v.Int)}
}
func (u *BigUInt) Or(v *BigUInt) *BigUInt {
	return &BigUInt{Int: new(big.Int).Or(u.Int, v.Int)}
}
func (u *BigUInt) Xor(v *BigUInt) *BigUInt {
	return &BigUInt{Int: new(big.Int).Xor(u.Int, v.Int)}
}

// Lsh and Rsh shift by n bits.
func (u *BigUInt) Lsh(n uint) *BigUInt { return &BigUInt{Int: new(big.Int).Lsh(u.Int, n)} }
func (u *BigUInt) Rsh(n uint) *BigUInt { return &BigUInt{Int: new(big.Int).Rsh(u.Int, n)} }

// GCD returns gcd(u, v).
func (u *BigUInt) GCD(v *BigUInt) *BigUInt {
	return &BigUInt{Int: new(big.Int).GCD(nil, nil, u.Int, v.Int)}
}

// ModPow returns u^exp mod m.
func (u *BigUInt) ModPow(exp, m *BigUInt) *BigUInt {
	return &BigUInt{Int: new(big.Int).Exp(u.Int, exp.Int, m.Int)}
}

// Text renders u in the given base, 2 <= base <= 36, lowercase digits a..z
// for 10..35, matching big.Int.Text's own alphabet.
func (u *BigUInt) Text(base int) string {
	if base < 2 || base > 36 {
		panic(fmt.Sprintf("bignum: invalid base %d", base))
	}
	return u.Int.Text(base)
}

// IsZero reports whether u is the empty limb sequence.
func (u *BigUInt) IsZero() bool { return u.Sign() == 0 }
