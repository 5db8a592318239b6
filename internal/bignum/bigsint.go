package bignum

import "math/big"

// BigSInt is a signed arbitrary-precision integer: a sign paired with a
// BigUInt magnitude. Zero is canonically non-negative.
type BigSInt struct {
	mag *BigUInt
	neg bool
}

// ZeroS returns the signed zero.
func ZeroS() *BigSInt { return &BigSInt{mag: Zero()} }

// NewSInt64 builds a BigSInt from an int64.
func NewSInt64(v int64) *BigSInt {
	b := &big.Int{}
	b.SetInt64(v)
	neg := b.Sign() < 0
	if neg {
		b.Neg(b)
	}
	return &BigSInt{mag: &BigUInt{Int: b}, neg: neg && b.Sign() != 0}
}

// FromBigInt wraps an existing *big.Int, preserving sign.
func FromBigInt(v *big.Int) *BigSInt {
	abs := new(big.Int).Abs(v)
	return &BigSInt{mag: &BigUInt{Int: abs}, neg: v.Sign() < 0}
}

// BigInt renders s as a *big.Int (for interop with math/big-based callers).
func (s *BigSInt) BigInt() *big.Int {
	v := new(big.Int).Set(s.mag.Int)
	if s.neg {
		v.Neg(v)
	}
	return v
}

// Sign returns -1, 0, or 1.
func (s *BigSInt) Sign() int {
	if s.mag.IsZero() {
		return 0
	}
	if s.neg {
		return -1
	}
	return 1
}

// Abs returns the BigUInt magnitude.
func (s *BigSInt) Abs() *BigUInt { return s.mag }

// Neg returns -s.
func (s *BigSInt) Neg() *BigSInt {
	if s.mag.IsZero() {
		return s
	}
	return &BigSInt{mag: s.mag, neg: !s.neg}
}

// Add, Sub, Mul implement signed arithmetic via big.Int on the signed
// values, converting back with FromBigInt.
func (s *BigSInt) Add(o *BigSInt) *BigSInt {
	return FromBigInt(new(big.Int).Add(s.BigInt(), o.BigInt()))
}

func (s *BigSInt) Sub(o *BigSInt) *BigSInt {
	return FromBigInt(new(big.Int).Sub(s.BigInt(), o.BigInt()))
}

func (s *BigSInt) Mul(o *BigSInt) *BigSInt {
	return FromBigInt(new(big.Int).Mul(s.BigInt(), o.BigInt()))
}

// QuoRem returns truncated quotient and remainder.
func (s *BigSInt) QuoRem(o *BigSInt) (q, rem *BigSInt, err error) {
	qi, ri := new(big.Int), new(big.Int)
	if o.Sign() == 0 {
		return nil, nil, ErrDivisionByZero
	}
	qi.QuoRem(s.BigInt(), o.BigInt(), ri)
	return FromBigInt(qi), FromBigInt(ri), nil
}

// Cmp compares s and o.
func (s *BigSInt) Cmp(o *BigSInt) int { return s.BigInt().Cmp(o.BigInt()) }

// Text renders s in the given base with a leading '-' when negative.
func (s *BigSInt) Text(base int) string {
	if s.neg {
		return "-" + s.mag.Text(base)
	}
	return s.mag.Text(base)
}
