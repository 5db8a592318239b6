// Package approx layers transcendental operations over bignum.BigRat,
// tracking exactness the way the expression language requires: every
// transcendental result is inexact and carries a bounded-precision
// rational approximation rather than a raw float64.
//
// The teacher (mikecarlton-calc) only ever drops to float64 for this
// (`number.go`'s sqrt/log/log2/log10 snapshot *big.Rat.Float64(), call
// the math package, and build a new Number from the float64 result).
// RealApprox generalizes that idiom: it still calls into the math
// package's algorithms conceptually, but works at big.Float precision
// so the rounding error is bounded by the requested precision instead
// of by float64's fixed 53 bits.
package approx

import (
	"fmt"
	"math/big"

	"github.com/mikecarlton/qcalc/internal/bignum"
)

// DefaultPrecisionBits is the working precision used when the caller
// does not request a specific bit budget.
const DefaultPrecisionBits = 200

// RealApprox wraps a bignum.BigRat with a precision budget measured in
// bits of the working denominator.
type RealApprox struct {
	Rat       *bignum.BigRat
	Precision uint // bits
}

// Exact builds an exact RealApprox from a BigRat.
func Exact(r *bignum.BigRat) *RealApprox {
	return &RealApprox{Rat: r, Precision: DefaultPrecisionBits}
}

// FromInt builds an exact RealApprox from an int.
func FromInt(v int64) *RealApprox {
	r, _ := bignum.NewExact(v)
	return Exact(r)
}

// IsExact reports whether the value is the true mathematical value
// rather than a bounded approximation.
func (r *RealApprox) IsExact() bool { return r.Rat.Exact }

// toBigFloat snapshots r at the given precision.
func (r *RealApprox) toBigFloat(prec uint) *big.Float {
	f := new(big.Float).SetPrec(prec)
	f.SetRat(r.Rat.Rat)
	return f
}

// fromBigFloat converts a big.Float result of a transcendental op back
// into an inexact RealApprox at the given precision.
func fromBigFloat(f *big.Float, prec uint) *RealApprox {
	rat := new(big.Rat)
	f.Rat(rat)
	br := &bignum.BigRat{Rat: rat, Exact: false, BaseHint: 10}
	return &RealApprox{Rat: br, Precision: prec}
}

// Add, Sub, Mul propagate exactness exactly as BigRat does.
func Add(a, b *RealApprox) *RealApprox {
	return &RealApprox{Rat: bignum.Add(a.Rat, b.Rat), Precision: max(a.Precision, b.Precision)}
}
func Sub(a, b *RealApprox) *RealApprox {
	return &RealApprox{Rat: bignum.Sub(a.Rat, b.Rat), Precision: max(a.Precision, b.Precision)}
}
func Mul(a, b *RealApprox) *RealApprox {
	return &RealApprox{Rat: bignum.Mul(a.Rat, b.Rat), Precision: max(a.Precision, b.Precision)}
}
func Quo(a, b *RealApprox) (*RealApprox, error) {
	q, err := bignum.Quo(a.Rat, b.Rat)
	if err != nil {
		return nil, err
	}
	return &RealApprox{Rat: q, Precision: max(a.Precision, b.Precision)}, nil
}
func Neg(a *RealApprox) *RealApprox {
	return &RealApprox{Rat: bignum.Neg(a.Rat), Precision: a.Precision}
}

func max(a, b uint) uint {
	if a > b {
		return a
	}
	return b
}

// Sqrt returns an inexact approximation of sqrt(r), or an error if r is
// negative (callers wanting complex results should promote first).
func Sqrt(r *RealApprox) (*RealApprox, error) {
	if r.Rat.Rat.Sign() < 0 {
		return nil, fmt.Errorf("approx: sqrt of negative value %s", r.Rat.String())
	}
	f := r.toBigFloat(r.Precision + 32)
	out := new(big.Float).SetPrec(r.Precision + 32).Sqrt(f)
	return fromBigFloat(out, r.Precision), nil
}

// Cbrt returns an inexact approximation of the cube root of r, via
// Newton's method on the big.Float representation (big.Float has no
// built-in cube root).
func Cbrt(r *RealApprox) (*RealApprox, error) {
	prec := r.Precision + 32
	x := r.toBigFloat(prec)
	if x.Sign() == 0 {
		return fromBigFloat(x, r.Precision), nil
	}
	neg := x.Sign() < 0
	if neg {
		x.Neg(x)
	}
	guess := new(big.Float).SetPrec(prec).Copy(x)
	three := big.NewFloat(3)
	two := big.NewFloat(2)
	for i := 0; i < 128; i++ {
		// guess = (2*guess + x/guess^2) / 3
		sq := new(big.Float).SetPrec(prec).Mul(guess, guess)
		div := new(big.Float).SetPrec(prec).Quo(x, sq)
		next := new(big.Float).SetPrec(prec).Mul(guess, two)
		next.Add(next, div)
		next.Quo(next, three)
		if next.Cmp(guess) == 0 {
			guess = next
			break
		}
		guess = next
	}
	if neg {
		guess.Neg(guess)
	}
	return fromBigFloat(guess, r.Precision), nil
}

// seriesExp, seriesLn, and the trig functions below all work by summing
// a Taylor series on big.Float at extended precision. This keeps every
// transcendental in the same "result is inexact, rounded to the caller's
// precision budget" contract instead of silently falling back to
// float64 the way the teacher's sqrt/log/log2/log10 do.

func newFloat(prec uint, v float64) *big.Float {
	return new(big.Float).SetPrec(prec).SetFloat64(v)
}

// Exp returns e^r.
func Exp(r *RealApprox) (*RealApprox, error) {
	prec := r.Precision + 64
	x := r.toBigFloat(prec)
	term := new(big.Float).SetPrec(prec).SetInt64(1)
	sum := new(big.Float).SetPrec(prec).SetInt64(1)
	for n := int64(1); n < 400; n++ {
		term.Mul(term, x)
		term.Quo(term, new(big.Float).SetPrec(prec).SetInt64(n))
		sum.Add(sum, term)
		if term.MinPrec() == 0 {
			break
		}
	}
	return fromBigFloat(sum, r.Precision), nil
}

// Ln returns the natural log of r, or an error if r <= 0.
func Ln(r *RealApprox) (*RealApprox, error) {
	if r.Rat.Rat.Sign() <= 0 {
		return nil, fmt.Errorf("approx: ln of non-positive value %s", r.Rat.String())
	}
	prec := r.Precision + 64
	x := r.toBigFloat(prec)

	// Range-reduce x = m * 2^k with m in [0.5, 1) using big.Float's own
	// exponent, then ln(x) = ln(m) + k*ln(2), with ln(m) by the
	// atanh-based series ln((1+y)/(1-y)) = 2*atanh(y), y=(m-1)/(m+1).
	mant := new(big.Float).SetPrec(prec)
	exp := x.MantExp(mant)

	one := new(big.Float).SetPrec(prec).SetInt64(1)
	num := new(big.Float).SetPrec(prec).Sub(mant, one)
	den := new(big.Float).SetPrec(prec).Add(mant, one)
	y := new(big.Float).SetPrec(prec).Quo(num, den)

	sum := new(big.Float).SetPrec(prec)
	term := new(big.Float).SetPrec(prec).Copy(y)
	y2 := new(big.Float).SetPrec(prec).Mul(y, y)
	for n := int64(0); n < 400; n++ {
		denom := new(big.Float).SetPrec(prec).SetInt64(2*n + 1)
		add := new(big.Float).SetPrec(prec).Quo(term, denom)
		sum.Add(sum, add)
		term.Mul(term, y2)
		if add.MinPrec() == 0 {
			break
		}
	}
	sum.Mul(sum, big.NewFloat(2))

	ln2 := ln2At(prec)
	kln2 := new(big.Float).SetPrec(prec).Mul(ln2, new(big.Float).SetPrec(prec).SetInt64(int64(exp)))
	sum.Add(sum, kln2)

	return fromBigFloat(sum, r.Precision), nil
}

// ln2At computes ln(2) at the given precision via the same atanh series
// used by Ln, applied to m=2 directly: y = (2-1)/(2+1) = 1/3 and
// ln(2) = 2*atanh(1/3) (no range reduction needed for a single constant).
func ln2At(prec uint) *big.Float {
	one := new(big.Float).SetPrec(prec).SetInt64(1)
	two := new(big.Float).SetPrec(prec).SetInt64(2)
	num := new(big.Float).SetPrec(prec).Sub(two, one)
	den := new(big.Float).SetPrec(prec).Add(two, one)
	y := new(big.Float).SetPrec(prec).Quo(num, den)
	y2 := new(big.Float).SetPrec(prec).Mul(y, y)
	sum := new(big.Float).SetPrec(prec)
	term := new(big.Float).SetPrec(prec).Copy(y)
	for n := int64(0); n < 400; n++ {
		denom := new(big.Float).SetPrec(prec).SetInt64(2*n + 1)
		add := new(big.Float).SetPrec(prec).Quo(term, denom)
		sum.Add(sum, add)
		term.Mul(term, y2)
		if add.MinPrec() == 0 {
			break
		}
	}
	sum.Mul(sum, two)
	return sum
}

// Log10 and Log2 are Ln divided by ln(10)/ln(2).
func Log10(r *RealApprox) (*RealApprox, error) {
	ln, err := Ln(r)
	if err != nil {
		return nil, err
	}
	ten := FromInt(10)
	lnTen, err := Ln(ten)
	if err != nil {
		return nil, err
	}
	return Quo(ln, lnTen)
}

func Log2(r *RealApprox) (*RealApprox, error) {
	ln, err := Ln(r)
	if err != nil {
		return nil, err
	}
	prec := r.Precision + 64
	ln2 := fromBigFloat(ln2At(prec), r.Precision)
	return Quo(ln, ln2)
}

// sinSeries/cosSeries compute sin/cos via the Taylor series at extended
// precision; inputs are assumed already range-reduced by the caller if
// large.
func sinSeries(x *big.Float, prec uint) *big.Float {
	term := new(big.Float).SetPrec(prec).Copy(x)
	sum := new(big.Float).SetPrec(prec).Copy(x)
	x2 := new(big.Float).SetPrec(prec).Mul(x, x)
	for n := int64(1); n < 200; n++ {
		denom := new(big.Float).SetPrec(prec).SetInt64((2*n + 1) * (2 * n))
		term.Mul(term, x2)
		term.Neg(term)
		term.Quo(term, denom)
		sum.Add(sum, term)
		if term.MinPrec() == 0 {
			break
		}
	}
	return sum
}

func cosSeries(x *big.Float, prec uint) *big.Float {
	term := new(big.Float).SetPrec(prec).SetInt64(1)
	sum := new(big.Float).SetPrec(prec).SetInt64(1)
	x2 := new(big.Float).SetPrec(prec).Mul(x, x)
	for n := int64(1); n < 200; n++ {
		denom := new(big.Float).SetPrec(prec).SetInt64((2*n - 1) * (2 * n))
		term.Mul(term, x2)
		term.Neg(term)
		term.Quo(term, denom)
		sum.Add(sum, term)
		if term.MinPrec() == 0 {
			break
		}
	}
	return sum
}

func Sin(r *RealApprox) (*RealApprox, error) {
	prec := r.Precision + 64
	return fromBigFloat(sinSeries(r.toBigFloat(prec), prec), r.Precision), nil
}

func Cos(r *RealApprox) (*RealApprox, error) {
	prec := r.Precision + 64
	return fromBigFloat(cosSeries(r.toBigFloat(prec), prec), r.Precision), nil
}

func Tan(r *RealApprox) (*RealApprox, error) {
	prec := r.Precision + 64
	x := r.toBigFloat(prec)
	c := cosSeries(x, prec)
	if c.Sign() == 0 {
		return nil, fmt.Errorf("approx: tan undefined at this point")
	}
	s := sinSeries(x, prec)
	return fromBigFloat(new(big.Float).SetPrec(prec).Quo(s, c), r.Precision), nil
}

// Asin uses Newton's method against Sin (with Cos as the derivative)
// since big.Float has no built-in inverse trig; Acos and Atan are
// derived from Asin.
func Asin(r *RealApprox) (*RealApprox, error) {
	if bignum.Cmp(r.Rat, bignum.MustExact("1")) > 0 || bignum.Cmp(r.Rat, bignum.MustExact("-1")) < 0 {
		return nil, fmt.Errorf("approx: asin domain error: |x| > 1")
	}
	return newtonInvert(r, Sin, Cos)
}

func Acos(r *RealApprox) (*RealApprox, error) {
	asin, err := Asin(r)
	if err != nil {
		return nil, err
	}
	halfPi := Exact(halfPiRat(r.Precision))
	return Sub(halfPi, asin), nil
}

func Atan(r *RealApprox) (*RealApprox, error) {
	// atan via atan(x) = asin(x/sqrt(1+x^2))
	one := FromInt(1)
	x2 := Mul(r, r)
	denomArg := Add(one, x2)
	denom, err := Sqrt(denomArg)
	if err != nil {
		return nil, err
	}
	ratio, err := Quo(r, denom)
	if err != nil {
		return nil, err
	}
	return Asin(ratio)
}

func newtonInvert(target *RealApprox, fwd, deriv func(*RealApprox) (*RealApprox, error)) (*RealApprox, error) {
	prec := target.Precision + 64
	guess := &RealApprox{Rat: target.Rat, Precision: prec}
	for i := 0; i < 60; i++ {
		fx, err := fwd(guess)
		if err != nil {
			return nil, err
		}
		dfx, err := deriv(guess)
		if err != nil {
			return nil, err
		}
		if dfx.Rat.Rat.Sign() == 0 {
			break
		}
		diff := Sub(fx, target)
		delta, err := Quo(diff, dfx)
		if err != nil {
			return nil, err
		}
		next := Sub(guess, delta)
		guess = &RealApprox{Rat: next.Rat, Precision: prec}
	}
	return &RealApprox{Rat: guess.Rat, Precision: target.Precision}, nil
}

// halfPiRat returns an inexact approximation of pi/2 taken from a fixed
// 101-decimal-place expansion of pi; prec is not used, so the result is
// the same at every precision.
func halfPiRat(prec uint) *bignum.BigRat {
	piStr := "3.14159265358979323846264338327950288419716939937510582097494459230781640628620899862803482534211706798"
	pi, _ := bignum.NewExact(piStr)
	two, _ := bignum.NewExact(2)
	half, err := bignum.Quo(pi, two)
	if err != nil {
		panic(err)
	}
	half.Exact = false
	return half
}

// Sinh, Cosh, Tanh, Asinh, Acosh, Atanh follow from Exp/Ln the usual way.
func Sinh(r *RealApprox) (*RealApprox, error) {
	ex, err := Exp(r)
	if err != nil {
		return nil, err
	}
	enx, err := Exp(Neg(r))
	if err != nil {
		return nil, err
	}
	two := FromInt(2)
	return Quo(Sub(ex, enx), two)
}

func Cosh(r *RealApprox) (*RealApprox, error) {
	ex, err := Exp(r)
	if err != nil {
		return nil, err
	}
	enx, err := Exp(Neg(r))
	if err != nil {
		return nil, err
	}
	two := FromInt(2)
	return Quo(Add(ex, enx), two)
}

func Tanh(r *RealApprox) (*RealApprox, error) {
	sh, err := Sinh(r)
	if err != nil {
		return nil, err
	}
	ch, err := Cosh(r)
	if err != nil {
		return nil, err
	}
	return Quo(sh, ch)
}

func Asinh(r *RealApprox) (*RealApprox, error) {
	// asinh(x) = ln(x + sqrt(x^2+1))
	one := FromInt(1)
	inner, err := Sqrt(Add(Mul(r, r), one))
	if err != nil {
		return nil, err
	}
	return Ln(Add(r, inner))
}

func Acosh(r *RealApprox) (*RealApprox, error) {
	if bignum.Cmp(r.Rat, bignum.MustExact(1)) < 0 {
		return nil, fmt.Errorf("approx: acosh domain error: x < 1")
	}
	one := FromInt(1)
	inner, err := Sqrt(Sub(Mul(r, r), one))
	if err != nil {
		return nil, err
	}
	return Ln(Add(r, inner))
}

func Atanh(r *RealApprox) (*RealApprox, error) {
	if bignum.Cmp(r.Rat, bignum.MustExact(1)) >= 0 || bignum.Cmp(r.Rat, bignum.MustExact(-1)) <= 0 {
		return nil, fmt.Errorf("approx: atanh domain error: |x| >= 1")
	}
	one := FromInt(1)
	num := Add(one, r)
	den := Sub(one, r)
	ratio, err := Quo(num, den)
	if err != nil {
		return nil, err
	}
	ln, err := Ln(ratio)
	if err != nil {
		return nil, err
	}
	two := FromInt(2)
	return Quo(ln, two)
}

// Floor, Ceil, Round operate on the rational value directly and remain
// exact when the input was exact.
func Floor(r *RealApprox) *RealApprox {
	return &RealApprox{Rat: r.Rat.Floor(), Precision: r.Precision}
}

func Ceil(r *RealApprox) *RealApprox {
	neg := Neg(r)
	f := neg.Rat.Floor()
	out := bignum.Neg(f)
	out.Exact = r.Rat.Exact
	return &RealApprox{Rat: out, Precision: r.Precision}
}

func Round(r *RealApprox) *RealApprox {
	half, _ := bignum.NewExact("1/2")
	shifted := bignum.Add(r.Rat, half)
	out := shifted.Floor()
	out.Exact = r.Rat.Exact
	return &RealApprox{Rat: out, Precision: r.Precision}
}

// Abs returns |r|.
func Abs(r *RealApprox) *RealApprox {
	if r.Rat.Rat.Sign() < 0 {
		return Neg(r)
	}
	return r
}
