package approx

import (
	"fmt"

	"github.com/mikecarlton/qcalc/internal/bignum"
)

// Complex is a pair of RealApprox (re, im). A Complex is "real" iff Im
// is exactly the rational zero.
type Complex struct {
	Re, Im *RealApprox
}

// FromReal builds a real Complex (Im = 0, exact).
func FromReal(r *RealApprox) *Complex {
	return &Complex{Re: r, Im: FromInt(0)}
}

// IsReal reports whether Im is exactly zero.
func (c *Complex) IsReal() bool {
	return c.Im.Rat.Rat.Sign() == 0
}

func CAdd(a, b *Complex) *Complex {
	return &Complex{Re: Add(a.Re, b.Re), Im: Add(a.Im, b.Im)}
}

func CSub(a, b *Complex) *Complex {
	return &Complex{Re: Sub(a.Re, b.Re), Im: Sub(a.Im, b.Im)}
}

func CMul(a, b *Complex) *Complex {
	// (a+bi)(c+di) = (ac-bd) + (ad+bc)i
	ac := Mul(a.Re, b.Re)
	bd := Mul(a.Im, b.Im)
	ad := Mul(a.Re, b.Im)
	bc := Mul(a.Im, b.Re)
	return &Complex{Re: Sub(ac, bd), Im: Add(ad, bc)}
}

func CQuo(a, b *Complex) (*Complex, error) {
	// (a+bi)/(c+di) = (a+bi)(c-di) / (c^2+d^2)
	denom := Add(Mul(b.Re, b.Re), Mul(b.Im, b.Im))
	if denom.Rat.Rat.Sign() == 0 {
		return nil, bignum.ErrDivisionByZero
	}
	conj := &Complex{Re: b.Re, Im: Neg(b.Im)}
	num := CMul(a, conj)
	re, err := Quo(num.Re, denom)
	if err != nil {
		return nil, err
	}
	im, err := Quo(num.Im, denom)
	if err != nil {
		return nil, err
	}
	return &Complex{Re: re, Im: im}, nil
}

func CNeg(a *Complex) *Complex {
	return &Complex{Re: Neg(a.Re), Im: Neg(a.Im)}
}

// Conjugate returns the complex conjugate.
func Conjugate(a *Complex) *Complex {
	return &Complex{Re: a.Re, Im: Neg(a.Im)}
}

// CAbs returns |a| as a RealApprox (magnitude via sqrt(re^2+im^2)).
func CAbs(a *Complex) (*RealApprox, error) {
	sq := Add(Mul(a.Re, a.Re), Mul(a.Im, a.Im))
	return Sqrt(sq)
}

// Arg returns atan2(im, re) as a real RealApprox, matching the
// principal-branch convention spec.md §4.3 requires for Pow.
func Arg(a *Complex) (*RealApprox, error) {
	if a.Re.Rat.Rat.Sign() == 0 && a.Im.Rat.Rat.Sign() == 0 {
		return nil, fmt.Errorf("approx: arg undefined at zero")
	}
	// atan2 via case analysis on quadrant using Atan of im/re.
	if a.Re.Rat.Rat.Sign() > 0 {
		return Atan2Ratio(a.Im, a.Re)
	}
	pi := Exact(piAt(a.Re.Precision))
	if a.Re.Rat.Rat.Sign() < 0 {
		t, err := Atan2Ratio(a.Im, a.Re)
		if err != nil {
			return nil, err
		}
		if a.Im.Rat.Rat.Sign() >= 0 {
			return Add(t, pi), nil
		}
		return Sub(t, pi), nil
	}
	// re == 0
	half := Exact(halfPiRat(a.Re.Precision))
	if a.Im.Rat.Rat.Sign() > 0 {
		return half, nil
	}
	return Neg(half), nil
}

func Atan2Ratio(y, x *RealApprox) (*RealApprox, error) {
	ratio, err := Quo(y, x)
	if err != nil {
		return nil, err
	}
	return Atan(ratio)
}

func piAt(prec uint) *bignum.BigRat {
	half := halfPiRat(prec)
	two, _ := bignum.NewExact(2)
	full := bignum.Mul(half, two)
	full.Exact = false
	return full
}

// CExp returns e^a for a complex argument via Euler's formula.
func CExp(a *Complex) (*Complex, error) {
	mag, err := Exp(a.Re)
	if err != nil {
		return nil, err
	}
	s, err := Sin(a.Im)
	if err != nil {
		return nil, err
	}
	c, err := Cos(a.Im)
	if err != nil {
		return nil, err
	}
	return &Complex{Re: Mul(mag, c), Im: Mul(mag, s)}, nil
}

// CLn returns the principal natural log of a, branch cut on (-pi, pi].
func CLn(a *Complex) (*Complex, error) {
	mag, err := CAbs(a)
	if err != nil {
		return nil, err
	}
	if mag.Rat.Rat.Sign() == 0 {
		return nil, fmt.Errorf("approx: ln of zero")
	}
	re, err := Ln(mag)
	if err != nil {
		return nil, err
	}
	im, err := Arg(a)
	if err != nil {
		return nil, err
	}
	return &Complex{Re: re, Im: im}, nil
}

// CPow returns a^b = exp(b * ln(a)) on the principal branch, used by the
// evaluator whenever an integer-exponent fast path does not apply
// (spec.md §4.3 Power).
func CPow(a, b *Complex) (*Complex, error) {
	ln, err := CLn(a)
	if err != nil {
		return nil, err
	}
	return CExp(CMul(b, ln))
}
