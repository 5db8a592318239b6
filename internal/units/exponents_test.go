package units

import (
	"testing"

	"github.com/mikecarlton/qcalc/internal/bignum"
)

func TestEqual(t *testing.T) {
	lengthTime := Exponents{Length: bignum.MustExact(1), Time: bignum.MustExact(-2)}
	same := Exponents{Time: bignum.MustExact(-2), Length: bignum.MustExact(1)}
	if !Equal(lengthTime, same) {
		t.Error("expected equal exponent vectors to compare equal")
	}
	if Equal(lengthTime, Dimensionless()) {
		t.Error("expected a dimensionful vector to differ from dimensionless")
	}
	if !Equal(Dimensionless(), Exponents{Mass: bignum.MustExact(0)}) {
		t.Error("a zero-valued entry should normalize away to dimensionless")
	}
}

func TestMulAddsExponents(t *testing.T) {
	speed := Mul(Single(Length, 1), Single(Time, -1))
	if !Equal(speed, Exponents{Length: bignum.MustExact(1), Time: bignum.MustExact(-1)}) {
		t.Errorf("Mul(length, time^-1) = %v, want length^1 time^-1", speed)
	}
	// length * length^-1 cancels to dimensionless.
	canceled := Mul(Single(Length, 1), Single(Length, -1))
	if !canceled.IsEmpty() {
		t.Errorf("expected length*length^-1 to cancel, got %v", canceled)
	}
}

func TestDivSubtractsExponents(t *testing.T) {
	got := Div(Single(Length, 1), Single(Time, 1))
	if !Equal(got, Exponents{Length: bignum.MustExact(1), Time: bignum.MustExact(-1)}) {
		t.Errorf("Div(length, time) = %v, want length^1 time^-1", got)
	}
}

func TestScaleMultipliesEveryExponent(t *testing.T) {
	area := Single(Length, 2)
	half := bignum.MustExact("1/2")
	got := Scale(area, half)
	if !Equal(got, Single(Length, 1)) {
		t.Errorf("Scale(length^2, 1/2) = %v, want length^1", got)
	}
}

func TestNegFlipsSign(t *testing.T) {
	got := Neg(Single(Length, 1))
	if !Equal(got, Single(Length, -1)) {
		t.Errorf("Neg(length^1) = %v, want length^-1", got)
	}
}

func TestString(t *testing.T) {
	e := Exponents{Length: bignum.MustExact(1), Time: bignum.MustExact(-2)}
	if got := e.String(); got != "length^1 time^-2" {
		t.Errorf("got %q, want %q", got, "length^1 time^-2")
	}
}
