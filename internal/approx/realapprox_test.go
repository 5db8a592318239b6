package approx

import (
	"math"
	"testing"

	"github.com/mikecarlton/qcalc/internal/bignum"
)

func approxEqual(t *testing.T, r *RealApprox, want float64, tol float64) {
	t.Helper()
	got, _ := r.Rat.Rat.Float64()
	if math.Abs(got-want) > tol {
		t.Errorf("got %v, want %v (tolerance %v)", got, want, tol)
	}
}

func TestAddSubMulPreserveExactness(t *testing.T) {
	a := Exact(bignum.MustExact(1))
	b := Exact(bignum.MustExact(2))
	if !Add(a, b).IsExact() {
		t.Error("sum of two exact values should be exact")
	}
	if !Mul(a, b).IsExact() {
		t.Error("product of two exact values should be exact")
	}
}

func TestSqrtOfPerfectSquareIsCloseToExact(t *testing.T) {
	r, err := Sqrt(Exact(bignum.MustExact(4)))
	if err != nil {
		t.Fatal(err)
	}
	approxEqual(t, r, 2, 1e-9)
}

func TestSqrtOfNegativeIsAnError(t *testing.T) {
	if _, err := Sqrt(Exact(bignum.MustExact(-1))); err == nil {
		t.Error("expected an error for sqrt(-1)")
	}
}

func TestCbrtOfNegativeCube(t *testing.T) {
	r, err := Cbrt(Exact(bignum.MustExact(-27)))
	if err != nil {
		t.Fatal(err)
	}
	approxEqual(t, r, -3, 1e-9)
}

func TestExpLnAreInverses(t *testing.T) {
	r, err := Exp(Exact(bignum.MustExact(1)))
	if err != nil {
		t.Fatal(err)
	}
	approxEqual(t, r, math.E, 1e-9)

	back, err := Ln(r)
	if err != nil {
		t.Fatal(err)
	}
	approxEqual(t, back, 1, 1e-9)
}

func TestSinCosOfZero(t *testing.T) {
	zero := Exact(bignum.MustExact(0))
	sin, err := Sin(zero)
	if err != nil {
		t.Fatal(err)
	}
	approxEqual(t, sin, 0, 1e-9)

	cos, err := Cos(zero)
	if err != nil {
		t.Fatal(err)
	}
	approxEqual(t, cos, 1, 1e-9)
}

func TestQuoByZeroIsAnError(t *testing.T) {
	if _, err := Quo(Exact(bignum.MustExact(1)), Exact(bignum.MustExact(0))); err == nil {
		t.Error("expected an error dividing by zero")
	}
}
