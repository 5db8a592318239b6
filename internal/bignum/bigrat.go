package bignum

import (
	"fmt"
	"math/big"
	"strings"
)

// FormatKind is the display-style hint carried alongside a BigRat.
// It mirrors the `to N dp` / `to fraction` / ... conversion targets
// from the expression language (see internal/format for rendering).
type FormatKind int

const (
	FormatAuto FormatKind = iota
	FormatExact
	FormatFloat
	FormatFraction
	FormatMixedFraction
	FormatSignificantFigures
	FormatDecimalPlaces
	FormatRoman
	FormatWords
	FormatString
	FormatDate
	FormatCodepoint
	FormatCharacter
	FormatText
)

// BigRat is a rational number with an exactness flag and display hints.
//
// Following the teacher's Number type (`Embed *big.Rat; all big.Rat
// methods can be applied directly on Number`), BigRat embeds *big.Rat
// so arithmetic helpers below can call straight through to the stdlib,
// while the exactness/base/format fields generalize the teacher's
// options.precision/showHex *global* options into per-value state -
// required once multiple independent Contexts can be live at once (§5).
type BigRat struct {
	*big.Rat
	Exact      bool
	BaseHint   int
	FormatHint FormatKind
}

// NewExact builds an exact BigRat set to v (int, int64, uint64, *big.Int,
// *big.Rat, or a decimal/fraction string).
func NewExact(v any) (*BigRat, error) {
	r := &BigRat{Rat: new(big.Rat), Exact: true, BaseHint: 10}
	switch x := v.(type) {
	case int:
		r.Rat.SetInt64(int64(x))
	case int64:
		r.Rat.SetInt64(x)
	case uint64:
		r.Rat.SetUint64(x)
	case *big.Int:
		r.Rat.SetInt(x)
	case *big.Rat:
		r.Rat.Set(x)
	case string:
		if _, ok := r.Rat.SetString(strings.TrimSpace(x)); !ok {
			return nil, fmt.Errorf("bignum: invalid rational literal %q", x)
		}
	default:
		return nil, fmt.Errorf("bignum: unsupported BigRat source type %T", v)
	}
	return r, nil
}

// MustExact is NewExact but panics on error; used for compile-time
// constant construction (e.g. physical constants) where the literal is
// known-good.
func MustExact(v any) *BigRat {
	r, err := NewExact(v)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *BigRat) clone() *BigRat {
	return &BigRat{Rat: new(big.Rat).Set(r.Rat), Exact: r.Exact, BaseHint: r.BaseHint, FormatHint: r.FormatHint}
}

// combineExact is exact iff both operands are.
func combineExact(a, b *BigRat) bool { return a.Exact && b.Exact }

// Add returns a+b.
func Add(a, b *BigRat) *BigRat {
	r := a.clone()
	r.Rat.Add(a.Rat, b.Rat)
	r.Exact = combineExact(a, b)
	return r
}

// Sub returns a-b.
func Sub(a, b *BigRat) *BigRat {
	r := a.clone()
	r.Rat.Sub(a.Rat, b.Rat)
	r.Exact = combineExact(a, b)
	return r
}

// Mul returns a*b.
func Mul(a, b *BigRat) *BigRat {
	r := a.clone()
	r.Rat.Mul(a.Rat, b.Rat)
	r.Exact = combineExact(a, b)
	return r
}

// Quo returns a/b, or an error if b is zero.
func Quo(a, b *BigRat) (*BigRat, error) {
	if b.Rat.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	r := a.clone()
	r.Rat.Quo(a.Rat, b.Rat)
	r.Exact = combineExact(a, b)
	return r, nil
}

// Neg returns -a.
func Neg(a *BigRat) *BigRat {
	r := a.clone()
	r.Rat.Neg(a.Rat)
	return r
}

// IsInt reports whether a's denominator is 1.
func (r *BigRat) IsInt() bool { return r.Rat.IsInt() }

// Floor returns the greatest integer <= r, as a BigRat.
func (r *BigRat) Floor() *BigRat {
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(r.Rat.Num(), r.Rat.Denom(), m) // Euclidean division: m >= 0
	out := r.clone()
	out.Rat.SetInt(q)
	return out
}

// Mod implements floored modulo (matching spec.md's Ruby-flavored `%`):
// x - y*floor(x/y).
func Mod(x, y *BigRat) (*BigRat, error) {
	if y.Rat.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	q, err := Quo(x, y)
	if err != nil {
		return nil, err
	}
	floor := q.Floor()
	prod := Mul(y, floor)
	return Sub(x, prod), nil
}

// AsInt64 returns r as an int64 if it is an exact integer in range.
func (r *BigRat) AsInt64() (int64, bool) {
	if !r.IsInt() {
		return 0, false
	}
	if !r.Rat.Num().IsInt64() {
		return 0, false
	}
	return r.Rat.Num().Int64(), true
}

// Cmp compares a and b.
func Cmp(a, b *BigRat) int { return a.Rat.Cmp(b.Rat) }

// String renders r in base 10 as an integer or "num/den", ignoring
// FormatHint/BaseHint; internal/format owns the user-facing renderer.
func (r *BigRat) String() string {
	if r.IsInt() {
		return r.Rat.Num().String()
	}
	return r.Rat.RatString()
}
