// Package dice implements the exact discrete probability arithmetic
// spec.md §4.6 names: building a dice-sum distribution by repeated
// convolution, combining distributions for `+`/`-`/`*`, and fair
// rejection-sampling a single roll.
//
// New relative to the teacher, which has no notion of a distribution;
// grounded on the "exact rational arithmetic, pure functions over
// map[int64]*bignum.BigRat" shape the rest of this module uses for
// everything else that must stay exact.
package dice

import (
	"math/big"

	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/value"
)

// ErrKind distinguishes the handful of ways dice arithmetic can fail,
// so callers can map them onto their own error-kind enums without
// string matching.
type ErrKind int

const (
	ErrInvalidParams ErrKind = iota
	ErrTooLarge
	ErrRandomUnavailable
)

type Error struct {
	Kind    ErrKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// maxOutcomes caps count*sides, per spec.md §4.6's "reject absurdly
// large distributions rather than hang".
const maxOutcomes = 10000

// Build computes the exact pmf of the sum of count dice each uniform
// on 1..sides, via repeated convolution.
func Build(count, sides int) (*value.Dist, error) {
	if count < 1 || sides < 2 {
		return nil, &Error{ErrInvalidParams, "dice require count >= 1 and sides >= 2"}
	}
	if count*sides > maxOutcomes {
		return nil, &Error{ErrTooLarge, "dice distribution too large"}
	}
	// pmf[k] = ways to roll a sum of k with the dice rolled so far.
	pmf := map[int64]*big.Int{0: big.NewInt(1)}
	for d := 0; d < count; d++ {
		next := map[int64]*big.Int{}
		for sum, ways := range pmf {
			for face := int64(1); face <= int64(sides); face++ {
				k := sum + face
				if cur, ok := next[k]; ok {
					next[k] = new(big.Int).Add(cur, ways)
				} else {
					next[k] = new(big.Int).Set(ways)
				}
			}
		}
		pmf = next
	}
	total := new(big.Int)
	outcomes := make([]int64, 0, len(pmf))
	for k, ways := range pmf {
		outcomes = append(outcomes, k)
		total.Add(total, ways)
	}
	sortInt64s(outcomes)
	probs := make(map[int64]*bignum.BigRat, len(pmf))
	for _, k := range outcomes {
		num := bignum.MustExact(pmf[k])
		den := bignum.MustExact(total)
		p, err := bignum.Quo(num, den)
		if err != nil {
			return nil, &Error{ErrInvalidParams, "dice probability division by zero"}
		}
		probs[k] = p
	}
	return &value.Dist{Outcomes: outcomes, Probs: probs}, nil
}

func sortInt64s(s []int64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Add convolves a and b for `+` (sub=false) or `-` (sub=true) on Dist
// values, per spec.md §4.6's "dice sums compose by convolution".
func Add(a, b *value.Dist, sub bool) *value.Dist {
	probs := map[int64]*bignum.BigRat{}
	for ao, ap := range a.Probs {
		for bo, bp := range b.Probs {
			k := ao + bo
			if sub {
				k = ao - bo
			}
			p := bignum.Add(valueOrZero(probs, k), bignum.Mul(ap, bp))
			probs[k] = p
		}
	}
	outcomes := make([]int64, 0, len(probs))
	for k := range probs {
		outcomes = append(outcomes, k)
	}
	sortInt64s(outcomes)
	return &value.Dist{Outcomes: outcomes, Probs: probs}
}

func valueOrZero(m map[int64]*bignum.BigRat, k int64) *bignum.BigRat {
	if v, ok := m[k]; ok {
		return v
	}
	return bignum.MustExact(0)
}

// Scale multiplies every outcome of d by an integer factor, e.g. for
// "2 * (1d6)".
func Scale(d *value.Dist, factor int64) *value.Dist {
	probs := map[int64]*bignum.BigRat{}
	outcomes := make([]int64, 0, len(d.Outcomes))
	for _, o := range d.Outcomes {
		k := o * factor
		outcomes = append(outcomes, k)
		probs[k] = d.Probs[o]
	}
	sortInt64s(outcomes)
	return &value.Dist{Outcomes: outcomes, Probs: probs}
}

// Mean computes the exact expected value of d.
func Mean(d *value.Dist) *bignum.BigRat {
	sum := bignum.MustExact(0)
	for _, o := range d.Outcomes {
		term := bignum.Mul(bignum.MustExact(o), d.Probs[o])
		sum = bignum.Add(sum, term)
	}
	return sum
}

// Sample draws one outcome from d using random to supply raw bytes,
// rejecting out-of-range draws so every outcome in d.Outcomes is
// chosen with its exact probability (no modulo bias), per spec.md
// §4.6's "roll must sample fairly, not just uniformly over bytes".
func Sample(d *value.Dist, random func(n int) ([]byte, bool)) (int64, error) {
	n := len(d.Outcomes)
	if n == 0 {
		return 0, &Error{ErrInvalidParams, "empty distribution"}
	}
	nBytes := 1
	for (1 << uint(8*nBytes)) < n*256 {
		nBytes++
		if nBytes > 8 {
			break
		}
	}
	for attempt := 0; attempt < 64; attempt++ {
		b, ok := random(nBytes)
		if !ok {
			return 0, &Error{ErrRandomUnavailable, "random source exhausted"}
		}
		v := bytesToUint(b)
		limit := uint64(1) << uint(8*nBytes)
		bucket := limit / uint64(n)
		if bucket == 0 {
			bucket = 1
		}
		if v >= bucket*uint64(n) {
			continue // reject to avoid modulo bias
		}
		idx := int(v / bucket)
		if idx >= n {
			idx = n - 1
		}
		return d.Outcomes[idx], nil
	}
	return 0, &Error{ErrRandomUnavailable, "fair sampling did not converge"}
}

func bytesToUint(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}
