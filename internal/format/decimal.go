package format

import (
	"math/big"
	"strings"
)

// Exact decimal rendering for the auto/float/N-dp/N-sf targets
// (spec.md §4.4, §9): everything here works directly against
// *big.Int digit arithmetic so no IEEE754 float ever enters an
// arbitrary-precision calculator's display path.

var ten = big.NewInt(10)

func pow10(n int) *big.Int {
	return new(big.Int).Exp(ten, big.NewInt(int64(n)), nil)
}

// isTerminatingDecimal reports whether num/den (already reduced to
// lowest terms by big.Rat) has a finite base-10 expansion, which holds
// iff den's only prime factors are 2 and 5.
func isTerminatingDecimal(den *big.Int) bool {
	d := new(big.Int).Abs(den)
	two, five := big.NewInt(2), big.NewInt(5)
	for new(big.Int).Mod(d, two).Sign() == 0 {
		d.Div(d, two)
	}
	for new(big.Int).Mod(d, five).Sign() == 0 {
		d.Div(d, five)
	}
	return d.Cmp(big.NewInt(1)) == 0
}

// exactDecimal renders the finite base-10 expansion of num/den (den
// != 0, den > 0), with no rounding: it is only called once
// isTerminatingDecimal has confirmed the division ends.
func exactDecimal(num, den *big.Int) string {
	neg := num.Sign() < 0
	n := new(big.Int).Abs(num)
	intPart := new(big.Int)
	rem := new(big.Int)
	intPart.QuoRem(n, den, rem)
	s := intPart.String()
	if rem.Sign() != 0 {
		var frac strings.Builder
		for rem.Sign() != 0 {
			rem.Mul(rem, ten)
			digit := new(big.Int)
			digit.QuoRem(rem, den, rem)
			frac.WriteString(digit.String())
		}
		s += "." + frac.String()
	}
	if neg {
		s = "-" + s
	}
	return s
}

// recurringDigits runs long division with a seen-remainder map,
// splitting the fractional part into a non-repeating prefix and a
// repeating cycle (spec.md §9 "compute long division over a
// numerator/denominator pair with a seen-remainder map"). Returns
// ("", "") when the fraction terminates.
func recurringDigits(num, den *big.Int) (nonRepeating, repeating string) {
	rem := new(big.Int).Mod(num, den)
	seen := map[string]int{}
	var digits []byte
	for rem.Sign() != 0 {
		key := rem.String()
		if start, ok := seen[key]; ok {
			return string(digits[:start]), string(digits[start:])
		}
		seen[key] = len(digits)
		rem.Mul(rem, ten)
		digit := new(big.Int)
		digit.DivMod(rem, den, rem)
		digits = append(digits, byte('0')+byte(digit.Int64()))
	}
	return string(digits), ""
}

// exactFloatString renders num/den (den > 0) exactly, using
// "intPart.nonrepeating(repeating)" notation for a recurring
// fraction (spec.md §9's `0.0(15)`-style) and a plain terminating
// decimal otherwise.
func exactFloatString(num, den *big.Int) string {
	neg := num.Sign() < 0
	n := new(big.Int).Abs(num)
	intPart := new(big.Int).Quo(n, den)
	nonRepeating, repeating := recurringDigits(n, den)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(intPart.String())
	if nonRepeating != "" || repeating != "" {
		b.WriteByte('.')
		b.WriteString(nonRepeating)
		if repeating != "" {
			b.WriteByte('(')
			b.WriteString(repeating)
			b.WriteByte(')')
		}
	}
	return b.String()
}

// roundScaled computes round(num/den * 10^places) using round-half-
// to-even. places may be negative (rounding to tens, hundreds, ...).
// All arithmetic is done on magnitudes, with the sign reapplied at
// the end, so the tie-break (examining q's parity) isn't confused by
// big.Int's two's-complement bitwise semantics for negative values.
func roundScaled(num, den *big.Int, places int) *big.Int {
	neg := num.Sign() < 0
	n := new(big.Int).Abs(num)
	d := new(big.Int).Abs(den)
	if places >= 0 {
		n.Mul(n, pow10(places))
	} else {
		d.Mul(d, pow10(-places))
	}
	q := new(big.Int)
	r := new(big.Int)
	q.QuoRem(n, d, r)
	twice := new(big.Int).Lsh(r, 1)
	switch twice.Cmp(d) {
	case 1:
		q.Add(q, big.NewInt(1))
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, big.NewInt(1))
		}
	}
	if neg {
		q.Neg(q)
	}
	return q
}

// formatScaledInt renders q (an integer representing a value scaled
// by 10^places) back out as a decimal string with the point reinserted
// places digits from the right; places < 0 instead pads with zeros.
func formatScaledInt(q *big.Int, places int) string {
	neg := q.Sign() < 0
	abs := new(big.Int).Abs(q)
	digits := abs.String()
	if places <= 0 {
		digits += strings.Repeat("0", -places)
		if neg && abs.Sign() != 0 {
			return "-" + digits
		}
		return digits
	}
	for len(digits) <= places {
		digits = "0" + digits
	}
	intPart := digits[:len(digits)-places]
	fracPart := digits[len(digits)-places:]
	s := intPart + "." + fracPart
	if neg && abs.Sign() != 0 {
		return "-" + s
	}
	return s
}

// roundedDecimal renders num/den rounded to exactly `places` decimal
// places (truncate-then-round half-to-even, spec.md §4.4).
func roundedDecimal(num, den *big.Int, places int) string {
	return formatScaledInt(roundScaled(num, den, places), places)
}

// significantFigures renders num/den (num != 0) rounded to `sigFigs`
// significant digits, truncate-then-round half-to-even.
func significantFigures(num, den *big.Int, sigFigs int) string {
	e := exponentOf(num, den)
	places := sigFigs - 1 - e
	q := roundScaled(num, den, places)
	// A round-half-to-even carry can push the leading digit up a full
	// order of magnitude (9.99 -> 10.0 at 3 sf); strip the trailing
	// zero(s) that introduces and shrink places to match, rather than
	// keep an extra, spuriously-significant digit.
	for q.Sign() != 0 && len(new(big.Int).Abs(q).String()) > sigFigs {
		q = new(big.Int).Quo(q, ten)
		places--
	}
	return formatScaledInt(q, places)
}

// autoDecimal implements the `auto` display target (spec.md §4.4):
// an exact terminating decimal prints in full; a recurring one prints
// rounded to 10 decimal places, `approx.`-prefixed unless
// @noapprox is set.
func autoDecimal(num, den *big.Int, exact, noApprox bool) string {
	if exact && isTerminatingDecimal(den) {
		return exactDecimal(num, den)
	}
	s := roundedDecimal(num, den, 10)
	if noApprox {
		return s
	}
	return "approx. " + s
}

// exponentOf returns e such that 10^e <= num/den < 10^(e+1), for
// num, den > 0.
func exponentOf(num, den *big.Int) int {
	if num.Sign() == 0 {
		return 0
	}
	a := new(big.Int).Abs(num)
	b := new(big.Int).Abs(den)
	e := 0
	if a.Cmp(b) >= 0 {
		for {
			next := new(big.Int).Mul(b, ten)
			if a.Cmp(next) < 0 {
				break
			}
			b = next
			e++
		}
	} else {
		for a.Cmp(b) < 0 {
			a.Mul(a, ten)
			e--
		}
	}
	return e
}
