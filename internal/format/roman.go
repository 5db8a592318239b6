package format

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/mikecarlton/qcalc/internal/bignum"
)

var romanTable = []struct {
	value  int64
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

var thousandBig = big.NewInt(1000)
var maxClassical = big.NewInt(3999)

// toRoman renders r as a roman numeral; r must be a positive integer.
// Values above the classical 3999 ceiling use the combining-overline
// convention (spec.md §4.4): each group of three digits above 999 is
// rendered with the usual symbols and overlined (U+0305) to mark a
// ×1000 multiplier, recursing for groups that themselves exceed 3999.
func toRoman(r *bignum.BigRat) (string, error) {
	if !r.IsInt() {
		return "", fmt.Errorf("format: roman numerals require an integer")
	}
	n := new(big.Int).Quo(r.Rat.Num(), r.Rat.Denom())
	if n.Sign() <= 0 {
		return "", fmt.Errorf("format: roman numerals require a positive integer")
	}
	return romanDigits(n), nil
}

func romanDigits(n *big.Int) string {
	if n.Cmp(maxClassical) <= 0 {
		return basicRoman(n.Int64())
	}
	thousands := new(big.Int)
	remainder := new(big.Int)
	thousands.QuoRem(n, thousandBig, remainder)
	return overline(romanDigits(thousands)) + basicRoman(remainder.Int64())
}

func basicRoman(n int64) string {
	var b []byte
	for _, e := range romanTable {
		for n >= e.value {
			b = append(b, e.symbol...)
			n -= e.value
		}
	}
	return string(b)
}

// overline marks each rune of s as multiplied by 1000 by following it
// with the combining overline codepoint U+0305.
func overline(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteRune(r)
		b.WriteRune('̅')
	}
	return b.String()
}

var onesWords = []string{"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}
var tensWords = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
// scaleWords covers every group of three digits up to 10^66-1 (spec.md
// §4.4's documented words range): 22 groups, index i naming 10^(3i).
var scaleWords = []string{
	"", "thousand", "million", "billion", "trillion", "quadrillion",
	"quintillion", "sextillion", "septillion", "octillion", "nonillion",
	"decillion", "undecillion", "duodecillion", "tredecillion",
	"quattuordecillion", "quindecillion", "sexdecillion",
	"septendecillion", "octodecillion", "novemdecillion", "vigintillion",
}

// toWords spells r out in English, integers only (spec.md's "words"
// format target).
func toWords(r *bignum.BigRat) (string, error) {
	if !r.IsInt() {
		return "", fmt.Errorf("format: word output requires an integer")
	}
	n := new(big.Int).Quo(r.Rat.Num(), r.Rat.Denom())
	if n.Sign() == 0 {
		return "zero", nil
	}
	neg := n.Sign() < 0
	if neg {
		n = new(big.Int).Abs(n)
	}
	groups := []int64{}
	thousand := big.NewInt(1000)
	rem := new(big.Int).Set(n)
	for rem.Sign() > 0 {
		g := new(big.Int)
		rem.DivMod(rem, thousand, g)
		groups = append(groups, g.Int64())
	}
	words := ""
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}
		chunk := threeDigitWords(g)
		if i > 0 {
			chunk += " " + scaleWords[i]
		}
		if words != "" {
			words += " "
		}
		words += chunk
	}
	if neg {
		words = "negative " + words
	}
	return words, nil
}

func threeDigitWords(n int64) string {
	hundred := ""
	if n >= 100 {
		hundred = onesWords[n/100] + " hundred"
		n %= 100
	}
	remainder := ""
	if n >= 20 {
		remainder = tensWords[n/10]
		if n%10 != 0 {
			remainder += "-" + onesWords[n%10]
		}
	} else if n > 0 {
		remainder = onesWords[n]
	}
	switch {
	case hundred != "" && remainder != "":
		return hundred + " and " + remainder
	case hundred != "":
		return hundred
	default:
		return remainder
	}
}

// toMixedFraction renders r as "whole num/den" (or "num/den" when the
// whole part is zero), spec.md's mixed-fraction display target —
// the inverse of the parser's maybeMixedFraction.
func toMixedFraction(r *bignum.BigRat) string {
	num := new(big.Int).Set(r.Rat.Num())
	den := new(big.Int).Set(r.Rat.Denom())
	neg := num.Sign() < 0
	if neg {
		num.Abs(num)
	}
	whole := new(big.Int)
	frac := new(big.Int)
	whole.DivMod(num, den, frac)
	sign := ""
	if neg {
		sign = "-"
	}
	if frac.Sign() == 0 {
		return sign + whole.String()
	}
	if whole.Sign() == 0 {
		return fmt.Sprintf("%s%s/%s", sign, frac.String(), den.String())
	}
	return fmt.Sprintf("%s%s %s/%s", sign, whole.String(), frac.String(), den.String())
}
