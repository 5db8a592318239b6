package format

import (
	"fmt"

	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/dateutil"
)

var epoch = dateutil.Date{Year: 1970, Month: 1, Day: 1}

// toDate interprets r as a day count relative to the proleptic epoch
// 1970-01-01 and renders the resulting calendar date. Date arithmetic
// (AddDays/DiffDays) works on relative day offsets and uses no epoch.
func toDate(r *bignum.BigRat) (string, error) {
	if !r.IsInt() {
		return "", fmt.Errorf("format: date output requires a whole number of days")
	}
	n, ok := r.AsInt64()
	if !ok {
		return "", fmt.Errorf("format: day count out of range")
	}
	return epoch.AddDays(n).String(), nil
}

// toCodepoint renders r as a plain decimal Unicode codepoint value.
func toCodepoint(r *bignum.BigRat) (string, error) {
	if !r.IsInt() {
		return "", fmt.Errorf("format: codepoint output requires an integer")
	}
	return r.String(), nil
}

// toCharacter interprets r as a Unicode codepoint and renders the rune
// it names.
func toCharacter(r *bignum.BigRat) (string, error) {
	if !r.IsInt() {
		return "", fmt.Errorf("format: character output requires an integer")
	}
	n, ok := r.AsInt64()
	if !ok || n < 0 || n > 0x10FFFF {
		return "", fmt.Errorf("format: value is not a valid Unicode codepoint")
	}
	return string(rune(n)), nil
}
