// Package format renders a value.Value for display: base/grouping,
// roman numerals, English number words, and the auto/exact/float/
// fraction/mixed_fraction/N-sf/N-dp targets spec.md §4.4 names.
//
// Grounded on the teacher's toString/addCommaGrouping/addUnderscoreGrouping
// (number.go): same base-16/2/8 integral-path branching and grouping
// idiom, generalized to route on bignum.FormatKind instead of a single
// global options struct, and extended with roman/words/string/date/
// codepoint/character/text per SPEC_FULL.md's expanded format targets.
package format

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/value"
)

// Options controls rendering independent of the value's own FormatHint/
// BaseHint, mirroring the teacher's global `options.group`/`options.trace`
// fields, generalized to per-call so concurrent evaluations don't race.
type Options struct {
	Group             bool // underscore/comma digit grouping
	PlainNumber       bool // @plain_number: suppress unit suffix
	NoApprox          bool // @noapprox: suppress the "approx." prefix, still rounds
	NoTrailingNewline bool
}

// Render formats v for display, honoring v.Num.FormatHint/BaseHint when
// v is a Number, per spec.md §4.4.
func Render(v value.Value, opt Options) (string, error) {
	switch v.Kind {
	case value.KindNumber:
		return renderNumber(v.Num, opt)
	case value.KindString:
		return v.Str, nil
	case value.KindDate:
		return v.Date.String(), nil
	case value.KindDist:
		return renderDist(v.Dist), nil
	case value.KindLambda:
		return fmt.Sprintf("\\%s. ...", v.Lambda.Param), nil
	case value.KindBuiltinFn:
		return fmt.Sprintf("<%s>", v.Builtin.Name), nil
	case value.KindFormatSpec, value.KindBaseSpec, value.KindUnitValue:
		return v.String(), nil
	}
	return "", fmt.Errorf("format: cannot render a %s", v.Kind.String())
}

// degreeUnitDisplay maps the ASCII unit names the lexer/unitdb use
// internally for degC/degF (unitdb/builtins.go) to the Unicode degree
// spelling spec.md §8 scenarios 3-4 require on output.
var degreeUnitDisplay = map[string]string{
	"degC": "°C",
	"degF": "°F",
}

// displayUnitName translates a UnitName for rendering, substituting
// the Unicode degree spelling for degC/degF wherever they occur -
// including inside compound names built by combineDisplay (e.g.
// "J / degF" -> "J / °F").
func displayUnitName(name string) string {
	for ascii, unicodeName := range degreeUnitDisplay {
		name = strings.ReplaceAll(name, ascii, unicodeName)
	}
	return name
}

func renderNumber(n *value.Number, opt Options) (string, error) {
	mag, err := renderMagnitude(n, opt)
	if err != nil {
		return "", err
	}
	if opt.PlainNumber || n.UnitName == "" || n.IsDimensionless() {
		return mag, nil
	}
	if n.UnitName == "%" {
		return mag + "%", nil
	}
	return mag + " " + displayUnitName(n.UnitName), nil
}

func renderMagnitude(n *value.Number, opt Options) (string, error) {
	if !n.Magnitude.IsReal() {
		re, err := renderReal(n.Magnitude.Re.Rat, n, opt)
		if err != nil {
			return "", err
		}
		im, err := renderReal(n.Magnitude.Im.Rat, n, opt)
		if err != nil {
			return "", err
		}
		sign := "+"
		if strings.HasPrefix(im, "-") {
			sign = ""
		}
		return fmt.Sprintf("%s%s%si", re, sign, im), nil
	}
	return renderReal(n.Magnitude.Re.Rat, n, opt)
}

func renderReal(r *bignum.BigRat, n *value.Number, opt Options) (string, error) {
	switch n.FormatHint {
	case bignum.FormatAuto:
		if n.BaseHint != 0 && n.BaseHint != 10 {
			break
		}
		if r.IsInt() {
			s := r.Rat.Num().String()
			if opt.Group {
				s = addGrouping(s, ",", 3)
			}
			return s, nil
		}
		s := autoDecimal(r.Rat.Num(), r.Rat.Denom(), r.Exact, opt.NoApprox)
		if opt.Group {
			rest := strings.TrimPrefix(s, "approx. ")
			s = s[:len(s)-len(rest)] + addGrouping(rest, ",", 3)
		}
		return s, nil
	case bignum.FormatRoman:
		return toRoman(r)
	case bignum.FormatWords:
		return toWords(r)
	case bignum.FormatFraction:
		return r.String(), nil
	case bignum.FormatMixedFraction:
		return toMixedFraction(r), nil
	case bignum.FormatExact:
		if !r.Exact && opt.NoApprox {
			return "", fmt.Errorf("format: value is not exact")
		}
		return r.String(), nil
	case bignum.FormatFloat:
		return exactFloatString(r.Rat.Num(), r.Rat.Denom()), nil
	case bignum.FormatDecimalPlaces:
		return toFixedDigits(r, n, opt)
	case bignum.FormatSignificantFigures:
		return toSigFigs(r, n, opt)
	case bignum.FormatCodepoint:
		return toCodepoint(r)
	case bignum.FormatCharacter:
		return toCharacter(r)
	case bignum.FormatString, bignum.FormatText:
		return r.String(), nil
	case bignum.FormatDate:
		return toDate(r)
	}
	return toBase(r, n, opt)
}

// toBase renders r in n.BaseHint, the teacher's toString, generalized
// from {2,8,10,16} to any radix 2..36.
func toBase(r *bignum.BigRat, n *value.Number, opt Options) (string, error) {
	base := n.BaseHint
	if base == 0 {
		base = 10
	}
	if base == 10 {
		s := r.String()
		if opt.Group {
			return addGrouping(s, ",", 3), nil
		}
		return s, nil
	}
	if !r.IsInt() {
		if base == 16 {
			f, _ := r.Rat.Float64()
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		}
		return r.String(), nil
	}
	intVal := new(big.Int).Quo(r.Rat.Num(), r.Rat.Denom())
	neg := intVal.Sign() < 0
	if neg {
		intVal.Abs(intVal)
	}
	var prefix string
	switch base {
	case 2:
		prefix = "0b"
	case 8:
		prefix = "0o"
	case 16:
		prefix = "0x"
	}
	result := prefix + intVal.Text(base)
	if opt.Group && (base == 2 || base == 8 || base == 16) {
		result = addGrouping(result, "_", 4)
	}
	if neg {
		result = "-" + result
	}
	return result, nil
}

// toFixedDigits renders to n.FormatArg decimal places (spec.md's "N dp"),
// via exact big.Int long division rather than a float64 round-trip.
func toFixedDigits(r *bignum.BigRat, n *value.Number, _ Options) (string, error) {
	return roundedDecimal(r.Rat.Num(), r.Rat.Denom(), n.FormatArg), nil
}

// toSigFigs renders to n.FormatArg significant figures ("N sf"), via
// exact big.Int long division rather than a float64 round-trip.
func toSigFigs(r *bignum.BigRat, n *value.Number, _ Options) (string, error) {
	digits := n.FormatArg
	if digits <= 0 {
		digits = 6
	}
	if r.Rat.Sign() == 0 {
		return "0", nil
	}
	return significantFigures(r.Rat.Num(), r.Rat.Denom(), digits), nil
}

// addGrouping inserts sep every groupSize digits from the right of the
// integer part, skipping any "0x"/"0b"/"0o"/"-" prefix, mirroring the
// teacher's addCommaGrouping/addUnderscoreGrouping.
func addGrouping(s, sep string, groupSize int) string {
	prefix := ""
	rest := s
	if strings.HasPrefix(rest, "-") {
		prefix = "-"
		rest = rest[1:]
	}
	for _, p := range []string{"0x", "0b", "0o"} {
		if strings.HasPrefix(rest, p) {
			prefix += p
			rest = rest[len(p):]
			break
		}
	}
	intPart := rest
	fracPart := ""
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		intPart = rest[:i]
		fracPart = rest[i:]
	}
	var b strings.Builder
	n := len(intPart)
	for i, c := range intPart {
		if i > 0 && (n-i)%groupSize == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(c)
	}
	return prefix + b.String() + fracPart
}

// maxBarWidth is the fixed display width for renderDist's proportional
// bar chart, spec.md §4.6.
const maxBarWidth = 40

// renderDist prints a dice distribution as a table: one line per
// outcome, ascending, each with its percentage to two decimal places
// and a bar of '#'s scaled proportionally against the most likely
// outcome (spec.md §4.6/§8 scenario 7).
func renderDist(d *value.Dist) string {
	outcomes := append([]int64(nil), d.Outcomes...)
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i] < outcomes[j] })

	maxProb := bignum.MustExact(0)
	for _, o := range outcomes {
		if p := d.Prob(o); bignum.Cmp(p, maxProb) > 0 {
			maxProb = p
		}
	}

	var b strings.Builder
	for i, o := range outcomes {
		if i > 0 {
			b.WriteByte('\n')
		}
		p := d.Prob(o)
		pct := roundedDecimal(new(big.Int).Mul(p.Rat.Num(), big.NewInt(100)), p.Rat.Denom(), 2)
		bar := strings.Repeat("#", barLength(p, maxProb))
		fmt.Fprintf(&b, "%d: %s%% %s", o, pct, bar)
	}
	return b.String()
}

// barLength scales p proportionally against maxProb into 0..maxBarWidth
// characters, via exact big.Int rounding rather than a float ratio.
func barLength(p, maxProb *bignum.BigRat) int {
	if maxProb.Rat.Sign() == 0 {
		return 0
	}
	num := new(big.Int).Mul(p.Rat.Num(), maxProb.Rat.Denom())
	num.Mul(num, big.NewInt(maxBarWidth))
	den := new(big.Int).Mul(p.Rat.Denom(), maxProb.Rat.Num())
	n := roundScaled(num, den, 0)
	return int(n.Int64())
}
