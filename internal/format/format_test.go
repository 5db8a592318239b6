package format

import (
	"strings"
	"testing"

	"github.com/mikecarlton/qcalc/internal/approx"
	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/units"
	"github.com/mikecarlton/qcalc/internal/value"
)

func numberOf(t *testing.T, lit string) *value.Number {
	t.Helper()
	r, err := bignum.NewExact(lit)
	if err != nil {
		t.Fatal(err)
	}
	return &value.Number{
		Magnitude: approx.FromReal(approx.Exact(r)),
		Unit:      units.Dimensionless(),
		Scale:     bignum.MustExact(1),
		BaseHint:  10,
	}
}

func TestRenderBase(t *testing.T) {
	tests := []struct {
		name     string
		lit      string
		base     int
		expected string
	}{
		{"decimal", "255", 10, "255"},
		{"hex", "255", 16, "0xff"},
		{"octal", "8", 8, "0o10"},
		{"binary", "5", 2, "0b101"},
		{"negative hex", "-255", 16, "-0xff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := numberOf(t, tt.lit)
			n.BaseHint = tt.base
			got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{})
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRenderRoman(t *testing.T) {
	tests := []struct {
		lit, expected string
	}{
		{"1994", "MCMXCIV"},
		{"58", "LVIII"},
		{"3999", "MMMCMXCIX"},
	}
	for _, tt := range tests {
		n := numberOf(t, tt.lit)
		n.FormatHint = bignum.FormatRoman
		got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.expected {
			t.Errorf("roman(%s) = %q, want %q", tt.lit, got, tt.expected)
		}
	}
}

func TestRenderRomanOverline(t *testing.T) {
	tests := []struct {
		lit, expected string
	}{
		{"4000", "I̅V̅"},
		{"15400", "X̅V̅CD"},
	}
	for _, tt := range tests {
		n := numberOf(t, tt.lit)
		n.FormatHint = bignum.FormatRoman
		got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{})
		if err != nil {
			t.Fatalf("roman(%s): %v", tt.lit, err)
		}
		if got != tt.expected {
			t.Errorf("roman(%s) = %q, want %q", tt.lit, got, tt.expected)
		}
	}
}

func TestRenderWords(t *testing.T) {
	tests := []struct {
		lit, expected string
	}{
		{"0", "zero"},
		{"42", "forty-two"},
		{"1000", "one thousand"},
		{"-5", "negative five"},
		{"123456", "one hundred and twenty-three thousand four hundred and fifty-six"},
	}
	for _, tt := range tests {
		n := numberOf(t, tt.lit)
		n.FormatHint = bignum.FormatWords
		got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.expected {
			t.Errorf("words(%s) = %q, want %q", tt.lit, got, tt.expected)
		}
	}
}

func TestRenderAutoDecimal(t *testing.T) {
	tests := []struct {
		lit, expected string
	}{
		{"1/2", "0.5"},
		{"1/3", "approx. 0.3333333333"},
		{"5/6", "approx. 0.8333333333"},
	}
	for _, tt := range tests {
		n := numberOf(t, tt.lit)
		got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{})
		if err != nil {
			t.Fatalf("auto(%s): %v", tt.lit, err)
		}
		if got != tt.expected {
			t.Errorf("auto(%s) = %q, want %q", tt.lit, got, tt.expected)
		}
	}
}

func TestRenderAutoNoApproxSuppressesPrefix(t *testing.T) {
	n := numberOf(t, "1/3")
	got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{NoApprox: true})
	if err != nil {
		t.Fatal(err)
	}
	if got != "0.3333333333" {
		t.Errorf("got %q, want %q", got, "0.3333333333")
	}
}

func TestRenderDecimalPlaces(t *testing.T) {
	n := numberOf(t, "1/3")
	n.FormatHint = bignum.FormatDecimalPlaces
	n.FormatArg = 5
	got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got != "0.33333" {
		t.Errorf("got %q, want %q", got, "0.33333")
	}
}

func TestRenderSignificantFigures(t *testing.T) {
	tests := []struct {
		lit      string
		sf       int
		expected string
	}{
		{"1234", 2, "1200"},
		{"9.999", 3, "10.0"},
		{"1/3", 4, "0.3333"},
	}
	for _, tt := range tests {
		n := numberOf(t, tt.lit)
		n.FormatHint = bignum.FormatSignificantFigures
		n.FormatArg = tt.sf
		got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{})
		if err != nil {
			t.Fatalf("sf(%s): %v", tt.lit, err)
		}
		if got != tt.expected {
			t.Errorf("sf(%s, %d) = %q, want %q", tt.lit, tt.sf, got, tt.expected)
		}
	}
}

func TestRenderFloatExactRecurring(t *testing.T) {
	n := numberOf(t, "1/6")
	n.FormatHint = bignum.FormatFloat
	got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got != "0.1(6)" {
		t.Errorf("got %q, want %q", got, "0.1(6)")
	}
}

func TestRenderMixedFraction(t *testing.T) {
	tests := []struct {
		lit, expected string
	}{
		{"7/2", "3 1/2"},
		{"1/2", "1/2"},
		{"-7/2", "-3 1/2"},
		{"4", "4"},
	}
	for _, tt := range tests {
		n := numberOf(t, tt.lit)
		n.FormatHint = bignum.FormatMixedFraction
		got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.expected {
			t.Errorf("mixed_fraction(%s) = %q, want %q", tt.lit, got, tt.expected)
		}
	}
}

func TestRenderUnitSuffix(t *testing.T) {
	n := numberOf(t, "5")
	n.Unit = units.Single(units.Length, 1)
	n.UnitName = "km"
	got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got != "5 km" {
		t.Errorf("got %q, want %q", got, "5 km")
	}
}

func TestRenderPlainNumberSuppressesUnit(t *testing.T) {
	n := numberOf(t, "5")
	n.Unit = units.Single(units.Length, 1)
	n.UnitName = "km"
	got, err := Render(value.Value{Kind: value.KindNumber, Num: n}, Options{PlainNumber: true})
	if err != nil {
		t.Fatal(err)
	}
	if got != "5" {
		t.Errorf("got %q, want %q", got, "5")
	}
}

func TestRenderDistTable(t *testing.T) {
	d := &value.Dist{
		Outcomes: []int64{2, 1},
		Probs: map[int64]*bignum.BigRat{
			1: bignum.MustExact("1/2"),
			2: bignum.MustExact("1/2"),
		},
	}
	got, err := Render(value.Value{Kind: value.KindDist, Dist: d}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "1: 50.00% " + strings.Repeat("#", maxBarWidth) + "\n" +
		"2: 50.00% " + strings.Repeat("#", maxBarWidth)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAddGrouping(t *testing.T) {
	tests := []struct {
		in, sep  string
		size     int
		expected string
	}{
		{"1234567", ",", 3, "1,234,567"},
		{"0xff00ff", "_", 4, "0xff_00ff"},
		{"-1234", ",", 3, "-1,234"},
	}
	for _, tt := range tests {
		got := addGrouping(tt.in, tt.sep, tt.size)
		if got != tt.expected {
			t.Errorf("addGrouping(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
