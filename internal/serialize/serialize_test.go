package serialize

import (
	"testing"

	"github.com/mikecarlton/qcalc/internal/approx"
	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/dateutil"
	"github.com/mikecarlton/qcalc/internal/units"
	"github.com/mikecarlton/qcalc/internal/value"
)

func numberValue(lit string) value.Value {
	r := bignum.MustExact(lit)
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: approx.FromReal(approx.Exact(r)),
		Unit:      units.Single(units.Length, 1),
		Scale:     bignum.MustExact(1000),
		UnitName:  "km",
		BaseHint:  10,
	}}
}

// TestEncodeDecodeRoundTrip checks that Encode/Decode preserve every
// encodable value kind's observable fields, spec.md §8.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	frame := value.Frame{
		"x":    numberValue("42"),
		"name": value.FromString("hello"),
		"today": value.FromDate(dateutil.Date{Year: 2024, Month: 3, Day: 15}),
	}
	blob, err := Encode(frame)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(frame) {
		t.Fatalf("got %d bindings, want %d", len(got), len(frame))
	}

	x := got["x"]
	if x.Kind != value.KindNumber {
		t.Fatalf("x: got kind %v, want number", x.Kind)
	}
	if x.Num.Magnitude.Re.Rat.RatString() != "42" {
		t.Errorf("x magnitude: got %s, want 42", x.Num.Magnitude.Re.Rat.RatString())
	}
	if x.Num.UnitName != "km" {
		t.Errorf("x unit name: got %q, want km", x.Num.UnitName)
	}
	if !units.Equal(x.Num.Unit, units.Single(units.Length, 1)) {
		t.Errorf("x unit exponents did not round-trip")
	}

	name := got["name"]
	if name.Kind != value.KindString || name.Str != "hello" {
		t.Errorf("name: got %+v, want string hello", name)
	}

	today := got["today"]
	if today.Kind != value.KindDate || today.Date != (dateutil.Date{Year: 2024, Month: 3, Day: 15}) {
		t.Errorf("today: got %+v, want 2024-03-15", today)
	}
}

func TestDecodeEmptyBlobIsEmptyScope(t *testing.T) {
	frame, err := Decode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(frame) != 0 {
		t.Errorf("got %d bindings, want 0", len(frame))
	}
}

func TestEncodeSkipsUnencodableKinds(t *testing.T) {
	frame := value.Frame{
		"f": {Kind: value.KindBuiltinFn, Builtin: &value.BuiltinFn{Name: "sqrt"}},
		"x": numberValue("1"),
	}
	blob, err := Encode(frame)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(blob)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got["f"]; ok {
		t.Errorf("expected builtin binding to be skipped")
	}
	if _, ok := got["x"]; !ok {
		t.Errorf("expected numeric binding to survive")
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	if _, err := Decode([]byte("NOPE")); err == nil {
		t.Errorf("expected an error for a non-qcalc blob")
	}
}

func TestNegativeAndFractionalMagnitudeRoundTrip(t *testing.T) {
	frame := value.Frame{
		"neg":  numberValueLit("-7/3"),
		"zero": numberValueLit("0"),
	}
	blob, err := Encode(frame)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(blob)
	if err != nil {
		t.Fatal(err)
	}
	if got["neg"].Num.Magnitude.Re.Rat.RatString() != "-7/3" {
		t.Errorf("neg: got %s, want -7/3", got["neg"].Num.Magnitude.Re.Rat.RatString())
	}
	if got["zero"].Num.Magnitude.Re.Rat.RatString() != "0" {
		t.Errorf("zero: got %s, want 0", got["zero"].Num.Magnitude.Re.Rat.RatString())
	}
}

func numberValueLit(lit string) value.Value {
	r := bignum.MustExact(lit)
	return value.Value{Kind: value.KindNumber, Num: &value.Number{
		Magnitude: approx.FromReal(approx.Exact(r)),
		Unit:      units.Dimensionless(),
		Scale:     bignum.MustExact(1),
		BaseHint:  10,
	}}
}
