package qcalc

import (
	"context"
	"strings"
	"testing"
)

func eval(t *testing.T, input string, vars []byte) Result {
	t.Helper()
	return Evaluate(context.Background(), input, vars, Config{})
}

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2 + 3", "5"},
		{"2 * (3 + 4)", "14"},
		{"1/2 + 1/3", "approx. 0.8333333333"},
		{"10 mod 3", "1"},
	}
	for _, tt := range tests {
		r := eval(t, tt.input, nil)
		if !r.OK {
			t.Fatalf("%q: %v", tt.input, r.Err)
		}
		if got := strings.TrimSuffix(r.Output, "\n"); got != tt.expected {
			t.Errorf("%q = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestEvaluateReportsParseError(t *testing.T) {
	r := eval(t, "2 +", nil)
	if r.OK {
		t.Fatalf("expected a parse error, got %q", r.Output)
	}
	if r.Err == nil {
		t.Fatal("expected a non-nil error")
	}
}

func TestEvaluatePersistsVariablesAcrossCalls(t *testing.T) {
	first := eval(t, "x = 41 + 1", nil)
	if !first.OK {
		t.Fatalf("assignment failed: %v", first.Err)
	}
	second := eval(t, "x + 1", first.Variables)
	if !second.OK {
		t.Fatalf("lookup failed: %v", second.Err)
	}
	if got := strings.TrimSuffix(second.Output, "\n"); got != "43" {
		t.Errorf("x + 1 = %q, want 43", got)
	}
}

func TestEvaluatePlainNumberAttributeSuppressesUnit(t *testing.T) {
	r := eval(t, "@plain_number (5 km)", nil)
	if !r.OK {
		t.Fatalf("%v", r.Err)
	}
	if got := strings.TrimSuffix(r.Output, "\n"); got != "5" {
		t.Errorf("got %q, want %q", got, "5")
	}
}

func TestEvaluateNoTrailingNewlineAttribute(t *testing.T) {
	r := eval(t, "@no_trailing_newline 5", nil)
	if !r.OK {
		t.Fatalf("%v", r.Err)
	}
	if strings.HasSuffix(r.Output, "\n") {
		t.Errorf("expected no trailing newline, got %q", r.Output)
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	r := eval(t, "1/0", nil)
	if r.OK {
		t.Fatalf("expected an error, got %q", r.Output)
	}
}

func TestEvaluateFactorialAndPercent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5!", "120"},
		{"50%", "0.5"},
		{"5 choose 2", "10"},
		{"5 permute 2", "20"},
		{"6 and 3", "2"},
		{"5 xor 3", "6"},
		{"1 << 4", "16"},
	}
	for _, tt := range tests {
		r := eval(t, tt.input, nil)
		if !r.OK {
			t.Fatalf("%q: %v", tt.input, r.Err)
		}
		if got := strings.TrimSuffix(r.Output, "\n"); got != tt.expected {
			t.Errorf("%q = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestEvaluateTemperatureAffineConversion(t *testing.T) {
	r := eval(t, "0 degC to K", nil)
	if !r.OK {
		t.Fatalf("%v", r.Err)
	}
	if got := strings.TrimSuffix(r.Output, "\n"); got != "273.15 K" {
		t.Errorf("got %q, want %q", got, "273.15 K")
	}
}

func TestEvaluateDegreeSignConversion(t *testing.T) {
	r := eval(t, "0 °C to °F", nil)
	if !r.OK {
		t.Fatalf("%v", r.Err)
	}
	if got := strings.TrimSuffix(r.Output, "\n"); got != "32 °F" {
		t.Errorf("got %q, want %q", got, "32 °F")
	}
}

func TestEvaluateDiceMean(t *testing.T) {
	r := eval(t, "mean(2d6)", nil)
	if !r.OK {
		t.Fatalf("%v", r.Err)
	}
	if got := strings.TrimSuffix(r.Output, "\n"); got != "7" {
		t.Errorf("got %q, want %q", got, "7")
	}
}

func TestEvaluateUnitConversion(t *testing.T) {
	r := eval(t, "1000 m to km", nil)
	if !r.OK {
		t.Fatalf("%v", r.Err)
	}
	if got := strings.TrimSuffix(r.Output, "\n"); got != "1 km" {
		t.Errorf("got %q, want %q", got, "1 km")
	}
}
