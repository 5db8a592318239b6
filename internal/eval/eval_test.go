package eval

import (
	"context"
	"testing"

	"github.com/mikecarlton/qcalc/internal/lexer"
	"github.com/mikecarlton/qcalc/internal/parser"
	"github.com/mikecarlton/qcalc/internal/value"
)

func TestEvalArithmeticKinds(t *testing.T) {
	c := NewContext()
	tests := []struct {
		input   string
		wantErr Kind
	}{
		{"1 m + 1 kg", KindIncompatibleUnits},
		{"1/0", KindDivisionByZero},
		{"(-1)!", KindDomainError},
		{"100001!", KindOverflowGuard},
		{"nonexistent_name", KindUnknownIdentifier},
	}
	for _, tt := range tests {
		e, err := parser.Parse(tt.input, lexer.DecimalDot)
		if err != nil {
			t.Fatalf("%q: parse error: %v", tt.input, err)
		}
		_, err = Eval(context.Background(), c, e)
		if err == nil {
			t.Fatalf("%q: expected an error", tt.input)
		}
		ee, ok := err.(*Error)
		if !ok {
			t.Fatalf("%q: got %T, want *eval.Error", tt.input, err)
		}
		if ee.Kind != tt.wantErr {
			t.Errorf("%q: got Kind %v, want %v", tt.input, ee.Kind, tt.wantErr)
		}
	}
}

func TestEvalRollWithoutRandomSourceReportsUnavailable(t *testing.T) {
	c := NewContext()
	e, err := parser.Parse("roll 2d6", lexer.DecimalDot)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Eval(context.Background(), c, e)
	if err == nil {
		t.Fatal("expected an error with no random source configured")
	}
	ee, ok := err.(*Error)
	if !ok || ee.Kind != KindRandomUnavailable {
		t.Errorf("got %v, want KindRandomUnavailable", err)
	}
}

func TestEvalRollWithRandomSource(t *testing.T) {
	c := NewContext()
	c.Random = func(n int) ([]byte, bool) {
		b := make([]byte, n)
		return b, true
	}
	e, err := parser.Parse("roll 1d6", lexer.DecimalDot)
	if err != nil {
		t.Fatal(err)
	}
	v, err := Eval(context.Background(), c, e)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != value.KindNumber || v.Num == nil {
		t.Errorf("expected a numeric outcome, got %+v", v)
	}
}

func TestEvalAssignmentUpdatesScope(t *testing.T) {
	c := NewContext()
	e, err := parser.Parse("x = 2 + 2", lexer.DecimalDot)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Eval(context.Background(), c, e); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Scope.Get("x")
	if !ok {
		t.Fatal("x was not bound after assignment")
	}
	if got.Num == nil || got.Num.Magnitude.Re.Rat.RatString() != "4" {
		t.Errorf("x = %+v, want 4", got)
	}
}

func TestEvalUnitSurvivesScalarMultiplication(t *testing.T) {
	c := NewContext()
	e, err := parser.Parse("a = 4 kg; b = 2; a * b^2", lexer.DecimalDot)
	if err != nil {
		t.Fatal(err)
	}
	v, err := Eval(context.Background(), c, e)
	if err != nil {
		t.Fatal(err)
	}
	if v.Num == nil || v.Num.Magnitude.Re.Rat.RatString() != "16" {
		t.Fatalf("a * b^2 = %+v, want magnitude 16", v)
	}
	if v.Num.UnitName != "kg" {
		t.Errorf("a * b^2 unit name = %q, want %q", v.Num.UnitName, "kg")
	}
}

func TestEvalLambdaApplication(t *testing.T) {
	c := NewContext()
	e, err := parser.Parse(`f = \x. x * x; f(5)`, lexer.DecimalDot)
	if err != nil {
		t.Fatal(err)
	}
	v, err := Eval(context.Background(), c, e)
	if err != nil {
		t.Fatal(err)
	}
	if v.Num == nil || v.Num.Magnitude.Re.Rat.RatString() != "25" {
		t.Errorf("f(5) = %+v, want 25", v)
	}
}
