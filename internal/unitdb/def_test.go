package unitdb

import "testing"

func TestLookupBaseAndDerived(t *testing.T) {
	db := New()

	tests := []struct {
		name  string
		units string
	}{
		{"m", "length^1"},
		{"km", "length^1"}, // prefixed
		{"ft", "length^1"},
		{"N", "length^1 mass^1 time^-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, _, _, err := db.Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", tt.name, err)
			}
			if exp.String() != tt.units {
				t.Errorf("Lookup(%q) units = %q, want %q", tt.name, exp.String(), tt.units)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	db := New()
	if _, _, _, err := db.Lookup("frobnicate"); err != ErrUnknownUnit {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}

func TestTemperatureAffine(t *testing.T) {
	db := New()
	_, scale, offset, err := db.Lookup("degC")
	if err != nil {
		t.Fatal(err)
	}
	if offset == nil {
		t.Fatal("expected degC to carry an offset")
	}
	if scale.String() != "1" {
		t.Errorf("expected degC scale 1, got %s", scale.String())
	}
}
