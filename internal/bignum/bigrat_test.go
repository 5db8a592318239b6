package bignum

import "testing"

func TestBigRatArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		op       func(a, b *BigRat) *BigRat
		expected string
	}{
		{"add", "1/3", "1/6", func(a, b *BigRat) *BigRat { return Add(a, b) }, "1/2"},
		{"sub", "1/2", "1/3", func(a, b *BigRat) *BigRat { return Sub(a, b) }, "1/6"},
		{"mul", "2/3", "3/4", func(a, b *BigRat) *BigRat { return Mul(a, b) }, "1/2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewExact(tt.a)
			if err != nil {
				t.Fatal(err)
			}
			b, err := NewExact(tt.b)
			if err != nil {
				t.Fatal(err)
			}
			got := tt.op(a, b)
			if got.Rat.RatString() != tt.expected {
				t.Errorf("got %s, want %s", got.Rat.RatString(), tt.expected)
			}
			if !got.Exact {
				t.Errorf("expected exact result")
			}
		})
	}
}

func TestBigRatExactRoundTrip(t *testing.T) {
	// For all finite nonzero BigRat r: parsing r's exact string form
	// reproduces r (spec.md §8).
	inputs := []string{"1/3", "-7/2", "1000000000000000000001/3", "0"}
	for _, in := range inputs {
		r, err := NewExact(in)
		if err != nil {
			t.Fatal(err)
		}
		again, err := NewExact(r.Rat.RatString())
		if err != nil {
			t.Fatal(err)
		}
		if Cmp(r, again) != 0 {
			t.Errorf("round trip mismatch for %s: got %s", in, again.Rat.RatString())
		}
	}
}

func TestBigRatMod(t *testing.T) {
	tests := []struct {
		x, y, want string
	}{
		{"5", "2", "1"},
		{"-5", "2", "1"},
		{"5", "-2", "-1"},
	}
	for _, tt := range tests {
		x, _ := NewExact(tt.x)
		y, _ := NewExact(tt.y)
		got, err := Mod(x, y)
		if err != nil {
			t.Fatal(err)
		}
		if got.Rat.RatString() != tt.want {
			t.Errorf("Mod(%s,%s) = %s, want %s", tt.x, tt.y, got.Rat.RatString(), tt.want)
		}
	}
}

func TestBigUIntBaseStringify(t *testing.T) {
	for base := 2; base <= 36; base++ {
		u, err := ParseBigUInt("123456789", 10)
		if err != nil {
			t.Fatal(err)
		}
		s := u.Text(base)
		again, err := ParseBigUInt(s, base)
		if err != nil {
			t.Fatalf("base %d: %v", base, err)
		}
		if again.Cmp(u.Int) != 0 {
			t.Errorf("base %d round trip failed: %s", base, s)
		}
	}
}
