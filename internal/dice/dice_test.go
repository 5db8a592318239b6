package dice

import (
	"testing"

	"github.com/mikecarlton/qcalc/internal/bignum"
)

// TestDiceDistributionSumsToOne checks that every built distribution's
// probabilities sum to exactly 1, spec.md §8.
func TestDiceDistributionSumsToOne(t *testing.T) {
	tests := []struct {
		count, sides int
	}{
		{1, 6}, {2, 6}, {3, 6}, {1, 20}, {4, 4},
	}
	for _, tt := range tests {
		d, err := Build(tt.count, tt.sides)
		if err != nil {
			t.Fatalf("%dd%d: %v", tt.count, tt.sides, err)
		}
		sum := bignum.MustExact(0)
		for _, o := range d.Outcomes {
			sum = bignum.Add(sum, d.Probs[o])
		}
		if sum.Rat.RatString() != "1" {
			t.Errorf("%dd%d: probabilities sum to %s, want 1", tt.count, tt.sides, sum.Rat.RatString())
		}
	}
}

func TestDiceOutcomeRange(t *testing.T) {
	d, err := Build(2, 6)
	if err != nil {
		t.Fatal(err)
	}
	if d.Outcomes[0] != 2 || d.Outcomes[len(d.Outcomes)-1] != 12 {
		t.Errorf("2d6 outcomes span %d..%d, want 2..12", d.Outcomes[0], d.Outcomes[len(d.Outcomes)-1])
	}
}

func TestBuildRejectsOversizedDistributions(t *testing.T) {
	if _, err := Build(1000, 1000); err == nil {
		t.Errorf("expected an error for an oversized distribution")
	} else if e, ok := err.(*Error); !ok || e.Kind != ErrTooLarge {
		t.Errorf("got %v, want ErrTooLarge", err)
	}
}

func TestBuildRejectsInvalidParams(t *testing.T) {
	for _, tt := range []struct{ count, sides int }{{0, 6}, {1, 1}, {-1, 6}} {
		if _, err := Build(tt.count, tt.sides); err == nil {
			t.Errorf("Build(%d, %d): expected an error", tt.count, tt.sides)
		}
	}
}

func TestAddConvolvesOutcomes(t *testing.T) {
	d1, _ := Build(1, 6)
	sum := Add(d1, d1, false)
	if sum.Outcomes[0] != 2 || sum.Outcomes[len(sum.Outcomes)-1] != 12 {
		t.Errorf("1d6+1d6 outcomes span %d..%d, want 2..12", sum.Outcomes[0], sum.Outcomes[len(sum.Outcomes)-1])
	}
	// 7 is the most likely sum of two six-sided dice: 6/36.
	if sum.Probs[7].Rat.RatString() != "1/6" {
		t.Errorf("P(sum=7) = %s, want 1/6", sum.Probs[7].Rat.RatString())
	}
}

func TestScaleMultipliesOutcomes(t *testing.T) {
	d, _ := Build(1, 6)
	scaled := Scale(d, 2)
	for _, o := range scaled.Outcomes {
		if o%2 != 0 {
			t.Errorf("scaled outcome %d is not even", o)
		}
	}
}

func TestMeanOfFairDie(t *testing.T) {
	d, _ := Build(1, 6)
	mean := Mean(d)
	// E[1d6] = 3.5 = 7/2
	if mean.Rat.RatString() != "7/2" {
		t.Errorf("mean(1d6) = %s, want 7/2", mean.Rat.RatString())
	}
}

func TestSampleAlwaysReturnsAnOutcome(t *testing.T) {
	d, _ := Build(2, 6)
	fixed := byte(0)
	random := func(n int) ([]byte, bool) {
		b := make([]byte, n)
		for i := range b {
			b[i] = fixed
		}
		return b, true
	}
	outcome, err := Sample(d, random)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, o := range d.Outcomes {
		if o == outcome {
			found = true
		}
	}
	if !found {
		t.Errorf("sampled outcome %d is not in the distribution", outcome)
	}
}

func TestSampleReportsExhaustedRandomSource(t *testing.T) {
	d, _ := Build(1, 6)
	random := func(n int) ([]byte, bool) { return nil, false }
	if _, err := Sample(d, random); err == nil {
		t.Errorf("expected an error when the random source is exhausted")
	}
}
