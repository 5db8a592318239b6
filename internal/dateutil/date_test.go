package dateutil

import "testing"

func TestParseValidDate(t *testing.T) {
	d, err := Parse("2024-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if d != (Date{Year: 2024, Month: 3, Day: 15}) {
		t.Errorf("got %+v, want 2024-03-15", d)
	}
}

func TestParseRejectsInvalidDate(t *testing.T) {
	tests := []string{"2024-02-30", "2024-13-01", "not-a-date", "2024-00-01"}
	for _, s := range tests {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected an error", s)
		}
	}
}

func TestAddDaysCrossesMonthAndYearBoundaries(t *testing.T) {
	tests := []struct {
		start    Date
		n        int64
		expected Date
	}{
		{Date{2024, 1, 31}, 1, Date{2024, 2, 1}},
		{Date{2023, 12, 31}, 1, Date{2024, 1, 1}},
		{Date{2024, 2, 28}, 1, Date{2024, 2, 29}}, // 2024 is a leap year
		{Date{2023, 2, 28}, 1, Date{2023, 3, 1}},  // 2023 is not
		{Date{2024, 3, 1}, -1, Date{2024, 2, 29}},
	}
	for _, tt := range tests {
		if got := tt.start.AddDays(tt.n); got != tt.expected {
			t.Errorf("%+v.AddDays(%d) = %+v, want %+v", tt.start, tt.n, got, tt.expected)
		}
	}
}

func TestDiffDaysIsAddDaysInverse(t *testing.T) {
	a := Date{2024, 1, 1}
	b := Date{2025, 1, 1}
	if got := b.DiffDays(a); got != 366 { // 2024 is a leap year
		t.Errorf("DiffDays = %d, want 366", got)
	}
	if got := a.DiffDays(b); got != -366 {
		t.Errorf("DiffDays = %d, want -366", got)
	}
}

func TestWeekdayIsGregorianCorrect(t *testing.T) {
	// 2024-01-01 was a Monday.
	if got := (Date{2024, 1, 1}).Weekday(); got != "Monday" {
		t.Errorf("got %q, want Monday", got)
	}
}

func TestString(t *testing.T) {
	got := Date{2024, 1, 1}.String()
	want := "Monday, 1 January 2024"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
