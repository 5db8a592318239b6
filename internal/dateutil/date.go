// Package dateutil implements proleptic Gregorian date arithmetic,
// spec.md §3/§4.4/§8: valid year/1..12 month/1..31 day triples, day
// arithmetic, and Zeller-equivalent weekday formatting.
//
// New to the teacher (a numeric calculator has no date type); grounded
// on the overall "small value type with a String method and pure
// helper functions" shape the teacher uses throughout (Number, Value,
// Unit), and on time.Time's proleptic-Gregorian semantics for the
// underlying day-count arithmetic so leap years/month lengths are
// exactly those of the standard library rather than hand-rolled.
package dateutil

import (
	"fmt"
	"time"
)

// Date is a proleptic-Gregorian calendar date.
type Date struct {
	Year  int
	Month int // 1..12
	Day   int // 1..31
}

// Validate reports whether d is a legal Gregorian date.
func (d Date) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("dateutil: invalid month %d", d.Month)
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != d.Year || int(t.Month()) != d.Month || t.Day() != d.Day {
		return fmt.Errorf("dateutil: invalid date %04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
	return nil
}

// Parse parses a strict YYYY-MM-DD literal, the only format the lexer's
// @YYYY-MM-DD attribute and DateLit token accept (spec.md §4.1).
func Parse(s string) (Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("dateutil: invalid date literal %q, want YYYY-MM-DD", s)
	}
	for i := 0; i < len(s); i++ {
		if i != 4 && i != 7 && (s[i] < '0' || s[i] > '9') {
			return Date{}, fmt.Errorf("dateutil: invalid date literal %q, want YYYY-MM-DD", s)
		}
	}
	var y, m, day int
	if n, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &day); n != 3 || err != nil {
		return Date{}, fmt.Errorf("dateutil: invalid date literal %q, want YYYY-MM-DD", s)
	}
	d := Date{Year: y, Month: m, Day: day}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

func (d Date) toTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func fromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// AddDays returns d shifted by n days (n may be negative).
func (d Date) AddDays(n int64) Date {
	return fromTime(d.toTime().AddDate(0, 0, int(n)))
}

// DiffDays returns the number of days from o to d (d - o).
func (d Date) DiffDays(o Date) int64 {
	return int64(d.toTime().Sub(o.toTime()).Hours() / 24)
}

// Weekday returns the English weekday name, Gregorian-correct via
// time.Time (equivalent to the Zeller congruence spec.md §4.4 names).
func (d Date) Weekday() string {
	return d.toTime().Weekday().String()
}

var monthNames = []string{"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

// MonthName returns the English month name for d.Month.
func (d Date) MonthName() string { return monthNames[d.Month] }

// String renders "Weekday, D Month YYYY" per spec.md §4.4.
func (d Date) String() string {
	return fmt.Sprintf("%s, %d %s %d", d.Weekday(), d.Day, d.MonthName(), d.Year)
}
