// Package date has calendar helpers for day-granularity finance dates.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Truncate drops the clock part and pins t to UTC midnight of its date.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths moves t forward by n calendar months. The day of month is
// clamped to the target month's length (Jan 31 + 1 = Feb 28/29) instead of
// overflowing like time.AddDate does.
func AddMonths(t time.Time, n int) time.Time {
	t = Truncate(t)
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := DaysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween counts whole calendar days from a to b; negative if b is earlier.
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)).Hours() / 24)
}

// Parse reads a YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date: %q is not YYYY-MM-DD", s)
	}
	return t, nil
}

// Date renders as "YYYY-MM-DD" in JSON.
type Date time.Time

func Of(t time.Time) Date { return Date(Truncate(t)) }

func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) String() string { return time.Time(d).Format(Layout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := Parse(s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}
