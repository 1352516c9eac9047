package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date identifier format
const DateLayout = "2006-01-02"

// WindowDays is the length of the rolling signup window, today inclusive
const WindowDays = 7

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock time.Time

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// DateString formats the calendar day of t in t's own location
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns today's date identifier as seen in loc.
// A nil loc means the process local zone.
func Today(clock Clock, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return DateString(clock.Now().In(loc))
}

// ComputeWindow returns the next WindowDays date identifiers starting at
// today's calendar date in today's location.
func ComputeWindow(today time.Time) []string {
	// Build each day from the calendar fields so DST shifts can't skip or repeat a date
	year, month, day := today.Date()
	loc := today.Location()

	dates := make([]string, WindowDays)
	for i := 0; i < WindowDays; i++ {
		dates[i] = DateString(time.Date(year, month, day+i, 12, 0, 0, 0, loc))
	}
	return dates
}

// ParseDate parses a canonical date identifier into midnight UTC of that day
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	if DateString(t) != s {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// AddDays shifts a date identifier by n calendar days
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return DateString(t.AddDate(0, 0, n)), nil
}
