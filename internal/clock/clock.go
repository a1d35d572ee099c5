// Package clock supplies the current time in the business timezone and the
// day-boundary math the salary rules depend on. Lateness is always measured
// against local midnight in that timezone, so everything that needs "now"
// takes a Clock instead of calling time.Now directly.
package clock

import "time"

// Clock yields the current time, already located in the business timezone.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

func (c systemClock) Now() time.Time { return time.Now().In(c.loc) }

// System returns a Clock backed by the wall clock in loc.
func System(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

// Fixed returns a Clock pinned to t. Used in tests.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// StartOfDay truncates t to local midnight, keeping its location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MinutesSinceMidnight returns whole minutes elapsed since local midnight.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Noon returns 12:00 on the same local day as t.
func Noon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// MonthRange returns the first instant of the month and the first instant of
// the next month in loc. Queries treat the range as [start, end).
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
