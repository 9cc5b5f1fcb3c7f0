// Package calendar provides business-date arithmetic for the billing engine.
//
// A business date is a calendar day in the operating timezone. It is encoded
// as a time.Time at midnight UTC carrying the business year/month/day, so that
// values written by different jobs compare byte-for-byte in the store
// regardless of the server's local zone.
package calendar

import (
	"time"
	_ "time/tzdata"
)

// DateLayout is the ISO layout used for business dates on the wire.
const DateLayout = "2006-01-02"

// Clock supplies the current instant. Services and jobs depend on this
// interface instead of time.Now so tests can pin arbitrary dates.
type Clock interface {
	Now() time.Time
}

// BusinessClock reports "now" in a fixed business timezone.
type BusinessClock struct {
	Loc *time.Location
	now func() time.Time
}

// NewBusinessClock loads tz (an IANA name) and returns a clock backed by the
// system time. An empty tz means UTC.
func NewBusinessClock(tz string) (*BusinessClock, error) {
	loc := time.UTC
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, err
		}
		loc = l
	}
	return &BusinessClock{Loc: loc, now: time.Now}, nil
}

// Now returns the current instant in the business timezone.
func (c *BusinessClock) Now() time.Time {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	loc := c.Loc
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// FixedClock always returns T. Used by tests and by replays of past dates.
type FixedClock struct {
	T time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time { return c.T }

// Today returns the business date for the clock's current instant.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf drops the time-of-day of t as observed in t's own location and
// returns that calendar day encoded at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueDateFor returns the due date for billingDay in the given month, clamped
// to the last day of that month (31 in April yields the 30th).
func DueDateFor(year int, month time.Month, billingDay int) time.Time {
	if billingDay < 1 {
		billingDay = 1
	}
	// Normalize month overflow first so the clamp uses the real target month.
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), first.Month()
	if last := DaysIn(year, month); billingDay > last {
		billingDay = last
	}
	return time.Date(year, month, billingDay, 0, 0, 0, 0, time.UTC)
}

// AddMonths shifts date by n calendar months, keeping the day-of-month unless
// the target month is shorter, in which case it clamps like DueDateFor.
func AddMonths(date time.Time, n int) time.Time {
	d := DateOf(date)
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return DueDateFor(first.Year(), first.Month(), d.Day())
}

// AddDays shifts a business date by n days.
func AddDays(date time.Time, n int) time.Time {
	return DateOf(date).AddDate(0, 0, n)
}

// Before reports whether a falls on an earlier calendar day than b.
func Before(a, b time.Time) bool {
	return DateOf(a).Before(DateOf(b))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// Format renders a business date as YYYY-MM-DD.
func Format(date time.Time) string {
	return DateOf(date).Format(DateLayout)
}

// Parse reads a YYYY-MM-DD business date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}
