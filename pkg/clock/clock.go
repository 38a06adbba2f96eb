// Package clock provides the business-timezone clock and calendar used
// throughout the attendance and request engines. All date-key derivation
// goes through here so that "today" never depends on host-local time.
package clock

import (
	"context"
	"fmt"
	"time"
)

const dateKeyLayout = "2006-01-02"

// HolidayStore answers whether a date-key is a company non-working day.
type HolidayStore interface {
	IsHoliday(ctx context.Context, dateKey string) (bool, error)
}

// DayKind classifies a date-key for scheduling purposes.
type DayKind string

const (
	Workday           DayKind = "WORKDAY"
	Weekend           DayKind = "WEEKEND"
	HolidayKind       DayKind = "HOLIDAY"
)

// Clock renders "now" and classifies dates in the fixed business timezone.
// It never consults host-local time for anything business-meaningful.
type Clock struct {
	loc      *time.Location
	holidays HolidayStore
	now      func() time.Time
}

// New builds a Clock with a fixed offset east of UTC (seconds) and the
// holiday store used to classify dates.
func New(utcOffsetSeconds int, holidays HolidayStore) *Clock {
	return &Clock{
		loc:      time.FixedZone("business", utcOffsetSeconds),
		holidays: holidays,
		now:      time.Now,
	}
}

// Fixed returns a Clock pinned to t, for deterministic tests. Classify and
// WorkdaysBetween still consult the given HolidayStore.
func Fixed(t time.Time, holidays HolidayStore) *Clock {
	c := New(0, holidays)
	c.loc = t.Location()
	c.now = func() time.Time { return t }
	return c
}

// Location returns the business time.Location.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant rendered in the business timezone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// In renders an arbitrary instant in the business timezone.
func (c *Clock) In(t time.Time) time.Time {
	return t.In(c.loc)
}

// DateKey renders t's calendar date in the business timezone as YYYY-MM-DD.
func (c *Clock) DateKey(t time.Time) string {
	return c.In(t).Format(dateKeyLayout)
}

// Today is a convenience for DateKey(Now()).
func (c *Clock) Today() string {
	return c.DateKey(c.Now())
}

// ParseDateKey parses a YYYY-MM-DD string into midnight business time on
// that date, rejecting phantom dates (Feb 30, month 13) instead of
// normalizing them the way time.Parse silently would via overflow.
func (c *Clock) ParseDateKey(dateKey string) (time.Time, error) {
	t, err := time.ParseInLocation(dateKeyLayout, dateKey, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateKey, err)
	}
	if t.Format(dateKeyLayout) != dateKey {
		return time.Time{}, fmt.Errorf("invalid date %q: not a real calendar date", dateKey)
	}
	return t, nil
}

// IsWeekend reports whether t's business-timezone weekday is Saturday or Sunday.
func (c *Clock) IsWeekend(t time.Time) bool {
	switch c.In(t).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// Classify returns the DayKind for a date-key: weekend, holiday (checked
// only when not a weekend), or workday.
func (c *Clock) Classify(ctx context.Context, dateKey string) (DayKind, error) {
	t, err := c.ParseDateKey(dateKey)
	if err != nil {
		return "", err
	}
	if c.IsWeekend(t) {
		return Weekend, nil
	}
	isHoliday, err := c.holidays.IsHoliday(ctx, dateKey)
	if err != nil {
		return "", err
	}
	if isHoliday {
		return HolidayKind, nil
	}
	return Workday, nil
}

// WorkdaysBetween counts workdays in the inclusive range [left, right].
func (c *Clock) WorkdaysBetween(ctx context.Context, left, right string) (int, error) {
	l, err := c.ParseDateKey(left)
	if err != nil {
		return 0, err
	}
	r, err := c.ParseDateKey(right)
	if err != nil {
		return 0, err
	}
	if r.Before(l) {
		return 0, fmt.Errorf("range end %q precedes start %q", right, left)
	}

	count := 0
	for d := l; !d.After(r); d = d.AddDate(0, 0, 1) {
		kind, err := c.Classify(ctx, c.DateKey(d))
		if err != nil {
			return 0, err
		}
		if kind == Workday {
			count++
		}
	}
	return count, nil
}

// AtTimeOfDay returns the instant on dateKey (business timezone) at the
// given "HH:MM" time of day.
func (c *Clock) AtTimeOfDay(dateKey, hhmm string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", dateKey+" "+hhmm, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q on %q: %w", hhmm, dateKey, err)
	}
	return t, nil
}
