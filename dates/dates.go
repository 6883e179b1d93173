// Package dates provides the business-day calendar used to lay out
// observation schedules.
package dates

import (
	"errors"
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// NYSE full-day closures. Extend when the exchange publishes a new year.
var nyseHolidays = []string{
	"2024-01-01", "2024-01-15", "2024-02-19", "2024-03-29", "2024-05-27",
	"2024-06-19", "2024-07-04", "2024-09-02", "2024-11-28", "2024-12-25",
	"2025-01-01", "2025-01-20", "2025-02-17", "2025-04-18", "2025-05-26",
	"2025-06-19", "2025-07-04", "2025-09-01", "2025-11-27", "2025-12-25",
	"2026-01-01", "2026-01-19", "2026-02-16", "2026-04-03", "2026-05-25",
	"2026-06-19", "2026-07-03", "2026-09-07", "2026-11-26", "2026-12-25",
	"2027-01-01", "2027-01-18", "2027-02-15", "2027-03-26", "2027-05-31",
	"2027-06-18", "2027-07-05", "2027-09-06", "2027-11-25", "2027-12-24",
}

// Calendar answers business-day questions against a fixed holiday set.
type Calendar struct {
	holidays map[string]struct{}
}

// NewCalendar builds a calendar from YYYY-MM-DD holiday strings.
func NewCalendar(days []string) (*Calendar, error) {
	holidays := make(map[string]struct{}, len(days))
	for _, s := range days {
		if _, err := time.Parse(Layout, s); err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", s, err)
		}
		holidays[s] = struct{}{}
	}
	return &Calendar{holidays: holidays}, nil
}

// NYSE returns the built-in New York Stock Exchange calendar.
func NYSE() *Calendar {
	c, err := NewCalendar(nyseHolidays)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Calendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays[d.Format(Layout)]
	return ok
}

func isWeekday(d time.Time) bool {
	return d.Weekday() > 0 && d.Weekday() < 6
}

// IsBusinessDay reports whether d is a weekday that is not a holiday.
func (c *Calendar) IsBusinessDay(d time.Time) bool {
	return isWeekday(d) && !c.IsHoliday(d)
}

// AdjustFollowing rolls d forward to the next business day. A business day
// is returned unchanged.
func (c *Calendar) AdjustFollowing(d time.Time) time.Time {
	for !c.IsBusinessDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// BusinessDates lists every business day from start to end inclusive.
func (c *Calendar) BusinessDates(start, end time.Time) ([]time.Time, error) {
	if end.Before(start) {
		return nil, errors.New("end date must not precede start date")
	}
	var out []time.Time
	for d := c.AdjustFollowing(start); !d.After(end); d = c.AdjustFollowing(d.AddDate(0, 0, 1)) {
		out = append(out, d)
	}
	return out, nil
}

// MonthlySchedule lays out observation dates every freq months over a tenor,
// both in months, rolling each date forward to a business day. The start
// date itself is not part of the schedule.
func (c *Calendar) MonthlySchedule(start time.Time, tenor, freq int) ([]time.Time, error) {
	if freq <= 0 || tenor <= 0 {
		return nil, errors.New("tenor and frequency must be positive")
	}
	if tenor%freq != 0 {
		return nil, fmt.Errorf("tenor %d is not a multiple of frequency %d", tenor, freq)
	}
	n := tenor / freq
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = c.AdjustFollowing(start.AddDate(0, (i+1)*freq, 0))
	}
	return out, nil
}
