// Package datecalc holds the only date math the schedule engine performs.
// Every date is a UTC midnight time.Time; higher layers must route through
// these functions so both weekend modes stay consistent.
package datecalc

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Layout is the wire and display format of a schedule date.
const Layout = "2006-01-02"

// MaxDurationDays is the calendar span from 0001-01-01 to MaxDate.
const MaxDurationDays = 3_652_059

const secondsPerDay = 24 * 60 * 60

// MaxDate is the last date Layout can represent.
var MaxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// ParseDate accepts strict YYYY-MM-DD text that round-trips. Values such as
// "2024-02-30" or "2024-1-05" are rejected.
func ParseDate(s string) (time.Time, bool) {
	if len(s) != len(Layout) {
		return time.Time{}, false
	}
	t, err := time.Parse(Layout, s)
	if err != nil || t.Format(Layout) != s {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// AddScheduleDays moves t by delta schedule days. Under WeekendInclude this
// is calendar arithmetic; under WeekendExclude it steps one day at a time in
// the sign of delta until |delta| business days have been crossed.
func AddScheduleDays(t time.Time, delta int, mode domain.WeekendMode) time.Time {
	if delta == 0 {
		return t
	}
	if mode != domain.WeekendExclude {
		return t.AddDate(0, 0, delta)
	}
	step := 1
	remaining := delta
	if delta < 0 {
		step = -1
		remaining = -delta
	}
	// Any seven consecutive days hold exactly five business days. Jump whole
	// weeks and walk the last 1-5 business days so weekends land the same way.
	weeks := (remaining - 1) / 5
	cur := t.AddDate(0, 0, 7*weeks*step)
	remaining -= 5 * weeks
	for remaining > 0 {
		cur = cur.AddDate(0, 0, step)
		if !IsWeekend(cur) {
			remaining--
		}
	}
	return cur
}

// NextStartDate is the first schedule day after prevEnd.
func NextStartDate(prevEnd time.Time, mode domain.WeekendMode) time.Time {
	return AddScheduleDays(prevEnd, 1, mode)
}

// DurationFromRange counts schedule days in the inclusive range [start, end].
// The result is never below 1; an inverted range also yields 1.
func DurationFromRange(start, end time.Time, mode domain.WeekendMode) int {
	if end.Before(start) {
		return 1
	}
	days := calendarDays(start, end) + 1
	if mode == domain.WeekendExclude {
		days = businessDays(start, days)
	}
	return max(days, 1)
}

// EndDateFromDuration is the date reached after duration-1 schedule-day
// steps forward from start.
func EndDateFromDuration(start time.Time, duration int, mode domain.WeekendMode) time.Time {
	return AddScheduleDays(start, max(duration, 1)-1, mode)
}

// RollToBusinessDay moves a weekend date forward to the following Monday
// under WeekendExclude. Other dates are returned unchanged.
func RollToBusinessDay(t time.Time, mode domain.WeekendMode) time.Time {
	if mode != domain.WeekendExclude {
		return t
	}
	for IsWeekend(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// ClampDate pulls a date past MaxDate back to the last schedule day on or
// before it.
func ClampDate(t time.Time, mode domain.WeekendMode) time.Time {
	if !t.After(MaxDate) {
		return t
	}
	t = MaxDate
	for mode == domain.WeekendExclude && IsWeekend(t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// ClampDuration limits a task duration so the end derived from start stays on
// or before MaxDate. The result is never below 1.
func ClampDuration(start time.Time, duration int, mode domain.WeekendMode) int {
	return min(max(duration, 1), DurationFromRange(start, MaxDate, mode))
}

// CalendarSpan is the inclusive number of calendar days from start to end.
func CalendarSpan(start, end time.Time) int {
	return calendarDays(start, end) + 1
}

// DaysBetween is the signed number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return calendarDays(a, b)
}

func calendarDays(start, end time.Time) int {
	return int((Day(end).Unix() - Day(start).Unix()) / secondsPerDay)
}

// businessDays counts weekdays among n consecutive days starting at start.
func businessDays(start time.Time, n int) int {
	full := n / 7
	count := full * 5
	wd := start.Weekday()
	for i := 0; i < n%7; i++ {
		d := (int(wd) + i) % 7
		if d != int(time.Saturday) && d != int(time.Sunday) {
			count++
		}
	}
	return count
}
