// Package gantt projects rows onto a percentage timeline for chart display.
// Positions are display only; schedule date math lives in datecalc.
package gantt

import (
	"time"

	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/domain"
)

// Scale is the tick granularity of a rendered chart.
type Scale string

const (
	ScaleAuto  Scale = "auto"
	ScaleDay   Scale = "day"
	ScaleWeek  Scale = "week"
	ScaleMonth Scale = "month"
)

const (
	maxDaySpan  = 45
	maxWeekSpan = 240
)

// Bounds is the inclusive date window covering a row set.
type Bounds struct {
	Min  time.Time
	Max  time.Time
	Days int
}

// Bar is a row's horizontal placement as percentages of the bounds.
type Bar struct {
	Left    float64
	Width   float64
	IsPoint bool
}

// Band is one shaded weekend day.
type Band struct {
	Left  float64
	Width float64
	Date  time.Time
}

// GetScheduleBounds returns the window spanning every dated row, or nil when
// no row carries a usable date pair.
func GetScheduleBounds(rows []domain.Row) *Bounds {
	var b *Bounds
	for _, r := range rows {
		if r.StartDate.IsZero() || r.EndDate.IsZero() {
			continue
		}
		lo, hi := datecalc.Day(r.StartDate), datecalc.Day(r.EndDate)
		if hi.Before(lo) {
			lo, hi = hi, lo
		}
		if b == nil {
			b = &Bounds{Min: lo, Max: hi}
			continue
		}
		if lo.Before(b.Min) {
			b.Min = lo
		}
		if hi.After(b.Max) {
			b.Max = hi
		}
	}
	if b != nil {
		b.Days = datecalc.CalendarSpan(b.Min, b.Max)
	}
	return b
}

// PickAutoScale chooses a scale from the calendar span of rows.
func PickAutoScale(rows []domain.Row) Scale {
	b := GetScheduleBounds(rows)
	switch {
	case b == nil || b.Days <= maxDaySpan:
		return ScaleDay
	case b.Days <= maxWeekSpan:
		return ScaleWeek
	default:
		return ScaleMonth
	}
}

// ParseScale accepts a scale name; anything unknown means auto.
func ParseScale(s string) Scale {
	switch Scale(s) {
	case ScaleDay, ScaleWeek, ScaleMonth:
		return Scale(s)
	}
	return ScaleAuto
}

// Position maps a row onto the bounds. Events are zero-width points.
func Position(r domain.Row, b Bounds) Bar {
	if b.Days <= 0 {
		return Bar{IsPoint: r.Kind == domain.RowEvent}
	}
	total := float64(b.Days)
	startOff := datecalc.DaysBetween(b.Min, r.StartDate)
	left := float64(startOff) / total * 100

	if r.Kind == domain.RowEvent {
		return Bar{Left: left, IsPoint: true}
	}
	endOff := datecalc.DaysBetween(b.Min, r.EndDate)
	span := max(1, endOff-startOff+1)
	return Bar{Left: left, Width: float64(span) / total * 100}
}

// WeekendBands returns one band per Saturday and Sunday inside the bounds.
func WeekendBands(b Bounds) []Band {
	if b.Days <= 0 {
		return nil
	}
	total := float64(b.Days)
	width := 100 / total
	var out []Band
	for i, d := 0, b.Min; !d.After(b.Max); i, d = i+1, d.AddDate(0, 0, 1) {
		if datecalc.IsWeekend(d) {
			out = append(out, Band{Left: float64(i) / total * 100, Width: width, Date: d})
		}
	}
	return out
}
