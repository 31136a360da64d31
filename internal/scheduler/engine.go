// Package scheduler is the ordering and cascade engine. Every entry point
// takes a document value and returns a new one; the input is never
// modified. Edits follow one pipeline: apply, sanitize, cascade, normalize.
package scheduler

import (
	"time"

	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/normalize"
)

// Engine applies schedule edits. The clock is only consulted when a
// document has no usable anchor date.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine using now as its clock, or time.Now if nil.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

func (e *Engine) today() time.Time {
	return datecalc.Day(e.now())
}

// Normalize re-derives doc without moving any row.
func (e *Engine) Normalize(doc domain.Document) domain.Document {
	return normalize.Renormalize(doc, e.today())
}

// NormalizeRaw turns a stored or imported document into a valid one.
func (e *Engine) NormalizeRaw(raw *importer.RawDocument) domain.Document {
	return normalize.Normalize(raw, e.today())
}

type cascadeConfig struct {
	preserveStart bool
}

// CascadeOption adjusts a single CascadeRowsFrom call.
type CascadeOption func(*cascadeConfig)

// PreserveStart keeps the existing start of the row at the start index,
// unless it is the first row of the whole schedule.
func PreserveStart() CascadeOption {
	return func(c *cascadeConfig) { c.preserveStart = true }
}

// CascadeRowsFrom re-chains every row from canonical position startIndex to
// the end: each row starts on the schedule day after its predecessor ends,
// and the first row of the schedule starts on the anchor date.
func (e *Engine) CascadeRowsFrom(doc domain.Document, startIndex int, opts ...CascadeOption) domain.Document {
	var cfg cascadeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	out := e.Normalize(doc)
	order := hierarchy.OrderedRowIDs(out)
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(order) {
		return out
	}

	pos := make(map[string]int, len(out.Rows))
	for i, r := range out.Rows {
		pos[r.ID] = i
	}

	mode := out.WeekendMode
	var prevEnd time.Time
	if startIndex > 0 {
		prevEnd = out.Rows[pos[order[startIndex-1]]].EndDate
	}
	for i := startIndex; i < len(order); i++ {
		r := &out.Rows[pos[order[i]]]
		var start time.Time
		switch {
		case i == 0:
			start = out.AnchorDate
		case i == startIndex && cfg.preserveStart:
			start = r.StartDate
		default:
			start = datecalc.NextStartDate(prevEnd, mode)
		}
		placeRow(r, start, mode)
		prevEnd = r.EndDate
	}
	return e.Normalize(out)
}

// placeRow sets the dates of r from start, keeping a task's duration.
func placeRow(r *domain.Row, start time.Time, mode domain.WeekendMode) {
	if r.Kind == domain.RowEvent {
		start = datecalc.ClampDate(start, domain.WeekendInclude)
		r.DurationDays = 0
		r.StartDate, r.EndDate = start, start
		return
	}
	r.StartDate = datecalc.ClampDate(datecalc.RollToBusinessDay(start, mode), mode)
	r.DurationDays = datecalc.ClampDuration(r.StartDate, r.DurationDays, mode)
	r.EndDate = datecalc.EndDateFromDuration(r.StartDate, r.DurationDays, mode)
}
