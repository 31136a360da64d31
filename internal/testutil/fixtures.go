package testutil

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/normalize"
)

// TestToday is the clock used by fixtures whenever a document needs "today".
var TestToday = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// FixedClock returns a clock function that always reports TestToday.
func FixedClock() func() time.Time {
	return func() time.Time { return TestToday }
}

// Document options
type DocOption func(*importer.RawDocument)

func WithMode(m domain.WeekendMode) DocOption {
	return func(d *importer.RawDocument) {
		d.WeekendMode = string(m)
	}
}

// WithGroup appends a custom group ranked after its existing siblings.
func WithGroup(id string, stage domain.Stage, parentID string) DocOption {
	return func(d *importer.RawDocument) {
		if parentID == "" {
			parentID = stage.RootID()
		}
		rank := 0
		for _, g := range d.Groups {
			if g.ParentGroupID != nil && *g.ParentGroupID == parentID {
				rank++
			}
		}
		d.Groups = append(d.Groups, importer.RawGroup{
			ID:            id,
			Name:          id,
			Stage:         string(stage),
			ParentGroupID: domain.StrPtr(parentID),
			SortOrder:     importer.Int(rank),
		})
	}
}

// WithTask appends an undated task ranked after its existing siblings.
func WithTask(id, parentID string, duration int) DocOption {
	return WithRow(importer.RawRow{
		ID:            id,
		Kind:          string(domain.RowTask),
		Name:          id,
		DurationDays:  importer.Int(duration),
		ParentGroupID: domain.StrPtr(parentID),
	})
}

// WithEvent appends an undated event ranked after its existing siblings.
func WithEvent(id, parentID string) DocOption {
	return WithRow(importer.RawRow{
		ID:            id,
		Kind:          string(domain.RowEvent),
		Name:          id,
		ParentGroupID: domain.StrPtr(parentID),
	})
}

// WithRow appends r, assigning the next sibling rank when none is set.
func WithRow(r importer.RawRow) DocOption {
	return func(d *importer.RawDocument) {
		if !r.SortOrder.Valid && r.ParentGroupID != nil {
			rank := 0
			for _, other := range d.Rows {
				if other.ParentGroupID != nil && *other.ParentGroupID == *r.ParentGroupID {
					rank++
				}
			}
			r.SortOrder = importer.Int(rank)
		}
		if r.Stage == "" && r.ParentGroupID != nil {
			r.Stage = stageOf(d, *r.ParentGroupID)
		}
		d.Rows = append(d.Rows, r)
	}
}

func stageOf(d *importer.RawDocument, groupID string) string {
	if st, ok := domain.StageForRootID(groupID); ok {
		return string(st)
	}
	for _, g := range d.Groups {
		if g.ID == groupID {
			return g.Stage
		}
	}
	return ""
}

// NewRawDocument builds a wire document anchored at anchor (YYYY-MM-DD).
func NewRawDocument(anchor string, opts ...DocOption) *importer.RawDocument {
	d := &importer.RawDocument{
		SchemaVersion: domain.SchemaVersion,
		WeekendMode:   string(domain.WeekendExclude),
		AnchorDate:    anchor,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDocument builds and normalizes a document.
func NewDocument(anchor string, opts ...DocOption) domain.Document {
	return normalize.Normalize(NewRawDocument(anchor, opts...), TestToday)
}

// Date parses YYYY-MM-DD and panics on bad input.
func Date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
