package domain

import (
	"slices"
	"time"
)

// SchemaVersion tags every document written by this engine.
const SchemaVersion = "gantry.schedule/v1"

// Generic labels for unnamed entities.
const (
	DefaultGroupName = "New group"
	DefaultRowName   = ""
)

// Document is the normalized schedule aggregate for one project.
type Document struct {
	SchemaVersion string
	WeekendMode   WeekendMode
	AnchorDate    time.Time
	Groups        []Group
	Rows          []Row
	UpdatedAt     string
}

// Group is a node in one stage's tree. Exactly three groups per document
// are system roots.
type Group struct {
	ID            string
	Name          string
	Stage         Stage
	ParentGroupID *string
	SortOrder     int
	IsSystem      bool
}

// Row is a schedulable leaf: a task spanning days or a point event.
type Row struct {
	ID            string
	Kind          RowKind
	Name          string
	Stage         Stage
	ParentGroupID string
	SortOrder     int
	DurationDays  int
	StartDate     time.Time
	EndDate       time.Time
	Note          string
}

// ParentID returns the parent group id, or "" for a system root.
func (g Group) ParentID() string {
	if g.ParentGroupID == nil {
		return ""
	}
	return *g.ParentGroupID
}

// Clone returns a deep copy so callers can derive a new document value
// without touching the original.
func (d Document) Clone() Document {
	out := d
	out.Groups = make([]Group, len(d.Groups))
	for i, g := range d.Groups {
		if g.ParentGroupID != nil {
			p := *g.ParentGroupID
			g.ParentGroupID = &p
		}
		out.Groups[i] = g
	}
	out.Rows = slices.Clone(d.Rows)
	return out
}

// GroupByID returns the index of the group with id, or -1.
func (d Document) GroupByID(id string) int {
	for i := range d.Groups {
		if d.Groups[i].ID == id {
			return i
		}
	}
	return -1
}

// RowByID returns the index of the row with id, or -1.
func (d Document) RowByID(id string) int {
	for i := range d.Rows {
		if d.Rows[i].ID == id {
			return i
		}
	}
	return -1
}

// StrPtr returns a pointer to a copy of s.
func StrPtr(s string) *string {
	return &s
}
