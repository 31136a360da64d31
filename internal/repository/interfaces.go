package repository

import (
	"context"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
)

// ScheduleSummary is the listing view of one stored schedule.
type ScheduleSummary struct {
	ProjectID   string
	GroupCount  int
	RowCount    int
	WeekendMode domain.WeekendMode
	UpdatedAt   string
}

// ScheduleRepo is the schedule store. Documents are stored whole; the last
// Put for a project wins.
type ScheduleRepo interface {
	// Get returns the stored document as written, before normalization.
	Get(ctx context.Context, projectID string) (*importer.RawDocument, error)
	// Put stores doc and returns it with the store-assigned UpdatedAt.
	Put(ctx context.Context, projectID string, doc domain.Document) (domain.Document, error)
	List(ctx context.Context) ([]ScheduleSummary, error)
	Delete(ctx context.Context, projectID string) error
}
