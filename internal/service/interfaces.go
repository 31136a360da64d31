package service

import (
	"context"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/repository"
)

// ScheduleService is the boundary between callers and the schedule store.
// Every mutation runs load, engine edit and save in one transaction.
type ScheduleService interface {
	// Load returns the project's normalized schedule, or a fresh empty one
	// when nothing is stored yet.
	Load(ctx context.Context, projectID string) (domain.Document, error)
	// Save validates and stores doc, returning it with its new UpdatedAt.
	Save(ctx context.Context, projectID string, doc domain.Document) (domain.Document, error)
	// Import normalizes raw, replaces the stored schedule with it and reports
	// the problems normalization repaired.
	Import(ctx context.Context, projectID string, raw *importer.RawDocument) (ImportResult, error)
	// Apply runs edit against the stored schedule and saves the result.
	Apply(ctx context.Context, projectID string, edit Edit) (EditResult, error)
	List(ctx context.Context) ([]repository.ScheduleSummary, error)
	Delete(ctx context.Context, projectID string) error
}

// ImportResult is the stored document plus the repairs made on the way in.
type ImportResult struct {
	Document domain.Document
	Repairs  []error
}

// EditResult is the saved document and the id the edit touched or created.
type EditResult struct {
	Document domain.Document
	ID       string
}
