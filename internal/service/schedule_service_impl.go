package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type scheduleService struct {
	schedules   repository.ScheduleRepo
	uow         db.UnitOfWork
	engine      *scheduler.Engine
	defaultMode domain.WeekendMode
	observer    UseCaseObserver
}

// NewScheduleService wires the store and engine. defaultMode seeds projects
// that have no stored schedule yet.
func NewScheduleService(
	schedules repository.ScheduleRepo,
	uow db.UnitOfWork,
	engine *scheduler.Engine,
	defaultMode domain.WeekendMode,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		schedules:   schedules,
		uow:         uow,
		engine:      engine,
		defaultMode: domain.ParseWeekendMode(string(defaultMode)),
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) Load(ctx context.Context, projectID string) (doc domain.Document, err error) {
	defer s.observe(ctx, "load-schedule", time.Now().UTC(), projectID, &doc, &err)()
	return s.load(ctx, s.schedules, projectID)
}

func (s *scheduleService) load(ctx context.Context, repo repository.ScheduleRepo, projectID string) (domain.Document, error) {
	raw, err := repo.Get(ctx, projectID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.engine.Normalize(domain.Document{WeekendMode: s.defaultMode}), nil
	}
	if err != nil {
		return domain.Document{}, err
	}
	return s.engine.NormalizeRaw(raw), nil
}

func (s *scheduleService) Save(ctx context.Context, projectID string, doc domain.Document) (saved domain.Document, err error) {
	defer s.observe(ctx, "save-schedule", time.Now().UTC(), projectID, &saved, &err)()
	if err = validateForSave(doc); err != nil {
		return domain.Document{}, err
	}
	return s.schedules.Put(ctx, projectID, s.engine.Normalize(doc))
}

func (s *scheduleService) Import(ctx context.Context, projectID string, raw *importer.RawDocument) (res ImportResult, err error) {
	defer s.observe(ctx, "import-schedule", time.Now().UTC(), projectID, &res.Document, &err)()
	if raw == nil {
		raw = &importer.RawDocument{}
	}
	if raw.WeekendMode == "" {
		raw.WeekendMode = string(s.defaultMode)
	}
	res.Repairs = importer.InspectDocument(raw)

	doc := s.engine.NormalizeRaw(raw)
	if err = validateForSave(doc); err != nil {
		return ImportResult{}, err
	}
	res.Document, err = s.schedules.Put(ctx, projectID, doc)
	return res, err
}

func (s *scheduleService) Apply(ctx context.Context, projectID string, edit Edit) (res EditResult, err error) {
	defer s.observe(ctx, edit.Name, time.Now().UTC(), projectID, &res.Document, &err)()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSchedules := repository.NewSQLiteScheduleRepo(tx)

		doc, err := s.load(ctx, txSchedules, projectID)
		if err != nil {
			return err
		}
		edited, id, err := edit.Apply(s.engine, doc)
		if err != nil {
			return err
		}
		if err := validateForSave(edited); err != nil {
			return err
		}
		saved, err := txSchedules.Put(ctx, projectID, edited)
		if err != nil {
			return err
		}
		res = EditResult{Document: saved, ID: id}
		return nil
	})
	if err != nil {
		return EditResult{}, err
	}
	return res, nil
}

func (s *scheduleService) List(ctx context.Context) ([]repository.ScheduleSummary, error) {
	return s.schedules.List(ctx)
}

func (s *scheduleService) Delete(ctx context.Context, projectID string) (err error) {
	defer s.observe(ctx, "delete-schedule", time.Now().UTC(), projectID, nil, &err)()
	return s.schedules.Delete(ctx, projectID)
}

// validateForSave rejects documents whose anchor date cannot seed the
// cascade. It is the only user-facing validation failure.
func validateForSave(doc domain.Document) error {
	raw := importer.FromDocument(doc)
	if err := validate.Struct(raw); err != nil {
		return anchorError(raw.AnchorDate)
	}
	if _, ok := datecalc.ParseDate(raw.AnchorDate); !ok {
		return anchorError(raw.AnchorDate)
	}
	return nil
}

func anchorError(value string) error {
	if value == "" {
		return &domain.ValidationError{Field: "anchor_date", Message: "anchor date is required (YYYY-MM-DD)"}
	}
	return &domain.ValidationError{
		Field:   "anchor_date",
		Message: fmt.Sprintf("anchor date %q is not a valid YYYY-MM-DD date", value),
	}
}

func parseDuration(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number of days", value)
	}
	if n < 0 {
		return 0, fmt.Errorf("duration cannot be negative")
	}
	if n > datecalc.MaxDurationDays {
		return 0, fmt.Errorf("duration cannot exceed %d days", datecalc.MaxDurationDays)
	}
	return n, nil
}
