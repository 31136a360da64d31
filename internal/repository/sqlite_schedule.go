package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
)

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

func (r *SQLiteScheduleRepo) Get(ctx context.Context, projectID string) (*importer.RawDocument, error) {
	var body, updatedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT document, updated_at FROM schedules WHERE project_id = ?`, projectID).Scan(&body, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("schedule %s: %w", projectID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading schedule: %w", err)
	}

	raw, err := importer.Decode([]byte(body), importer.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("decoding schedule %s: %w", projectID, err)
	}
	raw.UpdatedAt = updatedAt
	return raw, nil
}

func (r *SQLiteScheduleRepo) Put(ctx context.Context, projectID string, doc domain.Document) (domain.Document, error) {
	now := nowUTC()
	doc.UpdatedAt = now

	body, err := json.Marshal(importer.FromDocument(doc))
	if err != nil {
		return domain.Document{}, fmt.Errorf("encoding schedule: %w", err)
	}

	query := `INSERT INTO schedules (project_id, document, created_at, updated_at, group_count, row_count, weekend_mode)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at,
			group_count = excluded.group_count,
			row_count = excluded.row_count,
			weekend_mode = excluded.weekend_mode`
	_, err = r.db.ExecContext(ctx, query,
		projectID,
		string(body),
		now,
		now,
		len(doc.Groups),
		len(doc.Rows),
		string(doc.WeekendMode),
	)
	if err != nil {
		return domain.Document{}, fmt.Errorf("saving schedule: %w", err)
	}
	return doc, nil
}

func (r *SQLiteScheduleRepo) List(ctx context.Context) ([]ScheduleSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_id, group_count, row_count, weekend_mode, updated_at
		FROM schedules ORDER BY project_id`)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	defer rows.Close()

	var out []ScheduleSummary
	for rows.Next() {
		var s ScheduleSummary
		var mode string
		if err := rows.Scan(&s.ProjectID, &s.GroupCount, &s.RowCount, &mode, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning schedule summary: %w", err)
		}
		s.WeekendMode = domain.ParseWeekendMode(mode)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedules: %w", err)
	}
	return out, nil
}

func (r *SQLiteScheduleRepo) Delete(ctx context.Context, projectID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE project_id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("schedule %s: %w", projectID, domain.ErrNotFound)
	}
	return nil
}
