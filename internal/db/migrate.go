package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillCounts(db); err != nil {
		return fmt.Errorf("backfilling schedule counts: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schedules (
		project_id TEXT PRIMARY KEY,
		document   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedules_updated ON schedules(updated_at)`,

	// Summary columns so listing does not need to decode every document
	`ALTER TABLE schedules ADD COLUMN group_count INTEGER NOT NULL DEFAULT -1`,
	`ALTER TABLE schedules ADD COLUMN row_count INTEGER NOT NULL DEFAULT -1`,
	`ALTER TABLE schedules ADD COLUMN weekend_mode TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillCounts fills the summary columns of schedules stored before
// they existed. Idempotent: only rows still holding the -1 sentinel change.
func migrateBackfillCounts(db *sql.DB) error {
	ctx := context.Background()

	var pending int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedules WHERE group_count < 0 OR row_count < 0`).Scan(&pending); err != nil {
		return fmt.Errorf("checking schedule counts: %w", err)
	}
	if pending == 0 {
		return nil
	}

	_, err := db.ExecContext(ctx, `UPDATE schedules SET
		group_count  = COALESCE(json_array_length(document, '$.groups'), 0),
		row_count    = COALESCE(json_array_length(document, '$.rows'), 0),
		weekend_mode = COALESCE(json_extract(document, '$.weekend_mode'), '')
	WHERE group_count < 0 OR row_count < 0`)
	if err != nil {
		return fmt.Errorf("updating schedule counts: %w", err)
	}
	return nil
}
