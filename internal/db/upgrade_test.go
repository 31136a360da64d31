package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_LegacySchedules simulates a store created before
// the summary columns existed. Documents must survive and the counts must
// be backfilled from the stored JSON.
func TestMigrate_UpgradePath_LegacySchedules(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE schedules (
		project_id TEXT PRIMARY KEY,
		document   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	require.NoError(t, err)

	legacyDoc := `{"schema_version":"gantry.schedule/v1","weekend_mode":"include","anchor_date":"2024-01-01",` +
		`"groups":[{"id":"stage:design"},{"id":"stage:fabrication"},{"id":"stage:installation"},{"id":"g1"}],` +
		`"rows":[{"id":"r1"},{"id":"r2"}]}`
	_, err = db.Exec(`INSERT INTO schedules (project_id, document, created_at, updated_at)
		VALUES ('p1', ?, '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`, legacyDoc)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO schedules (project_id, document, created_at, updated_at)
		VALUES ('p2', '{}', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db), "migration on legacy schema should succeed")

	var doc, mode string
	var groups, rows int
	err = db.QueryRow(`SELECT document, group_count, row_count, weekend_mode FROM schedules WHERE project_id = 'p1'`).
		Scan(&doc, &groups, &rows, &mode)
	require.NoError(t, err)
	assert.Equal(t, legacyDoc, doc, "document should survive migration")
	assert.Equal(t, 4, groups)
	assert.Equal(t, 2, rows)
	assert.Equal(t, "include", mode)

	err = db.QueryRow(`SELECT group_count, row_count, weekend_mode FROM schedules WHERE project_id = 'p2'`).
		Scan(&groups, &rows, &mode)
	require.NoError(t, err)
	assert.Equal(t, 0, groups)
	assert.Equal(t, 0, rows)
	assert.Equal(t, "", mode)

	// A second run leaves backfilled values alone.
	require.NoError(t, Migrate(db))
}
