package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/normalize"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite verifies that readers always see a
// complete document while another connection keeps rewriting it.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteScheduleRepo(database)

	_, err := repo.Put(ctx, "p1", testutil.NewDocument("2024-01-01"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 20; i++ {
			opts := make([]testutil.DocOption, 0, i)
			for k := 0; k < i; k++ {
				opts = append(opts, testutil.WithTask(fmt.Sprintf("r%d", k), "stage:design", 1))
			}
			if _, err := repo.Put(ctx, "p1", testutil.NewDocument("2024-01-01", opts...)); err != nil {
				t.Errorf("put %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				raw, err := repo.Get(ctx, "p1")
				if err != nil {
					t.Errorf("get: %v", err)
					return
				}
				if raw.AnchorDate != "2024-01-01" {
					t.Errorf("torn read: anchor %q", raw.AnchorDate)
				}
			}
		}()
	}

	wg.Wait()
}

// TestConcurrentAccess_ReadModifyWrite_NoLostRows runs many transactional
// load-append-save cycles against one project. Every appended row must be
// present at the end.
func TestConcurrentAccess_ReadModifyWrite_NoLostRows(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	uow := db.NewSQLiteUnitOfWork(database)
	repo := NewSQLiteScheduleRepo(database)

	_, err := repo.Put(ctx, "p1", testutil.NewDocument("2024-01-01"))
	require.NoError(t, err)

	retryTx := func(fn func() error) error {
		const maxRetries = 50
		for attempt := 0; attempt < maxRetries; attempt++ {
			err := fn()
			if err == nil {
				return nil
			}
			if attempt == maxRetries-1 {
				return err
			}
			time.Sleep(time.Millisecond * time.Duration(1<<min(attempt, 5)))
		}
		return nil
	}

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := retryTx(func() error {
				return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
					txRepo := NewSQLiteScheduleRepo(tx)
					raw, err := txRepo.Get(ctx, "p1")
					if err != nil {
						return err
					}
					raw.Rows = append(raw.Rows, importer.RawRow{
						ID:            fmt.Sprintf("w%d", i),
						Kind:          string(domain.RowTask),
						ParentGroupID: domain.StrPtr("stage:design"),
						DurationDays:  importer.Int(1),
					})
					_, err = txRepo.Put(ctx, "p1", normalize.Normalize(raw, testutil.TestToday))
					return err
				})
			})
			if err != nil {
				errCh <- err
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	raw, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, r := range raw.Rows {
		assert.Falsef(t, seen[r.ID], "duplicate row %s", r.ID)
		seen[r.ID] = true
	}
	assert.Len(t, seen, workers)
}
