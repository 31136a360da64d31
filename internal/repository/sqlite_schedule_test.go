package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/normalize"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() domain.Document {
	return testutil.NewDocument("2024-01-01",
		testutil.WithMode(domain.WeekendInclude),
		testutil.WithGroup("g1", domain.StageDesign, ""),
		testutil.WithTask("r1", "g1", 3),
		testutil.WithEvent("e1", "stage:installation"),
	)
}

func TestScheduleRepo_PutAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	doc := sampleDocument()
	saved, err := repo.Put(ctx, "p1", doc)
	require.NoError(t, err)
	require.NotEmpty(t, saved.UpdatedAt)
	_, err = time.Parse(time.RFC3339, saved.UpdatedAt)
	require.NoError(t, err, "updated_at should be RFC3339")
	assert.Empty(t, doc.UpdatedAt, "input must not be modified")

	raw, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, saved.UpdatedAt, raw.UpdatedAt)
	assert.Equal(t, "include", raw.WeekendMode)
	assert.Len(t, raw.Rows, 2)

	loaded := normalize.Normalize(raw, testutil.TestToday)
	assert.Equal(t, saved, loaded)
}

func TestScheduleRepo_Get_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)

	_, err := repo.Get(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "not found")
}

func TestScheduleRepo_Put_LastWriteWins(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	_, err := repo.Put(ctx, "p1", sampleDocument())
	require.NoError(t, err)

	empty := testutil.NewDocument("2024-03-04")
	_, err = repo.Put(ctx, "p1", empty)
	require.NoError(t, err)

	raw, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", raw.AnchorDate)
	assert.Empty(t, raw.Rows)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].RowCount)
}

func TestScheduleRepo_Get_CorruptDocument(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)

	_, err := db.Exec(`INSERT INTO schedules (project_id, document, created_at, updated_at)
		VALUES ('bad', '{not json', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleRepo_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	_, err := repo.Put(ctx, "zeta", testutil.NewDocument("2024-01-01"))
	require.NoError(t, err)
	_, err = repo.Put(ctx, "alpha", sampleDocument())
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "alpha", list[0].ProjectID)
	assert.Equal(t, 4, list[0].GroupCount)
	assert.Equal(t, 2, list[0].RowCount)
	assert.Equal(t, domain.WeekendInclude, list[0].WeekendMode)
	assert.NotEmpty(t, list[0].UpdatedAt)

	assert.Equal(t, "zeta", list[1].ProjectID)
	assert.Equal(t, 3, list[1].GroupCount)
	assert.Equal(t, domain.WeekendExclude, list[1].WeekendMode)
}

func TestScheduleRepo_List_Empty(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestScheduleRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	_, err := repo.Put(ctx, "p1", sampleDocument())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.Get(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Delete(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
