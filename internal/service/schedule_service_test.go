package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func newTestService(t *testing.T, observers ...UseCaseObserver) ScheduleService {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewScheduleService(
		repository.NewSQLiteScheduleRepo(database),
		testutil.NewTestUoW(database),
		scheduler.NewEngine(testutil.FixedClock()),
		domain.WeekendExclude,
		observers...,
	)
}

func TestScheduleService_Load_UnknownProjectIsFresh(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Load(context.Background(), "new-project")

	require.NoError(t, err)
	assert.Equal(t, domain.SchemaVersion, doc.SchemaVersion)
	assert.Equal(t, domain.WeekendExclude, doc.WeekendMode)
	assert.Equal(t, datecalc.Day(testutil.TestToday), doc.AnchorDate)
	assert.Len(t, doc.Groups, 3)
	assert.Empty(t, doc.Rows)
	assert.Empty(t, doc.UpdatedAt)
}

func TestScheduleService_Load_DefaultModeFromConfig(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewScheduleService(
		repository.NewSQLiteScheduleRepo(database),
		testutil.NewTestUoW(database),
		scheduler.NewEngine(testutil.FixedClock()),
		domain.WeekendInclude,
	)

	doc, err := svc.Load(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.WeekendInclude, doc.WeekendMode)
}

func TestScheduleService_SaveAndLoad(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := testutil.NewDocument("2024-01-01", testutil.WithTask("t1", "stage:design", 2))
	saved, err := svc.Save(ctx, "p1", doc)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.UpdatedAt)

	loaded, err := svc.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestScheduleService_Save_RejectsBadAnchor(t *testing.T) {
	svc := newTestService(t)

	doc := testutil.NewDocument("2024-01-01")
	doc.AnchorDate = time.Time{}

	_, err := svc.Save(context.Background(), "p1", doc)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "anchor_date", verr.Field)
	assert.Contains(t, err.Error(), "anchor date is required")

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "rejected document must not be stored")
}

func TestScheduleService_Import_ReportsRepairs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	raw := testutil.NewRawDocument("2024-01-01",
		testutil.WithTask("t1", "stage:design", 2),
		testutil.WithTask("t1", "ghost", 1),
	)
	raw.WeekendMode = ""

	res, err := svc.Import(ctx, "p1", raw)

	require.NoError(t, err)
	assert.NotEmpty(t, res.Repairs)
	assert.Len(t, res.Document.Rows, 2)
	assert.Equal(t, domain.WeekendExclude, res.Document.WeekendMode)
	assert.NotEqual(t, res.Document.Rows[0].ID, res.Document.Rows[1].ID)

	loaded, err := svc.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, res.Document, loaded)
}

func TestScheduleService_Import_HealsBadAnchorToToday(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Import(context.Background(), "p1", &importer.RawDocument{AnchorDate: "not-a-date"})

	require.NoError(t, err)
	assert.Equal(t, datecalc.Day(testutil.TestToday), res.Document.AnchorDate)
	assert.NotEmpty(t, res.Repairs)
}

func TestScheduleService_Apply_ScenarioChain(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Apply(ctx, "p1", SetAnchorDate("2024-01-01"))
	require.NoError(t, err)

	res, err := svc.Apply(ctx, "p1", AddRow(scheduler.RowDraft{ID: "t1", ParentID: "stage:design", DurationDays: 5}))
	require.NoError(t, err)
	assert.Equal(t, "t1", res.ID)

	res, err = svc.Apply(ctx, "p1", AddRow(scheduler.RowDraft{ID: "t2", ParentID: "stage:design", DurationDays: 3}))
	require.NoError(t, err)
	r := res.Document.Rows[res.Document.RowByID("t2")]
	assert.Equal(t, "2024-01-08", datecalc.FormatDate(r.StartDate))
	assert.Equal(t, "2024-01-10", datecalc.FormatDate(r.EndDate))

	res, err = svc.Apply(ctx, "p1", SetWeekendMode(domain.WeekendInclude))
	require.NoError(t, err)
	r = res.Document.Rows[res.Document.RowByID("t2")]
	assert.Equal(t, "2024-01-06", datecalc.FormatDate(r.StartDate))

	loaded, err := svc.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, res.Document, loaded)
}

func TestScheduleService_Apply_GroupEdits(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Apply(ctx, "p1", AddGroup(scheduler.GroupDraft{ID: "g1", Name: "Survey", Stage: domain.StageDesign}))
	require.NoError(t, err)
	assert.Equal(t, "g1", res.ID)

	_, err = svc.Apply(ctx, "p1", AddGroup(scheduler.GroupDraft{ID: "g2", Stage: domain.StageDesign}))
	require.NoError(t, err)
	_, err = svc.Apply(ctx, "p1", AddRow(scheduler.RowDraft{ID: "r1", ParentID: "g2", DurationDays: 1}))
	require.NoError(t, err)

	res, err = svc.Apply(ctx, "p1", MoveGroup("g2", domain.MoveUp))
	require.NoError(t, err)
	h := hierarchy.BuildHierarchy(res.Document)
	require.Len(t, h.Stages[0].Root.Children, 2)
	assert.Equal(t, "g2", h.Stages[0].Root.Children[0].ID)

	res, err = svc.Apply(ctx, "p1", RenameGroup("g1", "Drawings"))
	require.NoError(t, err)
	assert.Equal(t, "Drawings", res.Document.Groups[res.Document.GroupByID("g1")].Name)

	res, err = svc.Apply(ctx, "p1", ReparentGroup("g2", "stage:fabrication"))
	require.NoError(t, err)
	assert.Equal(t, domain.StageFabrication, res.Document.Rows[res.Document.RowByID("r1")].Stage)

	res, err = svc.Apply(ctx, "p1", DeleteGroup("g2"))
	require.NoError(t, err)
	assert.Equal(t, -1, res.Document.RowByID("r1"))
}

func TestScheduleService_Apply_RowEdits(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, "p1", testutil.NewRawDocument("2024-01-01",
		testutil.WithGroup("g1", domain.StageDesign, ""),
		testutil.WithTask("a", "g1", 2),
		testutil.WithTask("b", "g1", 2),
	))
	require.NoError(t, err)

	res, err := svc.Apply(ctx, "p1", SetRowField("b", domain.FieldDuration, "4"))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Document.Rows[res.Document.RowByID("b")].DurationDays)

	res, err = svc.Apply(ctx, "p1", RetypeRow("a", domain.RowEvent))
	require.NoError(t, err)
	assert.Equal(t, domain.RowEvent, res.Document.Rows[res.Document.RowByID("a")].Kind)

	res, err = svc.Apply(ctx, "p1", MoveRow("b", domain.MoveUp))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, hierarchy.OrderedRowIDs(res.Document))

	res, err = svc.Apply(ctx, "p1", DropRow("b", "stage:installation"))
	require.NoError(t, err)
	assert.Equal(t, domain.StageInstallation, res.Document.Rows[res.Document.RowByID("b")].Stage)

	res, err = svc.Apply(ctx, "p1", DeleteRow("a"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, hierarchy.OrderedRowIDs(res.Document))
}

func TestScheduleService_Apply_Errors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, "p1", testutil.NewRawDocument("2024-01-01", testutil.WithTask("a", "stage:design", 2)))
	require.NoError(t, err)

	tests := []struct {
		name     string
		edit     Edit
		notFound bool
		field    string
	}{
		{"unknown row", DeleteRow("ghost"), true, ""},
		{"unknown group", RenameGroup("ghost", "x"), true, ""},
		{"unknown parent", AddRow(scheduler.RowDraft{ParentID: "ghost"}), true, ""},
		{"unknown drop target", DropRow("a", "ghost"), true, ""},
		{"unknown reparent target", ReparentGroup("stage:design", "ghost"), true, ""},
		{"bad anchor", SetAnchorDate("2024-02-30"), false, "anchor_date"},
		{"bad date", SetRowField("a", domain.FieldStartDate, "tomorrow"), false, "start_date"},
		{"bad duration", SetRowField("a", domain.FieldDuration, "-2"), false, "duration_days"},
		{"bad field", SetRowField("a", domain.RowField("colour"), "red"), false, "colour"},
		{"duration past last date", SetRowField("a", domain.FieldDuration, "3652060"), false, "duration_days"},
		{"huge new row", AddRow(scheduler.RowDraft{ParentID: "stage:design", DurationDays: 5_000_000}), false, "duration_days"},
		{"unknown kind", RetypeRow("a", domain.RowKind("milestone")), false, "kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Apply(ctx, "p1", tt.edit)
			require.Error(t, err)
			if tt.notFound {
				assert.ErrorIs(t, err, domain.ErrNotFound)
				return
			}
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	loaded, err := svc.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, hierarchy.OrderedRowIDs(loaded), "failed edits must not be saved")
}

func TestScheduleService_ListAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Apply(ctx, "b-project", AddRow(scheduler.RowDraft{ParentID: "stage:design", DurationDays: 1}))
	require.NoError(t, err)
	_, err = svc.Apply(ctx, "a-project", SetWeekendMode(domain.WeekendInclude))
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a-project", list[0].ProjectID)
	assert.Equal(t, 1, list[1].RowCount)

	require.NoError(t, svc.Delete(ctx, "a-project"))
	assert.ErrorIs(t, svc.Delete(ctx, "a-project"), domain.ErrNotFound)
}

func TestScheduleService_ObservesUseCases(t *testing.T) {
	obs := &recordingObserver{}
	svc := newTestService(t, obs)
	ctx := context.Background()

	_, err := svc.Apply(ctx, "p1", AddRow(scheduler.RowDraft{ParentID: "stage:design", DurationDays: 2}))
	require.NoError(t, err)

	ev := obs.last()
	assert.Equal(t, "add-row", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, "p1", ev.Fields["project_id"])
	assert.Equal(t, 1, ev.Fields["rows"])

	_, err = svc.Apply(ctx, "p1", DeleteRow("ghost"))
	require.Error(t, err)
	ev = obs.last()
	assert.Equal(t, "delete-row", ev.Name)
	assert.False(t, ev.Success)
	assert.ErrorIs(t, ev.Err, domain.ErrNotFound)
}

func TestLogUseCaseObserver_WritesSlogLine(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(t, NewLogUseCaseObserver(&buf))

	_, err := svc.Load(context.Background(), "p1")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=service_use_case")
	assert.Contains(t, out, "use_case=load-schedule")
	assert.Contains(t, out, "project_id=p1")
	assert.Contains(t, out, "success=true")
}

func TestNewLogUseCaseObserver_NilWriterIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}
