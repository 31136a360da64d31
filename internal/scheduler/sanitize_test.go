package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeEditedRow(t *testing.T) {
	doc := testutil.NewDocument("2024-01-01")
	d := testutil.Date

	tests := []struct {
		name      string
		row       domain.Row
		field     domain.RowField
		wantStart time.Time
		wantEnd   time.Time
		wantDur   int
	}{
		{
			name:      "duration recomputes end",
			row:       domain.Row{Kind: domain.RowTask, StartDate: d("2024-01-04"), EndDate: d("2024-01-04"), DurationDays: 3},
			field:     domain.FieldDuration,
			wantStart: d("2024-01-04"), wantEnd: d("2024-01-08"), wantDur: 3,
		},
		{
			name:      "zero duration clamps to one day",
			row:       domain.Row{Kind: domain.RowTask, StartDate: d("2024-01-04"), DurationDays: 0},
			field:     domain.FieldDuration,
			wantStart: d("2024-01-04"), wantEnd: d("2024-01-04"), wantDur: 1,
		},
		{
			name:      "duration without start uses anchor",
			row:       domain.Row{Kind: domain.RowTask, DurationDays: 2},
			field:     domain.FieldDuration,
			wantStart: d("2024-01-01"), wantEnd: d("2024-01-02"), wantDur: 2,
		},
		{
			name:      "start without end collapses to one day",
			row:       domain.Row{Kind: domain.RowTask, StartDate: d("2024-01-10"), DurationDays: 4},
			field:     domain.FieldStartDate,
			wantStart: d("2024-01-10"), wantEnd: d("2024-01-10"), wantDur: 1,
		},
		{
			name:      "start after end reorders",
			row:       domain.Row{Kind: domain.RowTask, StartDate: d("2024-01-12"), EndDate: d("2024-01-09")},
			field:     domain.FieldStartDate,
			wantStart: d("2024-01-09"), wantEnd: d("2024-01-12"), wantDur: 4,
		},
		{
			name:      "end without start collapses to one day",
			row:       domain.Row{Kind: domain.RowTask, EndDate: d("2024-01-10")},
			field:     domain.FieldEndDate,
			wantStart: d("2024-01-10"), wantEnd: d("2024-01-10"), wantDur: 1,
		},
		{
			name:      "end across weekend counts business days",
			row:       domain.Row{Kind: domain.RowTask, StartDate: d("2024-01-04"), EndDate: d("2024-01-09")},
			field:     domain.FieldEndDate,
			wantStart: d("2024-01-04"), wantEnd: d("2024-01-09"), wantDur: 4,
		},
		{
			name:      "event end edit moves the point",
			row:       domain.Row{Kind: domain.RowEvent, StartDate: d("2024-01-04"), EndDate: d("2024-01-11"), DurationDays: 5},
			field:     domain.FieldEndDate,
			wantStart: d("2024-01-11"), wantEnd: d("2024-01-11"), wantDur: 0,
		},
		{
			name:      "undated event falls back to anchor",
			row:       domain.Row{Kind: domain.RowEvent},
			field:     domain.FieldStartDate,
			wantStart: d("2024-01-01"), wantEnd: d("2024-01-01"), wantDur: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeEditedRow(tt.row, tt.field, doc)
			assert.Equal(t, tt.wantStart, got.StartDate)
			assert.Equal(t, tt.wantEnd, got.EndDate)
			assert.Equal(t, tt.wantDur, got.DurationDays)
		})
	}
}

func TestSanitizeEditedRow_TextFieldsPassThrough(t *testing.T) {
	doc := testutil.NewDocument("2024-01-01")
	row := domain.Row{Kind: domain.RowTask, Name: "x", StartDate: testutil.Date("2024-01-09"), EndDate: testutil.Date("2024-01-02"), DurationDays: 9}

	assert.Equal(t, row, SanitizeEditedRow(row, domain.FieldName, doc))
	assert.Equal(t, row, SanitizeEditedRow(row, domain.FieldNote, doc))
}
