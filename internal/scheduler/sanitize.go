package scheduler

import (
	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/domain"
)

// SanitizeEditedRow reconciles the date triple of a row whose field was just
// edited, before any cascade runs. Name and note edits pass through.
func SanitizeEditedRow(row domain.Row, field domain.RowField, doc domain.Document) domain.Row {
	mode := doc.WeekendMode
	if !field.IsDateField() {
		return row
	}

	if row.Kind == domain.RowEvent {
		point := row.StartDate
		if field == domain.FieldEndDate && !row.EndDate.IsZero() {
			point = row.EndDate
		}
		if point.IsZero() {
			point = doc.AnchorDate
		}
		row.StartDate, row.EndDate = point, point
		row.DurationDays = 0
		return row
	}

	switch field {
	case domain.FieldDuration:
		if row.StartDate.IsZero() {
			row.StartDate = doc.AnchorDate
		}
		row.DurationDays = datecalc.ClampDuration(row.StartDate, row.DurationDays, mode)
		row.EndDate = datecalc.EndDateFromDuration(row.StartDate, row.DurationDays, mode)
	case domain.FieldStartDate:
		if row.EndDate.IsZero() {
			row.EndDate = row.StartDate
			row.DurationDays = 1
			return row
		}
		reorder(&row, mode)
	case domain.FieldEndDate:
		if row.StartDate.IsZero() {
			row.StartDate = row.EndDate
			row.DurationDays = 1
			return row
		}
		reorder(&row, mode)
	}
	return row
}

func reorder(row *domain.Row, mode domain.WeekendMode) {
	if row.EndDate.Before(row.StartDate) {
		row.StartDate, row.EndDate = row.EndDate, row.StartDate
	}
	row.DurationDays = datecalc.DurationFromRange(row.StartDate, row.EndDate, mode)
}
