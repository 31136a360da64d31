package service

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
)

// Edit is one named engine mutation. Apply returns the edited document and
// the id it touched.
type Edit struct {
	Name  string
	Apply func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error)
}

func requireGroup(doc domain.Document, id string) error {
	if doc.GroupByID(id) < 0 {
		return fmt.Errorf("group %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func requireRow(doc domain.Document, id string) error {
	if doc.RowByID(id) < 0 {
		return fmt.Errorf("row %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AddGroup adds a custom group under draft.ParentID, or under its stage root.
func AddGroup(draft scheduler.GroupDraft) Edit {
	return Edit{Name: "add-group", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if draft.ParentID != "" {
			if err := requireGroup(doc, draft.ParentID); err != nil {
				return doc, "", err
			}
		}
		out, id := e.AddGroup(doc, draft)
		return out, id, nil
	}}
}

// AddRow appends a row to draft.ParentID. Durations past the longest
// representable span are rejected.
func AddRow(draft scheduler.RowDraft) Edit {
	return Edit{Name: "add-row", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if err := requireGroup(doc, draft.ParentID); err != nil {
			return doc, "", err
		}
		if draft.DurationDays > datecalc.MaxDurationDays {
			return doc, "", &domain.ValidationError{
				Field:   string(domain.FieldDuration),
				Message: fmt.Sprintf("duration cannot exceed %d days", datecalc.MaxDurationDays),
			}
		}
		out, id := e.AddRow(doc, draft)
		return out, id, nil
	}}
}

// RenameGroup renames a custom group.
func RenameGroup(id, name string) Edit {
	return Edit{Name: "rename-group", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if err := requireGroup(doc, id); err != nil {
			return doc, "", err
		}
		return e.RenameGroup(doc, id, name), id, nil
	}}
}

// DeleteGroup removes a group with its descendant groups and rows.
func DeleteGroup(id string) Edit {
	return Edit{Name: "delete-group", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if err := requireGroup(doc, id); err != nil {
			return doc, "", err
		}
		return e.DeleteGroup(doc, id), id, nil
	}}
}

// MoveGroup swaps a group with its adjacent sibling.
func MoveGroup(id string, dir domain.Direction) Edit {
	return Edit{Name: "move-group", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if err := requireGroup(doc, id); err != nil {
			return doc, "", err
		}
		return e.MoveGroup(doc, id, dir), id, nil
	}}
}

// ReparentGroup moves a group and its subtree under parentID.
func ReparentGroup(id, parentID string) Edit {
	return Edit{Name: "reparent-group", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if err := requireGroup(doc, id); err != nil {
			return doc, "", err
		}
		if err := requireGroup(doc, parentID); err != nil {
			return doc, "", err
		}
		return e.ReparentGroup(doc, id, parentID), id, nil
	}}
}

// DeleteRow removes one row.
func DeleteRow(id string) Edit {
	return Edit{Name: "delete-row", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if err := requireRow(doc, id); err != nil {
			return doc, "", err
		}
		return e.DeleteRow(doc, id), id, nil
	}}
}

// SetRowField edits one field from its text form. Unparsable dates and
// durations are rejected here so the caller learns why nothing moved.
func SetRowField(id string, field domain.RowField, value string) Edit {
	return Edit{Name: "set-row-field", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if err := requireRow(doc, id); err != nil {
			return doc, "", err
		}
		if !field.IsValid() {
			return doc, "", &domain.ValidationError{Field: string(field), Message: "unknown row field"}
		}
		switch field {
		case domain.FieldStartDate, domain.FieldEndDate:
			if _, ok := datecalc.ParseDate(strings.TrimSpace(value)); !ok {
				return doc, "", &domain.ValidationError{Field: string(field), Message: fmt.Sprintf("%q is not a YYYY-MM-DD date", value)}
			}
		case domain.FieldDuration:
			if _, err := parseDuration(value); err != nil {
				return doc, "", &domain.ValidationError{Field: string(field), Message: err.Error()}
			}
		}
		return e.EditRow(doc, id, field, value), id, nil
	}}
}

// RetypeRow switches a row between task and event. Unknown kinds are rejected.
func RetypeRow(id string, kind domain.RowKind) Edit {
	return Edit{Name: "retype-row", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if err := requireRow(doc, id); err != nil {
			return doc, "", err
		}
		if kind != domain.RowTask && kind != domain.RowEvent {
			return doc, "", &domain.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown row kind %q", kind)}
		}
		return e.RetypeRow(doc, id, kind), id, nil
	}}
}

// MoveRow swaps a row with its adjacent sibling.
func MoveRow(id string, dir domain.Direction) Edit {
	return Edit{Name: "move-row", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if err := requireRow(doc, id); err != nil {
			return doc, "", err
		}
		return e.MoveRow(doc, id, dir), id, nil
	}}
}

// DropRow moves a row onto a group or after another row.
func DropRow(id, targetID string) Edit {
	return Edit{Name: "drop-row", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if err := requireRow(doc, id); err != nil {
			return doc, "", err
		}
		if doc.GroupByID(targetID) < 0 && doc.RowByID(targetID) < 0 {
			return doc, "", fmt.Errorf("drop target %s: %w", targetID, domain.ErrNotFound)
		}
		return e.DropRow(doc, id, targetID), id, nil
	}}
}

// SetWeekendMode switches the document's day-counting mode.
func SetWeekendMode(mode domain.WeekendMode) Edit {
	return Edit{Name: "set-weekend-mode", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		return e.SetWeekendMode(doc, mode), "", nil
	}}
}

// SetAnchorDate moves the schedule to start on anchor.
func SetAnchorDate(anchor string) Edit {
	return Edit{Name: "set-anchor-date", Apply: func(e *scheduler.Engine, doc domain.Document) (domain.Document, string, error) {
		if _, ok := datecalc.ParseDate(anchor); !ok {
			return doc, "", anchorError(anchor)
		}
		return e.SetAnchorDate(doc, anchor), "", nil
	}}
}
