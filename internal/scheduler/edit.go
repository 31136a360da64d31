package scheduler

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/google/uuid"
)

// GroupDraft describes a group to add. ID is the client-issued id; when
// empty a random one is generated.
type GroupDraft struct {
	ID       string
	Name     string
	Stage    domain.Stage
	ParentID string
}

// RowDraft describes a row to add.
type RowDraft struct {
	ID           string
	Kind         domain.RowKind
	Name         string
	ParentID     string
	DurationDays int
	Note         string
}

// AddGroup appends a group as the last child of its parent and returns the
// new document together with the id the group ended up with.
func (e *Engine) AddGroup(doc domain.Document, draft GroupDraft) (domain.Document, string) {
	out := doc.Clone()
	id := freshID(out, draft.ID)
	stage := draft.Stage
	parentID := draft.ParentID
	if i := out.GroupByID(parentID); i >= 0 {
		stage = out.Groups[i].Stage
	} else {
		if !stage.IsValid() {
			stage = domain.StageDesign
		}
		parentID = stage.RootID()
	}
	out.Groups = append(out.Groups, domain.Group{
		ID:            id,
		Name:          draft.Name,
		Stage:         stage,
		ParentGroupID: domain.StrPtr(parentID),
		SortOrder:     nextGroupRank(out, parentID, ""),
	})
	return e.Normalize(out), id
}

// AddRow appends a row as the last row of its group and chains it after its
// canonical predecessor. Returns the new document and the row's final id.
func (e *Engine) AddRow(doc domain.Document, draft RowDraft) (domain.Document, string) {
	out := doc.Clone()
	id := freshID(out, draft.ID)
	parentID := draft.ParentID
	stage := domain.StageDesign
	if i := out.GroupByID(parentID); i >= 0 {
		stage = out.Groups[i].Stage
	} else {
		parentID = stage.RootID()
	}
	kind := domain.ParseRowKind(string(draft.Kind))
	row := domain.Row{
		ID:            id,
		Kind:          kind,
		Name:          draft.Name,
		Stage:         stage,
		ParentGroupID: parentID,
		SortOrder:     nextRowRank(out, parentID, ""),
		DurationDays:  max(draft.DurationDays, 1),
		Note:          draft.Note,
	}
	placeRow(&row, out.AnchorDate, out.WeekendMode)
	out.Rows = append(out.Rows, row)

	out = e.Normalize(out)
	return e.CascadeRowsFrom(out, hierarchy.IndexOf(out, id)), id
}

// freshID returns the requested id when no group or row holds it yet, and a
// random one otherwise.
func freshID(doc domain.Document, requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" || doc.GroupByID(requested) >= 0 || doc.RowByID(requested) >= 0 {
		return uuid.New().String()
	}
	if _, ok := domain.StageForRootID(requested); ok {
		return uuid.New().String()
	}
	return requested
}

// DeleteRow removes a row and re-links the rows that followed it.
func (e *Engine) DeleteRow(doc domain.Document, rowID string) domain.Document {
	idx := hierarchy.IndexOf(doc, rowID)
	if idx < 0 {
		return doc
	}
	out := doc.Clone()
	out.Rows = removeRows(out.Rows, map[string]bool{rowID: true})
	return e.CascadeRowsFrom(out, idx)
}

// DeleteGroup removes a custom group together with its descendant groups
// and all their rows. System roots cannot be deleted.
func (e *Engine) DeleteGroup(doc domain.Document, groupID string) domain.Document {
	i := doc.GroupByID(groupID)
	if i < 0 || doc.Groups[i].IsSystem {
		return doc
	}
	doomed := descendantGroups(doc, groupID)

	first := -1
	doomedRows := make(map[string]bool)
	for idx, r := range hierarchy.OrderedRows(doc) {
		if doomed[r.ParentGroupID] {
			doomedRows[r.ID] = true
			if first < 0 {
				first = idx
			}
		}
	}

	out := doc.Clone()
	groups := out.Groups[:0]
	for _, g := range out.Groups {
		if !doomed[g.ID] {
			groups = append(groups, g)
		}
	}
	out.Groups = groups
	out.Rows = removeRows(out.Rows, doomedRows)
	if first < 0 {
		return e.Normalize(out)
	}
	return e.CascadeRowsFrom(out, first)
}

func removeRows(rows []domain.Row, ids map[string]bool) []domain.Row {
	kept := rows[:0]
	for _, r := range rows {
		if !ids[r.ID] {
			kept = append(kept, r)
		}
	}
	return kept
}

// RenameGroup changes a custom group's name. System roots keep their label.
func (e *Engine) RenameGroup(doc domain.Document, groupID, name string) domain.Document {
	i := doc.GroupByID(groupID)
	if i < 0 || doc.Groups[i].IsSystem {
		return doc
	}
	out := doc.Clone()
	out.Groups[i].Name = strings.TrimSpace(name)
	return e.Normalize(out)
}

// EditRow sets one field of a row from its text value. Date, duration and
// kind edits keep the row's own start and re-chain everything after it;
// name and note edits never move a row. Unparsable values are ignored.
func (e *Engine) EditRow(doc domain.Document, rowID string, field domain.RowField, value string) domain.Document {
	i := doc.RowByID(rowID)
	if i < 0 {
		return doc
	}
	out := doc.Clone()
	row := out.Rows[i]

	switch field {
	case domain.FieldName:
		row.Name = value
	case domain.FieldNote:
		row.Note = value
	case domain.FieldDuration:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return doc
		}
		row.DurationDays = n
	case domain.FieldStartDate, domain.FieldEndDate:
		d, ok := datecalc.ParseDate(strings.TrimSpace(value))
		if !ok {
			return doc
		}
		if field == domain.FieldStartDate {
			row.StartDate = d
		} else {
			row.EndDate = d
		}
	default:
		return doc
	}

	out.Rows[i] = SanitizeEditedRow(row, field, out)
	if !field.IsDateField() {
		return e.Normalize(out)
	}

	idx := hierarchy.IndexOf(out, rowID)
	if idx == 0 && field != domain.FieldDuration {
		out.AnchorDate = out.Rows[i].StartDate
	}
	return e.CascadeRowsFrom(out, idx, PreserveStart())
}

// RetypeRow switches a row between task and event.
func (e *Engine) RetypeRow(doc domain.Document, rowID string, kind domain.RowKind) domain.Document {
	i := doc.RowByID(rowID)
	kind = domain.ParseRowKind(string(kind))
	if i < 0 || doc.Rows[i].Kind == kind {
		return doc
	}
	out := doc.Clone()
	row := &out.Rows[i]
	row.Kind = kind
	if row.Kind == domain.RowEvent {
		row.DurationDays = 0
	} else {
		row.DurationDays = 1
	}
	row.EndDate = row.StartDate
	return e.CascadeRowsFrom(out, hierarchy.IndexOf(out, rowID), PreserveStart())
}

// MoveGroup swaps a custom group with its adjacent sibling. Moving the
// first sibling up or the last one down does nothing.
func (e *Engine) MoveGroup(doc domain.Document, groupID string, dir domain.Direction) domain.Document {
	i := doc.GroupByID(groupID)
	if i < 0 || doc.Groups[i].IsSystem {
		return doc
	}
	sibs := siblingGroups(doc, doc.Groups[i])
	at := -1
	for k, g := range sibs {
		if g.ID == groupID {
			at = k
		}
	}
	j := neighbor(at, len(sibs), dir)
	if j < 0 {
		return doc
	}

	out := doc.Clone()
	for k := range sibs {
		sibs[k].SortOrder = k
	}
	sibs[at].SortOrder, sibs[j].SortOrder = sibs[j].SortOrder, sibs[at].SortOrder
	for _, s := range sibs {
		out.Groups[out.GroupByID(s.ID)].SortOrder = s.SortOrder
	}
	return e.CascadeRowsFrom(out, 0)
}

// MoveRow swaps a row with its adjacent sibling in the same group.
func (e *Engine) MoveRow(doc domain.Document, rowID string, dir domain.Direction) domain.Document {
	i := doc.RowByID(rowID)
	if i < 0 {
		return doc
	}
	sibs := siblingRows(doc, doc.Rows[i].ParentGroupID)
	at := -1
	for k, r := range sibs {
		if r.ID == rowID {
			at = k
		}
	}
	j := neighbor(at, len(sibs), dir)
	if j < 0 {
		return doc
	}

	out := doc.Clone()
	for k := range sibs {
		sibs[k].SortOrder = k
	}
	sibs[at].SortOrder, sibs[j].SortOrder = sibs[j].SortOrder, sibs[at].SortOrder
	for _, s := range sibs {
		out.Rows[out.RowByID(s.ID)].SortOrder = s.SortOrder
	}
	return e.CascadeRowsFrom(out, 0)
}

// DropRow moves a row onto a target. Dropped on a group, the row becomes the
// group's last row; dropped on another row, it lands right after that row in
// the target's group. The row takes the stage of its new group.
func (e *Engine) DropRow(doc domain.Document, rowID, targetID string) domain.Document {
	i := doc.RowByID(rowID)
	if i < 0 || rowID == targetID {
		return doc
	}
	out := doc.Clone()
	row := &out.Rows[i]

	if gi := out.GroupByID(targetID); gi >= 0 {
		target := out.Groups[gi]
		row.SortOrder = nextRowRank(out, target.ID, rowID)
		row.ParentGroupID = target.ID
		row.Stage = target.Stage
		return e.CascadeRowsFrom(out, 0)
	}

	ti := out.RowByID(targetID)
	if ti < 0 {
		return doc
	}
	target := out.Rows[ti]
	row.ParentGroupID = target.ParentGroupID
	row.Stage = target.Stage

	rank := 0
	for _, s := range siblingRows(doc, target.ParentGroupID) {
		if s.ID == rowID {
			continue
		}
		out.Rows[out.RowByID(s.ID)].SortOrder = rank
		rank++
		if s.ID == targetID {
			row.SortOrder = rank
			rank++
		}
	}
	return e.CascadeRowsFrom(out, 0)
}

// ReparentGroup moves a custom group, with its subtree, under newParentID.
// Moving into another stage carries every descendant group and row along.
// Targets inside the group's own subtree are ignored.
func (e *Engine) ReparentGroup(doc domain.Document, groupID, newParentID string) domain.Document {
	i := doc.GroupByID(groupID)
	pi := doc.GroupByID(newParentID)
	if i < 0 || pi < 0 || doc.Groups[i].IsSystem {
		return doc
	}
	subtree := descendantGroups(doc, groupID)
	if subtree[newParentID] {
		return doc
	}

	out := doc.Clone()
	stage := out.Groups[pi].Stage
	out.Groups[i].ParentGroupID = domain.StrPtr(newParentID)
	out.Groups[i].SortOrder = nextGroupRank(out, newParentID, groupID)
	for k := range out.Groups {
		if subtree[out.Groups[k].ID] {
			out.Groups[k].Stage = stage
		}
	}
	for k := range out.Rows {
		if subtree[out.Rows[k].ParentGroupID] {
			out.Rows[k].Stage = stage
		}
	}
	return e.CascadeRowsFrom(out, 0)
}

// SetWeekendMode switches the counting regime. Task durations are kept and
// their end dates re-derived under the new mode before re-chaining.
func (e *Engine) SetWeekendMode(doc domain.Document, mode domain.WeekendMode) domain.Document {
	mode = domain.ParseWeekendMode(string(mode))
	if doc.WeekendMode == mode {
		return doc
	}
	out := doc.Clone()
	out.WeekendMode = mode
	for k := range out.Rows {
		r := &out.Rows[k]
		if r.Kind == domain.RowTask {
			placeRow(r, r.StartDate, mode)
		}
	}
	return e.CascadeRowsFrom(out, 0)
}

// SetAnchorDate moves the whole schedule to start on anchor.
func (e *Engine) SetAnchorDate(doc domain.Document, anchor string) domain.Document {
	d, ok := datecalc.ParseDate(anchor)
	if !ok {
		return doc
	}
	out := doc.Clone()
	out.AnchorDate = d
	return e.CascadeRowsFrom(out, 0)
}
