package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/repository"
)

const (
	shareWidth = 20
	noteWidth  = 32
)

// FormatSchedule renders the three stage trees with canonical row numbers,
// per-group totals and each stage's share of the scheduled days.
func FormatSchedule(projectID string, doc domain.Document) string {
	var b strings.Builder

	b.WriteString(Header("Schedule"))
	b.WriteString("\n")
	b.WriteString(Bold(projectID))
	b.WriteString(Dim(fmt.Sprintf("  anchor %s · %s · %d rows",
		datecalc.FormatDate(doc.AnchorDate), ModeLabel(doc.WeekendMode), len(doc.Rows))))
	b.WriteString("\n\n")

	stats := hierarchy.ComputeGroupStats(doc)
	seq := make(map[string]int, len(doc.Rows))
	for i, id := range hierarchy.OrderedRowIDs(doc) {
		seq[id] = i + 1
	}

	h := hierarchy.BuildHierarchy(doc)
	var items []TreeItem
	for _, st := range h.Stages {
		items = append(items, TreeItem{
			Title:  st.Label,
			Group:  true,
			Stage:  st.Stage,
			Detail: groupDetail(stats[st.Root.ID]),
		})
		items = appendNode(items, st.Root, 1, seq, stats)
	}
	b.WriteString(RenderTree(items))

	total := 0
	for _, st := range h.Stages {
		total += stats[st.Root.ID].TotalDays
	}
	if total > 0 {
		b.WriteString("\n")
		for _, st := range h.Stages {
			days := stats[st.Root.ID].TotalDays
			b.WriteString(PadRight(st.Label, 14))
			b.WriteString(RenderShare(float64(days)/float64(total), shareWidth, StageStyle(st.Stage)))
			b.WriteString(Dim("  " + Days(days)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func appendNode(items []TreeItem, n *hierarchy.Node, level int, seq map[string]int, stats map[string]hierarchy.GroupStats) []TreeItem {
	total := len(n.Rows) + len(n.Children)
	i := 0
	for _, r := range n.Rows {
		i++
		items = append(items, TreeItem{
			Title:  rowTitle(r),
			Seq:    seq[r.ID],
			Level:  level,
			IsLast: i == total,
			Kind:   r.Kind,
			Stage:  r.Stage,
			Detail: RowSpan(r),
		})
	}
	for _, c := range n.Children {
		i++
		items = append(items, TreeItem{
			Title:  c.Name,
			Level:  level,
			IsLast: i == total,
			Group:  true,
			Stage:  c.Stage,
			Detail: groupDetail(stats[c.ID]),
		})
		items = appendNode(items, c, level+1, seq, stats)
	}
	return items
}

func rowTitle(r domain.Row) string {
	title := r.Name
	if strings.TrimSpace(title) == "" {
		title = Dim("untitled")
	}
	if r.Note != "" {
		title += Dim(" (" + Truncate(r.Note, noteWidth) + ")")
	}
	return title
}

// RowSpan describes a row's dates: "5 days · 2024-01-01 → 2024-01-05" for a
// task, the single date for an event.
func RowSpan(r domain.Row) string {
	if r.Kind == domain.RowEvent {
		return datecalc.FormatDate(r.StartDate)
	}
	return fmt.Sprintf("%s · %s → %s", Days(r.DurationDays),
		datecalc.FormatDate(r.StartDate), datecalc.FormatDate(r.EndDate))
}

func groupDetail(s hierarchy.GroupStats) string {
	if s.RowCount == 0 {
		return "empty"
	}
	rows := "rows"
	if s.RowCount == 1 {
		rows = "row"
	}
	return fmt.Sprintf("%s · %s → %s · %d %s", Days(s.TotalDays),
		datecalc.FormatDate(s.FirstStart), datecalc.FormatDate(s.LastEnd), s.RowCount, rows)
}

// FormatSettings renders the document-wide settings in a box.
func FormatSettings(projectID string, doc domain.Document) string {
	updated := doc.UpdatedAt
	if updated == "" {
		updated = "never saved"
	}
	lines := []string{
		Bold(projectID),
		"",
		PadRight("Anchor", 10) + datecalc.FormatDate(doc.AnchorDate),
		PadRight("Weekends", 10) + fmt.Sprintf("%s (%s)", doc.WeekendMode, ModeLabel(doc.WeekendMode)),
		PadRight("Updated", 10) + Dim(updated),
	}
	return RenderBox("Settings", strings.Join(lines, "\n")) + "\n"
}

// FormatScheduleList renders the stored schedules as a table.
func FormatScheduleList(summaries []repository.ScheduleSummary, now time.Time) string {
	if len(summaries) == 0 {
		return Dim("No schedules stored.") + "\n"
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		mode := string(s.WeekendMode)
		if mode == "" {
			mode = "?"
		}
		rows = append(rows, []string{
			Bold(s.ProjectID),
			count(s.GroupCount),
			count(s.RowCount),
			mode,
			Dim(HumanTimestamp(s.UpdatedAt, now)),
		})
	}
	return RenderTable([]string{"PROJECT", "GROUPS", "ROWS", "WEEKENDS", "UPDATED"}, rows)
}

// count renders a stored counter; negative means not yet computed.
func count(n int) string {
	if n < 0 {
		return "?"
	}
	return strconv.Itoa(n)
}

// FormatRepairs lists what normalization fixed while importing.
func FormatRepairs(repairs []error) string {
	if len(repairs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleYellow.Render(fmt.Sprintf("Repaired %d problem(s):", len(repairs))))
	b.WriteString("\n")
	for _, r := range repairs {
		b.WriteString(Dim("  • ") + r.Error() + "\n")
	}
	return b.String()
}
