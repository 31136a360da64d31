package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/hierarchy"
)

const (
	ganttLabelWidth  = 28
	ganttMinChart    = 10
	ganttDefaultSize = 100
)

// RenderGantt draws one bar per row in canonical order, grouped under stage
// headings. width is the full line width; the chart gets what the label
// column leaves. Weekend columns are shaded when weekends are excluded.
func RenderGantt(doc domain.Document, scale gantt.Scale, width int) string {
	rows := hierarchy.OrderedRows(doc)
	bounds := gantt.GetScheduleBounds(rows)
	if bounds == nil {
		return Dim("No rows scheduled.") + "\n"
	}
	if scale == gantt.ScaleAuto {
		scale = gantt.PickAutoScale(rows)
	}
	if width <= 0 {
		width = ganttDefaultSize
	}
	cells := max(ganttMinChart, width-ganttLabelWidth-1)

	var shade []bool
	if doc.WeekendMode == domain.WeekendExclude {
		shade = shadeCells(gantt.WeekendBands(*bounds), cells)
	}

	var b strings.Builder
	b.WriteString(Header("Gantt"))
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("%s → %s · %s · %s scale",
		datecalc.FormatDate(bounds.Min), datecalc.FormatDate(bounds.Max), Days(bounds.Days), scale)))
	b.WriteString("\n\n")
	b.WriteString(PadRight("", ganttLabelWidth) + " " + Dim(axis(*bounds, scale, cells)) + "\n")

	var stage domain.Stage
	for i, r := range rows {
		if r.Stage != stage {
			stage = r.Stage
			b.WriteString(StageStyle(stage).Bold(true).Render(stage.Label()) + "\n")
		}
		label := fmt.Sprintf("#%d %s", i+1, r.Name)
		b.WriteString(PadRight(Truncate(label, ganttLabelWidth), ganttLabelWidth))
		b.WriteString(" ")
		b.WriteString(barLine(r, *bounds, cells, shade))
		b.WriteString("\n")
	}

	legend := "█ task  ◆ event"
	if shade != nil {
		legend += "  · weekend"
	}
	b.WriteString("\n" + Dim(legend) + "\n")
	return b.String()
}

// cellRange maps a percentage span onto [from, to) chart cells. Every span
// covers at least one cell.
func cellRange(left, width float64, cells int) (int, int) {
	from := min(int(left/100*float64(cells)), cells-1)
	to := min(int(math.Ceil((left+width)/100*float64(cells))), cells)
	if to <= from {
		to = from + 1
	}
	return max(from, 0), to
}

// shadeCells marks the chart cells whose midpoint falls on a weekend day.
func shadeCells(bands []gantt.Band, cells int) []bool {
	out := make([]bool, cells)
	for c := range out {
		mid := (float64(c) + 0.5) / float64(cells) * 100
		for _, band := range bands {
			if mid >= band.Left && mid < band.Left+band.Width {
				out[c] = true
				break
			}
		}
	}
	return out
}

func background(shade []bool, from, to int) string {
	if to <= from {
		return ""
	}
	var s strings.Builder
	for c := from; c < to; c++ {
		if shade != nil && shade[c] {
			s.WriteString("·")
		} else {
			s.WriteString(" ")
		}
	}
	return Dim(s.String())
}

func barLine(r domain.Row, bounds gantt.Bounds, cells int, shade []bool) string {
	bar := gantt.Position(r, bounds)
	style := StageStyle(r.Stage)
	from, to := cellRange(bar.Left, bar.Width, cells)
	mark := strings.Repeat("█", to-from)
	if bar.IsPoint {
		to = from + 1
		mark = KindGlyph(domain.RowEvent)
	}
	return background(shade, 0, from) + style.Render(mark) + background(shade, to, cells)
}

// axis lays out tick labels for scale, skipping any that would overlap the
// previous label.
func axis(bounds gantt.Bounds, scale gantt.Scale, cells int) string {
	line := []rune(strings.Repeat(" ", cells))
	next := 0
	d := bounds.Min
	for i := 0; i < bounds.Days; i, d = i+1, d.AddDate(0, 0, 1) {
		label, ok := tick(d, i == 0, scale)
		if !ok {
			continue
		}
		pos := i * cells / bounds.Days
		if pos < next || pos+len(label) > cells {
			continue
		}
		copy(line[pos:], []rune(label))
		next = pos + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

func tick(d time.Time, first bool, scale gantt.Scale) (string, bool) {
	switch scale {
	case gantt.ScaleMonth:
		return d.Format("Jan"), first || d.Day() == 1
	case gantt.ScaleWeek:
		return d.Format("01-02"), first || d.Weekday() == time.Monday
	default:
		return d.Format("02"), true
	}
}
