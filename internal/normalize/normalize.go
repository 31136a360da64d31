// Package normalize turns any schedule document, however partial or
// corrupted, into a fully valid domain.Document. It never fails.
package normalize

import (
	"time"

	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
)

// Normalize repairs raw into a self-consistent document. today anchors
// documents whose anchor date is missing or invalid.
func Normalize(raw *importer.RawDocument, today time.Time) domain.Document {
	if raw == nil {
		raw = &importer.RawDocument{}
	}

	anchor, ok := datecalc.ParseDate(raw.AnchorDate)
	if !ok {
		anchor = datecalc.Day(today)
	}
	doc := domain.Document{
		SchemaVersion: domain.SchemaVersion,
		WeekendMode:   domain.ParseWeekendMode(raw.WeekendMode),
		AnchorDate:    anchor,
		UpdatedAt:     raw.UpdatedAt,
	}

	arena := NewIDArena()
	for _, st := range domain.Stages {
		doc.Groups = append(doc.Groups, domain.Group{
			ID:       arena.Claim(st.RootID(), ""),
			Name:     st.Label(),
			Stage:    st,
			IsSystem: true,
		})
	}

	cmp := domain.NewIDComparer()
	groupIdx := normalizeGroups(&doc, raw.Groups, arena, cmp)
	normalizeRows(&doc, raw.Rows, arena, groupIdx, cmp)
	return doc
}

// Renormalize re-derives an already typed document, e.g. after an edit.
func Renormalize(doc domain.Document, today time.Time) domain.Document {
	return Normalize(importer.FromDocument(doc), today)
}

func normalizeGroups(doc *domain.Document, raws []importer.RawGroup, arena *IDArena, cmp *domain.IDComparer) map[string]int {
	type pending struct {
		parentRef string
		rank      *int
	}

	idx := make(map[string]int, len(doc.Groups)+len(raws))
	for i, g := range doc.Groups {
		idx[g.ID] = i
	}

	var pend []pending
	var order []string
	for _, rg := range raws {
		if _, isRoot := domain.StageForRootID(rg.ID); isRoot {
			continue
		}
		g := domain.Group{
			ID:    arena.Claim(rg.ID, "group"),
			Name:  domain.CoalesceStr(rg.Name, domain.DefaultGroupName),
			Stage: domain.ParseStage(rg.Stage),
		}
		parentRef := ""
		if rg.ParentGroupID != nil {
			parentRef = *rg.ParentGroupID
		}
		idx[g.ID] = len(doc.Groups)
		doc.Groups = append(doc.Groups, g)
		pend = append(pend, pending{parentRef: parentRef, rank: rg.SortOrder.Ptr()})
		order = append(order, g.ID)
	}

	f := newForest()
	custom := doc.Groups[len(domain.Stages):]
	for i := range custom {
		g := &custom[i]
		f.stage[g.ID] = g.Stage
		parent := g.Stage.RootID()
		if j, ok := idx[pend[i].parentRef]; ok && doc.Groups[j].Stage == g.Stage {
			parent = doc.Groups[j].ID
		}
		f.parent[g.ID] = parent
	}
	f.breakCycles(order)

	buckets := make(map[string][]rankItem)
	for i := range custom {
		g := &custom[i]
		g.ParentGroupID = domain.StrPtr(f.parent[g.ID])
		key := string(g.Stage) + "\x00" + f.parent[g.ID]
		buckets[key] = append(buckets[key], rankItem{
			id:    g.ID,
			rank:  pend[i].rank,
			apply: func(n int) { g.SortOrder = n },
		})
	}
	assignDenseRanks(buckets, cmp)
	return idx
}

func normalizeRows(doc *domain.Document, raws []importer.RawRow, arena *IDArena, groupIdx map[string]int, cmp *domain.IDComparer) {
	doc.Rows = make([]domain.Row, 0, len(raws))
	ranks := make([]*int, 0, len(raws))

	for _, rr := range raws {
		r := domain.Row{
			ID:    arena.Claim(rr.ID, "row"),
			Kind:  domain.ParseRowKind(rr.Kind),
			Name:  rr.Name,
			Stage: domain.ParseStage(rr.Stage),
			Note:  rr.Note,
		}
		parentRef := ""
		if rr.ParentGroupID != nil {
			parentRef = *rr.ParentGroupID
		}
		if j, ok := groupIdx[parentRef]; ok {
			r.ParentGroupID = doc.Groups[j].ID
			r.Stage = doc.Groups[j].Stage
		} else {
			r.ParentGroupID = r.Stage.RootID()
		}
		sanitizeDates(&r, rr, doc.AnchorDate, doc.WeekendMode)
		doc.Rows = append(doc.Rows, r)
		ranks = append(ranks, rr.SortOrder.Ptr())
	}

	buckets := make(map[string][]rankItem)
	for i := range doc.Rows {
		r := &doc.Rows[i]
		buckets[r.ParentGroupID] = append(buckets[r.ParentGroupID], rankItem{
			id:    r.ID,
			rank:  ranks[i],
			apply: func(n int) { r.SortOrder = n },
		})
	}
	assignDenseRanks(buckets, cmp)
}

func sanitizeDates(r *domain.Row, rr importer.RawRow, anchor time.Time, mode domain.WeekendMode) {
	start, hasStart := datecalc.ParseDate(rr.StartDate)
	end, hasEnd := datecalc.ParseDate(rr.EndDate)

	switch {
	case hasStart && hasEnd:
		if end.Before(start) {
			start, end = end, start
		}
		r.StartDate, r.EndDate = start, end
		r.DurationDays = datecalc.DurationFromRange(start, end, mode)
	case hasStart || hasEnd:
		day := start
		if hasEnd {
			day = end
		}
		r.StartDate, r.EndDate = day, day
		r.DurationDays = 1
	default:
		r.StartDate = anchor
		if r.Kind == domain.RowTask {
			r.StartDate = datecalc.ClampDate(datecalc.RollToBusinessDay(anchor, mode), mode)
		}
		r.DurationDays = datecalc.ClampDuration(r.StartDate, domain.IntFromPtrWithDefault(1, rr.DurationDays.Ptr()), mode)
		r.EndDate = datecalc.EndDateFromDuration(r.StartDate, r.DurationDays, mode)
	}

	if r.Kind == domain.RowEvent {
		r.DurationDays = 0
		r.EndDate = r.StartDate
	}
}
