// Package hierarchy projects a normalized document onto its three stage
// trees, aggregates per-group statistics and defines the canonical row
// order used by the cascade.
package hierarchy

import (
	"sort"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Hierarchy is the display tree of a document, one entry per stage.
type Hierarchy struct {
	Stages []StageTree
}

// StageTree is one stage's labelled group tree.
type StageTree struct {
	Stage domain.Stage
	Label string
	Root  *Node
}

// Node is a group with its own sorted rows and sorted child groups.
type Node struct {
	domain.Group
	Rows     []domain.Row
	Children []*Node
}

// index holds the adjacency of a document built once per call.
type index struct {
	groups   map[string]domain.Group
	children map[string][]domain.Group
	rows     map[string][]domain.Row
}

func newIndex(doc domain.Document) *index {
	ix := &index{
		groups:   make(map[string]domain.Group, len(doc.Groups)),
		children: make(map[string][]domain.Group),
		rows:     make(map[string][]domain.Row),
	}
	for _, g := range doc.Groups {
		ix.groups[g.ID] = g
		if g.ParentGroupID != nil {
			ix.children[*g.ParentGroupID] = append(ix.children[*g.ParentGroupID], g)
		}
	}
	for _, r := range doc.Rows {
		ix.rows[r.ParentGroupID] = append(ix.rows[r.ParentGroupID], r)
	}

	cmp := domain.NewIDComparer()
	for _, kids := range ix.children {
		SortGroups(kids, cmp)
	}
	for _, rows := range ix.rows {
		SortRows(rows, cmp)
	}
	return ix
}

// SortGroups orders siblings: system roots first, then by sort order and id.
func SortGroups(groups []domain.Group, cmp *domain.IDComparer) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.IsSystem != b.IsSystem {
			return a.IsSystem
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return cmp.Compare(a.ID, b.ID) < 0
	})
}

// SortRows orders the rows of one group by sort order and id.
func SortRows(rows []domain.Row, cmp *domain.IDComparer) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return cmp.Compare(a.ID, b.ID) < 0
	})
}

// BuildHierarchy returns the tree of every stage in canonical stage order.
func BuildHierarchy(doc domain.Document) Hierarchy {
	ix := newIndex(doc)
	h := Hierarchy{Stages: make([]StageTree, 0, len(domain.Stages))}
	for _, st := range domain.Stages {
		root, ok := ix.groups[st.RootID()]
		if !ok {
			root = domain.Group{ID: st.RootID(), Name: st.Label(), Stage: st, IsSystem: true}
		}
		h.Stages = append(h.Stages, StageTree{
			Stage: st,
			Label: st.Label(),
			Root:  ix.build(root, map[string]bool{}),
		})
	}
	return h
}

func (ix *index) build(g domain.Group, onPath map[string]bool) *Node {
	onPath[g.ID] = true
	defer delete(onPath, g.ID)

	n := &Node{Group: g, Rows: ix.rows[g.ID]}
	for _, child := range ix.children[g.ID] {
		if onPath[child.ID] {
			continue
		}
		n.Children = append(n.Children, ix.build(child, onPath))
	}
	return n
}

// Walk visits n and its descendants depth-first, pre-order.
func (n *Node) Walk(fn func(n *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// OrderedRows returns every row in canonical order: stage by stage, then a
// pre-order walk of the stage's groups emitting each group's own rows before
// descending into its children.
func OrderedRows(doc domain.Document) []domain.Row {
	h := BuildHierarchy(doc)
	out := make([]domain.Row, 0, len(doc.Rows))
	for _, st := range h.Stages {
		st.Root.Walk(func(n *Node, _ int) {
			out = append(out, n.Rows...)
		})
	}
	return out
}

// OrderedRowIDs returns the ids of OrderedRows.
func OrderedRowIDs(doc domain.Document) []string {
	rows := OrderedRows(doc)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

// IndexOf returns the canonical position of rowID, or -1.
func IndexOf(doc domain.Document, rowID string) int {
	for i, id := range OrderedRowIDs(doc) {
		if id == rowID {
			return i
		}
	}
	return -1
}

// GroupStats aggregates a group's rows and all descendant rows.
type GroupStats struct {
	TotalDays  int
	FirstStart time.Time
	LastEnd    time.Time
	RowCount   int
}

func (s *GroupStats) merge(o GroupStats) {
	s.TotalDays += o.TotalDays
	s.RowCount += o.RowCount
	if !o.FirstStart.IsZero() && (s.FirstStart.IsZero() || o.FirstStart.Before(s.FirstStart)) {
		s.FirstStart = o.FirstStart
	}
	if !o.LastEnd.IsZero() && (s.LastEnd.IsZero() || o.LastEnd.After(s.LastEnd)) {
		s.LastEnd = o.LastEnd
	}
}

func rowStats(r domain.Row) GroupStats {
	s := GroupStats{RowCount: 1, FirstStart: r.StartDate, LastEnd: r.EndDate}
	if r.Kind == domain.RowTask {
		s.TotalDays = r.DurationDays
	}
	return s
}

// ComputeGroupStats returns stats for every group reachable from a stage
// root, keyed by group id. Event rows count toward RowCount only.
func ComputeGroupStats(doc domain.Document) map[string]GroupStats {
	stats := make(map[string]GroupStats, len(doc.Groups))
	h := BuildHierarchy(doc)
	for _, st := range h.Stages {
		postOrder(st.Root, stats)
	}
	return stats
}

func postOrder(n *Node, stats map[string]GroupStats) GroupStats {
	var s GroupStats
	for _, c := range n.Children {
		s.merge(postOrder(c, stats))
	}
	for _, r := range n.Rows {
		s.merge(rowStats(r))
	}
	stats[n.ID] = s
	return s
}
