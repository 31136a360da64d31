package scheduler

import (
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
)

// siblingGroups returns the custom groups sharing g's stage and parent, in
// display order.
func siblingGroups(doc domain.Document, g domain.Group) []domain.Group {
	var out []domain.Group
	for _, other := range doc.Groups {
		if !other.IsSystem && other.Stage == g.Stage && other.ParentID() == g.ParentID() {
			out = append(out, other)
		}
	}
	hierarchy.SortGroups(out, domain.NewIDComparer())
	return out
}

// siblingRows returns the rows of groupID in display order.
func siblingRows(doc domain.Document, groupID string) []domain.Row {
	var out []domain.Row
	for _, r := range doc.Rows {
		if r.ParentGroupID == groupID {
			out = append(out, r)
		}
	}
	hierarchy.SortRows(out, domain.NewIDComparer())
	return out
}

// neighbor returns the position adjacent to i in direction dir, or -1 when
// the move would leave the list.
func neighbor(i, n int, dir domain.Direction) int {
	j := i - 1
	if dir == domain.MoveDown {
		j = i + 1
	}
	if j < 0 || j >= n {
		return -1
	}
	return j
}

// descendantGroups returns id and every group below it.
func descendantGroups(doc domain.Document, id string) map[string]bool {
	children := make(map[string][]string)
	for _, g := range doc.Groups {
		if g.ParentGroupID != nil {
			children[*g.ParentGroupID] = append(children[*g.ParentGroupID], g.ID)
		}
	}
	out := map[string]bool{id: true}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range children[cur] {
			if !out[c] {
				out[c] = true
				stack = append(stack, c)
			}
		}
	}
	return out
}

// nextRowRank is one past the highest sort order among rows of groupID,
// ignoring skipID.
func nextRowRank(doc domain.Document, groupID, skipID string) int {
	n := 0
	for _, r := range doc.Rows {
		if r.ParentGroupID == groupID && r.ID != skipID && r.SortOrder >= n {
			n = r.SortOrder + 1
		}
	}
	return n
}

func nextGroupRank(doc domain.Document, parentID, skipID string) int {
	n := 0
	for _, g := range doc.Groups {
		if !g.IsSystem && g.ParentID() == parentID && g.ID != skipID && g.SortOrder >= n {
			n = g.SortOrder + 1
		}
	}
	return n
}
