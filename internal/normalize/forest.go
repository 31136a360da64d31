package normalize

import "github.com/alexanderramin/gantry/internal/domain"

// forest is the parent adjacency of custom groups, built once per pass.
type forest struct {
	parent map[string]string
	stage  map[string]domain.Stage
}

func newForest() *forest {
	f := &forest{
		parent: make(map[string]string),
		stage:  make(map[string]domain.Stage),
	}
	for _, st := range domain.Stages {
		f.stage[st.RootID()] = st
	}
	return f
}

func (f *forest) isRoot(id string) bool {
	_, ok := domain.StageForRootID(id)
	return ok
}

// breakCycles walks up from every group in order. A group that reaches
// itself is reparented to its stage root, which breaks that cycle for every
// later member. Returns the ids that were reparented.
func (f *forest) breakCycles(order []string) []string {
	var broken []string
	for _, id := range order {
		visited := map[string]bool{id: true}
		cur := f.parent[id]
		for !f.isRoot(cur) {
			if cur == id {
				f.parent[id] = f.stage[id].RootID()
				broken = append(broken, id)
				break
			}
			if visited[cur] {
				break
			}
			visited[cur] = true
			next, ok := f.parent[cur]
			if !ok {
				break
			}
			cur = next
		}
	}
	return broken
}
