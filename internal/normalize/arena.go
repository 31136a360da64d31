package normalize

import (
	"strconv"
	"strings"
)

// IDArena allocates unique ids. A requested id that is already taken gets
// the first free "-2", "-3", ... suffix.
type IDArena struct {
	used map[string]bool
}

// NewIDArena returns an arena with the reserved ids already claimed.
func NewIDArena(reserved ...string) *IDArena {
	a := &IDArena{used: make(map[string]bool, len(reserved))}
	for _, id := range reserved {
		a.used[id] = true
	}
	return a
}

// Claim returns requested (trimmed) if free, otherwise a suffixed variant.
// An empty request is allocated from base.
func (a *IDArena) Claim(requested, base string) string {
	id := strings.TrimSpace(requested)
	if id == "" {
		id = base
	}
	if !a.used[id] {
		a.used[id] = true
		return id
	}
	for n := 2; ; n++ {
		candidate := id + "-" + strconv.Itoa(n)
		if !a.used[candidate] {
			a.used[candidate] = true
			return candidate
		}
	}
}

// Contains reports whether id has been claimed.
func (a *IDArena) Contains(id string) bool {
	return a.used[id]
}
