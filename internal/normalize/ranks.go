package normalize

import (
	"sort"

	"github.com/alexanderramin/gantry/internal/domain"
)

// rankItem is one member of a sibling bucket awaiting dense ranks.
type rankItem struct {
	id    string
	rank  *int
	apply func(int)
}

// assignDenseRanks sorts each bucket by requested rank (absent ranks last),
// breaks ties by id collation and rewrites ranks as 0..n-1.
func assignDenseRanks(buckets map[string][]rankItem, cmp *domain.IDComparer) {
	for _, items := range buckets {
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i], items[j]
			if (a.rank == nil) != (b.rank == nil) {
				return a.rank != nil
			}
			if a.rank != nil && *a.rank != *b.rank {
				return *a.rank < *b.rank
			}
			return cmp.Compare(a.id, b.id) < 0
		})
		for i, it := range items {
			it.apply(i)
		}
	}
}
