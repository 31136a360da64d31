package domain

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// IDComparer orders ids with Korean collation, falling back to byte order
// for ids the collator considers equal.
type IDComparer struct {
	c *collate.Collator
}

// NewIDComparer returns a comparer. A collator keeps internal buffers, so
// each sorting pass should create its own.
func NewIDComparer() *IDComparer {
	return &IDComparer{c: collate.New(language.Korean)}
}

// Compare returns -1, 0 or +1.
func (ic *IDComparer) Compare(a, b string) int {
	if r := ic.c.CompareString(a, b); r != 0 {
		return r
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
