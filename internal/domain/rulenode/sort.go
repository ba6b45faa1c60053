package rulenode

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator is not safe for concurrent use, so every call builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

// Sort orders descriptors by Type, then Name.
func Sort(descriptors []*Descriptor) {
	c := newCollator()
	slices.SortStableFunc(descriptors, func(a, b *Descriptor) int {
		return compare(c, a, b)
	})
}

// IsSorted reports whether every adjacent pair is in Sort order.
func IsSorted(descriptors []*Descriptor) bool {
	c := newCollator()
	return slices.IsSortedFunc(descriptors, func(a, b *Descriptor) int {
		return compare(c, a, b)
	})
}

// Compare returns the Sort order of a and b as -1, 0 or +1.
func Compare(a, b *Descriptor) int {
	return compare(newCollator(), a, b)
}

func compare(c *collate.Collator, a, b *Descriptor) int {
	if n := c.CompareString(string(a.Type), string(b.Type)); n != 0 {
		return n
	}
	return c.CompareString(a.Name, b.Name)
}
