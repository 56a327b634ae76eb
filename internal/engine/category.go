// Package engine defines the scene-graph capability the scene is written
// against: nodes, physics body descriptions, collision categories, timed
// actions and contact callbacks. The physics package provides the
// production implementation; tests substitute their own.
package engine

import "strings"

// Category is a collision category bitmask.
// A body carries exactly one category; masks are OR-combinations.
type Category uint32

const (
	CategoryBird   Category = 1 << 1
	CategoryObject Category = 1 << 2
	CategoryGap    Category = 1 << 3
)

// Has reports whether c shares any bit with o.
func (c Category) Has(o Category) bool {
	return c&o != 0
}

// String lists the named bits of c, e.g. "Bird|Gap".
func (c Category) String() string {
	if c == 0 {
		return "None"
	}
	var parts []string
	for _, named := range []struct {
		bit  Category
		name string
	}{
		{CategoryBird, "Bird"},
		{CategoryObject, "Object"},
		{CategoryGap, "Gap"},
	} {
		if c.Has(named.bit) {
			parts = append(parts, named.name)
			c &^= named.bit
		}
	}
	if c != 0 {
		parts = append(parts, "Other")
	}
	return strings.Join(parts, "|")
}
