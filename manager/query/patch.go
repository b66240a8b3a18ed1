package query

import (
	"maps"
	"slices"
)

// Patch carries filters an index wants to add to a query. Indexes return it
// instead of rewriting the query they were given.
type Patch map[int]QueryFilter

func (p Patch) Empty() bool {
	return len(p) == 0
}

// Apply returns a patched copy of q, q itself is left untouched.
func (p Patch) Apply(q Query) Query {

	if p.Empty() {
		return q
	}

	out := q.Clone()
	for dim, f := range p {
		out.Filters[dim] = f.Clone()
	}

	return out
}

// Merge combines two patches, other wins on conflicts.
func (p Patch) Merge(other Patch) Patch {

	if p.Empty() {
		return other
	}
	if other.Empty() {
		return p
	}

	out := maps.Clone(p)
	maps.Copy(out, other)

	return out
}

func (p Patch) Dims() []int {
	return slices.Sorted(maps.Keys(p))
}
