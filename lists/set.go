package lists

import "github.com/dot5enko/pointindex/schema"

// coverCursor answers "is p inside one of the ranges" for ascending p.
type coverCursor struct {
	ranges schema.IndexRangeList
	i      int
}

func (c *coverCursor) covers(p schema.PhysicalIndex) bool {
	for c.i < len(c.ranges) && c.ranges[c.i].End <= p {
		c.i++
	}
	return c.i < len(c.ranges) && c.ranges[c.i].Start <= p
}

// UnionRangesList keeps the ranges and drops every list position they already cover.
func UnionRangesList(ranges schema.IndexRangeList, list schema.IndexList) schema.PhysicalIndexSet {

	cursor := coverCursor{ranges: ranges}
	pruned := make(schema.IndexList, 0, len(list))

	for _, p := range list {
		if !cursor.covers(p) {
			pruned = append(pruned, p)
		}
	}

	return schema.PhysicalIndexSet{
		Ranges: ranges,
		List:   pruned,
	}
}

// IntersectSets intersects the range parts with the range sweep and keeps a list
// position only when the other side has it in its list or in its ranges.
func IntersectSets(a, b schema.PhysicalIndexSet) schema.PhysicalIndexSet {

	result := schema.PhysicalIndexSet{
		Ranges: IntersectRanges(a.Ranges, b.Ranges),
	}

	// a.List against b.List and b.Ranges
	fromA := make(schema.IndexList, 0, len(a.List))
	bCover := coverCursor{ranges: b.Ranges}
	j := 0

	for _, p := range a.List {
		for j < len(b.List) && b.List[j] < p {
			j++
		}
		inList := j < len(b.List) && b.List[j] == p

		if bCover.covers(p) || inList {
			fromA = append(fromA, p)
		}
	}

	// b.List against a.Ranges, list to list matches are already in fromA
	fromB := make(schema.IndexList, 0, len(b.List))
	aCover := coverCursor{ranges: a.Ranges}

	for _, p := range b.List {
		if aCover.covers(p) {
			fromB = append(fromB, p)
		}
	}

	result.List = mergeDistinct(fromA, fromB)

	return result
}

// mergeDistinct merges two sorted lists dropping positions present in both.
func mergeDistinct(a, b schema.IndexList) schema.IndexList {

	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}

	out := make(schema.IndexList, 0, len(a)+len(b))
	i, j := 0, 0

	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}

	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// CoveredPositions expands ranges into the ascending positions they cover.
func CoveredPositions(ranges schema.IndexRangeList) schema.IndexList {
	return schema.PhysicalIndexSet{Ranges: ranges}.Positions()
}
