package index

import (
	"slices"

	"github.com/dot5enko/pointindex/schema"
)

// sortByColumn stably reorders points by one column and returns the sorted column.
func sortByColumn(points *schema.Points, dim int) []schema.Scalar {

	n := points.Len()
	order := make([]schema.PhysicalIndex, n)
	for i := range order {
		order[i] = schema.PhysicalIndex(i)
	}

	slices.SortStableFunc(order, func(a, b schema.PhysicalIndex) int {
		va, vb := points.Coord(a, dim), points.Coord(b, dim)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
		return 0
	})

	points.Permute(schema.SortedPermutation(order))

	return points.Column(dim)
}

// locateLeft is the first position holding a value >= v.
func locateLeft(sorted []schema.Scalar, v schema.Scalar) int {
	pos, _ := slices.BinarySearch(sorted, v)
	return pos
}

// locateRight is the first position holding a value > v.
func locateRight(sorted []schema.Scalar, v schema.Scalar) int {

	l, r := 0, len(sorted)
	for l < r {
		m := int(uint(l+r) >> 1)
		if sorted[m] <= v {
			l = m + 1
		} else {
			r = m
		}
	}

	return l
}

// appendRange adds [start, end) to a sorted range list, extending the last
// range when they touch or overlap.
func appendRange(ranges schema.IndexRangeList, start, end schema.PhysicalIndex) schema.IndexRangeList {

	if end <= start {
		return ranges
	}

	if last := len(ranges) - 1; last >= 0 && start <= ranges[last].End {
		ranges[last].End = max(ranges[last].End, end)
		return ranges
	}

	return append(ranges, schema.PhysicalIndexRange{Start: start, End: end})
}

// sortedFilterRanges resolves a filter against a sorted column.
func sortedFilterRanges(sorted []schema.Scalar, f filterBounds) schema.IndexRangeList {

	var ranges schema.IndexRangeList

	for _, r := range f {
		lix := locateLeft(sorted, r.First)
		rix := locateRight(sorted, r.Second)
		ranges = appendRange(ranges, schema.PhysicalIndex(lix), schema.PhysicalIndex(rix))
	}

	return ranges
}
