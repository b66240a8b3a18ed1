package lists

import (
	"cmp"
	"slices"

	"github.com/dot5enko/pointindex/schema"
)

// IntersectLists is a two pointer merge of sorted lists.
func IntersectLists(a, b schema.IndexList) schema.IndexList {

	out := make(schema.IndexList, 0, min(len(a), len(b)))

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			i++
		} else if a[i] > b[j] {
			j++
		} else {
			out = append(out, a[i])
			i++
			j++
		}
	}

	return out
}

// UnionLists merges sorted lists into one sorted list, keeping duplicates.
// Inputs are concatenated into one buffer and merged pairwise bottom up,
// neighbours first, so already sorted runs are never re-sorted.
func UnionLists(inputs ...schema.IndexList) schema.IndexList {

	total := 0
	for _, in := range inputs {
		total += len(in)
	}

	buf := make(schema.IndexList, 0, total)
	bounds := make([]int, 0, len(inputs)+1)
	bounds = append(bounds, 0)

	for _, in := range inputs {
		if len(in) == 0 {
			continue
		}
		buf = append(buf, in...)
		bounds = append(bounds, len(buf))
	}

	if len(bounds) <= 2 {
		return buf
	}

	scratch := make(schema.IndexList, total)

	for len(bounds) > 2 {
		next := make([]int, 1, len(bounds)/2+2)

		for k := 0; k+2 < len(bounds); k += 2 {
			lo, mid, hi := bounds[k], bounds[k+1], bounds[k+2]
			mergeRuns(buf, scratch, lo, mid, hi)
			next = append(next, hi)
		}

		// odd run carried over untouched
		if (len(bounds)-1)%2 == 1 {
			next = append(next, bounds[len(bounds)-1])
		}

		bounds = next
	}

	return buf
}

// mergeRuns merges buf[lo:mid] and buf[mid:hi] in place using scratch.
func mergeRuns(buf, scratch schema.IndexList, lo, mid, hi int) {

	if buf[mid-1] <= buf[mid] {
		return
	}

	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if buf[j] < buf[i] {
			scratch[k] = buf[j]
			j++
		} else {
			scratch[k] = buf[i]
			i++
		}
		k++
	}

	k += copy(scratch[k:], buf[i:mid])
	copy(scratch[k:], buf[j:hi])
	copy(buf[lo:hi], scratch[lo:hi])
}

// Dedup drops repeated values from a sorted list in place.
func Dedup(list schema.IndexList) schema.IndexList {
	return slices.Compact(list)
}

func SortList(list schema.IndexList) {
	slices.Sort(list)
}

func SortRanges(ranges schema.IndexRangeList) {
	slices.SortFunc(ranges, func(a, b schema.PhysicalIndexRange) int {
		return cmp.Compare(a.Start, b.Start)
	})
}

func IsSortedList(list schema.IndexList) bool {
	return slices.IsSorted(list)
}
