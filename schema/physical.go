package schema

import (
	"fmt"
	"strings"
)

// PhysicalIndex is a row position in the current storage order.
type PhysicalIndex int

// PhysicalIndexRange covers [Start, End).
type PhysicalIndexRange struct {
	Start PhysicalIndex
	End   PhysicalIndex
}

func (r PhysicalIndexRange) Len() int {
	return int(r.End - r.Start)
}

func (r PhysicalIndexRange) Empty() bool {
	return r.End <= r.Start
}

func (r PhysicalIndexRange) Contains(p PhysicalIndex) bool {
	return p >= r.Start && p < r.End
}

func (r PhysicalIndexRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

type (
	IndexRangeList []PhysicalIndexRange
	IndexList      []PhysicalIndex
)

// Count returns the number of positions covered by the ranges.
func (l IndexRangeList) Count() int {
	total := 0
	for _, r := range l {
		total += r.Len()
	}
	return total
}

func (l IndexRangeList) String() string {
	parts := make([]string, len(l))
	for i, r := range l {
		parts[i] = r.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// PhysicalIndexSet is the result of an index lookup: positions from Ranges plus
// positions from List, a position never appears in both.
type PhysicalIndexSet struct {
	Ranges IndexRangeList
	List   IndexList
}

// FullSet covers every position of an n sized dataset.
func FullSet(n int) PhysicalIndexSet {
	return PhysicalIndexSet{
		Ranges: IndexRangeList{{Start: 0, End: PhysicalIndex(n)}},
	}
}

// IsFull reports whether the set is the single range [0, n) with no list part.
func (s PhysicalIndexSet) IsFull(n int) bool {
	return len(s.List) == 0 &&
		len(s.Ranges) == 1 &&
		s.Ranges[0].Start == 0 &&
		s.Ranges[0].End >= PhysicalIndex(n)
}

func (s PhysicalIndexSet) Empty() bool {
	return len(s.List) == 0 && s.Ranges.Count() == 0
}

func (s PhysicalIndexSet) Count() int {
	return s.Ranges.Count() + len(s.List)
}

// Positions flattens the set into an ascending list.
func (s PhysicalIndexSet) Positions() IndexList {

	out := make(IndexList, 0, s.Count())

	li := 0
	for _, r := range s.Ranges {
		for li < len(s.List) && s.List[li] < r.Start {
			out = append(out, s.List[li])
			li++
		}
		for p := r.Start; p < r.End; p++ {
			out = append(out, p)
		}
	}

	return append(out, s.List[li:]...)
}
