package lists

import (
	"fmt"
	"math"

	"github.com/dot5enko/pointindex/schema"
)

// rangeCursor walks the endpoints of a sorted range list: start, end, next start...
type rangeCursor struct {
	ranges  schema.IndexRangeList
	i       int
	atStart bool
}

func newRangeCursor(ranges schema.IndexRangeList) rangeCursor {
	return rangeCursor{ranges: ranges, atStart: true}
}

func (c *rangeCursor) done() bool {
	return c.i >= len(c.ranges)
}

// exhausted cursors read as +inf
func (c *rangeCursor) peek() schema.PhysicalIndex {
	if c.done() {
		return math.MaxInt
	}
	if c.atStart {
		return c.ranges[c.i].Start
	}
	return c.ranges[c.i].End
}

// pop consumes the current endpoint and returns the open count delta.
func (c *rangeCursor) pop() int {
	if c.atStart {
		c.atStart = false
		return 1
	}
	c.atStart = true
	c.i++
	return -1
}

// IntersectRanges sweeps both endpoint timelines. An output range opens when
// both inputs are open and closes as soon as one of them closes.
func IntersectRanges(first, second schema.IndexRangeList) schema.IndexRangeList {

	var result schema.IndexRangeList

	if len(first) == 0 || len(second) == 0 {
		return result
	}

	a := newRangeCursor(first)
	b := newRangeCursor(second)

	count := 0
	inRange := false
	var cur schema.PhysicalIndexRange

	for !a.done() && !b.done() {

		var popped schema.PhysicalIndex

		// equal coordinates come from different lists, order does not change the covered set
		if ca, cb := a.peek(), b.peek(); ca < cb {
			popped = ca
			count += a.pop()
		} else {
			popped = cb
			count += b.pop()
		}

		if count == 2 {
			if inRange {
				panic("range intersect opened twice, inputs are not sorted or overlap")
			}
			inRange = true
			cur.Start = popped
		} else if inRange {
			cur.End = popped
			inRange = false

			// touching ranges across inputs produce zero width overlaps
			if !cur.Empty() {
				result = append(result, cur)
			}
		}
	}

	return result
}

// UnionRanges sweeps both endpoint timelines and keeps everything covered by at
// least one input. Touching ranges coalesce because starts win ties.
func UnionRanges(first, second schema.IndexRangeList) schema.IndexRangeList {

	var result schema.IndexRangeList

	a := newRangeCursor(first)
	b := newRangeCursor(second)

	count := 0
	inRange := false
	var cur schema.PhysicalIndexRange

	for !a.done() || !b.done() {

		var popped schema.PhysicalIndex

		ca, cb := a.peek(), b.peek()

		if ca < cb || (ca == cb && a.atStart) {
			popped = ca
			count += a.pop()
		} else {
			popped = cb
			count += b.pop()
		}

		if count == 0 {
			if !inRange {
				panic("range union closed a range that was never opened")
			}
			cur.End = popped
			inRange = false

			if !cur.Empty() {
				result = append(result, cur)
			}
		} else if !inRange {
			cur.Start = popped
			inRange = true
		}
	}

	if count != 0 {
		panic(fmt.Sprintf("range union finished with %d open ranges", count))
	}

	return result
}

// UnionAllRanges folds UnionRanges over every input.
func UnionAllRanges(inputs ...schema.IndexRangeList) schema.IndexRangeList {

	var result schema.IndexRangeList
	for _, in := range inputs {
		result = UnionRanges(result, in)
	}

	return result
}

func IsSortedRanges(ranges schema.IndexRangeList) bool {
	for i, r := range ranges {
		if r.Start > r.End {
			return false
		}
		if i > 0 && ranges[i-1].End > r.Start {
			return false
		}
	}
	return true
}

// NormalizeRanges sorts by start and merges overlapping or touching ranges.
func NormalizeRanges(ranges schema.IndexRangeList) schema.IndexRangeList {

	if IsSortedRanges(ranges) {
		return ranges
	}

	sorted := make(schema.IndexRangeList, 0, len(ranges))
	for _, r := range ranges {
		if !r.Empty() {
			sorted = append(sorted, r)
		}
	}

	SortRanges(sorted)

	out := sorted[:0]
	for _, r := range sorted {
		if n := len(out); n > 0 && out[n-1].End >= r.Start {
			out[n-1].End = max(out[n-1].End, r.End)
			continue
		}
		out = append(out, r)
	}

	return out
}
