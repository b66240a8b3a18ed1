package lists

import "github.com/dot5enko/pointindex/schema"

// ClipToRanges drops every position of idxs that falls outside ranges.
func ClipToRanges(ranges schema.IndexRangeList, idxs schema.IndexList) schema.IndexList {

	var out schema.IndexList

	if len(ranges) == 0 || len(idxs) == 0 {
		return out
	}

	cur := 0
	for _, ix := range idxs {
		for cur < len(ranges) && ix >= ranges[cur].End {
			cur++
		}

		if cur >= len(ranges) {
			break
		}

		if ix < ranges[cur].Start {
			continue
		}

		out = append(out, ix)
	}

	return out
}

// Merge coalesces the positions of idxs that fall inside ranges into ranges.
// A position extends the running range when it is closer than gap to its end,
// so gap 1 only joins adjacent positions.
func Merge(ranges schema.IndexRangeList, idxs schema.IndexList, gap int) schema.IndexRangeList {

	var output schema.IndexRangeList

	if len(ranges) == 0 || len(idxs) == 0 {
		return output
	}

	g := schema.PhysicalIndex(gap)

	cur := 0
	var running schema.PhysicalIndexRange

	for _, ix := range idxs {
		for cur < len(ranges) && ix >= ranges[cur].End {
			cur++
		}

		if cur >= len(ranges) {
			break
		}

		if ix < ranges[cur].Start {
			continue
		}

		if running.Empty() {
			running = schema.PhysicalIndexRange{Start: ix, End: ix + 1}
		} else if running.End+g > ix {
			running.End = ix + 1
		} else {
			output = append(output, running)
			running = schema.PhysicalIndexRange{Start: ix, End: ix + 1}
		}
	}

	if !running.Empty() {
		output = append(output, running)
	}

	return output
}
