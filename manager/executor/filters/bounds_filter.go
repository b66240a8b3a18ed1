package filters

import (
	"slices"

	"github.com/dot5enko/pointindex/schema"
)

// MatchRangesOnBounds tells how an OR of closed ranges relates to column bounds.
func MatchRangesOnBounds(ranges []schema.ScalarRange, bounds schema.Bounds) schema.BoundsFilterMatchResult {

	if !bounds.Valid() {
		return schema.NoIntersection
	}

	merged := mergeClosed(ranges)

	result := schema.NoIntersection

	for _, r := range merged {
		switch bounds.Intersects(r) {
		case schema.FullIntersection:
			return schema.FullIntersection
		case schema.PartialIntersection:
			result = schema.PartialIntersection
		}
	}

	return result
}

// MatchValuesOnBounds expects sorted unique values. The match is full only when
// every integer between min and max is listed.
func MatchValuesOnBounds(values []schema.Scalar, bounds schema.Bounds) schema.BoundsFilterMatchResult {

	if !bounds.Valid() {
		return schema.NoIntersection
	}

	lo, _ := slices.BinarySearch(values, bounds.Min)
	hi, found := slices.BinarySearch(values, bounds.Max)
	if found {
		hi++
	}

	inside := hi - lo
	if inside == 0 {
		return schema.NoIntersection
	}

	if int64(inside) == int64(bounds.Max)-int64(bounds.Min)+1 {
		return schema.FullIntersection
	}

	return schema.PartialIntersection
}

// mergeClosed sorts and joins overlapping or adjacent closed ranges.
func mergeClosed(ranges []schema.ScalarRange) []schema.ScalarRange {

	if len(ranges) < 2 {
		return ranges
	}

	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b schema.ScalarRange) int {
		if schema.ScalarRangeLess(a, b) {
			return -1
		}
		if schema.ScalarRangeLess(b, a) {
			return 1
		}
		return 0
	})

	out := sorted[:1]
	for _, r := range sorted[1:] {
		if r.Empty() {
			continue
		}

		last := &out[len(out)-1]
		if int64(r.First) <= int64(last.Second)+1 {
			last.Second = max(last.Second, r.Second)
			continue
		}
		out = append(out, r)
	}

	return out
}
