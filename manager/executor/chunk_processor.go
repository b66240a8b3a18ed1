package executor

import (
	"github.com/dot5enko/pointindex/bits"
	"github.com/dot5enko/pointindex/dataset"
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

// ChunkFilterProcessResult counts what a scan touched.
type ChunkFilterProcessResult struct {
	RangePoints int
	ListPoints  int

	Chunks int
}

func (r *ChunkFilterProcessResult) Add(other ChunkFilterProcessResult) {
	r.RangePoints += other.RangePoints
	r.ListPoints += other.ListPoints
	r.Chunks += other.Chunks
}

// ExecutePlanForChunk evaluates the plan over [start, end), at most one chunk wide.
func ExecutePlanForChunk(ds dataset.Dataset, plan *query.Plan, start, end schema.PhysicalIndex) bits.ChunkMask {

	mask := bits.FullChunk(int(end - start))

	for _, c := range plan.Categorical {
		if !mask.Any() {
			return mask
		}
		mask = mask.And(ds.CoordInSet(start, end, c.Dim, c.Set))
	}

	for _, r := range plan.Ranges {
		if !mask.Any() {
			return mask
		}
		if len(r.Ranges) == 1 {
			mask = mask.And(ds.CoordInRange(start, end, r.Dim, r.Ranges[0].First, r.Ranges[0].Second))
		} else {
			mask = mask.And(ds.CoordInRanges(start, end, r.Dim, r.Ranges))
		}
	}

	return mask
}

// MatchesAt evaluates the plan for a single position.
func MatchesAt(ds dataset.Dataset, plan *query.Plan, p schema.PhysicalIndex) bool {

	for _, c := range plan.Categorical {
		if _, ok := c.Set[ds.GetCoord(p, c.Dim)]; !ok {
			return false
		}
	}

	for _, r := range plan.Ranges {
		v := ds.GetCoord(p, r.Dim)

		matched := false
		for _, it := range r.Ranges {
			if it.Contains(v) {
				matched = true
				break
			}
		}

		if !matched {
			return false
		}
	}

	return true
}

// Scan walks the candidate set: ranges in chunks of bits.ChunkSize positions,
// list positions one by one. The visitor sees every chunk, matching or not.
func Scan(ds dataset.Dataset, plan *query.Plan, candidates schema.PhysicalIndexSet, visitor Visitor) ChunkFilterProcessResult {

	result := ChunkFilterProcessResult{}

	if plan.Empty {
		return result
	}

	for _, r := range candidates.Ranges {
		for p := r.Start; p < r.End; p += bits.ChunkSize {

			end := min(r.End, p+bits.ChunkSize)
			mask := ExecutePlanForChunk(ds, plan, p, end)

			visitor.VisitRange(ds, p, end, mask)

			result.RangePoints += int(end - p)
			result.Chunks++
		}
	}

	for _, p := range candidates.List {

		mask := bits.EmptyChunk(0)
		mask.Push(MatchesAt(ds, plan, p))

		visitor.VisitRange(ds, p, p+1, mask)
	}

	result.ListPoints = len(candidates.List)

	return result
}
