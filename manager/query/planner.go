package query

import (
	"github.com/dot5enko/pointindex/manager/executor/filters"
	"github.com/dot5enko/pointindex/schema"
)

type (
	// CategoricalDim is a value filter turned into a membership set.
	CategoricalDim struct {
		Dim int
		Set map[schema.Scalar]struct{}
	}

	RangeDim struct {
		Dim    int
		Ranges []schema.ScalarRange
	}

	// Plan is the per-chunk predicate program of a single query.
	Plan struct {
		Categorical []CategoricalDim
		Ranges      []RangeDim

		// dimensions whose filter covers the whole column
		Skipped []int

		// some filter cannot match any value of its column
		Empty     bool
		EmptyDims []int
	}

	// BoundsFunc returns inclusive column bounds, an invalid Bounds disables pruning.
	BoundsFunc func(dim int) schema.Bounds

	QueryPlanner struct {
	}
)

func NewQueryPlanner() *QueryPlanner {
	return &QueryPlanner{}
}

// Predicates is the number of per-chunk evaluations the plan needs.
func (p Plan) Predicates() int {
	return len(p.Categorical) + len(p.Ranges)
}

// Matches evaluates the planned predicates for one point.
func (p Plan) Matches(point schema.Point) bool {

	for _, c := range p.Categorical {
		if _, ok := c.Set[point[c.Dim]]; !ok {
			return false
		}
	}

	for _, r := range p.Ranges {
		matched := false
		for _, it := range r.Ranges {
			if it.Contains(point[r.Dim]) {
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

func (qp *QueryPlanner) Plan(q Query, bounds BoundsFunc) Plan {

	plan := Plan{}

	for dim, f := range q.Filters {

		if !f.Present {
			continue
		}

		match := schema.PartialIntersection
		if bounds != nil {
			if b := bounds(dim); b.Valid() {
				if f.IsRange {
					match = filters.MatchRangesOnBounds(f.Ranges, b)
				} else {
					match = filters.MatchValuesOnBounds(f.Values, b)
				}
			}
		}

		// an empty filter matches nothing regardless of bounds
		if f.IsRange && len(f.Ranges) == 0 || !f.IsRange && len(f.Values) == 0 {
			match = schema.NoIntersection
		}

		switch match {
		case schema.NoIntersection:
			plan.Empty = true
			plan.EmptyDims = append(plan.EmptyDims, dim)
			continue
		case schema.FullIntersection:
			plan.Skipped = append(plan.Skipped, dim)
			continue
		}

		if f.IsRange {
			plan.Ranges = append(plan.Ranges, RangeDim{Dim: dim, Ranges: f.Ranges})
			continue
		}

		set := make(map[schema.Scalar]struct{}, len(f.Values))
		for _, v := range f.Values {
			set[v] = struct{}{}
		}
		plan.Categorical = append(plan.Categorical, CategoricalDim{Dim: dim, Set: set})
	}

	return plan
}
