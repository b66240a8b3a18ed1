package index

import (
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

// filterBounds is a present filter seen as closed intervals, values become
// single point intervals. Ordered by First.
type filterBounds []schema.ScalarRange

func boundsOf(f query.QueryFilter) filterBounds {

	if f.IsRange {
		out := make(filterBounds, 0, len(f.Ranges))
		for _, r := range f.Ranges {
			if !r.Empty() {
				out = append(out, r)
			}
		}
		return out
	}

	out := make(filterBounds, len(f.Values))
	for i, v := range f.Values {
		out[i] = schema.ScalarRange{First: v, Second: v}
	}

	return out
}
