package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dot5enko/pointindex/schema"
)

// QueryFilter constrains a single dimension. An absent filter matches everything,
// a range filter is an OR of closed intervals, a value filter is an IN list.
type QueryFilter struct {
	Present bool
	IsRange bool

	Ranges []schema.ScalarRange
	Values []schema.Scalar
}

func Absent() QueryFilter {
	return QueryFilter{}
}

// ValuesFilter sorts and de-duplicates vals.
func ValuesFilter(vals ...schema.Scalar) QueryFilter {

	values := slices.Clone(vals)
	slices.Sort(values)
	values = slices.Compact(values)

	return QueryFilter{
		Present: true,
		Values:  values,
	}
}

// RangesFilter sorts ranges by their lower bound.
func RangesFilter(ranges ...schema.ScalarRange) QueryFilter {

	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b schema.ScalarRange) int {
		switch {
		case schema.ScalarRangeLess(a, b):
			return -1
		case schema.ScalarRangeLess(b, a):
			return 1
		}
		return 0
	})

	return QueryFilter{
		Present: true,
		IsRange: true,
		Ranges:  sorted,
	}
}

func RangeFilter(first, second schema.Scalar) QueryFilter {
	return RangesFilter(schema.ScalarRange{First: first, Second: second})
}

// Matches evaluates the filter for a single coordinate.
func (f QueryFilter) Matches(v schema.Scalar) bool {

	if !f.Present {
		return true
	}

	if f.IsRange {
		for _, r := range f.Ranges {
			if r.Contains(v) {
				return true
			}
		}
		return false
	}

	_, found := slices.BinarySearch(f.Values, v)
	return found
}

// Hull is the smallest range containing every accepted value, ok is false when nothing matches.
func (f QueryFilter) Hull() (hull schema.ScalarRange, ok bool) {

	if !f.Present {
		return schema.Unbounded(), true
	}

	if f.IsRange {
		if len(f.Ranges) == 0 {
			return hull, false
		}
		hull = f.Ranges[0]
		for _, r := range f.Ranges[1:] {
			hull.First = min(hull.First, r.First)
			hull.Second = max(hull.Second, r.Second)
		}
		return hull, !hull.Empty()
	}

	if len(f.Values) == 0 {
		return hull, false
	}

	return schema.ScalarRange{First: slices.Min(f.Values), Second: slices.Max(f.Values)}, true
}

func (f QueryFilter) Clone() QueryFilter {
	return QueryFilter{
		Present: f.Present,
		IsRange: f.IsRange,
		Ranges:  slices.Clone(f.Ranges),
		Values:  slices.Clone(f.Values),
	}
}

func (f QueryFilter) String() string {

	if !f.Present {
		return "none"
	}

	var sb strings.Builder

	if f.IsRange {
		sb.WriteString("ranges")
		for _, r := range f.Ranges {
			fmt.Fprintf(&sb, " %d %d", r.First, r.Second)
		}
	} else {
		sb.WriteString("values")
		for _, v := range f.Values {
			fmt.Fprintf(&sb, " %d", v)
		}
	}

	return sb.String()
}

// Query holds one filter per dataset dimension.
type Query struct {
	Filters []QueryFilter
}

func New(dims int) Query {
	return Query{Filters: make([]QueryFilter, dims)}
}

func (q Query) NumDims() int {
	return len(q.Filters)
}

func (q Query) Filter(dim int) QueryFilter {
	if dim < 0 || dim >= len(q.Filters) {
		panic(fmt.Sprintf("query has %d dims, filter %d requested", len(q.Filters), dim))
	}
	return q.Filters[dim]
}

func (q Query) Clone() Query {
	out := Query{Filters: make([]QueryFilter, len(q.Filters))}
	for i, f := range q.Filters {
		out.Filters[i] = f.Clone()
	}
	return out
}

// With returns a copy of q where dim is replaced by filter.
func (q Query) With(dim int, filter QueryFilter) Query {
	out := q.Clone()
	out.Filters[dim] = filter
	return out
}

// Matches evaluates every filter against a point.
func (q Query) Matches(p schema.Point) bool {
	for d, f := range q.Filters {
		if !f.Matches(p[d]) {
			return false
		}
	}
	return true
}

func (q Query) String() string {
	parts := make([]string, len(q.Filters))
	for i, f := range q.Filters {
		parts[i] = f.String()
	}
	return strings.Join(parts, " | ")
}
