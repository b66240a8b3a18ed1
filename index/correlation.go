package index

import (
	"fmt"
	"slices"
	"sort"

	"github.com/dot5enko/pointindex/io"
	"github.com/dot5enko/pointindex/lists"
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

type mappedBucket struct {
	bounds  schema.ScalarRange
	targets schema.IndexRangeList
}

// MappedCorrelationIndex translates value buckets of a mapped column into the
// physical ranges their points occupy in the primary sort order.
type MappedCorrelationIndex struct {
	lifecycle

	column   int
	dataSize int
	// ordered by bounds
	buckets []mappedBucket
}

// NewMappedCorrelationIndex resolves the mapping against target buckets. A mapped
// bucket without a mapping entry holds no points and is left out.
func NewMappedCorrelationIndex(mapping *io.CorrelationMapping, targets io.TargetBuckets) (*MappedCorrelationIndex, error) {

	idx := &MappedCorrelationIndex{
		column:  mapping.Column,
		buckets: make([]mappedBucket, 0, len(mapping.Targets)),
	}

	for _, mb := range mapping.Buckets {

		ids, found := mapping.Targets[mb.Id]
		if !found {
			continue
		}

		var ranges schema.IndexRangeList

		for _, id := range ids {

			r, ok := targets[id]
			if !ok {
				return nil, fmt.Errorf("%w: mapped bucket %d points to missing target bucket %d", ErrInvalidMapping, mb.Id, id)
			}

			if r.Empty() {
				return nil, fmt.Errorf("%w: target bucket %d has empty range %s", ErrInvalidMapping, id, r)
			}

			if n := len(ranges); n > 0 && r.Start == ranges[n-1].End {
				ranges[n-1].End = r.End
			} else {
				ranges = append(ranges, r)
			}
		}

		idx.buckets = append(idx.buckets, mappedBucket{
			bounds:  mb.Range,
			targets: lists.NormalizeRanges(ranges),
		})
	}

	slices.SortFunc(idx.buckets, func(a, b mappedBucket) int {
		switch {
		case schema.ScalarRangeLess(a.bounds, b.bounds):
			return -1
		case schema.ScalarRangeLess(b.bounds, a.bounds):
			return 1
		}
		return 0
	})

	return idx, nil
}

func (m *MappedCorrelationIndex) Type() Type        { return Correlation }
func (m *MappedCorrelationIndex) MappedColumn() int { return m.column }
func (m *MappedCorrelationIndex) Columns() []int    { return []int{m.column} }

func (m *MappedCorrelationIndex) Size() int {
	total := 0
	for _, b := range m.buckets {
		total += 2*schema.ScalarSize + len(b.targets)*16
	}
	return total
}

func (m *MappedCorrelationIndex) Init(points schema.PointReader) {

	m.begin("mapped correlation index")
	checkColumn(m.column, points.NumDims())

	m.dataSize = points.Len()

	for _, b := range m.buckets {
		if n := len(b.targets); n > 0 && int(b.targets[n-1].End) > m.dataSize {
			panic(fmt.Sprintf("mapped bucket %s targets %s beyond %d points", b.bounds, b.targets[n-1], m.dataSize))
		}
	}

	m.done()
}

// upperBound is the first bucket ordered after the point bucket [v, v].
func (m *MappedCorrelationIndex) upperBound(v schema.Scalar) int {
	key := schema.ScalarRange{First: v, Second: v}
	return sort.Search(len(m.buckets), func(i int) bool {
		return schema.ScalarRangeLess(key, m.buckets[i].bounds)
	})
}

func (m *MappedCorrelationIndex) Ranges(q query.Query) schema.PhysicalIndexSet {

	m.check("mapped correlation index")

	f := q.Filter(m.column)
	if !f.Present {
		return schema.FullSet(m.dataSize)
	}

	var result schema.IndexRangeList

	for _, sr := range boundsOf(f) {

		start := m.upperBound(sr.First)
		end := sort.Search(len(m.buckets), func(i int) bool {
			return m.buckets[i].bounds.First > sr.Second
		})

		// the bucket before the upper bound may still contain sr.First
		if start > 0 {
			start--
		}
		// buckets are not contiguous, skip one ending before the query
		if start < len(m.buckets) && m.buckets[start].bounds.Second < sr.First {
			start++
		}

		for i := start; i < end; i++ {
			result = lists.UnionRanges(result, m.buckets[i].targets)
		}
	}

	return schema.PhysicalIndexSet{Ranges: result}
}

// CombinedCorrelationIndex adds the exact outlier positions of a secondary index
// to the ranges of a mapped correlation index on the same column.
type CombinedCorrelationIndex struct {
	lifecycle

	mapped   *MappedCorrelationIndex
	outliers SecondaryIndexer
	dataSize int
}

func NewCombinedCorrelationIndex(mapped *MappedCorrelationIndex, outliers SecondaryIndexer) (*CombinedCorrelationIndex, error) {

	if mapped == nil || outliers == nil {
		return nil, fmt.Errorf("%w: combined correlation index needs a mapped and an outlier index", ErrInvalidMapping)
	}

	if outliers.Column() != mapped.MappedColumn() {
		return nil, fmt.Errorf("%w: outlier index on column %d, mapping on column %d",
			ErrInvalidMapping, outliers.Column(), mapped.MappedColumn())
	}

	return &CombinedCorrelationIndex{
		mapped:   mapped,
		outliers: outliers,
	}, nil
}

func (c *CombinedCorrelationIndex) Type() Type        { return Correlation }
func (c *CombinedCorrelationIndex) MappedColumn() int { return c.mapped.MappedColumn() }
func (c *CombinedCorrelationIndex) Columns() []int    { return c.mapped.Columns() }

func (c *CombinedCorrelationIndex) Size() int {
	return c.mapped.Size() + c.outliers.Size()
}

func (c *CombinedCorrelationIndex) Init(points schema.PointReader) {
	c.begin("combined correlation index")
	c.mapped.Init(points)
	c.outliers.Init(points)
	c.dataSize = points.Len()
	c.done()
}

func (c *CombinedCorrelationIndex) Ranges(q query.Query) schema.PhysicalIndexSet {

	c.check("combined correlation index")

	if !q.Filter(c.MappedColumn()).Present {
		return schema.FullSet(c.dataSize)
	}

	matches := c.outliers.Matches(q)
	lists.SortList(matches)

	return lists.UnionRangesList(c.mapped.Ranges(q).Ranges, lists.Dedup(matches))
}
