package index

import (
	"fmt"

	"github.com/dot5enko/pointindex/lists"
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

// CompositeIndex combines an optional primary child with one family of children.
// Different strategies are composed by nesting composites as primaries.
type CompositeIndex struct {
	lifecycle

	gap     int
	primary PrimaryIndexer
	family  Family

	dataSize int
	columns  []int
}

// NewCompositeIndex takes a gap threshold, positions closer than gap are scanned
// as one range. gap 0 keeps secondary matches as a list.
func NewCompositeIndex(gap int, primary PrimaryIndexer, family Family) *CompositeIndex {

	if gap < 0 {
		panic(fmt.Sprintf("negative gap threshold %d", gap))
	}

	return &CompositeIndex{
		gap:     gap,
		primary: primary,
		family:  family,
	}
}

func (c *CompositeIndex) Type() Type {
	return Primary
}

func (c *CompositeIndex) Columns() []int {
	return c.columns
}

func (c *CompositeIndex) Gap() int {
	return c.gap
}

func (c *CompositeIndex) Primary() PrimaryIndexer {
	return c.primary
}

func (c *CompositeIndex) Family() Family {
	return c.family
}

func (c *CompositeIndex) Size() int {
	total := 0
	if c.primary != nil {
		total += c.primary.Size()
	}
	if c.family != nil {
		total += familySize(c.family)
	}
	return total
}

func (c *CompositeIndex) SetPrimary(p PrimaryIndexer) {

	if c.ready {
		panic("composite index already initialized")
	}
	if p == nil {
		panic("nil primary index")
	}
	if c.primary != nil {
		panic("composite index already has a primary index")
	}

	c.primary = p
}

func (c *CompositeIndex) checkFamily(kind Type) {

	if c.ready {
		panic("composite index already initialized")
	}

	if c.family != nil && c.family.Kind() != kind {
		panic(fmt.Sprintf("cannot add %s child to a composite with %s children", kind, c.family.Kind()))
	}
}

func (c *CompositeIndex) AddSecondary(s SecondaryIndexer) {
	c.checkFamily(Secondary)
	f, _ := c.family.(Secondaries)
	c.family = append(f, s)
}

func (c *CompositeIndex) AddCorrelation(ci CorrelationIndexer) {
	c.checkFamily(Correlation)
	f, _ := c.family.(Correlations)
	c.family = append(f, ci)
}

func (c *CompositeIndex) AddRewriter(r RewritingIndexer) {
	c.checkFamily(Rewriting)
	f, _ := c.family.(Rewriters)
	c.family = append(f, r)
}

// Init lets the primary establish the physical order, then initializes the
// children concurrently against the final layout.
func (c *CompositeIndex) Init(points *schema.Points) {

	c.begin("composite index")

	if c.primary != nil {
		c.primary.Init(points)
		c.columns = unionColumns(c.columns, c.primary.Columns())
	}

	if c.family != nil && c.family.Len() > 0 {
		c.family.initAll(points)
		c.columns = unionColumns(c.columns, familyColumns(c.family))
	}

	c.dataSize = points.Len()
	c.done()
}

// Merge coalesces idxs into ranges using the composite gap threshold.
func (c *CompositeIndex) Merge(ranges schema.IndexRangeList, idxs schema.IndexList) schema.IndexRangeList {
	return lists.Merge(ranges, idxs, c.gap)
}

func (c *CompositeIndex) Ranges(q query.Query) (schema.PhysicalIndexSet, query.Patch) {

	c.check("composite index")

	result := schema.FullSet(c.dataSize)

	var patch query.Patch
	if c.primary != nil {
		result, patch = c.primary.Ranges(q)
		q = patch.Apply(q)
	}

	switch fam := c.family.(type) {
	case Rewriters:
		return c.rewriterRanges(fam, q, result), patch
	case Correlations:
		return c.correlationRanges(fam, q, result), patch
	case Secondaries:
		return c.secondaryRanges(fam, q, result), patch
	default:
		return result, patch
	}
}

func (c *CompositeIndex) rewriterRanges(fam Rewriters, q query.Query, primary schema.PhysicalIndexSet) schema.PhysicalIndexSet {

	// nothing to add to a full scan
	if primary.IsFull(c.dataSize) {
		return primary
	}

	collected := make([]schema.IndexList, 0, len(fam)+1)

	for _, r := range fam {

		if !q.Filter(r.MappedColumn()).Present {
			continue
		}

		list := r.Rewrite(q)
		if !lists.IsSortedList(list) {
			lists.SortList(list)
		}

		collected = append(collected, list)
	}

	if len(collected) == 0 {
		return primary
	}

	collected = append(collected, primary.List)
	merged := lists.Dedup(lists.UnionLists(collected...))

	return lists.UnionRangesList(primary.Ranges, merged)
}

func (c *CompositeIndex) correlationRanges(fam Correlations, q query.Query, primary schema.PhysicalIndexSet) schema.PhysicalIndexSet {

	result := primary
	placeholder := primary.IsFull(c.dataSize)

	for _, ci := range fam {

		if !q.Filter(ci.MappedColumn()).Present {
			continue
		}

		next := ci.Ranges(q)

		if placeholder {
			result = next
			placeholder = false
			continue
		}

		result = lists.IntersectSets(result, next)
	}

	return result
}

func (c *CompositeIndex) secondaryRanges(fam Secondaries, q query.Query, primary schema.PhysicalIndexSet) schema.PhysicalIndexSet {

	var matches schema.IndexList
	found, sorted := false, false

	for _, si := range fam {

		if !q.Filter(si.Column()).Present {
			continue
		}

		next := si.Matches(q)

		if !found {
			// a single list is sorted once at the end
			matches = next
			found = true
			continue
		}

		if !sorted {
			lists.SortList(matches)
			matches = lists.Dedup(matches)
			sorted = true
		}

		lists.SortList(next)
		matches = lists.IntersectLists(matches, lists.Dedup(next))
	}

	if !found {
		return primary
	}

	if !sorted {
		lists.SortList(matches)
		matches = lists.Dedup(matches)
	}

	if primary.IsFull(c.dataSize) {
		return schema.PhysicalIndexSet{List: matches}
	}

	result := lists.IntersectSets(primary, schema.PhysicalIndexSet{List: matches})

	if c.gap == 0 || len(result.List) == 0 {
		return result
	}

	coalesced := c.Merge(schema.IndexRangeList{{Start: 0, End: schema.PhysicalIndex(c.dataSize)}}, result.List)

	return schema.PhysicalIndexSet{Ranges: lists.UnionRanges(result.Ranges, coalesced)}
}
