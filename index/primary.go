package index

import (
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

// DummyIndex keeps the input order and always answers with a full scan.
type DummyIndex struct {
	lifecycle
	dataSize int
}

func NewDummyIndex() *DummyIndex {
	return &DummyIndex{}
}

func (d *DummyIndex) Type() Type     { return Primary }
func (d *DummyIndex) Columns() []int { return nil }
func (d *DummyIndex) Size() int      { return 0 }

func (d *DummyIndex) Init(points *schema.Points) {
	d.begin("dummy index")
	d.dataSize = points.Len()
	d.done()
}

func (d *DummyIndex) Ranges(q query.Query) (schema.PhysicalIndexSet, query.Patch) {
	d.check("dummy index")
	return schema.FullSet(d.dataSize), nil
}

// JustSortIndex sorts the data by one column but never prunes. Useful as the
// primary of a composite whose children rely on that order.
type JustSortIndex struct {
	lifecycle
	column   int
	dataSize int
}

func NewJustSortIndex(dim int) *JustSortIndex {
	return &JustSortIndex{column: dim}
}

func (j *JustSortIndex) Type() Type     { return Primary }
func (j *JustSortIndex) Columns() []int { return []int{j.column} }
func (j *JustSortIndex) Size() int      { return 0 }

func (j *JustSortIndex) Init(points *schema.Points) {
	j.begin("just sort index")
	checkColumn(j.column, points.NumDims())
	sortByColumn(points, j.column)
	j.dataSize = points.Len()
	j.done()
}

func (j *JustSortIndex) Ranges(q query.Query) (schema.PhysicalIndexSet, query.Patch) {
	j.check("just sort index")
	return schema.FullSet(j.dataSize), nil
}

// BinarySearchIndex is a clustered index without auxiliary structure: data is
// sorted by the column and each filter interval is located with two binary searches.
type BinarySearchIndex struct {
	lifecycle
	column int
	sorted []schema.Scalar
}

func NewBinarySearchIndex(dim int) *BinarySearchIndex {
	return &BinarySearchIndex{column: dim}
}

func (b *BinarySearchIndex) Type() Type     { return Primary }
func (b *BinarySearchIndex) Columns() []int { return []int{b.column} }

func (b *BinarySearchIndex) Size() int {
	return len(b.sorted) * schema.ScalarSize
}

func (b *BinarySearchIndex) Init(points *schema.Points) {
	b.begin("binary search index")
	checkColumn(b.column, points.NumDims())
	b.sorted = sortByColumn(points, b.column)
	b.done()
}

func (b *BinarySearchIndex) Ranges(q query.Query) (schema.PhysicalIndexSet, query.Patch) {

	b.check("binary search index")

	f := q.Filter(b.column)
	if !f.Present {
		return schema.FullSet(len(b.sorted)), nil
	}

	return schema.PhysicalIndexSet{Ranges: sortedFilterRanges(b.sorted, boundsOf(f))}, nil
}

func checkColumn(dim, dims int) {
	if dim < 0 || dim >= dims {
		panic(schemaDimError(dim, dims))
	}
}
