package index

import (
	"fmt"

	"github.com/google/btree"

	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

const btreeDegree = 32

type pageKey struct {
	first schema.Scalar
	page  int
}

func pageKeyLess(a, b pageKey) bool {
	if a.first != b.first {
		return a.first < b.first
	}
	return a.page < b.page
}

// PrimaryBTreeIndex sorts the data by one column and keeps a btree directory of
// fixed size pages keyed by their first value. Answers are page aligned.
type PrimaryBTreeIndex struct {
	lifecycle

	column   int
	pageSize int
	dataSize int
	pages    *btree.BTreeG[pageKey]
}

func NewPrimaryBTreeIndex(dim int, pageSize int) *PrimaryBTreeIndex {

	if pageSize <= 0 {
		panic(fmt.Sprintf("page size must be positive, got %d", pageSize))
	}

	return &PrimaryBTreeIndex{
		column:   dim,
		pageSize: pageSize,
	}
}

func (p *PrimaryBTreeIndex) Type() Type     { return Primary }
func (p *PrimaryBTreeIndex) Columns() []int { return []int{p.column} }

func (p *PrimaryBTreeIndex) Size() int {
	if p.pages == nil {
		return 0
	}
	// key plus page number
	return p.pages.Len() * (schema.ScalarSize + 8)
}

func (p *PrimaryBTreeIndex) Init(points *schema.Points) {

	p.begin("primary btree index")
	checkColumn(p.column, points.NumDims())

	sorted := sortByColumn(points, p.column)

	p.dataSize = len(sorted)
	p.pages = btree.NewG(btreeDegree, pageKeyLess)

	for start, page := 0, 0; start < len(sorted); start, page = start+p.pageSize, page+1 {
		p.pages.ReplaceOrInsert(pageKey{first: sorted[start], page: page})
	}

	p.done()
}

func (p *PrimaryBTreeIndex) pageRange(first, last int) (schema.PhysicalIndex, schema.PhysicalIndex) {
	start := first * p.pageSize
	end := min((last+1)*p.pageSize, p.dataSize)
	return schema.PhysicalIndex(start), schema.PhysicalIndex(end)
}

func (p *PrimaryBTreeIndex) Ranges(q query.Query) (schema.PhysicalIndexSet, query.Patch) {

	p.check("primary btree index")

	f := q.Filter(p.column)
	if !f.Present {
		return schema.FullSet(p.dataSize), nil
	}

	var ranges schema.IndexRangeList

	for _, r := range boundsOf(f) {

		// a page starting below r.First may still hold it
		firstPage := 0
		p.pages.DescendLessOrEqual(pageKey{first: r.First - 1, page: int(^uint(0) >> 1)}, func(k pageKey) bool {
			firstPage = k.page
			return false
		})
		if r.First == schema.ScalarMin {
			firstPage = 0
		}

		lastPage := -1
		p.pages.DescendLessOrEqual(pageKey{first: r.Second, page: int(^uint(0) >> 1)}, func(k pageKey) bool {
			lastPage = k.page
			return false
		})

		if lastPage < firstPage {
			continue
		}

		start, end := p.pageRange(firstPage, lastPage)
		ranges = appendRange(ranges, start, end)
	}

	return schema.PhysicalIndexSet{Ranges: ranges}, nil
}
