package index

import (
	"fmt"
	"slices"

	"github.com/google/btree"

	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

type valuePos struct {
	value schema.Scalar
	pos   schema.PhysicalIndex
}

func valuePosLess(a, b valuePos) bool {
	if a.value != b.value {
		return a.value < b.value
	}
	return a.pos < b.pos
}

// SecondaryBTreeIndex is a btree multimap from column value to position. With a
// subset only those positions are indexed, which is how outlier lists are served.
type SecondaryBTreeIndex struct {
	lifecycle

	column   int
	subset   schema.IndexList
	dataSize int
	tree     *btree.BTreeG[valuePos]
}

func NewSecondaryBTreeIndex(dim int, subset schema.IndexList) *SecondaryBTreeIndex {
	return &SecondaryBTreeIndex{
		column: dim,
		subset: slices.Clone(subset),
	}
}

func (s *SecondaryBTreeIndex) Type() Type     { return Secondary }
func (s *SecondaryBTreeIndex) Column() int    { return s.column }
func (s *SecondaryBTreeIndex) Columns() []int { return []int{s.column} }

func (s *SecondaryBTreeIndex) Size() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Len() * (schema.ScalarSize + 8)
}

func (s *SecondaryBTreeIndex) Init(points schema.PointReader) {

	s.begin("secondary btree index")
	checkColumn(s.column, points.NumDims())

	s.dataSize = points.Len()
	s.tree = btree.NewG(btreeDegree, valuePosLess)

	if s.subset == nil {
		for i := range s.dataSize {
			p := schema.PhysicalIndex(i)
			s.tree.ReplaceOrInsert(valuePos{value: points.Coord(p, s.column), pos: p})
		}
	} else {
		for _, p := range s.subset {
			if p < 0 || int(p) >= s.dataSize {
				panic(fmt.Sprintf("subset position %d outside of %d points", p, s.dataSize))
			}
			s.tree.ReplaceOrInsert(valuePos{value: points.Coord(p, s.column), pos: p})
		}
		s.subset = nil
	}

	s.done()
}

// Matches is unsorted when the filter has several intervals.
func (s *SecondaryBTreeIndex) Matches(q query.Query) schema.IndexList {

	s.check("secondary btree index")

	f := q.Filter(s.column)
	if !f.Present {
		return allPositions(s.dataSize)
	}

	var out schema.IndexList

	for _, r := range boundsOf(f) {
		s.tree.AscendGreaterOrEqual(valuePos{value: r.First, pos: -1}, func(item valuePos) bool {
			if item.value > r.Second {
				return false
			}
			out = append(out, item.pos)
			return true
		})
	}

	return out
}
