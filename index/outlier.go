package index

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

// OutlierIndex tracks points that break the correlation a primary order relies
// on. Rewrite lists the outliers whose value satisfies the mapped filter.
type OutlierIndex struct {
	lifecycle

	column   int
	outliers *roaring.Bitmap

	// ascending positions and their column values
	positions schema.IndexList
	values    []schema.Scalar
}

func NewOutlierIndex(dim int, outliers schema.IndexList) *OutlierIndex {

	bm := roaring.New()
	for _, p := range outliers {
		bm.Add(uint32(p))
	}

	return &OutlierIndex{
		column:   dim,
		outliers: bm,
	}
}

func (o *OutlierIndex) Type() Type        { return Rewriting }
func (o *OutlierIndex) MappedColumn() int { return o.column }
func (o *OutlierIndex) Columns() []int    { return []int{o.column} }

func (o *OutlierIndex) Size() int {
	return int(o.outliers.GetSizeInBytes()) + len(o.values)*schema.ScalarSize
}

// IsOutlier reports whether p was given as an outlier position.
func (o *OutlierIndex) IsOutlier(p schema.PhysicalIndex) bool {
	return o.outliers.Contains(uint32(p))
}

func (o *OutlierIndex) Init(points schema.PointReader) {

	o.begin("outlier index")
	checkColumn(o.column, points.NumDims())

	n := points.Len()
	// positions past the dataset are dropped
	if n < int(^uint32(0)) {
		o.outliers.RemoveRange(uint64(n), uint64(^uint32(0))+1)
	}

	o.positions = make(schema.IndexList, 0, o.outliers.GetCardinality())
	o.values = make([]schema.Scalar, 0, o.outliers.GetCardinality())

	it := o.outliers.Iterator()
	for it.HasNext() {
		p := schema.PhysicalIndex(it.Next())
		o.positions = append(o.positions, p)
		o.values = append(o.values, points.Coord(p, o.column))
	}

	o.done()
}

func (o *OutlierIndex) Rewrite(q query.Query) schema.IndexList {

	o.check("outlier index")

	f := q.Filter(o.column)

	out := make(schema.IndexList, 0)
	for i, v := range o.values {
		if f.Matches(v) {
			out = append(out, o.positions[i])
		}
	}

	return out
}
