package dataset

import (
	"github.com/dot5enko/pointindex/bits"
	"github.com/dot5enko/pointindex/ops"
	"github.com/dot5enko/pointindex/schema"
)

// RowOrder keeps the arena layout, masks gather the strided column into a chunk buffer first.
type RowOrder struct {
	points *schema.Points
	bounds []schema.Bounds
}

func NewRowOrder(points *schema.Points) *RowOrder {

	ds := &RowOrder{
		points: points,
		bounds: make([]schema.Bounds, points.NumDims()),
	}

	for d := range ds.bounds {
		ds.bounds[d] = schema.EmptyBounds()
	}

	raw := points.Raw()
	dims := points.NumDims()
	for i, v := range raw {
		ds.bounds[i%dims].Add(v)
	}

	return ds
}

func (r *RowOrder) Get(p schema.PhysicalIndex) schema.Point {
	return r.points.Get(p)
}

func (r *RowOrder) GetCoord(p schema.PhysicalIndex, dim int) schema.Scalar {
	return r.points.Coord(p, dim)
}

func (r *RowOrder) Size() int {
	return r.points.Len()
}

func (r *RowOrder) NumDims() int {
	return r.points.NumDims()
}

func (r *RowOrder) SizeInBytes() int {
	return len(r.points.Raw()) * schema.ScalarSize
}

func (r *RowOrder) Bounds(dim int) schema.Bounds {
	checkDim(dim, r.points.NumDims())
	return r.bounds[dim]
}

func (r *RowOrder) gather(start, end schema.PhysicalIndex, dim int, buf *[bits.ChunkSize]schema.Scalar) []schema.Scalar {

	checkSpan(start, end, r.points.Len())
	checkDim(dim, r.points.NumDims())

	out := buf[:end-start]
	for i := range out {
		out[i] = r.points.Coord(start+schema.PhysicalIndex(i), dim)
	}

	return out
}

func (r *RowOrder) CoordInSet(start, end schema.PhysicalIndex, dim int, set map[schema.Scalar]struct{}) bits.ChunkMask {
	var buf [bits.ChunkSize]schema.Scalar
	return ops.MaskInSet(r.gather(start, end, dim, &buf), set)
}

func (r *RowOrder) CoordInRange(start, end schema.PhysicalIndex, dim int, low, high schema.Scalar) bits.ChunkMask {
	var buf [bits.ChunkSize]schema.Scalar
	return rangeMask(r.gather(start, end, dim, &buf), low, high)
}

func (r *RowOrder) CoordInRanges(start, end schema.PhysicalIndex, dim int, ranges []schema.ScalarRange) bits.ChunkMask {
	var buf [bits.ChunkSize]schema.Scalar
	return rangesMask(r.gather(start, end, dim, &buf), ranges)
}
