package dataset

import (
	"github.com/dot5enko/pointindex/bits"
	"github.com/dot5enko/pointindex/ops"
	"github.com/dot5enko/pointindex/schema"
)

// ColumnOrder stores every dimension as its own contiguous column.
type ColumnOrder struct {
	columns [][]schema.Scalar
	bounds  []schema.Bounds
	size    int
}

func NewColumnOrder(points *schema.Points) *ColumnOrder {

	dims := points.NumDims()

	ds := &ColumnOrder{
		columns: make([][]schema.Scalar, dims),
		bounds:  make([]schema.Bounds, dims),
		size:    points.Len(),
	}

	for d := 0; d < dims; d++ {
		ds.columns[d] = points.Column(d)
		ds.bounds[d] = columnBounds(ds.columns[d])
	}

	return ds
}

func columnBounds(col []schema.Scalar) schema.Bounds {
	if len(col) == 0 {
		return schema.EmptyBounds()
	}
	b := ops.GetMaxMin(col)
	return schema.NewBoundsFromValues(b.Min, b.Max)
}

func (c *ColumnOrder) Get(p schema.PhysicalIndex) schema.Point {
	pt := make(schema.Point, len(c.columns))
	for d, col := range c.columns {
		pt[d] = col[p]
	}
	return pt
}

func (c *ColumnOrder) GetCoord(p schema.PhysicalIndex, dim int) schema.Scalar {
	return c.columns[dim][p]
}

func (c *ColumnOrder) Size() int {
	return c.size
}

func (c *ColumnOrder) NumDims() int {
	return len(c.columns)
}

func (c *ColumnOrder) SizeInBytes() int {
	return c.size * len(c.columns) * schema.ScalarSize
}

func (c *ColumnOrder) Bounds(dim int) schema.Bounds {
	checkDim(dim, len(c.columns))
	return c.bounds[dim]
}

func (c *ColumnOrder) span(start, end schema.PhysicalIndex, dim int) []schema.Scalar {
	checkSpan(start, end, c.size)
	checkDim(dim, len(c.columns))
	return c.columns[dim][start:end]
}

func (c *ColumnOrder) CoordInSet(start, end schema.PhysicalIndex, dim int, set map[schema.Scalar]struct{}) bits.ChunkMask {
	return ops.MaskInSet(c.span(start, end, dim), set)
}

func (c *ColumnOrder) CoordInRange(start, end schema.PhysicalIndex, dim int, low, high schema.Scalar) bits.ChunkMask {
	return rangeMask(c.span(start, end, dim), low, high)
}

func (c *ColumnOrder) CoordInRanges(start, end schema.PhysicalIndex, dim int, ranges []schema.ScalarRange) bits.ChunkMask {
	return rangesMask(c.span(start, end, dim), ranges)
}

// rangeMask compares bounds literally, the one sided kernels only cover the int32 limits.
func rangeMask(vals []schema.Scalar, low, high schema.Scalar) bits.ChunkMask {
	switch {
	case low > high:
		return bits.EmptyChunk(len(vals))
	case low == schema.ScalarMin && high == schema.ScalarMax:
		return bits.FullChunk(len(vals))
	case low == schema.ScalarMin:
		return ops.MaskAtMost(vals, high)
	case high == schema.ScalarMax:
		return ops.MaskAtLeast(vals, low)
	case low == high:
		return ops.MaskEqual(vals, low)
	default:
		return ops.MaskInRange(vals, low, high)
	}
}

func rangesMask(vals []schema.Scalar, ranges []schema.ScalarRange) bits.ChunkMask {

	if len(ranges) == 1 {
		return rangeMask(vals, ranges[0].First, ranges[0].Second)
	}

	result := bits.EmptyChunk(len(vals))
	for _, r := range ranges {
		result = result.Or(rangeMask(vals, r.First, r.Second))
	}

	return result
}
