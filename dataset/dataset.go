package dataset

import (
	"fmt"

	"github.com/dot5enko/pointindex/bits"
	"github.com/dot5enko/pointindex/schema"
)

// Dataset is the read side the engine scans. Mask primitives work on spans of
// at most bits.ChunkSize positions, offset 0 of the mask is start.
type Dataset interface {
	Get(p schema.PhysicalIndex) schema.Point
	GetCoord(p schema.PhysicalIndex, dim int) schema.Scalar
	Size() int
	NumDims() int
	SizeInBytes() int

	Bounds(dim int) schema.Bounds

	CoordInSet(start, end schema.PhysicalIndex, dim int, set map[schema.Scalar]struct{}) bits.ChunkMask
	CoordInRange(start, end schema.PhysicalIndex, dim int, low, high schema.Scalar) bits.ChunkMask
	CoordInRanges(start, end schema.PhysicalIndex, dim int, ranges []schema.ScalarRange) bits.ChunkMask
}

type Layout string

const (
	ColumnLayout Layout = "column"
	RowLayout    Layout = "row"
)

// New materializes points with the requested layout.
func New(layout Layout, points *schema.Points) (Dataset, error) {
	switch layout {
	case ColumnLayout, "":
		return NewColumnOrder(points), nil
	case RowLayout:
		return NewRowOrder(points), nil
	default:
		return nil, fmt.Errorf("unknown dataset layout `%s`", layout)
	}
}

func checkSpan(start, end schema.PhysicalIndex, size int) {
	if start < 0 || end < start || int(end) > size || end-start > bits.ChunkSize {
		panic(fmt.Sprintf("chunk request [%d, %d) invalid for dataset of %d", start, end, size))
	}
}

func checkDim(dim, dims int) {
	if dim < 0 || dim >= dims {
		panic(fmt.Sprintf("dimension %d out of range, dataset has %d", dim, dims))
	}
}
