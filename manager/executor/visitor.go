package executor

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/dot5enko/pointindex/bits"
	"github.com/dot5enko/pointindex/dataset"
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

// Visitor consumes scanned chunks. Offset i of mask stands for position start+i.
// List candidates arrive as one position spans.
type Visitor interface {
	VisitRange(ds dataset.Dataset, start, end schema.PhysicalIndex, mask bits.ChunkMask)
}

// Counter is implemented by visitors that track accepted positions.
type Counter interface {
	Matched() int
}

// VisitorFactory builds a fresh visitor per query.
type VisitorFactory func() Visitor

type CountVisitor struct {
	count int
}

func (v *CountVisitor) VisitRange(_ dataset.Dataset, _, _ schema.PhysicalIndex, mask bits.ChunkMask) {
	v.count += mask.Count()
}

func (v *CountVisitor) Matched() int {
	return v.count
}

type CollectVisitor struct {
	Positions schema.IndexList
}

func (v *CollectVisitor) VisitRange(_ dataset.Dataset, start, _ schema.PhysicalIndex, mask bits.ChunkMask) {

	// list positions arrive one at a time
	if mask.Len() == 1 {
		if mask.Test(0) {
			v.Positions = append(v.Positions, start)
		}
		return
	}

	mask.ForEach(func(offset int) {
		v.Positions = append(v.Positions, start+schema.PhysicalIndex(offset))
	})
}

func (v *CollectVisitor) Matched() int {
	return len(v.Positions)
}

// BitmapVisitor gathers positions into a roaring bitmap.
type BitmapVisitor struct {
	bm *roaring.Bitmap
}

func NewBitmapVisitor() *BitmapVisitor {
	return &BitmapVisitor{bm: roaring.New()}
}

func (v *BitmapVisitor) VisitRange(_ dataset.Dataset, start, end schema.PhysicalIndex, mask bits.ChunkMask) {

	if mask.Count() == mask.Len() {
		v.bm.AddRange(uint64(start), uint64(end))
		return
	}

	mask.ForEach(func(offset int) {
		v.bm.Add(uint32(start) + uint32(offset))
	})
}

func (v *BitmapVisitor) Bitmap() *roaring.Bitmap {
	return v.bm
}

func (v *BitmapVisitor) Matched() int {
	return int(v.bm.GetCardinality())
}

// SumVisitor adds up one coordinate of every matching point.
type SumVisitor struct {
	Dim int

	Sum   int64
	count int
}

func (v *SumVisitor) VisitRange(ds dataset.Dataset, start, _ schema.PhysicalIndex, mask bits.ChunkMask) {

	if mask.Len() == 1 {
		if mask.Test(0) {
			v.Sum += int64(ds.GetCoord(start, v.Dim))
			v.count++
		}
		return
	}

	mask.ForEach(func(offset int) {
		v.Sum += int64(ds.GetCoord(start+schema.PhysicalIndex(offset), v.Dim))
		v.count++
	})
}

func (v *SumVisitor) Matched() int {
	return v.count
}

// DiscardVisitor is used for timing runs.
type DiscardVisitor struct{}

func (DiscardVisitor) VisitRange(dataset.Dataset, schema.PhysicalIndex, schema.PhysicalIndex, bits.ChunkMask) {
}

// NewVisitorFactory maps a selector to visitors. SelectIndex yields nil visitors,
// the engine then resolves candidates without scanning.
func NewVisitorFactory(sel query.Selector) (VisitorFactory, error) {

	switch sel.Type {
	case query.SelectCount:
		return func() Visitor { return &CountVisitor{} }, nil
	case query.SelectCollect:
		return func() Visitor { return &CollectVisitor{} }, nil
	case query.SelectBitmap:
		return func() Visitor { return NewBitmapVisitor() }, nil
	case query.SelectSum:
		if sel.Dim < 0 {
			return nil, fmt.Errorf("sum visitor needs a dimension, got %d", sel.Dim)
		}
		dim := sel.Dim
		return func() Visitor { return &SumVisitor{Dim: dim} }, nil
	case query.SelectDummy:
		return func() Visitor { return DiscardVisitor{} }, nil
	case query.SelectIndex:
		return func() Visitor { return nil }, nil
	default:
		return nil, fmt.Errorf("unsupported selector %s", sel.Type.String())
	}
}
