package dataset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dot5enko/pointindex/schema"
)

func randomPoints(n, dims int) *schema.Points {
	data := make([]schema.Scalar, n*dims)
	for i := range data {
		data[i] = schema.Scalar(rand.Int31n(50))
	}
	return schema.NewPoints(dims, data)
}

func layouts(t *testing.T, points *schema.Points) map[Layout]Dataset {
	out := map[Layout]Dataset{}
	for _, layout := range []Layout{ColumnLayout, RowLayout} {
		ds, err := New(layout, points)
		require.NoError(t, err)
		out[layout] = ds
	}
	return out
}

func TestLayoutsAgree(t *testing.T) {

	points := randomPoints(150, 3)
	set := map[schema.Scalar]struct{}{3: {}, 10: {}, 49: {}}
	ranges := []schema.ScalarRange{{First: 0, Second: 5}, {First: 40, Second: schema.ScalarPInf}}

	for layout, ds := range layouts(t, points) {

		assert.Equal(t, 150, ds.Size(), layout)
		assert.Equal(t, 3, ds.NumDims(), layout)
		assert.Equal(t, 150*3*4, ds.SizeInBytes(), layout)

		for start := 0; start < 150; start += 64 {
			end := min(start+64, 150)
			s, e := schema.PhysicalIndex(start), schema.PhysicalIndex(end)

			inSet := ds.CoordInSet(s, e, 1, set)
			inRange := ds.CoordInRange(s, e, 2, 10, 20)
			inRanges := ds.CoordInRanges(s, e, 0, ranges)

			for p := start; p < end; p++ {
				pos := schema.PhysicalIndex(p)
				off := p - start

				_, wantSet := set[ds.GetCoord(pos, 1)]
				assert.Equal(t, wantSet, inSet.Test(off), "%s set at %d", layout, p)

				v2 := ds.GetCoord(pos, 2)
				assert.Equal(t, v2 >= 10 && v2 <= 20, inRange.Test(off), "%s range at %d", layout, p)

				v0 := ds.GetCoord(pos, 0)
				assert.Equal(t, v0 <= 5 || v0 >= 40, inRanges.Test(off), "%s ranges at %d", layout, p)

				assert.Equal(t, schema.Point(points.Get(pos)), ds.Get(pos))
			}
		}
	}
}

func TestBounds(t *testing.T) {

	points := schema.PointsFromRows(
		[]schema.Scalar{5, -1},
		[]schema.Scalar{2, 7},
		[]schema.Scalar{9, 3},
	)

	for layout, ds := range layouts(t, points) {
		assert.Equal(t, schema.Bounds{Min: 2, Max: 9}, ds.Bounds(0), layout)
		assert.Equal(t, schema.Bounds{Min: -1, Max: 7}, ds.Bounds(1), layout)
	}
}

func TestChunkPreconditions(t *testing.T) {

	points := randomPoints(100, 2)

	for _, ds := range layouts(t, points) {
		assert.Panics(t, func() { ds.CoordInRange(0, 65, 0, 0, 1) })
		assert.Panics(t, func() { ds.CoordInRange(90, 101, 0, 0, 1) })
		assert.Panics(t, func() { ds.CoordInRange(0, 10, 2, 0, 1) })
	}
}

func TestUnknownLayout(t *testing.T) {
	_, err := New("diagonal", randomPoints(1, 1))
	assert.Error(t, err)
}

func TestRangeBoundsAreLiteral(t *testing.T) {

	points := randomPoints(64, 1)
	raw := points.Raw()
	raw[3] = schema.ScalarPInf + 5
	raw[9] = schema.ScalarNInf - 5
	raw[10] = schema.ScalarMax
	raw[11] = schema.ScalarMin

	for layout, ds := range layouts(t, points) {

		m := ds.CoordInRange(0, 64, 0, schema.ScalarNInf, schema.ScalarPInf)
		assert.Equal(t, 60, m.Count(), layout)
		assert.False(t, m.Test(3), layout)
		assert.False(t, m.Test(9), layout)

		all := ds.CoordInRange(0, 64, 0, schema.ScalarMin, schema.ScalarMax)
		assert.Equal(t, 64, all.Count(), layout)

		upper := ds.CoordInRange(0, 64, 0, schema.ScalarPInf, schema.ScalarMax)
		assert.Equal(t, 2, upper.Count(), layout)

		lower := ds.CoordInRange(0, 64, 0, schema.ScalarMin, 0)
		assert.Equal(t, 2+countEqual(raw, 0), lower.Count(), layout)

		none := ds.CoordInRanges(0, 64, 0, nil)
		assert.False(t, none.Any(), layout)
	}
}

func countEqual(vals []schema.Scalar, v schema.Scalar) int {
	n := 0
	for _, it := range vals {
		if it == v {
			n++
		}
	}
	return n
}
