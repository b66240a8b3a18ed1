package index

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/dot5enko/pointindex/lists"
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

// MeasureBetaIndex answers with a random physical range plus the secondary
// matches of a random value range on its column. It measures scan cost against
// result shape and makes no attempt at being correct.
type MeasureBetaIndex struct {
	lifecycle

	column    int
	secondary SecondaryIndexer

	dataSize int
	maxVal   schema.Scalar

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMeasureBetaIndex(dim int, secondary SecondaryIndexer, seed uint64) *MeasureBetaIndex {

	if secondary == nil {
		panic("measure beta index needs a secondary index")
	}

	return &MeasureBetaIndex{
		column:    dim,
		secondary: secondary,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (m *MeasureBetaIndex) Type() Type { return Primary }

func (m *MeasureBetaIndex) Columns() []int {
	return unionColumns([]int{m.column}, m.secondary.Columns())
}

func (m *MeasureBetaIndex) Size() int {
	return m.secondary.Size()
}

func (m *MeasureBetaIndex) Init(points *schema.Points) {

	m.begin("measure beta index")
	checkColumn(m.column, points.NumDims())

	m.dataSize = points.Len()
	m.maxVal = 0
	for i := range m.dataSize {
		m.maxVal = max(m.maxVal, points.Coord(schema.PhysicalIndex(i), m.column))
	}

	m.secondary.Init(points)
	m.done()
}

// uniform in [0, 2^log2(limit)), sizes are drawn log uniformly
func (m *MeasureBetaIndex) logUniform(limit float64) int {
	if limit <= 1 {
		return 1
	}
	return int(math.Pow(2, m.rng.Float64()*math.Log2(limit)))
}

func (m *MeasureBetaIndex) Ranges(q query.Query) (schema.PhysicalIndexSet, query.Patch) {

	m.check("measure beta index")

	m.mu.Lock()
	rangeSize := m.logUniform(float64(m.dataSize))
	rangeStart := m.rng.IntN(m.dataSize + 1)
	matchSize := schema.Scalar(m.logUniform(0.5 * float64(m.maxVal)))
	matchStart := schema.Scalar(m.rng.Int32N(int32(m.maxVal) + 1))
	m.mu.Unlock()

	patch := query.Patch{
		m.column: query.RangeFilter(matchStart, schema.Scalar(min(int64(matchStart)+int64(matchSize), int64(schema.ScalarMax)))),
	}

	matches := m.secondary.Matches(patch.Apply(q))
	lists.SortList(matches)

	ranges := schema.IndexRangeList{{
		Start: schema.PhysicalIndex(rangeStart),
		End:   schema.PhysicalIndex(min(m.dataSize, rangeStart+rangeSize)),
	}}
	if ranges[0].Empty() {
		ranges = nil
	}

	return lists.UnionRangesList(ranges, lists.Dedup(matches)), patch
}
