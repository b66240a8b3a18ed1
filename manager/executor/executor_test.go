package executor

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dot5enko/pointindex/dataset"
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

func testDataset(t *testing.T, n int) (dataset.Dataset, *schema.Points) {

	data := make([]schema.Scalar, n*2)
	for i := range n {
		data[i*2] = schema.Scalar(i)
		data[i*2+1] = schema.Scalar(i % 7)
	}

	points := schema.NewPoints(2, data)
	ds, err := dataset.New(dataset.ColumnLayout, points)
	require.NoError(t, err)

	return ds, points
}

func bruteForce(points *schema.Points, q query.Query, candidates schema.PhysicalIndexSet) schema.IndexList {
	out := schema.IndexList{}
	for _, p := range candidates.Positions() {
		if q.Matches(points.Get(p)) {
			out = append(out, p)
		}
	}
	return out
}

func TestScanMatchesBruteForce(t *testing.T) {

	ds, points := testDataset(t, 300)

	q := query.New(2).
		With(0, query.RangeFilter(10, 250)).
		With(1, query.ValuesFilter(0, 3))

	plan := query.NewQueryPlanner().Plan(q, ds.Bounds)

	candidates := schema.PhysicalIndexSet{
		Ranges: schema.IndexRangeList{{Start: 0, End: 100}, {Start: 130, End: 280}},
		List:   schema.IndexList{101, 105, 122, 290},
	}

	visitor := &CollectVisitor{}
	result := Scan(ds, &plan, candidates, visitor)

	assert.Equal(t, 250, result.RangePoints)
	assert.Equal(t, 4, result.ListPoints)
	// 100 = 64+36, 150 = 64+64+22
	assert.Equal(t, 5, result.Chunks)

	want := bruteForce(points, q, candidates)
	got := schema.PhysicalIndexSet{List: visitor.Positions}
	lists := got.Positions()

	assert.ElementsMatch(t, want, lists)
}

func TestScanVisitors(t *testing.T) {

	ds, points := testDataset(t, 200)

	q := query.New(2).With(1, query.ValuesFilter(2))
	plan := query.NewQueryPlanner().Plan(q, ds.Bounds)
	candidates := schema.FullSet(200)

	want := bruteForce(points, q, candidates)

	count := &CountVisitor{}
	Scan(ds, &plan, candidates, count)
	assert.Equal(t, len(want), count.Matched())

	bitmap := NewBitmapVisitor()
	Scan(ds, &plan, candidates, bitmap)
	assert.Equal(t, len(want), bitmap.Matched())
	for _, p := range want {
		assert.True(t, bitmap.Bitmap().Contains(uint32(p)))
	}

	sum := &SumVisitor{Dim: 0}
	Scan(ds, &plan, candidates, sum)

	var wantSum int64
	for _, p := range want {
		wantSum += int64(points.Coord(p, 0))
	}
	assert.Equal(t, wantSum, sum.Sum)
	assert.Equal(t, len(want), sum.Matched())
}

func TestScanFullChunkBitmap(t *testing.T) {

	ds, _ := testDataset(t, 130)

	plan := query.NewQueryPlanner().Plan(query.New(2), ds.Bounds)

	bitmap := NewBitmapVisitor()
	Scan(ds, &plan, schema.FullSet(130), bitmap)

	assert.Equal(t, 130, bitmap.Matched())
}

func TestScanEmptyPlan(t *testing.T) {

	ds, _ := testDataset(t, 50)

	// dim 0 holds 0..49
	q := query.New(2).With(0, query.RangeFilter(100, 200))
	plan := query.NewQueryPlanner().Plan(q, ds.Bounds)
	require.True(t, plan.Empty)

	count := &CountVisitor{}
	result := Scan(ds, &plan, schema.FullSet(50), count)

	assert.Zero(t, result.RangePoints)
	assert.Zero(t, count.Matched())
}

func TestVisitorFactory(t *testing.T) {

	for _, name := range []string{"count", "collect", "bitmap", "sum", "dummy"} {
		sel, err := query.ParseSelector(name, 0)
		require.NoError(t, err)

		factory, err := NewVisitorFactory(sel)
		require.NoError(t, err)
		assert.NotNil(t, factory(), name)
	}

	sel, _ := query.ParseSelector("index", 0)
	factory, err := NewVisitorFactory(sel)
	require.NoError(t, err)
	assert.Nil(t, factory())

	_, err = NewVisitorFactory(query.Selector{Type: query.SelectSum, Dim: -1})
	assert.Error(t, err)
}

type fakeExecutor struct {
	calls atomic.Int32
	delay time.Duration
}

func (f *fakeExecutor) Execute(q query.Query, visitor Visitor) ExecuteStats {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return ExecuteStats{
		ChunkFilterProcessResult: ChunkFilterProcessResult{RangePoints: 10, ListPoints: 1},
		Candidates:               11,
		Matched:                  q.NumDims(),
		Took:                     time.Millisecond,
	}
}

func TestRunWorkload(t *testing.T) {

	queries := make([]query.Query, 40)
	for i := range queries {
		queries[i] = query.New(3)
	}

	exec := &fakeExecutor{}
	result, err := RunWorkload(context.Background(), exec, queries, WorkloadOptions{Workers: 4}, func() Visitor { return &CountVisitor{} })
	require.NoError(t, err)

	assert.Equal(t, 40, result.Queries)
	assert.EqualValues(t, 40, exec.calls.Load())
	assert.Equal(t, 400, result.Total.RangePoints)
	assert.Equal(t, 120, result.Total.Matched)
	assert.False(t, result.TimedOut)
	assert.Len(t, result.Latencies, 40)
	assert.Equal(t, time.Millisecond, result.Percentile(0.99))
}

func TestRunWorkloadTimeout(t *testing.T) {

	queries := make([]query.Query, 200)
	for i := range queries {
		queries[i] = query.New(1)
	}

	exec := &fakeExecutor{delay: 5 * time.Millisecond}
	result, err := RunWorkload(context.Background(), exec, queries, WorkloadOptions{Workers: 1, Timeout: 20 * time.Millisecond}, func() Visitor { return DiscardVisitor{} })
	require.NoError(t, err)

	assert.True(t, result.TimedOut)
	assert.Less(t, result.Queries, 200)
}

func TestRunWorkloadCancelled(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunWorkload(ctx, &fakeExecutor{}, []query.Query{query.New(1)}, WorkloadOptions{}, func() Visitor { return DiscardVisitor{} })
	assert.ErrorIs(t, err, context.Canceled)
}

func BenchmarkScan(b *testing.B) {

	n := 1 << 16
	data := make([]schema.Scalar, n*2)
	for i := range data {
		data[i] = schema.Scalar(rand.Int31n(1000))
	}

	ds, _ := dataset.New(dataset.ColumnLayout, schema.NewPoints(2, data))

	q := query.New(2).With(0, query.RangeFilter(100, 600)).With(1, query.ValuesFilter(1, 5, 9, 400))
	plan := query.NewQueryPlanner().Plan(q, ds.Bounds)
	candidates := schema.FullSet(n)

	for b.Loop() {
		Scan(ds, &plan, candidates, &CountVisitor{})
	}
}
