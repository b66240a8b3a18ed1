package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dot5enko/pointindex/io"
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

func testSingleColumnRewriter(t *testing.T) *SingleColumnRewriter {
	rw, err := NewSingleColumnRewriter(&io.SingleColumnMapping{
		MappedDim: 0,
		TargetDim: 1,
		Targets: map[schema.Scalar][]schema.Scalar{
			1: {10, 11},
			2: {11, 12},
			5: {50},
		},
	}, 3)
	require.NoError(t, err)
	return rw
}

func TestSingleColumnRewriter(t *testing.T) {

	rw := testSingleColumnRewriter(t)

	q := query.New(3).With(0, query.ValuesFilter(1, 2, 3))
	rewritten := rw.Rewrite(q)
	assert.Equal(t, query.ValuesFilter(10, 11, 12), rewritten.Filter(1))
	assert.Equal(t, q.Filter(0), rewritten.Filter(0))
	assert.False(t, q.Filter(1).Present)

	// range filters expand over the known mapped values
	rewritten = rw.Rewrite(query.New(3).With(0, query.RangeFilter(2, 9)))
	assert.Equal(t, query.ValuesFilter(11, 12, 50), rewritten.Filter(1))

	// the existing target filter is kept as a constraint
	rewritten = rw.Rewrite(q.With(1, query.ValuesFilter(11, 40)))
	assert.Equal(t, query.ValuesFilter(11), rewritten.Filter(1))

	rewritten = rw.Rewrite(q.With(1, query.RangeFilter(12, 100)))
	assert.Equal(t, query.ValuesFilter(12), rewritten.Filter(1))

	rewritten = rw.Rewrite(q.With(1, query.ValuesFilter(99)))
	assert.True(t, rewritten.Filter(1).Present)
	assert.Empty(t, rewritten.Filter(1).Values)

	// unknown mapped values leave the query alone
	q = query.New(3).With(0, query.ValuesFilter(7))
	assert.Equal(t, q, rw.Rewrite(q))

	q = query.New(3)
	assert.Equal(t, q, rw.Rewrite(q))
}

func TestSingleColumnRewriterInvalidDims(t *testing.T) {

	_, err := NewSingleColumnRewriter(&io.SingleColumnMapping{MappedDim: 1, TargetDim: 1}, 3)
	assert.ErrorIs(t, err, ErrInvalidRewriter)

	_, err = NewSingleColumnRewriter(&io.SingleColumnMapping{MappedDim: 0, TargetDim: 3}, 3)
	assert.ErrorIs(t, err, ErrInvalidRewriter)
}

func TestLinearModelRewriter(t *testing.T) {

	rw, err := NewLinearModelRewriter(&io.LinearModel{MappedDim: 0, TargetDim: 1, A: 1, B: 2, Offset: 0.5}, 2)
	require.NoError(t, err)

	rewritten := rw.Rewrite(query.New(2).With(0, query.RangeFilter(10, 20)))
	// [1+20-0.5, 1+40+0.5]
	assert.Equal(t, query.RangeFilter(20, 42), rewritten.Filter(1))

	// values use their hull
	rewritten = rw.Rewrite(query.New(2).With(0, query.ValuesFilter(20, 10)))
	assert.Equal(t, query.RangeFilter(20, 42), rewritten.Filter(1))

	rewritten = rw.Rewrite(query.New(2).With(0, query.RangeFilter(10, 20)).With(1, query.RangeFilter(30, 100)))
	assert.Equal(t, query.RangeFilter(30, 42), rewritten.Filter(1))

	// a single value still yields a range
	rewritten = rw.Rewrite(query.New(2).With(0, query.RangeFilter(10, 20)).With(1, query.RangeFilter(41, 41)))
	assert.Equal(t, query.RangeFilter(41, 41), rewritten.Filter(1))

	rewritten = rw.Rewrite(query.New(2).With(0, query.RangeFilter(10, 20)).With(1, query.RangeFilter(50, 100)))
	assert.True(t, rewritten.Filter(1).Present)
	assert.Empty(t, rewritten.Filter(1).Ranges)

	q := query.New(2).With(1, query.RangeFilter(1, 2))
	assert.Equal(t, q, rw.Rewrite(q))
}

func TestLinearModelRewriterNegativeSlope(t *testing.T) {

	rw, err := NewLinearModelRewriter(&io.LinearModel{MappedDim: 1, TargetDim: 0, A: 100, B: -1, Offset: 2}, 2)
	require.NoError(t, err)

	rewritten := rw.Rewrite(query.New(2).With(1, query.RangeFilter(10, 20)))
	// 100-10+2 and 100-20-2, swapped
	assert.Equal(t, query.RangeFilter(78, 92), rewritten.Filter(0))
}

func TestLinearModelRewriterClamps(t *testing.T) {

	rw, err := NewLinearModelRewriter(&io.LinearModel{MappedDim: 0, TargetDim: 1, A: 0, B: 1e6, Offset: 0}, 2)
	require.NoError(t, err)

	rewritten := rw.Rewrite(query.New(2).With(0, query.RangeFilter(-1e5, 1e5)))
	assert.Equal(t, query.RangeFilter(schema.ScalarMin, schema.ScalarMax), rewritten.Filter(1))
}

func TestLoadRewriter(t *testing.T) {

	dir := t.TempDir()

	linear := filepath.Join(dir, "linear.txt")
	require.NoError(t, os.WriteFile(linear, []byte("linear\n0 1\n1 2\n0.5\n"), 0o644))

	single := filepath.Join(dir, "single.txt")
	require.NoError(t, os.WriteFile(single, []byte("0 1\n1 2\n10 11\n"), 0o644))

	cache := io.NewFileCache()

	rw, err := LoadRewriter(RewriterLinear, linear, 2, cache)
	require.NoError(t, err)
	assert.IsType(t, &LinearModelRewriter{}, rw)

	rw, err = LoadRewriter(RewriterSingle, single, 2, cache)
	require.NoError(t, err)
	assert.Equal(t, query.ValuesFilter(10, 11), rw.Rewrite(query.New(2).With(0, query.ValuesFilter(1))).Filter(1))

	_, err = LoadRewriter("cubic", linear, 2, cache)
	assert.ErrorIs(t, err, ErrInvalidRewriter)

	_, err = LoadRewriter(RewriterLinear, linear, 1, cache)
	assert.ErrorIs(t, err, ErrInvalidRewriter)
}
