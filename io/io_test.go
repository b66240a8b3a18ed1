package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

func testPoints() *schema.Points {
	return schema.PointsFromRows(
		[]schema.Scalar{1, -2, 3},
		[]schema.Scalar{4, 5, -6},
		[]schema.Scalar{7, 8, 1 << 20},
		[]schema.Scalar{schema.ScalarMin, 0, schema.ScalarMax},
	)
}

func TestPointsRoundTrip(t *testing.T) {

	dir := t.TempDir()
	points := testPoints()

	for _, name := range []string{"points.bin", "points.bin.lz4", "points.bin.zst"} {

		path := filepath.Join(dir, name)
		require.NoError(t, DumpPoints(path, points), name)

		loaded, err := LoadPoints(path, PointsLoadOptions{Dims: 3})
		require.NoError(t, err, name)

		assert.Equal(t, points.Raw(), loaded.Points.Raw(), name)
		assert.False(t, loaded.Mapped())
		require.NoError(t, loaded.Close())
	}
}

func TestPointsMmap(t *testing.T) {

	if !mmapSupported {
		t.Skip("mmap unsupported")
	}

	path := filepath.Join(t.TempDir(), "points.bin")
	points := testPoints()
	require.NoError(t, DumpPoints(path, points))

	loaded, err := LoadPoints(path, PointsLoadOptions{Dims: 3, Mmap: true, Limit: 2})
	require.NoError(t, err)
	defer loaded.Close()

	if littleEndianHost() {
		assert.True(t, loaded.Mapped())
	}
	assert.Equal(t, 2, loaded.Points.Len())
	assert.Equal(t, points.Raw()[:6], loaded.Points.Raw())
}

func TestPointsMalformed(t *testing.T) {

	path := filepath.Join(t.TempDir(), "broken.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4, 5}, 0o644))

	_, err := LoadPoints(path, PointsLoadOptions{Dims: 1})
	assert.ErrorIs(t, err, ErrMalformedFile)

	_, err = LoadPoints(filepath.Join(t.TempDir(), "missing.bin"), PointsLoadOptions{Dims: 1})
	assert.Error(t, err)

	_, err = LoadPoints(path, PointsLoadOptions{})
	assert.Error(t, err)
}

const sampleWorkload = `=
values 3 1 2
ranges 0 10 20 30
none
=

5 6
ranges 9 4
`

func TestParseWorkload(t *testing.T) {

	queries, err := ParseWorkload(strings.NewReader(sampleWorkload), "sample", 3, 0)
	require.NoError(t, err)
	require.Len(t, queries, 2)

	q := queries[0]
	assert.Equal(t, []schema.Scalar{1, 2, 3}, q.Filter(0).Values)
	assert.Equal(t, []schema.ScalarRange{{First: 0, Second: 10}, {First: 20, Second: 30}}, q.Filter(1).Ranges)
	assert.False(t, q.Filter(2).Present)

	// legacy lines: empty is absent, bare numbers are values
	q = queries[1]
	assert.False(t, q.Filter(0).Present)
	assert.Equal(t, []schema.Scalar{5, 6}, q.Filter(1).Values)
	assert.Equal(t, []schema.ScalarRange{{First: 4, Second: 9}}, q.Filter(2).Ranges)

	limited, err := ParseWorkload(strings.NewReader(sampleWorkload), "sample", 3, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestParseWorkloadErrors(t *testing.T) {

	cases := map[string]string{
		"no separator": "values 1\n",
		"odd ranges":   "=\nranges 1 2 3\n",
		"truncated":    "=\nvalues 1\n",
		"bad number":   "=\nvalues x\nnone\n",
		"none args":    "=\nnone 1\nnone\n",
	}

	for name, input := range cases {
		_, err := ParseWorkload(strings.NewReader(input), name, 2, 0)
		assert.ErrorIs(t, err, ErrMalformedFile, name)
	}
}

func TestWorkloadRoundTrip(t *testing.T) {

	queries := []query.Query{
		query.New(2).With(0, query.ValuesFilter(4, 2)),
		query.New(2).With(1, query.RangeFilter(-5, 5)),
	}

	buf := bytes.Buffer{}
	require.NoError(t, WriteWorkload(&buf, queries))

	parsed, err := ParseWorkload(&buf, "buffer", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, queries, parsed)
}

func TestOutlierList(t *testing.T) {

	dir := t.TempDir()
	list := schema.IndexList{3, 17, 1 << 33}

	for _, name := range []string{"outliers.bin", "outliers.bin.lz4"} {
		path := filepath.Join(dir, name)
		require.NoError(t, DumpOutlierList(path, list))

		loaded, err := LoadOutlierList(path)
		require.NoError(t, err)
		assert.Equal(t, list, loaded)
	}

	_, err := ParseOutlierList([]byte{1, 2, 3}, "short")
	assert.ErrorIs(t, err, ErrMalformedFile)
}

const sampleMapping = `continuous-0
source 1 3
0 0 9.5
1 10 19
2 20 29
mapping 2
0 4 5
2 7
`

const sampleTargets = `target_index_ranges 3
4 0 10
5 10 25
7 40 50
`

func TestParseMapping(t *testing.T) {

	m, err := ParseMapping(strings.NewReader(sampleMapping), "mapping")
	require.NoError(t, err)

	assert.Equal(t, 1, m.Column)
	require.Len(t, m.Buckets, 3)
	assert.Equal(t, schema.ScalarRange{First: 0, Second: 9}, m.Buckets[0].Range)
	assert.Equal(t, []int{4, 5}, m.Targets[0])
	assert.Equal(t, []int{7}, m.Targets[2])

	targets, err := ParseTargetBuckets(strings.NewReader(sampleTargets), "targets")
	require.NoError(t, err)
	assert.Equal(t, schema.PhysicalIndexRange{Start: 10, End: 25}, targets[5])
}

func TestParseMappingErrors(t *testing.T) {

	_, err := ParseMapping(strings.NewReader("continuous-1\n"), "bad magic")
	assert.ErrorIs(t, err, ErrMalformedFile)

	_, err = ParseMapping(strings.NewReader("continuous-0\nsource 1 1\n0 0 1\nmapping 2\n"), "too many")
	assert.ErrorIs(t, err, ErrMalformedFile)

	_, err = ParseMapping(strings.NewReader("continuous-0\nsource 1 2\n0 0 1\n0 2 3\n"), "duplicate")
	assert.ErrorIs(t, err, ErrMalformedFile)

	_, err = ParseTargetBuckets(strings.NewReader("target_index_ranges 1\n1 2\n"), "short")
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestParseRewriters(t *testing.T) {

	single, err := ParseSingleColumnMapping(strings.NewReader("0 2\n5 2\n10 11\n6 1\n12\n\n7 1\n99\n"), "single")
	require.NoError(t, err)

	assert.Equal(t, 0, single.MappedDim)
	assert.Equal(t, 2, single.TargetDim)
	assert.Equal(t, []schema.Scalar{10, 11}, single.Targets[5])
	assert.Len(t, single.Targets, 2)

	_, err = ParseSingleColumnMapping(strings.NewReader("0 2\n5 2\n10\n"), "count")
	assert.ErrorIs(t, err, ErrMalformedFile)

	_, err = ParseSingleColumnMapping(strings.NewReader("0 2\n5 1\n10\n5 1\n11\n"), "dup")
	assert.ErrorIs(t, err, ErrMalformedFile)

	linear, err := ParseLinearModel(strings.NewReader("linear\n1 0\n2.5 -0.5\n3\n"), "linear")
	require.NoError(t, err)
	assert.Equal(t, &LinearModel{MappedDim: 1, TargetDim: 0, A: 2.5, B: -0.5, Offset: 3}, linear)

	_, err = ParseLinearModel(strings.NewReader("quadratic\n"), "bad")
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestFileCacheSharesLoads(t *testing.T) {

	path := filepath.Join(t.TempDir(), "mapping.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleMapping), 0o644))

	cache := NewFileCache()

	wg := sync.WaitGroup{}
	results := make([]*CorrelationMapping, 8)

	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := cache.Mapping(path)
			assert.NoError(t, err)
			results[i] = m
		}()
	}
	wg.Wait()

	for _, m := range results {
		assert.Same(t, results[0], m)
	}

	stats := cache.Stats()
	require.Len(t, stats, 1)
	for _, s := range stats {
		assert.GreaterOrEqual(t, s.Reads, 1)
	}

	_, err := cache.OutlierList(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
