package ops

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dot5enko/pointindex/bits"
)

func naiveRangeMask(arr []int32, from, to int32) uint64 {
	var word uint64
	for _, v := range arr {
		word <<= 1
		if v >= from && v <= to {
			word |= 1
		}
	}
	return word
}

func randomChunk(n int, limit int32) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = rand.Int31n(limit) - limit/2
	}
	return out
}

func TestMaskInRangeMatchesNaive(t *testing.T) {

	for _, n := range []int{0, 1, 7, 8, 9, 33, 63, 64} {
		arr := randomChunk(n, 100)

		got := MaskInRange(arr, -10, 20)
		want := naiveRangeMask(arr, -10, 20)

		if got != bits.FromWord(want, n) {
			t.Errorf("n=%d: expected %b but got %s", n, want, got.String())
		}
		assert.Equal(t, n, got.Len())
	}
}

func TestMaskInRangeInclusive(t *testing.T) {

	arr := []int32{1, 2, 3, 4, 5}
	m := MaskInRange(arr, 2, 4)

	assert.Equal(t, "01110", m.String())
	assert.False(t, MaskInRange(arr, 4, 2).Any())
}

func TestMaskInRangesUnion(t *testing.T) {

	arr := []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	m := MaskInRanges(arr, []int32{1, 8}, []int32{2, 9})

	assert.Equal(t, "1100000110", m.String())
}

func TestMaskInSet(t *testing.T) {

	arr := randomChunk(64, 20)
	set := map[int32]struct{}{-3: {}, 0: {}, 4: {}}

	m := MaskInSet(arr, set)
	for i, v := range arr {
		_, want := set[v]
		if m.Test(i) != want {
			t.Errorf("offset %d value %d: expected %v", i, v, want)
		}
	}
}

func TestMaskEqualAndOpenBounds(t *testing.T) {

	arr := []float64{0.5, 1.5, 1.5, -2, 9, 1.5, 3, 4, 1.5}

	assert.Equal(t, "011001001", MaskEqual(arr, 1.5).String())
	assert.Equal(t, "011011111", MaskAtLeast(arr, 1.5).String())
	assert.Equal(t, "111101001", MaskAtMost(arr, 1.5).String())
}

func TestMinMax(t *testing.T) {

	minVal := int32(-10)
	maxVal := int32(7000)

	input := []int32{3, minVal, maxVal, 1, 2, 3, 4, 5, 6, 0}

	result := GetMaxMin(input)

	if result.Max != maxVal {
		t.Errorf("Expected %d but got %d", maxVal, result.Max)
	}

	if result.Min != minVal {
		t.Errorf("Expected %d but got %d", minVal, result.Min)
	}

	assert.Panics(t, func() { GetMaxMin([]int32{}) })
}

func BenchmarkMaskInRange(b *testing.B) {

	arr := randomChunk(64, 50000)

	for b.Loop() {
		MaskInRange(arr, -1000, 1000)
	}
}

func BenchmarkMaskInSet(b *testing.B) {

	arr := randomChunk(64, 50000)
	set := map[int32]struct{}{}
	for i := range int32(100) {
		set[i*7] = struct{}{}
	}

	for b.Loop() {
		MaskInSet(arr, set)
	}
}
