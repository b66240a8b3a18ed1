package bits

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullChunkSetsLowBits(t *testing.T) {

	m := FullChunk(3)
	assert.Equal(t, FromWord(0b111, 3), m)
	assert.Equal(t, 3, m.Count())

	full := FullChunk(ChunkSize)
	assert.Equal(t, FromWord(^uint64(0), ChunkSize), full)
	assert.Equal(t, 64, full.Count())

	assert.Equal(t, EmptyChunk(0), FullChunk(0))
}

func TestPushKeepsChunkStartAtTopBit(t *testing.T) {

	m := EmptyChunk(0)
	m.Push(true)
	m.Push(false)
	m.Push(true)
	m.Push(true)

	assert.Equal(t, FromWord(0b1011, 4), m)
	assert.True(t, m.Test(0))
	assert.False(t, m.Test(1))
	assert.True(t, m.Test(2))
	assert.True(t, m.Test(3))
	assert.Equal(t, "1011", m.String())
}

func TestSetAnd(t *testing.T) {

	a := EmptyChunk(10)
	a.Set(0)
	a.Set(9)
	a.Set(4)

	// every offset but 4
	b := FromWord(0b1111011111, 10)

	res := a.And(b)
	offsets := []int{}
	res.ForEach(func(offset int) { offsets = append(offsets, offset) })

	assert.Equal(t, []int{0, 9}, offsets)
	assert.Equal(t, a, a.Or(EmptyChunk(10)))
}

func TestFromWordDropsHighBits(t *testing.T) {
	m := FromWord(0xFF, 4)
	assert.Equal(t, FullChunk(4), m)
}

func TestToOffsetsAscending(t *testing.T) {

	m := EmptyChunk(64)
	m.Set(63)
	m.Set(0)
	m.Set(31)

	out := make([]uint16, 64)
	n := m.ToOffsets(out)

	assert.Equal(t, []uint16{0, 31, 63}, out[:n])
}

func TestMaskPreconditions(t *testing.T) {

	assert.Panics(t, func() { FullChunk(65) })
	assert.Panics(t, func() { FullChunk(3).And(FullChunk(4)) })
	assert.Panics(t, func() { FullChunk(3).Test(3) })

	full := FullChunk(64)
	assert.Panics(t, func() { full.Push(true) })
}

func TestWriterReaderInt32(t *testing.T) {

	w := NewGrowingBuffer(2, binary.LittleEndian)
	w.PutInt32Slice([]int32{1, -2, 1 << 30})
	w.PutUint64(42)

	r := NewReader(bytes.NewReader(w.Bytes()), binary.LittleEndian)

	vals := make([]int32, 3)
	require.NoError(t, r.ReadI32Slice(vals))
	assert.Equal(t, []int32{1, -2, 1 << 30}, vals)

	u, err := r.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), u)

	_, err = r.ReadU64()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 20, r.Consumed())
}

func TestMapBytesToSlice(t *testing.T) {

	src := []int32{7, 8, 9}
	raw := SliceToBytes(src)
	require.Len(t, raw, 12)

	mapped := MapBytesToSlice[int32](raw, 3)
	assert.Equal(t, src, mapped)

	assert.Panics(t, func() { MapBytesToSlice[int32](raw, 4) })
}
