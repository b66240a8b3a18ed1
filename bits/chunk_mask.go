package bits

import (
	"fmt"
	"math/bits"
)

// ChunkSize is the widest span a mask can describe.
const ChunkSize = 64

// ChunkMask is a match mask over at most 64 consecutive positions.
//
// Offset i from the chunk start lives at bit (n-1-i): the most significant
// populated bit is the first position. Bits above n are always zero.
type ChunkMask struct {
	word uint64
	n    int
}

func checkChunkLen(n int) {
	if n < 0 || n > ChunkSize {
		panic(fmt.Sprintf("chunk length %d out of [0, %d]", n, ChunkSize))
	}
}

func lowBits(n int) uint64 {
	if n == ChunkSize {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// EmptyChunk returns a mask of n positions with nothing set.
func EmptyChunk(n int) ChunkMask {
	checkChunkLen(n)
	return ChunkMask{n: n}
}

// FullChunk returns a mask of n positions, all set.
func FullChunk(n int) ChunkMask {
	checkChunkLen(n)
	return ChunkMask{word: lowBits(n), n: n}
}

// FromWord wraps a raw word, bits above n are dropped.
func FromWord(word uint64, n int) ChunkMask {
	checkChunkLen(n)
	return ChunkMask{word: word & lowBits(n), n: n}
}

func (m ChunkMask) Len() int {
	return m.n
}

// Push appends the next position, callers push in position order.
func (m *ChunkMask) Push(match bool) {
	if m.n == ChunkSize {
		panic("chunk mask is full")
	}
	m.word <<= 1
	if match {
		m.word |= 1
	}
	m.n++
}

func (m ChunkMask) bit(offset int) uint64 {
	if offset < 0 || offset >= m.n {
		panic(fmt.Sprintf("offset %d outside chunk of %d", offset, m.n))
	}
	return uint64(1) << (m.n - 1 - offset)
}

func (m ChunkMask) Test(offset int) bool {
	return m.word&m.bit(offset) != 0
}

func (m *ChunkMask) Set(offset int) {
	m.word |= m.bit(offset)
}

func (m ChunkMask) And(other ChunkMask) ChunkMask {
	if m.n != other.n {
		panic(fmt.Sprintf("and of chunk masks with different lengths %d and %d", m.n, other.n))
	}
	return ChunkMask{word: m.word & other.word, n: m.n}
}

func (m ChunkMask) Or(other ChunkMask) ChunkMask {
	if m.n != other.n {
		panic(fmt.Sprintf("or of chunk masks with different lengths %d and %d", m.n, other.n))
	}
	return ChunkMask{word: m.word | other.word, n: m.n}
}

func (m ChunkMask) Any() bool {
	return m.word != 0
}

func (m ChunkMask) Count() int {
	return bits.OnesCount64(m.word)
}

// ForEach calls fn with every set offset in ascending position order.
func (m ChunkMask) ForEach(fn func(offset int)) {
	w := m.word
	for w != 0 {
		top := 63 - bits.LeadingZeros64(w)
		fn(m.n - 1 - top)
		w &^= uint64(1) << top
	}
}

// ToOffsets writes set offsets into out and returns how many were written.
func (m ChunkMask) ToOffsets(out []uint16) int {
	filled := 0
	m.ForEach(func(offset int) {
		out[filled] = uint16(offset)
		filled++
	})
	return filled
}

func (m ChunkMask) String() string {
	if m.n == 0 {
		return ""
	}
	return fmt.Sprintf("%0*b", m.n, m.word)
}
