package ops

import "github.com/dot5enko/pointindex/bits"

// MaskInRange marks values within the closed interval [from, to].
// arr is one chunk, at most bits.ChunkSize long.
func MaskInRange[T NumericTypes](arr []T, from, to T) bits.ChunkMask {

	n := len(arr)
	if to < from {
		return bits.EmptyChunk(n)
	}

	var word uint64
	i := 0

	for ; i+7 < n; i += 8 {
		a0 := arr[i+0]
		a1 := arr[i+1]
		a2 := arr[i+2]
		a3 := arr[i+3]
		a4 := arr[i+4]
		a5 := arr[i+5]
		a6 := arr[i+6]
		a7 := arr[i+7]

		m := b2u(a0 >= from && a0 <= to)<<7 |
			b2u(a1 >= from && a1 <= to)<<6 |
			b2u(a2 >= from && a2 <= to)<<5 |
			b2u(a3 >= from && a3 <= to)<<4 |
			b2u(a4 >= from && a4 <= to)<<3 |
			b2u(a5 >= from && a5 <= to)<<2 |
			b2u(a6 >= from && a6 <= to)<<1 |
			b2u(a7 >= from && a7 <= to)

		word = word<<8 | m
	}

	for ; i < n; i++ {
		a := arr[i]
		word = word<<1 | b2u(a >= from && a <= to)
	}

	return bits.FromWord(word, n)
}

// MaskInRanges is the OR of MaskInRange over every [from[k], to[k]] pair.
func MaskInRanges[T NumericTypes](arr []T, from, to []T) bits.ChunkMask {

	if len(from) != len(to) {
		panic("range bounds length mismatch")
	}

	result := bits.EmptyChunk(len(arr))
	for k := range from {
		result = result.Or(MaskInRange(arr, from[k], to[k]))
	}

	return result
}
