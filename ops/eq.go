package ops

import "github.com/dot5enko/pointindex/bits"

// MaskInSet marks values that belong to set.
func MaskInSet[T NumericTypes](arr []T, set map[T]struct{}) bits.ChunkMask {

	n := len(arr)
	var word uint64
	i := 0

	has := func(v T) uint64 {
		_, ok := set[v]
		return b2u(ok)
	}

	for ; i+7 < n; i += 8 {

		m := has(arr[i+0])<<7 |
			has(arr[i+1])<<6 |
			has(arr[i+2])<<5 |
			has(arr[i+3])<<4 |
			has(arr[i+4])<<3 |
			has(arr[i+5])<<2 |
			has(arr[i+6])<<1 |
			has(arr[i+7])

		word = word<<8 | m
	}

	// Tail element
	for ; i < n; i++ {
		word = word<<1 | has(arr[i])
	}

	return bits.FromWord(word, n)
}

// MaskEqual marks values equal to cmp.
func MaskEqual[T NumericTypes](arr []T, cmp T) bits.ChunkMask {

	n := len(arr)
	var word uint64
	i := 0

	for ; i+7 < n; i += 8 {

		m := b2u(arr[i+0] == cmp)<<7 |
			b2u(arr[i+1] == cmp)<<6 |
			b2u(arr[i+2] == cmp)<<5 |
			b2u(arr[i+3] == cmp)<<4 |
			b2u(arr[i+4] == cmp)<<3 |
			b2u(arr[i+5] == cmp)<<2 |
			b2u(arr[i+6] == cmp)<<1 |
			b2u(arr[i+7] == cmp)

		word = word<<8 | m
	}

	for ; i < n; i++ {
		word = word<<1 | b2u(arr[i] == cmp)
	}

	return bits.FromWord(word, n)
}
