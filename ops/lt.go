package ops

import "github.com/dot5enko/pointindex/bits"

// MaskAtMost marks values <= cmp, used for ranges without a lower bound.
func MaskAtMost[T NumericTypes](arr []T, cmp T) bits.ChunkMask {

	n := len(arr)
	var word uint64
	i := 0

	for ; i+7 < n; i += 8 {
		a0, a1 := arr[i], arr[i+1]
		a2, a3 := arr[i+2], arr[i+3]
		a4, a5 := arr[i+4], arr[i+5]
		a6, a7 := arr[i+6], arr[i+7]

		m := b2u(a0 <= cmp)<<7 |
			b2u(a1 <= cmp)<<6 |
			b2u(a2 <= cmp)<<5 |
			b2u(a3 <= cmp)<<4 |
			b2u(a4 <= cmp)<<3 |
			b2u(a5 <= cmp)<<2 |
			b2u(a6 <= cmp)<<1 |
			b2u(a7 <= cmp)

		word = word<<8 | m
	}

	for ; i < n; i++ {
		word = word<<1 | b2u(arr[i] <= cmp)
	}

	return bits.FromWord(word, n)
}
