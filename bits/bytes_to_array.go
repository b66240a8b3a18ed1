package bits

import (
	"fmt"
	"unsafe"
)

// MapBytesToSlice reinterprets data as a slice of count T values without copying.
// The caller keeps data alive for as long as the result is used.
func MapBytesToSlice[T any](data []byte, count int) []T {

	if count == 0 {
		return nil
	}

	var sample T
	valueSize := int(unsafe.Sizeof(sample))

	if len(data) < count*valueSize {
		panic(fmt.Sprintf("not enough data: %d bytes for %d values of %d bytes", len(data), count, valueSize))
	}

	if uintptr(unsafe.Pointer(&data[0]))%unsafe.Alignof(sample) != 0 {
		panic("unaligned data for typed mapping")
	}

	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), count)
}

// SliceToBytes is the reverse view of MapBytesToSlice.
func SliceToBytes[T any](arr []T) []byte {

	if len(arr) == 0 {
		return nil
	}

	var sample T
	return unsafe.Slice((*byte)(unsafe.Pointer(&arr[0])), len(arr)*int(unsafe.Sizeof(sample)))
}
