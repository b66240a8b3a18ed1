package bits

import (
	"encoding/binary"
	"fmt"
)

type BitWriter struct {
	pos   int
	data  []byte
	order binary.ByteOrder

	growingEnabled bool
}

func NewEncodeBuffer(buf []byte, order binary.ByteOrder) BitWriter {
	return BitWriter{
		data:  buf,
		order: order,
	}
}

// NewGrowingBuffer starts with capacity bytes and grows on demand.
func NewGrowingBuffer(capacity int, order binary.ByteOrder) BitWriter {
	w := NewEncodeBuffer(make([]byte, max(capacity, 16)), order)
	w.growingEnabled = true
	return w
}

func (w *BitWriter) grow(atLeast int) {

	newSize := len(w.data) * 2
	if w.pos+atLeast > newSize {
		newSize = w.pos + atLeast
	}

	newBuf := make([]byte, newSize)

	copy(newBuf, w.data[:w.pos])
	w.data = newBuf
}

func (w *BitWriter) tryGrow(n int) {
	if (w.pos + n) > len(w.data) {
		if w.growingEnabled {
			w.grow(n)
		} else {
			panic(fmt.Sprintf("bit writer growing is disabled on pos : %d, try grow %d, from size : %d", w.pos, n, len(w.data)))
		}
	}
}

func (w *BitWriter) Bytes() []byte {
	return w.data[:w.pos]
}

func (w *BitWriter) PutInt32Slice(arr []int32) {
	w.tryGrow(4 * len(arr))
	for _, v := range arr {
		w.order.PutUint32(w.data[w.pos:], uint32(v))
		w.pos += 4
	}
}

func (w *BitWriter) PutUint64(v uint64) {
	w.tryGrow(8)
	w.order.PutUint64(w.data[w.pos:], v)
	w.pos += 8
}
