package bits

import (
	"encoding/binary"
	"errors"
	"io"
)

var (
	ErrReadMismatch = errors.New("read size mismatch")
)

const MaxBinReaderBufferSize = 256

type BitsReader struct {
	readBuffer [MaxBinReaderBufferSize]byte

	buf   io.Reader
	order binary.ByteOrder

	consumed int
}

func NewReader(buf io.Reader, order binary.ByteOrder) *BitsReader {
	return &BitsReader{buf: buf, order: order}
}

// Consumed returns the number of bytes read so far.
func (r *BitsReader) Consumed() int {
	return r.consumed
}

// io.EOF is returned untouched when the stream ends on a value boundary
func (r *BitsReader) readNextBytesIntoReadBuffer(size int) error {
	readBytes, err := io.ReadFull(r.buf, r.readBuffer[:size])
	r.consumed += readBytes

	if err == io.ErrUnexpectedEOF {
		return ErrReadMismatch
	}

	return err
}

func (r *BitsReader) ReadU32() (uint32, error) {
	readErr := r.readNextBytesIntoReadBuffer(4)
	if readErr != nil {
		return 0, readErr
	}
	v := r.order.Uint32(r.readBuffer[:4])
	return v, nil
}

func (r *BitsReader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *BitsReader) ReadU64() (uint64, error) {

	readErr := r.readNextBytesIntoReadBuffer(8)
	if readErr != nil {
		return 0, readErr
	}

	v := r.order.Uint64(r.readBuffer[:8])
	return v, nil
}

// ReadI32Slice fills out completely or fails.
func (r *BitsReader) ReadI32Slice(out []int32) error {
	for i := range out {
		v, err := r.ReadI32()
		if err != nil {
			if err == io.EOF && i > 0 {
				return ErrReadMismatch
			}
			return err
		}
		out[i] = v
	}
	return nil
}
