package compression

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

type Codec byte

const (
	None Codec = iota
	Lz4
	Zstd
)

func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case Lz4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", byte(c))
	}
}

// DetectCodec picks the codec from the file suffix.
func DetectCodec(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lz4":
		return Lz4
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}

func (c Codec) Compress(src []byte) ([]byte, error) {

	switch c {
	case None:
		return src, nil
	case Lz4:
		out := bytes.Buffer{}
		err := CompressLz4(src, &out)
		return out.Bytes(), err
	case Zstd:
		out := bytes.Buffer{}
		err := CompressZstd(src, &out)
		return out.Bytes(), err
	default:
		return nil, fmt.Errorf("unsupported codec %s", c.String())
	}
}

func (c Codec) Decompress(src []byte) ([]byte, error) {

	switch c {
	case None:
		return src, nil
	case Lz4:
		return DecompressLz4(src)
	case Zstd:
		return DecompressZstd(src)
	default:
		return nil, fmt.Errorf("unsupported codec %s", c.String())
	}
}

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// NewReader wraps r with a streaming decompressor.
func (c Codec) NewReader(r io.Reader) (io.ReadCloser, error) {

	switch c {
	case None:
		return io.NopCloser(r), nil
	case Lz4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{zr}, nil
	default:
		return nil, fmt.Errorf("unsupported codec %s", c.String())
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w with a streaming compressor, Close flushes the frame.
func (c Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {

	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Lz4:
		return lz4.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w)
	default:
		return nil, fmt.Errorf("unsupported codec %s", c.String())
	}
}
