package compression

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
)

func CompressZstd(src []byte, output *bytes.Buffer) error {

	zw, err := zstd.NewWriter(output)
	if err != nil {
		return err
	}

	if _, err = zw.Write(src); err != nil {
		zw.Close()
		return err
	}

	return zw.Close()
}

func DecompressZstd(src []byte) ([]byte, error) {

	zr, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return zr.DecodeAll(src, nil)
}
