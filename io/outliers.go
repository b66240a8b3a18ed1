package io

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	stdio "io"
	"os"

	"github.com/dot5enko/pointindex/bits"
	"github.com/dot5enko/pointindex/compression"
	"github.com/dot5enko/pointindex/schema"
)

const outlierEntrySize = 8

// ParseOutlierList decodes raw little endian uint64 positions.
func ParseOutlierList(raw []byte, name string) (schema.IndexList, error) {

	if len(raw)%outlierEntrySize != 0 {
		return nil, fmt.Errorf("%w: outlier list %s has %d bytes", ErrMalformedFile, name, len(raw))
	}

	out := make(schema.IndexList, 0, len(raw)/outlierEntrySize)
	br := bits.NewReader(bytes.NewReader(raw), binary.LittleEndian)

	for {
		v, err := br.ReadU64()
		if errors.Is(err, stdio.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("outlier list %s: %s", name, err.Error())
		}
		out = append(out, schema.PhysicalIndex(v))
	}

	return out, nil
}

func LoadOutlierList(path string) (schema.IndexList, error) {

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read outlier list: %s", err.Error())
	}

	raw, err = compression.DetectCodec(path).Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("unable to decompress outlier list %s: %s", path, err.Error())
	}

	return ParseOutlierList(raw, path)
}

func DumpOutlierList(path string, list schema.IndexList) error {

	buf := bits.NewGrowingBuffer(len(list)*outlierEntrySize, binary.LittleEndian)
	for _, p := range list {
		buf.PutUint64(uint64(p))
	}

	return writeEncoded(path, buf.Bytes())
}
