package io

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/dot5enko/pointindex/bits"
	"github.com/dot5enko/pointindex/compression"
	"github.com/dot5enko/pointindex/schema"
)

type PointsLoadOptions struct {
	Dims int
	// map uncompressed files instead of reading them, little endian hosts only
	Mmap bool
	// keep at most this many points, zero keeps all
	Limit int
}

// LoadedPoints owns the memory behind Points, Close releases a mapping.
type LoadedPoints struct {
	Points *schema.Points
	Codec  compression.Codec

	mapped *MappedFile
}

func (l *LoadedPoints) Mapped() bool {
	return l.mapped != nil
}

func (l *LoadedPoints) Close() error {
	return l.mapped.Close()
}

func littleEndianHost() bool {
	var probe uint16 = 1
	return bits.SliceToBytes([]uint16{probe})[0] == 1
}

// LoadPoints reads a raw little endian int32 point file, the suffix selects a codec.
func LoadPoints(path string, opts PointsLoadOptions) (*LoadedPoints, error) {

	if opts.Dims <= 0 {
		return nil, fmt.Errorf("points file %s: dims must be positive, got %d", path, opts.Dims)
	}

	codec := compression.DetectCodec(path)

	if opts.Mmap && codec == compression.None && littleEndianHost() {
		return mapPoints(path, opts)
	}

	reader := NewFileReader(path)
	if !reader.Exists() {
		return nil, fmt.Errorf("points file %s not found", path)
	}

	if err := reader.Open(true); err != nil {
		return nil, fmt.Errorf("unable to open points file: %s", err.Error())
	}
	defer reader.Close()

	raw, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	raw, err = codec.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("unable to decompress %s points file %s: %s", codec.String(), path, err.Error())
	}

	count, err := valueCount(path, len(raw), opts)
	if err != nil {
		return nil, err
	}

	values := make([]int32, count)

	br := bits.NewReader(bytes.NewReader(raw), binary.LittleEndian)
	if err = br.ReadI32Slice(values); err != nil {
		return nil, fmt.Errorf("unable to decode points file %s: %s", path, err.Error())
	}

	data := bits.MapBytesToSlice[schema.Scalar](bits.SliceToBytes(values), count)

	slog.Debug("loaded points", "path", path, "codec", codec.String(), "points", count/opts.Dims)

	return &LoadedPoints{
		Points: schema.NewPoints(opts.Dims, data),
		Codec:  codec,
	}, nil
}

func mapPoints(path string, opts PointsLoadOptions) (*LoadedPoints, error) {

	mapped, err := MapFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to map points file %s: %s", path, err.Error())
	}

	count, err := valueCount(path, len(mapped.Data), opts)
	if err != nil {
		mapped.Close()
		return nil, err
	}

	data := bits.MapBytesToSlice[schema.Scalar](mapped.Data, count)

	slog.Debug("mapped points", "path", path, "points", count/opts.Dims)

	return &LoadedPoints{
		Points: schema.NewPoints(opts.Dims, data),
		Codec:  compression.None,
		mapped: mapped,
	}, nil
}

func valueCount(path string, size int, opts PointsLoadOptions) (int, error) {

	pointSize := opts.Dims * schema.ScalarSize

	if size%pointSize != 0 {
		return 0, fmt.Errorf("%w: points file %s has %d bytes, not a multiple of %d dims", ErrMalformedFile, path, size, opts.Dims)
	}

	points := size / pointSize
	if opts.Limit > 0 {
		points = min(points, opts.Limit)
	}

	return points * opts.Dims, nil
}

// DumpPoints writes points in the raw format, compressed according to the suffix.
func DumpPoints(path string, points *schema.Points) error {

	raw := points.Raw()

	buf := bits.NewGrowingBuffer(len(raw)*schema.ScalarSize, binary.LittleEndian)
	buf.PutInt32Slice(bits.MapBytesToSlice[int32](bits.SliceToBytes(raw), len(raw)))

	return writeEncoded(path, buf.Bytes())
}

func writeEncoded(path string, payload []byte) error {

	codec := compression.DetectCodec(path)

	encoded, err := codec.Compress(payload)
	if err != nil {
		return fmt.Errorf("unable to compress %s: %s", path, err.Error())
	}

	writer := NewFileReader(path)
	if err = writer.Open(false); err != nil {
		return fmt.Errorf("unable to create %s: %s", path, err.Error())
	}
	defer writer.Close()

	if err = writer.WriteAt(encoded, 0); err != nil {
		return fmt.Errorf("unable to write %s: %s", path, err.Error())
	}

	slog.Debug("written file", "path", path, "bytes", len(encoded), "codec", codec.String())

	return nil
}
