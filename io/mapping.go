package io

import (
	"bufio"
	"fmt"
	stdio "io"
	"os"

	"github.com/dot5enko/pointindex/schema"
)

const (
	mappingMagic       = "continuous-0"
	mappingSource      = "source"
	mappingSection     = "mapping"
	targetRangesHeader = "target_index_ranges"
)

type MappedBucket struct {
	Id    int
	Range schema.ScalarRange
}

// CorrelationMapping maps buckets of a mapped column to buckets of the target
// column sort order.
type CorrelationMapping struct {
	Column  int
	Buckets []MappedBucket
	// mapped bucket id -> target bucket ids
	Targets map[int][]int
}

// TargetBuckets maps a target bucket id to its physical range.
type TargetBuckets map[int]schema.PhysicalIndexRange

func ParseMapping(r stdio.Reader, name string) (*CorrelationMapping, error) {

	lr := NewLineReader(r, name)

	if err := lr.Expect(mappingMagic); err != nil {
		return nil, err
	}

	header, err := lr.Header(mappingSource, 2)
	if err != nil {
		return nil, err
	}

	column, err := lr.Int(header[0])
	if err != nil {
		return nil, err
	}

	size, err := lr.Int(header[1])
	if err != nil {
		return nil, err
	}

	result := &CorrelationMapping{
		Column:  column,
		Buckets: make([]MappedBucket, 0, size),
	}

	seen := make(map[int]struct{}, size)

	for range size {

		fields, err := lr.NextFields(3)
		if err != nil {
			return nil, err
		}

		id, err := lr.Float(fields[0])
		if err != nil {
			return nil, err
		}

		// bounds are stored as doubles
		lo, err := lr.Float(fields[1])
		if err != nil {
			return nil, err
		}
		hi, err := lr.Float(fields[2])
		if err != nil {
			return nil, err
		}

		if _, dup := seen[int(id)]; dup {
			return nil, lr.Errorf("duplicate mapped bucket %d", int(id))
		}
		seen[int(id)] = struct{}{}

		result.Buckets = append(result.Buckets, MappedBucket{
			Id:    int(id),
			Range: schema.ScalarRange{First: schema.Scalar(lo), Second: schema.Scalar(hi)},
		})
	}

	header, err = lr.Header(mappingSection, 1)
	if err != nil {
		return nil, err
	}

	entries, err := lr.Int(header[0])
	if err != nil {
		return nil, err
	}

	if entries > size {
		return nil, lr.Errorf("mapping has %d entries for %d buckets", entries, size)
	}

	result.Targets = make(map[int][]int, entries)

	for range entries {

		fields, err := lr.NextFields(-1)
		if err != nil {
			return nil, err
		}

		if len(fields) == 0 {
			return nil, lr.Errorf("empty mapping entry")
		}

		ids, err := lr.Ints(fields)
		if err != nil {
			return nil, err
		}

		result.Targets[ids[0]] = ids[1:]
	}

	return result, nil
}

func ParseTargetBuckets(r stdio.Reader, name string) (TargetBuckets, error) {

	lr := NewLineReader(r, name)

	header, err := lr.Header(targetRangesHeader, 1)
	if err != nil {
		return nil, err
	}

	size, err := lr.Int(header[0])
	if err != nil {
		return nil, err
	}

	targets := make(TargetBuckets, size)

	for range size {

		fields, err := lr.NextFields(3)
		if err != nil {
			return nil, err
		}

		vals, err := lr.Ints(fields)
		if err != nil {
			return nil, err
		}

		targets[vals[0]] = schema.PhysicalIndexRange{
			Start: schema.PhysicalIndex(vals[1]),
			End:   schema.PhysicalIndex(vals[2]),
		}
	}

	return targets, nil
}

func LoadMapping(path string) (*CorrelationMapping, error) {
	return parseFile(path, ParseMapping)
}

func LoadTargetBuckets(path string) (TargetBuckets, error) {
	return parseFile(path, ParseTargetBuckets)
}

func parseFile[T any](path string, parse func(stdio.Reader, string) (T, error)) (T, error) {

	var empty T

	f, err := os.Open(path)
	if err != nil {
		return empty, fmt.Errorf("unable to open %s: %s", path, err.Error())
	}
	defer f.Close()

	return parse(bufio.NewReader(f), path)
}
