package io

import (
	"bufio"
	"fmt"
	stdio "io"
	"os"
	"strings"

	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

const (
	workloadSeparator = "="

	filterNone   = "none"
	filterValues = "values"
	filterRanges = "ranges"
)

// ParseWorkload reads queries of dims filters each. Every query starts with a
// `=` line followed by one line per dimension. limit > 0 stops early.
func ParseWorkload(r stdio.Reader, name string, dims, limit int) ([]query.Query, error) {

	if dims <= 0 {
		return nil, fmt.Errorf("workload %s: dims must be positive, got %d", name, dims)
	}

	lr := NewLineReader(r, name)
	queries := []query.Query{}

	for limit <= 0 || len(queries) < limit {

		line, ok := lr.Next()
		if !ok {
			break
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if !strings.HasPrefix(line, workloadSeparator) {
			return nil, lr.Errorf("expected query separator `=`, got `%s`", line)
		}

		q := query.New(dims)

		for dim := range dims {

			fields, err := lr.NextFields(-1)
			if err != nil {
				return nil, err
			}

			if q.Filters[dim], err = parseFilter(lr, fields); err != nil {
				return nil, err
			}
		}

		queries = append(queries, q)
	}

	if err := lr.Err(); err != nil {
		return nil, err
	}

	return queries, nil
}

func parseFilter(lr *LineReader, fields []string) (query.QueryFilter, error) {

	if len(fields) == 0 {
		return query.Absent(), nil
	}

	switch fields[0] {
	case filterNone:
		if len(fields) != 1 {
			return query.QueryFilter{}, lr.Errorf("`none` takes no arguments")
		}
		return query.Absent(), nil

	case filterValues:
		vals, err := lr.Scalars(fields[1:])
		if err != nil {
			return query.QueryFilter{}, err
		}
		return query.ValuesFilter(vals...), nil

	case filterRanges:
		bounds, err := lr.Scalars(fields[1:])
		if err != nil {
			return query.QueryFilter{}, err
		}
		if len(bounds)%2 != 0 {
			return query.QueryFilter{}, lr.Errorf("ranges need pairs of bounds, got %d values", len(bounds))
		}

		ranges := make([]schema.ScalarRange, 0, len(bounds)/2)
		for i := 0; i < len(bounds); i += 2 {
			ranges = append(ranges, schema.NewScalarRange(bounds[i], bounds[i+1]))
		}
		return query.RangesFilter(ranges...), nil

	default:
		// bare list of values
		vals, err := lr.Scalars(fields)
		if err != nil {
			return query.QueryFilter{}, err
		}
		return query.ValuesFilter(vals...), nil
	}
}

func LoadWorkload(path string, dims, limit int) ([]query.Query, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open workload: %s", err.Error())
	}
	defer f.Close()

	return ParseWorkload(bufio.NewReader(f), path, dims, limit)
}

// WriteWorkload writes queries in the format ParseWorkload reads.
func WriteWorkload(w stdio.Writer, queries []query.Query) error {

	bw := bufio.NewWriter(w)

	for _, q := range queries {
		if _, err := bw.WriteString(workloadSeparator + "\n"); err != nil {
			return err
		}
		for _, f := range q.Filters {
			if _, err := bw.WriteString(f.String() + "\n"); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}
