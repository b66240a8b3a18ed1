package io

import (
	stdio "io"
	"strings"

	"github.com/dot5enko/pointindex/schema"
)

const linearMagic = "linear"

// SingleColumnMapping maps values of one column to value lists of another.
type SingleColumnMapping struct {
	MappedDim int
	TargetDim int

	Targets map[schema.Scalar][]schema.Scalar
}

// LinearModel describes target = A + B*mapped, within +/- Offset.
type LinearModel struct {
	MappedDim int
	TargetDim int

	A      float64
	B      float64
	Offset float64
}

// ParseSingleColumnMapping reads `mapped_dim target_dim` followed by pairs of
// `value count` and target list lines, input ends at the first empty line.
func ParseSingleColumnMapping(r stdio.Reader, name string) (*SingleColumnMapping, error) {

	lr := NewLineReader(r, name)

	fields, err := lr.NextFields(2)
	if err != nil {
		return nil, err
	}

	dims, err := lr.Ints(fields)
	if err != nil {
		return nil, err
	}

	result := &SingleColumnMapping{
		MappedDim: dims[0],
		TargetDim: dims[1],
		Targets:   map[schema.Scalar][]schema.Scalar{},
	}

	for {
		line, ok := lr.Next()
		if !ok || strings.TrimSpace(line) == "" {
			break
		}

		head := strings.Fields(line)
		if len(head) != 2 {
			return nil, lr.Errorf("expected `value count`, got `%s`", line)
		}

		value, err := lr.Scalar(head[0])
		if err != nil {
			return nil, err
		}

		count, err := lr.Int(head[1])
		if err != nil {
			return nil, err
		}

		targetFields, err := lr.NextFields(-1)
		if err != nil {
			return nil, err
		}

		targets, err := lr.Scalars(targetFields)
		if err != nil {
			return nil, err
		}

		if _, dup := result.Targets[value]; dup {
			return nil, lr.Errorf("duplicate mapped value %d", value)
		}

		if len(targets) != count {
			return nil, lr.Errorf("value %d declares %d targets, got %d", value, count, len(targets))
		}

		result.Targets[value] = targets
	}

	if err := lr.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func ParseLinearModel(r stdio.Reader, name string) (*LinearModel, error) {

	lr := NewLineReader(r, name)

	if err := lr.Expect(linearMagic); err != nil {
		return nil, err
	}

	fields, err := lr.NextFields(2)
	if err != nil {
		return nil, err
	}

	dims, err := lr.Ints(fields)
	if err != nil {
		return nil, err
	}

	model := &LinearModel{MappedDim: dims[0], TargetDim: dims[1]}

	if fields, err = lr.NextFields(2); err != nil {
		return nil, err
	}

	if model.A, err = lr.Float(fields[0]); err != nil {
		return nil, err
	}
	if model.B, err = lr.Float(fields[1]); err != nil {
		return nil, err
	}

	if fields, err = lr.NextFields(1); err != nil {
		return nil, err
	}

	if model.Offset, err = lr.Float(fields[0]); err != nil {
		return nil, err
	}

	return model, nil
}

func LoadSingleColumnMapping(path string) (*SingleColumnMapping, error) {
	return parseFile(path, ParseSingleColumnMapping)
}

func LoadLinearModel(path string) (*LinearModel, error) {
	return parseFile(path, ParseLinearModel)
}
