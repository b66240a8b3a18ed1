package index

import (
	"fmt"
	"math"
	"slices"

	"github.com/dot5enko/pointindex/io"
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

func checkRewriterDims(mapped, target, dims int) error {

	if mapped == target {
		return fmt.Errorf("%w: mapped and target dimension are both %d", ErrInvalidRewriter, mapped)
	}

	if mapped < 0 || mapped >= dims || target < 0 || target >= dims {
		return fmt.Errorf("%w: dimensions %d -> %d outside of %d dims", ErrInvalidRewriter, mapped, target, dims)
	}

	return nil
}

// SingleColumnRewriter replaces a filter on the mapped column with the list of
// target values those mapped values were seen with.
type SingleColumnRewriter struct {
	mappedDim int
	targetDim int

	targets map[schema.Scalar][]schema.Scalar
	// sorted keys of targets, used for range filters
	keys []schema.Scalar
}

func NewSingleColumnRewriter(mapping *io.SingleColumnMapping, dims int) (*SingleColumnRewriter, error) {

	if err := checkRewriterDims(mapping.MappedDim, mapping.TargetDim, dims); err != nil {
		return nil, err
	}

	keys := make([]schema.Scalar, 0, len(mapping.Targets))
	for k := range mapping.Targets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return &SingleColumnRewriter{
		mappedDim: mapping.MappedDim,
		targetDim: mapping.TargetDim,
		targets:   mapping.Targets,
		keys:      keys,
	}, nil
}

func (s *SingleColumnRewriter) MappedDim() int { return s.mappedDim }
func (s *SingleColumnRewriter) TargetDim() int { return s.targetDim }

func (s *SingleColumnRewriter) Size() int {
	total := len(s.keys) * schema.ScalarSize
	for _, t := range s.targets {
		total += len(t) * schema.ScalarSize
	}
	return total
}

func (s *SingleColumnRewriter) collect(f query.QueryFilter) []schema.Scalar {

	var out []schema.Scalar

	if !f.IsRange {
		for _, v := range f.Values {
			out = append(out, s.targets[v]...)
		}
		return out
	}

	for _, r := range f.Ranges {
		from, _ := slices.BinarySearch(s.keys, r.First)
		for _, k := range s.keys[from:] {
			if k > r.Second {
				break
			}
			out = append(out, s.targets[k]...)
		}
	}

	return out
}

// Rewrite leaves q untouched when the mapped filter is absent or maps to nothing.
func (s *SingleColumnRewriter) Rewrite(q query.Query) query.Query {

	mapped := q.Filter(s.mappedDim)
	if !mapped.Present {
		return q
	}

	targets := s.collect(mapped)
	if len(targets) == 0 {
		return q
	}

	existing := q.Filter(s.targetDim)

	merged := targets[:0]
	for _, t := range targets {
		if existing.Matches(t) {
			merged = append(merged, t)
		}
	}

	return q.With(s.targetDim, query.ValuesFilter(merged...))
}

// LinearModelRewriter widens a mapped range into the target range predicted by
// target = A + B*mapped, padded by the model offset.
type LinearModelRewriter struct {
	model io.LinearModel
}

func NewLinearModelRewriter(model *io.LinearModel, dims int) (*LinearModelRewriter, error) {

	if err := checkRewriterDims(model.MappedDim, model.TargetDim, dims); err != nil {
		return nil, err
	}

	if math.IsNaN(model.A) || math.IsNaN(model.B) || math.IsNaN(model.Offset) {
		return nil, fmt.Errorf("%w: linear model has NaN coefficients", ErrInvalidRewriter)
	}

	return &LinearModelRewriter{model: *model}, nil
}

func (l *LinearModelRewriter) Size() int {
	return 3 * 8
}

func clampScalar(v float64) schema.Scalar {
	switch {
	case v <= float64(schema.ScalarMin):
		return schema.ScalarMin
	case v >= float64(schema.ScalarMax):
		return schema.ScalarMax
	}
	return schema.Scalar(v)
}

func (l *LinearModelRewriter) Rewrite(q query.Query) query.Query {

	mapped := q.Filter(l.model.MappedDim)
	if !mapped.Present {
		return q
	}

	hull, ok := mapped.Hull()
	if !ok {
		return q.With(l.model.TargetDim, query.RangesFilter())
	}

	offset := l.model.Offset
	if l.model.B < 0 {
		offset = -offset
	}

	lo := l.model.A + l.model.B*float64(hull.First) - offset
	hi := l.model.A + l.model.B*float64(hull.Second) + offset
	if hi < lo {
		lo, hi = hi, lo
	}

	if target := q.Filter(l.model.TargetDim); target.Present {
		existing, ok := target.Hull()
		if !ok {
			return q
		}
		lo = math.Max(lo, float64(existing.First))
		hi = math.Min(hi, float64(existing.Second))
	}

	if hi < lo {
		return q.With(l.model.TargetDim, query.RangesFilter())
	}

	return q.With(l.model.TargetDim, query.RangeFilter(clampScalar(math.Floor(lo)), clampScalar(math.Ceil(hi))))
}

// RewriterLoader resolves rewriter files. io.FileCache implements it.
type RewriterLoader interface {
	SingleColumnMapping(path string) (*io.SingleColumnMapping, error)
	LinearModel(path string) (*io.LinearModel, error)
}

const (
	RewriterLinear = "linear"
	RewriterSingle = "single"
)

func LoadRewriter(kind string, path string, dims int, loader RewriterLoader) (QueryRewriter, error) {

	switch kind {
	case RewriterLinear:
		model, err := loader.LinearModel(path)
		if err != nil {
			return nil, err
		}
		rw, err := NewLinearModelRewriter(model, dims)
		if err != nil {
			return nil, err
		}
		return rw, nil
	case RewriterSingle:
		mapping, err := loader.SingleColumnMapping(path)
		if err != nil {
			return nil, err
		}
		rw, err := NewSingleColumnRewriter(mapping, dims)
		if err != nil {
			return nil, err
		}
		return rw, nil
	default:
		return nil, fmt.Errorf("%w: unknown rewriter kind %q", ErrInvalidRewriter, kind)
	}
}
