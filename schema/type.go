package schema

import (
	"fmt"
	"math"
)

// Scalar is the value type of every point coordinate.
type Scalar int32

const (
	ScalarMax Scalar = math.MaxInt32
	ScalarMin Scalar = math.MinInt32

	// open bounds of generated workloads, compared literally like any other value
	ScalarPInf Scalar = 1 << 30
	ScalarNInf Scalar = -(1 << 30)

	// synthetic bucket value assigned to outliers, never present in real data
	OutlierBucket = ScalarMax
)

const ScalarSize = 4

// ScalarRange is a closed interval [First, Second].
type ScalarRange struct {
	First  Scalar
	Second Scalar
}

func NewScalarRange(first, second Scalar) ScalarRange {
	if first > second {
		first, second = second, first
	}
	return ScalarRange{First: first, Second: second}
}

// Unbounded covers every Scalar.
func Unbounded() ScalarRange {
	return ScalarRange{First: ScalarMin, Second: ScalarMax}
}

func (r ScalarRange) Contains(v Scalar) bool {
	return v >= r.First && v <= r.Second
}

func (r ScalarRange) Empty() bool {
	return r.First > r.Second
}

// Intersect returns the overlap of both ranges, ok is false when they are disjoint.
func (r ScalarRange) Intersect(other ScalarRange) (ScalarRange, bool) {

	res := ScalarRange{
		First:  max(r.First, other.First),
		Second: min(r.Second, other.Second),
	}

	return res, !res.Empty()
}

func (r ScalarRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.First, r.Second)
}

func ScalarRangeLess(a, b ScalarRange) bool {
	if a.First != b.First {
		return a.First < b.First
	}
	return a.Second < b.Second
}
