package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dot5enko/pointindex/schema"
)

var (
	ErrDimensionOutOfRange = errors.New("filter dimension out of range")
	ErrMixedOperands       = errors.New("value and range conditions on the same dimension")
	ErrArgumentCount       = errors.New("wrong number of condition arguments")
	ErrConditionSyntax     = errors.New("malformed condition")
)

// FilterCondition is a single predicate on one dimension, several conditions
// on the same dimension are AND-ed except EQ which accumulates an IN list.
type FilterCondition struct {
	Dim       int
	Operand   CondOperand
	Arguments []any
}

func (fc FilterCondition) ArgumentScalar(idx int) (schema.Scalar, error) {

	arg := fc.Arguments[idx]

	var v int64

	switch a := arg.(type) {
	case schema.Scalar:
		return a, nil
	case int:
		v = int64(a)
	case int64:
		v = a
	case int32:
		v = int64(a)
	case int16:
		v = int64(a)
	case int8:
		v = int64(a)
	case uint32:
		v = int64(a)
	case uint16:
		v = int64(a)
	case uint8:
		v = int64(a)
	case float64:
		if a != math.Trunc(a) {
			return 0, fmt.Errorf("filter cond argument %v is not integral", a)
		}
		v = int64(a)
	default:
		return 0, fmt.Errorf("filter cond argument is not numeric: %T", arg)
	}

	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("filter cond argument %d overflows scalar", v)
	}

	return schema.Scalar(v), nil
}

// ParseCondition reads `dim:op:arg[,arg...]`, for example `0:gt:10` or `2:range:5,9`.
func ParseCondition(expr string) (FilterCondition, error) {

	parts := strings.Split(expr, ":")
	if len(parts) != 3 {
		return FilterCondition{}, fmt.Errorf("%w: `%s`, expected dim:op:args", ErrConditionSyntax, expr)
	}

	dim, err := strconv.Atoi(parts[0])
	if err != nil {
		return FilterCondition{}, fmt.Errorf("%w: dimension `%s`", ErrConditionSyntax, parts[0])
	}

	op, err := ParseOperand(parts[1])
	if err != nil {
		return FilterCondition{}, fmt.Errorf("%w: %s", ErrConditionSyntax, err.Error())
	}

	cond := FilterCondition{Dim: dim, Operand: op}

	for _, field := range strings.Split(parts[2], ",") {
		v, convErr := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if convErr != nil {
			return FilterCondition{}, fmt.Errorf("%w: argument `%s`", ErrConditionSyntax, field)
		}
		cond.Arguments = append(cond.Arguments, v)
	}

	return cond, nil
}

// FromConditions turns flat conditions into a dims wide query.
func FromConditions(dims int, conds []FilterCondition) (Query, error) {

	q := New(dims)

	// running range per dimension for GT/LT/RANGE
	hulls := map[int]schema.ScalarRange{}

	for _, cond := range conds {

		if cond.Dim < 0 || cond.Dim >= dims {
			return q, fmt.Errorf("%w: %d of %d", ErrDimensionOutOfRange, cond.Dim, dims)
		}

		cur := q.Filters[cond.Dim]

		switch cond.Operand {
		case EQ:
			if cur.Present && cur.IsRange {
				return q, fmt.Errorf("%w: dim %d", ErrMixedOperands, cond.Dim)
			}
			if len(cond.Arguments) == 0 {
				return q, fmt.Errorf("%w: EQ needs at least one", ErrArgumentCount)
			}

			vals := append([]schema.Scalar{}, cur.Values...)
			for i := range cond.Arguments {
				v, err := cond.ArgumentScalar(i)
				if err != nil {
					return q, fmt.Errorf("dim %d: %s", cond.Dim, err.Error())
				}
				vals = append(vals, v)
			}

			q.Filters[cond.Dim] = ValuesFilter(vals...)

		case GT, LT, RANGE:
			if cur.Present && !cur.IsRange {
				return q, fmt.Errorf("%w: dim %d", ErrMixedOperands, cond.Dim)
			}

			r, err := cond.scalarRange()
			if err != nil {
				return q, fmt.Errorf("dim %d: %s", cond.Dim, err.Error())
			}

			hull, seen := hulls[cond.Dim]
			if !seen {
				hull = schema.Unbounded()
			}

			hull = schema.ScalarRange{
				First:  max(hull.First, r.First),
				Second: min(hull.Second, r.Second),
			}
			hulls[cond.Dim] = hull

			if hull.Empty() {
				q.Filters[cond.Dim] = RangesFilter()
			} else {
				q.Filters[cond.Dim] = RangesFilter(hull)
			}

		default:
			return q, fmt.Errorf("unsupported operand type=%v", cond.Operand)
		}
	}

	return q, nil
}

func (fc FilterCondition) scalarRange() (schema.ScalarRange, error) {

	switch fc.Operand {
	case GT, LT:
		if len(fc.Arguments) != 1 {
			return schema.ScalarRange{}, fmt.Errorf("%w: %s needs 1", ErrArgumentCount, fc.Operand)
		}
		v, err := fc.ArgumentScalar(0)
		if err != nil {
			return schema.ScalarRange{}, err
		}
		// nothing is above ScalarMax or below ScalarMin, the empty range avoids wrapping
		switch {
		case fc.Operand == GT && v == schema.ScalarMax:
			return schema.ScalarRange{First: schema.ScalarMax, Second: schema.ScalarMax - 1}, nil
		case fc.Operand == GT:
			return schema.ScalarRange{First: v + 1, Second: schema.ScalarMax}, nil
		case v == schema.ScalarMin:
			return schema.ScalarRange{First: schema.ScalarMin + 1, Second: schema.ScalarMin}, nil
		default:
			return schema.ScalarRange{First: schema.ScalarMin, Second: v - 1}, nil
		}

	default:
		if len(fc.Arguments) != 2 {
			return schema.ScalarRange{}, fmt.Errorf("%w: RANGE needs 2", ErrArgumentCount)
		}
		from, err := fc.ArgumentScalar(0)
		if err != nil {
			return schema.ScalarRange{}, err
		}
		to, err := fc.ArgumentScalar(1)
		if err != nil {
			return schema.ScalarRange{}, err
		}
		return schema.NewScalarRange(from, to), nil
	}
}
