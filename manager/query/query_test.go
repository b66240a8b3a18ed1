package query

import (
	"testing"

	"github.com/dot5enko/pointindex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterConstructors(t *testing.T) {

	f := ValuesFilter(5, 1, 3, 1)
	assert.True(t, f.Present)
	assert.False(t, f.IsRange)
	assert.Equal(t, []schema.Scalar{1, 3, 5}, f.Values)
	assert.True(t, f.Matches(3))
	assert.False(t, f.Matches(2))

	r := RangesFilter(schema.ScalarRange{First: 10, Second: 20}, schema.ScalarRange{First: 1, Second: 2})
	assert.True(t, r.IsRange)
	assert.Equal(t, schema.Scalar(1), r.Ranges[0].First)
	assert.True(t, r.Matches(20))
	assert.True(t, r.Matches(1))
	assert.False(t, r.Matches(5))

	assert.True(t, Absent().Matches(schema.ScalarMin))
	assert.Equal(t, "values 1 3 5", f.String())
	assert.Equal(t, "ranges 1 2 10 20", r.String())
	assert.Equal(t, "none", Absent().String())
}

func TestFilterHull(t *testing.T) {

	hull, ok := ValuesFilter(7, 2, 4).Hull()
	require.True(t, ok)
	assert.Equal(t, schema.ScalarRange{First: 2, Second: 7}, hull)

	_, ok = RangesFilter().Hull()
	assert.False(t, ok)

	hull, ok = Absent().Hull()
	require.True(t, ok)
	assert.Equal(t, schema.Unbounded(), hull)
	assert.True(t, hull.Contains(schema.ScalarMax))
	assert.True(t, hull.Contains(schema.ScalarMin))
}

func TestQueryWithDoesNotMutate(t *testing.T) {

	q := New(2)
	q2 := q.With(1, ValuesFilter(3))

	assert.False(t, q.Filter(1).Present)
	assert.True(t, q2.Filter(1).Present)

	assert.Panics(t, func() { q.Filter(2) })
}

func TestPatchApply(t *testing.T) {

	q := New(3).With(0, RangeFilter(1, 5))
	patch := Patch{2: ValuesFilter(9)}

	patched := patch.Apply(q)

	assert.False(t, q.Filter(2).Present)
	assert.Equal(t, []schema.Scalar{9}, patched.Filter(2).Values)
	assert.Equal(t, q.Filter(0), patched.Filter(0))

	merged := patch.Merge(Patch{1: Absent(), 2: ValuesFilter(1)})
	assert.Equal(t, []int{1, 2}, merged.Dims())
	assert.Equal(t, []schema.Scalar{1}, merged[2].Values)

	var empty Patch
	assert.True(t, empty.Empty())
	assert.Equal(t, q, empty.Apply(q))
}

func TestFromConditions(t *testing.T) {

	q, err := FromConditions(3, []FilterCondition{
		{Dim: 0, Operand: EQ, Arguments: []any{4, 1}},
		{Dim: 0, Operand: EQ, Arguments: []any{int64(2)}},
		{Dim: 1, Operand: GT, Arguments: []any{10}},
		{Dim: 1, Operand: LT, Arguments: []any{20}},
		{Dim: 2, Operand: RANGE, Arguments: []any{9, 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, []schema.Scalar{1, 2, 4}, q.Filter(0).Values)
	assert.Equal(t, []schema.ScalarRange{{First: 11, Second: 19}}, q.Filter(1).Ranges)
	assert.Equal(t, []schema.ScalarRange{{First: 3, Second: 9}}, q.Filter(2).Ranges)
}

func TestFromConditionsErrors(t *testing.T) {

	_, err := FromConditions(2, []FilterCondition{{Dim: 2, Operand: EQ, Arguments: []any{1}}})
	assert.ErrorIs(t, err, ErrDimensionOutOfRange)

	_, err = FromConditions(2, []FilterCondition{
		{Dim: 0, Operand: EQ, Arguments: []any{1}},
		{Dim: 0, Operand: GT, Arguments: []any{1}},
	})
	assert.ErrorIs(t, err, ErrMixedOperands)

	_, err = FromConditions(2, []FilterCondition{{Dim: 0, Operand: RANGE, Arguments: []any{1}}})
	assert.ErrorIs(t, err, ErrArgumentCount)

	_, err = FromConditions(2, []FilterCondition{{Dim: 0, Operand: EQ, Arguments: []any{"x"}}})
	assert.Error(t, err)

	_, err = FromConditions(2, []FilterCondition{{Dim: 0, Operand: EQ, Arguments: []any{int64(1) << 40}}})
	assert.Error(t, err)
}

func TestFromConditionsDisjointRanges(t *testing.T) {

	q, err := FromConditions(1, []FilterCondition{
		{Dim: 0, Operand: GT, Arguments: []any{10}},
		{Dim: 0, Operand: LT, Arguments: []any{5}},
	})
	require.NoError(t, err)

	f := q.Filter(0)
	assert.True(t, f.Present)
	assert.Empty(t, f.Ranges)
	assert.False(t, f.Matches(7))
}

func TestFromConditionsOpenBounds(t *testing.T) {

	q, err := FromConditions(2, []FilterCondition{
		{Dim: 0, Operand: GT, Arguments: []any{10}},
		{Dim: 1, Operand: LT, Arguments: []any{0}},
	})
	require.NoError(t, err)

	assert.Equal(t, []schema.ScalarRange{{First: 11, Second: schema.ScalarMax}}, q.Filter(0).Ranges)
	assert.True(t, q.Filter(0).Matches(schema.ScalarPInf+5))
	assert.Equal(t, []schema.ScalarRange{{First: schema.ScalarMin, Second: -1}}, q.Filter(1).Ranges)
	assert.True(t, q.Filter(1).Matches(schema.ScalarNInf-5))

	q, err = FromConditions(2, []FilterCondition{
		{Dim: 0, Operand: GT, Arguments: []any{int64(schema.ScalarMax)}},
		{Dim: 1, Operand: LT, Arguments: []any{int64(schema.ScalarMin)}},
	})
	require.NoError(t, err)

	for dim := range 2 {
		assert.True(t, q.Filter(dim).Present)
		assert.Empty(t, q.Filter(dim).Ranges)
	}
}

func TestCondOperandString(t *testing.T) {

	assert.Equal(t, "RANGE", RANGE.String())
	assert.PanicsWithValue(t, "unknown operand 9", func() { _ = CondOperand(9).String() })
}

func TestParseCondition(t *testing.T) {

	cond, err := ParseCondition("2:range:5,9")
	require.NoError(t, err)
	assert.Equal(t, FilterCondition{Dim: 2, Operand: RANGE, Arguments: []any{int64(5), int64(9)}}, cond)

	cond, err = ParseCondition("0:EQ:1, 3")
	require.NoError(t, err)
	assert.Equal(t, EQ, cond.Operand)
	assert.Len(t, cond.Arguments, 2)

	for _, expr := range []string{"0:gt", "x:gt:1", "0:between:1", "0:eq:1,a", "0:eq:"} {
		_, err = ParseCondition(expr)
		assert.ErrorIs(t, err, ErrConditionSyntax, expr)
	}

	q, err := FromConditions(3, []FilterCondition{
		mustParseCondition(t, "0:gt:10"),
		mustParseCondition(t, "0:lt:20"),
		mustParseCondition(t, "1:eq:4,2"),
	})
	require.NoError(t, err)
	assert.Equal(t, []schema.ScalarRange{{First: 11, Second: 19}}, q.Filter(0).Ranges)
	assert.Equal(t, []schema.Scalar{2, 4}, q.Filter(1).Values)
	assert.False(t, q.Filter(2).Present)
}

func mustParseCondition(t *testing.T, expr string) FilterCondition {
	t.Helper()
	cond, err := ParseCondition(expr)
	require.NoError(t, err)
	return cond
}

func TestPlannerPartition(t *testing.T) {

	q := New(4).
		With(0, ValuesFilter(1, 2)).
		With(1, RangeFilter(0, 100)).
		With(2, RangeFilter(5, 6))

	bounds := func(dim int) schema.Bounds {
		return schema.NewBoundsFromValues(0, 10)
	}

	plan := NewQueryPlanner().Plan(q, bounds)

	require.False(t, plan.Empty)
	require.Len(t, plan.Categorical, 1)
	assert.Equal(t, 0, plan.Categorical[0].Dim)
	assert.Contains(t, plan.Categorical[0].Set, schema.Scalar(2))

	require.Len(t, plan.Ranges, 1)
	assert.Equal(t, 2, plan.Ranges[0].Dim)
	assert.Equal(t, []int{1}, plan.Skipped)
	assert.Equal(t, 2, plan.Predicates())

	assert.True(t, plan.Matches(schema.Point{2, 50, 5, 0}))
	assert.False(t, plan.Matches(schema.Point{3, 50, 5, 0}))
	assert.False(t, plan.Matches(schema.Point{2, 50, 7, 0}))
}

func TestPlannerEmpty(t *testing.T) {

	q := New(2).With(1, RangeFilter(50, 60))

	plan := NewQueryPlanner().Plan(q, func(dim int) schema.Bounds {
		return schema.NewBoundsFromValues(0, 10)
	})

	assert.True(t, plan.Empty)
	assert.Equal(t, []int{1}, plan.EmptyDims)

	// without bounds nothing is pruned
	plan = NewQueryPlanner().Plan(q, nil)
	assert.False(t, plan.Empty)
	assert.Len(t, plan.Ranges, 1)

	plan = NewQueryPlanner().Plan(New(1).With(0, ValuesFilter()), nil)
	assert.True(t, plan.Empty)
}

func TestSelectorParse(t *testing.T) {

	s, err := ParseSelector("sum", 2)
	require.NoError(t, err)
	assert.Equal(t, SelectSum, s.Type)
	assert.Equal(t, 2, s.Dim)
	assert.Equal(t, "sum", s.Type.String())

	_, err = ParseSelector("median", 0)
	assert.Error(t, err)
}
