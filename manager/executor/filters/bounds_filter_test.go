package filters

import (
	"testing"

	"github.com/dot5enko/pointindex/schema"
	"github.com/stretchr/testify/assert"
)

func TestHeaderFullIntersectFilter(t *testing.T) {

	bounds := schema.NewBoundsFromValues(50, 80)

	result := MatchRangesOnBounds([]schema.ScalarRange{{First: 49, Second: schema.ScalarPInf}}, bounds)
	assert.Equal(t, schema.FullIntersection, result)

	// two adjacent ranges cover the column together
	result = MatchRangesOnBounds([]schema.ScalarRange{{First: 66, Second: 90}, {First: 10, Second: 65}}, bounds)
	assert.Equal(t, schema.FullIntersection, result)
}

func TestHeaderNoIntersectFilter(t *testing.T) {

	bounds := schema.NewBoundsFromValues(50, 80)

	result := MatchRangesOnBounds([]schema.ScalarRange{{First: schema.ScalarNInf, Second: 49}, {First: 81, Second: 100}}, bounds)
	assert.Equal(t, schema.NoIntersection, result)

	assert.Equal(t, schema.NoIntersection, MatchRangesOnBounds(nil, bounds))
	assert.Equal(t, schema.NoIntersection, MatchRangesOnBounds([]schema.ScalarRange{{First: 0, Second: 100}}, schema.EmptyBounds()))
}

func TestHeaderPartialIntersectFilter(t *testing.T) {

	bounds := schema.NewBoundsFromValues(50, 80)

	result := MatchRangesOnBounds([]schema.ScalarRange{{First: 10, Second: 59}}, bounds)
	assert.Equal(t, schema.PartialIntersection, result)

	// gap at 70 keeps it partial
	result = MatchRangesOnBounds([]schema.ScalarRange{{First: 0, Second: 69}, {First: 71, Second: 100}}, bounds)
	assert.Equal(t, schema.PartialIntersection, result)
}

func TestValuesOnBounds(t *testing.T) {

	bounds := schema.NewBoundsFromValues(3, 5)

	assert.Equal(t, schema.NoIntersection, MatchValuesOnBounds([]schema.Scalar{1, 2, 6}, bounds))
	assert.Equal(t, schema.PartialIntersection, MatchValuesOnBounds([]schema.Scalar{1, 4, 9}, bounds))
	assert.Equal(t, schema.FullIntersection, MatchValuesOnBounds([]schema.Scalar{2, 3, 4, 5}, bounds))
	assert.Equal(t, schema.NoIntersection, MatchValuesOnBounds(nil, bounds))
}
