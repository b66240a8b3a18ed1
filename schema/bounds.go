package schema

type BoundsFilterMatchResult uint8

const (
	UnknownIntersection BoundsFilterMatchResult = iota
	NoIntersection
	PartialIntersection
	FullIntersection
)

func (r BoundsFilterMatchResult) String() string {
	switch r {
	case NoIntersection:
		return "NoIntersection"
	case PartialIntersection:
		return "PartialIntersection"
	case FullIntersection:
		return "FullIntersection"
	default:
		return "UnknownIntersection"
	}
}

// Bounds holds min/max of a column, both inclusive.
type Bounds struct {
	Min Scalar
	Max Scalar
}

func NewBoundsFromValues(a, b Scalar) Bounds {
	if a > b {
		a, b = b, a
	}
	return Bounds{Min: a, Max: b}
}

// EmptyBounds is the neutral element for Morph.
func EmptyBounds() Bounds {
	return Bounds{Min: ScalarMax, Max: ScalarMin}
}

func (b *Bounds) Morph(other Bounds) bool {

	changes := 0

	if other.Min < b.Min {
		b.Min = other.Min
		changes += 1
	}
	if other.Max > b.Max {
		b.Max = other.Max
		changes += 1
	}

	return changes != 0
}

func (b *Bounds) Add(v Scalar) {
	if v < b.Min {
		b.Min = v
	}
	if v > b.Max {
		b.Max = v
	}
}

func (b Bounds) Contains(v Scalar) bool {
	return v >= b.Min && v <= b.Max
}

func (b Bounds) Valid() bool {
	return b.Min <= b.Max
}

// Intersects tells how a closed query range relates to the column bounds.
func (b Bounds) Intersects(r ScalarRange) BoundsFilterMatchResult {

	if !b.Valid() || r.Empty() {
		return NoIntersection
	}

	if r.Second < b.Min || r.First > b.Max {
		return NoIntersection
	}

	if r.First <= b.Min && r.Second >= b.Max {
		return FullIntersection
	}

	return PartialIntersection
}
