package schema

import "fmt"

// Point is a view into one row of a Points arena.
type Point []Scalar

// PointReader is the read-only access non-primary indexes get during Init.
type PointReader interface {
	Len() int
	NumDims() int
	Get(p PhysicalIndex) Point
	Coord(p PhysicalIndex, dim int) Scalar
}

// Points is a row-major arena of fixed dimension points.
type Points struct {
	dims int
	data []Scalar
}

func NewPoints(dims int, data []Scalar) *Points {

	if dims <= 0 {
		panic(fmt.Sprintf("points arena needs positive dimension count, got %d", dims))
	}

	if len(data)%dims != 0 {
		panic(fmt.Sprintf("points arena of %d values is not a multiple of %d dims", len(data), dims))
	}

	return &Points{dims: dims, data: data}
}

// PointsFromRows copies rows into a new arena.
func PointsFromRows(rows ...[]Scalar) *Points {

	if len(rows) == 0 {
		panic("no rows given")
	}

	dims := len(rows[0])
	data := make([]Scalar, 0, dims*len(rows))

	for i, row := range rows {
		if len(row) != dims {
			panic(fmt.Sprintf("row %d has %d dims, expected %d", i, len(row), dims))
		}
		data = append(data, row...)
	}

	return NewPoints(dims, data)
}

func (p *Points) Len() int {
	return len(p.data) / p.dims
}

func (p *Points) NumDims() int {
	return p.dims
}

func (p *Points) Get(pos PhysicalIndex) Point {
	off := int(pos) * p.dims
	return p.data[off : off+p.dims : off+p.dims]
}

func (p *Points) Coord(pos PhysicalIndex, dim int) Scalar {
	return p.data[int(pos)*p.dims+dim]
}

// Raw exposes the backing row-major slice.
func (p *Points) Raw() []Scalar {
	return p.data
}

// Column copies a single dimension out of the arena.
func (p *Points) Column(dim int) []Scalar {

	n := p.Len()
	out := make([]Scalar, n)

	for i, off := 0, dim; i < n; i, off = i+1, off+p.dims {
		out[i] = p.data[off]
	}

	return out
}

// Permute moves the point at old position i to position perm[i].
func (p *Points) Permute(perm []PhysicalIndex) {

	n := p.Len()
	if len(perm) != n {
		panic(fmt.Sprintf("permutation of size %d applied to %d points", len(perm), n))
	}

	result := make([]Scalar, len(p.data))
	seen := make([]bool, n)

	for old, dst := range perm {
		if dst < 0 || int(dst) >= n || seen[dst] {
			panic(fmt.Sprintf("invalid permutation target %d for position %d", dst, old))
		}
		seen[dst] = true
		copy(result[int(dst)*p.dims:], p.data[old*p.dims:(old+1)*p.dims])
	}

	p.data = result
}

// SortedPermutation turns "new position -> old position" order into the old -> new form Permute expects.
func SortedPermutation(order []PhysicalIndex) []PhysicalIndex {

	perm := make([]PhysicalIndex, len(order))
	for newPos, old := range order {
		perm[old] = PhysicalIndex(newPos)
	}

	return perm
}
