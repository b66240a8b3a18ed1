package index

import (
	"errors"
	"fmt"

	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

type Type byte

const (
	Primary Type = iota
	Secondary
	Correlation
	Rewriting
)

func (t Type) String() string {
	switch t {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Correlation:
		return "correlation"
	case Rewriting:
		return "rewriting"
	default:
		return fmt.Sprintf("type(%d)", byte(t))
	}
}

var (
	ErrUnknownIndexType = errors.New("unknown index type")
	ErrUnsupportedIndex = errors.New("unsupported index type")
	ErrSpecSyntax       = errors.New("index spec syntax error")
	ErrRootNotPrimary   = errors.New("root index must be a primary index")
	ErrMixedFamilies    = errors.New("composite children of different families")
	ErrInvalidMapping   = errors.New("invalid correlation mapping")
	ErrInvalidRewriter  = errors.New("invalid rewriter")
)

// Indexer is the part every index shares. Columns is valid after Init.
type Indexer interface {
	Type() Type
	Columns() []int
	// estimated memory footprint in bytes
	Size() int
}

// PrimaryIndexer owns the physical order. Init may permute points, Ranges returns
// a superset of matching positions and optionally filters to add to the query.
type PrimaryIndexer interface {
	Indexer
	Init(points *schema.Points)
	Ranges(q query.Query) (schema.PhysicalIndexSet, query.Patch)
}

// SecondaryIndexer returns exactly the positions matching the filter on its column,
// in no particular order. An absent filter yields every position.
type SecondaryIndexer interface {
	Indexer
	Init(points schema.PointReader)
	Column() int
	Matches(q query.Query) schema.IndexList
}

// CorrelationIndexer translates a filter on its mapped column into positions in
// the primary sort order.
type CorrelationIndexer interface {
	Indexer
	Init(points schema.PointReader)
	MappedColumn() int
	Ranges(q query.Query) schema.PhysicalIndexSet
}

// RewritingIndexer lists sorted positions matching the mapped filter that the
// primary ranges cannot express.
type RewritingIndexer interface {
	Indexer
	Init(points schema.PointReader)
	MappedColumn() int
	Rewrite(q query.Query) schema.IndexList
}

// QueryRewriter expands a filter on one dimension into a filter on another.
type QueryRewriter interface {
	Rewrite(q query.Query) query.Query
	Size() int
}

// lifecycle enforces init once, query after init.
type lifecycle struct {
	ready bool
}

func (l *lifecycle) begin(name string) {
	if l.ready {
		panic(fmt.Sprintf("%s initialized twice", name))
	}
}

func (l *lifecycle) done() {
	l.ready = true
}

func (l *lifecycle) check(name string) {
	if !l.ready {
		panic(fmt.Sprintf("%s queried before init", name))
	}
}

// allPositions is the answer for an absent filter.
func allPositions(n int) schema.IndexList {
	out := make(schema.IndexList, n)
	for i := range out {
		out[i] = schema.PhysicalIndex(i)
	}
	return out
}

func schemaDimError(dim, dims int) string {
	return fmt.Sprintf("indexed column %d outside of %d dims", dim, dims)
}
