package index

import (
	"fmt"
	"slices"

	"github.com/dot5enko/pointindex/schema"
	"golang.org/x/sync/errgroup"
)

// Family is the homogeneous child collection of a CompositeIndex. The set of
// implementations is closed: Secondaries, Correlations and Rewriters.
type Family interface {
	Kind() Type
	Len() int

	indexers() []Indexer
	initAll(points schema.PointReader)
}

type (
	Secondaries  []SecondaryIndexer
	Correlations []CorrelationIndexer
	Rewriters    []RewritingIndexer
)

func (Secondaries) Kind() Type  { return Secondary }
func (Correlations) Kind() Type { return Correlation }
func (Rewriters) Kind() Type    { return Rewriting }

func (f Secondaries) Len() int  { return len(f) }
func (f Correlations) Len() int { return len(f) }
func (f Rewriters) Len() int    { return len(f) }

func (f Secondaries) indexers() []Indexer {
	out := make([]Indexer, len(f))
	for i, it := range f {
		out[i] = it
	}
	return out
}

func (f Correlations) indexers() []Indexer {
	out := make([]Indexer, len(f))
	for i, it := range f {
		out[i] = it
	}
	return out
}

func (f Rewriters) indexers() []Indexer {
	out := make([]Indexer, len(f))
	for i, it := range f {
		out[i] = it
	}
	return out
}

func (f Secondaries) initAll(points schema.PointReader) {
	initConcurrently(len(f), func(i int) { f[i].Init(points) })
}

func (f Correlations) initAll(points schema.PointReader) {
	initConcurrently(len(f), func(i int) { f[i].Init(points) })
}

func (f Rewriters) initAll(points schema.PointReader) {
	initConcurrently(len(f), func(i int) { f[i].Init(points) })
}

// initConcurrently runs read only child inits in parallel. A panicking child is
// re-raised on the calling goroutine.
func initConcurrently(n int, initChild func(i int)) {

	g := errgroup.Group{}

	for i := range n {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("child %d init: %v", i, r)
				}
			}()

			initChild(i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		panic(err.Error())
	}
}

func familyColumns(f Family) []int {

	cols := []int{}
	for _, it := range f.indexers() {
		cols = append(cols, it.Columns()...)
	}

	return cols
}

func familySize(f Family) int {
	total := 0
	for _, it := range f.indexers() {
		total += it.Size()
	}
	return total
}

func unionColumns(a, b []int) []int {
	out := append(slices.Clone(a), b...)
	slices.Sort(out)
	return slices.Compact(out)
}
