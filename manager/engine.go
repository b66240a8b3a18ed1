package manager

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dot5enko/pointindex/dataset"
	"github.com/dot5enko/pointindex/index"
	"github.com/dot5enko/pointindex/manager/executor"
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

var (
	ErrDimsMismatch  = errors.New("dimension count mismatch")
	ErrReservedValue = errors.New("dataset holds a reserved value")
)

type Option func(e *Engine)

// WithRewriter rewrites every query before it reaches the index.
func WithRewriter(r index.QueryRewriter) Option {
	return func(e *Engine) {
		e.rewriter = r
	}
}

// WithRegisterer mirrors the scan counters into prometheus metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.registerer = reg
	}
}

// Engine owns a dataset and its index. Build sorts and indexes the data once,
// afterwards Execute may be called from many goroutines.
type Engine struct {
	id     uuid.UUID
	config Config

	points   *schema.Points
	indexer  index.PrimaryIndexer
	rewriter index.QueryRewriter

	planner *query.QueryPlanner
	ds      dataset.Dataset

	built bool

	registerer prometheus.Registerer
	metrics    *Metrics

	scannedRangePoints atomic.Int64
	scannedListPoints  atomic.Int64
	queries            atomic.Int64
}

func New(config Config, points *schema.Points, indexer index.PrimaryIndexer, opts ...Option) (*Engine, error) {

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if points.NumDims() != config.Dims {
		return nil, fmt.Errorf("%w: dataset has %d dims, config %d", ErrDimsMismatch, points.NumDims(), config.Dims)
	}

	if indexer == nil {
		return nil, fmt.Errorf("no indexer given")
	}

	for _, col := range index.OutlierColumns(indexer) {
		if col >= config.Dims {
			return nil, fmt.Errorf("%w: outlier index on column %d", ErrDimsMismatch, col)
		}
		if slices.Contains(points.Column(col), schema.OutlierBucket) {
			return nil, fmt.Errorf("%w: column %d contains the outlier bucket value %d", ErrReservedValue, col, schema.OutlierBucket)
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate engine id: %s", err.Error())
	}

	e := &Engine{
		id:      id,
		config:  config,
		points:  points,
		indexer: indexer,
		planner: query.NewQueryPlanner(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.registerer != nil {
		e.metrics = NewMetrics(e.registerer, config.MetricsNamespace, id.String())
	}

	return e, nil
}

// Build initializes the index, which may reorder the points, then materializes
// the dataset in the configured layout.
func (e *Engine) Build() error {

	if e.built {
		panic(fmt.Sprintf("engine %s built twice", e.id))
	}

	start := time.Now()

	e.indexer.Init(e.points)

	ds, err := dataset.New(e.config.Layout, e.points)
	if err != nil {
		return err
	}

	e.ds = ds
	e.built = true

	slog.Info("built engine",
		"id", e.id,
		"points", ds.Size(),
		"dims", ds.NumDims(),
		"layout", e.config.Layout,
		"index_columns", e.indexer.Columns(),
		"index_size", e.indexer.Size(),
		"took", time.Since(start),
	)

	return nil
}

func (e *Engine) checkBuilt() {
	if !e.built {
		panic(fmt.Sprintf("engine %s queried before build", e.id))
	}
}

func (e *Engine) checkQuery(q query.Query) {
	if q.NumDims() != e.config.Dims {
		panic(fmt.Sprintf("query has %d dims, engine %d", q.NumDims(), e.config.Dims))
	}
}

// Resolve returns the candidate positions the index yields for q.
func (e *Engine) Resolve(q query.Query) (schema.PhysicalIndexSet, query.Patch) {

	e.checkBuilt()
	e.checkQuery(q)

	indexQuery := q
	if e.rewriter != nil {
		indexQuery = e.rewriter.Rewrite(q)
	}

	return e.indexer.Ranges(indexQuery)
}

// Execute plans q, resolves candidates and scans them with visitor. Predicates
// are always the ones of q, rewriting only affects candidate selection. A nil
// visitor stops after resolving candidates.
func (e *Engine) Execute(q query.Query, visitor executor.Visitor) executor.ExecuteStats {

	e.checkBuilt()
	e.checkQuery(q)

	start := time.Now()
	stats := executor.ExecuteStats{}

	plan := e.planner.Plan(q, e.ds.Bounds)

	if plan.Empty {
		stats.Empty = true
		stats.Took = time.Since(start)
		e.record(outcomeEmpty, stats)

		slog.Debug("query pruned by bounds", "engine", e.id, "dims", plan.EmptyDims)
		return stats
	}

	candidates, patch := e.Resolve(q)

	stats.Candidates = candidates.Count()
	stats.Patch = patch

	if !patch.Empty() {
		slog.Debug("index patched query", "engine", e.id, "dims", patch.Dims())
	}

	if visitor == nil {
		stats.Took = time.Since(start)
		e.record(outcomeResolved, stats)
		return stats
	}

	stats.ChunkFilterProcessResult = executor.Scan(e.ds, &plan, candidates, visitor)

	if counter, ok := visitor.(executor.Counter); ok {
		stats.Matched = counter.Matched()
	}

	stats.Took = time.Since(start)
	e.record(outcomeScanned, stats)

	return stats
}

func (e *Engine) record(outcome string, stats executor.ExecuteStats) {

	e.queries.Add(1)
	e.scannedRangePoints.Add(int64(stats.RangePoints))
	e.scannedListPoints.Add(int64(stats.ListPoints))

	if e.metrics == nil {
		return
	}

	e.metrics.Queries.WithLabelValues(outcome).Inc()
	e.metrics.ScannedRangePoints.Add(float64(stats.RangePoints))
	e.metrics.ScannedListPoints.Add(float64(stats.ListPoints))
	e.metrics.QueryLatency.Observe(stats.Took.Seconds())
}

func (e *Engine) Id() uuid.UUID {
	return e.id
}

func (e *Engine) Config() Config {
	return e.config
}

// Dataset is nil before Build.
func (e *Engine) Dataset() dataset.Dataset {
	return e.ds
}

func (e *Engine) Indexer() index.PrimaryIndexer {
	return e.indexer
}

func (e *Engine) Queries() int64 {
	return e.queries.Load()
}

func (e *Engine) ScannedRangePoints() int64 {
	return e.scannedRangePoints.Load()
}

func (e *Engine) ScannedListPoints() int64 {
	return e.scannedListPoints.Load()
}

func (e *Engine) ScannedPoints() int64 {
	return e.ScannedRangePoints() + e.ScannedListPoints()
}
