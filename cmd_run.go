package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dot5enko/pointindex/dataset"
	"github.com/dot5enko/pointindex/index"
	"github.com/dot5enko/pointindex/io"
	"github.com/dot5enko/pointindex/manager"
	"github.com/dot5enko/pointindex/manager/executor"
	"github.com/dot5enko/pointindex/manager/query"
)

type runOptions struct {
	dataset     string
	workload    string
	where       []string
	indexerSpec string
	visitor     string
	sumDim      int

	rewriter     string
	rewriterKind string

	numQueries int
	dims       int
	layout     string
	gap        int
	workers    int
	timeout    time.Duration
	config     string

	mmap bool
	dump bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build an index over a dataset and execute a query workload",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkload(cmd, runOpts)
	},
}

func init() {
	fs := runCmd.Flags()

	fs.StringVar(&runOpts.dataset, "dataset", "", "raw int32 points file (.lz4 and .zst are decompressed)")
	fs.StringVar(&runOpts.workload, "workload", "", "query workload file")
	fs.StringArrayVar(&runOpts.where, "where", nil, "run a single query built from dim:op:args conditions instead of a workload, repeatable")
	fs.StringVar(&runOpts.indexerSpec, "indexer-spec", "", "index spec file")
	fs.StringVar(&runOpts.visitor, "visitor", "count", "count, collect, bitmap, sum, index or dummy")
	fs.IntVar(&runOpts.sumDim, "sum-dim", -1, "dimension summed by the sum visitor")

	fs.StringVar(&runOpts.rewriter, "rewriter", "", "query rewriter file")
	fs.StringVar(&runOpts.rewriterKind, "rewriter-kind", index.RewriterLinear, "rewriter kind: linear or single")

	fs.IntVar(&runOpts.numQueries, "num-queries", 0, "execute at most this many queries, 0 runs all")
	fs.IntVar(&runOpts.dims, "dims", 0, "point dimensions")
	fs.StringVar(&runOpts.layout, "layout", string(dataset.ColumnLayout), "dataset layout: column or row")
	fs.IntVar(&runOpts.gap, "gap", 0, "default merge gap of composite indexes")
	fs.IntVar(&runOpts.workers, "workers", 1, "concurrent queries")
	fs.DurationVar(&runOpts.timeout, "timeout", 0, "wall clock budget for the workload")
	fs.StringVar(&runOpts.config, "config", "", "json engine config, flags override it")

	fs.BoolVar(&runOpts.mmap, "mmap", false, "map uncompressed datasets instead of reading them")
	fs.BoolVar(&runOpts.dump, "dump", false, "dump the first query resolution")

	for _, name := range []string{"dataset", "indexer-spec"} {
		runCmd.MarkFlagRequired(name)
	}
	runCmd.MarkFlagsOneRequired("workload", "where")
	runCmd.MarkFlagsMutuallyExclusive("workload", "where")
}

func runWorkload(cmd *cobra.Command, opts runOptions) error {

	config, err := configFromFlags(cmd.Flags(), opts.config, func(c *manager.Config) {
		c.Dims = opts.dims
		c.Layout = dataset.Layout(opts.layout)
		c.Gap = opts.gap
		c.Workers = opts.workers
		c.TimeoutMs = int(opts.timeout.Milliseconds())
	})
	if err != nil {
		return err
	}

	sel, err := query.ParseSelector(opts.visitor, opts.sumDim)
	if err != nil {
		return err
	}

	factory, err := executor.NewVisitorFactory(sel)
	if err != nil {
		return err
	}

	loaded, err := io.LoadPoints(opts.dataset, io.PointsLoadOptions{Dims: config.Dims, Mmap: opts.mmap})
	if err != nil {
		return err
	}
	defer loaded.Close()

	queries, err := loadQueries(opts, config.Dims)
	if err != nil {
		return err
	}

	cache := io.NewFileCache()

	indexer, err := index.BuildFile(opts.indexerSpec, cache, index.WithDefaultGap(config.Gap))
	if err != nil {
		return err
	}

	engineOpts := []manager.Option{manager.WithRegisterer(prometheus.NewRegistry())}

	if opts.rewriter != "" {
		rewriter, rErr := index.LoadRewriter(opts.rewriterKind, opts.rewriter, config.Dims, cache)
		if rErr != nil {
			return rErr
		}
		engineOpts = append(engineOpts, manager.WithRewriter(rewriter))
	}

	engine, err := manager.New(config, loaded.Points, indexer, engineOpts...)
	if err != nil {
		return err
	}

	before := time.Now()
	if err = engine.Build(); err != nil {
		return err
	}
	buildTook := time.Since(before)

	slog.Info("dataset ready",
		"engine", engine.Id().String(),
		"points", engine.Dataset().Size(),
		"layout", engine.Config().Layout,
		"dataset_bytes", engine.Dataset().SizeInBytes(),
		"codec", loaded.Codec.String(),
		"mapped", loaded.Mapped(),
		"queries", len(queries),
		"index", fmt.Sprintf("%T", engine.Indexer()),
		"index_size", engine.Indexer().Size(),
		"build", buildTook,
	)

	if opts.dump && len(queries) > 0 {
		candidates, patch := engine.Resolve(queries[0])
		spew.Dump(queries[0], candidates, patch)
	}

	result, err := executor.RunWorkload(cmd.Context(), engine, queries, executor.WorkloadOptions{
		Workers: config.Workers,
		Timeout: config.Timeout(),
	}, factory)
	if err != nil {
		return err
	}

	printRunSummary(engine, result, len(queries))

	return nil
}

func printRunSummary(engine *manager.Engine, result executor.WorkloadResult, total int) {

	color.Green("executed %d queries in %s", engine.Queries(), result.Took)

	fmt.Printf(" candidates : %d\n", result.Total.Candidates)
	fmt.Printf(" matched    : %d\n", result.Total.Matched)
	fmt.Printf(" scanned    : %d (ranges %d, lists %d)\n",
		engine.ScannedPoints(), engine.ScannedRangePoints(), engine.ScannedListPoints())
	fmt.Printf(" chunks     : %d\n", result.Total.Chunks)
	fmt.Printf(" latency    : p50 %s p99 %s max %s\n",
		result.Percentile(0.5), result.Percentile(0.99), result.Percentile(1))

	if result.TimedOut {
		color.Yellow("workload budget exhausted, %d queries left unexecuted", total-result.Queries)
	}
}

func loadQueries(opts runOptions, dims int) ([]query.Query, error) {

	if len(opts.where) == 0 {
		return io.LoadWorkload(opts.workload, dims, opts.numQueries)
	}

	conds := make([]query.FilterCondition, 0, len(opts.where))
	for _, expr := range opts.where {
		cond, err := query.ParseCondition(expr)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}

	q, err := query.FromConditions(dims, conds)
	if err != nil {
		return nil, err
	}

	return []query.Query{q}, nil
}
