package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dot5enko/pointindex/manager/query"
	"golang.org/x/sync/errgroup"
)

// RunWorkload executes queries over a bounded number of workers. The context and
// the timeout are checked between queries, a running query is never interrupted.
func RunWorkload(
	ctx context.Context,
	exec QueryExecutor,
	queries []query.Query,
	opts WorkloadOptions,
	factory VisitorFactory,
) (WorkloadResult, error) {

	if factory == nil {
		return WorkloadResult{}, fmt.Errorf("no visitor factory given")
	}

	workers := max(opts.Workers, 1)

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	status := &TaskStatus{Latencies: make([]time.Duration, 0, len(queries))}

	slog.Debug("running workload", "queries", len(queries), "workers", workers)

	start := time.Now()

	g := errgroup.Group{}
	g.SetLimit(workers)

	for idx, q := range queries {

		if runCtx.Err() != nil {
			break
		}

		g.Go(func() error {

			if err := runCtx.Err(); err != nil {
				return err
			}

			stats := exec.Execute(q, factory())
			status.add(stats)

			slog.Debug("query done", "idx", idx, "candidates", stats.Candidates, "matched", stats.Matched, "took", stats.Took)

			return nil
		})
	}

	waitErr := g.Wait()

	result := WorkloadResult{
		Total:     status.Total,
		Queries:   status.Queries,
		Latencies: status.Latencies,
		Took:      time.Since(start),
	}
	slices.Sort(result.Latencies)

	// parent cancellation is an error, our own budget is not
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("workload cancelled after %d queries: %w", result.Queries, err)
	}

	if errors.Is(waitErr, context.DeadlineExceeded) || runCtx.Err() != nil {
		result.TimedOut = result.Queries < len(queries)
		return result, nil
	}

	return result, waitErr
}

// Percentile expects sorted latencies.
func (r WorkloadResult) Percentile(p float64) time.Duration {

	if len(r.Latencies) == 0 {
		return 0
	}

	idx := int(p * float64(len(r.Latencies)-1))
	idx = min(max(idx, 0), len(r.Latencies)-1)

	return r.Latencies[idx]
}
