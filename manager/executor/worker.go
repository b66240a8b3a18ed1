package executor

import (
	"sync"
	"time"

	"github.com/dot5enko/pointindex/manager/query"
)

// ExecuteStats describes one executed query.
type ExecuteStats struct {
	ChunkFilterProcessResult

	// size of the index result before predicate evaluation
	Candidates int
	Matched    int

	// planner proved the query empty, nothing was scanned
	Empty bool
	Patch query.Patch

	Took time.Duration
}

// QueryExecutor runs a single query, a nil visitor resolves candidates only.
type QueryExecutor interface {
	Execute(q query.Query, visitor Visitor) ExecuteStats
}

type WorkloadOptions struct {
	Workers int
	// wall clock budget for the whole workload, zero disables it
	Timeout time.Duration
}

// TaskStatus accumulates per query results across workers.
type TaskStatus struct {
	Total ExecuteStats

	Queries   int
	Latencies []time.Duration

	Lock sync.Mutex
}

func (s *TaskStatus) add(stats ExecuteStats) {

	s.Lock.Lock()
	defer s.Lock.Unlock()

	s.Total.ChunkFilterProcessResult.Add(stats.ChunkFilterProcessResult)
	s.Total.Candidates += stats.Candidates
	s.Total.Matched += stats.Matched
	s.Total.Took += stats.Took

	s.Queries++
	s.Latencies = append(s.Latencies, stats.Took)
}

// WorkloadResult is the outcome of RunWorkload.
type WorkloadResult struct {
	Total     ExecuteStats
	Queries   int
	Latencies []time.Duration

	// stopped early because the budget ran out
	TimedOut bool
	Took     time.Duration
}
