package metrics

import (
	"sync"
	"time"

	"github.com/tallyhq/tallybench/internal/workload"
)

const defaultMaxErrorSample = 20

// Aggregate accumulates results from every concurrently running batch.
// All updates go through Record, which synchronizes the four counters and the
// min/max so no result is lost under parallel folding.
type Aggregate struct {
	mu sync.Mutex

	completed     int64
	failed        int64
	totalDuration time.Duration
	minDuration   time.Duration
	maxDuration   time.Duration

	perOperation   map[string]*operationTotals
	errorSample    []string
	maxErrorSample int
}

type operationTotals struct {
	executed      int64
	failed        int64
	totalDuration time.Duration
	totalItems    int64
}

func NewAggregate() *Aggregate {
	return &Aggregate{
		perOperation:   map[string]*operationTotals{},
		maxErrorSample: defaultMaxErrorSample,
	}
}

// SetMaxErrorSample bounds the number of error messages retained for the report.
func (a *Aggregate) SetMaxErrorSample(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.maxErrorSample = n
}

// Record folds one result into the aggregate.
func (a *Aggregate) Record(r workload.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.completed++
	a.totalDuration += r.Duration
	if a.completed == 1 || r.Duration < a.minDuration {
		a.minDuration = r.Duration
	}
	if r.Duration > a.maxDuration {
		a.maxDuration = r.Duration
	}

	totals, ok := a.perOperation[r.Operation]
	if !ok {
		totals = &operationTotals{}
		a.perOperation[r.Operation] = totals
	}
	totals.executed++
	totals.totalDuration += r.Duration
	totals.totalItems += int64(r.ItemCount)

	if !r.Success {
		a.failed++
		totals.failed++
		if len(a.errorSample) < a.maxErrorSample {
			a.errorSample = append(a.errorSample, r.Err)
		}
	}
}

// Snapshot returns a consistent copy of the accumulated state.
func (a *Aggregate) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	perOperation := make(map[string]OperationTotals, len(a.perOperation))
	for name, totals := range a.perOperation {
		perOperation[name] = OperationTotals{
			Executed:      totals.executed,
			Failed:        totals.failed,
			TotalDuration: totals.totalDuration,
			TotalItems:    totals.totalItems,
		}
	}

	errorSample := make([]string, len(a.errorSample))
	copy(errorSample, a.errorSample)

	return Snapshot{
		Completed:     a.completed,
		Failed:        a.failed,
		TotalDuration: a.totalDuration,
		MinDuration:   a.minDuration,
		MaxDuration:   a.maxDuration,
		PerOperation:  perOperation,
		ErrorSample:   errorSample,
	}
}

// Snapshot is a point-in-time copy of an Aggregate.
type Snapshot struct {
	Completed     int64
	Failed        int64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	PerOperation  map[string]OperationTotals
	ErrorSample   []string
}

type OperationTotals struct {
	Executed      int64
	Failed        int64
	TotalDuration time.Duration
	TotalItems    int64
}
