package workload

import (
	"context"
	"time"
)

// Operation is one named unit of randomized work against the store. Weight is
// its relative selection probability; weights across a catalog need not sum
// to anything in particular. Operations are defined once at startup and never
// mutated.
type Operation struct {
	Name    string
	Weight  int
	Execute func(ctx context.Context) (itemCount int, err error)
}

// Result is the outcome of one operation execution. Failures are values, not
// panics: an operation can never abort the batch executing it.
type Result struct {
	Operation string
	Success   bool
	Duration  time.Duration
	ItemCount int
	Err       string
}
