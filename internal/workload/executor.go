package workload

import (
	"context"
	"fmt"
	"time"
)

// Execute invokes one operation, measuring wall-clock duration around the
// call. Any failure, including a panic in a misbehaving Execute
// implementation, is converted into a failed Result rather than propagated.
func Execute(ctx context.Context, op *Operation) (result Result) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Operation: op.Name,
				Success:   false,
				Duration:  time.Since(start),
				Err:       fmt.Sprintf("panic in operation %s: %v", op.Name, r),
			}
		}
	}()

	itemCount, err := op.Execute(ctx)
	duration := time.Since(start)

	if err != nil {
		return Result{
			Operation: op.Name,
			Success:   false,
			Duration:  duration,
			Err:       err.Error(),
		}
	}

	return Result{
		Operation: op.Name,
		Success:   true,
		Duration:  duration,
		ItemCount: itemCount,
	}
}
