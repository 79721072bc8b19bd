package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tallyhq/tallybench/internal/workload"
)

func TestAggregate_RecordAndSnapshot(t *testing.T) {
	aggregate := NewAggregate()

	aggregate.Record(workload.Result{Operation: "read", Success: true, Duration: 10 * time.Millisecond, ItemCount: 5})
	aggregate.Record(workload.Result{Operation: "read", Success: true, Duration: 30 * time.Millisecond, ItemCount: 7})
	aggregate.Record(workload.Result{Operation: "write", Success: false, Duration: 50 * time.Millisecond, Err: "boom"})

	s := aggregate.Snapshot()

	assert.Equal(t, int64(3), s.Completed)
	assert.Equal(t, int64(1), s.Failed)
	assert.Equal(t, 90*time.Millisecond, s.TotalDuration)
	assert.Equal(t, 10*time.Millisecond, s.MinDuration)
	assert.Equal(t, 50*time.Millisecond, s.MaxDuration)
	assert.Equal(t, []string{"boom"}, s.ErrorSample)

	reads := s.PerOperation["read"]
	assert.Equal(t, int64(2), reads.Executed)
	assert.Equal(t, int64(0), reads.Failed)
	assert.Equal(t, int64(12), reads.TotalItems)

	writes := s.PerOperation["write"]
	assert.Equal(t, int64(1), writes.Executed)
	assert.Equal(t, int64(1), writes.Failed)
}

func TestAggregate_ErrorSampleIsCapped(t *testing.T) {
	aggregate := NewAggregate()
	aggregate.SetMaxErrorSample(3)

	for n := 0; n < 10; n++ {
		aggregate.Record(workload.Result{Operation: "op", Success: false, Err: "repeated failure"})
	}

	s := aggregate.Snapshot()
	assert.Equal(t, int64(10), s.Failed)
	assert.Len(t, s.ErrorSample, 3)
}

func TestAggregate_ConcurrentRecordLosesNothing(t *testing.T) {
	aggregate := NewAggregate()

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < perWorker; n++ {
				aggregate.Record(workload.Result{Operation: "op", Success: true, Duration: time.Millisecond})
			}
		}()
	}
	wg.Wait()

	s := aggregate.Snapshot()
	assert.Equal(t, int64(workers*perWorker), s.Completed)
	assert.Equal(t, int64(0), s.Failed)
	assert.Equal(t, workers*perWorker*time.Millisecond, s.TotalDuration)
	assert.Equal(t, int64(workers*perWorker), s.PerOperation["op"].Executed)
}

func TestAggregate_SnapshotIsACopy(t *testing.T) {
	aggregate := NewAggregate()
	aggregate.Record(workload.Result{Operation: "op", Success: true, Duration: time.Millisecond})

	before := aggregate.Snapshot()
	aggregate.Record(workload.Result{Operation: "op", Success: false, Err: "late"})

	assert.Equal(t, int64(1), before.Completed)
	assert.Empty(t, before.ErrorSample)
}
