package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/renstrom/shortuuid"
	log "github.com/sirupsen/logrus"

	"github.com/tallyhq/tallybench/internal/configuration"
	"github.com/tallyhq/tallybench/internal/db"
	"github.com/tallyhq/tallybench/internal/metrics"
	"github.com/tallyhq/tallybench/internal/workload"
)

const defaultProgressInterval = 10 * time.Second

// Runner orchestrates one load-test run: it initialises the store, partitions
// the total operation count into concurrently running batches with staggered
// starts, folds every result into a shared aggregate, and writes the final
// JSON report. A run is single-shot; a Runner is not reused.
type Runner struct {
	config   configuration.TallybenchConfig
	database db.Database
}

func NewRunner(config configuration.TallybenchConfig, database db.Database) *Runner {
	return &Runner{
		config:   config,
		database: database,
	}
}

type batch struct {
	id         int
	size       int
	startDelay time.Duration
	seed       int64
}

// Run executes the load test and returns the result document. Operation-level
// failures are recorded in the aggregate and never abort the run; only the
// store being unreachable at initialisation or the report write failing are
// fatal, in which case no report is produced.
func (r *Runner) Run(ctx context.Context) (metrics.TestResult, error) {
	cfg := r.config.LoadTest
	runID := shortuuid.New()

	log.Infof("Starting load test run %s", runID)
	log.Infof("Configured for %d operations across %d batches, %v between batch launches",
		cfg.TotalOperations, cfg.BatchCount, cfg.InterBatchDelay)

	log.Info("Initialising database connection")
	if err := r.database.InitialiseSchema(ctx); err != nil {
		return metrics.TestResult{}, fmt.Errorf("initialising database: %w", err)
	}

	candidates, err := workload.LoadCandidateSample(ctx, r.database)
	if err != nil {
		return metrics.TestResult{}, fmt.Errorf("store unreachable at start of run: %w", err)
	}
	log.Infof("Loaded %d candidates for the write round-trip operation", len(candidates))

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sizes := PartitionOperations(cfg.TotalOperations, cfg.BatchCount)
	batches := make([]batch, len(sizes))
	for i, size := range sizes {
		batches[i] = batch{
			id:         i + 1,
			size:       size,
			startDelay: time.Duration(i) * cfg.InterBatchDelay,
			seed:       seed + int64(i),
		}
	}

	aggregate := metrics.NewAggregate()
	params := workload.CatalogParams{RegionCount: r.config.Seed.Regions}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	testStart := time.Now()

	var wg sync.WaitGroup
	for _, b := range batches {
		b := b
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.runBatch(runCtx, b, candidates, params, aggregate)
		}()
	}

	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		r.logProgress(runCtx, aggregate)
	}()

	wg.Wait()
	cancel()
	<-progressDone

	wallClock := time.Since(testStart)
	log.Info("All batches complete, building report")

	report := metrics.BuildReport(aggregate.Snapshot(), wallClock)
	result := metrics.BuildTestResult(r.config, runID, report)

	if err := os.MkdirAll(cfg.ResultsDirectory, 0o755); err != nil {
		return metrics.TestResult{}, fmt.Errorf("creating results directory: %w", err)
	}
	outputFilename := fmt.Sprintf("loadtest-result-%s-%s.json", time.Now().Format("20060102-150405"), runID)
	outputPath := filepath.Join(cfg.ResultsDirectory, outputFilename)
	if err := metrics.WriteTestResultToFile(result, outputPath); err != nil {
		return metrics.TestResult{}, fmt.Errorf("writing result to file: %w", err)
	}

	log.WithFields(log.Fields{
		"completed":     report.CompletedOperations,
		"failed":        report.FailedOperations,
		"successRate":   fmt.Sprintf("%.2f%%", report.SuccessRate),
		"avgDuration":   report.AverageDuration,
		"opsPerSecond":  fmt.Sprintf("%.1f", report.OperationsPerSecond),
		"score":         fmt.Sprintf("%.1f/10", report.PerformanceScore),
		"resultsFile":   outputPath,
		"wallClockTime": wallClock,
	}).Info("Load test complete")

	return result, nil
}

// runBatch executes one batch: wait out the staggered start, then run the
// batch's operations sequentially, folding every result into the shared
// aggregate. A failed operation is recorded and the loop continues; the batch
// always finishes with whatever it accumulated.
func (r *Runner) runBatch(
	ctx context.Context,
	b batch,
	candidates []db.Candidate,
	params workload.CatalogParams,
	aggregate *metrics.Aggregate,
) {
	if b.startDelay > 0 {
		select {
		case <-time.After(b.startDelay):
		case <-ctx.Done():
			log.Warnf("Batch %d cancelled before starting", b.id)
			return
		}
	}

	rng := rand.New(rand.NewSource(b.seed))
	catalog := workload.NewCatalog(r.database, candidates, params, rng)
	selector, err := workload.NewSelector(catalog, rng)
	if err != nil {
		log.WithError(err).Errorf("Batch %d could not build its selector", b.id)
		return
	}

	log.Infof("Batch %d started (%d operations)", b.id, b.size)
	batchStart := time.Now()
	failed := 0

	for n := 0; n < b.size; n++ {
		select {
		case <-ctx.Done():
			log.Warnf("Batch %d stopped after %d of %d operations", b.id, n, b.size)
			return
		default:
		}

		result := workload.Execute(ctx, selector.Select())
		aggregate.Record(result)
		if !result.Success {
			failed++
		}

		if r.config.LoadTest.PacingEvery > 0 && (n+1)%r.config.LoadTest.PacingEvery == 0 && n+1 < b.size {
			select {
			case <-time.After(r.config.LoadTest.PacingPause):
			case <-ctx.Done():
				log.Warnf("Batch %d stopped after %d of %d operations", b.id, n+1, b.size)
				return
			}
		}
	}

	log.WithFields(log.Fields{
		"batch":    b.id,
		"size":     b.size,
		"failed":   failed,
		"duration": time.Since(batchStart),
	}).Info("Batch complete")
}

// logProgress periodically logs run progress until the run context is cancelled.
func (r *Runner) logProgress(ctx context.Context, aggregate *metrics.Aggregate) {
	interval := r.config.LoadTest.ProgressInterval
	if interval <= 0 {
		interval = defaultProgressInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snapshot := aggregate.Snapshot()
			log.WithFields(log.Fields{
				"completed": snapshot.Completed,
				"failed":    snapshot.Failed,
				"total":     r.config.LoadTest.TotalOperations,
			}).Info("Load test progress")
		}
	}
}
