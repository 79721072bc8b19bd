package scheduler

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tallybench/internal/configuration"
	"github.com/tallyhq/tallybench/internal/db"
)

func testConfig(t *testing.T, totalOperations, batchCount int) configuration.TallybenchConfig {
	return configuration.TallybenchConfig{
		Database: configuration.DatabaseConfig{InMemory: true},
		LoadTest: configuration.LoadTestConfig{
			TotalOperations:  totalOperations,
			BatchCount:       batchCount,
			InterBatchDelay:  time.Millisecond,
			RandomSeed:       42,
			ResultsDirectory: t.TempDir(),
		},
		Seed: configuration.SeedConfig{Regions: 2},
	}
}

func seededMemoryDatabase(t *testing.T) *db.MemoryDatabase {
	database := db.NewMemoryDatabase()
	ctx := context.Background()

	require.NoError(t, database.CopyRegions(ctx, []db.Region{
		{Code: 1, Name: "North", Type: "state"},
		{Code: 2, Name: "South", Type: "state"},
	}))
	require.NoError(t, database.CopyCandidates(ctx, []db.Candidate{
		{CandidateID: "c1", FullName: "Ada One", Party: "Unity", Position: "president", RegionCode: 1},
		{CandidateID: "c2", FullName: "Bo Two", Party: "Forward", Position: "governor", RegionCode: 2},
	}))
	require.NoError(t, database.CopyVotes(ctx, []db.Vote{
		{VoteID: "v1", CandidateID: "c1", RegionCode: 1, RecordedAt: time.Now()},
		{VoteID: "v2", CandidateID: "c2", RegionCode: 2, RecordedAt: time.Now()},
	}))
	require.NoError(t, database.CopyFeedback(ctx, []db.Feedback{
		{FeedbackID: "f1", Message: "smooth voting", Rating: 5, CreatedAt: time.Now()},
	}))
	require.NoError(t, database.SetElectionStatus(ctx, "ONGOING"))
	return database
}

func TestRun_CompletesEveryOperation(t *testing.T) {
	config := testConfig(t, 200, 4)
	database := seededMemoryDatabase(t)

	result, err := NewRunner(config, database).Run(context.Background())
	require.NoError(t, err)

	report := result.Results
	assert.Equal(t, int64(200), report.CompletedOperations)
	assert.Equal(t, int64(0), report.FailedOperations)
	assert.Equal(t, float64(100), report.SuccessRate)
	assert.Greater(t, report.OperationsPerSecond, float64(0))
	assert.NotEmpty(t, result.Metadata.RunID)

	// Exactly one result file is written per run.
	entries, err := os.ReadDir(config.LoadTest.ResultsDirectory)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_SingleBatch(t *testing.T) {
	config := testConfig(t, 50, 1)
	database := seededMemoryDatabase(t)

	result, err := NewRunner(config, database).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(50), result.Results.CompletedOperations)
}

// readFailingDatabase fails every read the workload issues, while still
// answering the candidate sample load at run start.
type readFailingDatabase struct {
	*db.MemoryDatabase
}

func (d readFailingDatabase) VotesByRegion(ctx context.Context, regionCode int, limit int) ([]db.Vote, error) {
	return nil, errors.New("votes table dropped")
}

func (d readFailingDatabase) TallyByParty(ctx context.Context) ([]db.PartyTally, error) {
	return nil, errors.New("tally query timed out")
}

func (d readFailingDatabase) CurrentElectionStatus(ctx context.Context) (db.ElectionStatus, error) {
	return db.ElectionStatus{}, errors.New("status row missing")
}

func (d readFailingDatabase) FeedbackPage(ctx context.Context, limit int, offset int) ([]db.Feedback, error) {
	return nil, errors.New("feedback table locked")
}

func (d readFailingDatabase) InsertVote(ctx context.Context, vote db.Vote) (string, error) {
	return "", errors.New("writes rejected")
}

func TestRun_OperationFailuresNeverAbortTheRun(t *testing.T) {
	config := testConfig(t, 100, 2)
	database := readFailingDatabase{seededMemoryDatabase(t)}

	result, err := NewRunner(config, database).Run(context.Background())
	require.NoError(t, err)

	report := result.Results
	assert.Equal(t, int64(100), report.CompletedOperations)
	assert.Greater(t, report.FailedOperations, int64(0))
	assert.Less(t, report.SuccessRate, float64(100))
	assert.NotEmpty(t, report.ErrorSample)
}

func TestRun_FatalWhenStoreUnreachableAtStart(t *testing.T) {
	config := testConfig(t, 10, 1)
	database := unreachableDatabase{db.NewMemoryDatabase()}

	_, err := NewRunner(config, database).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unreachable")

	entries, err := os.ReadDir(config.LoadTest.ResultsDirectory)
	require.NoError(t, err)
	assert.Empty(t, entries, "no report should be written for a failed run")
}

type unreachableDatabase struct {
	*db.MemoryDatabase
}

func (d unreachableDatabase) CandidatesByPosition(ctx context.Context, position string) ([]db.Candidate, error) {
	return nil, errors.New("connection refused")
}

func TestRun_CancelledContextStopsBatchesEarly(t *testing.T) {
	config := testConfig(t, 1000, 2)
	config.LoadTest.PacingEvery = 1
	config.LoadTest.PacingPause = 10 * time.Millisecond
	database := seededMemoryDatabase(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	result, err := NewRunner(config, database).Run(ctx)
	require.NoError(t, err)
	assert.Less(t, result.Results.CompletedOperations, int64(1000))
}
