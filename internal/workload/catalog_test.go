package workload

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tallybench/internal/db"
)

func catalogFixture(t *testing.T) (db.Database, []db.Candidate) {
	database := db.NewMemoryDatabase()
	ctx := context.Background()

	require.NoError(t, database.CopyRegions(ctx, []db.Region{
		{Code: 1, Name: "North Avalon", Type: "state"},
		{Code: 2, Name: "South Brookfield", Type: "province"},
	}))

	candidates := []db.Candidate{
		{CandidateID: "c1", FullName: "Ada One", Party: "Unity", Position: "president", RegionCode: 1},
		{CandidateID: "c2", FullName: "Bo Two", Party: "Forward", Position: "governor", RegionCode: 1},
		{CandidateID: "c3", FullName: "Cy Three", Party: "Unity", Position: "senator", RegionCode: 2},
		{CandidateID: "c4", FullName: "Di Four", Party: "Forward", Position: "mayor", RegionCode: 2},
	}
	require.NoError(t, database.CopyCandidates(ctx, candidates))

	require.NoError(t, database.CopyVotes(ctx, []db.Vote{
		{VoteID: "v1", CandidateID: "c1", RegionCode: 1, RecordedAt: time.Now()},
		{VoteID: "v2", CandidateID: "c3", RegionCode: 2, RecordedAt: time.Now()},
	}))
	require.NoError(t, database.CopyFeedback(ctx, []db.Feedback{
		{FeedbackID: "f1", Message: "works well", Rating: 4, CreatedAt: time.Now()},
	}))
	require.NoError(t, database.SetElectionStatus(ctx, "ONGOING"))

	return database, candidates
}

func TestLoadCandidateSample_CoversAllPositions(t *testing.T) {
	database, _ := catalogFixture(t)

	sample, err := LoadCandidateSample(context.Background(), database)
	require.NoError(t, err)
	assert.Len(t, sample, 4)
}

func TestNewCatalog_EveryOperationSucceedsAgainstSeededStore(t *testing.T) {
	database, candidates := catalogFixture(t)

	params := CatalogParams{RegionCount: 2, PageSize: 10}
	catalog := NewCatalog(database, candidates, params, rand.New(rand.NewSource(1)))
	require.Len(t, catalog, 6)

	for _, op := range catalog {
		result := Execute(context.Background(), &op)
		assert.Truef(t, result.Success, "operation %s failed: %s", op.Name, result.Err)
	}
}

func TestCastAndRetractVote_LeavesVoteCountUnchanged(t *testing.T) {
	database, candidates := catalogFixture(t)
	ctx := context.Background()

	countVotes := func() int {
		total := 0
		for regionCode := 1; regionCode <= 2; regionCode++ {
			votes, err := database.VotesByRegion(ctx, regionCode, 1000)
			require.NoError(t, err)
			total += len(votes)
		}
		return total
	}
	before := countVotes()

	catalog := NewCatalog(database, candidates, CatalogParams{RegionCount: 2}, rand.New(rand.NewSource(2)))
	var castAndRetract *Operation
	for i := range catalog {
		if catalog[i].Name == "castAndRetractVote" {
			castAndRetract = &catalog[i]
		}
	}
	require.NotNil(t, castAndRetract)

	for n := 0; n < 20; n++ {
		result := Execute(ctx, castAndRetract)
		require.Truef(t, result.Success, "cast and retract failed: %s", result.Err)
	}

	assert.Equal(t, before, countVotes())
}

func TestCastAndRetractVote_FailsOnEmptyStore(t *testing.T) {
	database := db.NewMemoryDatabase()

	catalog := NewCatalog(database, nil, CatalogParams{RegionCount: 1}, rand.New(rand.NewSource(3)))
	for i := range catalog {
		if catalog[i].Name != "castAndRetractVote" {
			continue
		}
		result := Execute(context.Background(), &catalog[i])
		assert.False(t, result.Success)
		assert.Contains(t, result.Err, "seed the database")
	}
}
