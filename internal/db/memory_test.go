package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDatabase_ConstraintViolations(t *testing.T) {
	database := NewMemoryDatabase()
	ctx := context.Background()

	require.NoError(t, database.CopyRegions(ctx, []Region{{Code: 1, Name: "North", Type: "state"}}))

	// Duplicate region code.
	err := database.CopyRegions(ctx, []Region{{Code: 1, Name: "Other North", Type: "state"}})
	assert.ErrorContains(t, err, "region_pkey")

	// Candidate referencing a missing region.
	err = database.CopyCandidates(ctx, []Candidate{{CandidateID: "c1", RegionCode: 99}})
	assert.ErrorContains(t, err, "candidate_region_code_fkey")

	// Vote referencing a missing candidate.
	err = database.CopyVotes(ctx, []Vote{{VoteID: "v1", CandidateID: "nope"}})
	assert.ErrorContains(t, err, "vote_candidate_id_fkey")

	_, err = database.InsertVote(ctx, Vote{VoteID: "v1", CandidateID: "nope"})
	assert.ErrorContains(t, err, "vote_candidate_id_fkey")
}

func TestMemoryDatabase_InsertAndDeleteVote(t *testing.T) {
	database := NewMemoryDatabase()
	ctx := context.Background()

	require.NoError(t, database.CopyRegions(ctx, []Region{{Code: 1, Name: "North", Type: "state"}}))
	require.NoError(t, database.CopyCandidates(ctx, []Candidate{
		{CandidateID: "c1", FullName: "Ada One", Position: "president", RegionCode: 1},
	}))

	voteID, err := database.InsertVote(ctx, Vote{VoteID: "v1", CandidateID: "c1", RegionCode: 1, RecordedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "v1", voteID)

	// Duplicate vote id.
	_, err = database.InsertVote(ctx, Vote{VoteID: "v1", CandidateID: "c1", RegionCode: 1})
	assert.ErrorContains(t, err, "vote_pkey")

	require.NoError(t, database.DeleteVote(ctx, "v1"))
	assert.ErrorContains(t, database.DeleteVote(ctx, "v1"), "not found")
}

func TestMemoryDatabase_ElectionStatus(t *testing.T) {
	database := NewMemoryDatabase()
	ctx := context.Background()

	_, err := database.CurrentElectionStatus(ctx)
	assert.Error(t, err)

	require.NoError(t, database.SetElectionStatus(ctx, "ONGOING"))
	status, err := database.CurrentElectionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ONGOING", status.State)

	require.NoError(t, database.SetElectionStatus(ctx, "CLOSED"))
	status, err = database.CurrentElectionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", status.State)
}

func TestMemoryDatabase_FeedbackPagination(t *testing.T) {
	database := NewMemoryDatabase()
	ctx := context.Background()

	entries := make([]Feedback, 25)
	for i := range entries {
		entries[i] = Feedback{
			FeedbackID: string(rune('a' + i)),
			Message:    "fine",
			Rating:     3,
			CreatedAt:  time.Now().Add(time.Duration(i) * time.Second),
		}
	}
	require.NoError(t, database.CopyFeedback(ctx, entries))

	page, err := database.FeedbackPage(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, page, 10)

	page, err = database.FeedbackPage(ctx, 10, 20)
	require.NoError(t, err)
	assert.Len(t, page, 5)

	page, err = database.FeedbackPage(ctx, 10, 100)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryDatabase_TallyByParty(t *testing.T) {
	database := NewMemoryDatabase()
	ctx := context.Background()

	require.NoError(t, database.CopyRegions(ctx, []Region{{Code: 1, Name: "North", Type: "state"}}))
	require.NoError(t, database.CopyCandidates(ctx, []Candidate{
		{CandidateID: "c1", Party: "Unity", Position: "president", RegionCode: 1},
		{CandidateID: "c2", Party: "Forward", Position: "governor", RegionCode: 1},
	}))
	require.NoError(t, database.CopyVotes(ctx, []Vote{
		{VoteID: "v1", CandidateID: "c1", RegionCode: 1},
		{VoteID: "v2", CandidateID: "c1", RegionCode: 1},
		{VoteID: "v3", CandidateID: "c2", RegionCode: 1},
	}))

	tallies, err := database.TallyByParty(ctx)
	require.NoError(t, err)
	require.Len(t, tallies, 2)

	// Sorted by votes descending.
	assert.Equal(t, PartyTally{Party: "Unity", Votes: 2}, tallies[0])
	assert.Equal(t, PartyTally{Party: "Forward", Votes: 1}, tallies[1])
}

func TestMemoryDatabase_TearDown(t *testing.T) {
	database := NewMemoryDatabase()
	ctx := context.Background()

	require.NoError(t, database.CopyRegions(ctx, []Region{{Code: 1, Name: "North", Type: "state"}}))
	require.NoError(t, database.SetElectionStatus(ctx, "ONGOING"))

	require.NoError(t, database.TearDown(ctx))

	_, err := database.CurrentElectionStatus(ctx)
	assert.Error(t, err)

	// Regions can be reinserted after a teardown.
	assert.NoError(t, database.CopyRegions(ctx, []Region{{Code: 1, Name: "North", Type: "state"}}))
}
