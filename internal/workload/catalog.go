package workload

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tallyhq/tallybench/internal/db"
)

// Positions candidates can stand for. Filter values for the position query
// are drawn uniformly from this domain.
var Positions = []string{"president", "governor", "senator", "mayor"}

// Default weights for the catalog operations. Proportional, not
// percentage-strict.
const (
	weightCandidatesByPosition = 30
	weightVotesByRegion        = 25
	weightTallyByParty         = 15
	weightElectionStatus       = 10
	weightFeedbackPage         = 10
	weightCastAndRetractVote   = 10
)

// CatalogParams bounds the random filter domains.
type CatalogParams struct {
	// Region codes are drawn from [1, RegionCount].
	RegionCount int
	// Page size for the region and feedback reads.
	PageSize int
}

// LoadCandidateSample fetches candidates across all positions so the write
// round-trip can target real rows. Called once at run start; the store being
// unreachable here is a fatal initialisation failure.
func LoadCandidateSample(ctx context.Context, database db.Database) ([]db.Candidate, error) {
	var sample []db.Candidate
	for _, position := range Positions {
		candidates, err := database.CandidatesByPosition(ctx, position)
		if err != nil {
			return nil, errors.WithMessage(err, "loading candidate sample")
		}
		sample = append(sample, candidates...)
	}
	return sample, nil
}

// NewCatalog builds the fixed operation catalog against the given store.
//
// The returned operations draw their filter values from rng and are therefore
// not safe for concurrent execution; build one catalog per batch.
func NewCatalog(database db.Database, candidates []db.Candidate, params CatalogParams, rng *rand.Rand) []Operation {
	if params.RegionCount <= 0 {
		params.RegionCount = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 100
	}

	return []Operation{
		{
			Name:   "candidatesByPosition",
			Weight: weightCandidatesByPosition,
			Execute: func(ctx context.Context) (int, error) {
				position := Positions[rng.Intn(len(Positions))]
				found, err := database.CandidatesByPosition(ctx, position)
				return len(found), err
			},
		},
		{
			Name:   "votesByRegion",
			Weight: weightVotesByRegion,
			Execute: func(ctx context.Context) (int, error) {
				regionCode := 1 + rng.Intn(params.RegionCount)
				votes, err := database.VotesByRegion(ctx, regionCode, params.PageSize)
				return len(votes), err
			},
		},
		{
			Name:   "tallyByParty",
			Weight: weightTallyByParty,
			Execute: func(ctx context.Context) (int, error) {
				tallies, err := database.TallyByParty(ctx)
				return len(tallies), err
			},
		},
		{
			Name:   "electionStatus",
			Weight: weightElectionStatus,
			Execute: func(ctx context.Context) (int, error) {
				_, err := database.CurrentElectionStatus(ctx)
				if err != nil {
					return 0, err
				}
				return 1, nil
			},
		},
		{
			Name:   "feedbackPage",
			Weight: weightFeedbackPage,
			Execute: func(ctx context.Context) (int, error) {
				offset := rng.Intn(10) * params.PageSize
				entries, err := database.FeedbackPage(ctx, params.PageSize, offset)
				return len(entries), err
			},
		},
		{
			Name:   "castAndRetractVote",
			Weight: weightCastAndRetractVote,
			Execute: func(ctx context.Context) (int, error) {
				if len(candidates) == 0 {
					return 0, errors.New("no candidates available, seed the database first")
				}
				candidate := candidates[rng.Intn(len(candidates))]
				voteID, err := database.InsertVote(ctx, db.Vote{
					VoteID:      uuid.NewString(),
					CandidateID: candidate.CandidateID,
					RegionCode:  candidate.RegionCode,
					RecordedAt:  time.Now().UTC(),
				})
				if err != nil {
					return 0, err
				}
				if err := database.DeleteVote(ctx, voteID); err != nil {
					return 0, err
				}
				return 1, nil
			},
		},
	}
}
