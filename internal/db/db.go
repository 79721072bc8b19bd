package db

import (
	"context"
	"time"
)

// Database is the capability set the workload and seeder need from the
// election-results store: filtered reads, a grouped aggregation, a create and
// delete for write-latency probing, and bulk inserts for seeding. Any store
// satisfying this interface is interchangeable.
type Database interface {
	InitialiseSchema(ctx context.Context) error

	// Read capabilities exercised by the load test.
	CandidatesByPosition(ctx context.Context, position string) ([]Candidate, error)
	VotesByRegion(ctx context.Context, regionCode int, limit int) ([]Vote, error)
	TallyByParty(ctx context.Context) ([]PartyTally, error)
	CurrentElectionStatus(ctx context.Context) (ElectionStatus, error)
	FeedbackPage(ctx context.Context, limit int, offset int) ([]Feedback, error)

	// Write capabilities. InsertVote returns the identifier of the created row.
	InsertVote(ctx context.Context, vote Vote) (string, error)
	DeleteVote(ctx context.Context, voteID string) error
	SetElectionStatus(ctx context.Context, state string) error

	// Bulk capabilities used by the seeder.
	CopyRegions(ctx context.Context, regions []Region) error
	CopyCandidates(ctx context.Context, candidates []Candidate) error
	CopyVotes(ctx context.Context, votes []Vote) error
	CopyFeedback(ctx context.Context, entries []Feedback) error

	// TearDown truncates all tables, allowing repeat runs against the same instance.
	TearDown(ctx context.Context) error
	Close()
}

type Region struct {
	Code int
	Name string
	Type string
}

type Candidate struct {
	CandidateID string
	FullName    string
	Party       string
	Position    string
	RegionCode  int
}

type Vote struct {
	VoteID      string
	CandidateID string
	RegionCode  int
	RecordedAt  time.Time
}

type PartyTally struct {
	Party string
	Votes int64
}

type ElectionStatus struct {
	State     string
	UpdatedAt time.Time
}

type Feedback struct {
	FeedbackID string
	Message    string
	Rating     int
	CreatedAt  time.Time
}
