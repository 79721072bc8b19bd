package seed

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tallyhq/tallybench/internal/configuration"
	"github.com/tallyhq/tallybench/internal/db"
)

// Seeder populates the election-results database with synthetic rows in
// foreign-key order: regions, then candidates, then votes. Bulk inserts go
// through the store's COPY capability in configurable batches.
type Seeder struct {
	config    configuration.SeedConfig
	database  db.Database
	generator *Generator
}

func NewSeeder(config configuration.SeedConfig, database db.Database) *Seeder {
	return &Seeder{
		config:    config,
		database:  database,
		generator: NewGenerator(config.RandomSeed),
	}
}

// Summary reports what one seeding run inserted.
type Summary struct {
	Regions    int
	Candidates int
	Votes      int
	Feedback   int
	Duration   time.Duration
}

func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	log.Info("Initialising database connection")
	if err := s.database.InitialiseSchema(ctx); err != nil {
		return Summary{}, fmt.Errorf("initialising database: %w", err)
	}

	regions := s.generator.Regions(s.config.Regions)
	log.Infof("Inserting %d regions", len(regions))
	if err := s.database.CopyRegions(ctx, regions); err != nil {
		return Summary{}, fmt.Errorf("inserting regions: %w", err)
	}

	candidates := s.generator.Candidates(regions, s.config.CandidatesPerRegion)
	log.Infof("Inserting %d candidates", len(candidates))
	for batchStart := 0; batchStart < len(candidates); batchStart += s.config.CopyBatchSize {
		end := min(batchStart+s.config.CopyBatchSize, len(candidates))
		if err := s.database.CopyCandidates(ctx, candidates[batchStart:end]); err != nil {
			return Summary{}, fmt.Errorf("inserting candidates: %w", err)
		}
	}

	totalVotes, err := s.insertVotes(ctx, candidates)
	if err != nil {
		return Summary{}, err
	}

	feedback := s.generator.Feedback(s.config.FeedbackEntries)
	log.Infof("Inserting %d feedback entries", len(feedback))
	if err := s.database.CopyFeedback(ctx, feedback); err != nil {
		return Summary{}, fmt.Errorf("inserting feedback: %w", err)
	}

	if err := s.database.SetElectionStatus(ctx, "ONGOING"); err != nil {
		return Summary{}, fmt.Errorf("setting election status: %w", err)
	}

	summary := Summary{
		Regions:    len(regions),
		Candidates: len(candidates),
		Votes:      totalVotes,
		Feedback:   len(feedback),
		Duration:   time.Since(start),
	}
	log.WithFields(log.Fields{
		"regions":    summary.Regions,
		"candidates": summary.Candidates,
		"votes":      summary.Votes,
		"feedback":   summary.Feedback,
		"duration":   summary.Duration,
	}).Info("Seeding complete")

	return summary, nil
}

// insertVotes streams votes per candidate into COPY batches rather than
// materialising the full set, which can run to millions of rows.
func (s *Seeder) insertVotes(ctx context.Context, candidates []db.Candidate) (int, error) {
	batch := make([]db.Vote, 0, s.config.CopyBatchSize)
	total := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.database.CopyVotes(ctx, batch); err != nil {
			return fmt.Errorf("inserting votes: %w", err)
		}
		total += len(batch)
		log.Infof("Inserted %d votes so far", total)
		batch = batch[:0]
		return nil
	}

	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		count := s.generator.VoteCount(s.config.VotesPerCandidate)
		for i := 0; i < count; i++ {
			batch = append(batch, s.generator.Vote(candidate))
			if len(batch) >= s.config.CopyBatchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}

	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}
