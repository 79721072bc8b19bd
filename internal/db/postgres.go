package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyhq/tallybench/internal/common/database"
	"github.com/tallyhq/tallybench/internal/configuration"
	"github.com/tallyhq/tallybench/internal/schema"
)

var psql = goqu.Dialect("postgres")

var (
	// Tables
	candidateTable = goqu.T("candidate")
	voteTable      = goqu.T("vote")
	feedbackTable  = goqu.T("feedback")

	// Columns: candidate table
	candidate_candidateId = goqu.I("candidate.candidate_id")
	candidate_fullName    = goqu.I("candidate.full_name")
	candidate_party       = goqu.I("candidate.party")
	candidate_position    = goqu.I("candidate.position")
	candidate_regionCode  = goqu.I("candidate.region_code")

	// Columns: vote table
	vote_voteId      = goqu.I("vote.vote_id")
	vote_candidateId = goqu.I("vote.candidate_id")
	vote_regionCode  = goqu.I("vote.region_code")
	vote_recordedAt  = goqu.I("vote.recorded_at")

	// Columns: feedback table
	feedback_feedbackId = goqu.I("feedback.feedback_id")
	feedback_message    = goqu.I("feedback.message")
	feedback_rating     = goqu.I("feedback.rating")
	feedback_createdAt  = goqu.I("feedback.created_at")
)

// PostgresDatabase implements Database using PostgreSQL. Reads are generated
// with goqu and executed through a pgx connection pool; bulk inserts use the
// COPY protocol.
type PostgresDatabase struct {
	config configuration.PostgresConfig
	pool   *pgxpool.Pool
}

func NewPostgresDatabase(config configuration.PostgresConfig) *PostgresDatabase {
	return &PostgresDatabase{config: config}
}

// InitialiseSchema opens the connection pool and applies the tallybench
// migrations. The store being unreachable here is a run-level fatal failure.
func (p *PostgresDatabase) InitialiseSchema(ctx context.Context) error {
	pool, err := database.OpenPgxPool(ctx, p.config)
	if err != nil {
		return fmt.Errorf("opening connection pool: %w", err)
	}
	p.pool = pool

	migrations, err := schema.TallybenchMigrations()
	if err != nil {
		pool.Close()
		return fmt.Errorf("loading migrations: %w", err)
	}

	if err := database.UpdateDatabase(ctx, p.pool, migrations); err != nil {
		pool.Close()
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

func (p *PostgresDatabase) CandidatesByPosition(ctx context.Context, position string) ([]Candidate, error) {
	query, args, err := psql.
		From(candidateTable).
		Select(candidate_candidateId, candidate_fullName, candidate_party, candidate_position, candidate_regionCode).
		Where(candidate_position.Eq(position)).
		Order(candidate_fullName.Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, describeError(err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.CandidateID, &c.FullName, &c.Party, &c.Position, &c.RegionCode); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (p *PostgresDatabase) VotesByRegion(ctx context.Context, regionCode int, limit int) ([]Vote, error) {
	query, args, err := psql.
		From(voteTable).
		Select(vote_voteId, vote_candidateId, vote_regionCode, vote_recordedAt).
		Where(vote_regionCode.Eq(regionCode)).
		Order(vote_recordedAt.Desc()).
		Limit(uint(limit)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, describeError(err)
	}
	defer rows.Close()

	var votes []Vote
	for rows.Next() {
		var v Vote
		if err := rows.Scan(&v.VoteID, &v.CandidateID, &v.RegionCode, &v.RecordedAt); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (p *PostgresDatabase) TallyByParty(ctx context.Context) ([]PartyTally, error) {
	query, args, err := psql.
		From(voteTable).
		Join(candidateTable, goqu.On(vote_candidateId.Eq(candidate_candidateId))).
		Select(candidate_party, goqu.COUNT(goqu.Star()).As("votes")).
		GroupBy(candidate_party).
		Order(goqu.I("votes").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, describeError(err)
	}
	defer rows.Close()

	var tallies []PartyTally
	for rows.Next() {
		var t PartyTally
		if err := rows.Scan(&t.Party, &t.Votes); err != nil {
			return nil, err
		}
		tallies = append(tallies, t)
	}
	return tallies, rows.Err()
}

func (p *PostgresDatabase) CurrentElectionStatus(ctx context.Context) (ElectionStatus, error) {
	var status ElectionStatus
	err := p.pool.QueryRow(ctx,
		`SELECT state, updated_at FROM election_status WHERE id = 1`,
	).Scan(&status.State, &status.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ElectionStatus{}, fmt.Errorf("election status has not been set")
	}
	return status, err
}

func (p *PostgresDatabase) FeedbackPage(ctx context.Context, limit int, offset int) ([]Feedback, error) {
	query, args, err := psql.
		From(feedbackTable).
		Select(feedback_feedbackId, feedback_message, feedback_rating, feedback_createdAt).
		Order(feedback_createdAt.Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, describeError(err)
	}
	defer rows.Close()

	var entries []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.FeedbackID, &f.Message, &f.Rating, &f.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, f)
	}
	return entries, rows.Err()
}

func (p *PostgresDatabase) InsertVote(ctx context.Context, vote Vote) (string, error) {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO vote (vote_id, candidate_id, region_code, recorded_at) VALUES ($1, $2, $3, $4)`,
		vote.VoteID, vote.CandidateID, vote.RegionCode, vote.RecordedAt,
	)
	if err != nil {
		return "", describeError(err)
	}
	return vote.VoteID, nil
}

func (p *PostgresDatabase) DeleteVote(ctx context.Context, voteID string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM vote WHERE vote_id = $1`, voteID)
	if err != nil {
		return describeError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vote %s not found", voteID)
	}
	return nil
}

func (p *PostgresDatabase) SetElectionStatus(ctx context.Context, state string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO election_status (id, state, updated_at) VALUES (1, $1, now())
		 ON CONFLICT (id) DO UPDATE SET state = $1, updated_at = now()`,
		state,
	)
	return describeError(err)
}

func (p *PostgresDatabase) CopyRegions(ctx context.Context, regions []Region) error {
	if len(regions) == 0 {
		return nil
	}
	rows := make([][]interface{}, len(regions))
	for i, r := range regions {
		rows[i] = []interface{}{r.Code, r.Name, r.Type}
	}
	_, err := p.pool.CopyFrom(
		ctx,
		pgx.Identifier{"region"},
		[]string{"code", "name", "region_type"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copying %d regions: %w", len(regions), describeError(err))
	}
	return nil
}

func (p *PostgresDatabase) CopyCandidates(ctx context.Context, candidates []Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	rows := make([][]interface{}, len(candidates))
	for i, c := range candidates {
		rows[i] = []interface{}{c.CandidateID, c.FullName, c.Party, c.Position, c.RegionCode}
	}
	_, err := p.pool.CopyFrom(
		ctx,
		pgx.Identifier{"candidate"},
		[]string{"candidate_id", "full_name", "party", "position", "region_code"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copying %d candidates: %w", len(candidates), describeError(err))
	}
	return nil
}

func (p *PostgresDatabase) CopyVotes(ctx context.Context, votes []Vote) error {
	if len(votes) == 0 {
		return nil
	}
	rows := make([][]interface{}, len(votes))
	for i, v := range votes {
		rows[i] = []interface{}{v.VoteID, v.CandidateID, v.RegionCode, v.RecordedAt}
	}
	_, err := p.pool.CopyFrom(
		ctx,
		pgx.Identifier{"vote"},
		[]string{"vote_id", "candidate_id", "region_code", "recorded_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copying %d votes: %w", len(votes), describeError(err))
	}
	return nil
}

func (p *PostgresDatabase) CopyFeedback(ctx context.Context, entries []Feedback) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]interface{}, len(entries))
	for i, f := range entries {
		rows[i] = []interface{}{f.FeedbackID, f.Message, f.Rating, f.CreatedAt}
	}
	_, err := p.pool.CopyFrom(
		ctx,
		pgx.Identifier{"feedback"},
		[]string{"feedback_id", "message", "rating", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copying %d feedback entries: %w", len(entries), describeError(err))
	}
	return nil
}

// TearDown truncates all tables. Faster than dropping and recreating the
// database, and lets repeat runs share one instance.
func (p *PostgresDatabase) TearDown(ctx context.Context) error {
	tables := []string{
		"vote",
		"candidate",
		"region",
		"election_status",
		"feedback",
	}

	for _, table := range tables {
		query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)
		if _, err := p.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("truncating table %s: %w", table, err)
		}
	}
	return nil
}

func (p *PostgresDatabase) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// describeError prefixes postgres errors with their failure class so failed
// operation results in the report distinguish constraint violations from
// connection problems.
func describeError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code):
			return fmt.Errorf("constraint violation (%s): %w", pgErr.ConstraintName, err)
		case pgerrcode.IsConnectionException(pgErr.Code):
			return fmt.Errorf("connection failure: %w", err)
		}
	}
	return err
}
