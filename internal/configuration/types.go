package configuration

import "time"

// TallybenchConfig is the root configuration for all tallybench subcommands.
type TallybenchConfig struct {
	Database DatabaseConfig
	LoadTest LoadTestConfig
	Seed     SeedConfig
}

// DatabaseConfig selects the store backend. Exactly one backend must be configured.
type DatabaseConfig struct {
	Postgres PostgresConfig
	InMemory bool
}

type PostgresConfig struct {
	// Connection parameters compatible with libpq, e.g. host, port, user,
	// password, dbname, sslmode.
	Connection map[string]string
}

// LoadTestConfig describes one load-test run.
type LoadTestConfig struct {
	// Total number of operations executed across all batches.
	TotalOperations int `validate:"gt=0"`
	// Number of concurrently running batches. Operations within a batch
	// execute sequentially, modelling independent client sessions.
	BatchCount int `validate:"gt=0"`
	// Delay between consecutive batch launches, avoiding a thundering-herd
	// burst against the store.
	InterBatchDelay time.Duration `validate:"gte=0"`
	// Insert a PacingPause after every PacingEvery operations within a batch.
	// Zero disables pacing.
	PacingEvery int           `validate:"gte=0"`
	PacingPause time.Duration `validate:"gte=0"`
	// How often progress is logged during the run.
	ProgressInterval time.Duration `validate:"gte=0"`
	// Seed for the workload's random selection. Zero means seed from the clock.
	RandomSeed int64
	// Directory the JSON result file is written to.
	ResultsDirectory string `validate:"required"`
}

// SeedConfig describes the synthetic dataset inserted by the seed subcommand.
type SeedConfig struct {
	Regions             int `validate:"gt=0"`
	CandidatesPerRegion int `validate:"gt=0"`
	VotesPerCandidate   int `validate:"gte=0"`
	FeedbackEntries     int `validate:"gte=0"`
	// Rows per COPY batch when bulk inserting.
	CopyBatchSize int `validate:"gt=0"`
	// Seed for the data generators. Zero means seed from the clock.
	RandomSeed int64
}
