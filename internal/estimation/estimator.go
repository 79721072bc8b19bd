package estimation

import (
	"fmt"

	"github.com/tallyhq/tallybench/internal/configuration"
)

// Per-row size estimates, including index overhead.
const (
	avgBytesPerRegion    = 120
	avgBytesPerCandidate = 350
	avgBytesPerVote      = 180
	avgBytesPerFeedback  = 250
)

type Estimation struct {
	Regions                    int
	Candidates                 int
	Votes                      int
	FeedbackEntries            int
	TotalRows                  int
	EstimatedDatabaseSizeBytes int64
	TotalOperations            int
}

// Estimate derives expected row counts and database size from the seed
// configuration, and the operation count from the load-test configuration,
// without touching the database.
func Estimate(config configuration.TallybenchConfig) Estimation {
	regions := config.Seed.Regions
	candidates := regions * config.Seed.CandidatesPerRegion
	votes := candidates * config.Seed.VotesPerCandidate
	feedback := config.Seed.FeedbackEntries

	estimatedBytes := int64(regions)*avgBytesPerRegion +
		int64(candidates)*avgBytesPerCandidate +
		int64(votes)*avgBytesPerVote +
		int64(feedback)*avgBytesPerFeedback

	return Estimation{
		Regions:                    regions,
		Candidates:                 candidates,
		Votes:                      votes,
		FeedbackEntries:            feedback,
		TotalRows:                  regions + candidates + votes + feedback,
		EstimatedDatabaseSizeBytes: estimatedBytes,
		TotalOperations:            config.LoadTest.TotalOperations,
	}
}

func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
