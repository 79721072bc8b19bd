package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tallybench/internal/estimation"
)

func init() {
	rootCmd.AddCommand(estimateCmd)
}

const estimateTemplate string = `
	Tallybench estimate at %s

	Seed data:
		Regions: %d
		Candidates: %d
		Votes: %d
		Feedback Entries: %d
		Total Rows: %d
		Estimated Database Size: %s

	Load test:
		Total Operations: %d
`

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate seed data volume and database size without touching the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := mustLoadConfig()

		e := estimation.Estimate(config)
		fmt.Printf(
			estimateTemplate,
			time.Now().Format("2006-01-02"),
			e.Regions,
			e.Candidates,
			e.Votes,
			e.FeedbackEntries,
			e.TotalRows,
			estimation.FormatBytes(e.EstimatedDatabaseSizeBytes),
			e.TotalOperations,
		)
		return nil
	},
}
