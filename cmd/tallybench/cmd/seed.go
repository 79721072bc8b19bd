package cmd

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tallybench/internal/common"
	"github.com/tallyhq/tallybench/internal/seed"
)

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with synthetic election data",
	Long: `Inserts synthetic regions, candidates, votes and feedback in foreign-key
order, then marks the election as ongoing. Run this before the first load test
against an empty database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := mustLoadConfig()

		database, err := newDatabase(config)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx := common.CreateContextWithShutdown()
		summary, err := seed.NewSeeder(config.Seed, database).Run(ctx)
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"regions":    summary.Regions,
			"candidates": summary.Candidates,
			"votes":      summary.Votes,
			"feedback":   summary.Feedback,
			"duration":   summary.Duration.Round(time.Millisecond),
		}).Info("seeding finished")
		return nil
	},
}
