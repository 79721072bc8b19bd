package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tallyhq/tallybench/internal/common"
	"github.com/tallyhq/tallybench/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(loadtestCmd)
	loadtestCmd.Flags().Int("operations", 0, "Override loadTest.totalOperations from config")
	loadtestCmd.Flags().Int("batches", 0, "Override loadTest.batchCount from config")
	if err := viper.BindPFlag("operations", loadtestCmd.Flags().Lookup("operations")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("batches", loadtestCmd.Flags().Lookup("batches")); err != nil {
		panic(err)
	}
}

var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Run a load test against the configured database",
	Long: `Runs the configured mix of read and write operations against the database in
concurrent batches and writes a JSON result file to the results directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := mustLoadConfig()

		if operations := viper.GetInt("operations"); operations > 0 {
			config.LoadTest.TotalOperations = operations
		}
		if batches := viper.GetInt("batches"); batches > 0 {
			config.LoadTest.BatchCount = batches
		}

		database, err := newDatabase(config)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx := common.CreateContextWithShutdown()
		result, err := scheduler.NewRunner(config, database).Run(ctx)
		if err != nil {
			return err
		}

		log.Infof("load test %s finished with performance score %.1f/10", result.Metadata.RunID, result.Results.PerformanceScore)
		return nil
	},
}
