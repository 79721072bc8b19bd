package cmd

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tallyhq/tallybench/internal/common"
	"github.com/tallyhq/tallybench/internal/configuration"
	"github.com/tallyhq/tallybench/internal/db"
)

var rootCmd = &cobra.Command{
	Use:   "tallybench command",
	Short: "Load testing and seeding toolkit for the election-results database",
	Long: `
Load testing and seeding toolkit for the election-results database.

Configuration is read from ./config/tallybench/config.yaml; pass --config to
merge in additional config files.

Example config.yaml:

database:
  postgres:
    connection:
      host: localhost
      port: "5432"
      user: postgres
      password: psw
      dbname: tallybench
      sslmode: disable
loadTest:
  totalOperations: 10000
  batchCount: 10
  interBatchDelay: 200ms
  resultsDirectory: results
seed:
  regions: 27
  candidatesPerRegion: 12
  votesPerCandidate: 2500
  feedbackEntries: 500
  copyBatchSize: 5000
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSlice(
		"config",
		[]string{},
		"Fully qualified path to additional configuration files (repeat the arg or separate paths with commas)",
	)
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		panic(err)
	}
}

func mustLoadConfig() configuration.TallybenchConfig {
	var config configuration.TallybenchConfig
	userSpecifiedConfigs := viper.GetStringSlice("config")
	common.LoadConfig(&config, "./config/tallybench", userSpecifiedConfigs)

	if err := config.Validate(); err != nil {
		configuration.LogValidationErrors(err)
		os.Exit(1)
	}
	return config
}

// newDatabase creates a store instance for the configured backend.
func newDatabase(config configuration.TallybenchConfig) (db.Database, error) {
	switch {
	case len(config.Database.Postgres.Connection) > 0:
		return db.NewPostgresDatabase(config.Database.Postgres), nil
	case config.Database.InMemory:
		return db.NewMemoryDatabase(), nil
	default:
		return nil, errors.New("no database backend configured")
	}
}
