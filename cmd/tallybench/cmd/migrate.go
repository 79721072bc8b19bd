package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tallybench/internal/common"
	"github.com/tallyhq/tallybench/internal/common/database"
	"github.com/tallyhq/tallybench/internal/schema"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations to the Postgres database",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := mustLoadConfig()

		if len(config.Database.Postgres.Connection) == 0 {
			return errors.New("migrate requires a Postgres backend; the in-memory store has no persistent schema")
		}

		ctx := common.CreateContextWithShutdown()
		pool, err := database.OpenPgxPool(ctx, config.Database.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()

		migrations, err := schema.TallybenchMigrations()
		if err != nil {
			return err
		}
		if err := database.UpdateDatabase(ctx, pool, migrations); err != nil {
			return err
		}

		log.Info("database migrated")
		return nil
	},
}
