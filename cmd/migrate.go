package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-monitor/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()
		logger, config := mustSetup()

		pool, err := openDatabase(ctx, config.Database)
		if err != nil {
			logger.Fatal("connecting to the database", zap.Error(err))
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool); err != nil {
			logger.Fatal("migrating the schema", zap.Error(err))
		}

		logger.Info("schema is up to date")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
