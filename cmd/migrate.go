package cmd

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pudey33/DreamRate/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the store schema",
	Long: `Apply or roll back the embedded schema migrations against DATABASE_URL.

Available subcommands:
  up     - apply every pending migration
  down   - roll back the most recent migration
  status - list migrations and whether they are applied`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(cmd, "up", database.MigrateUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(cmd, "down", database.MigrateDown)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(cmd, "status", database.MigrateStatus)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func withSQL(cmd *cobra.Command, name string, fn func(context.Context, *sql.DB) error) error {
	if config.Database.URL == "" {
		return errors.New("DATABASE_URL is required for migrations")
	}

	db, err := database.OpenSQL(config.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := fn(cmd.Context(), db); err != nil {
		logger.Error("Migration failed", zap.String("direction", name), zap.Error(err))
		return err
	}

	logger.Info("Migration finished", zap.String("direction", name))
	return nil
}
