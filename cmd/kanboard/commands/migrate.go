package commands

import (
	"kanboard/internal/config"
	"kanboard/internal/migrations"
	"kanboard/internal/printer"

	"github.com/spf13/cobra"
)

var downSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		printer.Step("Migrating %s@%s:%s/%s\n", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err := migrations.Up(cfg.DatabaseURL()); err != nil {
			return migrationError(err)
		}
		printer.Success("Database is up to date\n")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long:  "Roll back the last --steps migrations, or all of them when --steps is 0.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if downSteps <= 0 {
			printer.Warning("Rolling back every migration, all data will be dropped\n")
		}
		if err := migrations.Down(cfg.DatabaseURL(), downSteps); err != nil {
			return migrationError(err)
		}
		printer.Success("Rollback complete\n")
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "Number of migrations to roll back (0 for all)")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}

func migrationError(err error) error {
	return printer.Error(
		"Migration failed",
		err.Error(),
		[]string{"Check that PostgreSQL is reachable with the DB_* settings"},
	)
}
