// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/migration"
)

var (
	// Migrate flags
	migrationsDir string
	steps         int
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run database migrations to keep the schema in sync with the code.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back migrations
  version  - Show the applied version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migration.RunUp(cfg.DatabaseURL, migrationsPath(), logger)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long: `Roll back applied migrations.

Examples:
  yamdbctl migrate down --steps 1   # Roll back the last migration
  yamdbctl migrate down --steps 0   # Roll back everything`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return migration.RunDown(cfg.DatabaseURL, migrationsPath(), steps, logger)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := migration.Version(cfg.DatabaseURL, migrationsPath(), logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	},
}

// migrationsPath prefers the flag over MIGRATION_PATH.
func migrationsPath() string {
	if migrationsDir != "" {
		return migrationsDir
	}
	return cfg.MigrationPath
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "migrations-dir", "", "Directory of migration files (default MIGRATION_PATH)")
	migrateDownCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back; 0 rolls back all")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}
