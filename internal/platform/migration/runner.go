// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies and rolls back the SQL files under data/migrations
// with golang-migrate. The API runs [RunUp] at boot when AUTO_MIGRATE is set;
// yamdbctl exposes all three operations.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// open builds a migrator whose log output goes to logger.
func open(dsn, migrationsPath string, logger *slog.Logger) (*migrate.Migrate, error) {
	migrator, err := migrate.New("file://"+migrationsPath, convertToPgx5DSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}

	migrator.Log = &migrateLogger{
		logger:  logger,
		verbose: logger.Enabled(context.Background(), slog.LevelDebug),
	}
	return migrator, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceError, dbError := migrator.Close()
	if sourceError != nil {
		logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
	}
	if dbError != nil {
		logger.Error("migration_db_close_failed", slog.Any("error", dbError))
	}
}

// currentVersion reads the applied version, refusing a dirty database.
func currentVersion(migrator *migrate.Migrate) (uint, error) {
	version, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("migration: failed to get current version: %w", err)
	}

	if isDirty {
		return version, fmt.Errorf("migration: database is in a dirty state at version %d (manual intervention required)", version)
	}

	return version, nil
}

// RunUp applies every pending migration. An up-to-date database is not an
// error; a dirty one is.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := open(dsn, migrationsPath, logger)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, logger)

	fromVersion, err := currentVersion(migrator)
	if err != nil {
		return err
	}

	logger.Info("migration_started", slog.Int("current_version", int(fromVersion)))

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Int("from_version", int(fromVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return nil
}

// RunDown rolls back the given number of migrations. Steps below one roll
// back everything.
func RunDown(dsn string, migrationsPath string, steps int, logger *slog.Logger) error {
	migrator, err := open(dsn, migrationsPath, logger)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, logger)

	fromVersion, err := currentVersion(migrator)
	if err != nil {
		return err
	}

	if steps < 1 {
		err = migrator.Down()
	} else {
		err = migrator.Steps(-steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: down failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("migration_rolled_back",
		slog.Int("from_version", int(fromVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return nil
}

// Version reports the applied migration version; zero means none.
func Version(dsn string, migrationsPath string, logger *slog.Logger) (uint, error) {
	migrator, err := open(dsn, migrationsPath, logger)
	if err != nil {
		return 0, err
	}
	defer closeMigrator(migrator, logger)

	return currentVersion(migrator)
}

// convertToPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5://
// scheme the golang-migrate pgx/v5 driver registers. Other DSNs pass through.
func convertToPgx5DSN(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger forwards golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_progress",
		slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
