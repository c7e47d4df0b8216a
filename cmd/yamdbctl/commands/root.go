// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package commands implements the yamdbctl subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	pgstore "github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

var (
	// Global flags
	verbose bool

	// Loaded by the root pre-run for every subcommand.
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yamdbctl",
	Short: "YaMDb administration tool",
	Long: `yamdbctl manages a YaMDb deployment from the command line.

It reads the same environment (DATABASE_URL, SECRET_KEY, ...) as the API
server, including a local .env file.`,
	Version:       constants.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
			With(slog.String("app", "yamdbctl"))

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(migrateCmd, importCmd, createAdminCmd, issueCodeCmd)
}

// connect opens a pool for one command run; the caller closes it.
func connect(context context.Context) (*pgxpool.Pool, error) {
	pool, err := pgstore.NewPool(context, cfg.DatabaseURL, logger,
		pgstore.WithApplicationName("yamdbctl"),
		pgstore.WithMaxConns(2),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return pool, nil
}

// authService builds the signup service with the server's keys. Codes are
// printed by the caller, so mail only goes to the log.
func authService(pool *pgxpool.Pool) (*auth.Service, error) {
	tokens, err := sec.NewAccessTokenService(cfg.SecretKey, cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath)
	if err != nil {
		return nil, err
	}

	key, err := sec.DeriveKey(cfg.SecretKey, constants.KeyInfoConfirmationCode)
	if err != nil {
		return nil, err
	}

	return auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewCodeGenerator(key, cfg.ConfirmationCodeTTL),
		tokens,
		mail.NewLogNotifier(cfg.MailFrom, logger),
		cfg.AccessTokenTTL,
		logger,
	), nil
}
