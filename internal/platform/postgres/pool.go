// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides the PostgreSQL connection pool and the
// transaction helper shared by the YaMDb repositories.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// Pool settings for the API process. The CLI narrows them with [Option]s.
const (
	defaultMaxConns   = 25
	defaultMinConns   = 5
	defaultAppName    = "yamdb-api"
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 1 * time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

type options struct {
	maxConns int32
	appName  string
}

// Option adjusts the pool built by [NewPool].
type Option func(*options)

// WithMaxConns caps the pool size. The warm minimum never exceeds it.
func WithMaxConns(n int32) Option {
	return func(o *options) { o.maxConns = max(1, n) }
}

// WithApplicationName sets application_name, visible in pg_stat_activity.
func WithApplicationName(name string) Option {
	return func(o *options) { o.appName = name }
}

/*
NewPool creates a pool and pings it before returning.

Parameters:
  - ctx: Bounds the initial connection attempt
  - dsn: libpq connection string or postgres:// URL
  - logger: Startup logger
  - opts: Pool size and application name overrides

Returns:
  - *pgxpool.Pool: Ready pool, closed by the caller
  - error: Invalid DSN or unreachable server
*/
func NewPool(ctx context.Context, dsn string, logger *slog.Logger, opts ...Option) (*pgxpool.Pool, error) {
	settings := options{maxConns: defaultMaxConns, appName: defaultAppName}
	for _, opt := range opts {
		opt(&settings)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = settings.maxConns
	poolConfig.MinConns = min(defaultMinConns, settings.maxConns)
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// Server-side limits ride along with the startup message, so no extra round trip per connection.
	runtime := poolConfig.ConnConfig.RuntimeParams
	runtime["application_name"] = settings.appName
	runtime["statement_timeout"] = fmt.Sprintf("%d", constants.GlobalRequestTimeout.Milliseconds())

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("application_name", settings.appName),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)

	return pool, nil
}

// Ping verifies that the pool can reach the server.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}

// WithTx runs fn inside one transaction. It commits when fn returns nil and
// rolls back otherwise.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, pool, fn)
}
