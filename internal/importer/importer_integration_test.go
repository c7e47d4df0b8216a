//go:build integration

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/importer"
	"github.com/taibuivan/yamdb/internal/platform/postgres/pgtest"
)

func TestFixtures_AgainstPostgres(t *testing.T) {
	pool := pgtest.Start(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fixtures := pgtest.RepoPath("data", "fixtures")

	reports, err := importer.New(pool, logger).Run(ctx, fixtures)
	require.NoError(t, err)
	for _, report := range reports {
		assert.Positive(t, report.Inserted, report.File)
	}

	t.Run("import_is_idempotent", func(t *testing.T) {
		reports, err := importer.New(pool, logger).Run(ctx, fixtures)
		require.NoError(t, err)
		for _, report := range reports {
			assert.Zero(t, report.Inserted, report.File)
			assert.Positive(t, report.Existing, report.File)
		}
	})

	t.Run("sequences_follow_imported_ids", func(t *testing.T) {
		var id int64
		require.NoError(t, pool.QueryRow(ctx,
			`INSERT INTO core.genre (name, slug) VALUES ('Noir', 'noir') RETURNING id`).Scan(&id))

		var highest int64
		require.NoError(t, pool.QueryRow(ctx, `SELECT MAX(id) FROM core.genre WHERE slug <> 'noir'`).Scan(&highest))
		assert.Greater(t, id, highest)
	})
}
