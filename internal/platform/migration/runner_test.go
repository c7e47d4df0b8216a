// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/yamdb":   "pgx5://u:p@localhost:5432/yamdb",
		"postgresql://u:p@localhost:5432/yamdb": "pgx5://u:p@localhost:5432/yamdb",
		"pgx5://u:p@localhost:5432/yamdb":       "pgx5://u:p@localhost:5432/yamdb",
		"host=localhost dbname=yamdb":           "host=localhost dbname=yamdb",
	}

	for input, want := range tests {
		assert.Equal(t, want, convertToPgx5DSN(input), input)
	}
}

func TestMigrateLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

	bridge := &migrateLogger{logger: logger, verbose: true}
	bridge.Printf("applied %d/u %s\n", 1, "init")

	assert.True(t, bridge.Verbose())
	assert.Contains(t, buffer.String(), `"msg":"migration_progress"`)
	assert.Contains(t, buffer.String(), `"detail":"applied 1/u init"`)
}
