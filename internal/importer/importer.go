// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package importer loads the CSV fixtures into an empty or partially filled
database.

Each file starts with a header row naming its columns. Rows keep their IDs,
rows whose ID already exists are left alone, and rows that break a
constraint (an unknown parent, a second review of the same title) are
skipped and counted. After each table its ID sequence is moved past the
highest imported ID so later inserts do not collide.
*/
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

// Executor is the subset of pgxpool.Pool the importer needs.
type Executor interface {
	Exec(context context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Report summarises one imported file.
type Report struct {
	File     string
	Inserted int
	Existing int
	Skipped  int
}

// Importer writes fixture rows through an [Executor].
type Importer struct {
	db     Executor
	logger *slog.Logger
}

// New constructs an [Importer].
func New(db Executor, logger *slog.Logger) *Importer {
	return &Importer{db: db, logger: logger}
}

/*
Run imports every known fixture file found in dir, in dependency order.

Description: Missing files are logged and skipped so a partial fixture set
can be loaded. The first non-constraint database error aborts the run.

Parameters:
  - context: context.Context
  - dir: string (directory holding users.csv, category.csv, ...)

Returns:
  - []Report: One report per imported file
  - error: Read or database failures
*/
func (importer *Importer) Run(context context.Context, dir string) ([]Report, error) {
	var reports []Report

	for _, table := range Tables {
		path := filepath.Join(dir, table.File)

		file, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			importer.logger.WarnContext(context, "import_file_missing", slog.String("file", table.File))
			continue
		}
		if err != nil {
			return reports, fmt.Errorf("importer_open_failed: %w", err)
		}

		report, err := importer.ImportTable(context, table, file)
		file.Close()
		if err != nil {
			return reports, err
		}

		reports = append(reports, report)
	}

	return reports, nil
}

// ImportTable loads one CSV stream into table.
func (importer *Importer) ImportTable(context context.Context, table Table, source io.Reader) (Report, error) {
	report := Report{File: table.File}

	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return report, nil
	}
	if err != nil {
		return report, fmt.Errorf("importer_header_failed: %s: %w", table.File, err)
	}

	columns, positions, err := importer.bind(context, table, header)
	if err != nil {
		return report, err
	}

	statement := insertStatement(table, columns)

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("importer_read_failed: %s line %d: %w", table.File, line, err)
		}

		arguments, err := convert(columns, positions, record)
		if err != nil {
			importer.logger.WarnContext(context, "import_row_invalid",
				slog.String("file", table.File),
				slog.Int("line", line),
				slog.String("error", err.Error()),
			)
			report.Skipped++
			continue
		}

		tag, err := importer.db.Exec(context, statement, arguments...)
		switch {
		case dberr.IsIntegrityViolation(err):
			importer.logger.DebugContext(context, "import_row_rejected",
				slog.String("file", table.File),
				slog.Int("line", line),
				slog.String("error", err.Error()),
			)
			report.Skipped++
		case err != nil:
			return report, fmt.Errorf("importer_insert_failed: %s line %d: %w", table.File, line, err)
		case tag.RowsAffected() == 0:
			report.Existing++
		default:
			report.Inserted++
		}
	}

	if _, err := importer.db.Exec(context, resetSequenceStatement(table)); err != nil {
		return report, fmt.Errorf("importer_sequence_reset_failed: %s: %w", table.Name, err)
	}

	importer.logger.InfoContext(context, "import_file_done",
		slog.String("file", table.File),
		slog.Int("inserted", report.Inserted),
		slog.Int("existing", report.Existing),
		slog.Int("skipped", report.Skipped),
	)

	return report, nil
}

// bind matches header cells to known columns. Unknown headers are ignored;
// the key column is mandatory.
func (importer *Importer) bind(context context.Context, table Table, header []string) ([]Column, []int, error) {
	index := make(map[string]int, len(header))
	for position, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = position
	}

	var columns []Column
	var positions []int
	var hasKey bool

	for _, column := range table.Columns {
		position, ok := index[column.Header]
		if !ok {
			continue
		}
		columns = append(columns, column)
		positions = append(positions, position)
		delete(index, column.Header)
		if column.Name == table.Key {
			hasKey = true
		}
	}

	if !hasKey {
		return nil, nil, fmt.Errorf("importer_header_invalid: %s has no %q column", table.File, table.Key)
	}

	for name := range index {
		importer.logger.WarnContext(context, "import_header_ignored",
			slog.String("file", table.File),
			slog.String("header", name),
		)
	}

	return columns, positions, nil
}

func convert(columns []Column, positions []int, record []string) ([]any, error) {
	arguments := make([]any, len(columns))
	for i, column := range columns {
		if positions[i] >= len(record) {
			return nil, fmt.Errorf("missing %q", column.Header)
		}
		value, err := column.Convert(record[positions[i]])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", column.Header, err)
		}
		arguments[i] = value
	}
	return arguments, nil
}

// # Statements

func insertStatement(table Table, columns []Column) string {
	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, column := range columns {
		names[i] = column.Name
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING`,
		table.Name, strings.Join(names, ", "), strings.Join(placeholders, ", "), table.Key)
}

func resetSequenceStatement(table Table) string {
	return fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE(MAX(%s), 0) + 1, false) FROM %s`,
		table.Name, table.Key, table.Key, table.Name)
}
