// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [TermRepository] for one taxonomy table.
type PostgresRepository struct {
	db    *pgxpool.Pool
	kind  Kind
	table schema.CoreTaxonomyTable
}

// NewPostgresRepository returns a repository bound to the table of kind.
func NewPostgresRepository(db *pgxpool.Pool, kind Kind) *PostgresRepository {
	table := schema.CoreCategory
	if kind == KindGenre {
		table = schema.CoreGenre
	}
	return &PostgresRepository{db: db, kind: kind, table: table}
}

func (repository *PostgresRepository) selectColumns() string {
	return strings.Join(repository.table.Columns(), ", ")
}

/*
List retrieves one page of terms.

Parameters:
  - context: context.Context
  - search: string (case-insensitive name substring)
  - page: pagination.Params

Returns:
  - []*Term: Terms ordered by name
  - int: Total matches
  - error: Database failures
*/
func (repository *PostgresRepository) List(context context.Context, search string, page pagination.Params) ([]*Term, int, error) {
	table := repository.table
	where := fmt.Sprintf(`$1 = '' OR %s ILIKE '%%' || $1 || '%%'`, table.Name)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, table.Table, where)
	if err := repository.db.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_reference_repo_count_failed")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY %s, %s
		LIMIT $2 OFFSET $3`,
		repository.selectColumns(), table.Table, where, table.Name, table.ID)

	terms, err := repository.query(context, query, search, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}

	return terms, total, nil
}

// FindBySlug retrieves a single term.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Term, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		repository.selectColumns(), repository.table.Table, repository.table.Slug)

	term := &Term{}
	err := repository.db.QueryRow(context, query, slug).Scan(&term.ID, &term.Name, &term.Slug)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound(string(repository.kind))
		}
		return nil, dberr.Wrap(err, "postgres_reference_repo_find_failed")
	}

	return term, nil
}

// FindBySlugs retrieves every term whose slug is in slugs.
func (repository *PostgresRepository) FindBySlugs(context context.Context, slugs []string) ([]*Term, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1) ORDER BY %s`,
		repository.selectColumns(), repository.table.Table, repository.table.Slug, repository.table.Name)

	return repository.query(context, query, slugs)
}

/*
Create inserts a term and reads back its ID.

Returns:
  - error: Field ValidationError when the slug is taken
*/
func (repository *PostgresRepository) Create(context context.Context, term *Term) error {
	table := repository.table
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		table.Table, table.Name, table.Slug, table.ID)

	err := repository.db.QueryRow(context, query, term.Name, term.Slug).Scan(&term.ID)
	if err != nil {
		taken := apperr.FieldInvalid(FieldSlug,
			fmt.Sprintf("%s with this slug already exists", repository.kind))
		return dberr.Wrap(err, "postgres_reference_repo_create_failed", dberr.On(table.UniqueSlug, taken))
	}

	return nil
}

// DeleteBySlug removes a term. Foreign keys detach or cascade dependent rows.
func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, repository.table.Table, repository.table.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "postgres_reference_repo_delete_failed")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(string(repository.kind))
	}

	return nil
}

func (repository *PostgresRepository) query(context context.Context, query string, args ...any) ([]*Term, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_reference_repo_query_failed")
	}
	defer rows.Close()

	terms := make([]*Term, 0)
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug); err != nil {
			return nil, dberr.Wrap(err, "postgres_reference_repo_scan_failed")
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_reference_repo_rows_failed")
	}

	return terms, nil
}
