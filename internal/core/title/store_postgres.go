// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [TitleRepository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Query Building

// fromClause joins the category for filtering and the nested read shape.
var fromClause = fmt.Sprintf(`%s t LEFT JOIN %s c ON c.%s = t.%s`,
	schema.CoreTitle.Table, schema.CoreCategory.Table, schema.CoreCategory.ID, schema.CoreTitle.CategoryID)

// whereClause renders filter as SQL conditions with positional arguments.
func whereClause(filter Filter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	next := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("c.%s = %s", schema.CoreCategory.Slug, next(filter.Category)))
	}

	if len(filter.Genres) > 0 {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s
			WHERE tg.%s = t.%s AND g.%s = ANY(%s))`,
			schema.CoreTitleGenre.Table, schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreTitleGenre.GenreID,
			schema.CoreTitleGenre.TitleID, schema.CoreTitle.ID, schema.CoreGenre.Slug, next(filter.Genres)))
	}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("t.%s ILIKE '%%' || %s || '%%'", schema.CoreTitle.Name, next(filter.Name)))
	}

	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("t.%s = %s", schema.CoreTitle.Year, next(*filter.Year)))
	}

	if len(conditions) == 0 {
		return "TRUE", args
	}

	return strings.Join(conditions, " AND "), args
}

// selectTitles reads the title row, the truncated average score, and the category.
func selectTitles(where, tail string) string {
	return fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s,
		       COALESCE(FLOOR(AVG(r.%s)), 0)::int,
		       c.%s, c.%s, c.%s
		FROM %s
		LEFT JOIN %s r ON r.%s = t.%s
		WHERE %s
		GROUP BY t.%s, c.%s
		ORDER BY t.%s, t.%s
		%s`,
		schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description,
		schema.CoreReview.Score,
		schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
		fromClause,
		schema.CoreReview.Table, schema.CoreReview.TitleID, schema.CoreTitle.ID,
		where,
		schema.CoreTitle.ID, schema.CoreCategory.ID,
		schema.CoreTitle.Name, schema.CoreTitle.ID,
		tail,
	)
}

// # Reads

/*
List retrieves one page of titles with their rating, category and genres.

Parameters:
  - context: context.Context
  - filter: Filter
  - page: pagination.Params

Returns:
  - []*Title: Hydrated read models
  - int: Total matches
  - error: Database failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, page pagination.Params) ([]*Title, int, error) {
	where, args := whereClause(filter)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, fromClause, where)
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_title_repo_count_failed")
	}

	tail := fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	titles, err := repository.queryTitles(context, selectTitles(where, tail), args...)
	if err != nil {
		return nil, 0, err
	}

	if err := repository.attachGenres(context, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

// FindByID retrieves the read model of one title.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := selectTitles(fmt.Sprintf("t.%s = $1", schema.CoreTitle.ID), "")

	titles, err := repository.queryTitles(context, query, id)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, apperr.NotFound("Title")
	}

	if err := repository.attachGenres(context, titles); err != nil {
		return nil, err
	}

	return titles[0], nil
}

func (repository *PostgresRepository) queryTitles(context context.Context, query string, args ...any) ([]*Title, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_title_repo_query_failed")
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	for rows.Next() {
		var (
			title        = &Title{Genres: []*reference.Term{}}
			categoryID   *int64
			categoryName *string
			categorySlug *string
		)

		err := rows.Scan(
			&title.ID, &title.Name, &title.Year, &title.Description,
			&title.Rating,
			&categoryID, &categoryName, &categorySlug,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "postgres_title_repo_scan_failed")
		}

		if categoryID != nil {
			title.Category = &reference.Term{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
		}

		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_title_repo_rows_failed")
	}

	return titles, nil
}

// attachGenres loads the genres of every title in one query.
func (repository *PostgresRepository) attachGenres(context context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	byID := make(map[int64]*Title, len(titles))
	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		byID[title.ID] = title
		ids = append(ids, title.ID)
	}

	query := fmt.Sprintf(`
		SELECT tg.%s, g.%s, g.%s, g.%s
		FROM %s tg JOIN %s g ON g.%s = tg.%s
		WHERE tg.%s = ANY($1)
		ORDER BY g.%s`,
		schema.CoreTitleGenre.TitleID, schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Slug,
		schema.CoreTitleGenre.Table, schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreTitleGenre.GenreID,
		schema.CoreTitleGenre.TitleID,
		schema.CoreGenre.Name,
	)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "postgres_title_repo_genres_failed")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		genre := &reference.Term{}
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return dberr.Wrap(err, "postgres_title_repo_genre_scan_failed")
		}
		byID[titleID].Genres = append(byID[titleID].Genres, genre)
	}

	return rows.Err()
}

// # Writes

/*
Create inserts the title row and its genre links in one transaction.

Parameters:
  - context: context.Context
  - record: *Record (ID is set on success)

Returns:
  - error: ValidationError for dangling references, or database failures
*/
func (repository *PostgresRepository) Create(context context.Context, record *Record) error {
	title := schema.CoreTitle
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`,
		title.Table, title.Name, title.Year, title.Description, title.CategoryID,
		title.ID,
	)

	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(context, query, record.Name, record.Year, record.Description, record.CategoryID).Scan(&record.ID); err != nil {
			return err
		}
		return linkGenres(context, tx, record)
	})

	if err != nil {
		return dberr.Wrap(err, "postgres_title_repo_create_failed")
	}

	return nil
}

/*
Update rewrites the title row and replaces its genre links in one transaction.

Returns:
  - error: apperr.NotFound if the title vanished, or database failures
*/
func (repository *PostgresRepository) Update(context context.Context, record *Record) error {
	title := schema.CoreTitle
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1`,
		title.Table, title.Name, title.Year, title.Description, title.CategoryID,
		title.ID,
	)

	unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID)

	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(context, query, record.ID, record.Name, record.Year, record.Description, record.CategoryID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Title")
		}

		if _, err := tx.Exec(context, unlink, record.ID); err != nil {
			return err
		}
		return linkGenres(context, tx, record)
	})

	if err != nil {
		return dberr.Wrap(err, "postgres_title_repo_update_failed")
	}

	return nil
}

// linkGenres queues one join row per genre and sends them as a batch.
func linkGenres(context context.Context, tx pgx.Tx, record *Record) error {
	if len(record.GenreIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT ON CONSTRAINT %s DO NOTHING`,
		schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID, schema.CoreTitleGenre.GenreID,
		schema.CoreTitleGenre.UniquePair)

	batch := &pgx.Batch{}
	for _, genreID := range record.GenreIDs {
		batch.Queue(query, record.ID, genreID)
	}

	return tx.SendBatch(context, batch).Close()
}

// Delete removes a title. Reviews, comments and genre links cascade.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "postgres_title_repo_delete_failed")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}
