// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Query Fragments

var (
	reviewSelect = fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s
		FROM %s r JOIN %s a ON a.%s = r.%s`,
		schema.CoreReview.ID, schema.CoreReview.TitleID, schema.CoreReview.AuthorID,
		schema.UserAccount.Username,
		schema.CoreReview.Text, schema.CoreReview.Score, schema.CoreReview.PubDate,
		schema.CoreReview.Table, schema.UserAccount.Table, schema.UserAccount.ID, schema.CoreReview.AuthorID,
	)

	commentSelect = fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s
		FROM %s c JOIN %s a ON a.%s = c.%s`,
		schema.CoreComment.ID, schema.CoreComment.ReviewID, schema.CoreComment.AuthorID,
		schema.UserAccount.Username,
		schema.CoreComment.Text, schema.CoreComment.PubDate,
		schema.CoreComment.Table, schema.UserAccount.Table, schema.UserAccount.ID, schema.CoreComment.AuthorID,
	)
)

// reviewViolations maps review constraints to client errors.
func reviewViolations() []dberr.Mapping {
	return []dberr.Mapping{
		dberr.On(schema.CoreReview.UniqueTitleAuthor, apperr.DuplicateReview()),
		dberr.On(schema.CoreReview.CheckScoreRange, apperr.FieldInvalid(FieldScore, scoreMessage)),
		dberr.On(schema.CoreReview.ForeignTitle, apperr.NotFound("Title")),
	}
}

func scanReview(row pgx.Row) (*Review, error) {
	review := &Review{}
	err := row.Scan(&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.PubDate)
	return review, err
}

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.PubDate)
	return comment, err
}

// TitleExists checks the parent title of every review route.
func (repository *PostgresRepository) TitleExists(context context.Context, titleID int64) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return dberr.Wrap(err, "postgres_review_repo_title_exists_failed")
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

// # Reviews

/*
ListReviews retrieves one page of a title's reviews.

Parameters:
  - context: context.Context
  - titleID: int64
  - page: pagination.Params

Returns:
  - []*Review: Reviews ordered by pub_date
  - int: Total reviews of the title
  - error: Database failures
*/
func (repository *PostgresRepository) ListReviews(context context.Context, titleID int64, page pagination.Params) ([]*Review, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.CoreReview.Table, schema.CoreReview.TitleID)
	if err := repository.pool.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_review_repo_count_failed")
	}

	query := fmt.Sprintf(`%s WHERE r.%s = $1 ORDER BY r.%s, r.%s LIMIT $2 OFFSET $3`,
		reviewSelect, schema.CoreReview.TitleID, schema.CoreReview.PubDate, schema.CoreReview.ID)

	rows, err := repository.pool.Query(context, query, titleID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_review_repo_list_failed")
	}
	defer rows.Close()

	reviews := make([]*Review, 0, page.Limit)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "postgres_review_repo_scan_failed")
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_review_repo_rows_failed")
	}

	return reviews, total, nil
}

// FindReview retrieves a review scoped to its title.
func (repository *PostgresRepository) FindReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := fmt.Sprintf(`%s WHERE r.%s = $1 AND r.%s = $2`,
		reviewSelect, schema.CoreReview.TitleID, schema.CoreReview.ID)

	review, err := scanReview(repository.pool.QueryRow(context, query, titleID, reviewID))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Review")
		}
		return nil, dberr.Wrap(err, "postgres_review_repo_find_failed")
	}

	return review, nil
}

// HasReviewBy checks the one-review-per-title rule ahead of the insert.
func (repository *PostgresRepository) HasReviewBy(context context.Context, titleID, authorID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.CoreReview.Table, schema.CoreReview.TitleID, schema.CoreReview.AuthorID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID, authorID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "postgres_review_repo_has_review_failed")
	}
	return exists, nil
}

/*
CreateReview inserts a review.

Description: The unique_title_author constraint is the final word on
duplicates; a concurrent insert that slips past the service pre-check
surfaces here as DuplicateReview.
*/
func (repository *PostgresRepository) CreateReview(context context.Context, review *Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.CoreReview.Table,
		schema.CoreReview.TitleID, schema.CoreReview.AuthorID, schema.CoreReview.Text, schema.CoreReview.Score,
		schema.CoreReview.ID, schema.CoreReview.PubDate,
	)

	err := repository.pool.QueryRow(context, query, review.TitleID, review.AuthorID, review.Text, review.Score).
		Scan(&review.ID, &review.PubDate)
	if err != nil {
		return dberr.Wrap(err, "postgres_review_repo_create_failed", reviewViolations()...)
	}

	return nil
}

// UpdateReview writes text and score. pub_date is never part of an update.
func (repository *PostgresRepository) UpdateReview(context context.Context, review *Review) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = $4 WHERE %s = $1 AND %s = $2`,
		schema.CoreReview.Table, schema.CoreReview.Text, schema.CoreReview.Score,
		schema.CoreReview.TitleID, schema.CoreReview.ID)

	tag, err := repository.pool.Exec(context, query, review.TitleID, review.ID, review.Text, review.Score)
	if err != nil {
		return dberr.Wrap(err, "postgres_review_repo_update_failed", reviewViolations()...)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

// DeleteReview removes a review scoped to its title. Comments cascade.
func (repository *PostgresRepository) DeleteReview(context context.Context, titleID, reviewID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CoreReview.Table, schema.CoreReview.TitleID, schema.CoreReview.ID)

	tag, err := repository.pool.Exec(context, query, titleID, reviewID)
	if err != nil {
		return dberr.Wrap(err, "postgres_review_repo_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

// # Comments

// ListComments retrieves one page of a review's comments.
func (repository *PostgresRepository) ListComments(context context.Context, reviewID int64, page pagination.Params) ([]*Comment, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.CoreComment.Table, schema.CoreComment.ReviewID)
	if err := repository.pool.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_comment_repo_count_failed")
	}

	query := fmt.Sprintf(`%s WHERE c.%s = $1 ORDER BY c.%s, c.%s LIMIT $2 OFFSET $3`,
		commentSelect, schema.CoreComment.ReviewID, schema.CoreComment.PubDate, schema.CoreComment.ID)

	rows, err := repository.pool.Query(context, query, reviewID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_comment_repo_list_failed")
	}
	defer rows.Close()

	comments := make([]*Comment, 0, page.Limit)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "postgres_comment_repo_scan_failed")
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_comment_repo_rows_failed")
	}

	return comments, total, nil
}

// FindComment retrieves a comment scoped to its review.
func (repository *PostgresRepository) FindComment(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1 AND c.%s = $2`,
		commentSelect, schema.CoreComment.ReviewID, schema.CoreComment.ID)

	comment, err := scanComment(repository.pool.QueryRow(context, query, reviewID, commentID))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, dberr.Wrap(err, "postgres_comment_repo_find_failed")
	}

	return comment, nil
}

// CreateComment inserts a comment under a review.
func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s`,
		schema.CoreComment.Table,
		schema.CoreComment.ReviewID, schema.CoreComment.AuthorID, schema.CoreComment.Text,
		schema.CoreComment.ID, schema.CoreComment.PubDate,
	)

	err := repository.pool.QueryRow(context, query, comment.ReviewID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.PubDate)
	if err != nil {
		return dberr.Wrap(err, "postgres_comment_repo_create_failed",
			dberr.On(schema.CoreComment.ForeignReview, apperr.NotFound("Review")))
	}

	return nil
}

// UpdateComment writes the text of a comment scoped to its review.
func (repository *PostgresRepository) UpdateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3 WHERE %s = $1 AND %s = $2`,
		schema.CoreComment.Table, schema.CoreComment.Text, schema.CoreComment.ReviewID, schema.CoreComment.ID)

	tag, err := repository.pool.Exec(context, query, comment.ReviewID, comment.ID, comment.Text)
	if err != nil {
		return dberr.Wrap(err, "postgres_comment_repo_update_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

// DeleteComment removes a comment scoped to its review.
func (repository *PostgresRepository) DeleteComment(context context.Context, reviewID, commentID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CoreComment.Table, schema.CoreComment.ReviewID, schema.CoreComment.ID)

	tag, err := repository.pool.Exec(context, query, reviewID, commentID)
	if err != nil {
		return dberr.Wrap(err, "postgres_comment_repo_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}
