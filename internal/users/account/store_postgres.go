// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Repository Implementation

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for account management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
List returns one page of live accounts.

Description: The search matches usernames case-insensitively. The count and
the page are read in separate statements; a concurrent write may skew them
by one row, which list pagination tolerates.

Parameters:
  - context: context.Context
  - search: string
  - page: pagination.Params

Returns:
  - []*auth.User: Page of accounts
  - int: Total matching accounts
  - error: Database failures
*/
func (repository *PostgresAccountRepository) List(context context.Context, search string, page pagination.Params) ([]*auth.User, int, error) {
	account := schema.UserAccount

	where := fmt.Sprintf(`%s IS NULL AND ($1 = '' OR %s ILIKE '%%' || $1 || '%%')`, account.DeletedAt, account.Username)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, account.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_account_repo_count_failed")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY %s, %s, %s
		LIMIT $2 OFFSET $3`,
		auth.SelectUserSQL, account.Table, where,
		account.LastName, account.FirstName, account.Username,
	)

	rows, err := repository.pool.Query(context, query, search, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_account_repo_list_failed")
	}
	defer rows.Close()

	users := make([]*auth.User, 0, page.Limit)
	for rows.Next() {
		user, err := auth.ScanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "postgres_account_repo_scan_failed")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_account_repo_rows_failed")
	}

	return users, total, nil
}

// FindByUsername retrieves a live account by username.
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	return repository.findOne(context, schema.UserAccount.Username, username)
}

// FindByID retrieves a live account by primary key.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id int64) (*auth.User, error) {
	return repository.findOne(context, schema.UserAccount.ID, id)
}

func (repository *PostgresAccountRepository) findOne(context context.Context, column string, value any) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		auth.SelectUserSQL, schema.UserAccount.Table, column, schema.UserAccount.DeletedAt)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "postgres_account_repo_find_failed")
	}

	return user, nil
}

/*
Create inserts a new account and reads back the generated fields.

Returns:
  - error: Field ValidationError when username or email is taken
*/
func (repository *PostgresAccountRepository) Create(context context.Context, user *auth.User) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s, %s, %s`,
		account.Table,
		account.Username, account.Email, account.FirstName, account.LastName, account.Bio, account.Role,
		account.ID, account.SecurityStamp, account.CreatedAt, account.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role,
	).Scan(&user.ID, &user.SecurityStamp, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_create_failed", auth.UniqueViolations()...)
	}

	return nil
}

/*
Update writes the mutable fields of a live account and refreshes updatedat.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.NotFound, field ValidationError, or database failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s`,
		account.Table,
		account.Username, account.Email, account.FirstName, account.LastName,
		account.Bio, account.Role, account.SecurityStamp, account.UpdatedAt,
		account.ID, account.DeletedAt,
		account.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.SecurityStamp,
	).Scan(&user.UpdatedAt)

	if err != nil {
		if dberr.IsNoRows(err) {
			return apperr.NotFound("User")
		}
		return dberr.Wrap(err, "postgres_account_repo_update_failed", auth.UniqueViolations()...)
	}

	return nil
}

// SoftDelete stamps deletedat on a live account.
func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table, schema.UserAccount.DeletedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_soft_delete_failed")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
