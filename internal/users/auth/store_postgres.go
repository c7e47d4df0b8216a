// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

// # Shared Query Helpers

// SelectUserSQL is the column list of [ScanUser], qualified by nothing.
var SelectUserSQL = strings.Join(schema.UserAccount.Columns(), ", ")

// UniqueViolations maps the account uniqueness constraints to the field
// errors a client would have seen from the service-level pre-checks.
func UniqueViolations() []dberr.Mapping {
	return []dberr.Mapping{
		dberr.On(schema.UserAccount.UniqueUsername, apperr.FieldInvalid(FieldUsername, msgUsernameTaken)),
		dberr.On(schema.UserAccount.UniqueEmail, apperr.FieldInvalid(FieldEmail, msgEmailTaken)),
		dberr.On(schema.UserAccount.CheckReserved, apperr.FieldInvalid(FieldUsername, "This username is reserved")),
	}
}

// ScanUser reads one row selected with [SelectUserSQL].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsStaff,
		&user.IsSuperuser,
		&user.SecurityStamp,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: The security stamp is generated by the column default and read
back together with the ID and timestamps.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Field ValidationError on a uniqueness race, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s, %s, %s`,
		account.Table,
		account.Username, account.Email, account.FirstName, account.LastName,
		account.Bio, account.Role, account.IsStaff, account.IsSuperuser,
		account.ID, account.SecurityStamp, account.CreatedAt, account.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.IsStaff,
		user.IsSuperuser,
	).Scan(&user.ID, &user.SecurityStamp, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_create_failed", UniqueViolations()...)
	}

	return nil
}

/*
FindByID retrieves a live user record by its primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	return repository.findOne(context, schema.UserAccount.ID, id, "postgres_user_repo_find_by_id_failed")
}

/*
FindByUsername retrieves a live user record by its unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Username, username, "postgres_user_repo_find_by_username_failed")
}

/*
FindByEmail retrieves a live user record by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Email, email, "postgres_user_repo_find_by_email_failed")
}

// findOne runs a single-row lookup on one column, skipping soft-deleted rows.
func (repository *PostgresUserRepository) findOne(context context.Context, column string, value any, action string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		SelectUserSQL, schema.UserAccount.Table, column, schema.UserAccount.DeletedAt)

	user, err := ScanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, action)
	}

	return user, nil
}

// TouchLastLogin stamps lastloginat with the current time.
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID)

	if _, err := repository.pool.Exec(context, query, id, time.Now()); err != nil {
		return dberr.Wrap(err, "postgres_user_repo_touch_last_login_failed")
	}
	return nil
}
