// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles administrative user management and self-service profiles.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Admin surface: list, create, read, update, and soft-delete any account.
  - Self surface: the caller reads and edits their own profile, minus the role.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		List returns one page of live accounts and the total match count.

		Parameters:
		  - context: context.Context
		  - search: string (username substring, empty for all)
		  - page: pagination.Params

		Returns:
		  - []*auth.User: Accounts ordered by last name, first name, username
		  - int: Total matches
		  - error: Storage failures
	*/
	List(context context.Context, search string, page pagination.Params) ([]*auth.User, int, error)

	/*
		FindByUsername retrieves a live account by its username.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	// FindByID retrieves a live account by its primary key.
	FindByID(context context.Context, id int64) (*auth.User, error)

	// Create persists a new account and fills in generated fields.
	Create(context context.Context, user *auth.User) error

	/*
		Update writes every mutable field of an existing account.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Field ValidationError on uniqueness conflicts, or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		SoftDelete flags an account as logically deleted.

		Returns:
		  - error: apperr.NotFound if no live account has this ID
	*/
	SoftDelete(context context.Context, id int64) error
}
