// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for user accounts.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{accountRepository: accountRepo, logger: logger}
}

// # Inputs

// CreateInput holds the fields an administrator supplies for a new account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

// UpdateInput is a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// # Administration

// List returns one page of accounts matching the username search.
func (service *Service) List(context context.Context, search string, page pagination.Params) ([]*auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, strings.TrimSpace(search), page)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

/*
Create registers an account on behalf of an administrator.

Description: The role defaults to user. The new member still signs in by
requesting a confirmation code through signup.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: The created account
  - error: ValidationError on format, reserved names, role, or identity conflicts
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	validator := auth.ValidateIdentity(&validate.Validator{}, input.Username, input.Email)
	validateProfile(validator, input.FirstName, input.LastName)
	validator.OneOf(auth.FieldRole, input.Role, sec.RoleNames()...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_created",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// Get retrieves an account by username.
func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

/*
Update applies an administrator's partial changes, role included.

Parameters:
  - context: context.Context
  - username: string (current username)
  - input: UpdateInput

Returns:
  - *auth.User: The updated account
  - error: NotFound, ValidationError, or storage failures
*/
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}
	return service.apply(context, user, input, true)
}

// Delete soft-deletes the account with the given username.
func (service *Service) Delete(context context.Context, username string) error {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return fmt.Errorf("account_service_delete_lookup_failed: %w", err)
	}

	if err := service.accountRepository.SoftDelete(context, user.ID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.WarnContext(context, "user_deleted", slog.String("username", username))

	return nil
}

// # Self Service

// Me returns the caller's own account.
func (service *Service) Me(context context.Context, caller *sec.Identity) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("account_service_me_failed: %w", err)
	}
	return user, nil
}

// UpdateMe applies the caller's own partial changes. Any role in the input is ignored.
func (service *Service) UpdateMe(context context.Context, caller *sec.Identity, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_me_lookup_failed: %w", err)
	}
	return service.apply(context, user, input, false)
}

// # Helpers

// apply merges input into user, validates the result, and persists it.
func (service *Service) apply(context context.Context, user *auth.User, input UpdateInput, allowRole bool) (*auth.User, error) {
	previousEmail := user.Email

	user.Username = strings.TrimSpace(pointer.Fallback(input.Username, user.Username))
	user.Email = strings.TrimSpace(pointer.Fallback(input.Email, user.Email))
	user.FirstName = pointer.Fallback(input.FirstName, user.FirstName)
	user.LastName = pointer.Fallback(input.LastName, user.LastName)
	user.Bio = pointer.Fallback(input.Bio, user.Bio)

	validator := auth.ValidateIdentity(&validate.Validator{}, user.Username, user.Email)
	validateProfile(validator, user.FirstName, user.LastName)

	if allowRole && input.Role != nil {
		validator.OneOf(auth.FieldRole, *input.Role, sec.RoleNames()...)
		user.Role = sec.UserRole(*input.Role)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Outstanding confirmation codes were bound to the old address
	if user.Email != previousEmail {
		user.SecurityStamp = uuid.New()
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_updated", slog.Int64("user_id", user.ID))

	return user, nil
}

func validateProfile(validator *validate.Validator, firstName, lastName string) {
	validator.MaxLen(auth.FieldFirstName, firstName, auth.MaxNameLength).
		MaxLen(auth.FieldLastName, lastName, auth.MaxNameLength)
}
