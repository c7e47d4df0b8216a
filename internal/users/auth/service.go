// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - timeToLive: The duration before the token expires.
	GenerateAccessToken(userID int64, username string, timeToLive time.Duration) (string, error)
}

// Notifier delivers the confirmation code to the account's email.
type Notifier interface {
	Notify(context context.Context, recipient, subject, body string) error
}

// Service implements the signup and token exchange use cases.
type Service struct {
	userRepository UserRepository
	codes          *CodeGenerator
	tokenProvider  TokenProvider
	notifier       Notifier
	tokenTTL       time.Duration
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	codes *CodeGenerator,
	tokenProv TokenProvider,
	notifier Notifier,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		codes:          codes,
		tokenProvider:  tokenProv,
		notifier:       notifier,
		tokenTTL:       tokenTTL,
		logger:         logger,
	}
}

// # Signup Flow

// SignupInput holds the data a prospective member submits.
type SignupInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
}

/*
Signup registers an account, or finds the existing one, and sends it a code.

Description: Signing up again with the same username and email is how a
member asks for a new confirmation code, so a matching live account is
reused instead of rejected.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: The created or reused account
  - error: ValidationError on format, reserved names, or identity conflicts
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	validator := ValidateIdentity(&validate.Validator{}, input.Username, input.Email)
	validator.MaxLen(FieldFirstName, input.FirstName, MaxNameLength).
		MaxLen(FieldLastName, input.LastName, MaxNameLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.findOrCreate(context, input)
	if err != nil {
		return nil, err
	}

	service.sendCode(context, user)

	return user, nil
}

func (service *Service) findOrCreate(context context.Context, input SignupInput) (*User, error) {

	// An existing username is only acceptable together with its own email
	existing, err := service.userRepository.FindByUsername(context, input.Username)
	switch {
	case err == nil:
		if existing.Email != input.Email {
			return nil, apperr.FieldInvalid(FieldUsername, msgUsernameTaken)
		}
		return existing, nil
	case !apperr.HasCode(err, apperr.CodeNotFound):
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	// The email must not belong to someone else
	_, err = service.userRepository.FindByEmail(context, input.Email)
	switch {
	case err == nil:
		return nil, apperr.FieldInvalid(FieldEmail, msgEmailTaken)
	case !apperr.HasCode(err, apperr.CodeNotFound):
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	user := &User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.RoleUser,
	}

	// Concurrent signups are settled by the unique constraints
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_signed_up",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// sendCode notifies the account of a fresh code. Delivery is best effort.
func (service *Service) sendCode(context context.Context, user *User) {
	body := fmt.Sprintf("Your confirmation code: %s", service.codes.Generate(user))

	if err := service.notifier.Notify(context, user.Email, constants.ConfirmationSubject, body); err != nil {
		service.logger.WarnContext(context, "confirmation_delivery_failed",
			slog.String("username", user.Username),
			slog.Any("error", err),
		)
	}
}

/*
IssueCode returns a confirmation code for an existing account without
sending it anywhere. Used by operators bootstrapping administrators.
*/
func (service *Service) IssueCode(context context.Context, username string) (string, error) {
	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return "", err
	}
	return service.codes.Generate(user), nil
}

// # Token Exchange

// TokenInput is a confirmation-code credential.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

/*
ExchangeToken trades a valid confirmation code for an access token.

Parameters:
  - context: context.Context
  - input: TokenInput

Returns:
  - string: Signed access token
  - error: ValidationError, NotFound (unknown username) or InvalidCredentials
*/
func (service *Service) ExchangeToken(context context.Context, input TokenInput) (string, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)
	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.userRepository.FindByUsername(context, strings.TrimSpace(input.Username))
	if err != nil {
		return "", err
	}

	if err := service.codes.Verify(user, strings.TrimSpace(input.ConfirmationCode)); err != nil {
		return "", apperr.InvalidCredentials()
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, service.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_sign_token_failed: %w", err)
	}

	// last login is not part of the code input, so the code stays valid
	if err := service.userRepository.TouchLastLogin(context, user.ID); err != nil {
		service.logger.WarnContext(context, "last_login_update_failed", slog.Any("error", err))
	}

	return token, nil
}

// # Identity Resolution

/*
ResolveIdentity loads the caller's current role for the auth middleware.

Returns a nil identity when the account no longer exists.
*/
func (service *Service) ResolveIdentity(context context.Context, userID int64) (*sec.Identity, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.Identity(), nil
}
