// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "github.com/taibuivan/yamdb/internal/platform/validate"

// # Account Constraints

const (
	// MaxUsernameLength matches the username column width.
	MaxUsernameLength = 150

	// MaxEmailLength matches the email column width.
	MaxEmailLength = 254

	// MaxNameLength bounds first and last names.
	MaxNameLength = 150

	// codeSignatureLength is the number of hex characters kept from the HMAC.
	codeSignatureLength = 20
)

// ReservedUsernames can never be registered, whatever their case.
var ReservedUsernames = []string{"me", "admin", "superuser"}

// # Messages

const (
	msgUsernameTaken = "A user with that username already exists"
	msgEmailTaken    = "A user with that email already exists"
)

// ValidateIdentity checks the username and email rules shared by signup and
// administrative account management.
func ValidateIdentity(validator *validate.Validator, username, email string) *validate.Validator {
	return validator.
		Required(FieldUsername, username).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Username(FieldUsername, username).
		NotReserved(FieldUsername, username, ReservedUsernames...).
		Required(FieldEmail, email).
		MaxLen(FieldEmail, email, MaxEmailLength).
		Email(FieldEmail, email)
}
