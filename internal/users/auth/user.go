// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account identity for YaMDb: the user entity, signup
with emailed confirmation codes, and the exchange of a code for an access token.

# Architecture

The User entity defined here is shared with the account package, which owns
profile and administrative management of the same rows.
*/
package auth

import (
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account.
type User struct {
	ID          int64        `json:"-"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Bio         string       `json:"bio"`
	Role        sec.UserRole `json:"role"`
	IsStaff     bool         `json:"-"`
	IsSuperuser bool         `json:"-"`

	// SecurityStamp changes whenever the email changes, which invalidates
	// every confirmation code issued before.
	SecurityStamp string `json:"-"`

	LastLoginAt *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// Identity returns the authorization view of the account.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
		IsStaff:     user.IsStaff,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldRole             = "role"
	FieldConfirmationCode = "confirmation_code"
)
