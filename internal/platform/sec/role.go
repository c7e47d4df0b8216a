// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Default role for registered accounts
	RoleUser UserRole = "user"

	// Can edit and delete any review or comment
	RoleModerator UserRole = "moderator"

	// Full access, including user management
	RoleAdmin UserRole = "admin"
)

// Roles lists every assignable role in ascending privilege order.
var Roles = []UserRole{RoleUser, RoleModerator, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleNames returns the string form of [Roles], for validation messages.
func RoleNames() []string {
	names := make([]string, len(Roles))
	for i, role := range Roles {
		names[i] = string(role)
	}
	return names
}

// # Caller Identity

// Identity is the resolved caller of a request, built from the stored account
// row on every authenticated request.
//
// # Capabilities
//
// The IsAdmin/IsModerator/IsUser accessors are computed from Role and
// IsSuperuser each time they are called. There is no cached flag to fall out
// of sync with the account.
type Identity struct {
	UserID      int64
	Username    string
	Role        UserRole
	IsSuperuser bool
	IsStaff     bool
}

// IsAdmin reports admin capability: the admin role or the superuser flag.
func (identity *Identity) IsAdmin() bool {
	if identity == nil {
		return false
	}
	return identity.Role == RoleAdmin || identity.IsSuperuser
}

// IsModerator reports whether the caller holds the moderator role.
func (identity *Identity) IsModerator() bool {
	return identity != nil && identity.Role == RoleModerator
}

// IsUser reports whether the caller holds the plain user role.
func (identity *Identity) IsUser() bool {
	return identity != nil && identity.Role == RoleUser
}
