// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package policy implements the authorization gates that guard every resource.

A gate answers two questions for a request:

  - HasPermission: may this caller use this HTTP method on the endpoint at all?
  - HasObjectPermission: may this caller use this method on one stored object,
    given the object's author?

Evaluation order is fixed for every gate: the safe-method shortcut first (when
the gate has one), then authentication, then the role or ownership rule. An
anonymous caller is therefore never allowed to mutate, whatever the object.

Every denial is an [apperr.Forbidden]; gates never return 401.
*/
package policy

import (
	"net/http"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

const (
	msgNotAuthenticated = "Authentication credentials were not provided"
	msgNoPermission     = "You do not have permission to perform this action"
)

// Gate is an authorization predicate guarding an endpoint or object mutation.
type Gate interface {
	// Name identifies the gate in logs.
	Name() string

	// HasPermission runs the object-free check.
	HasPermission(method string, caller *sec.Identity) error

	// HasObjectPermission runs the object-free check and then the ownership
	// rule against the stored author of the object.
	HasObjectPermission(method string, caller *sec.Identity, authorID int64) error
}

// IsSafeMethod reports whether method cannot mutate state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// # Gate Composition

// gate holds the parts that differ between gates; the shared evaluation order
// lives in its methods.
type gate struct {
	name string

	// readShortcut lets safe methods through before any other check.
	readShortcut bool

	// mutation decides object-free access for an authenticated caller.
	mutation func(method string, caller *sec.Identity) bool

	// ownership decides object-level access for an authenticated caller.
	// A nil ownership rule means the object-free answer is final.
	ownership func(caller *sec.Identity, authorID int64) bool
}

func (g *gate) Name() string { return g.name }

func (g *gate) HasPermission(method string, caller *sec.Identity) error {
	if g.readShortcut && IsSafeMethod(method) {
		return nil
	}

	if caller == nil {
		return apperr.Forbidden(msgNotAuthenticated)
	}

	if !g.mutation(method, caller) {
		return apperr.Forbidden(msgNoPermission)
	}

	return nil
}

func (g *gate) HasObjectPermission(method string, caller *sec.Identity, authorID int64) error {
	if err := g.HasPermission(method, caller); err != nil {
		return err
	}

	if g.readShortcut && IsSafeMethod(method) {
		return nil
	}

	if g.ownership != nil && !g.ownership(caller, authorID) {
		return apperr.Forbidden(msgNoPermission)
	}

	return nil
}

// # Gates

// AdminOnly permits only authenticated admins, reads included.
var AdminOnly Gate = &gate{
	name: "admin_only",
	mutation: func(_ string, caller *sec.Identity) bool {
		return caller.IsAdmin()
	},
}

// AdminOrReadOnly permits any read, and mutation by admins or staff.
var AdminOrReadOnly Gate = &gate{
	name:         "admin_or_read_only",
	readShortcut: true,
	mutation: func(_ string, caller *sec.Identity) bool {
		return caller.IsAdmin() || caller.IsStaff
	},
}

// AuthorModeratorAdminOrReadOnly permits any read and creation by any
// authenticated caller. Update and delete of an object require its author, a
// moderator or an admin.
var AuthorModeratorAdminOrReadOnly Gate = &gate{
	name:         "author_moderator_admin_or_read_only",
	readShortcut: true,
	mutation: func(_ string, _ *sec.Identity) bool {
		return true
	},
	ownership: func(caller *sec.Identity, authorID int64) bool {
		return caller.UserID == authorID || caller.IsModerator() || caller.IsAdmin()
	},
}

// Authenticated permits any authenticated caller. It guards the self-service
// profile endpoints.
var Authenticated Gate = &gate{
	name: "authenticated",
	mutation: func(_ string, _ *sec.Identity) bool {
		return true
	},
}
