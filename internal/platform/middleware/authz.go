// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/policy"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec` service
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// IdentityResolver loads the current role and flags of a token's subject.
//
// It returns a nil identity (and nil error) when the account no longer exists.
type IdentityResolver interface {
	ResolveIdentity(context context.Context, userID int64) (*sec.Identity, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Load the caller's current role via [IdentityResolver].
//  5. Inject [*sec.Identity] into the request context for downstream use.
//
// A presented token that fails verification, or whose account is gone, is
// rejected with 401 rather than downgraded to anonymous.
func Authenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Identity Resolution ────────────────────────────────────────
			identity, err := resolver.ResolveIdentity(request.Context(), claims.UserID)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("User not found"))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			if recorder, ok := writer.(*statusRecorder); ok {
				recorder.userID = identity.UserID
			}
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.Int64("user_id", identity.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// Enforce runs the object-free check of gate for every request it wraps.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. Object-level checks
// need the stored object and are run by the owning service.
func Enforce(gate policy.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			caller := ctxutil.GetIdentity(request.Context())

			if err := gate.HasPermission(request.Method, caller); err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "authorization_denied",
					slog.String("gate", gate.Name()),
				)
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
