// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: IP tracking TTLs. Rates themselves are configuration.
  - Security: JWT issuer and key-derivation labels.
*/
package constants

import "time"

// # Metadata

// AppVersion is reported by yamdbctl --version.
const AppVersion = "0.1.0-dev"

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "yamdb"

	// KeyInfoAccessToken labels the HKDF subkey used for HS256 access tokens.
	KeyInfoAccessToken = "yamdb/access-token"

	// KeyInfoConfirmationCode labels the HKDF subkey used for signup confirmation codes.
	KeyInfoConfirmationCode = "yamdb/confirmation-code"

	// ConfirmationSubject is the subject line of the signup notification.
	ConfirmationSubject = "Confirmation code"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Mail

const (
	// MailSendTimeout bounds one SMTP session, including dial and greeting.
	MailSendTimeout = 10 * time.Second
)

// # Redis Keys

const (
	// RedisKeyMailOutbox is the default list that queued notifications are pushed to.
	RedisKeyMailOutbox = "mail:outbox"
)
