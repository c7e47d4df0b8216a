// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines the typed context keys shared by middleware,
// handlers and the respond package. Read and write them through ctxutil.
package ctxkey

// key is unexported so no other package can mint a colliding value.
type key uint8

const (
	// KeyRequestID holds the X-Request-ID correlation value (string).
	KeyRequestID key = iota + 1

	// KeyIdentity holds the authenticated caller (*sec.Identity), re-read
	// from storage on every request.
	KeyIdentity

	// KeyLogger holds the request-scoped *slog.Logger.
	KeyLogger

	// KeyClientIP holds the resolved client address (string).
	KeyClientIP
)
