// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads path parameters, query values, JSON bodies and
// the resolved caller out of an incoming request.
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

/*
DecodeJSON decodes the body into target. Unknown fields are ignored and an
empty body decodes as {}, so that every required field is reported by the
validator instead of a single parse error.

Returns:
  - error: validate.ErrInvalidJSON for malformed or oversized bodies
*/
func DecodeJSON(request *http.Request, target any) error {
	body := http.MaxBytesReader(nil, request.Body, MaxBodyBytes)
	err := json.NewDecoder(body).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return validate.ErrInvalidJSON
}

// Param returns a chi path parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64Param parses a numeric URL parameter.

A value that is not a positive integer cannot name a stored row, so it is
reported as a missing resource rather than a validation failure.

Parameters:
  - request: *http.Request
  - name: string (chi route parameter)
  - resource: string (used in the NotFound message)

Returns:
  - int64: Parsed identifier
  - error: apperr.NotFound if the parameter is malformed
*/
func Int64Param(request *http.Request, name, resource string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(resource)
	}
	return id, nil
}

// Query returns a trimmed query-string value.
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

// Identity returns the resolved caller, or nil for anonymous requests.
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the caller.

Returns:
  - *sec.Identity: The authenticated caller
  - error: apperr.Forbidden if the request is anonymous
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Forbidden("Authentication credentials were not provided")
	}

	return identity, nil
}
