// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Constraint Mapping
//
// PostgreSQL reports the violated constraint by name. Repositories pass a
// [Mapping] per constraint they own so that a race which slips past a
// service-level pre-check still surfaces as the matching domain error.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Mapping binds a named constraint to the domain error it represents.
type Mapping struct {
	Constraint string
	Err        error
}

// On builds a [Mapping].
func On(constraint string, err error) Mapping {
	return Mapping{Constraint: constraint, Err: err}
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string, mappings ...Mapping) error {
	if err == nil {
		return nil
	}

	// Errors that are already client-safe pass through untouched.
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		for _, mapping := range mappings {
			if mapping.Constraint == pgError.ConstraintName {
				return mapping.Err
			}
		}

		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.ValidationError("A record with this value already exists")
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced record does not exist")
		case pgerrcode.CheckViolation:
			return apperr.ValidationError("Value is out of the allowed range")
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsNoRows reports whether err signals an empty result set.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsIntegrityViolation reports whether err is a PostgreSQL integrity
// constraint violation (SQLSTATE class 23).
func IsIntegrityViolation(err error) bool {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) {
		return false
	}
	return pgerrcode.IsIntegrityConstraintViolation(pgError.Code)
}
