// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer holds generic helpers for the optional fields of PATCH
// payloads, where nil means "leave unchanged".
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, or returns the zero value for nil.
func Val[T any](p *T) T {
	var zero T
	return Fallback(p, zero)
}

// Fallback dereferences p, or returns current for nil. Partial updates use it
// to merge a payload field over the stored value.
func Fallback[T any](p *T, current T) T {
	if p == nil {
		return current
	}
	return *p
}
