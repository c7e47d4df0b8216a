// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination implements page-number pagination for list endpoints:
// ?page=N&limit=M in, a "meta" block with the totals out.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the page size when none is requested.
	DefaultLimit = 20
	// MaxLimit caps the page size; larger requests are clamped to it.
	MaxLimit = 100
	// DefaultPage is the first page. Pages are 1-indexed.
	DefaultPage = 1
)

// Params holds the page and page size of one list request.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET for the page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta describes the page actually served, given the total match count.
func (p Params) Meta(total int) Meta {
	return NewMeta(p.Page, p.Limit, total)
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta builds the metadata block; TotalPages is 0 for an empty result.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest reads page and limit from the request's query string.
func FromRequest(r *http.Request) Params {
	return FromQuery(r.URL.Query())
}

// FromQuery reads page and limit from values.
//
// Missing, malformed or non-positive values fall back to the defaults; a
// limit above [MaxLimit] is clamped to it.
func FromQuery(values url.Values) Params {
	page := positiveInt(values.Get("page"), DefaultPage)
	limit := min(positiveInt(values.Get("limit"), DefaultLimit), MaxLimit)

	return Params{Page: page, Limit: limit}
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
