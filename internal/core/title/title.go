// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the catalogue of creative works.

A title has at most one category, any number of genres, and a rating that is
never stored: it is the truncated average of its review scores, computed on
every read.

# Shapes

  - [Title]: Read model with nested category and genres plus the rating.
  - [Written]: Write response, with category and genres as slugs.
*/
package title

import "github.com/taibuivan/yamdb/internal/core/reference"

// # Domain Entities

// Title is the read model of a work.
type Title struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      int               `json:"rating"`
	Description *string           `json:"description"`
	Category    *reference.Term   `json:"category"`
	Genres      []*reference.Term `json:"genre"`
}

// Record is the stored form of a title, with resolved foreign keys.
type Record struct {
	ID          int64
	Name        string
	Year        int
	Description *string
	CategoryID  *int64
	GenreIDs    []int64
}

// Written is the response to a create or update.
type Written struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genres      []string `json:"genre"`
}

// # Search Params

// Filter narrows title lists. Zero values match everything.
type Filter struct {
	Category string   // category slug
	Genres   []string // genre slugs, any of
	Name     string   // case-insensitive substring
	Year     *int
}

// # Constraints

const (
	// MaxNameLength matches the name column width.
	MaxNameLength = 256
)

// # Field Identifiers

const (
	FieldName     = "name"
	FieldYear     = "year"
	FieldCategory = "category"
	FieldGenre    = "genre"
)
