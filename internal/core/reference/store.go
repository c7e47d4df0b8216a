// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// TermRepository defines the persistence contract for one taxonomy.
type TermRepository interface {

	/*
		List returns one page of terms whose name contains search.

		Returns:
		  - []*Term: Terms ordered by name
		  - int: Total matches
		  - error: Storage failures
	*/
	List(context context.Context, search string, page pagination.Params) ([]*Term, int, error)

	// FindBySlug returns the term with the given slug, or apperr.NotFound.
	FindBySlug(context context.Context, slug string) (*Term, error)

	/*
		FindBySlugs resolves a set of slugs in one round trip.

		Unknown slugs are simply absent from the result; callers compare
		lengths to detect them.
	*/
	FindBySlugs(context context.Context, slugs []string) ([]*Term, error)

	// Create persists a new term. A taken slug yields a field ValidationError.
	Create(context context.Context, term *Term) error

	// DeleteBySlug removes a term, or returns apperr.NotFound.
	DeleteBySlug(context context.Context, slug string) error
}
