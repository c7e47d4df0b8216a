// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// TitleRepository defines the persistence contract for titles.
type TitleRepository interface {

	/*
		List returns one page of titles matching filter, ordered by name.

		Returns:
		  - []*Title: Read models with rating, category and genres
		  - int: Total matches
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, page pagination.Params) ([]*Title, int, error)

	// FindByID returns the read model of one title, or apperr.NotFound.
	FindByID(context context.Context, id int64) (*Title, error)

	// Create stores the title and its genre links atomically and sets record.ID.
	Create(context context.Context, record *Record) error

	// Update rewrites the title and replaces its genre links atomically.
	Update(context context.Context, record *Record) error

	// Delete removes a title together with its reviews and comments.
	Delete(context context.Context, id int64) error
}
