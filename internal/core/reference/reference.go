/*
Package reference manages the taxonomies titles are classified by.

Categories and genres share one shape: a display name and a unique slug
that clients use as the identifier in URLs and in title payloads.

# Core Responsibility

  - Category: A title belongs to at most one category (e.g. "Film").
  - Genre: A title may carry any number of genres (e.g. "Drama").

Deleting a category detaches its titles; deleting a genre removes it from
every title that carried it.
*/
package reference

// # Domain Entities

// Kind names a taxonomy. It doubles as the resource name in NotFound errors.
type Kind string

const (
	KindCategory Kind = "Category"
	KindGenre    Kind = "Genre"
)

// Term is a single category or genre.
type Term struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// # Constraints

const (
	// MaxNameLength matches the name column width.
	MaxNameLength = 256
)

// # Field Identifiers

const (
	FieldName = "name"
	FieldSlug = "slug"
)
