package schema

// CoreTaxonomyTable represents a name+slug table ('core.category', 'core.genre')
type CoreTaxonomyTable struct {
	Table string
	ID    string
	Name  string
	Slug  string

	// UniqueSlug is the slug constraint name
	UniqueSlug string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = CoreTaxonomyTable{
	Table:      "core.category",
	ID:         "id",
	Name:       "name",
	Slug:       "slug",
	UniqueSlug: "uq_category_slug",
}

// CoreGenre is the schema definition for core.genre
var CoreGenre = CoreTaxonomyTable{
	Table:      "core.genre",
	ID:         "id",
	Name:       "name",
	Slug:       "slug",
	UniqueSlug: "uq_genre_slug",
}

func (t CoreTaxonomyTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
