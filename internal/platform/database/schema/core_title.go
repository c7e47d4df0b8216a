package schema

// CoreTitleTable represents the 'core.title' table
type CoreTitleTable struct {
	Table       string
	ID          string
	Name        string
	Year        string
	Description string
	CategoryID  string
}

// CoreTitle is the schema definition for core.title
var CoreTitle = CoreTitleTable{
	Table:       "core.title",
	ID:          "id",
	Name:        "name",
	Year:        "year",
	Description: "description",
	CategoryID:  "categoryid",
}

// CoreTitleGenreTable represents the 'core.titlegenre' join table
type CoreTitleGenreTable struct {
	Table   string
	ID      string
	TitleID string
	GenreID string

	UniquePair string
}

// CoreTitleGenre is the schema definition for core.titlegenre
var CoreTitleGenre = CoreTitleGenreTable{
	Table:      "core.titlegenre",
	ID:         "id",
	TitleID:    "titleid",
	GenreID:    "genreid",
	UniquePair: "uq_titlegenre_pair",
}
