// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
)

// Column maps one CSV header to a table column.
type Column struct {
	Header  string
	Name    string
	Convert func(raw string) (any, error)
}

// Table describes one fixture file and the table it loads into.
type Table struct {
	File    string
	Name    string
	Key     string
	Columns []Column
}

// # Converters

func asInt(raw string) (any, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", raw)
	}
	return value, nil
}

func asText(raw string) (any, error) {
	return raw, nil
}

// asOptionalText stores blank cells as NULL.
func asOptionalText(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return raw, nil
}

func asOptionalInt(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return asInt(raw)
}

// asTime accepts RFC 3339 with or without fractional seconds.
func asTime(raw string) (any, error) {
	value, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("not a timestamp: %q", raw)
	}
	return value, nil
}

// asRole defaults a blank role to the plain user role.
func asRole(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return "user", nil
	}
	return strings.TrimSpace(raw), nil
}

// # Fixture Layout

// Tables lists the fixture files in dependency order: parents first.
var Tables = []Table{
	{
		File: "users.csv", Name: schema.UserAccount.Table, Key: schema.UserAccount.ID,
		Columns: []Column{
			{"id", schema.UserAccount.ID, asInt},
			{"username", schema.UserAccount.Username, asText},
			{"email", schema.UserAccount.Email, asText},
			{"role", schema.UserAccount.Role, asRole},
			{"bio", schema.UserAccount.Bio, asText},
			{"first_name", schema.UserAccount.FirstName, asText},
			{"last_name", schema.UserAccount.LastName, asText},
		},
	},
	{
		File: "category.csv", Name: schema.CoreCategory.Table, Key: schema.CoreCategory.ID,
		Columns: []Column{
			{"id", schema.CoreCategory.ID, asInt},
			{"name", schema.CoreCategory.Name, asText},
			{"slug", schema.CoreCategory.Slug, asText},
		},
	},
	{
		File: "genre.csv", Name: schema.CoreGenre.Table, Key: schema.CoreGenre.ID,
		Columns: []Column{
			{"id", schema.CoreGenre.ID, asInt},
			{"name", schema.CoreGenre.Name, asText},
			{"slug", schema.CoreGenre.Slug, asText},
		},
	},
	{
		File: "titles.csv", Name: schema.CoreTitle.Table, Key: schema.CoreTitle.ID,
		Columns: []Column{
			{"id", schema.CoreTitle.ID, asInt},
			{"name", schema.CoreTitle.Name, asText},
			{"year", schema.CoreTitle.Year, asInt},
			{"description", schema.CoreTitle.Description, asOptionalText},
			{"category", schema.CoreTitle.CategoryID, asOptionalInt},
		},
	},
	{
		File: "genre_title.csv", Name: schema.CoreTitleGenre.Table, Key: schema.CoreTitleGenre.ID,
		Columns: []Column{
			{"id", schema.CoreTitleGenre.ID, asInt},
			{"title_id", schema.CoreTitleGenre.TitleID, asInt},
			{"genre_id", schema.CoreTitleGenre.GenreID, asInt},
		},
	},
	{
		File: "review.csv", Name: schema.CoreReview.Table, Key: schema.CoreReview.ID,
		Columns: []Column{
			{"id", schema.CoreReview.ID, asInt},
			{"title_id", schema.CoreReview.TitleID, asInt},
			{"text", schema.CoreReview.Text, asText},
			{"author", schema.CoreReview.AuthorID, asInt},
			{"score", schema.CoreReview.Score, asInt},
			{"pub_date", schema.CoreReview.PubDate, asTime},
		},
	},
	{
		File: "comments.csv", Name: schema.CoreComment.Table, Key: schema.CoreComment.ID,
		Columns: []Column{
			{"id", schema.CoreComment.ID, asInt},
			{"review_id", schema.CoreComment.ReviewID, asInt},
			{"text", schema.CoreComment.Text, asText},
			{"author", schema.CoreComment.AuthorID, asInt},
			{"pub_date", schema.CoreComment.PubDate, asTime},
		},
	},
}
