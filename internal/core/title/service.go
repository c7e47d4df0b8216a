// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/slice"
)

// Service implements the title catalogue use cases.
type Service struct {
	titleRepository TitleRepository
	categories      reference.TermRepository
	genres          reference.TermRepository
	logger          *slog.Logger
	now             func() time.Time
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	titleRepo TitleRepository,
	categories reference.TermRepository,
	genres reference.TermRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		titleRepository: titleRepo,
		categories:      categories,
		genres:          genres,
		logger:          logger,
		now:             time.Now,
	}
}

// # Inputs

// CreateInput is the write payload of a new title, referring to taxonomy by slug.
type CreateInput struct {
	Name        string
	Year        *int
	Description *string
	Category    string
	Genres      []string
}

// UpdateInput is a partial update. A non-nil Genres replaces the whole set;
// a non-nil empty Category clears it.
type UpdateInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

// # Reads

// List returns one page of titles matching filter.
func (service *Service) List(context context.Context, filter Filter, page pagination.Params) ([]*Title, int, error) {
	titles, total, err := service.titleRepository.List(context, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("title_service_list_failed: %w", err)
	}
	return titles, total, nil
}

// Get returns the read model of one title.
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	title, err := service.titleRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("title_service_get_failed: %w", err)
	}
	return title, nil
}

// # Writes

/*
Create validates the payload, resolves slugs, and stores a new title.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Written: The stored title with taxonomy as slugs
  - error: ValidationError for bad fields or unknown slugs
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Written, error) {
	validator := &validate.Validator{}
	validator.Present(FieldYear, input.Year != nil)
	service.validate(validator, input.Name, pointer.Val(input.Year))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Record{
		Name:        strings.TrimSpace(input.Name),
		Year:        *input.Year,
		Description: input.Description,
	}

	written, err := service.resolve(context, record, input.Category, input.Genres)
	if err != nil {
		return nil, err
	}

	if err := service.titleRepository.Create(context, record); err != nil {
		return nil, fmt.Errorf("title_service_create_failed: %w", err)
	}
	written.ID = record.ID

	service.logger.InfoContext(context, "title_created", slog.Int64("title_id", record.ID))

	return written, nil
}

/*
Update applies a partial change to an existing title.

Description: Omitted fields keep their stored value; a given genre list
replaces the previous set and an empty category slug clears the category.

Returns:
  - *Written: The stored title with taxonomy as slugs
  - error: NotFound, ValidationError, or storage failures
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Written, error) {
	current, err := service.titleRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("title_service_update_lookup_failed: %w", err)
	}

	name := strings.TrimSpace(pointer.Fallback(input.Name, current.Name))
	year := pointer.Fallback(input.Year, current.Year)

	validator := &validate.Validator{}
	service.validate(validator, name, year)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Record{
		ID:          current.ID,
		Name:        name,
		Year:        year,
		Description: current.Description,
	}
	if input.Description != nil {
		record.Description = input.Description
	}

	categorySlug := ""
	if current.Category != nil {
		categorySlug = current.Category.Slug
	}
	categorySlug = pointer.Fallback(input.Category, categorySlug)

	genreSlugs := slice.Map(current.Genres, func(term *reference.Term) string { return term.Slug })
	if input.Genres != nil {
		genreSlugs = *input.Genres
	}

	written, err := service.resolve(context, record, categorySlug, genreSlugs)
	if err != nil {
		return nil, err
	}

	if err := service.titleRepository.Update(context, record); err != nil {
		return nil, fmt.Errorf("title_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "title_updated", slog.Int64("title_id", record.ID))

	return written, nil
}

// Delete removes a title and everything attached to it.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.titleRepository.Delete(context, id); err != nil {
		return fmt.Errorf("title_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "title_deleted", slog.Int64("title_id", id))

	return nil
}

// # Helpers

func (service *Service) validate(validator *validate.Validator, name string, year int) {
	validator.Required(FieldName, name).
		MaxLen(FieldName, name, MaxNameLength)

	if currentYear := service.now().Year(); year > currentYear {
		validator.Add(FieldYear, fmt.Sprintf("Year cannot be later than %d", currentYear))
	}
}

// resolve turns taxonomy slugs into IDs on record and builds the write response.
func (service *Service) resolve(context context.Context, record *Record, categorySlug string, genreSlugs []string) (*Written, error) {
	validator := &validate.Validator{}
	written := &Written{
		ID:          record.ID,
		Name:        record.Name,
		Year:        record.Year,
		Description: record.Description,
		Genres:      []string{},
	}

	if categorySlug != "" {
		category, err := service.categories.FindBySlug(context, categorySlug)
		switch {
		case err == nil:
			record.CategoryID = &category.ID
			written.Category = &category.Slug
		case apperr.HasCode(err, apperr.CodeNotFound):
			validator.Add(FieldCategory, fmt.Sprintf("Unknown category %q", categorySlug))
		default:
			return nil, fmt.Errorf("title_service_category_lookup_failed: %w", err)
		}
	}

	genreSlugs = slice.Unique(genreSlugs)
	if len(genreSlugs) > 0 {
		genres, err := service.genres.FindBySlugs(context, genreSlugs)
		if err != nil {
			return nil, fmt.Errorf("title_service_genre_lookup_failed: %w", err)
		}

		found := make(map[string]int64, len(genres))
		for _, genre := range genres {
			found[genre.Slug] = genre.ID
		}

		for _, genreSlug := range genreSlugs {
			id, ok := found[genreSlug]
			if !ok {
				validator.Add(FieldGenre, fmt.Sprintf("Unknown genre %q", genreSlug))
				continue
			}
			record.GenreIDs = append(record.GenreIDs, id)
			written.Genres = append(written.Genres, genreSlug)
		}
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return written, nil
}
