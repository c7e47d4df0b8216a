// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slug"
)

// Service implements the use cases of one taxonomy.
type Service struct {
	repository TermRepository
	kind       Kind
	logger     *slog.Logger
}

// NewService constructs a [Service] for the given taxonomy.
func NewService(repository TermRepository, kind Kind, logger *slog.Logger) *Service {
	return &Service{repository: repository, kind: kind, logger: logger}
}

// List returns one page of terms matching the name search.
func (service *Service) List(context context.Context, search string, page pagination.Params) ([]*Term, int, error) {
	terms, total, err := service.repository.List(context, strings.TrimSpace(search), page)
	if err != nil {
		return nil, 0, fmt.Errorf("reference_service_list_failed: %w", err)
	}
	return terms, total, nil
}

// CreateInput holds the fields of a new term. The slug is derived from the
// name when omitted.
type CreateInput struct {
	Name string
	Slug string
}

/*
Create validates and persists a new term.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Term: The created term
  - error: ValidationError on bad name/slug or a taken slug
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Term, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Required(FieldSlug, input.Slug).
		MaxLen(FieldSlug, input.Slug, slug.MaxLength).
		Slug(FieldSlug, input.Slug)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	term := &Term{Name: input.Name, Slug: input.Slug}
	if err := service.repository.Create(context, term); err != nil {
		return nil, fmt.Errorf("reference_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "term_created",
		slog.String("kind", string(service.kind)),
		slog.String("slug", term.Slug),
	)

	return term, nil
}

// Delete removes the term with the given slug.
func (service *Service) Delete(context context.Context, termSlug string) error {
	if err := service.repository.DeleteBySlug(context, termSlug); err != nil {
		return fmt.Errorf("reference_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "term_deleted",
		slog.String("kind", string(service.kind)),
		slog.String("slug", termSlug),
	)

	return nil
}
