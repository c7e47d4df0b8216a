// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/platform/policy"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/query"
)

// Handler implements the HTTP layer of the title catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a title [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for /titles without the nested review routes.
//
// Reads are public; writes need an administrator or staff member.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	handler.Mount(router)
	return router
}

// Mount registers the title routes on router, which may already carry
// nested routes such as /{title_id}/reviews.
func (handler *Handler) Mount(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.Enforce(policy.AdminOrReadOnly))

		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/{title_id}", handler.get)
		r.Patch("/{title_id}", handler.update)
		r.Delete("/{title_id}", handler.delete)
	})
}

// # Request Payloads

type createRequest struct {
	Name        string   `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genre"`
}

type updateRequest struct {
	Name        *string      `json:"name"`
	Year        *int         `json:"year"`
	Description *string      `json:"description"`
	Category    nullableSlug `json:"category"`
	Genres      *[]string    `json:"genre"`
}

func (payload updateRequest) input() UpdateInput {
	input := UpdateInput{
		Name:        payload.Name,
		Year:        payload.Year,
		Description: payload.Description,
		Genres:      payload.Genres,
	}
	if payload.Category.Set {
		input.Category = &payload.Category.Value
	}
	return input
}

// nullableSlug tells an omitted field apart from an explicit null, which
// decodes to the empty slug.
type nullableSlug struct {
	Set   bool
	Value string
}

func (slug *nullableSlug) UnmarshalJSON(data []byte) error {
	slug.Set = true
	if string(data) == "null" {
		slug.Value = ""
		return nil
	}
	return json.Unmarshal(data, &slug.Value)
}

// filterFromRequest reads the list filters from the query string.
func filterFromRequest(request *http.Request) Filter {
	values := request.URL.Query()
	return Filter{
		Category: requestutil.Query(request, "category"),
		Genres:   query.List(values, "genre"),
		Name:     requestutil.Query(request, "name"),
		Year:     query.OptionalInt(values, "year"),
	}
}

/*
GET /api/v1/titles.

Query:
  - category: category slug
  - genre: genre slug (comma-separated for any of several)
  - name: name substring
  - year: exact release year
  - page, limit: pagination

Response:
  - 200: []Title with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	titles, total, err := handler.service.List(request.Context(), filterFromRequest(request), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, page.Meta(total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
POST /api/v1/titles.

Response:
  - 201: Written: Stored title, taxonomy as slugs
  - 400: ValidationError (bad fields or unknown slugs)
  - 403: Caller is not an administrator
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	written, err := handler.service.Create(request.Context(), CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, written)
}

/*
PATCH /api/v1/titles/{title_id}.

Response:
  - 200: Written
  - 400: ValidationError
  - 404: Unknown title
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	written, err := handler.service.Update(request.Context(), id, input.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, written)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
