// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/platform/policy"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer of one taxonomy.
type Handler struct {
	service *Service
}

// NewHandler constructs a reference [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for /categories or /genres.
//
// Reads are public; writes need an administrator or staff member.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Enforce(policy.AdminOrReadOnly))

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{slug}", handler.delete)

	return router
}

type createRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

/*
GET /api/v1/{categories|genres}.

Query:
  - search: name substring
  - page, limit: pagination

Response:
  - 200: []Term with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	terms, total, err := handler.service.List(request.Context(), requestutil.Query(request, "search"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, terms, page.Meta(total))
}

/*
POST /api/v1/{categories|genres}.

Response:
  - 201: Term
  - 400: ValidationError (bad input or taken slug)
  - 403: Caller is not an administrator
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	term, err := handler.service.Create(request.Context(), CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, term)
}

/*
DELETE /api/v1/{categories|genres}/{slug}.

Response:
  - 204: No Content
  - 404: Unknown slug
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
