// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/platform/policy"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for reviews and comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a review [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] meant to be mounted at /titles/{title_id}/reviews.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Enforce(policy.AuthorModeratorAdminOrReadOnly))

	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)

	router.Route("/{review_id}", func(r chi.Router) {
		r.Get("/", handler.getReview)
		r.Patch("/", handler.updateReview)
		r.Delete("/", handler.deleteReview)

		r.Get("/comments", handler.listComments)
		r.Post("/comments", handler.createComment)
		r.Get("/comments/{comment_id}", handler.getComment)
		r.Patch("/comments/{comment_id}", handler.updateComment)
		r.Delete("/comments/{comment_id}", handler.deleteComment)
	})

	return router
}

// # Request Payloads

type reviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text *string `json:"text"`
}

// # Path Parameters

func titleID(request *http.Request) (int64, error) {
	return requestutil.Int64Param(request, "title_id", "Title")
}

// reviewPath resolves the title and review IDs of a nested route.
func reviewPath(request *http.Request) (int64, int64, error) {
	title, err := titleID(request)
	if err != nil {
		return 0, 0, err
	}
	review, err := requestutil.Int64Param(request, "review_id", "Review")
	if err != nil {
		return 0, 0, err
	}
	return title, review, nil
}

func commentPath(request *http.Request) (int64, int64, int64, error) {
	title, review, err := reviewPath(request)
	if err != nil {
		return 0, 0, 0, err
	}
	comment, err := requestutil.Int64Param(request, "comment_id", "Comment")
	if err != nil {
		return 0, 0, 0, err
	}
	return title, review, comment, nil
}

// # Review Handlers

/*
GET /api/v1/titles/{title_id}/reviews.

Response:
  - 200: []Review with pagination meta
  - 404: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	title, err := titleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	reviews, total, err := handler.service.ListReviews(request.Context(), title, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, page.Meta(total))
}

func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	title, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.GetReview(request.Context(), title, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
POST /api/v1/titles/{title_id}/reviews.

Response:
  - 201: Review
  - 400: ValidationError or a second review of the same title
  - 403: Anonymous caller
  - 404: Unknown title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	title, err := titleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), requestutil.Identity(request), title, ReviewInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	title, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.UpdateReview(request.Context(), requestutil.Identity(request), title, reviewID, ReviewInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	title, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteReview(request.Context(), requestutil.Identity(request), title, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comment Handlers

func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	title, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	comments, total, err := handler.service.ListComments(request.Context(), title, reviewID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, page.Meta(total))
}

func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	title, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.GetComment(request.Context(), title, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
POST /api/v1/titles/{title_id}/reviews/{review_id}/comments.

Response:
  - 201: Comment
  - 400: ValidationError
  - 403: Anonymous caller
  - 404: Unknown title, or review not under that title
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	title, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), requestutil.Identity(request), title, reviewID, CommentInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	title, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), requestutil.Identity(request), title, reviewID, commentID, CommentInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	title, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), requestutil.Identity(request), title, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
