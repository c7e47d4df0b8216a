// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// # Fakes

type memoryStore struct {
	mu       sync.Mutex
	titles   map[int64]bool
	reviews  map[int64]*Review
	comments map[int64]*Comment
	nextID   int64
}

func newMemoryStore(titleIDs ...int64) *memoryStore {
	store := &memoryStore{
		titles:   map[int64]bool{},
		reviews:  map[int64]*Review{},
		comments: map[int64]*Comment{},
	}
	for _, id := range titleIDs {
		store.titles[id] = true
	}
	return store
}

func (store *memoryStore) id() int64 {
	store.nextID++
	return store.nextID
}

func (store *memoryStore) TitleExists(_ context.Context, titleID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.titles[titleID] {
		return apperr.NotFound("Title")
	}
	return nil
}

func (store *memoryStore) ListReviews(_ context.Context, titleID int64, _ pagination.Params) ([]*Review, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	reviews := []*Review{}
	for _, review := range store.reviews {
		if review.TitleID == titleID {
			copied := *review
			reviews = append(reviews, &copied)
		}
	}
	return reviews, len(reviews), nil
}

func (store *memoryStore) FindReview(_ context.Context, titleID, reviewID int64) (*Review, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	review, ok := store.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	copied := *review
	return &copied, nil
}

func (store *memoryStore) HasReviewBy(_ context.Context, titleID, authorID int64) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, review := range store.reviews {
		if review.TitleID == titleID && review.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (store *memoryStore) CreateReview(_ context.Context, review *Review) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	review.ID = store.id()
	review.PubDate = time.Now()
	copied := *review
	store.reviews[review.ID] = &copied
	return nil
}

func (store *memoryStore) UpdateReview(_ context.Context, review *Review) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	stored := store.reviews[review.ID]
	stored.Text, stored.Score = review.Text, review.Score
	return nil
}

func (store *memoryStore) DeleteReview(_ context.Context, _, reviewID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.reviews, reviewID)
	for id, comment := range store.comments {
		if comment.ReviewID == reviewID {
			delete(store.comments, id)
		}
	}
	return nil
}

func (store *memoryStore) ListComments(_ context.Context, reviewID int64, _ pagination.Params) ([]*Comment, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	comments := []*Comment{}
	for _, comment := range store.comments {
		if comment.ReviewID == reviewID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	return comments, len(comments), nil
}

func (store *memoryStore) FindComment(_ context.Context, reviewID, commentID int64) (*Comment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	comment, ok := store.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	copied := *comment
	return &copied, nil
}

func (store *memoryStore) CreateComment(_ context.Context, comment *Comment) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	comment.ID = store.id()
	comment.PubDate = time.Now()
	copied := *comment
	store.comments[comment.ID] = &copied
	return nil
}

func (store *memoryStore) UpdateComment(_ context.Context, comment *Comment) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.comments[comment.ID].Text = comment.Text
	return nil
}

func (store *memoryStore) DeleteComment(_ context.Context, _, commentID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.comments, commentID)
	return nil
}

// racingStore lets every pre-check pass, as when two requests for the same
// (title, author) run concurrently, and enforces uniqueness only on insert the
// way the unique_title_author constraint does.
type racingStore struct {
	*memoryStore
}

func (store racingStore) HasReviewBy(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func (store racingStore) CreateReview(ctx context.Context, review *Review) error {
	taken, err := store.memoryStore.HasReviewBy(ctx, review.TitleID, review.AuthorID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.DuplicateReview()
	}
	return store.memoryStore.CreateReview(ctx, review)
}

var (
	author    = &sec.Identity{UserID: 1, Username: "alice", Role: sec.RoleUser}
	stranger  = &sec.Identity{UserID: 2, Username: "bob", Role: sec.RoleUser}
	moderator = &sec.Identity{UserID: 3, Username: "mod", Role: sec.RoleModerator}
	admin     = &sec.Identity{UserID: 4, Username: "root", Role: sec.RoleAdmin}
)

func newTestService() (*Service, *memoryStore) {
	store := newMemoryStore(1, 2)
	return NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func mustReview(t *testing.T, service *Service, caller *sec.Identity, titleID int64) *Review {
	t.Helper()
	review, err := service.CreateReview(context.Background(), caller, titleID, ReviewInput{
		Text: pointer.To("Great"), Score: pointer.To(8),
	})
	require.NoError(t, err)
	return review
}

// # Review Tests

func TestCreateReview(t *testing.T) {
	service, _ := newTestService()

	review := mustReview(t, service, author, 1)
	assert.Equal(t, "alice", review.Author)
	assert.Equal(t, 8, review.Score)
	assert.False(t, review.PubDate.IsZero())
}

func TestCreateReview_OnePerTitle(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	mustReview(t, service, author, 1)

	_, err := service.CreateReview(ctx, author, 1, ReviewInput{Text: pointer.To("Again"), Score: pointer.To(3)})
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateReview))

	// Another title is fine.
	mustReview(t, service, author, 2)
}

/*
TestCreateReview_ConstraintIsAuthoritative covers the race where the duplicate
pre-check passes but the insert hits the unique (title, author) constraint.
*/
func TestCreateReview_ConstraintIsAuthoritative(t *testing.T) {
	store := racingStore{newMemoryStore(1)}
	service := NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	_, err := service.CreateReview(ctx, author, 1, ReviewInput{Text: pointer.To("First"), Score: pointer.To(7)})
	require.NoError(t, err)

	_, err = service.CreateReview(ctx, author, 1, ReviewInput{Text: pointer.To("Second"), Score: pointer.To(2)})
	ae := apperr.As(err)
	require.NotNil(t, ae, "got %v", err)
	assert.Equal(t, apperr.CodeDuplicateReview, ae.Code)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)

	reviews, total, err := store.ListReviews(ctx, 1, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "First", reviews[0].Text)
}

func TestCreateReview_Validation(t *testing.T) {
	service, _ := newTestService()

	tests := []struct {
		name  string
		input ReviewInput
		field string
	}{
		{"missing_text", ReviewInput{Score: pointer.To(5)}, FieldText},
		{"blank_text", ReviewInput{Text: pointer.To("   "), Score: pointer.To(5)}, FieldText},
		{"missing_score", ReviewInput{Text: pointer.To("ok")}, FieldScore},
		{"score_low", ReviewInput{Text: pointer.To("ok"), Score: pointer.To(0)}, FieldScore},
		{"score_high", ReviewInput{Text: pointer.To("ok"), Score: pointer.To(11)}, FieldScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateReview(context.Background(), author, 1, tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			require.NotEmpty(t, ae.Details)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}

func TestCreateReview_Denied(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	input := ReviewInput{Text: pointer.To("ok"), Score: pointer.To(5)}

	_, err := service.CreateReview(ctx, nil, 1, input)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.CreateReview(ctx, author, 99, input)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestReview_ScopedByTitle(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	review := mustReview(t, service, author, 1)

	_, err := service.GetReview(ctx, 2, review.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.UpdateReview(ctx, author, 2, review.ID, ReviewInput{Score: pointer.To(1)})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestUpdateReview_Ownership(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	review := mustReview(t, service, author, 1)

	_, err := service.UpdateReview(ctx, stranger, 1, review.ID, ReviewInput{Score: pointer.To(1)})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	updated, err := service.UpdateReview(ctx, author, 1, review.ID, ReviewInput{Score: pointer.To(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Score)
	assert.Equal(t, "Great", updated.Text)
	assert.Equal(t, review.PubDate, updated.PubDate)

	updated, err = service.UpdateReview(ctx, moderator, 1, review.ID, ReviewInput{Text: pointer.To("Edited")})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Text)
	assert.Equal(t, "alice", updated.Author)

	_, err = service.UpdateReview(ctx, author, 1, review.ID, ReviewInput{Score: pointer.To(42)})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestDeleteReview(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()
	review := mustReview(t, service, author, 1)
	_, err := service.CreateComment(ctx, stranger, 1, review.ID, CommentInput{Text: pointer.To("Agreed")})
	require.NoError(t, err)

	err = service.DeleteReview(ctx, stranger, 1, review.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	require.NoError(t, service.DeleteReview(ctx, admin, 1, review.ID))
	assert.Empty(t, store.reviews)
	assert.Empty(t, store.comments)

	err = service.DeleteReview(ctx, admin, 1, review.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

// # Comment Tests

func TestComments(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	review := mustReview(t, service, author, 1)
	other := mustReview(t, service, stranger, 1)

	comment, err := service.CreateComment(ctx, stranger, 1, review.ID, CommentInput{Text: pointer.To("Agreed")})
	require.NoError(t, err)
	assert.Equal(t, "bob", comment.Author)

	_, err = service.CreateComment(ctx, stranger, 1, review.ID, CommentInput{Text: pointer.To("")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.CreateComment(ctx, stranger, 2, review.ID, CommentInput{Text: pointer.To("x")})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.GetComment(ctx, 1, other.ID, comment.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.UpdateComment(ctx, author, 1, review.ID, comment.ID, CommentInput{Text: pointer.To("No")})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	updated, err := service.UpdateComment(ctx, stranger, 1, review.ID, comment.ID, CommentInput{Text: pointer.To("Strongly agreed")})
	require.NoError(t, err)
	assert.Equal(t, "Strongly agreed", updated.Text)

	comments, total, err := service.ListComments(ctx, 1, review.ID, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, comments, 1)

	require.NoError(t, service.DeleteComment(ctx, moderator, 1, review.ID, comment.ID))
	_, err = service.GetComment(ctx, 1, review.ID, comment.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

// # HTTP Tests

func newRouter(service *Service) http.Handler {
	router := chi.NewRouter()
	router.Mount("/titles/{title_id}/reviews", NewHandler(service).Routes())
	return router
}

func serve(router http.Handler, method, path, body string, caller *sec.Identity) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if caller != nil {
		request = request.WithContext(ctxutil.WithIdentity(request.Context(), caller))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestRoutes(t *testing.T) {
	service, _ := newTestService()
	router := newRouter(service)
	body := `{"text":"Great","score":8}`

	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/titles/1/reviews", body, nil).Code)

	recorder := serve(router, http.MethodPost, "/titles/1/reviews", body, author)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "alice", created.Data["author"])
	assert.Contains(t, created.Data, "pub_date")
	assert.NotContains(t, created.Data, "title")

	recorder = serve(router, http.MethodPost, "/titles/1/reviews", body, author)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apperr.CodeDuplicateReview)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodPost, "/titles/99/reviews", body, stranger).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/titles/1/reviews", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/titles/1/reviews/1", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/titles/2/reviews/1", "", nil).Code)

	patch := `{"score":2}`
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPatch, "/titles/1/reviews/1", patch, nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPatch, "/titles/1/reviews/1", patch, stranger).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPatch, "/titles/1/reviews/1", patch, moderator).Code)

	comment := `{"text":"Agreed"}`
	recorder = serve(router, http.MethodPost, "/titles/1/reviews/1/comments", comment, stranger)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/titles/1/reviews/1/comments", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/titles/1/reviews/1/comments/2", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/titles/1/reviews/7/comments/2", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodDelete, "/titles/1/reviews/1/comments/2", "", author).Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/titles/1/reviews/1/comments/2", "", stranger).Code)

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/titles/1/reviews/1", "", author).Code)
}
