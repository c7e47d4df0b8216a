// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

type memoryTerms struct {
	mu     sync.Mutex
	kind   Kind
	nextID int64
	rows   map[string]*Term
}

func newMemoryTerms(kind Kind) *memoryTerms {
	return &memoryTerms{kind: kind, rows: map[string]*Term{}}
}

func (repo *memoryTerms) List(_ context.Context, search string, page pagination.Params) ([]*Term, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var matched []*Term
	for _, term := range repo.rows {
		if strings.Contains(strings.ToLower(term.Name), strings.ToLower(search)) {
			matched = append(matched, term)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	total := len(matched)
	start := min(page.Offset(), total)
	return matched[start:min(start+page.Limit, total)], total, nil
}

func (repo *memoryTerms) FindBySlug(_ context.Context, slug string) (*Term, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if term, ok := repo.rows[slug]; ok {
		return term, nil
	}
	return nil, apperr.NotFound(string(repo.kind))
}

func (repo *memoryTerms) FindBySlugs(_ context.Context, slugs []string) ([]*Term, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var found []*Term
	for _, slug := range slugs {
		if term, ok := repo.rows[slug]; ok {
			found = append(found, term)
		}
	}
	return found, nil
}

func (repo *memoryTerms) Create(_ context.Context, term *Term) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[term.Slug]; ok {
		return apperr.FieldInvalid(FieldSlug, "taken")
	}
	repo.nextID++
	term.ID = repo.nextID
	repo.rows[term.Slug] = term
	return nil
}

func (repo *memoryTerms) DeleteBySlug(_ context.Context, slug string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[slug]; !ok {
		return apperr.NotFound(string(repo.kind))
	}
	delete(repo.rows, slug)
	return nil
}

func newTestService(kind Kind) *Service {
	return NewService(newMemoryTerms(kind), kind, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreate(t *testing.T) {
	service := newTestService(KindGenre)
	ctx := context.Background()

	t.Run("derives_slug", func(t *testing.T) {
		term, err := service.Create(ctx, CreateInput{Name: "Science Fiction"})
		require.NoError(t, err)
		assert.Equal(t, "science-fiction", term.Slug)
	})

	t.Run("explicit_slug", func(t *testing.T) {
		term, err := service.Create(ctx, CreateInput{Name: "Drama", Slug: "drama_1"})
		require.NoError(t, err)
		assert.Equal(t, "drama_1", term.Slug)
	})

	t.Run("rejects", func(t *testing.T) {
		for _, input := range []CreateInput{
			{Name: ""},
			{Name: "Bad", Slug: "not a slug"},
			{Name: "Bad", Slug: strings.Repeat("a", 51)},
			{Name: strings.Repeat("n", MaxNameLength+1), Slug: "long"},
			{Name: "Drama again", Slug: "drama_1"},
		} {
			_, err := service.Create(ctx, input)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "%+v", input)
		}
	})
}

func TestDelete(t *testing.T) {
	service := newTestService(KindCategory)
	ctx := context.Background()

	_, err := service.Create(ctx, CreateInput{Name: "Film"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, "film"))

	err = service.Delete(ctx, "film")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Category not found", ae.Message)
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

/*
TestRoutes_AdminOrReadOnly verifies that reads are public and writes need an
administrator or staff member.
*/
func TestRoutes_AdminOrReadOnly(t *testing.T) {
	service := newTestService(KindCategory)
	router := NewHandler(service).Routes()

	member := &sec.Identity{UserID: 1, Role: sec.RoleUser}
	moderator := &sec.Identity{UserID: 2, Role: sec.RoleModerator}
	admin := &sec.Identity{UserID: 3, Role: sec.RoleAdmin}
	staff := &sec.Identity{UserID: 4, Role: sec.RoleUser, IsStaff: true}

	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/", `{"name":"Film"}`, nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/", `{"name":"Film"}`, member).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/", `{"name":"Film"}`, moderator).Code)

	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/", `{"name":"Film"}`, admin).Code)
	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/", `{"name":"Music"}`, staff).Code)

	recorder := serve(router, http.MethodGet, "/?search=fil", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []Term          `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "film", envelope.Data[0].Slug)
	assert.Equal(t, 1, envelope.Meta.Total)

	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodDelete, "/film", "", member).Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/film", "", admin).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, "/film", "", admin).Code)
}
