// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

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
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// # Fakes

type memoryAccounts struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*auth.User
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{rows: map[int64]*auth.User{}}
}

func (repo *memoryAccounts) List(_ context.Context, search string, page pagination.Params) ([]*auth.User, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var matched []*auth.User
	for _, user := range repo.rows {
		if strings.Contains(strings.ToLower(user.Username), strings.ToLower(search)) {
			copied := *user
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	total := len(matched)
	start := min(page.Offset(), total)
	end := min(start+page.Limit, total)
	return matched[start:end], total, nil
}

func (repo *memoryAccounts) find(match func(*auth.User) bool) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.rows {
		if match(user) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryAccounts) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return repo.find(func(u *auth.User) bool { return u.Username == username })
}

func (repo *memoryAccounts) FindByID(_ context.Context, id int64) (*auth.User, error) {
	return repo.find(func(u *auth.User) bool { return u.ID == id })
}

func (repo *memoryAccounts) conflict(user *auth.User) error {
	for _, existing := range repo.rows {
		if existing.ID == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return apperr.FieldInvalid(auth.FieldUsername, "taken")
		}
		if existing.Email == user.Email {
			return apperr.FieldInvalid(auth.FieldEmail, "taken")
		}
	}
	return nil
}

func (repo *memoryAccounts) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.conflict(user); err != nil {
		return err
	}
	repo.nextID++
	user.ID = repo.nextID
	user.SecurityStamp = "stamp-initial"
	copied := *user
	repo.rows[user.ID] = &copied
	return nil
}

func (repo *memoryAccounts) Update(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	if err := repo.conflict(user); err != nil {
		return err
	}
	copied := *user
	repo.rows[user.ID] = &copied
	return nil
}

func (repo *memoryAccounts) SoftDelete(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.rows, id)
	return nil
}

func newTestService() *Service {
	return NewService(newMemoryAccounts(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seed(t *testing.T, service *Service, username, role string) *auth.User {
	t.Helper()
	user, err := service.Create(context.Background(), CreateInput{Username: username, Email: username + "@x.com", Role: role})
	require.NoError(t, err)
	return user
}

// # Service Tests

func TestCreate(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	user := seed(t, service, "alice", "")
	assert.Equal(t, sec.RoleUser, user.Role)

	_, err := service.Create(ctx, CreateInput{Username: "bob", Email: "bob@x.com", Role: "overlord"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Create(ctx, CreateInput{Username: "Me", Email: "me@x.com"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Create(ctx, CreateInput{Username: "alice", Email: "other@x.com"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestUpdate_AdminChangesRole(t *testing.T) {
	service := newTestService()
	seed(t, service, "alice", "")

	user, err := service.Update(context.Background(), "alice", UpdateInput{Role: pointer.To("moderator")})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)

	_, err = service.Update(context.Background(), "ghost", UpdateInput{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestUpdateMe_IgnoresRole verifies that members cannot promote themselves and
that changing the email rotates the security stamp.
*/
func TestUpdateMe_IgnoresRole(t *testing.T) {
	service := newTestService()
	alice := seed(t, service, "alice", "")

	updated, err := service.UpdateMe(context.Background(), alice.Identity(), UpdateInput{
		Role:  pointer.To("admin"),
		Bio:   pointer.To("critic"),
		Email: pointer.To("alice@new.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleUser, updated.Role)
	assert.Equal(t, "critic", updated.Bio)
	assert.Equal(t, "alice@new.com", updated.Email)
	assert.NotEqual(t, "stamp-initial", updated.SecurityStamp)
}

func TestUpdateMe_KeepsStampWithoutEmailChange(t *testing.T) {
	service := newTestService()
	alice := seed(t, service, "alice", "")

	updated, err := service.UpdateMe(context.Background(), alice.Identity(), UpdateInput{FirstName: pointer.To("Alice")})
	require.NoError(t, err)
	assert.Equal(t, "stamp-initial", updated.SecurityStamp)
}

func TestDelete(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	seed(t, service, "alice", "")

	require.NoError(t, service.Delete(ctx, "alice"))

	_, err := service.Get(ctx, "alice")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestList_Search(t *testing.T) {
	service := newTestService()
	seed(t, service, "alice", "")
	seed(t, service, "alfred", "")
	seed(t, service, "bob", "")

	users, total, err := service.List(context.Background(), "al", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)
}

// # HTTP Tests

func serve(handler http.Handler, method, path, body string, caller *sec.Identity) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if caller != nil {
		request = request.WithContext(ctxutil.WithIdentity(request.Context(), caller))
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestRoutes_Gates verifies that /users is admin-only for every method while
/users/me is open to any authenticated caller.
*/
func TestRoutes_Gates(t *testing.T) {
	service := newTestService()
	member := seed(t, service, "alice", "").Identity()
	admin := seed(t, service, "boss", "admin").Identity()
	router := NewHandler(service).Routes()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		caller *sec.Identity
		status int
	}{
		{"anonymous_list", http.MethodGet, "/", "", nil, http.StatusForbidden},
		{"member_list", http.MethodGet, "/", "", member, http.StatusForbidden},
		{"member_create", http.MethodPost, "/", `{"username":"x","email":"x@x.com"}`, member, http.StatusForbidden},
		{"admin_list", http.MethodGet, "/", "", admin, http.StatusOK},
		{"admin_get", http.MethodGet, "/alice", "", admin, http.StatusOK},
		{"admin_get_missing", http.MethodGet, "/ghost", "", admin, http.StatusNotFound},
		{"anonymous_me", http.MethodGet, "/me", "", nil, http.StatusForbidden},
		{"member_me", http.MethodGet, "/me", "", member, http.StatusOK},
		{"member_patch_me", http.MethodPatch, "/me", `{"bio":"hi","role":"admin"}`, member, http.StatusOK},
		{"admin_create", http.MethodPost, "/", `{"username":"carol","email":"carol@x.com"}`, admin, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(router, tt.method, tt.path, tt.body, tt.caller)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
		})
	}

	// The self-service patch must not have promoted alice
	alice, err := service.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, alice.Role)
}

func TestRoutes_ListEnvelope(t *testing.T) {
	service := newTestService()
	admin := seed(t, service, "boss", "admin").Identity()
	seed(t, service, "alice", "")

	recorder := serve(NewHandler(service).Routes(), http.MethodGet, "/?search=ali", "", admin)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []map[string]any `json:"data"`
		Meta pagination.Meta  `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "alice", envelope.Data[0]["username"])
	assert.Equal(t, "user", envelope.Data[0]["role"])
	assert.Equal(t, 1, envelope.Meta.Total)
}
