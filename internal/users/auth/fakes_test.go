// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// memoryUsers is an in-memory UserRepository.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{rows: map[int64]*User{}}
}

func (repo *memoryUsers) find(match func(*User) bool) (*User, error) {
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

func (repo *memoryUsers) FindByID(_ context.Context, id int64) (*User, error) {
	return repo.find(func(u *User) bool { return u.ID == id })
}

func (repo *memoryUsers) FindByUsername(_ context.Context, username string) (*User, error) {
	return repo.find(func(u *User) bool { return u.Username == username })
}

func (repo *memoryUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	return repo.find(func(u *User) bool { return u.Email == email })
}

func (repo *memoryUsers) Create(_ context.Context, user *User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.rows {
		if existing.Username == user.Username {
			return apperr.FieldInvalid(FieldUsername, msgUsernameTaken)
		}
		if existing.Email == user.Email {
			return apperr.FieldInvalid(FieldEmail, msgEmailTaken)
		}
	}
	repo.nextID++
	user.ID = repo.nextID
	user.SecurityStamp = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	repo.rows[user.ID] = &copied
	return nil
}

func (repo *memoryUsers) TouchLastLogin(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.rows[id]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

// changeEmail mimics a profile update, which rotates the security stamp.
func (repo *memoryUsers) changeEmail(id int64, email string) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.rows[id].Email = email
	repo.rows[id].SecurityStamp = uuid.NewString()
}

// recordingNotifier captures every notification.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

type sentMessage struct {
	to, subject, body string
}

func (notifier *recordingNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.sent = append(notifier.sent, sentMessage{to: recipient, subject: subject, body: body})
	return notifier.err
}

// lastCode extracts the code from the most recent message body.
func (notifier *recordingNotifier) lastCode() string {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.sent) == 0 {
		return ""
	}
	body := notifier.sent[len(notifier.sent)-1].body
	return body[strings.LastIndex(body, " ")+1:]
}

// stubTokens signs nothing; it encodes the subject for assertions.
type stubTokens struct {
	err error
}

func (tokens stubTokens) GenerateAccessToken(userID int64, username string, _ time.Duration) (string, error) {
	if tokens.err != nil {
		return "", tokens.err
	}
	return fmt.Sprintf("token-%d-%s", userID, username), nil
}

var errBoom = errors.New("boom")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	users    *memoryUsers
	notifier *recordingNotifier
	codes    *CodeGenerator
	service  *Service
}

func newFixture() *fixture {
	f := &fixture{
		users:    newMemoryUsers(),
		notifier: &recordingNotifier{},
		codes:    NewCodeGenerator([]byte("0123456789abcdef0123456789abcdef"), 72*time.Hour),
	}
	f.service = NewService(f.users, f.codes, stubTokens{}, f.notifier, time.Hour, discardLogger())
	return f
}
