// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testUser() *User {
	return &User{ID: 7, Username: "alice", Email: "alice@x.com", SecurityStamp: "stamp-1"}
}

func fixedGenerator(at time.Time) *CodeGenerator {
	generator := NewCodeGenerator([]byte("0123456789abcdef0123456789abcdef"), 72*time.Hour)
	generator.now = func() time.Time { return at }
	return generator
}

func TestCodeGenerator_RoundTrip(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	generator := fixedGenerator(issued)
	user := testUser()

	code := generator.Generate(user)

	issuedPart, signature, found := strings.Cut(code, "-")
	assert.True(t, found)
	assert.NotEmpty(t, issuedPart)
	assert.Len(t, signature, codeSignatureLength)

	assert.NoError(t, generator.Verify(user, code))

	// Still valid later on, and deterministic for the same instant
	generator.now = func() time.Time { return issued.Add(71 * time.Hour) }
	assert.NoError(t, generator.Verify(user, code))
	assert.Equal(t, code, fixedGenerator(issued).Generate(user))
}

/*
TestCodeGenerator_Rejects verifies that a code only matches the identity it
was issued for, inside its lifetime.
*/
func TestCodeGenerator_Rejects(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	user := testUser()
	code := fixedGenerator(issued).Generate(user)

	tests := []struct {
		name   string
		now    time.Time
		mutate func(*User)
		code   string
	}{
		{name: "other_email", now: issued, mutate: func(u *User) { u.Email = "new@x.com" }, code: code},
		{name: "rotated_stamp", now: issued, mutate: func(u *User) { u.SecurityStamp = "stamp-2" }, code: code},
		{name: "other_user", now: issued, mutate: func(u *User) { u.ID = 8 }, code: code},
		{name: "expired", now: issued.Add(73 * time.Hour), code: code},
		{name: "issued_in_future", now: issued.Add(-time.Hour), code: code},
		{name: "malformed", now: issued, code: "not-a-code"},
		{name: "empty", now: issued, code: ""},
		{name: "tampered_time", now: issued, code: "zz" + code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := testUser()
			if tt.mutate != nil {
				tt.mutate(target)
			}
			assert.ErrorIs(t, fixedGenerator(tt.now).Verify(target, tt.code), ErrInvalidCode)
		})
	}
}

func TestCodeGenerator_KeySeparation(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	user := testUser()
	code := fixedGenerator(issued).Generate(user)

	other := NewCodeGenerator([]byte("another-key-another-key-another!!"), 72*time.Hour)
	other.now = func() time.Time { return issued }

	assert.ErrorIs(t, other.Verify(user, code), ErrInvalidCode)
}
