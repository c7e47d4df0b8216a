// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

/*
TestIdentity_Capabilities checks that capability flags follow the stored role
and superuser flag, and that changing them changes the answer immediately.
*/
func TestIdentity_Capabilities(t *testing.T) {
	tests := []struct {
		name        string
		identity    *sec.Identity
		isAdmin     bool
		isModerator bool
		isUser      bool
	}{
		{"plain_user", &sec.Identity{Role: sec.RoleUser}, false, false, true},
		{"moderator", &sec.Identity{Role: sec.RoleModerator}, false, true, false},
		{"admin", &sec.Identity{Role: sec.RoleAdmin}, true, false, false},
		{"superuser_with_user_role", &sec.Identity{Role: sec.RoleUser, IsSuperuser: true}, true, false, true},
		{"anonymous", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isAdmin, tt.identity.IsAdmin())
			assert.Equal(t, tt.isModerator, tt.identity.IsModerator())
			assert.Equal(t, tt.isUser, tt.identity.IsUser())
		})
	}

	identity := &sec.Identity{Role: sec.RoleUser}
	assert.False(t, identity.IsAdmin())
	identity.Role = sec.RoleAdmin
	assert.True(t, identity.IsAdmin())
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleModerator.Valid())
	assert.False(t, sec.UserRole("member").Valid())
	assert.Equal(t, []string{"user", "moderator", "admin"}, sec.RoleNames())
}

func TestDeriveKey(t *testing.T) {
	first, err := sec.DeriveKey("secret", "a")
	require.NoError(t, err)
	again, err := sec.DeriveKey("secret", "a")
	require.NoError(t, err)
	other, err := sec.DeriveKey("secret", "b")
	require.NoError(t, err)

	assert.Len(t, first, sec.SubkeySize)
	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)

	_, err = sec.DeriveKey("", "a")
	assert.Error(t, err)
}

func TestTokenService_HMAC(t *testing.T) {
	key, err := sec.DeriveKey("secret", "access")
	require.NoError(t, err)

	service, err := sec.NewHMACTokenService(key, "yamdb")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(42, "bob", time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, "42", claims.Subject)

	_, err = service.VerifyToken(token + "x")
	assert.Error(t, err)

	expired, err := service.GenerateAccessToken(42, "bob", -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	_, err = sec.NewHMACTokenService([]byte("short"), "yamdb")
	assert.Error(t, err)
}

func TestTokenService_RSA(t *testing.T) {
	dir := t.TempDir()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privateKey)})
	require.NoError(t, os.WriteFile(privatePath, privatePEM, 0o600))

	publicDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})
	require.NoError(t, os.WriteFile(publicPath, publicPEM, 0o600))

	service, err := sec.NewTokenService(privatePath, publicPath, "yamdb")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(7, "alice", time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)

	hmacKey, err := sec.DeriveKey("secret", "access")
	require.NoError(t, err)
	hmacService, err := sec.NewHMACTokenService(hmacKey, "yamdb")
	require.NoError(t, err)

	_, err = hmacService.VerifyToken(token)
	assert.Error(t, err, "tokens must not cross signing methods")
}

func TestNewAccessTokenService_DefaultsToHMAC(t *testing.T) {
	service, err := sec.NewAccessTokenService("root-secret", "", "")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(3, "bob", time.Minute)
	require.NoError(t, err)

	key, err := sec.DeriveKey("root-secret", "yamdb/access-token")
	require.NoError(t, err)
	direct, err := sec.NewHMACTokenService(key, "yamdb")
	require.NoError(t, err)

	claims, err := direct.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Username)

	_, err = sec.NewAccessTokenService("root-secret", "/missing/private.pem", "/missing/public.pem")
	assert.Error(t, err)
}
