// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (key derivation, JWT signing,
// role capabilities) from the domain logic. It acts as an Infrastructure
// service injected into the Application layer.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// Only the account identifier travels in the token. Role and staff flags are
// read from storage on each request so that a role change applies to the
// next request rather than the next login.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   int64  `json:"uid"`
	Username string `json:"unm"`
}

// TokenService handles generation and verification of JWT access tokens.
//
// It signs with RS256 when constructed from a key pair, or HS256 when
// constructed from a shared secret.
type TokenService struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	issuer    string
}

// NewTokenService creates a new RS256 TokenService.
// It reads RSA keys from the provided filesystem paths.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to parse public key: %w", err)
	}

	return newRSATokenService(privateKey, publicKey, issuer), nil
}

func newRSATokenService(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		method:    jwt.SigningMethodRS256,
		signKey:   privateKey,
		verifyKey: publicKey,
		issuer:    issuer,
	}
}

// NewHMACTokenService creates an HS256 TokenService from a symmetric key.
func NewHMACTokenService(key []byte, issuer string) (*TokenService, error) {
	if len(key) < SubkeySize {
		return nil, fmt.Errorf("auth: hmac key must be at least %d bytes", SubkeySize)
	}

	return &TokenService{
		method:    jwt.SigningMethodHS256,
		signKey:   key,
		verifyKey: key,
		issuer:    issuer,
	}, nil
}

// NewAccessTokenService picks RS256 when both key paths are given and HS256
// under an HKDF subkey of secret otherwise.
func NewAccessTokenService(secret, privateKeyPath, publicKeyPath string) (*TokenService, error) {
	if privateKeyPath != "" && publicKeyPath != "" {
		return NewTokenService(privateKeyPath, publicKeyPath, constants.AuthIssuer)
	}

	key, err := DeriveKey(secret, constants.KeyInfoAccessToken)
	if err != nil {
		return nil, err
	}
	return NewHMACTokenService(key, constants.AuthIssuer)
}

// GenerateAccessToken creates a new JWT access token for a user.
func (service *TokenService) GenerateAccessToken(userID int64, username string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:   userID,
		Username: username,
	}

	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.signKey)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != service.method.Alg() {
			return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
		}
		return service.verifyKey, nil
	}, jwt.WithIssuer(service.issuer))

	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	return claims, nil
}
