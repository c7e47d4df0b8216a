// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// # Confirmation Codes

// ErrInvalidCode is returned by [CodeGenerator.Verify] for any code that
// does not belong to the account, has been tampered with, or has expired.
var ErrInvalidCode = errors.New("auth: invalid confirmation code")

// maxClockSkew tolerates codes issued by a node whose clock runs slightly ahead.
const maxClockSkew = time.Minute

// CodeGenerator issues stateless confirmation codes.
//
// A code is the base36 issue time joined by '-' to a truncated HMAC over the
// account's identity fields. Nothing is stored: changing the email rotates
// the security stamp and silently invalidates every earlier code.
type CodeGenerator struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodeGenerator returns a generator keyed by a derived subkey.
func NewCodeGenerator(key []byte, ttl time.Duration) *CodeGenerator {
	return &CodeGenerator{key: key, ttl: ttl, now: time.Now}
}

// Generate returns a fresh confirmation code for the account.
func (generator *CodeGenerator) Generate(user *User) string {
	issued := strconv.FormatInt(generator.now().Unix(), 36)
	return issued + "-" + generator.sign(user, issued)
}

/*
Verify checks a code against the account's current identity fields.

Parameters:
  - user: *User (The account the code claims to belong to)
  - code: string

Returns:
  - error: ErrInvalidCode for any mismatch, malformed input or expiry
*/
func (generator *CodeGenerator) Verify(user *User, code string) error {
	issued, signature, found := strings.Cut(code, "-")
	if !found || issued == "" || len(signature) != codeSignatureLength {
		return ErrInvalidCode
	}

	expected := generator.sign(user, issued)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidCode
	}

	seconds, err := strconv.ParseInt(issued, 36, 64)
	if err != nil {
		return ErrInvalidCode
	}

	issuedAt := time.Unix(seconds, 0)
	now := generator.now()
	if issuedAt.After(now.Add(maxClockSkew)) || now.Sub(issuedAt) > generator.ttl {
		return ErrInvalidCode
	}

	return nil
}

func (generator *CodeGenerator) sign(user *User, issued string) string {
	mac := hmac.New(sha256.New, generator.key)
	mac.Write([]byte(strings.Join([]string{
		strconv.FormatInt(user.ID, 10),
		user.Username,
		user.Email,
		user.SecurityStamp,
		issued,
	}, "|")))
	return hex.EncodeToString(mac.Sum(nil))[:codeSignatureLength]
}
