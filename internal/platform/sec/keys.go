// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// SubkeySize is the length in bytes of every derived subkey.
const SubkeySize = 32

// DeriveKey expands the application secret into an independent subkey for
// one purpose. Distinct info labels yield unrelated keys.
func DeriveKey(secret, info string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("sec: empty secret")
	}

	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))

	key := make([]byte, SubkeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("sec: derive %q: %w", info, err)
	}

	return key, nil
}
