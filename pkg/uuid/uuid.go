// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid generates security stamps.
//
// Account IDs are database sequences. The stamp is an opaque random value
// mixed into every confirmation code; replacing it on an email change voids
// the codes issued for the old address.
package uuid

import "github.com/google/uuid"

// New returns a random (version 4) UUID in its canonical string form.
func New() string {
	return uuid.NewString()
}
