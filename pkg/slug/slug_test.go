// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Science Fiction", "science-fiction"},
		{"  Film noir!! ", "film-noir"},
		{"Café Olé", "cafe-ole"},
		{"rock--n--roll", "rock-n-roll"},
		{"Ностальгия", ""},
		{"Sci-Fi & Fantasy", "sci-fi-fantasy"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slug.From(tt.in), tt.in)
	}
}

func TestFrom_Truncates(t *testing.T) {
	got := slug.From(strings.Repeat("ab ", 40))
	assert.LessOrEqual(t, len(got), slug.MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
}
