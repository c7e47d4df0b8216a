// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug derives URL slugs for categories and genres.
//
// When an administrator creates a term without a slug, [From] builds one from
// the name: "Science Fiction" becomes "science-fiction".
package slug

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength matches the width of the slug columns.
const MaxLength = 50

// foldAccents decomposes letters and drops the combining marks: é → e.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// From lowercases s, folds accents, and joins the remaining ASCII letter and
// digit runs with single hyphens. Other characters are dropped. The result
// has at most [MaxLength] bytes and never starts or ends with a hyphen.
func From(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}

	var builder strings.Builder
	separate := false

	for _, r := range strings.ToLower(folded) {
		if builder.Len() >= MaxLength {
			break
		}

		if r >= utf8.RuneSelf || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			separate = true
			continue
		}

		if separate && builder.Len() > 0 {
			builder.WriteByte('-')
		}
		separate = false
		builder.WriteRune(r)
	}

	result := builder.String()
	if len(result) > MaxLength {
		result = result[:MaxLength]
	}
	return strings.TrimRight(result, "-")
}
