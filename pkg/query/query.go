// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list filters from URL query strings.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// List collects every value of key, accepting both repeated parameters and
// comma-separated lists, so ?genre=a,b and ?genre=a&genre=b are equivalent.
// Blank items are dropped and the order of first appearance is kept.
func List(values url.Values, key string) []string {
	var items []string
	for _, raw := range values[key] {
		for item := range strings.SplitSeq(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// OptionalInt returns a pointer to the parsed integer parameter, or nil when
// it is absent or malformed. A malformed filter matches as if it were absent.
func OptionalInt(values url.Values, key string) *int {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
