// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides slug and identifier helpers shared by the layout
// engine and the site compiler.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// identRegex matches characters not allowed in a generated CSS class
	identRegex = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
)

// Slugify converts a string to a URL-friendly slug.
// It converts to lowercase, removes accents, replaces spaces and
// underscores with hyphens, and drops everything else that is not
// alphanumeric.
func Slugify(s string) string {
	// Decompose accents and drop the combining marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(strings.TrimSpace(result))
	result = strings.NewReplacer(" ", "-", "_", "-", "/", "-").Replace(result)
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}

// CSSIdent turns an opaque component ID into a token that is safe to use
// as a CSS class name. The "b-" prefix keeps IDs starting with a digit valid.
func CSSIdent(id string) string {
	return "b-" + identRegex.ReplaceAllString(id, "_")
}
