// Package slugs derives URL-safe slugs from titles and row values.
package slugs

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// Slugify lowercases value and collapses every run of characters outside
// [a-z0-9] into a single hyphen. Leading and trailing hyphens are trimmed.
func Slugify(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	pending := false
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// Explicit normalizes a slug supplied by a data column. Values already valid
// under the default slug rules are kept verbatim.
func Explicit(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if slug.IsValid(trimmed) {
		return trimmed
	}
	if normalized, err := slug.Normalize(trimmed); err == nil && normalized != "" {
		return normalized
	}
	return Slugify(trimmed)
}

// OrDefault returns Slugify(value), or fallback when that is empty.
func OrDefault(value, fallback string) string {
	if s := Slugify(value); s != "" {
		return s
	}
	return fallback
}

// Column is the data column holding an explicit slug.
const Column = "slug"
