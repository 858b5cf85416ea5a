// Package placeholder implements flat {{key}} substitution.
package placeholder

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-sitegen/internal/domain"
)

var tokenPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// Substitute replaces every literal {{key}} occurrence with the stringified
// value stored under key. Unknown tokens are kept as-is.
func Substitute(template string, values map[string]any) string {
	return SubstituteFunc(template, values, domain.Stringify)
}

// SubstituteFunc is Substitute with a custom value renderer, used when every
// substituted value must be transformed (e.g. slugified URL segments).
func SubstituteFunc(template string, values map[string]any, render func(any) string) string {
	if template == "" || len(values) == 0 || !strings.Contains(template, "{{") {
		return template
	}
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", render(value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// SubstituteStrict substitutes known keys and then blanks any unresolved
// {{...}} token. Used for SEO metadata where raw placeholders must not leak.
func SubstituteStrict(template string, values map[string]any) string {
	return StripUnresolved(Substitute(template, values))
}

// StripUnresolved removes every remaining {{...}} token.
func StripUnresolved(text string) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return tokenPattern.ReplaceAllString(text, "")
}

// Tokens lists the distinct token names referenced by template in order of
// first appearance.
func Tokens(template string) []string {
	matches := tokenPattern.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	seen := map[string]struct{}{}
	for _, match := range matches {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
