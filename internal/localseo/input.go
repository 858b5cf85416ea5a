package localseo

import (
	"strings"
)

// Term is a search term with its plural form.
type Term struct {
	Singular string `json:"singular" yaml:"singular"`
	Plural   string `json:"plural" yaml:"plural"`
}

// ParseTerms reads one term per line as "singular | plural". A missing
// plural defaults to singular + "s". Blank lines are skipped.
func ParseTerms(text string) []Term {
	var terms []Term
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		singular, plural, _ := strings.Cut(line, "|")
		singular = strings.TrimSpace(singular)
		plural = strings.TrimSpace(plural)
		if singular == "" {
			continue
		}
		if plural == "" {
			plural = singular + "s"
		}
		terms = append(terms, Term{Singular: singular, Plural: plural})
	}
	return terms
}

// ParseLocations reads one location per line, skipping blank lines.
func ParseLocations(text string) []string {
	var locations []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			locations = append(locations, trimmed)
		}
	}
	return locations
}

// Bracket tokens recognized in slug patterns, titles and content.
const (
	TokenTerm     = "[search_term]"
	TokenTerms    = "[search_terms]"
	TokenLocation = "[location]"
)

// Variable names exposed to {{...}} placeholders and stored in page data.
const (
	VarTerm     = "search_term"
	VarTerms    = "search_terms"
	VarLocation = "location"
)

func replaceBrackets(text string, term Term, location string, transform func(string) string) string {
	if !strings.Contains(text, "[") {
		return text
	}
	if transform == nil {
		transform = func(s string) string { return s }
	}
	return strings.NewReplacer(
		TokenTerms, transform(term.Plural),
		TokenTerm, transform(term.Singular),
		TokenLocation, transform(location),
	).Replace(text)
}
