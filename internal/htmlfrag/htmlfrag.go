// Package htmlfrag edits HTML documents with tag-scoped regular expressions.
//
// It is deliberately not a DOM: tags are matched case-insensitively by name,
// attributes are inspected as raw text, and nested tags of the same name are
// not supported. Every regex-based edit used by rendering and export lives
// here so the matching rules can be tested in isolation.
package htmlfrag

import (
	"regexp"
	"strings"
	"sync"
)

// Element is one matched tag with its raw attribute text and body.
type Element struct {
	Attrs string
	Body  string
}

// HasAttr reports whether the opening tag carries the named attribute.
func (e Element) HasAttr(name string) bool {
	name = strings.ToLower(name)
	return cached(attrPatterns, name, func() string {
		return `(?i)(^|\s)` + regexp.QuoteMeta(name) + `(\s*=|\s|$)`
	}).MatchString(e.Attrs)
}

// AttrContains reports whether the raw attribute text contains needle,
// ignoring case.
func (e Element) AttrContains(needle string) bool {
	return strings.Contains(strings.ToLower(e.Attrs), strings.ToLower(needle))
}

var (
	patternMu     sync.Mutex
	pairPatterns  = map[string]*regexp.Regexp{}
	openPatterns  = map[string]*regexp.Regexp{}
	closePatterns = map[string]*regexp.Regexp{}
	attrPatterns  = map[string]*regexp.Regexp{}
	foldPatterns  = map[string]*regexp.Regexp{}
)

// cached compiles the pattern produced by source once per key.
func cached(set map[string]*regexp.Regexp, key string, source func() string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := set[key]; ok {
		return re
	}
	re := regexp.MustCompile(source())
	set[key] = re
	return re
}

func pairPattern(tag string) *regexp.Regexp {
	tag = strings.ToLower(tag)
	return cached(pairPatterns, tag, func() string {
		return `(?is)<` + regexp.QuoteMeta(tag) + `\b([^>]*)>(.*?)</` + regexp.QuoteMeta(tag) + `\s*>`
	})
}

func openPattern(tag string) *regexp.Regexp {
	tag = strings.ToLower(tag)
	return cached(openPatterns, tag, func() string {
		return `(?i)<` + regexp.QuoteMeta(tag) + `\b[^>]*>`
	})
}

func closePattern(tag string) *regexp.Regexp {
	tag = strings.ToLower(tag)
	return cached(closePatterns, tag, func() string {
		return `(?i)</` + regexp.QuoteMeta(tag) + `\s*>`
	})
}

func foldPattern(literal string) *regexp.Regexp {
	literal = strings.ToLower(literal)
	return cached(foldPatterns, literal, func() string {
		return `(?i)` + regexp.QuoteMeta(literal)
	})
}

// ExtractTag removes every <tag>...</tag> element accepted by keep and returns
// the rewritten document with the removed elements in document order. A nil
// keep accepts every element.
func ExtractTag(doc, tag string, keep func(Element) bool) (string, []Element) {
	re := pairPattern(tag)
	var extracted []Element
	out := re.ReplaceAllStringFunc(doc, func(match string) string {
		sub := re.FindStringSubmatch(match)
		el := Element{Attrs: strings.TrimSpace(sub[1]), Body: sub[2]}
		if keep != nil && !keep(el) {
			return match
		}
		extracted = append(extracted, el)
		return ""
	})
	return out, extracted
}

// Find returns every <tag>...</tag> element without modifying doc.
func Find(doc, tag string) []Element {
	matches := pairPattern(tag).FindAllStringSubmatch(doc, -1)
	out := make([]Element, 0, len(matches))
	for _, sub := range matches {
		out = append(out, Element{Attrs: strings.TrimSpace(sub[1]), Body: sub[2]})
	}
	return out
}

// HasTag reports whether doc contains an opening <tag>.
func HasTag(doc, tag string) bool {
	return openPattern(tag).MatchString(doc)
}

// InsertBeforeCloseTag inserts snippet before the first </tag>. The second
// return value is false when the closing tag is absent and doc is unchanged.
func InsertBeforeCloseTag(doc, tag, snippet string) (string, bool) {
	loc := closePattern(tag).FindStringIndex(doc)
	if loc == nil {
		return doc, false
	}
	return doc[:loc[0]] + snippet + doc[loc[0]:], true
}

// InsertBeforeLastCloseTag inserts snippet before the last </tag>.
func InsertBeforeLastCloseTag(doc, tag, snippet string) (string, bool) {
	matches := closePattern(tag).FindAllStringIndex(doc, -1)
	if len(matches) == 0 {
		return doc, false
	}
	idx := matches[len(matches)-1][0]
	return doc[:idx] + snippet + doc[idx:], true
}

// InsertAfterOpenTag inserts snippet right after the first opening <tag ...>.
func InsertAfterOpenTag(doc, tag, snippet string) (string, bool) {
	loc := openPattern(tag).FindStringIndex(doc)
	if loc == nil {
		return doc, false
	}
	return doc[:loc[1]] + snippet + doc[loc[1]:], true
}

// InsertAfterMatch inserts snippet after the first occurrence of the literal
// marker, ignoring case.
func InsertAfterMatch(doc, marker, snippet string) (string, bool) {
	loc := foldPattern(marker).FindStringIndex(doc)
	if loc == nil {
		return doc, false
	}
	return doc[:loc[1]] + snippet + doc[loc[1]:], true
}
