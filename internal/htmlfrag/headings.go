package htmlfrag

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	headingPattern = regexp.MustCompile(`(?is)<h([1-6])\b([^>]*)>(.*?)</h([1-6])\s*>`)
	idAttrPattern  = regexp.MustCompile(`(?i)(?:^|\s)id\s*=\s*["']([^"']*)["']`)
	tagPattern     = regexp.MustCompile(`(?s)<[^>]+>`)
)

// Heading is a heading element found in a document.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// AnchorHeadings assigns an id to every heading whose level is in levels and
// returns the rewritten document with the headings in document order.
// Existing ids are kept. idFor derives an id from the heading text; ids are
// made unique with a numeric suffix.
func AnchorHeadings(doc string, levels []int, idFor func(text string) string) (string, []Heading) {
	wanted := map[int]bool{}
	for _, level := range levels {
		wanted[level] = true
	}
	used := map[string]int{}
	var headings []Heading

	out := headingPattern.ReplaceAllStringFunc(doc, func(match string) string {
		sub := headingPattern.FindStringSubmatch(match)
		level, _ := strconv.Atoi(sub[1])
		if sub[1] != sub[4] || !wanted[level] {
			return match
		}
		text := strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(sub[3], "")))
		if existing := idAttrPattern.FindStringSubmatch(sub[2]); existing != nil {
			used[existing[1]]++
			headings = append(headings, Heading{Level: level, ID: existing[1], Text: text})
			return match
		}
		id := idFor(text)
		if id == "" {
			id = "section"
		}
		if n := used[id]; n > 0 {
			used[id]++
			id = id + "-" + strconv.Itoa(n+1)
		}
		used[id]++
		headings = append(headings, Heading{Level: level, ID: id, Text: text})
		return "<h" + sub[1] + sub[2] + ` id="` + html.EscapeString(id) + `">` + sub[3] + "</h" + sub[4] + ">"
	})
	return out, headings
}
