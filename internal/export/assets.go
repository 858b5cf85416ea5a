package export

import (
	"strings"

	"github.com/goliatone/go-sitegen/internal/htmlfrag"
)

const (
	StylesPath  = "assets/styles.css"
	ScriptsPath = "assets/scripts.js"

	stylesLink = `<link rel="stylesheet" href="/assets/styles.css">`
	scriptsTag = `<script src="/assets/scripts.js"></script>`
)

// assetCollector accumulates inline CSS and JS extracted from pages.
type assetCollector struct {
	css strings.Builder
	js  strings.Builder
}

// inlineScript accepts scripts without src that are not JSON-LD data blocks.
func inlineScript(el htmlfrag.Element) bool {
	return !el.HasAttr("src") && !el.AttrContains("application/ld+json")
}

// split removes inline style and script tags from doc and links the shared
// asset files when the page contributed any content.
func (a *assetCollector) split(doc string) string {
	doc, styles := htmlfrag.ExtractTag(doc, "style", nil)
	doc, scripts := htmlfrag.ExtractTag(doc, "script", inlineScript)

	css := joinBodies(styles)
	js := joinBodies(scripts)

	if strings.TrimSpace(css) != "" {
		a.css.WriteString(css)
		a.css.WriteString("\n")
		doc, _ = htmlfrag.InsertBeforeCloseTag(doc, "head", stylesLink)
	}
	if strings.TrimSpace(js) != "" {
		a.js.WriteString(js)
		a.js.WriteString("\n")
		doc, _ = htmlfrag.InsertBeforeLastCloseTag(doc, "body", scriptsTag)
	}
	return doc
}

func joinBodies(elements []htmlfrag.Element) string {
	if len(elements) == 0 {
		return ""
	}
	parts := make([]string, 0, len(elements))
	for _, el := range elements {
		parts = append(parts, el.Body)
	}
	return strings.Join(parts, "\n")
}

// DedupeLines drops blank lines and repeated lines, keeping first
// occurrences in order.
func DedupeLines(text string) string {
	seen := map[string]struct{}{}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}
