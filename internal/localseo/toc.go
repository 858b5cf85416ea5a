package localseo

import (
	"html"
	"strings"

	"github.com/goliatone/go-sitegen/internal/htmlfrag"
	"github.com/goliatone/go-sitegen/internal/slugs"
)

// TOCShortcode marks where the table of contents is placed.
const TOCShortcode = "[nsg-toc]"

// TOCOptions controls the table of contents block.
type TOCOptions struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Numbered    bool   `json:"numbered" yaml:"numbered"`
	Collapsible bool   `json:"collapsible" yaml:"collapsible"`
	IncludeH3   bool   `json:"include_h3" yaml:"include_h3"`
	Title       string `json:"title,omitempty" yaml:"title"`
}

// ApplyTOC anchors the content headings and places a table of contents at
// the first [nsg-toc] shortcode, or at the top of the content when no
// shortcode is present. Shortcodes are always removed from the output.
func ApplyTOC(content string, opts TOCOptions) string {
	if !opts.Enabled {
		return strings.ReplaceAll(content, TOCShortcode, "")
	}

	levels := []int{2}
	if opts.IncludeH3 {
		levels = append(levels, 3)
	}
	anchored, headings := htmlfrag.AnchorHeadings(content, levels, slugs.Slugify)
	if len(headings) == 0 {
		return strings.ReplaceAll(anchored, TOCShortcode, "")
	}

	toc := buildTOC(headings, opts)
	if strings.Contains(anchored, TOCShortcode) {
		anchored = strings.Replace(anchored, TOCShortcode, toc, 1)
		return strings.ReplaceAll(anchored, TOCShortcode, "")
	}
	return toc + "\n" + anchored
}

func buildTOC(headings []htmlfrag.Heading, opts TOCOptions) string {
	listTag := "ul"
	if opts.Numbered {
		listTag = "ol"
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Contents"
	}

	var b strings.Builder
	b.WriteString(`<nav class="toc" aria-label="Table of contents">`)
	if opts.Collapsible {
		b.WriteString(`<details open><summary>` + html.EscapeString(title) + `</summary>`)
	} else {
		b.WriteString(`<p class="toc-title">` + html.EscapeString(title) + `</p>`)
	}

	b.WriteString("<" + listTag + ">")
	nested := false
	for i, heading := range headings {
		item := `<a href="#` + html.EscapeString(heading.ID) + `">` + html.EscapeString(heading.Text) + `</a>`
		switch {
		case heading.Level == 3 && !nested && i > 0:
			b.WriteString("<" + listTag + ">")
			nested = true
		case heading.Level == 2 && nested:
			b.WriteString("</li></" + listTag + "></li>")
			nested = false
		case i > 0:
			b.WriteString("</li>")
		}
		b.WriteString("<li>" + item)
	}
	b.WriteString("</li>")
	if nested {
		b.WriteString("</" + listTag + "></li>")
	}
	b.WriteString("</" + listTag + ">")

	if opts.Collapsible {
		b.WriteString(`</details>`)
	}
	b.WriteString(`</nav>`)
	return b.String()
}
