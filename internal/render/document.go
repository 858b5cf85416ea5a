package render

import (
	"html"
	"strings"

	"github.com/goliatone/go-sitegen/internal/htmlfrag"
	"github.com/goliatone/go-sitegen/internal/jsonld"
)

// ContainerMarker is the element after which breadcrumbs are injected.
const ContainerMarker = `<div class="container">`

// Document describes the head of a standalone page.
type Document struct {
	Title       string
	Description string
	Canonical   string
	CSS         string
	Robots      string
}

// Wrap turns a body fragment into a full HTML document. Bodies that already
// contain an <html> element only receive the CSS block.
func (d Document) Wrap(body string) string {
	doc := body
	if !htmlfrag.HasTag(body, "html") {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		b.WriteString("<meta charset=\"utf-8\">\n")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		b.WriteString("<title>" + html.EscapeString(d.Title) + "</title>\n")
		if d.Description != "" {
			b.WriteString("<meta name=\"description\" content=\"" + html.EscapeString(d.Description) + "\">\n")
		}
		if d.Robots != "" {
			b.WriteString("<meta name=\"robots\" content=\"" + html.EscapeString(d.Robots) + "\">\n")
		}
		if d.Canonical != "" {
			b.WriteString("<link rel=\"canonical\" href=\"" + html.EscapeString(d.Canonical) + "\">\n")
		}
		b.WriteString("</head>\n<body>\n")
		b.WriteString(body)
		b.WriteString("\n</body>\n</html>\n")
		doc = b.String()
	}
	if strings.TrimSpace(d.CSS) != "" {
		doc, _ = htmlfrag.InsertBeforeCloseTag(doc, "head", "<style>"+d.CSS+"</style>\n")
	}
	return doc
}

// Decoration lists the auxiliary markup injected into a rendered document.
type Decoration struct {
	SchemaMarkup string
	Breadcrumb   string
}

// Decorate injects the breadcrumb after the first container div of the
// template, the shared header and footer when the project enables them, and
// finally JSON-LD so it sits right after <body>, ahead of the header. Missing
// anchors leave the document unchanged.
func Decorate(doc string, deco Decoration, rc Context) string {
	if deco.Breadcrumb != "" {
		doc, _ = htmlfrag.InsertAfterMatch(doc, ContainerMarker, deco.Breadcrumb)
	}
	if rc.SharedLayout {
		if rc.HeaderHTML != "" {
			doc, _ = htmlfrag.InsertAfterOpenTag(doc, "body", rc.HeaderHTML)
		}
		if rc.FooterHTML != "" {
			doc, _ = htmlfrag.InsertBeforeLastCloseTag(doc, "body", rc.FooterHTML)
		}
	}
	if script := jsonld.Script(deco.SchemaMarkup); script != "" {
		doc, _ = htmlfrag.InsertAfterOpenTag(doc, "body", script)
	}
	return doc
}

// Crumb is one breadcrumb entry. An empty Href renders as the current page.
type Crumb struct {
	Label string
	Href  string
}

// Breadcrumb renders Home > [category] > title.
func Breadcrumb(title, category string) string {
	crumbs := []Crumb{{Label: "Home", Href: "/"}}
	if category = strings.TrimSpace(category); category != "" {
		crumbs = append(crumbs, Crumb{Label: category})
	}
	crumbs = append(crumbs, Crumb{Label: title})
	return BreadcrumbNav(crumbs)
}

// BreadcrumbNav renders crumbs as an ordered list inside a nav element.
func BreadcrumbNav(crumbs []Crumb) string {
	var b strings.Builder
	b.WriteString(`<nav class="breadcrumb" aria-label="Breadcrumb"><ol>`)
	for i, crumb := range crumbs {
		label := html.EscapeString(crumb.Label)
		switch {
		case i == len(crumbs)-1:
			b.WriteString(`<li aria-current="page">` + label + `</li>`)
		case crumb.Href != "":
			b.WriteString(`<li><a href="` + html.EscapeString(crumb.Href) + `">` + label + `</a></li>`)
		default:
			b.WriteString(`<li>` + label + `</li>`)
		}
	}
	b.WriteString(`</ol></nav>`)
	return b.String()
}
