// Package localseo generates the search term by location page matrix and its
// archive page.
package localseo

import (
	"errors"
	"fmt"
	"html"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/jsonld"
	"github.com/goliatone/go-sitegen/internal/placeholder"
	"github.com/goliatone/go-sitegen/internal/render"
	"github.com/goliatone/go-sitegen/internal/slugs"
	"github.com/goliatone/go-sitegen/internal/spintax"
	"github.com/goliatone/go-sitegen/internal/urlformat"
)

const (
	DefaultSlugPattern  = "[search_term]-[location]"
	DefaultTitlePattern = "[search_term] in [location]"
	DefaultArchiveTitle = "Service Areas"
	DefaultArchiveSlug  = "service-areas"

	// DataArchiveKey marks the archive page in page data.
	DataArchiveKey = "__archive"

	textCodeInvalidInput = "LOCAL_SEO_INVALID_INPUT"
)

var (
	ErrNoTerms     = errors.New("localseo: at least one search term is required")
	ErrNoLocations = errors.New("localseo: at least one location is required")
	ErrNoContent   = errors.New("localseo: content is required")
)

// Config describes one local-SEO run.
type Config struct {
	Terms                  []Term
	Locations              []string
	SlugPattern            string
	TitlePattern           string
	MetaDescriptionPattern string
	Content                string
	ContentFormat          domain.ContentFormat
	Archive                bool
	ArchiveNoIndex         bool
	ArchiveTitle           string
	ArchiveSlug            string
	TOC                    TOCOptions
	// StrictSpintax rejects content with unbalanced braces or empty options.
	StrictSpintax bool
}

// Validate rejects empty inputs before any page is built.
func (c Config) Validate() error {
	var err error
	switch {
	case len(c.Terms) == 0:
		err = ErrNoTerms
	case len(c.Locations) == 0:
		err = ErrNoLocations
	case strings.TrimSpace(c.Content) == "":
		err = ErrNoContent
	}
	if err == nil && c.StrictSpintax {
		sample := Term{Singular: "x", Plural: "x"}
		err = spintax.Validate(placeholder.Substitute(replaceBrackets(c.Content, sample, "x", nil), map[string]any{
			VarTerm: "x", VarTerms: "x", VarLocation: "x",
		}))
	}
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid local SEO input").
			WithTextCode(textCodeInvalidInput)
	}
	return nil
}

// Count is the number of pages Generate produces for c.
func (c Config) Count() int {
	total := len(c.Terms) * len(c.Locations)
	if c.Archive {
		total++
	}
	return total
}

func (c Config) slugPattern() string {
	if strings.TrimSpace(c.SlugPattern) == "" {
		return DefaultSlugPattern
	}
	return c.SlugPattern
}

func (c Config) titlePattern() string {
	if strings.TrimSpace(c.TitlePattern) == "" {
		return DefaultTitlePattern
	}
	return c.TitlePattern
}

func (c Config) archiveTitle() string {
	if strings.TrimSpace(c.ArchiveTitle) == "" {
		return DefaultArchiveTitle
	}
	return strings.TrimSpace(c.ArchiveTitle)
}

func (c Config) archiveSlug() string {
	return slugs.OrDefault(c.ArchiveSlug, DefaultArchiveSlug)
}

// Generator renders local-SEO pages.
type Generator struct {
	expander *spintax.Expander
}

// Option configures a Generator.
type Option func(*Generator)

// WithExpander overrides the spintax expander.
func WithExpander(expander *spintax.Expander) Option {
	return func(g *Generator) {
		if expander != nil {
			g.expander = expander
		}
	}
}

// NewGenerator builds a generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{expander: spintax.NewExpander(nil)}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Generate returns every detail page in term-major order followed by the
// archive page when enabled.
func (g *Generator) Generate(cfg Config, rc render.Context) ([]*domain.Page, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pages := make([]*domain.Page, 0, cfg.Count())
	for _, term := range cfg.Terms {
		for _, location := range cfg.Locations {
			page, err := g.detailPage(cfg, rc, term, location)
			if err != nil {
				return nil, err
			}
			pages = append(pages, page)
		}
	}
	if cfg.Archive {
		pages = append(pages, archivePage(cfg, rc, pages))
	}
	return pages, nil
}

func (g *Generator) detailPage(cfg Config, rc render.Context, term Term, location string) (*domain.Page, error) {
	values := map[string]any{
		VarTerm:     term.Singular,
		VarTerms:    term.Plural,
		VarLocation: location,
	}
	resolve := func(text string) string {
		return placeholder.Substitute(replaceBrackets(text, term, location, nil), values)
	}

	slug := slugs.Slugify(replaceBrackets(cfg.slugPattern(), term, location, slugs.Slugify))
	urlPath := urlformat.FormatURL("/"+slug, rc.URLFormat)
	title := strings.TrimSpace(resolve(cfg.titlePattern()))
	description := placeholder.StripUnresolved(resolve(cfg.MetaDescriptionPattern))

	content := g.expander.Spin(resolve(cfg.Content))
	if cfg.ContentFormat == domain.ContentMarkdown {
		converted, err := rc.ConvertMarkdown(content)
		if err != nil {
			return nil, err
		}
		content = converted
	}
	content = ApplyTOC(content, cfg.TOC)

	schema, err := jsonld.Marshal(jsonld.Input{
		Type:        "Service",
		Name:        title,
		Description: description,
		URL:         rc.AbsoluteURL(urlPath),
		Values:      domain.Row(values),
	})
	if err != nil {
		return nil, fmt.Errorf("localseo: schema markup: %w", err)
	}

	crumbs := []render.Crumb{{Label: "Home", Href: "/"}}
	if cfg.Archive {
		crumbs = append(crumbs, render.Crumb{
			Label: cfg.archiveTitle(),
			Href:  urlformat.FormatURL("/"+cfg.archiveSlug(), rc.URLFormat),
		})
	}
	crumbs = append(crumbs, render.Crumb{Label: title})

	doc := render.Document{
		Title:       title,
		Description: description,
		Canonical:   rc.AbsoluteURL(urlPath),
	}.Wrap(scaffold(rc, render.BreadcrumbNav(crumbs), "<h1>"+html.EscapeString(title)+"</h1>\n"+content))
	doc = render.Decorate(doc, render.Decoration{SchemaMarkup: schema}, rc)

	data := domain.Row{
		VarTerm:                 term.Singular,
		VarTerms:                term.Plural,
		VarLocation:             location,
		domain.DataGeneratorKey: domain.GeneratorLocalSEO,
	}
	return newPage(rc, title, slug, urlPath, description, doc, schema, data), nil
}

func archivePage(cfg Config, rc render.Context, details []*domain.Page) *domain.Page {
	title := cfg.archiveTitle()
	slug := cfg.archiveSlug()
	urlPath := urlformat.FormatURL("/"+slug, rc.URLFormat)

	var body strings.Builder
	body.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")
	perTerm := len(cfg.Locations)
	for i, term := range cfg.Terms {
		body.WriteString(`<section class="term">` + "\n")
		body.WriteString("<h2>" + html.EscapeString(term.Plural) + "</h2>\n<ul>\n")
		for j, location := range cfg.Locations {
			page := details[i*perTerm+j]
			body.WriteString(`<li><a href="` + html.EscapeString(page.URLPath) + `">` +
				html.EscapeString(term.Singular+" in "+location) + "</a></li>\n")
		}
		body.WriteString("</ul>\n</section>\n")
	}

	description := fmt.Sprintf("%s across %d locations.", title, len(cfg.Locations))
	head := render.Document{
		Title:       title,
		Description: description,
		Canonical:   rc.AbsoluteURL(urlPath),
	}
	if cfg.ArchiveNoIndex {
		head.Robots = "noindex, follow"
	}
	crumbs := render.BreadcrumbNav([]render.Crumb{{Label: "Home", Href: "/"}, {Label: title}})
	doc := head.Wrap(scaffold(rc, crumbs, body.String()))

	data := domain.Row{
		domain.DataGeneratorKey: domain.GeneratorLocalSEO,
		DataArchiveKey:          true,
	}
	return newPage(rc, title, slug, urlPath, description, doc, "", data)
}

func scaffold(rc render.Context, breadcrumb, content string) string {
	site := rc.SiteName
	if site == "" {
		site = "Home"
	}
	var b strings.Builder
	b.WriteString(`<nav class="site-nav"><a href="/">` + html.EscapeString(site) + "</a></nav>\n")
	b.WriteString("<main>\n" + render.ContainerMarker + breadcrumb + "\n")
	b.WriteString(content)
	b.WriteString("\n</div>\n</main>\n")
	b.WriteString(`<footer class="site-footer"><p>` + html.EscapeString(site) + "</p></footer>")
	return b.String()
}

func newPage(rc render.Context, title, slug, urlPath, description, doc, schema string, data domain.Row) *domain.Page {
	stamp := rc.Timestamp()
	return &domain.Page{
		ID:              uuid.New(),
		ProjectID:       rc.ProjectID,
		Title:           title,
		Slug:            slug,
		URLPath:         urlPath,
		Status:          rc.Status,
		Data:            data,
		MetaTitle:       title,
		MetaDescription: description,
		GeneratedHTML:   doc,
		SchemaMarkup:    schema,
		CreatedAt:       stamp,
		UpdatedAt:       stamp,
	}
}
