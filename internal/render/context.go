package render

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/urlformat"
)

// Context carries every project-wide setting a render needs. It is built once
// per operation and passed explicitly to each call.
type Context struct {
	ProjectID    uuid.UUID
	ProjectSlug  string
	Domain       string
	URLFormat    domain.URLFormat
	SiteName     string
	SharedLayout bool
	HeaderHTML   string
	FooterHTML   string
	Status       domain.PageStatus
	Now          func() time.Time
	Markdown     *markdown.Converter
}

// ContextOption customizes a Context.
type ContextOption func(*Context)

// WithStatus sets the status assigned to rendered pages.
func WithStatus(status domain.PageStatus) ContextOption {
	return func(c *Context) {
		if status != "" {
			c.Status = status
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ContextOption {
	return func(c *Context) {
		if now != nil {
			c.Now = now
		}
	}
}

// WithMarkdown overrides the markdown converter.
func WithMarkdown(converter *markdown.Converter) ContextOption {
	return func(c *Context) {
		if converter != nil {
			c.Markdown = converter
		}
	}
}

// NewContext builds the render context for project.
func NewContext(project domain.Project, opts ...ContextOption) Context {
	format := project.Export.URLFormat
	if !urlformat.Valid(format) {
		format = domain.URLPrettySlash
	}
	ctx := Context{
		ProjectID:    project.ID,
		ProjectSlug:  strings.TrimSpace(project.Slug),
		Domain:       urlformat.ProjectDomain(project),
		URLFormat:    format,
		SiteName:     firstNonEmpty(project.Settings.SiteName, project.Name),
		SharedLayout: project.Settings.SharedLayout,
		HeaderHTML:   project.Settings.HeaderHTML,
		FooterHTML:   project.Settings.FooterHTML,
		Status:       domain.StatusDraft,
		Now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&ctx)
		}
	}
	if ctx.Markdown == nil {
		ctx.Markdown = markdown.NewConverter(markdown.Options{})
	}
	return ctx
}

// AbsoluteURL joins the context domain with path.
func (c Context) AbsoluteURL(path string) string {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(c.Domain, "/") + path
}

// Timestamp returns the current time in UTC from the context clock.
func (c Context) Timestamp() time.Time {
	if c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now().UTC()
}

// ConvertMarkdown renders source with the context converter.
func (c Context) ConvertMarkdown(source string) (string, error) {
	if c.Markdown == nil {
		return markdown.ToHTML(source)
	}
	return c.Markdown.Convert(source)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
