// Package render turns generation units into page records.
package render

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/jsonld"
	"github.com/goliatone/go-sitegen/internal/placeholder"
	"github.com/goliatone/go-sitegen/internal/slugs"
	"github.com/goliatone/go-sitegen/internal/urlformat"
)

const (
	// DefaultTitle is used when a unit carries no usable text value.
	DefaultTitle = "Untitled"
	// DefaultURLPattern applies when a template leaves url_pattern empty.
	DefaultURLPattern = "/{{slug}}"
)

var titleColumns = []string{"title", "name", "Name", "Title"}

// Title picks the first non-empty title-like column, then the first
// non-empty string value in column order, then DefaultTitle.
func Title(unit domain.Unit) string {
	for _, column := range titleColumns {
		if value := strings.TrimSpace(unit.Value(column)); value != "" {
			return value
		}
	}
	for _, column := range unit.OrderedColumns() {
		if value, ok := unit.Values[column].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return DefaultTitle
}

// Slug prefers an explicit slug column and falls back to the slugified title.
func Slug(unit domain.Unit, title string) string {
	if explicit := slugs.Explicit(unit.Value(slugs.Column)); explicit != "" {
		return explicit
	}
	return slugs.OrDefault(title, slugs.Slugify(DefaultTitle))
}

// URLPath substitutes slugified unit values into pattern, then the computed
// slug, and normalizes the result for format.
func URLPath(pattern string, unit domain.Unit, slug string, format domain.URLFormat) string {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultURLPattern
	}
	values := make(map[string]any, len(unit.Values))
	for key, value := range unit.Values {
		if key == slugs.Column {
			continue
		}
		values[key] = value
	}
	path := placeholder.SubstituteFunc(pattern, values, func(value any) string {
		return slugs.Slugify(domain.Stringify(value))
	})
	path = placeholder.Substitute(path, map[string]any{slugs.Column: slug})
	return urlformat.FormatURL(path, format)
}

// Render produces one page for unit.
func Render(unit domain.Unit, tpl *domain.Template, rc Context) (*domain.Page, error) {
	if tpl == nil {
		return nil, fmt.Errorf("render: template is required")
	}

	title := Title(unit)
	slug := Slug(unit, title)
	urlPath := URLPath(tpl.URLPattern, unit, slug, rc.URLFormat)

	values := map[string]any(unit.Values)
	metaTitle := placeholder.SubstituteStrict(tpl.MetaTitlePattern, values)
	if strings.TrimSpace(metaTitle) == "" {
		metaTitle = title
	}
	metaDescription := placeholder.SubstituteStrict(tpl.MetaDescriptionPattern, values)

	schema, err := jsonld.Marshal(jsonld.Input{
		Type:        tpl.SchemaType,
		Name:        metaTitle,
		Description: metaDescription,
		URL:         rc.AbsoluteURL(urlPath),
		Values:      unit.Values,
	})
	if err != nil {
		return nil, fmt.Errorf("render: schema markup: %w", err)
	}

	body, err := renderBody(tpl, bodyValues(unit, title, slug, urlPath), rc)
	if err != nil {
		return nil, err
	}

	doc := Document{
		Title:       metaTitle,
		Description: metaDescription,
		Canonical:   rc.AbsoluteURL(urlPath),
		CSS:         tpl.CSSContent,
	}.Wrap(body)
	doc = Decorate(doc, Decoration{
		SchemaMarkup: schema,
		Breadcrumb:   Breadcrumb(title, unit.Value("category")),
	}, rc)

	now := rc.Timestamp()
	page := &domain.Page{
		ID:              uuid.New(),
		ProjectID:       rc.ProjectID,
		Title:           title,
		Slug:            slug,
		URLPath:         urlPath,
		Status:          rc.Status,
		Data:            unit.Values.Clone(),
		MetaTitle:       metaTitle,
		MetaDescription: metaDescription,
		GeneratedHTML:   doc,
		SchemaMarkup:    schema,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if tpl.ID != uuid.Nil {
		id := tpl.ID
		page.TemplateID = &id
	}
	return page, nil
}

// RenderAll renders every unit in order, stopping at the first failure.
func RenderAll(units []domain.Unit, tpl *domain.Template, rc Context) ([]*domain.Page, error) {
	out := make([]*domain.Page, 0, len(units))
	for i, unit := range units {
		page, err := Render(unit, tpl, rc)
		if err != nil {
			return out, fmt.Errorf("render unit %d: %w", i, err)
		}
		out = append(out, page)
	}
	return out, nil
}

// bodyValues exposes the computed title, slug and url_path to the template
// body when the unit does not define them itself.
func bodyValues(unit domain.Unit, title, slug, urlPath string) map[string]any {
	values := make(map[string]any, len(unit.Values)+3)
	for key, value := range unit.Values {
		values[key] = value
	}
	for key, value := range map[string]string{"title": title, slugs.Column: slug, "url_path": urlPath} {
		if _, ok := values[key]; !ok {
			values[key] = value
		}
	}
	return values
}

func renderBody(tpl *domain.Template, values map[string]any, rc Context) (string, error) {
	body := placeholder.Substitute(tpl.HTMLContent, values)
	if tpl.ContentFormat != domain.ContentMarkdown {
		return body, nil
	}
	converted, err := rc.ConvertMarkdown(body)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return converted, nil
}
