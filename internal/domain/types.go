package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Row is a single flat record parsed from a data source. Values are strings,
// numbers or nil.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}

// String returns the stringified value stored under key, or "" when absent.
func (r Row) String(key string) string {
	if r == nil {
		return ""
	}
	return Stringify(r[key])
}

// Table is an ordered collection of rows that share a column set.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len reports the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the column was declared by any merged source.
func (t Table) HasColumn(name string) bool {
	for _, column := range t.Columns {
		if column == name {
			return true
		}
	}
	return false
}

// MergeTables concatenates rows from every table in order. Columns are the
// union of all tables in first-seen order; rows are not joined.
func MergeTables(tables ...Table) Table {
	merged := Table{}
	seen := map[string]struct{}{}
	for _, table := range tables {
		for _, column := range table.Columns {
			if _, ok := seen[column]; ok {
				continue
			}
			seen[column] = struct{}{}
			merged.Columns = append(merged.Columns, column)
		}
		merged.Rows = append(merged.Rows, table.Rows...)
	}
	return merged
}

// Unit is one resolved variable record. Exactly one page is produced per unit.
type Unit struct {
	Values  Row
	Columns []string
}

// Value returns the stringified value for key.
func (u Unit) Value(key string) string {
	return u.Values.String(key)
}

// OrderedColumns returns the declared columns followed by any extra keys in
// lexical order, so iteration over a unit is deterministic.
func (u Unit) OrderedColumns() []string {
	out := make([]string, 0, len(u.Values))
	seen := make(map[string]struct{}, len(u.Values))
	for _, column := range u.Columns {
		if _, ok := u.Values[column]; !ok {
			continue
		}
		if _, dup := seen[column]; dup {
			continue
		}
		seen[column] = struct{}{}
		out = append(out, column)
	}
	var extra []string
	for key := range u.Values {
		if _, ok := seen[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Stringify renders a scalar the way it is substituted into templates.
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case bool:
		return strconv.FormatBool(typed)
	case []byte:
		return string(typed)
	default:
		if s, ok := value.(interface{ String() string }); ok {
			return s.String()
		}
		return ""
	}
}

// GenerationMode selects how rows are expanded into units.
type GenerationMode string

const (
	ModeNormal GenerationMode = "normal"
	ModeSplit  GenerationMode = "split"
	ModeCombo  GenerationMode = "combo"
)

// FilterOperator is the comparison applied by a filter rule.
type FilterOperator string

const (
	OperatorContains    FilterOperator = "contains"
	OperatorEquals      FilterOperator = "equals"
	OperatorNotContains FilterOperator = "not_contains"
)

// MatchScope selects which columns a filter rule is tested against.
type MatchScope string

const (
	ScopeAny      MatchScope = "any"
	ScopeAll      MatchScope = "all"
	ScopeSpecific MatchScope = "specific"
)

// FilterRule drops units that do not match. Value is a comma separated
// OR-list.
type FilterRule struct {
	Variable   string         `json:"variable" yaml:"variable"`
	Operator   FilterOperator `json:"operator" yaml:"operator"`
	Value      string         `json:"value" yaml:"value"`
	MatchScope MatchScope     `json:"matchScope" yaml:"matchScope"`
}

// ContentFormat describes how a template body is authored.
type ContentFormat string

const (
	ContentHTML     ContentFormat = "html"
	ContentMarkdown ContentFormat = "markdown"
)

// Template is the reusable page layout fused with row data.
type Template struct {
	bun.BaseModel `bun:"table:templates,alias:tpl"`

	ID                     uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	ProjectID              uuid.UUID      `bun:"project_id,type:uuid" json:"project_id"`
	Name                   string         `bun:"name,notnull" json:"name"`
	HTMLContent            string         `bun:"html_content" json:"html_content"`
	CSSContent             string         `bun:"css_content" json:"css_content,omitempty"`
	ContentFormat          ContentFormat  `bun:"content_format" json:"content_format,omitempty"`
	URLPattern             string         `bun:"url_pattern" json:"url_pattern"`
	MetaTitlePattern       string         `bun:"meta_title_pattern" json:"meta_title_pattern"`
	MetaDescriptionPattern string         `bun:"meta_description_pattern" json:"meta_description_pattern"`
	SchemaType             string         `bun:"schema_type" json:"schema_type"`
	GenerationMode         GenerationMode `bun:"generation_mode,notnull" json:"generation_mode"`
	SplitColumn            string         `bun:"split_column" json:"split_column,omitempty"`
	ComboColumns           []string       `bun:"combo_columns,type:jsonb" json:"combo_columns,omitempty"`
	FilterRules            []FilterRule   `bun:"filter_rules,type:jsonb" json:"filter_rules,omitempty"`
	Version                int            `bun:"version,notnull,default:1" json:"version"`
	CreatedAt              time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt              time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Mode returns the generation mode, defaulting to normal.
func (t *Template) Mode() GenerationMode {
	if t == nil || strings.TrimSpace(string(t.GenerationMode)) == "" {
		return ModeNormal
	}
	return t.GenerationMode
}

// PageStatus is the publication state of a page.
type PageStatus string

const (
	StatusDraft     PageStatus = "draft"
	StatusPublished PageStatus = "published"
	StatusArchived  PageStatus = "archived"
)

// Data keys used to tag generated pages.
const (
	DataGeneratorKey  = "__generator"
	GeneratorLocalSEO = "local_seo"
)

// Page is a generated output document.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:pg"`

	ID              uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ProjectID       uuid.UUID  `bun:"project_id,notnull,type:uuid" json:"project_id"`
	TemplateID      *uuid.UUID `bun:"template_id,type:uuid" json:"template_id,omitempty"`
	Title           string     `bun:"title,notnull" json:"title"`
	Slug            string     `bun:"slug,notnull" json:"slug"`
	URLPath         string     `bun:"url_path" json:"url_path"`
	Status          PageStatus `bun:"status,notnull" json:"status"`
	Data            Row        `bun:"data,type:jsonb" json:"data"`
	MetaTitle       string     `bun:"meta_title" json:"meta_title"`
	MetaDescription string     `bun:"meta_description" json:"meta_description"`
	GeneratedHTML   string     `bun:"generated_html" json:"generated_html"`
	SchemaMarkup    string     `bun:"schema_markup" json:"schema_markup"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// IsLocalSEO reports whether the page was produced by the local-SEO generator.
func (p *Page) IsLocalSEO() bool {
	return p != nil && p.Data.String(DataGeneratorKey) == GeneratorLocalSEO
}

// Category returns the page category stored in its data, if any.
func (p *Page) Category() string {
	if p == nil {
		return ""
	}
	if value := strings.TrimSpace(p.Data.String("category")); value != "" {
		return value
	}
	return strings.TrimSpace(p.Data.String("Category"))
}

// URLFormat is the trailing form applied to page URLs and export paths.
type URLFormat string

const (
	URLPrettySlash   URLFormat = "pretty_slash"
	URLPrettyNoSlash URLFormat = "pretty_no_slash"
	URLHTML          URLFormat = "html"
	URLDirectory     URLFormat = "directory"
)

// MaxSitemapURLs is the sitemap protocol ceiling.
const MaxSitemapURLs = 50000

// ExportConfig holds project-level export settings.
type ExportConfig struct {
	URLFormat       URLFormat `json:"url_format" yaml:"url_format"`
	SplitAssets     bool      `json:"split_assets" yaml:"split_assets"`
	SitemapSeparate bool      `json:"sitemap_separate" yaml:"sitemap_separate"`
	SitemapMaxURLs  int       `json:"sitemap_max_urls" yaml:"sitemap_max_urls"`
	CustomDomain    string    `json:"custom_domain,omitempty" yaml:"custom_domain"`
}

// SiteSettings are project-wide presentation defaults.
type SiteSettings struct {
	SiteName         string `json:"site_name,omitempty" yaml:"site_name"`
	SiteDescription  string `json:"site_description,omitempty" yaml:"site_description"`
	SharedLayout     bool   `json:"shared_layout" yaml:"shared_layout"`
	HeaderHTML       string `json:"header_html,omitempty" yaml:"header_html"`
	FooterHTML       string `json:"footer_html,omitempty" yaml:"footer_html"`
	FontFamily       string `json:"font_family,omitempty" yaml:"font_family"`
	PrimaryColor     string `json:"primary_color,omitempty" yaml:"primary_color"`
	Theme            string `json:"theme,omitempty" yaml:"theme"`
	FaviconURL       string `json:"favicon_url,omitempty" yaml:"favicon_url"`
	OGImageURL       string `json:"og_image_url,omitempty" yaml:"og_image_url"`
	AnalyticsSnippet string `json:"analytics_snippet,omitempty" yaml:"analytics_snippet"`
	RobotsTxt        string `json:"robots_txt,omitempty" yaml:"robots_txt"`
}

// Project groups templates, data sources and pages.
type Project struct {
	ID       uuid.UUID    `json:"id"`
	Name     string       `json:"name"`
	Slug     string       `json:"slug"`
	Settings SiteSettings `json:"settings"`
	Export   ExportConfig `json:"export"`
}
