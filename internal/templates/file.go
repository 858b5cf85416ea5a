package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/markdown"
)

// fileMeta is the frontmatter block of a template file.
type fileMeta struct {
	Name                   string              `yaml:"name"`
	URLPattern             string              `yaml:"url_pattern"`
	MetaTitlePattern       string              `yaml:"meta_title_pattern"`
	MetaDescriptionPattern string              `yaml:"meta_description_pattern"`
	SchemaType             string              `yaml:"schema_type"`
	GenerationMode         string              `yaml:"generation_mode"`
	SplitColumn            string              `yaml:"split_column"`
	ComboColumns           []string            `yaml:"combo_columns"`
	FilterRules            []domain.FilterRule `yaml:"filter_rules"`
	ContentFormat          string              `yaml:"content_format"`
	CSS                    string              `yaml:"css"`
}

// LoadFile reads a template file from disk.
func LoadFile(path string) (*domain.Template, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("templates: read %s: %w", path, err)
	}
	return ParseFile(path, source)
}

// ParseFile builds a template from a frontmatter document. The body becomes
// the template content. Files ending in .md default to markdown content and
// the name defaults to the file base name.
func ParseFile(path string, source []byte) (*domain.Template, error) {
	var meta fileMeta
	body, err := markdown.ParseFrontMatter(source, &meta)
	if err != nil {
		return nil, fmt.Errorf("templates: %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	tpl := &domain.Template{
		Name:                   strings.TrimSpace(meta.Name),
		HTMLContent:            strings.TrimSpace(string(body)),
		CSSContent:             meta.CSS,
		URLPattern:             strings.TrimSpace(meta.URLPattern),
		MetaTitlePattern:       meta.MetaTitlePattern,
		MetaDescriptionPattern: meta.MetaDescriptionPattern,
		SchemaType:             strings.TrimSpace(meta.SchemaType),
		GenerationMode:         domain.GenerationMode(strings.TrimSpace(meta.GenerationMode)),
		SplitColumn:            strings.TrimSpace(meta.SplitColumn),
		ComboColumns:           meta.ComboColumns,
		FilterRules:            meta.FilterRules,
		ContentFormat:          domain.ContentFormat(strings.TrimSpace(meta.ContentFormat)),
		Version:                1,
	}
	if tpl.Name == "" {
		tpl.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if tpl.GenerationMode == "" {
		tpl.GenerationMode = domain.ModeNormal
	}
	if tpl.ContentFormat == "" {
		tpl.ContentFormat = domain.ContentHTML
		if ext == ".md" || ext == ".markdown" {
			tpl.ContentFormat = domain.ContentMarkdown
		}
	}
	if err := Validate(tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}
