// Package manifest reads the YAML project manifest consumed by the CLI.
package manifest

import (
	"fmt"
	"os"

	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/localseo"
	"github.com/goliatone/go-sitegen/internal/storage"
)

const textCodeInvalidManifest = "MANIFEST_INVALID"

// Manifest declares a project, its templates and data sources, and the
// generation runs to perform.
type Manifest struct {
	Project   ProjectSpec    `yaml:"project"`
	Storage   storage.Config `yaml:"storage"`
	Templates []TemplateSpec `yaml:"templates"`
	Sources   []SourceSpec   `yaml:"sources"`
	Generate  []RunSpec      `yaml:"generate"`
	LocalSEO  *LocalSEOSpec  `yaml:"local_seo"`
}

type ProjectSpec struct {
	Name     string              `yaml:"name"`
	Slug     string              `yaml:"slug"`
	Settings domain.SiteSettings `yaml:"settings"`
	Export   domain.ExportConfig `yaml:"export"`
}

// TemplateSpec points at a template file or carries the template inline.
type TemplateSpec struct {
	Name                   string              `yaml:"name"`
	File                   string              `yaml:"file"`
	HTML                   string              `yaml:"html"`
	CSS                    string              `yaml:"css"`
	ContentFormat          string              `yaml:"content_format"`
	URLPattern             string              `yaml:"url_pattern"`
	MetaTitlePattern       string              `yaml:"meta_title_pattern"`
	MetaDescriptionPattern string              `yaml:"meta_description_pattern"`
	SchemaType             string              `yaml:"schema_type"`
	GenerationMode         string              `yaml:"generation_mode"`
	SplitColumn            string              `yaml:"split_column"`
	ComboColumns           []string            `yaml:"combo_columns"`
	FilterRules            []domain.FilterRule `yaml:"filter_rules"`
}

// SourceSpec is a named data source. Upload sources read Path relative to
// the manifest.
type SourceSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
}

// RunSpec generates pages from one template over the listed sources.
type RunSpec struct {
	Template string   `yaml:"template"`
	Sources  []string `yaml:"sources"`
	Status   string   `yaml:"status"`
}

// LocalSEOSpec configures the term by location matrix. Terms use the
// "singular | plural" line form.
type LocalSEOSpec struct {
	Terms                  []string            `yaml:"terms"`
	Locations              []string            `yaml:"locations"`
	Content                string              `yaml:"content"`
	ContentFile            string              `yaml:"content_file"`
	ContentFormat          string              `yaml:"content_format"`
	SlugPattern            string              `yaml:"slug_pattern"`
	TitlePattern           string              `yaml:"title_pattern"`
	MetaDescriptionPattern string              `yaml:"meta_description_pattern"`
	Archive                bool                `yaml:"archive"`
	ArchiveNoIndex         bool                `yaml:"archive_no_index"`
	ArchiveTitle           string              `yaml:"archive_title"`
	ArchiveSlug            string              `yaml:"archive_slug"`
	TOC                    localseo.TOCOptions `yaml:"toc"`
	StrictSpintax          bool                `yaml:"strict_spintax"`
	Status                 string              `yaml:"status"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(source)
}

// Parse validates source against the manifest schema and decodes it.
func Parse(source []byte) (*Manifest, error) {
	var doc any
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return nil, invalid(fmt.Errorf("manifest: decode: %w", err))
	}
	if doc == nil {
		return nil, invalid(fmt.Errorf("%w: document is empty", ErrSchemaValidation))
	}
	if err := ValidateDocument(doc); err != nil {
		return nil, invalid(err)
	}

	var m Manifest
	if err := yaml.Unmarshal(source, &m); err != nil {
		return nil, invalid(fmt.Errorf("manifest: decode: %w", err))
	}
	if err := m.checkReferences(); err != nil {
		return nil, invalid(err)
	}
	return &m, nil
}

func (m *Manifest) checkReferences() error {
	templates := map[string]bool{}
	for _, tpl := range m.Templates {
		if templates[tpl.Name] {
			return fmt.Errorf("manifest: duplicate template %q", tpl.Name)
		}
		templates[tpl.Name] = true
	}
	sources := map[string]bool{}
	for _, src := range m.Sources {
		if sources[src.Name] {
			return fmt.Errorf("manifest: duplicate source %q", src.Name)
		}
		sources[src.Name] = true
	}
	for i, run := range m.Generate {
		if !templates[run.Template] {
			return fmt.Errorf("manifest: generate[%d]: unknown template %q", i, run.Template)
		}
		for _, name := range run.Sources {
			if !sources[name] {
				return fmt.Errorf("manifest: generate[%d]: unknown source %q", i, name)
			}
		}
	}
	return nil
}

func invalid(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid manifest").WithTextCode(textCodeInvalidManifest)
}
