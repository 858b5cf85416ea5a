package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/datasource"
	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/internal/localseo"
	"github.com/goliatone/go-sitegen/internal/slugs"
	"github.com/goliatone/go-sitegen/internal/templates"
)

// Plan is a manifest resolved against the filesystem: templates parsed,
// uploads read and ids assigned.
type Plan struct {
	Project   domain.Project
	Templates []*domain.Template
	Runs      []Run
	LocalSEO  *LocalSEORun
}

// Run is one resolved generation request.
type Run struct {
	Template *domain.Template
	Sources  []datasource.Source
	Status   domain.PageStatus
}

// LocalSEORun is the resolved local-SEO matrix.
type LocalSEORun struct {
	Config localseo.Config
	Status domain.PageStatus
}

// Resolve loads every file the manifest references, relative to baseDir,
// and assigns deterministic ids derived from the project slug.
func (m *Manifest) Resolve(baseDir string) (*Plan, error) {
	project := domain.Project{
		Name:     strings.TrimSpace(m.Project.Name),
		Slug:     slugs.OrDefault(m.Project.Slug, slugs.Slugify(m.Project.Name)),
		Settings: m.Project.Settings,
		Export:   m.Project.Export,
	}
	project.ID = identity.ProjectUUID(project.Slug)
	if project.ID == uuid.Nil {
		return nil, invalid(fmt.Errorf("manifest: project slug is empty"))
	}
	plan := &Plan{Project: project}

	byName := map[string]*domain.Template{}
	for _, spec := range m.Templates {
		tpl, err := spec.build(baseDir)
		if err != nil {
			return nil, err
		}
		tpl.ID = identity.TemplateUUID(project.ID, spec.Name)
		tpl.ProjectID = project.ID
		plan.Templates = append(plan.Templates, tpl)
		byName[spec.Name] = tpl
	}

	sources := map[string]datasource.Source{}
	for _, spec := range m.Sources {
		source, err := spec.build(baseDir, project.ID)
		if err != nil {
			return nil, err
		}
		sources[spec.Name] = source
	}

	for _, spec := range m.Generate {
		run := Run{Template: byName[spec.Template], Status: domain.PageStatus(spec.Status)}
		for _, name := range spec.Sources {
			run.Sources = append(run.Sources, sources[name])
		}
		plan.Runs = append(plan.Runs, run)
	}

	if m.LocalSEO != nil {
		cfg, err := m.LocalSEO.build(baseDir)
		if err != nil {
			return nil, err
		}
		plan.LocalSEO = &LocalSEORun{Config: cfg, Status: domain.PageStatus(m.LocalSEO.Status)}
	}
	return plan, nil
}

func (s TemplateSpec) build(baseDir string) (*domain.Template, error) {
	if s.File != "" {
		tpl, err := templates.LoadFile(resolvePath(baseDir, s.File))
		if err != nil {
			return nil, err
		}
		tpl.Name = s.Name
		return tpl, nil
	}

	tpl := &domain.Template{
		Name:                   s.Name,
		HTMLContent:            strings.TrimSpace(s.HTML),
		CSSContent:             s.CSS,
		ContentFormat:          domain.ContentFormat(s.ContentFormat),
		URLPattern:             strings.TrimSpace(s.URLPattern),
		MetaTitlePattern:       s.MetaTitlePattern,
		MetaDescriptionPattern: s.MetaDescriptionPattern,
		SchemaType:             strings.TrimSpace(s.SchemaType),
		GenerationMode:         domain.GenerationMode(s.GenerationMode),
		SplitColumn:            strings.TrimSpace(s.SplitColumn),
		ComboColumns:           s.ComboColumns,
		FilterRules:            s.FilterRules,
		Version:                1,
	}
	if tpl.ContentFormat == "" {
		tpl.ContentFormat = domain.ContentHTML
	}
	if tpl.GenerationMode == "" {
		tpl.GenerationMode = domain.ModeNormal
	}
	if err := templates.Validate(tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s SourceSpec) build(baseDir string, projectID uuid.UUID) (datasource.Source, error) {
	source := datasource.Source{
		ID:   identity.SourceID(projectID, s.Name),
		Name: s.Name,
		Kind: datasource.Kind(s.Kind),
		URL:  strings.TrimSpace(s.URL),
	}
	if source.Kind == datasource.KindUpload {
		if strings.TrimSpace(s.Path) == "" {
			return source, invalid(fmt.Errorf("manifest: source %q: path is required for uploads", s.Name))
		}
		data, err := os.ReadFile(resolvePath(baseDir, s.Path))
		if err != nil {
			return source, fmt.Errorf("manifest: source %q: %w", s.Name, err)
		}
		source.Data = data
	}
	if err := source.Validate(); err != nil {
		return source, invalid(fmt.Errorf("manifest: source %q: %w", s.Name, err))
	}
	return source, nil
}

func (s LocalSEOSpec) build(baseDir string) (localseo.Config, error) {
	content := s.Content
	if s.ContentFile != "" {
		data, err := os.ReadFile(resolvePath(baseDir, s.ContentFile))
		if err != nil {
			return localseo.Config{}, fmt.Errorf("manifest: local_seo content: %w", err)
		}
		content = string(data)
	}
	format := domain.ContentFormat(s.ContentFormat)
	if format == "" {
		format = domain.ContentHTML
		if ext := strings.ToLower(filepath.Ext(s.ContentFile)); ext == ".md" || ext == ".markdown" {
			format = domain.ContentMarkdown
		}
	}

	cfg := localseo.Config{
		Terms:                  localseo.ParseTerms(strings.Join(s.Terms, "\n")),
		Locations:              localseo.ParseLocations(strings.Join(s.Locations, "\n")),
		SlugPattern:            s.SlugPattern,
		TitlePattern:           s.TitlePattern,
		MetaDescriptionPattern: s.MetaDescriptionPattern,
		Content:                content,
		ContentFormat:          format,
		Archive:                s.Archive,
		ArchiveNoIndex:         s.ArchiveNoIndex,
		ArchiveTitle:           s.ArchiveTitle,
		ArchiveSlug:            s.ArchiveSlug,
		TOC:                    s.TOC,
		StrictSpintax:          s.StrictSpintax,
	}
	if err := cfg.Validate(); err != nil {
		return cfg, invalid(err)
	}
	return cfg, nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
