// Package sitegen turns tabular data and page templates into static sites.
package sitegen

import (
	"github.com/goliatone/go-sitegen/internal/commands/exportcmd"
	"github.com/goliatone/go-sitegen/internal/commands/generatecmd"
	"github.com/goliatone/go-sitegen/internal/datasource"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/export"
	"github.com/goliatone/go-sitegen/internal/generation"
	"github.com/goliatone/go-sitegen/internal/localseo"
	"github.com/goliatone/go-sitegen/internal/templates"
)

type (
	Project       = domain.Project
	Template      = domain.Template
	Page          = domain.Page
	FilterRule    = domain.FilterRule
	SiteSettings  = domain.SiteSettings
	ProjectExport = domain.ExportConfig
	Source        = datasource.Source
)

// GenerationService exports the page generation service.
type GenerationService = *generation.Service

// TemplateRepository exports the template store contract.
type TemplateRepository = templates.Repository

// Exporter exports the static site exporter.
type Exporter = *export.Exporter

// GenerateRequest exports the input of a generation run.
type GenerateRequest = generation.Request

// GenerateResult exports the outcome of a generation run.
type GenerateResult = generation.Result

// LocalSEORequest exports the input of a local-SEO run.
type LocalSEORequest = generation.LocalSEORequest

// LocalSEOConfig exports the local-SEO matrix configuration.
type LocalSEOConfig = localseo.Config

// Command messages.
type (
	GeneratePagesCommand    = generatecmd.GeneratePagesCommand
	GenerateLocalSEOCommand = generatecmd.GenerateLocalSEOCommand
	ClearLocalSEOCommand    = generatecmd.ClearLocalSEOCommand
	ExportSiteCommand       = exportcmd.ExportSiteCommand
)

// Module represents the top level sitegen runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Generation returns the page generation service.
func (m *Module) Generation() GenerationService {
	return m.container.GenerationService()
}

// Templates returns the template store.
func (m *Module) Templates() TemplateRepository {
	return m.container.TemplateRepository()
}

// Exporter returns the static exporter.
func (m *Module) Exporter() Exporter {
	return m.container.Exporter()
}

// GeneratePages returns the generate/regenerate command handler.
func (m *Module) GeneratePages() *generatecmd.GeneratePagesHandler {
	return m.container.GeneratePagesHandler()
}

// GenerateLocalSEO returns the local-SEO command handler.
func (m *Module) GenerateLocalSEO() *generatecmd.GenerateLocalSEOHandler {
	return m.container.GenerateLocalSEOHandler()
}

// ClearLocalSEO returns the local-SEO removal command handler.
func (m *Module) ClearLocalSEO() *generatecmd.ClearLocalSEOHandler {
	return m.container.ClearLocalSEOHandler()
}

// ExportSite returns the export command handler.
func (m *Module) ExportSite() *exportcmd.ExportSiteHandler {
	return m.container.ExportSiteHandler()
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	if m == nil {
		return nil
	}
	return m.container.Close()
}
