package exportcmd

import (
	"context"
	"io"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/export"
)

const exportSiteMessageType = "sitegen.site.export"

// Kind selects what an export produces.
type Kind string

const (
	// KindSite writes the full site archive.
	KindSite Kind = "site"
	// KindSitemaps writes only the sitemap files as an archive.
	KindSitemaps Kind = "sitemaps"
	// KindData writes the raw page records as JSON.
	KindData Kind = "data"
)

// PageSource lists the pages of a project.
type PageSource interface {
	ListPages(ctx context.Context, projectID uuid.UUID) ([]*domain.Page, error)
}

// Result describes a finished export.
type Result struct {
	Kind   Kind
	Name   string
	Pages  int
	Bundle *export.Bundle
}

// ResultCallback receives the export outcome.
type ResultCallback func(Result)

// ExportSiteCommand exports a project's pages to Output.
type ExportSiteCommand struct {
	Project        domain.Project `json:"project"`
	Kind           Kind           `json:"kind,omitempty"`
	Output         io.Writer      `json:"-"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (ExportSiteCommand) Type() string { return exportSiteMessageType }

// Validate checks the target project, output and export settings.
func (m ExportSiteCommand) Validate() error {
	errs := validation.Errors{}
	if m.Project.ID == uuid.Nil {
		errs["project"] = validation.NewError("sitegen.export.project_required", "project id is required")
	}
	if m.Output == nil {
		errs["output"] = validation.NewError("sitegen.export.output_required", "an output writer is required")
	}
	if err := validation.Validate(m.Kind, validation.In(KindSite, KindSitemaps, KindData)); err != nil {
		errs["kind"] = err
	}
	if err := export.ValidateConfig(m.Project.Export); err != nil {
		errs["export"] = err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (m ExportSiteCommand) kind() Kind {
	if m.Kind == "" {
		return KindSite
	}
	return m.Kind
}
