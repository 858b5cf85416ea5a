package generatecmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/datasource"
	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/generation"
	"github.com/goliatone/go-sitegen/internal/localseo"
	"github.com/goliatone/go-sitegen/internal/pages"
)

const (
	generatePagesMessageType    = "sitegen.pages.generate"
	generateLocalSEOMessageType = "sitegen.local_seo.generate"
	clearLocalSEOMessageType    = "sitegen.local_seo.clear"
)

// Service is the generation surface used by the handlers.
type Service interface {
	Generate(ctx context.Context, req generation.Request) (*generation.Result, error)
	Regenerate(ctx context.Context, req generation.Request) (*generation.Result, error)
	GenerateLocalSEO(ctx context.Context, req generation.LocalSEORequest) (*generation.Result, error)
	ClearLocalSEO(ctx context.Context, projectID uuid.UUID, progress pages.ProgressFunc) (int, error)
}

// ResultCallback receives the outcome of a generation command. It is invoked
// synchronously, also when the run failed part way.
type ResultCallback func(*generation.Result)

// GeneratePagesCommand generates pages from a stored template and its data
// sources.
type GeneratePagesCommand struct {
	Project    domain.Project      `json:"project"`
	TemplateID uuid.UUID           `json:"template_id"`
	Sources    []datasource.Source `json:"sources"`
	// Regenerate deletes the template's earlier pages first.
	Regenerate     bool               `json:"regenerate,omitempty"`
	Refresh        bool               `json:"refresh,omitempty"`
	Status         domain.PageStatus  `json:"status,omitempty"`
	Progress       pages.ProgressFunc `json:"-"`
	ResultCallback ResultCallback     `json:"-"`
}

// Type implements command.Message.
func (GeneratePagesCommand) Type() string { return generatePagesMessageType }

// Validate ensures the run targets a project, a template and at least one
// source.
func (m GeneratePagesCommand) Validate() error {
	errs := validation.Errors{}
	if m.Project.ID == uuid.Nil {
		errs["project"] = validation.NewError("sitegen.generate.project_required", "project id is required")
	}
	if m.TemplateID == uuid.Nil {
		errs["template_id"] = validation.NewError("sitegen.generate.template_required", "template_id must be a valid identifier")
	}
	if len(m.Sources) == 0 {
		errs["sources"] = validation.NewError("sitegen.generate.sources_required", "at least one data source is required")
	}
	for _, source := range m.Sources {
		if err := source.Validate(); err != nil {
			errs["sources"] = err
			break
		}
	}
	if err := validateStatus(m.Status); err != nil {
		errs["status"] = err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GenerateLocalSEOCommand builds the search term by location matrix. Terms
// and Locations use the line based text format.
type GenerateLocalSEOCommand struct {
	Project        domain.Project     `json:"project"`
	Terms          string             `json:"terms"`
	Locations      string             `json:"locations"`
	Config         localseo.Config    `json:"-"`
	Replace        bool               `json:"replace,omitempty"`
	Status         domain.PageStatus  `json:"status,omitempty"`
	Progress       pages.ProgressFunc `json:"-"`
	ResultCallback ResultCallback     `json:"-"`
}

// Type implements command.Message.
func (GenerateLocalSEOCommand) Type() string { return generateLocalSEOMessageType }

// Validate checks the project and the raw term and location lists.
func (m GenerateLocalSEOCommand) Validate() error {
	errs := validation.Errors{}
	if m.Project.ID == uuid.Nil {
		errs["project"] = validation.NewError("sitegen.local_seo.project_required", "project id is required")
	}
	if strings.TrimSpace(m.Terms) == "" && len(m.Config.Terms) == 0 {
		errs["terms"] = validation.NewError("sitegen.local_seo.terms_required", "at least one search term is required")
	}
	if strings.TrimSpace(m.Locations) == "" && len(m.Config.Locations) == 0 {
		errs["locations"] = validation.NewError("sitegen.local_seo.locations_required", "at least one location is required")
	}
	if strings.TrimSpace(m.Config.Content) == "" {
		errs["content"] = validation.NewError("sitegen.local_seo.content_required", "content is required")
	}
	if err := validateStatus(m.Status); err != nil {
		errs["status"] = err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (m GenerateLocalSEOCommand) config() localseo.Config {
	cfg := m.Config
	if strings.TrimSpace(m.Terms) != "" {
		cfg.Terms = localseo.ParseTerms(m.Terms)
	}
	if strings.TrimSpace(m.Locations) != "" {
		cfg.Locations = localseo.ParseLocations(m.Locations)
	}
	return cfg
}

// ClearLocalSEOCommand deletes every local-SEO page of a project.
type ClearLocalSEOCommand struct {
	ProjectID       uuid.UUID          `json:"project_id"`
	Progress        pages.ProgressFunc `json:"-"`
	DeletedCallback func(int)          `json:"-"`
}

// Type implements command.Message.
func (ClearLocalSEOCommand) Type() string { return clearLocalSEOMessageType }

// Validate ensures a project is targeted.
func (m ClearLocalSEOCommand) Validate() error {
	if m.ProjectID == uuid.Nil {
		return validation.Errors{
			"project_id": validation.NewError("sitegen.local_seo.project_required", "project_id must be a valid identifier"),
		}
	}
	return nil
}

func validateStatus(status domain.PageStatus) error {
	return validation.Validate(status, validation.In(domain.StatusDraft, domain.StatusPublished, domain.StatusArchived))
}
