package generation

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/datasource"
	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/expansion"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/render"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Request describes a template generation run. Template takes precedence
// over TemplateID; Table takes precedence over Sources.
type Request struct {
	Project    domain.Project
	TemplateID uuid.UUID
	Template   *domain.Template
	Sources    []datasource.Source
	Table      *domain.Table
	// Refresh refetches remote sources instead of using cached tables.
	Refresh  bool
	Status   domain.PageStatus
	Progress pages.ProgressFunc
}

type plan struct {
	template *domain.Template
	units    []domain.Unit
	pages    []*domain.Page
}

// Generate expands the request rows and persists one page per unit. Input
// problems fail before anything is written. A failing batch stops the run;
// earlier batches stay persisted.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	logger := s.runLogger(ctx, req, "generate")
	p, err := s.prepare(ctx, req)
	if err != nil {
		logger.Warn("generation.rejected", "error", err)
		return nil, err
	}
	result := &Result{Units: len(p.units), Pages: p.pages}
	result.Written, err = s.persist(ctx, logger, p.pages, req.Progress)
	if err != nil {
		return result, err
	}
	logger.Info("generation.completed", "units", result.Units, "written", result.Written)
	return result, nil
}

// Regenerate deletes every page previously generated from the template and
// generates again from scratch.
func (s *Service) Regenerate(ctx context.Context, req Request) (*Result, error) {
	logger := s.runLogger(ctx, req, "regenerate")
	p, err := s.prepare(ctx, req)
	if err != nil {
		logger.Warn("generation.rejected", "error", err)
		return nil, err
	}
	templateID := p.template.ID
	if templateID == uuid.Nil {
		return nil, goerrors.Wrap(ErrTemplateRequired, goerrors.CategoryValidation, "regenerate needs a stored template").
			WithTextCode("GENERATION_TEMPLATE_REQUIRED")
	}
	result := &Result{Units: len(p.units), Pages: p.pages}
	result.Deleted, err = s.remove(ctx, logger, pages.Query{ProjectID: req.Project.ID, TemplateID: &templateID}, nil)
	if err != nil {
		return result, err
	}
	result.Written, err = s.persist(ctx, logger, p.pages, req.Progress)
	if err != nil {
		return result, err
	}
	logger.Info("generation.completed", "units", result.Units, "written", result.Written, "deleted", result.Deleted)
	return result, nil
}

// Preview reports how many pages a run would produce without rendering or
// writing anything.
func (s *Service) Preview(ctx context.Context, req Request) (expansion.Preview, error) {
	tpl, err := s.resolveTemplate(ctx, req)
	if err != nil {
		return expansion.Preview{}, err
	}
	table, err := s.resolveTable(ctx, req)
	if err != nil {
		return expansion.Preview{}, err
	}
	if err := expansion.ValidateTemplate(tpl, table); err != nil {
		return expansion.Preview{}, err
	}
	return expansion.Count(table, expansion.ConfigFromTemplate(tpl))
}

func (s *Service) prepare(ctx context.Context, req Request) (*plan, error) {
	if req.Project.ID == uuid.Nil {
		return nil, goerrors.Wrap(ErrProjectRequired, goerrors.CategoryValidation, "project is required").
			WithTextCode("GENERATION_PROJECT_REQUIRED")
	}
	tpl, err := s.resolveTemplate(ctx, req)
	if err != nil {
		return nil, err
	}
	table, err := s.resolveTable(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := expansion.ValidateTemplate(tpl, table); err != nil {
		return nil, err
	}
	units, err := expansion.Expand(table, expansion.ConfigFromTemplate(tpl))
	if err != nil {
		return nil, err
	}
	rendered, err := render.RenderAll(units, tpl, s.renderContext(req.Project, req.Status))
	if err != nil {
		return nil, err
	}
	return &plan{template: tpl, units: units, pages: rendered}, nil
}

func (s *Service) resolveTemplate(ctx context.Context, req Request) (*domain.Template, error) {
	if req.Template != nil {
		return req.Template, nil
	}
	if req.TemplateID == uuid.Nil {
		return nil, goerrors.Wrap(ErrTemplateRequired, goerrors.CategoryValidation, "template is required").
			WithTextCode("GENERATION_TEMPLATE_REQUIRED")
	}
	tpl, err := s.templates.GetByID(ctx, req.TemplateID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryNotFound, "template not found").
			WithTextCode("GENERATION_TEMPLATE_NOT_FOUND")
	}
	return tpl, nil
}

func (s *Service) resolveTable(ctx context.Context, req Request) (domain.Table, error) {
	if req.Table != nil {
		return *req.Table, nil
	}
	if len(req.Sources) == 0 {
		return domain.Table{}, expansion.RequireRows(domain.Table{})
	}
	return s.loader.Load(ctx, req.Sources, datasource.LoadOptions{Refresh: req.Refresh})
}

func (s *Service) runLogger(ctx context.Context, req Request, operation string) interfaces.Logger {
	templateID := req.TemplateID
	if req.Template != nil {
		templateID = req.Template.ID
	}
	var tplID string
	if templateID != uuid.Nil {
		tplID = templateID.String()
	}
	return logging.WithRunContext(s.logger, req.Project.ID.String(), tplID, operation).WithContext(ctx)
}
