package generation

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/localseo"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/pages"
)

// LocalSEORequest describes a local-SEO matrix run.
type LocalSEORequest struct {
	Project domain.Project
	Config  localseo.Config
	// Replace clears previously generated local-SEO pages first.
	Replace  bool
	Status   domain.PageStatus
	Progress pages.ProgressFunc
}

// GenerateLocalSEO builds the term by location matrix (plus the archive page
// when enabled) and persists it in batches.
func (s *Service) GenerateLocalSEO(ctx context.Context, req LocalSEORequest) (*Result, error) {
	logger := logging.WithRunContext(s.logger, req.Project.ID.String(), "", "local_seo").WithContext(ctx)
	if req.Project.ID == uuid.Nil {
		return nil, goerrors.Wrap(ErrProjectRequired, goerrors.CategoryValidation, "project is required").
			WithTextCode("GENERATION_PROJECT_REQUIRED")
	}
	if err := req.Config.Validate(); err != nil {
		logger.Warn("generation.rejected", "error", err)
		return nil, err
	}
	records, err := s.localSEO.Generate(req.Config, s.renderContext(req.Project, req.Status))
	if err != nil {
		return nil, err
	}

	result := &Result{Units: len(records), Pages: records}
	if req.Replace {
		result.Deleted, err = s.remove(ctx, logger, localSEOQuery(req.Project.ID), nil)
		if err != nil {
			return result, err
		}
	}
	result.Written, err = s.persist(ctx, logger, records, req.Progress)
	if err != nil {
		return result, err
	}
	logger.Info("generation.completed", "units", result.Units, "written", result.Written, "deleted", result.Deleted)
	return result, nil
}

// ClearLocalSEO deletes every page tagged by the local-SEO generator.
func (s *Service) ClearLocalSEO(ctx context.Context, projectID uuid.UUID, progress pages.ProgressFunc) (int, error) {
	if projectID == uuid.Nil {
		return 0, goerrors.Wrap(ErrProjectRequired, goerrors.CategoryValidation, "project is required").
			WithTextCode("GENERATION_PROJECT_REQUIRED")
	}
	logger := logging.WithRunContext(s.logger, projectID.String(), "", "local_seo_clear").WithContext(ctx)
	deleted, err := s.remove(ctx, logger, localSEOQuery(projectID), progress)
	if err != nil {
		return deleted, err
	}
	logger.Info("generation.cleared", "deleted", deleted)
	return deleted, nil
}

func localSEOQuery(projectID uuid.UUID) pages.Query {
	return pages.Query{ProjectID: projectID, Generator: domain.GeneratorLocalSEO}
}
