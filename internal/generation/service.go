// Package generation runs the page-generation pipeline: load rows, expand
// them into units, render pages and persist them in batches.
package generation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/datasource"
	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/localseo"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/render"
	"github.com/goliatone/go-sitegen/internal/templates"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var (
	ErrTemplateRequired = errors.New("generation: template is required")
	ErrProjectRequired  = errors.New("generation: project id is required")
)

// Service orchestrates generation runs. Concurrent runs against the same
// template are not serialised and may duplicate pages.
type Service struct {
	pages     pages.Repository
	templates templates.Repository
	loader    *datasource.Loader
	localSEO  *localseo.Generator
	markdown  *markdown.Converter
	logger    interfaces.Logger
	now       func() time.Time

	batchSize       int
	deleteBatchSize int
	defaultStatus   domain.PageStatus
}

// Option configures the service.
type Option func(*Service)

func WithTemplates(repo templates.Repository) Option {
	return func(s *Service) {
		if repo != nil {
			s.templates = repo
		}
	}
}

func WithLoader(loader *datasource.Loader) Option {
	return func(s *Service) {
		if loader != nil {
			s.loader = loader
		}
	}
}

func WithLocalSEOGenerator(generator *localseo.Generator) Option {
	return func(s *Service) {
		if generator != nil {
			s.localSEO = generator
		}
	}
}

func WithMarkdown(converter *markdown.Converter) Option {
	return func(s *Service) {
		if converter != nil {
			s.markdown = converter
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBatchSize sets the insert batch size.
func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithDeleteBatchSize sets the delete batch size used by regenerate and clear.
func WithDeleteBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.deleteBatchSize = size
		}
	}
}

// WithDefaultStatus sets the status of pages when a request leaves it empty.
func WithDefaultStatus(status domain.PageStatus) Option {
	return func(s *Service) {
		if status != "" {
			s.defaultStatus = status
		}
	}
}

// NewService wires the generation service over a page repository.
func NewService(repo pages.Repository, opts ...Option) *Service {
	s := &Service{
		pages:           repo,
		templates:       templates.NewMemoryRepository(),
		localSEO:        localseo.NewGenerator(),
		logger:          logging.NoOp(),
		now:             time.Now,
		batchSize:       pages.DefaultBatchSize,
		deleteBatchSize: pages.DefaultDeleteBatchSize,
		defaultStatus:   domain.StatusDraft,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.loader == nil {
		s.loader = datasource.NewLoader(datasource.WithLogger(s.logger))
	}
	return s
}

// Result summarises one run.
type Result struct {
	Units   int
	Written int
	Deleted int
	Pages   []*domain.Page
}

// ListPages returns every stored page of a project.
func (s *Service) ListPages(ctx context.Context, projectID uuid.UUID) ([]*domain.Page, error) {
	return s.pages.List(ctx, pages.Query{ProjectID: projectID})
}

func (s *Service) renderContext(project domain.Project, status domain.PageStatus) render.Context {
	if status == "" {
		status = s.defaultStatus
	}
	return render.NewContext(project,
		render.WithStatus(status),
		render.WithClock(s.now),
		render.WithMarkdown(s.markdown),
	)
}

func (s *Service) writer() *pages.BatchWriter {
	return pages.NewBatchWriter(s.pages,
		pages.WithBatchSize(s.batchSize),
		pages.WithDeleteBatchSize(s.deleteBatchSize),
	)
}

// persist writes records in batches, logging cumulative progress after each
// batch before forwarding it to the caller. Failures surface as
// *pages.BatchError.
func (s *Service) persist(ctx context.Context, logger interfaces.Logger, records []*domain.Page, progress pages.ProgressFunc) (int, error) {
	written, err := s.writer().Write(ctx, records, func(p pages.Progress) {
		logger.Info("generation.batch.persisted",
			"batch", p.Batch,
			"written", p.Done,
			"total", p.Total,
		)
		if progress != nil {
			progress(p)
		}
	})
	if err != nil {
		logger.Error("generation.batch.failed", "written", written, "total", len(records), "error", err)
		return written, err
	}
	return written, nil
}

// remove deletes the pages selected by query in batches.
func (s *Service) remove(ctx context.Context, logger interfaces.Logger, query pages.Query, progress pages.ProgressFunc) (int, error) {
	existing, err := s.pages.List(ctx, query)
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		return 0, nil
	}
	deleted, err := s.writer().Delete(ctx, pages.IDs(existing), func(p pages.Progress) {
		logger.Info("generation.batch.deleted",
			"batch", p.Batch,
			"deleted", p.Done,
			"total", p.Total,
		)
		if progress != nil {
			progress(p)
		}
	})
	if err != nil {
		logger.Error("generation.delete.failed", "deleted", deleted, "total", len(existing), "error", err)
		return deleted, err
	}
	return deleted, nil
}
