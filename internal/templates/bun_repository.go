package templates

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitegen/internal/domain"
)

func NewTemplateRepository(db *bun.DB) repository.Repository[*domain.Template] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*domain.Template]{
		NewRecord: func() *domain.Template { return &domain.Template{} },
		GetID: func(t *domain.Template) uuid.UUID {
			return t.ID
		},
		SetID: func(t *domain.Template, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(t *domain.Template) string {
			return t.Name
		},
	})
}

// BunRepository implements Repository with optional caching.
type BunRepository struct {
	repo repository.Repository[*domain.Template]
}

// NewBunRepository creates a template repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a template repository whose reads go
// through the repository cache.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewTemplateRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, record *domain.Template) (*domain.Template, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Version == 0 {
		record.Version = 1
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *domain.Template) (*domain.Template, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context, projectID uuid.UUID) ([]*domain.Template, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		if projectID != uuid.Nil {
			q = q.Where("?TableAlias.project_id = ?", projectID)
		}
		return q.OrderExpr("?TableAlias.name ASC")
	}))
	return records, err
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("template repository error: %w", err)
}
