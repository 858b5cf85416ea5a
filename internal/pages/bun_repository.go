package pages

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitegen/internal/domain"
)

// NewPageRepository returns the generic single-record repository for pages.
func NewPageRepository(db *bun.DB) repository.Repository[*domain.Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*domain.Page]{
		NewRecord: func() *domain.Page { return &domain.Page{} },
		GetID: func(p *domain.Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *domain.Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *domain.Page) string {
			return p.Slug
		},
	})
}

// BunRepository stores pages in a relational database. Bulk inserts and
// deletes go through raw bun queries; lookups and updates use the generic
// repository.
type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*domain.Page]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db, repo: NewPageRepository(db)}
}

func (r *BunRepository) CreateBatch(ctx context.Context, records []*domain.Page) error {
	if r.db == nil {
		return fmt.Errorf("page repository: database not configured")
	}
	toInsert := make([]*domain.Page, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		toInsert = append(toInsert, record)
	}
	if len(toInsert) == 0 {
		return nil
	}
	if _, err := r.db.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
		return fmt.Errorf("insert pages: %w", err)
	}
	return nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Page, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return result, nil
}

func (r *BunRepository) List(ctx context.Context, query Query) ([]*domain.Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if query.ProjectID != uuid.Nil {
				q = q.Where("?TableAlias.project_id = ?", query.ProjectID)
			}
			if query.TemplateID != nil {
				q = q.Where("?TableAlias.template_id = ?", *query.TemplateID)
			}
			return q
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC, ?TableAlias.slug ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("page repository error: %w", err)
	}
	// Generator tags live in the JSON data column; match them here so the
	// query stays dialect neutral.
	if query.Generator == "" {
		return records, nil
	}
	out := records[:0]
	for _, record := range records {
		if query.Matches(record) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *BunRepository) Update(ctx context.Context, record *domain.Page) (*domain.Page, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"slug",
			"url_path",
			"status",
			"data",
			"meta_title",
			"meta_description",
			"generated_html",
			"schema_markup",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int, error) {
	if r.db == nil {
		return 0, fmt.Errorf("page repository: database not configured")
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.NewDelete().
		Model((*domain.Page)(nil)).
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete pages: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return len(ids), nil
	}
	return int(affected), nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("page repository error: %w", err)
}
