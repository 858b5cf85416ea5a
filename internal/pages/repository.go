package pages

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
)

// Repository persists generated pages. Writes are not wrapped in a
// transaction spanning calls; every CreateBatch/DeleteByIDs call stands on
// its own.
type Repository interface {
	CreateBatch(ctx context.Context, records []*domain.Page) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Page, error)
	List(ctx context.Context, query Query) ([]*domain.Page, error)
	Update(ctx context.Context, record *domain.Page) (*domain.Page, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int, error)
}

// Query selects pages of one project.
type Query struct {
	ProjectID  uuid.UUID
	TemplateID *uuid.UUID
	// Generator matches the data tag written by specialised generators.
	Generator string
}

// Matches reports whether record satisfies the query.
func (q Query) Matches(record *domain.Page) bool {
	if record == nil {
		return false
	}
	if q.ProjectID != uuid.Nil && record.ProjectID != q.ProjectID {
		return false
	}
	if q.TemplateID != nil {
		if record.TemplateID == nil || *record.TemplateID != *q.TemplateID {
			return false
		}
	}
	if q.Generator != "" && record.Data.String(domain.DataGeneratorKey) != q.Generator {
		return false
	}
	return true
}

// NotFoundError is returned when a page lookup misses.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page %q not found", e.Key)
}

func clonePage(record *domain.Page) *domain.Page {
	if record == nil {
		return nil
	}
	cloned := *record
	if record.TemplateID != nil {
		id := *record.TemplateID
		cloned.TemplateID = &id
	}
	if record.Data != nil {
		cloned.Data = record.Data.Clone()
	}
	return &cloned
}
