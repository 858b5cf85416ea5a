// Package templates stores page templates and loads them from frontmatter
// files.
package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
)

// Repository persists templates.
type Repository interface {
	Create(ctx context.Context, record *domain.Template) (*domain.Template, error)
	Update(ctx context.Context, record *domain.Template) (*domain.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error)
	List(ctx context.Context, projectID uuid.UUID) ([]*domain.Template, error)
}

// NotFoundError is returned when a template lookup misses.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Key)
}

// Save creates record, or updates it when a template with the same id
// already exists.
func Save(ctx context.Context, repo Repository, record *domain.Template) (*domain.Template, error) {
	if record.ID != uuid.Nil {
		existing, err := repo.GetByID(ctx, record.ID)
		var notFound *NotFoundError
		switch {
		case err == nil:
			record.Version = existing.Version + 1
			record.CreatedAt = existing.CreatedAt
			return repo.Update(ctx, record)
		case !errors.As(err, &notFound):
			return nil, err
		}
	}
	return repo.Create(ctx, record)
}

func cloneTemplate(record *domain.Template) *domain.Template {
	if record == nil {
		return nil
	}
	cloned := *record
	if record.ComboColumns != nil {
		cloned.ComboColumns = append([]string(nil), record.ComboColumns...)
	}
	if record.FilterRules != nil {
		cloned.FilterRules = append([]domain.FilterRule(nil), record.FilterRules...)
	}
	return &cloned
}
