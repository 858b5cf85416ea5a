package pages

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
)

// MemoryRepository is an in-memory page store for the CLI and tests. List
// returns records in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	pages map[uuid.UUID]*domain.Page
	order []uuid.UUID
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{pages: make(map[uuid.UUID]*domain.Page)}
}

// CreateBatch stores every record of the batch.
func (m *MemoryRepository) CreateBatch(_ context.Context, records []*domain.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range records {
		if record == nil {
			continue
		}
		copied := clonePage(record)
		if copied.ID == uuid.Nil {
			copied.ID = uuid.New()
		}
		if _, exists := m.pages[copied.ID]; !exists {
			m.order = append(m.order, copied.ID)
		}
		m.pages[copied.ID] = copied
	}
	return nil
}

// GetByID retrieves a page by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.pages[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return clonePage(record), nil
}

// List returns the pages matching query.
func (m *MemoryRepository) List(_ context.Context, query Query) ([]*domain.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Page, 0, len(m.order))
	for _, id := range m.order {
		record := m.pages[id]
		if !query.Matches(record) {
			continue
		}
		out = append(out, clonePage(record))
	}
	return out, nil
}

// Update replaces the stored page.
func (m *MemoryRepository) Update(_ context.Context, record *domain.Page) (*domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record == nil {
		return nil, &NotFoundError{}
	}
	if _, ok := m.pages[record.ID]; !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	m.pages[record.ID] = clonePage(record)
	return clonePage(record), nil
}

// DeleteByIDs removes the listed pages and reports how many existed.
func (m *MemoryRepository) DeleteByIDs(_ context.Context, ids []uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for _, id := range ids {
		if _, ok := m.pages[id]; !ok {
			continue
		}
		delete(m.pages, id)
		removed++
	}
	if removed == 0 {
		return 0, nil
	}
	kept := m.order[:0]
	for _, id := range m.order {
		if _, ok := m.pages[id]; ok {
			kept = append(kept, id)
		}
	}
	m.order = kept
	return removed, nil
}
