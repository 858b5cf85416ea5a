package templates

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
)

// MemoryRepository keeps templates in memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*domain.Template
	order   []uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]*domain.Template)}
}

func (m *MemoryRepository) Create(_ context.Context, record *domain.Template) (*domain.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneTemplate(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	if copied.Version == 0 {
		copied.Version = 1
	}
	if _, exists := m.records[copied.ID]; !exists {
		m.order = append(m.order, copied.ID)
	}
	m.records[copied.ID] = copied
	return cloneTemplate(copied), nil
}

func (m *MemoryRepository) Update(_ context.Context, record *domain.Template) (*domain.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	m.records[record.ID] = cloneTemplate(record)
	return cloneTemplate(record), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneTemplate(record), nil
}

func (m *MemoryRepository) List(_ context.Context, projectID uuid.UUID) ([]*domain.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Template, 0, len(m.order))
	for _, id := range m.order {
		record := m.records[id]
		if projectID != uuid.Nil && record.ProjectID != projectID {
			continue
		}
		out = append(out, cloneTemplate(record))
	}
	return out, nil
}
