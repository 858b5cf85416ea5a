package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
)

type failingRepository struct {
	*MemoryRepository
	failOnCall int
	calls      int
	sizes      []int
}

func (f *failingRepository) CreateBatch(ctx context.Context, records []*domain.Page) error {
	f.calls++
	f.sizes = append(f.sizes, len(records))
	if f.calls == f.failOnCall {
		return errors.New("store unavailable")
	}
	return f.MemoryRepository.CreateBatch(ctx, records)
}

func makePages(n int) []*domain.Page {
	out := make([]*domain.Page, n)
	for i := range out {
		out[i] = &domain.Page{ID: uuid.New(), Title: "page", Slug: "page"}
	}
	return out
}

func TestBatchWriterReportsProgress(t *testing.T) {
	repo := &failingRepository{MemoryRepository: NewMemoryRepository()}
	writer := NewBatchWriter(repo)

	var reports []Progress
	written, err := writer.Write(context.Background(), makePages(25), func(p Progress) {
		reports = append(reports, p)
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if written != 25 {
		t.Fatalf("expected 25 written, got %d", written)
	}
	if len(repo.sizes) != 3 || repo.sizes[0] != 10 || repo.sizes[2] != 5 {
		t.Fatalf("unexpected batch sizes %v", repo.sizes)
	}
	want := []int{10, 20, 25}
	for i, report := range reports {
		if report.Done != want[i] || report.Total != 25 || report.Batch != i+1 {
			t.Fatalf("unexpected progress %d: %+v", i, report)
		}
	}
}

func TestBatchWriterStopsWithoutRollback(t *testing.T) {
	repo := &failingRepository{MemoryRepository: NewMemoryRepository(), failOnCall: 2}
	writer := NewBatchWriter(repo, WithBatchSize(4))

	written, err := writer.Write(context.Background(), makePages(10), nil)
	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected batch error, got %v", err)
	}
	if written != 4 || batchErr.Written != 4 || batchErr.Total != 10 {
		t.Fatalf("unexpected counts written=%d err=%+v", written, batchErr)
	}
	if repo.calls != 2 {
		t.Fatalf("expected remaining batches to be skipped, got %d calls", repo.calls)
	}
	stored, _ := repo.List(context.Background(), Query{})
	if len(stored) != 4 {
		t.Fatalf("expected first batch to stay persisted, got %d", len(stored))
	}
}

func TestBatchWriterDeletesInBatches(t *testing.T) {
	repo := NewMemoryRepository()
	records := makePages(7)
	if err := repo.CreateBatch(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}
	writer := NewBatchWriter(repo, WithDeleteBatchSize(3))

	var batches int
	deleted, err := writer.Delete(context.Background(), IDs(records), func(Progress) { batches++ })
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 7 || batches != 3 {
		t.Fatalf("expected 7 deleted over 3 batches, got %d over %d", deleted, batches)
	}
	remaining, _ := repo.List(context.Background(), Query{})
	if len(remaining) != 0 {
		t.Fatalf("expected empty store, got %d", len(remaining))
	}
}

func TestQueryMatches(t *testing.T) {
	project := uuid.New()
	templateID := uuid.New()
	other := uuid.New()
	page := &domain.Page{
		ProjectID:  project,
		TemplateID: &templateID,
		Data:       domain.Row{domain.DataGeneratorKey: domain.GeneratorLocalSEO},
	}

	cases := []struct {
		name  string
		query Query
		want  bool
	}{
		{"project", Query{ProjectID: project}, true},
		{"other project", Query{ProjectID: other}, false},
		{"template", Query{ProjectID: project, TemplateID: &templateID}, true},
		{"other template", Query{TemplateID: &other}, false},
		{"generator", Query{Generator: domain.GeneratorLocalSEO}, true},
		{"other generator", Query{Generator: "csv"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.query.Matches(page); got != tc.want {
				t.Fatalf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}
