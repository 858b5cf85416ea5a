package pages

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
)

const (
	DefaultBatchSize       = 10
	DefaultDeleteBatchSize = 100
)

// Progress is reported after every completed batch. Done is cumulative and
// never decreases within one call.
type Progress struct {
	Batch int
	Done  int
	Total int
}

// ProgressFunc receives batch progress.
type ProgressFunc func(Progress)

// BatchError reports a batch failure. Batches completed before the failure
// stay persisted; Written counts their records.
type BatchError struct {
	Written int
	Total   int
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("pages: batch failed after %d of %d records: %v", e.Written, e.Total, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// BatchWriter writes and deletes pages in fixed-size batches. It is
// at-least-once and non-transactional: batch N is fully persisted before
// batch N+1 starts and a failure stops the run without rolling back earlier
// batches. Nothing is retried.
type BatchWriter struct {
	repo            Repository
	batchSize       int
	deleteBatchSize int
}

// BatchOption configures a BatchWriter.
type BatchOption func(*BatchWriter)

// WithBatchSize sets the insert batch size.
func WithBatchSize(size int) BatchOption {
	return func(w *BatchWriter) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

// WithDeleteBatchSize sets the delete batch size.
func WithDeleteBatchSize(size int) BatchOption {
	return func(w *BatchWriter) {
		if size > 0 {
			w.deleteBatchSize = size
		}
	}
}

func NewBatchWriter(repo Repository, opts ...BatchOption) *BatchWriter {
	w := &BatchWriter{
		repo:            repo,
		batchSize:       DefaultBatchSize,
		deleteBatchSize: DefaultDeleteBatchSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Write inserts records batch by batch and returns how many were persisted.
// On failure the returned error is a *BatchError.
func (w *BatchWriter) Write(ctx context.Context, records []*domain.Page, progress ProgressFunc) (int, error) {
	total := len(records)
	written := 0
	for batch, start := 1, 0; start < total; batch, start = batch+1, start+w.batchSize {
		end := min(start+w.batchSize, total)
		if err := w.repo.CreateBatch(ctx, records[start:end]); err != nil {
			return written, &BatchError{Written: written, Total: total, Err: err}
		}
		written = end
		if progress != nil {
			progress(Progress{Batch: batch, Done: written, Total: total})
		}
	}
	return written, nil
}

// Delete removes ids batch by batch and returns how many were deleted.
func (w *BatchWriter) Delete(ctx context.Context, ids []uuid.UUID, progress ProgressFunc) (int, error) {
	total := len(ids)
	deleted := 0
	for batch, start := 1, 0; start < total; batch, start = batch+1, start+w.deleteBatchSize {
		end := min(start+w.deleteBatchSize, total)
		count, err := w.repo.DeleteByIDs(ctx, ids[start:end])
		if err != nil {
			return deleted, &BatchError{Written: deleted, Total: total, Err: err}
		}
		deleted += count
		if progress != nil {
			progress(Progress{Batch: batch, Done: end, Total: total})
		}
	}
	return deleted, nil
}

// IDs returns the identifiers of records.
func IDs(records []*domain.Page) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		if record != nil {
			out = append(out, record.ID)
		}
	}
	return out
}
