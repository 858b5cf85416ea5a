package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
)

// Writer receives bundle files one at a time.
type Writer interface {
	WriteFile(ctx context.Context, file File) error
}

// WriteBundle streams every file of bundle to w in path order.
func WriteBundle(ctx context.Context, w Writer, bundle *Bundle) error {
	for _, file := range bundle.Files() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.WriteFile(ctx, file); err != nil {
			return fmt.Errorf("export: write %s: %w", file.Path, err)
		}
	}
	return nil
}

// ZipWriter writes files into a ZIP archive. Every entry carries the same
// modification time so identical bundles produce identical bytes.
type ZipWriter struct {
	zw       *zip.Writer
	modified time.Time
}

// NewZipWriter wraps w. A zero modified time is replaced by the ZIP epoch.
func NewZipWriter(w io.Writer, modified time.Time) *ZipWriter {
	if modified.IsZero() {
		modified = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &ZipWriter{zw: zip.NewWriter(w), modified: modified.UTC()}
}

// WriteFile adds one deflated entry.
func (z *ZipWriter) WriteFile(_ context.Context, file File) error {
	entry, err := z.zw.CreateHeader(&zip.FileHeader{
		Name:     file.Path,
		Method:   zip.Deflate,
		Modified: z.modified,
	})
	if err != nil {
		return err
	}
	_, err = entry.Write(file.Content)
	return err
}

// Close finalizes the archive.
func (z *ZipWriter) Close() error {
	return z.zw.Close()
}

// WriteZip writes bundle as a ZIP archive to w.
func WriteZip(ctx context.Context, w io.Writer, bundle *Bundle, modified time.Time) error {
	zw := NewZipWriter(w, modified)
	if err := WriteBundle(ctx, zw, bundle); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// DirWriter writes files below a root directory.
type DirWriter struct {
	Root string
}

// WriteFile creates parent directories and writes the file. Paths that
// would leave Root are refused.
func (d DirWriter) WriteFile(_ context.Context, file File) error {
	rel := filepath.FromSlash(file.Path)
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, file.Path)
	}
	target := filepath.Join(d.Root, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, file.Content, 0o644)
}
