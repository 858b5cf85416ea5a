package exportcmd

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/export"
)

type stubSource struct {
	pages     []*domain.Page
	err       error
	requested []uuid.UUID
}

func (s *stubSource) ListPages(_ context.Context, projectID uuid.UUID) ([]*domain.Page, error) {
	s.requested = append(s.requested, projectID)
	return s.pages, s.err
}

func samplePages() []*domain.Page {
	return []*domain.Page{
		{Title: "Alpha", Slug: "alpha", URLPath: "/alpha/", Status: domain.StatusPublished, GeneratedHTML: "<html><body>alpha</body></html>"},
		{Title: "Beta", Slug: "beta", URLPath: "/beta/", Status: domain.StatusPublished, GeneratedHTML: "<html><body>beta</body></html>"},
	}
}

func fixedExporter() *export.Exporter {
	return export.NewExporter(export.WithClock(func() time.Time {
		return time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)
	}))
}

func TestExportSiteCommandValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ExportSiteCommand)
		field  string
	}{
		{"project", func(c *ExportSiteCommand) { c.Project.ID = uuid.Nil }, "project"},
		{"output", func(c *ExportSiteCommand) { c.Output = nil }, "output"},
		{"kind", func(c *ExportSiteCommand) { c.Kind = "pdf" }, "kind"},
		{"url format", func(c *ExportSiteCommand) { c.Project.Export.URLFormat = "weird" }, "export"},
		{"sitemap limit", func(c *ExportSiteCommand) { c.Project.Export.SitemapMaxURLs = domain.MaxSitemapURLs + 1 }, "export"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := ExportSiteCommand{Project: domain.Project{ID: uuid.New()}, Output: &bytes.Buffer{}}
			tc.mutate(&cmd)
			if !containsField(cmd.Validate(), tc.field) {
				t.Fatalf("expected %s error, got %v", tc.field, cmd.Validate())
			}
		})
	}
}

func TestExportSiteHandlerWritesArchive(t *testing.T) {
	source := &stubSource{pages: samplePages()}
	handler := NewExportSiteHandler(source, fixedExporter(), nil)

	var buf bytes.Buffer
	var result Result
	project := domain.Project{ID: uuid.New(), Slug: "demo"}
	err := handler.Execute(context.Background(), ExportSiteCommand{
		Project:        project,
		Output:         &buf,
		ResultCallback: func(r Result) { result = r },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(source.requested) != 1 || source.requested[0] != project.ID {
		t.Fatalf("expected pages listed for project, got %v", source.requested)
	}
	if result.Kind != KindSite || result.Name != "demo-pages.zip" || result.Pages != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Bundle.Count(export.CategoryPage) != 2 {
		t.Fatalf("expected 2 page files, got %d", result.Bundle.Count(export.CategoryPage))
	}

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range reader.File {
		names[f.Name] = true
	}
	for _, want := range []string{"index.html", "sitemap.xml", "robots.txt"} {
		if !names[want] {
			t.Fatalf("expected %s in archive, got %v", want, names)
		}
	}
}

func TestExportSiteHandlerSitemapsOnly(t *testing.T) {
	handler := NewExportSiteHandler(&stubSource{pages: samplePages()}, fixedExporter(), nil)

	var buf bytes.Buffer
	var result Result
	err := handler.Execute(context.Background(), ExportSiteCommand{
		Project:        domain.Project{ID: uuid.New(), Slug: "demo", Export: domain.ExportConfig{SitemapSeparate: true}},
		Kind:           KindSitemaps,
		Output:         &buf,
		ResultCallback: func(r Result) { result = r },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Name != "sitemaps.zip" {
		t.Fatalf("expected sitemaps.zip, got %q", result.Name)
	}
	if result.Bundle.Count(export.CategoryPage) != 0 || result.Bundle.Count(export.CategorySitemap) == 0 {
		t.Fatalf("expected only sitemap files, got %v", result.Bundle.Paths())
	}
}

func TestExportSiteHandlerWritesData(t *testing.T) {
	handler := NewExportSiteHandler(&stubSource{pages: samplePages()}, nil, nil)

	var buf bytes.Buffer
	var result Result
	err := handler.Execute(context.Background(), ExportSiteCommand{
		Project:        domain.Project{ID: uuid.New(), Slug: "demo"},
		Kind:           KindData,
		Output:         &buf,
		ResultCallback: func(r Result) { result = r },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Name != "demo-pages.json" || result.Bundle != nil {
		t.Fatalf("unexpected result %+v", result)
	}
	var records []export.DataRecord
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(records) != 2 || records[1].Slug != "beta" {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestExportSiteHandlerWrapsSourceError(t *testing.T) {
	handler := NewExportSiteHandler(&stubSource{err: errors.New("db down")}, nil, nil)

	err := handler.Execute(context.Background(), ExportSiteCommand{
		Project: domain.Project{ID: uuid.New()},
		Output:  &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func containsField(err error, field string) bool {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return false
	}
	_, ok := errs[field]
	return ok
}
