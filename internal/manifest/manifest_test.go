package manifest

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitegen/internal/datasource"
	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/identity"
)

func TestLoadAndResolve(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "site.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Storage.Driver != "sqlite3" {
		t.Fatalf("expected sqlite3 storage, got %q", m.Storage.Driver)
	}

	plan, err := m.Resolve("testdata")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.Project.Slug != "acme-guides" {
		t.Fatalf("expected derived slug, got %q", plan.Project.Slug)
	}
	if plan.Project.ID != identity.ProjectUUID("acme-guides") {
		t.Fatalf("expected deterministic project id")
	}
	if plan.Project.Export.URLFormat != domain.URLHTML || !plan.Project.Export.SitemapSeparate {
		t.Fatalf("unexpected export config %+v", plan.Project.Export)
	}

	if len(plan.Templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(plan.Templates))
	}
	guide := plan.Templates[0]
	if guide.Name != "guide" || guide.URLPattern != "/guides/{{city}}" {
		t.Fatalf("unexpected file template %+v", guide)
	}
	if guide.ID != identity.TemplateUUID(plan.Project.ID, "guide") || guide.ProjectID != plan.Project.ID {
		t.Fatalf("expected template ids scoped to the project")
	}
	if !strings.Contains(guide.HTMLContent, "<p>{{summary}}</p>") {
		t.Fatalf("expected body from file, got %q", guide.HTMLContent)
	}
	if plan.Templates[1].GenerationMode != domain.ModeNormal || plan.Templates[1].ContentFormat != domain.ContentHTML {
		t.Fatalf("expected inline defaults, got %+v", plan.Templates[1])
	}

	if len(plan.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(plan.Runs))
	}
	first := plan.Runs[0]
	if first.Template != guide || first.Status != domain.StatusPublished {
		t.Fatalf("unexpected first run %+v", first)
	}
	if len(first.Sources) != 1 || first.Sources[0].Kind != datasource.KindUpload || !strings.HasPrefix(string(first.Sources[0].Data), "city,summary") {
		t.Fatalf("expected upload data read from disk, got %+v", first.Sources)
	}
	if got := plan.Runs[1].Sources; len(got) != 2 || got[1].Kind != datasource.KindSheet || got[0].ID == got[1].ID {
		t.Fatalf("unexpected second run sources %+v", got)
	}

	if plan.LocalSEO == nil {
		t.Fatal("expected local seo run")
	}
	cfg := plan.LocalSEO.Config
	if len(cfg.Terms) != 2 || cfg.Terms[1].Plural != "roofers" || len(cfg.Locations) != 2 || !cfg.Archive {
		t.Fatalf("unexpected local seo config %+v", cfg)
	}
	if plan.LocalSEO.Status != domain.StatusDraft {
		t.Fatalf("expected draft status, got %q", plan.LocalSEO.Status)
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	cases := []struct {
		name     string
		source   string
		location string
	}{
		{"missing name", "project: {slug: a}\n", ""},
		{"unknown key", "project: {name: A}\nthemes: []\n", ""},
		{"bad url format", "project: {name: A, export: {url_format: php}}\n", "/project/export/url_format"},
		{"file and html", "project: {name: A}\ntemplates:\n  - {name: t, file: a.html, html: x}\n", "/templates/0"},
		{"bad source kind", "project: {name: A}\nsources:\n  - {name: s, kind: ftp}\n", "/sources/0/kind"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.source))
			if err == nil {
				t.Fatal("expected error")
			}
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected schema error, got %v", err)
			}
			if tc.location == "" {
				return
			}
			for _, issue := range schemaErr.Issues {
				if strings.HasPrefix(issue.Location, tc.location) {
					return
				}
			}
			t.Fatalf("expected issue at %s, got %+v", tc.location, schemaErr.Issues)
		})
	}
}

func TestParseRejectsUnknownReferences(t *testing.T) {
	source := `
project: {name: A}
templates:
  - {name: t, html: "<p>x</p>"}
sources:
  - {name: s, kind: url, url: "https://example.com/a.csv"}
generate:
  - {template: t, sources: [missing]}
`
	_, err := Parse([]byte(source))
	if err == nil || !strings.Contains(err.Error(), `unknown source "missing"`) {
		t.Fatalf("expected unknown source error, got %v", err)
	}
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	if _, err := Parse([]byte("")); !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
}
