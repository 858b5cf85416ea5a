package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/cmd/sitegen/internal/bootstrap"
)

func withQuietModule(t *testing.T) {
	t.Helper()
	original := moduleBuilder
	moduleBuilder = func(opts bootstrap.Options) (*sitegen.Module, error) {
		cfg := sitegen.DefaultConfig()
		if opts.Storage.Driver != "" {
			cfg.Storage.Driver = opts.Storage.Driver
			cfg.Storage.DSN = opts.Storage.DSN
		}
		return sitegen.New(cfg)
	}
	t.Cleanup(func() { moduleBuilder = original })
}

func TestRunWritesArchiveAndFiles(t *testing.T) {
	withQuietModule(t)
	out := t.TempDir()

	var stdout bytes.Buffer
	err := run([]string{
		"-manifest", filepath.Join("testdata", "site.yaml"),
		"-out", out,
		"-env", filepath.Join(out, "missing.env"),
		"-extract",
		"-quiet",
	}, &stdout)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.Contains(stdout.String(), "template guide: 2 pages written, 0 replaced") {
		t.Fatalf("unexpected output %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "local seo: 2 pages written") {
		t.Fatalf("expected local seo summary, got %q", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(out, "nordic-pages.zip")); err != nil {
		t.Fatalf("expected archive on disk: %v", err)
	}
	for _, name := range []string{"index.html", "sitemap.xml", "robots.txt"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("expected extracted %s: %v", name, err)
		}
	}
	page, err := os.ReadFile(filepath.Join(out, "guides", "oslo-guide", "index.html"))
	if err != nil {
		t.Fatalf("expected extracted page: %v", err)
	}
	if !strings.Contains(string(page), "<h1>Oslo</h1>") {
		t.Fatalf("unexpected page body %s", page)
	}
}

func TestRunReplacesPagesOnSecondRun(t *testing.T) {
	withQuietModule(t)
	out := t.TempDir()
	args := []string{
		"-manifest", filepath.Join("testdata", "site.yaml"),
		"-out", out,
		"-env", "",
		"-storage", "sqlite3",
		"-dsn", "file:" + filepath.Join(out, "site.db"),
		"-kind", "data",
		"-quiet",
	}

	if err := run(args, &bytes.Buffer{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	var stdout bytes.Buffer
	if err := run(args, &stdout); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !strings.Contains(stdout.String(), "template guide: 2 pages written, 2 replaced") {
		t.Fatalf("expected earlier pages replaced, got %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "local seo: 2 pages written, 2 replaced") {
		t.Fatalf("expected local seo pages replaced, got %q", stdout.String())
	}
	data, err := os.ReadFile(filepath.Join(out, "nordic-pages.json"))
	if err != nil {
		t.Fatalf("expected data export: %v", err)
	}
	if strings.Count(string(data), `"slug"`) != 4 {
		t.Fatalf("expected 4 stored pages, got %s", data)
	}
}

func TestRunRejectsInvalidManifest(t *testing.T) {
	withQuietModule(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(path, []byte("project: {}\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := run([]string{"-manifest", path, "-out", dir, "-env", ""}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected manifest error")
	}
}
