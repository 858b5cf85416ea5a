package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/goliatone/go-sitegen/internal/domain"
)

var fixedNow = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

func newTestExporter() *Exporter {
	return NewExporter(WithClock(func() time.Time { return fixedNow }))
}

func page(title, urlPath string, status domain.PageStatus, data domain.Row) *domain.Page {
	return &domain.Page{
		ID:            uuid.New(),
		Title:         title,
		Slug:          strings.Trim(urlPath, "/"),
		URLPath:       urlPath,
		Status:        status,
		Data:          data,
		GeneratedHTML: "<html><head><title>" + title + "</title></head><body><h1>" + title + "</h1></body></html>",
		UpdatedAt:     time.Date(2024, 6, 1, 17, 45, 0, 0, time.UTC),
	}
}

func testProject(cfg domain.ExportConfig) domain.Project {
	return domain.Project{ID: uuid.New(), Name: "Acme", Slug: "acme", Export: cfg}
}

func TestBuildMapsPagePaths(t *testing.T) {
	pages := []*domain.Page{
		page("About", "/about/", domain.StatusPublished, nil),
		page("Team", "/company/team.html", domain.StatusPublished, nil),
	}
	cases := map[domain.URLFormat][]string{
		domain.URLPrettySlash: {"about/index.html", "company/team/index.html"},
		domain.URLHTML:        {"about.html", "company/team.html"},
		domain.URLDirectory:   {"about/index.html", "company/team/index.html"},
	}
	for format, want := range cases {
		bundle, err := newTestExporter().Build(context.Background(), pages, testProject(domain.ExportConfig{URLFormat: format}))
		if err != nil {
			t.Fatalf("%s: build: %v", format, err)
		}
		for _, path := range want {
			if _, ok := bundle.Get(path); !ok {
				t.Fatalf("%s: expected %s in %v", format, path, bundle.Paths())
			}
		}
		for _, path := range []string{"index.html", "sitemap.xml", "robots.txt"} {
			if _, ok := bundle.Get(path); !ok {
				t.Fatalf("%s: expected %s in bundle", format, path)
			}
		}
	}
}

func TestBuildPathCollisionsOverwrite(t *testing.T) {
	first := page("First", "/dup", domain.StatusDraft, nil)
	second := page("Second", "/dup/", domain.StatusDraft, nil)
	bundle, err := newTestExporter().Build(context.Background(), []*domain.Page{first, second}, testProject(domain.ExportConfig{}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	file, _ := bundle.Get("dup/index.html")
	if !strings.Contains(string(file.Content), "Second") {
		t.Fatalf("expected later page to win, got %s", file.Content)
	}
}

func TestBuildSplitsAssets(t *testing.T) {
	a := page("A", "/a", domain.StatusDraft, nil)
	a.GeneratedHTML = `<html><head><style>h1{color:red}
p{margin:0}</style></head><body><script type="application/ld+json">{"@type":"Thing"}</script><script>track();</script></body></html>`
	b := page("B", "/b", domain.StatusDraft, nil)
	b.GeneratedHTML = `<html><head><style>h1{color:red}

body{margin:0}</style></head><body><script src="/lib.js"></script></body></html>`
	c := page("C", "/c", domain.StatusDraft, nil)

	bundle, err := newTestExporter().Build(context.Background(), []*domain.Page{a, b, c},
		testProject(domain.ExportConfig{SplitAssets: true}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	css, ok := bundle.Get(StylesPath)
	if !ok || string(css.Content) != "h1{color:red}\np{margin:0}\nbody{margin:0}\n" {
		t.Fatalf("unexpected css %q", css.Content)
	}
	js, ok := bundle.Get(ScriptsPath)
	if !ok || string(js.Content) != "track();\n" {
		t.Fatalf("unexpected js %q", js.Content)
	}

	pageA, _ := bundle.Get("a/index.html")
	docA := string(pageA.Content)
	if strings.Contains(docA, "<style>") || strings.Contains(docA, "track();") {
		t.Fatalf("expected inline assets removed: %s", docA)
	}
	if !strings.Contains(docA, stylesLink+"</head>") || !strings.Contains(docA, scriptsTag+"</body>") {
		t.Fatalf("expected asset links: %s", docA)
	}
	if !strings.Contains(docA, `application/ld+json`) {
		t.Fatalf("expected json-ld to stay inline: %s", docA)
	}

	pageB, _ := bundle.Get("b/index.html")
	if strings.Contains(string(pageB.Content), scriptsTag) || !strings.Contains(string(pageB.Content), `src="/lib.js"`) {
		t.Fatalf("unexpected scripts on b: %s", pageB.Content)
	}
	pageC, _ := bundle.Get("c/index.html")
	if strings.Contains(string(pageC.Content), stylesLink) {
		t.Fatalf("did not expect links on a page without assets")
	}
}

func TestBuildIndexLinksEveryPage(t *testing.T) {
	project := testProject(domain.ExportConfig{URLFormat: domain.URLHTML})
	project.Settings = domain.SiteSettings{
		SiteName:         "Acme Pages",
		FaviconURL:       "/favicon.ico",
		OGImageURL:       "https://cdn.acme.com/og.png",
		PrimaryColor:     "#ff0000",
		Theme:            "dark",
		AnalyticsSnippet: `<script data-analytics="1">window.a=1;</script>`,
	}
	pages := []*domain.Page{
		page("Alpha", "/alpha/", domain.StatusDraft, nil),
		page("Beta", "/beta/", domain.StatusDraft, nil),
	}
	bundle, err := newTestExporter().Build(context.Background(), pages, project)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	index, _ := bundle.Get(IndexPath)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(index.Content))
	if err != nil {
		t.Fatalf("parse index: %v", err)
	}
	if doc.Find("title").Text() != "Acme Pages" {
		t.Fatalf("unexpected title %q", doc.Find("title").Text())
	}
	hrefs := doc.Find("ul.pages a").Map(func(_ int, s *goquery.Selection) string { return s.AttrOr("href", "") })
	if len(hrefs) != 2 || hrefs[0] != "/alpha.html" || hrefs[1] != "/beta.html" {
		t.Fatalf("unexpected links %v", hrefs)
	}
	if doc.Find(`link[rel="icon"]`).AttrOr("href", "") != "/favicon.ico" {
		t.Fatalf("expected favicon")
	}
	if doc.Find(`meta[property="og:image"]`).AttrOr("content", "") != "https://cdn.acme.com/og.png" {
		t.Fatalf("expected og image")
	}
	if doc.Find(`script[data-analytics="1"]`).Length() != 1 {
		t.Fatalf("expected analytics snippet verbatim: %s", index.Content)
	}
	if !strings.Contains(string(index.Content), "#ff0000") || !strings.Contains(string(index.Content), "#0f172a") {
		t.Fatalf("expected theme colors: %s", index.Content)
	}
}

func TestIndexReplacesCollidingPage(t *testing.T) {
	home := page("Home", "/", domain.StatusDraft, nil)
	bundle, err := newTestExporter().Build(context.Background(), []*domain.Page{home}, testProject(domain.ExportConfig{}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	index, _ := bundle.Get(IndexPath)
	if index.Category != CategoryIndex {
		t.Fatalf("expected synthesized index to win, got %s", index.Category)
	}
}

func TestRobots(t *testing.T) {
	project := testProject(domain.ExportConfig{CustomDomain: "www.acme.io"})
	bundle, err := newTestExporter().Build(context.Background(), nil, project)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	robots, _ := bundle.Get("robots.txt")
	want := "User-agent: *\nAllow: /\n\nSitemap: https://www.acme.io/sitemap.xml\n"
	if string(robots.Content) != want {
		t.Fatalf("unexpected robots %q", robots.Content)
	}

	project.Settings.RobotsTxt = "User-agent: *\nDisallow: /"
	bundle, err = newTestExporter().Build(context.Background(), nil, project)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	robots, _ = bundle.Get("robots.txt")
	if string(robots.Content) != "User-agent: *\nDisallow: /" {
		t.Fatalf("expected override, got %q", robots.Content)
	}
}

func TestArchiveIsDeterministic(t *testing.T) {
	pages := []*domain.Page{
		page("One", "/one", domain.StatusPublished, domain.Row{"category": "A"}),
		page("Two", "/two", domain.StatusPublished, domain.Row{"category": "B"}),
		page("Three", "/three", domain.StatusDraft, nil),
	}
	project := testProject(domain.ExportConfig{SplitAssets: true, SitemapSeparate: true})

	var first, second bytes.Buffer
	bundle, err := newTestExporter().Archive(context.Background(), &first, pages, project)
	if err != nil {
		t.Fatalf("first archive: %v", err)
	}
	if _, err := newTestExporter().Archive(context.Background(), &second, pages, project); err != nil {
		t.Fatalf("second archive: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("expected byte-identical archives")
	}
	if bundle.Name != "acme-pages.zip" {
		t.Fatalf("unexpected archive name %q", bundle.Name)
	}

	reader, err := zip.NewReader(bytes.NewReader(first.Bytes()), int64(first.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(reader.File) != bundle.Len() {
		t.Fatalf("expected %d entries, got %d", bundle.Len(), len(reader.File))
	}
	for i, path := range bundle.Paths() {
		if reader.File[i].Name != path {
			t.Fatalf("entry %d: got %s want %s", i, reader.File[i].Name, path)
		}
	}
}

func TestArchiveNameFallsBackToExport(t *testing.T) {
	if got := ArchiveName(domain.Project{}); got != "export-pages.zip" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	_, err := newTestExporter().Build(context.Background(), nil, testProject(domain.ExportConfig{URLFormat: "pretty"}))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category")
	}
	_, err = newTestExporter().Build(context.Background(), nil, testProject(domain.ExportConfig{SitemapMaxURLs: -1}))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected negative cap rejected, got %v", err)
	}
}

func TestBuildClampsSitemapLimitToCeiling(t *testing.T) {
	pages := make([]*domain.Page, domain.MaxSitemapURLs+5)
	for i := range pages {
		pages[i] = &domain.Page{
			ID:      uuid.New(),
			Title:   fmt.Sprintf("P%d", i),
			URLPath: fmt.Sprintf("/p%d/", i),
			Status:  domain.StatusPublished,
		}
	}
	project := testProject(domain.ExportConfig{SitemapMaxURLs: 60000})

	bundle, err := newTestExporter().BuildSitemaps(context.Background(), pages, project)
	if err != nil {
		t.Fatalf("build sitemaps: %v", err)
	}
	file, ok := bundle.Get("sitemap.xml")
	if !ok {
		t.Fatalf("expected sitemap.xml in %v", bundle.Paths())
	}
	if got := strings.Count(string(file.Content), "<url>"); got != domain.MaxSitemapURLs {
		t.Fatalf("expected %d urls, got %d", domain.MaxSitemapURLs, got)
	}
}

func TestBuildKeepsPathsInsideRoot(t *testing.T) {
	pages := []*domain.Page{page("Escape", "/../../escape/", domain.StatusPublished, nil)}
	bundle, err := newTestExporter().Build(context.Background(), pages, testProject(domain.ExportConfig{}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, path := range bundle.Paths() {
		if !filepath.IsLocal(filepath.FromSlash(path)) {
			t.Fatalf("bundle path %q leaves the root", path)
		}
	}
	if _, ok := bundle.Get("escape/index.html"); !ok {
		t.Fatalf("expected escape/index.html in %v", bundle.Paths())
	}
}

func TestDirWriterRefusesEscapingPaths(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "out")
	writer := DirWriter{Root: root}

	err := writer.WriteFile(context.Background(), File{Path: "../outside.html", Content: []byte("x")})
	if !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("expected unsafe path error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(parent, "outside.html")); !os.IsNotExist(err) {
		t.Fatalf("expected nothing written outside the root, stat err %v", err)
	}

	if err := writer.WriteFile(context.Background(), File{Path: "a/index.html", Content: []byte("ok")}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if data, err := os.ReadFile(filepath.Join(root, "a", "index.html")); err != nil || string(data) != "ok" {
		t.Fatalf("unexpected file %q %v", data, err)
	}
}

func TestDedupeLines(t *testing.T) {
	got := DedupeLines("a\n\nb\na\n  \nc")
	if got != "a\nb\nc\n" {
		t.Fatalf("unexpected dedupe %q", got)
	}
	if DedupeLines("\n \n") != "" {
		t.Fatalf("expected empty output")
	}
}
