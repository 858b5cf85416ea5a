// Package export serializes a generated page set into a deployable static
// site archive.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/slugs"
	"github.com/goliatone/go-sitegen/internal/urlformat"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypeCSS  = "text/css; charset=utf-8"
	contentTypeJS   = "text/javascript; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"

	textCodeInvalidConfig = "EXPORT_INVALID_CONFIG"
)

var ErrInvalidConfig = errors.New("export: invalid export configuration")

// ErrUnsafePath reports a bundle path that would be written outside its root.
var ErrUnsafePath = errors.New("export: path escapes the output directory")

// Exporter builds export bundles.
type Exporter struct {
	now           func() time.Time
	logger        interfaces.Logger
	defaultFormat domain.URLFormat
	maxURLs       int
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock overrides the time source used for sitemap index dates and
// archive timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the exporter logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDefaults sets the url format and sitemap cap used when the project
// config leaves them empty.
func WithDefaults(format domain.URLFormat, maxURLs int) Option {
	return func(e *Exporter) {
		if urlformat.Valid(format) {
			e.defaultFormat = format
		}
		if maxURLs > 0 {
			e.maxURLs = min(maxURLs, domain.MaxSitemapURLs)
		}
	}
}

// NewExporter builds an exporter.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		now:           time.Now,
		logger:        logging.NoOp(),
		defaultFormat: domain.URLPrettySlash,
		maxURLs:       domain.MaxSitemapURLs,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// ValidateConfig checks an export configuration.
func ValidateConfig(cfg domain.ExportConfig) error {
	err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.URLFormat, validation.In(
			domain.URLPrettySlash, domain.URLPrettyNoSlash, domain.URLHTML, domain.URLDirectory,
		)),
		validation.Field(&cfg.SitemapMaxURLs, validation.Min(0)),
	)
	if err != nil {
		return goerrors.Wrap(fmt.Errorf("%w: %w", ErrInvalidConfig, err), goerrors.CategoryValidation, "invalid export configuration").
			WithTextCode(textCodeInvalidConfig)
	}
	return nil
}

// ArchiveName is the download name of a full export.
func ArchiveName(project domain.Project) string {
	return slugs.OrDefault(project.Slug, "export") + "-pages.zip"
}

// SitemapArchiveName is the download name of a sitemap-only export.
func SitemapArchiveName(cfg domain.ExportConfig) string {
	if cfg.SitemapSeparate {
		return "sitemaps.zip"
	}
	return "sitemap.zip"
}

func (e *Exporter) resolve(cfg domain.ExportConfig) (domain.ExportConfig, error) {
	if err := ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	if cfg.URLFormat == "" {
		cfg.URLFormat = e.defaultFormat
	}
	if cfg.SitemapMaxURLs <= 0 {
		cfg.SitemapMaxURLs = e.maxURLs
	}
	cfg.SitemapMaxURLs = min(cfg.SitemapMaxURLs, domain.MaxSitemapURLs)
	return cfg, nil
}

// Build produces the full site bundle: pages, optional split assets, the
// index page, sitemaps and robots.txt. Pages mapping to the same path
// overwrite each other in input order and index.html is written last.
func (e *Exporter) Build(ctx context.Context, pages []*domain.Page, project domain.Project) (*Bundle, error) {
	cfg, err := e.resolve(project.Export)
	if err != nil {
		return nil, err
	}
	logger := logging.WithRunContext(e.logger, project.ID.String(), "", "export.build").WithContext(ctx)

	baseURL := urlformat.ResolveDomain(cfg.CustomDomain, project.Slug)
	bundle := newBundle(ArchiveName(project))
	assets := &assetCollector{}
	links := make([]indexLink, 0, len(pages))

	for _, page := range pages {
		if page == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		source := pagePath(page)
		doc := page.GeneratedHTML
		if cfg.SplitAssets {
			doc = assets.split(doc)
		}
		bundle.Put(urlformat.OutputPath(source, cfg.URLFormat), []byte(doc), CategoryPage, contentTypeHTML)
		links = append(links, indexLink{
			Href:  urlformat.FormatURL(source, cfg.URLFormat),
			Title: firstNonEmpty(page.Title, page.Slug),
		})
	}

	if cfg.SplitAssets {
		if css := DedupeLines(assets.css.String()); css != "" {
			bundle.Put(StylesPath, []byte(css), CategoryAsset, contentTypeCSS)
		}
		if js := DedupeLines(assets.js.String()); js != "" {
			bundle.Put(ScriptsPath, []byte(js), CategoryAsset, contentTypeJS)
		}
	}

	index, err := buildIndex(project, baseURL, links)
	if err != nil {
		return nil, fmt.Errorf("export: index: %w", err)
	}
	bundle.Put(IndexPath, []byte(index), CategoryIndex, contentTypeHTML)

	e.putSitemaps(bundle, pages, cfg, baseURL)
	bundle.Put("robots.txt", []byte(BuildRobots(baseURL, project.Settings.RobotsTxt)), CategoryRobots, contentTypeText)

	logger.Info("export.bundle.built",
		"files", bundle.Len(),
		"pages", bundle.Count(CategoryPage),
		"sitemaps", bundle.Count(CategorySitemap),
		"assets", bundle.Count(CategoryAsset),
	)
	return bundle, nil
}

// BuildSitemaps produces a bundle holding only the sitemap files.
func (e *Exporter) BuildSitemaps(ctx context.Context, pages []*domain.Page, project domain.Project) (*Bundle, error) {
	cfg, err := e.resolve(project.Export)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bundle := newBundle(SitemapArchiveName(cfg))
	e.putSitemaps(bundle, pages, cfg, urlformat.ResolveDomain(cfg.CustomDomain, project.Slug))
	return bundle, nil
}

func (e *Exporter) putSitemaps(bundle *Bundle, pages []*domain.Page, cfg domain.ExportConfig, baseURL string) {
	now := e.now().UTC()
	candidates := SitemapCandidates(pages, cfg.SitemapMaxURLs)
	if !cfg.SitemapSeparate {
		flat := FlatSitemap(baseURL, candidates, now)
		bundle.Put(flat.Path, []byte(RenderURLSet(flat.Entries)), CategorySitemap, contentTypeXML)
		return
	}
	files := PartitionSitemaps(baseURL, candidates, now)
	for _, file := range files {
		bundle.Put(file.Path, []byte(RenderURLSet(file.Entries)), CategorySitemap, contentTypeXML)
	}
	bundle.Put(SitemapIndexPath, []byte(RenderSitemapIndex(baseURL, files, now)), CategorySitemap, contentTypeXML)
}

// Archive builds the full bundle and writes it as a ZIP archive to w. It
// returns the bundle so callers can report its name and contents.
func (e *Exporter) Archive(ctx context.Context, w io.Writer, pages []*domain.Page, project domain.Project) (*Bundle, error) {
	bundle, err := e.Build(ctx, pages, project)
	if err != nil {
		return nil, err
	}
	if err := WriteZip(ctx, w, bundle, e.archiveTime()); err != nil {
		return nil, err
	}
	return bundle, nil
}

// SitemapArchive writes the sitemap-only bundle as a ZIP archive to w.
func (e *Exporter) SitemapArchive(ctx context.Context, w io.Writer, pages []*domain.Page, project domain.Project) (*Bundle, error) {
	bundle, err := e.BuildSitemaps(ctx, pages, project)
	if err != nil {
		return nil, err
	}
	if err := WriteZip(ctx, w, bundle, e.archiveTime()); err != nil {
		return nil, err
	}
	return bundle, nil
}

// archiveTime truncates the clock to the day so entries match the sitemap
// lastmod granularity.
func (e *Exporter) archiveTime() time.Time {
	now := e.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func pagePath(page *domain.Page) string {
	if path := strings.TrimSpace(page.URLPath); path != "" {
		return path
	}
	return "/" + page.Slug
}
