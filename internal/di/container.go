package di

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/commands/exportcmd"
	"github.com/goliatone/go-sitegen/internal/commands/generatecmd"
	"github.com/goliatone/go-sitegen/internal/datasource"
	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/export"
	"github.com/goliatone/go-sitegen/internal/generation"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/logging/gologger"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/internal/storage"
	"github.com/goliatone/go-sitegen/internal/templates"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Container wires the generation and export services for one configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB  *bun.DB
	ownsDB bool

	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	httpClient *http.Client
	now        func() time.Time

	pageRepo     pages.Repository
	templateRepo templates.Repository

	loader        *datasource.Loader
	markdown      *markdown.Converter
	generationSvc *generation.Service
	exporter      *export.Exporter

	generatePages    *generatecmd.GeneratePagesHandler
	generateLocalSEO *generatecmd.GenerateLocalSEOHandler
	clearLocalSEO    *generatecmd.ClearLocalSEOHandler
	exportSite       *exportcmd.ExportSiteHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds an existing database. The container never closes it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the template cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithHTTPClient overrides the client used to fetch remote data sources.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithClock overrides the time source used for page timestamps and exports.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// WithPageRepository overrides the page store.
func WithPageRepository(repo pages.Repository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

// WithTemplateRepository overrides the template store.
func WithTemplateRepository(repo templates.Repository) Option {
	return func(c *Container) {
		c.templateRepo = repo
	}
}

// NewContainer validates cfg and builds every service it describes.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.TTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureServices()
	c.configureCommands()

	c.logger.Info("container.configured",
		"storage", c.storageDriver(),
		"cache", c.cacheService != nil,
		"batch_size", cfg.Generation.BatchSize,
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider == nil {
		switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
		case "gologger", "console":
			format := c.Config.Logging.Format
			if strings.EqualFold(strings.TrimSpace(c.Config.Logging.Provider), "console") && strings.TrimSpace(format) == "" {
				format = "console"
			}
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    format,
				AddSource: c.Config.Logging.AddSource,
				Focus:     c.Config.Logging.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "sitegen")
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil {
		return nil
	}
	storageCfg := storage.Config{Driver: c.Config.Storage.Driver, DSN: c.Config.Storage.DSN}
	if !storageCfg.Relational() {
		return nil
	}
	db, err := storage.Open(storageCfg)
	if err != nil {
		return err
	}
	if err := storage.Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return fmt.Errorf("di: migrate: %w", err)
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		} else {
			c.logger.Warn("container.cache.disabled", "error", err)
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.pageRepo == nil {
		if c.bunDB != nil {
			c.pageRepo = pages.NewBunRepository(c.bunDB)
		} else {
			c.pageRepo = pages.NewMemoryRepository()
		}
	}
	if c.templateRepo == nil {
		switch {
		case c.bunDB != nil && c.cacheService != nil:
			c.templateRepo = templates.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		case c.bunDB != nil:
			c.templateRepo = templates.NewBunRepository(c.bunDB)
		default:
			c.templateRepo = templates.NewMemoryRepository()
		}
	}
}

func (c *Container) configureServices() {
	client := c.httpClient
	if client == nil && c.Config.Fetch.Timeout > 0 {
		client = &http.Client{Timeout: c.Config.Fetch.Timeout}
	}
	c.loader = datasource.NewLoader(
		datasource.WithFetcher(datasource.NewFetcher(client)),
		datasource.WithLogger(logging.DataSourceLogger(c.loggerProvider)),
	)
	c.markdown = markdown.NewConverter(markdown.Options{})

	status := domain.PageStatus(strings.ToLower(strings.TrimSpace(c.Config.Generation.DefaultStatus)))
	c.generationSvc = generation.NewService(c.pageRepo,
		generation.WithTemplates(c.templateRepo),
		generation.WithLoader(c.loader),
		generation.WithMarkdown(c.markdown),
		generation.WithLogger(logging.GenerationLogger(c.loggerProvider)),
		generation.WithNow(c.now),
		generation.WithBatchSize(c.Config.Generation.BatchSize),
		generation.WithDeleteBatchSize(c.Config.Generation.DeleteBatchSize),
		generation.WithDefaultStatus(status),
	)

	c.exporter = export.NewExporter(
		export.WithClock(c.now),
		export.WithLogger(logging.ExportLogger(c.loggerProvider)),
		export.WithDefaults(domain.URLFormat(c.Config.Export.DefaultURLFormat), c.Config.Export.SitemapMaxURLs),
	)
}

func (c *Container) configureCommands() {
	generateLogger := commands.CommandLogger(c.loggerProvider, "generate")
	c.generatePages = generatecmd.NewGeneratePagesHandler(c.generationSvc, generateLogger)
	c.generateLocalSEO = generatecmd.NewGenerateLocalSEOHandler(c.generationSvc, generateLogger)
	c.clearLocalSEO = generatecmd.NewClearLocalSEOHandler(c.generationSvc, generateLogger)
	c.exportSite = exportcmd.NewExportSiteHandler(c.generationSvc, c.exporter, commands.CommandLogger(c.loggerProvider, "export"))
}

func (c *Container) storageDriver() string {
	if c.bunDB != nil {
		return c.bunDB.Dialect().Name().String()
	}
	return storage.DriverMemory
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c == nil || !c.ownsDB || c.bunDB == nil {
		return nil
	}
	return c.bunDB.Close()
}

// Logger returns the root module logger.
func (c *Container) Logger() interfaces.Logger { return c.logger }

// LoggerProvider returns the provider backing module loggers, possibly nil.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// BunDB returns the bound database, or nil for in-memory storage.
func (c *Container) BunDB() *bun.DB { return c.bunDB }

// PageRepository returns the page store.
func (c *Container) PageRepository() pages.Repository { return c.pageRepo }

// TemplateRepository returns the template store.
func (c *Container) TemplateRepository() templates.Repository { return c.templateRepo }

// Loader returns the data source loader.
func (c *Container) Loader() *datasource.Loader { return c.loader }

// GenerationService returns the page generation service.
func (c *Container) GenerationService() *generation.Service { return c.generationSvc }

// Exporter returns the static exporter.
func (c *Container) Exporter() *export.Exporter { return c.exporter }

// GeneratePagesHandler returns the generate/regenerate command handler.
func (c *Container) GeneratePagesHandler() *generatecmd.GeneratePagesHandler { return c.generatePages }

// GenerateLocalSEOHandler returns the local-SEO generate command handler.
func (c *Container) GenerateLocalSEOHandler() *generatecmd.GenerateLocalSEOHandler {
	return c.generateLocalSEO
}

// ClearLocalSEOHandler returns the local-SEO clear command handler.
func (c *Container) ClearLocalSEOHandler() *generatecmd.ClearLocalSEOHandler { return c.clearLocalSEO }

// ExportSiteHandler returns the export command handler.
func (c *Container) ExportSiteHandler() *exportcmd.ExportSiteHandler { return c.exportSite }
