package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrBatchSizeInvalid = errors.New("sitegen config: generation batch size must be positive")
var ErrDeleteBatchSizeInvalid = errors.New("sitegen config: delete batch size must be positive")
var ErrDefaultStatusInvalid = errors.New("sitegen config: default page status is invalid")
var ErrURLFormatInvalid = errors.New("sitegen config: default url format is invalid")
var ErrSitemapLimitInvalid = errors.New("sitegen config: sitemap url limit cannot be negative")
var ErrFetchTimeoutInvalid = errors.New("sitegen config: fetch timeout must be zero or positive")

// ErrStorageDriverUnknown reports an unsupported storage driver name.
var ErrStorageDriverUnknown = errors.New("sitegen config: storage driver is invalid")

// ErrStorageDSNRequired reports a postgres store configured without a DSN.
var ErrStorageDSNRequired = errors.New("sitegen config: storage dsn is required for postgres")

// ErrCacheRequiresRelationalStorage ensures caching only wraps a database backed store.
var ErrCacheRequiresRelationalStorage = errors.New("sitegen config: cache requires sqlite3 or postgres storage")
var ErrLoggingProviderUnknown = errors.New("sitegen config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitegen config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitegen config: logging format is invalid")

const maxSitemapURLs = 50000

// Config aggregates the tunables of the generation and export pipelines.
type Config struct {
	Generation GenerationConfig
	Export     ExportConfig
	Fetch      FetchConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Logging    LoggingConfig
}

// GenerationConfig controls how generated pages are persisted.
type GenerationConfig struct {
	BatchSize       int
	DeleteBatchSize int
	DefaultStatus   string
}

// ExportConfig holds fallbacks used when a project leaves export settings empty.
type ExportConfig struct {
	DefaultURLFormat string
	SitemapMaxURLs   int
}

// FetchConfig configures remote data source requests. A zero timeout keeps
// the HTTP client default.
type FetchConfig struct {
	Timeout time.Duration
}

// StorageConfig selects the page and template store.
type StorageConfig struct {
	Driver string
	DSN    string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns defaults suitable for a local in-memory run.
func DefaultConfig() Config {
	return Config{
		Generation: GenerationConfig{
			BatchSize:       10,
			DeleteBatchSize: 100,
			DefaultStatus:   "draft",
		},
		Export: ExportConfig{
			DefaultURLFormat: "pretty_slash",
			SitemapMaxURLs:   maxSitemapURLs,
		},
		Storage: StorageConfig{
			Driver: "memory",
		},
		Cache: CacheConfig{
			TTL: time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Generation.BatchSize <= 0 {
		return ErrBatchSizeInvalid
	}
	if cfg.Generation.DeleteBatchSize <= 0 {
		return ErrDeleteBatchSizeInvalid
	}
	if status := strings.TrimSpace(cfg.Generation.DefaultStatus); status != "" && !isSupportedStatus(status) {
		return fmt.Errorf("%w: %s", ErrDefaultStatusInvalid, status)
	}
	if format := strings.TrimSpace(cfg.Export.DefaultURLFormat); format != "" && !isSupportedURLFormat(format) {
		return fmt.Errorf("%w: %s", ErrURLFormatInvalid, format)
	}
	if cfg.Export.SitemapMaxURLs < 0 {
		return fmt.Errorf("%w: %d", ErrSitemapLimitInvalid, cfg.Export.SitemapMaxURLs)
	}
	if cfg.Fetch.Timeout < 0 {
		return ErrFetchTimeoutInvalid
	}

	driver := normalize(cfg.Storage.Driver)
	switch driver {
	case "", "memory", "sqlite3":
	case "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
	if cfg.Cache.Enabled && (driver == "" || driver == "memory") {
		return ErrCacheRequiresRelationalStorage
	}

	provider := normalize(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedStatus(status string) bool {
	switch normalize(status) {
	case "draft", "published", "archived":
		return true
	default:
		return false
	}
}

func isSupportedURLFormat(format string) bool {
	switch normalize(format) {
	case "pretty_slash", "pretty_no_slash", "html", "directory":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
