package bootstrap

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/internal/storage"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Environment variables read after the optional .env file is loaded.
const (
	EnvStorageDriver = "SITEGEN_STORAGE_DRIVER"
	EnvStorageDSN    = "SITEGEN_DSN"
	EnvLogLevel      = "SITEGEN_LOG_LEVEL"
	EnvLogFormat     = "SITEGEN_LOG_FORMAT"
)

// Options captures configuration for CLI bootstraps.
type Options struct {
	Storage        storage.Config
	LogLevel       string
	LogFormat      string
	FetchTimeout   time.Duration
	LoggerProvider interfaces.LoggerProvider
}

// LoadEnv loads path into the process environment. A missing file is not an
// error.
func LoadEnv(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env %s: %w", path, err)
	}
	return nil
}

// ApplyEnv fills empty options from the SITEGEN_* environment variables.
func (o *Options) ApplyEnv() {
	if strings.TrimSpace(o.Storage.Driver) == "" {
		o.Storage.Driver = os.Getenv(EnvStorageDriver)
	}
	if strings.TrimSpace(o.Storage.DSN) == "" {
		o.Storage.DSN = os.Getenv(EnvStorageDSN)
	}
	if strings.TrimSpace(o.LogLevel) == "" {
		o.LogLevel = os.Getenv(EnvLogLevel)
	}
	if strings.TrimSpace(o.LogFormat) == "" {
		o.LogFormat = os.Getenv(EnvLogFormat)
	}
}

// BuildModule constructs a sitegen module for a CLI run.
func BuildModule(opts Options) (*sitegen.Module, error) {
	cfg := sitegen.DefaultConfig()
	if driver := strings.TrimSpace(opts.Storage.Driver); driver != "" {
		cfg.Storage.Driver = driver
		cfg.Storage.DSN = strings.TrimSpace(opts.Storage.DSN)
	}
	cfg.Cache.Enabled = cfg.Storage.Driver == storage.DriverSQLite || cfg.Storage.Driver == storage.DriverPostgres
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "console"
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Format = format
	}

	if opts.FetchTimeout > 0 {
		cfg.Fetch.Timeout = opts.FetchTimeout
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := sitegen.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise sitegen module: %w", err)
	}
	return module, nil
}
