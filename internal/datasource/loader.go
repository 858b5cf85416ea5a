// Package datasource loads tabular data from CSV uploads, CSV URLs and
// Google Sheets.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Kind identifies where a source's rows come from.
type Kind string

const (
	KindUpload Kind = "upload"
	KindURL    Kind = "url"
	KindSheet  Kind = "sheet"
)

var ErrNoSources = errors.New("datasource: no data sources configured")

// Source describes one data source of a project.
type Source struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
	URL  string `json:"url,omitempty" yaml:"url"`
	// Data holds the CSV bytes of an upload.
	Data []byte `json:"-" yaml:"-"`
}

// Validate checks the fields required by the source kind.
func (s Source) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required),
		validation.Field(&s.Kind, validation.Required, validation.In(KindUpload, KindURL, KindSheet)),
		validation.Field(&s.URL, validation.When(s.Kind == KindURL || s.Kind == KindSheet, validation.Required)),
		validation.Field(&s.Data, validation.When(s.Kind == KindUpload, validation.Required)),
	)
}

// Loader resolves sources into tables. Parsed tables are cached per source
// id until a refresh is requested.
type Loader struct {
	fetcher *Fetcher
	logger  interfaces.Logger

	mu    sync.Mutex
	cache map[string]domain.Table
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFetcher overrides the HTTP fetcher.
func WithFetcher(fetcher *Fetcher) LoaderOption {
	return func(l *Loader) {
		if fetcher != nil {
			l.fetcher = fetcher
		}
	}
}

// WithLogger sets the loader logger.
func WithLogger(logger interfaces.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader builds a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher: NewFetcher(nil),
		logger:  logging.NoOp(),
		cache:   map[string]domain.Table{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// LoadOptions tunes a Load call.
type LoadOptions struct {
	// Refresh ignores cached tables and fetches every source again.
	Refresh bool
}

// Load resolves every source concurrently and concatenates their rows in
// source order.
func (l *Loader) Load(ctx context.Context, sources []Source, opts LoadOptions) (domain.Table, error) {
	if len(sources) == 0 {
		return domain.Table{}, goerrors.Wrap(ErrNoSources, goerrors.CategoryValidation, "no data source available").
			WithTextCode("DATASOURCE_MISSING")
	}
	for _, source := range sources {
		if err := source.Validate(); err != nil {
			return domain.Table{}, goerrors.Wrap(fmt.Errorf("source %q: %w", source.ID, err), goerrors.CategoryValidation, "invalid data source").
				WithTextCode("DATASOURCE_INVALID")
		}
	}

	tables := make([]domain.Table, len(sources))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, source := range sources {
		group.Go(func() error {
			table, err := l.loadOne(groupCtx, source, opts.Refresh)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return domain.Table{}, err
	}

	merged := domain.MergeTables(tables...)
	l.logger.WithContext(ctx).Info("datasource.load.completed",
		"sources", len(sources),
		"rows", merged.Len(),
		"columns", len(merged.Columns),
	)
	return merged, nil
}

func (l *Loader) loadOne(ctx context.Context, source Source, refresh bool) (domain.Table, error) {
	if !refresh {
		if table, ok := l.cached(source.ID); ok {
			return table, nil
		}
	}

	var (
		table domain.Table
		err   error
	)
	switch source.Kind {
	case KindUpload:
		table, err = ParseCSVBytes(source.Data)
		if err != nil {
			err = goerrors.Wrap(err, goerrors.CategoryValidation, "uploaded file is not valid CSV").
				WithTextCode(textCodeNotCSV)
		}
	case KindSheet:
		target, ok := SheetsCSVURL(source.URL)
		if !ok {
			target = strings.TrimSpace(source.URL)
		}
		table, err = l.fetch(ctx, source, target)
	default:
		table, err = l.fetch(ctx, source, strings.TrimSpace(source.URL))
	}
	if err != nil {
		return domain.Table{}, err
	}

	l.store(source.ID, table)
	return table, nil
}

func (l *Loader) fetch(ctx context.Context, source Source, target string) (domain.Table, error) {
	logger := logging.WithFields(l.logger, map[string]any{"source_id": source.ID, "url": target}).WithContext(ctx)
	logger.Debug("datasource.fetch.start")
	table, err := l.fetcher.Fetch(ctx, target)
	if err != nil {
		logger.Error("datasource.fetch.failed", "error", err)
		return domain.Table{}, err
	}
	logger.Info("datasource.fetch.success", "rows", table.Len())
	return table, nil
}

func (l *Loader) cached(id string) (domain.Table, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	table, ok := l.cache[id]
	return table, ok
}

func (l *Loader) store(id string, table domain.Table) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[id] = table
}
