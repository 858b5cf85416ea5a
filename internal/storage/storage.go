// Package storage opens the relational page store and bootstraps its schema.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-sitegen/internal/domain"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

var (
	ErrUnsupportedDriver = errors.New("storage: unsupported driver")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

// Config selects the database backing page and template records.
type Config struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

// Relational reports whether cfg names a SQL driver rather than the in-memory
// store.
func (c Config) Relational() bool {
	driver := strings.TrimSpace(c.Driver)
	return driver == DriverSQLite || driver == DriverPostgres
}

// Open connects to the configured database and wraps it with the matching
// bun dialect.
func Open(cfg Config) (*bun.DB, error) {
	driver := strings.TrimSpace(cfg.Driver)
	dsn := strings.TrimSpace(cfg.DSN)
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		sqlDB, err := sql.Open(DriverSQLite, dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case DriverPostgres:
		if dsn == "" {
			return nil, ErrDSNRequired
		}
		sqlDB, err := sql.Open(DriverPostgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Models lists the tables owned by the module.
func Models() []any {
	return []any{
		(*domain.Template)(nil),
		(*domain.Page)(nil),
	}
}

// Migrate creates missing tables and indexes. Existing tables are left
// untouched.
func Migrate(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("storage: database not configured")
	}
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table %T: %w", model, err)
		}
	}
	indexes := []struct {
		name   string
		column string
	}{
		{name: "pages_project_id_idx", column: "project_id"},
		{name: "pages_template_id_idx", column: "template_id"},
	}
	for _, index := range indexes {
		if _, err := db.NewCreateIndex().
			Model((*domain.Page)(nil)).
			Index(index.name).
			Column(index.column).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("storage: create index %s: %w", index.name, err)
		}
	}
	return nil
}
