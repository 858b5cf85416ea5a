package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-sitegen/internal/storage"
)

func storageConfig(driver, dsn string) storage.Config {
	return storage.Config{Driver: driver, DSN: dsn}
}

func TestBuildModuleDefaultsToMemory(t *testing.T) {
	module, err := BuildModule(Options{LogLevel: "error"})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	defer module.Close()
	if module.Generation() == nil || module.Exporter() == nil {
		t.Fatal("expected generation and export services to be configured")
	}
	if module.Container().BunDB() != nil {
		t.Fatal("expected in-memory storage")
	}
}

func TestBuildModuleRejectsUnknownDriver(t *testing.T) {
	if _, err := BuildModule(Options{Storage: storageConfig("mysql", "")}); err == nil {
		t.Fatal("expected unknown driver error")
	}
}

func TestLoadEnvAndApply(t *testing.T) {
	dir := t.TempDir()
	if err := LoadEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("expected missing env file to be ignored, got %v", err)
	}

	t.Setenv(EnvStorageDriver, "")
	t.Setenv(EnvStorageDSN, "")
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SITEGEN_STORAGE_DRIVER=sqlite3\nSITEGEN_DSN=file:env.db\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	os.Unsetenv(EnvStorageDriver)
	os.Unsetenv(EnvStorageDSN)
	if err := LoadEnv(path); err != nil {
		t.Fatalf("load env: %v", err)
	}

	opts := Options{}
	opts.ApplyEnv()
	if opts.Storage.Driver != "sqlite3" || opts.Storage.DSN != "file:env.db" {
		t.Fatalf("expected storage from env, got %+v", opts.Storage)
	}

	explicit := Options{Storage: storageConfig("postgres", "postgres://db")}
	explicit.ApplyEnv()
	if explicit.Storage.Driver != "postgres" || explicit.Storage.DSN != "postgres://db" {
		t.Fatalf("expected explicit options to win, got %+v", explicit.Storage)
	}
}
