package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mtlprog/assetdash/internal/domain"
)

var keys = []string{
	"STORAGE_BACKEND", "DATA_DIR", "DATABASE_PATH", "HTTP_PORT", "API_KEY", "LOG_LEVEL",
	"DEFAULT_TAXONOMY", "APP_NAME", "SHEETS_SPREADSHEET_ID", "GOOGLE_CREDENTIALS_JSON",
	"SYNC_INTERVAL", "FORECAST_URL", "FORECAST_API_KEY", "FORECAST_RETRY_MAX", "FORECAST_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	// Keep a developer's .env out of the test.
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.StorageBackend != BackendFile {
		t.Errorf("StorageBackend = %q, want file", cfg.StorageBackend)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("DataDir = %q, want ./data", cfg.DataDir)
	}
	if cfg.DatabasePath != "./data/assetdash.db" {
		t.Errorf("DatabasePath = %q, want default", cfg.DatabasePath)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.DefaultTaxonomy != domain.TaxonomyCurrent {
		t.Errorf("DefaultTaxonomy = %q, want current", cfg.DefaultTaxonomy)
	}
	if cfg.AppName != "資産管理ダッシュボード" {
		t.Errorf("AppName = %q, want default", cfg.AppName)
	}
	if cfg.SyncInterval != 24*time.Hour {
		t.Errorf("SyncInterval = %v, want 24h", cfg.SyncInterval)
	}
	if cfg.ForecastRetryMax != 3 {
		t.Errorf("ForecastRetryMax = %d, want 3", cfg.ForecastRetryMax)
	}
	if cfg.ForecastTimeout != 15*time.Second {
		t.Errorf("ForecastTimeout = %v, want 15s", cfg.ForecastTimeout)
	}
	if cfg.SheetsEnabled() {
		t.Error("SheetsEnabled() = true without credentials")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "SQLite")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DEFAULT_TAXONOMY", "legacy")
	t.Setenv("SYNC_INTERVAL", "1h")
	t.Setenv("FORECAST_RETRY_MAX", "0")
	t.Setenv("SHEETS_SPREADSHEET_ID", "sheet")
	t.Setenv("GOOGLE_CREDENTIALS_JSON", "{}")

	cfg := Load()

	if cfg.StorageBackend != BackendSQLite {
		t.Errorf("StorageBackend = %q, want sqlite", cfg.StorageBackend)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.DefaultTaxonomy != domain.TaxonomyLegacy {
		t.Errorf("DefaultTaxonomy = %q, want legacy", cfg.DefaultTaxonomy)
	}
	if cfg.SyncInterval != time.Hour {
		t.Errorf("SyncInterval = %v, want 1h", cfg.SyncInterval)
	}
	if cfg.ForecastRetryMax != 0 {
		t.Errorf("ForecastRetryMax = %d, want 0", cfg.ForecastRetryMax)
	}
	if !cfg.SheetsEnabled() {
		t.Error("SheetsEnabled() = false with id and credentials")
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DEFAULT_TAXONOMY", "v3")
	t.Setenv("FORECAST_RETRY_MAX", "not-a-number")
	t.Setenv("FORECAST_TIMEOUT", "invalid-duration")

	cfg := Load()

	if cfg.StorageBackend != BackendFile {
		t.Errorf("StorageBackend = %q, want default on invalid input", cfg.StorageBackend)
	}
	if cfg.DefaultTaxonomy != domain.TaxonomyCurrent {
		t.Errorf("DefaultTaxonomy = %q, want default on invalid input", cfg.DefaultTaxonomy)
	}
	if cfg.ForecastRetryMax != 3 {
		t.Errorf("ForecastRetryMax = %d, want default 3 on invalid input", cfg.ForecastRetryMax)
	}
	if cfg.ForecastTimeout != 15*time.Second {
		t.Errorf("ForecastTimeout = %v, want default 15s on invalid input", cfg.ForecastTimeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("HTTP_PORT=7070\nAPP_NAME=テスト\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_NAME", "from-env")
	t.Cleanup(func() { os.Unsetenv("HTTP_PORT") })

	LoadDotEnv(path)

	if got := os.Getenv("HTTP_PORT"); got != "7070" {
		t.Errorf("HTTP_PORT = %q, want value from file", got)
	}
	if got := os.Getenv("APP_NAME"); got != "from-env" {
		t.Errorf("APP_NAME = %q, want the environment to win", got)
	}

	// A missing file is not an error.
	LoadDotEnv(filepath.Join(dir, "missing.env"))
}
