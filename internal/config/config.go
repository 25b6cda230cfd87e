package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mtlprog/assetdash/internal/domain"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	StorageBackend        string
	DataDir               string
	DatabasePath          string
	HTTPPort              string
	APIKey                string
	LogLevel              string
	DefaultTaxonomy       domain.TaxonomyVersion
	AppName               string
	SheetsSpreadsheetID   string
	GoogleCredentialsJSON string
	SyncInterval          time.Duration
	ForecastURL           string
	ForecastAPIKey        string
	ForecastRetryMax      int
	ForecastTimeout       time.Duration
}

// Load reads an optional .env file and then the environment, with sensible
// defaults. Variables already set in the environment win over the file.
func Load() Config {
	LoadDotEnv(".env")

	return Config{
		StorageBackend:        envOrDefaultChoice("STORAGE_BACKEND", BackendFile, BackendFile, BackendSQLite),
		DataDir:               envOrDefault("DATA_DIR", "./data"),
		DatabasePath:          envOrDefault("DATABASE_PATH", "./data/assetdash.db"),
		HTTPPort:              envOrDefault("HTTP_PORT", "8080"),
		APIKey:                os.Getenv("API_KEY"),
		LogLevel:              envOrDefault("LOG_LEVEL", "info"),
		DefaultTaxonomy:       domain.TaxonomyVersion(envOrDefaultChoice("DEFAULT_TAXONOMY", string(domain.TaxonomyCurrent), string(domain.TaxonomyCurrent), string(domain.TaxonomyLegacy))),
		AppName:               envOrDefault("APP_NAME", "資産管理ダッシュボード"),
		SheetsSpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),
		GoogleCredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		SyncInterval:          envOrDefaultDuration("SYNC_INTERVAL", 24*time.Hour),
		ForecastURL:           os.Getenv("FORECAST_URL"),
		ForecastAPIKey:        os.Getenv("FORECAST_API_KEY"),
		ForecastRetryMax:      envOrDefaultInt("FORECAST_RETRY_MAX", 3),
		ForecastTimeout:       envOrDefaultDuration("FORECAST_TIMEOUT", 15*time.Second),
	}
}

// SheetsEnabled reports whether spreadsheet sync is configured.
func (c Config) SheetsEnabled() bool {
	return c.SheetsSpreadsheetID != "" && c.GoogleCredentialsJSON != ""
}

// LoadDotEnv loads path into the environment if it exists.
func LoadDotEnv(path string) {
	err := godotenv.Load(path)
	switch {
	case err == nil:
		slog.Debug("loaded env file", "path", path)
	case errors.Is(err, fs.ErrNotExist):
	default:
		slog.Warn("failed to load env file", "path", path, "error", err)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultChoice(key, defaultVal string, allowed ...string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	slog.Warn("invalid env var, using default", "key", key, "value", v, "default", defaultVal)
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
