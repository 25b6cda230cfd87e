package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/assetdash/internal/config"
	"github.com/mtlprog/assetdash/internal/database"
	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/holdings"
	"github.com/mtlprog/assetdash/internal/logger"
	"github.com/mtlprog/assetdash/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "assetdash",
		Usage: "personal asset dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Usage: "storage backend: file or sqlite"},
			&cli.StringFlag{Name: "data-dir", Usage: "directory of the file backend"},
			&cli.StringFlag{Name: "db", Usage: "database path of the sqlite backend"},
			&cli.StringFlag{Name: "taxonomy", Usage: "default taxonomy for untagged records: current or legacy"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.BoolFlag{Name: "log-json", Usage: "log as JSON"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			addCommand(),
			listCommand(),
			deleteCommand(),
			expenseCommand(),
			seriesCommand(),
			allocationCommand(),
			monthsCommand(),
			passwordCommand(),
			exportCommand(),
			importCommand(),
			forecastCommand(),
			reportCommand(),
			statusCommand(),
			clearCommand(),
		},
	}
}

// loadConfig reads the environment and applies the global flags on top.
func loadConfig(c *cli.Context) config.Config {
	cfg := config.Load()
	if c.IsSet("backend") {
		cfg.StorageBackend = c.String("backend")
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if c.IsSet("db") {
		cfg.DatabasePath = c.String("db")
	}
	if c.IsSet("taxonomy") {
		cfg.DefaultTaxonomy = domain.ParseTaxonomyVersion(c.String("taxonomy"))
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	logger.Init(cfg.LogLevel, c.Bool("log-json"))
	return cfg
}

// session is the opened store and the record lists loaded from it.
type session struct {
	cfg      config.Config
	gateway  *storage.Gateway
	holdings *holdings.Service
	close    func()
}

func openSession(c *cli.Context) (*session, error) {
	cfg := loadConfig(c)
	ctx := c.Context

	var kv storage.KV
	closeFn := func() {}

	switch cfg.StorageBackend {
	case config.BackendSQLite:
		db, err := database.Open(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		migrationsSub, err := fs.Sub(migrationsFS, "migrations")
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("creating migrations sub-fs: %w", err)
		}
		if err := database.RunMigrations(ctx, db, migrationsSub); err != nil {
			db.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		kv = storage.NewSQLiteKV(db)
		closeFn = func() {
			if err := db.Close(); err != nil {
				slog.Warn("failed to close database", "error", err)
			}
		}
	default:
		kv = storage.NewFileKV(cfg.DataDir)
	}

	gw := storage.NewGateway(kv)
	return &session{
		cfg:      cfg,
		gateway:  gw,
		holdings: holdings.NewService(ctx, gw, cfg.DefaultTaxonomy),
		close:    closeFn,
	}, nil
}

// withSession opens the store for the duration of fn.
func withSession(fn func(c *cli.Context, s *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := openSession(c)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(c, s)
	}
}
