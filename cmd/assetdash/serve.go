package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/assetdash/internal/api"
	"github.com/mtlprog/assetdash/internal/export"
	"github.com/mtlprog/assetdash/internal/forecast"
	"github.com/mtlprog/assetdash/internal/worker"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and the spreadsheet sync",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port (overrides HTTP_PORT)"},
		},
		Action: withSession(runServe),
	}
}

func runServe(c *cli.Context, s *session) error {
	cfg := s.cfg
	if c.IsSet("port") {
		cfg.HTTPPort = c.String("port")
	}

	ctx, stop := context.WithCancel(c.Context)
	defer stop()

	slog.Info("records loaded",
		"assets", len(s.holdings.Assets()),
		"expenses", len(s.holdings.Expenses()),
		"backend", cfg.StorageBackend,
	)

	if cfg.SheetsEnabled() {
		writer, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.GoogleCredentialsJSON)
		if err != nil {
			return fmt.Errorf("creating sheets writer: %w", err)
		}
		syncWorker := worker.NewSyncWorker(export.NewService(s.holdings, writer), cfg.SyncInterval)
		s.holdings.OnChange(syncWorker.Trigger)
		go syncWorker.Run(ctx)
	} else {
		slog.Info("spreadsheet sync disabled")
	}

	forecaster := forecast.New(cfg.ForecastURL, cfg.ForecastAPIKey, cfg.ForecastRetryMax, cfg.ForecastTimeout)
	srv := api.NewServer(cfg.HTTPPort, s.holdings, forecaster, cfg.AppName, cfg.APIKey)

	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
