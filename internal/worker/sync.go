package worker

import (
	"context"
	"log/slog"
	"time"
)

// Exporter writes the current records to an external destination.
type Exporter interface {
	Export(ctx context.Context) error
}

// SyncWorker periodically exports the monthly tables.
type SyncWorker struct {
	exporter Exporter
	interval time.Duration
	trigger  chan struct{}
}

// NewSyncWorker creates a new SyncWorker.
func NewSyncWorker(exporter Exporter, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		exporter: exporter,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests an export outside the schedule. Requests made while one is
// already pending are merged.
func (w *SyncWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *SyncWorker) export(ctx context.Context, reason string) {
	if err := w.exporter.Export(ctx); err != nil {
		slog.Error("SyncWorker: export failed", "reason", reason, "error", err)
	} else {
		slog.Info("SyncWorker: export completed", "reason", reason)
	}
}

// Run starts the sync worker loop. It blocks until the context is cancelled.
func (w *SyncWorker) Run(ctx context.Context) {
	slog.Info("SyncWorker: starting", "interval", w.interval)

	// Export immediately on startup
	w.export(ctx, "startup")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("SyncWorker: shutting down")
			return
		case <-ticker.C:
			w.export(ctx, "schedule")
		case <-w.trigger:
			w.export(ctx, "trigger")
		}
	}
}
