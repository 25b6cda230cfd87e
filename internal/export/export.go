// Package export lays the asset records out as fiscal-year monthly tables and
// writes them to spreadsheet destinations.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/assetdash/internal/domain"
)

// TableWriter writes monthly tables to a spreadsheet destination.
type TableWriter interface {
	Write(ctx context.Context, tables []Table) error
}

// HistoryAppender records one summary row per run.
type HistoryAppender interface {
	AppendHistory(ctx context.Context, records []domain.Asset, def domain.TaxonomyVersion) error
}

// Source provides the current asset list.
type Source interface {
	Assets() []domain.Asset
	Taxonomy() domain.TaxonomyVersion
}

// Service builds the tables from the current records and delegates writing.
type Service struct {
	source Source
	writer TableWriter
	now    func() time.Time
}

// NewService creates a new export Service.
func NewService(source Source, writer TableWriter) *Service {
	return &Service{source: source, writer: writer, now: time.Now}
}

// Export rebuilds every fiscal-year table and writes them. When the writer
// also keeps a history sheet, a summary row is appended; a failing append is
// logged and does not fail the export.
func (s *Service) Export(ctx context.Context) error {
	records := s.source.Assets()
	def := s.source.Taxonomy()

	tables := BuildMonthlyTables(records, def, s.now())
	if err := s.writer.Write(ctx, tables); err != nil {
		return fmt.Errorf("writing monthly tables: %w", err)
	}

	if h, ok := s.writer.(HistoryAppender); ok {
		if err := h.AppendHistory(ctx, records, def); err != nil {
			slog.Warn("export: history append failed", "error", err)
		}
	}

	slog.Info("export: tables written", "tables", len(tables), "records", len(records))
	return nil
}
