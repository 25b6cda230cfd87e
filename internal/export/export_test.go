package export

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/mtlprog/assetdash/internal/domain"
)

type mockSource struct {
	assets []domain.Asset
	def    domain.TaxonomyVersion
}

func (m mockSource) Assets() []domain.Asset           { return m.assets }
func (m mockSource) Taxonomy() domain.TaxonomyVersion { return m.def }

type mockWriter struct {
	tables []Table
	err    error
}

func (m *mockWriter) Write(_ context.Context, tables []Table) error {
	m.tables = tables
	return m.err
}

type historyWriter struct {
	mockWriter
	appended int
	err      error
}

func (h *historyWriter) AppendHistory(context.Context, []domain.Asset, domain.TaxonomyVersion) error {
	h.appended++
	return h.err
}

func TestServiceExport(t *testing.T) {
	w := &mockWriter{}
	svc := NewService(mockSource{assets: sampleRecords()}, w)
	svc.now = func() time.Time { return testNow }

	if err := svc.Export(context.Background()); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(w.tables) != 2 {
		t.Errorf("wrote %d tables, want 2", len(w.tables))
	}
}

func TestServiceExportWriterError(t *testing.T) {
	w := &mockWriter{err: errors.New("quota exceeded")}
	svc := NewService(mockSource{}, w)

	if err := svc.Export(context.Background()); err == nil {
		t.Error("Export() error = nil, want writer error")
	}
}

func TestServiceExportHistory(t *testing.T) {
	w := &historyWriter{err: errors.New("append failed")}
	svc := NewService(mockSource{assets: sampleRecords()}, w)
	svc.now = func() time.Time { return testNow }

	if err := svc.Export(context.Background()); err != nil {
		t.Fatalf("Export() error = %v, want history failures ignored", err)
	}
	if w.appended != 1 {
		t.Errorf("history appended %d times, want 1", w.appended)
	}
}

func TestBuildHistoryRow(t *testing.T) {
	at := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

	headers, data := buildHistoryRow(sampleRecords(), domain.TaxonomyCurrent, at)
	wantHeaders := []any{"Date", "Month", "Total", "cash", "stocks", "bonds", "crypto", "other"}
	if !reflect.DeepEqual(headers, wantHeaders) {
		t.Errorf("headers = %v", headers)
	}
	want := []any{"2024-05-20", "2024-05", int64(5000), int64(0), int64(0), int64(0), int64(0), int64(5000)}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("data = %#v, want %#v", data, want)
	}

	_, empty := buildHistoryRow(nil, domain.TaxonomyCurrent, at)
	wantEmpty := []any{"2024-05-20", "", int64(0), int64(0), int64(0), int64(0), int64(0), int64(0)}
	if !reflect.DeepEqual(empty, wantEmpty) {
		t.Errorf("empty data = %#v", empty)
	}
}

func TestBuildHistoryRowLegacyOther(t *testing.T) {
	records := []domain.Asset{
		{Date: "2024-05-01", Category: domain.CategoryOther, Subcategory: "other_nft", Amount: 10},
	}
	_, data := buildHistoryRow(records, domain.TaxonomyLegacy, time.Now())
	if data[5] != int64(10) {
		t.Errorf("bonds = %v, want 10 under the legacy taxonomy", data[5])
	}
}
