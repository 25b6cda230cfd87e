package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/holdings"
)

type mockExporter struct {
	callCount atomic.Int32
	err       error
}

func (m *mockExporter) Export(_ context.Context) error {
	m.callCount.Add(1)
	return m.err
}

func TestSyncWorkerRunsAndShutdown(t *testing.T) {
	mock := &mockExporter{}
	w := NewSyncWorker(mock, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	// Should have run at least the initial export + some ticks
	if got := mock.callCount.Load(); got < 2 {
		t.Errorf("call count = %d, want >= 2", got)
	}
}

func TestSyncWorkerKeepsRunningAfterErrors(t *testing.T) {
	mock := &mockExporter{err: errors.New("sheets unavailable")}
	w := NewSyncWorker(mock, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := mock.callCount.Load(); got < 2 {
		t.Errorf("call count = %d, want retries after failures", got)
	}
}

func TestSyncWorkerTrigger(t *testing.T) {
	mock := &mockExporter{}
	w := NewSyncWorker(mock, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	w.Trigger()
	w.Trigger()

	deadline := time.After(time.Second)
	for mock.callCount.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("call count = %d, want startup plus triggered export", mock.callCount.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done

	if got := mock.callCount.Load(); got > 3 {
		t.Errorf("call count = %d, want pending triggers merged", got)
	}
}

type nopStore struct{}

func (nopStore) LoadAssets(context.Context) []domain.Asset      { return nil }
func (nopStore) SaveAssets(context.Context, []domain.Asset)     {}
func (nopStore) LoadExpenses(context.Context) []domain.Expense  { return nil }
func (nopStore) SaveExpenses(context.Context, []domain.Expense) {}

func TestSyncWorkerExportsAfterRecordChange(t *testing.T) {
	mock := &mockExporter{}
	w := NewSyncWorker(mock, time.Hour)

	svc := holdings.NewService(context.Background(), nopStore{}, domain.TaxonomyCurrent)
	svc.OnChange(w.Trigger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	_, err := svc.Add(context.Background(), domain.Asset{
		Date: "2024-01-15", Category: domain.CategoryCash, Subcategory: "bank_ordinary", Amount: 1000,
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	deadline := time.After(time.Second)
	for mock.callCount.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("call count = %d, want startup plus export after Add", mock.callCount.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}
