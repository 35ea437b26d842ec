package worker

import (
	"context"
	"errors"
	"testing"

	"finctl/internal/amqp"
	"finctl/internal/core"
	"finctl/internal/storage"
)

type fakeStore struct {
	versions map[int64]int64
	pending  []storage.PendingExport

	exported    map[int64]int64
	errored     map[int64]bool
	markFailure error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		versions: make(map[int64]int64),
		exported: make(map[int64]int64),
		errored:  make(map[int64]bool),
	}
}

func (f *fakeStore) TransactionVersion(_ context.Context, id int64) (int64, error) {
	v, ok := f.versions[id]
	if !ok {
		return 0, core.ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) MarkExported(_ context.Context, id, version int64) error {
	if f.markFailure != nil {
		return f.markFailure
	}
	if f.versions[id] != version {
		return core.ErrNotFound
	}
	f.exported[id] = version
	return nil
}

func (f *fakeStore) MarkExportError(_ context.Context, id int64) error {
	f.errored[id] = true
	return nil
}

func (f *fakeStore) PendingExports(_ context.Context, limit int) ([]storage.PendingExport, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func TestHandleLedgerEventMarksCurrentVersion(t *testing.T) {
	store := newFakeStore()
	store.versions[7] = 3

	w := NewExportWorker(store, 10)
	err := w.HandleLedgerEvent(context.Background(), &amqp.LedgerEvent{ID: 7, Version: 3})
	if err != nil {
		t.Fatalf("HandleLedgerEvent: %v", err)
	}
	if store.exported[7] != 3 {
		t.Fatalf("exported[7] = %d; want 3", store.exported[7])
	}
}

func TestHandleLedgerEventDropsStale(t *testing.T) {
	store := newFakeStore()
	store.versions[7] = 5

	w := NewExportWorker(store, 10)
	if err := w.HandleLedgerEvent(context.Background(), &amqp.LedgerEvent{ID: 7, Version: 3}); err != nil {
		t.Fatalf("stale event should be dropped, got %v", err)
	}
	if len(store.exported) != 0 {
		t.Fatal("stale event must not mark anything exported")
	}
}

func TestHandleLedgerEventDropsMissingTransaction(t *testing.T) {
	store := newFakeStore()

	w := NewExportWorker(store, 10)
	if err := w.HandleLedgerEvent(context.Background(), &amqp.LedgerEvent{ID: 99, Version: 1}); err != nil {
		t.Fatalf("event for missing transaction should be dropped, got %v", err)
	}
}

func TestHandleLedgerEventDeleteIsNoop(t *testing.T) {
	store := newFakeStore()
	store.versions[7] = 1

	w := NewExportWorker(store, 10)
	if err := w.HandleLedgerEvent(context.Background(), &amqp.LedgerEvent{ID: 7, Deleted: true}); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if len(store.exported) != 0 {
		t.Fatal("delete event must not mark anything exported")
	}
}

func TestProcessPendingSweepsBatch(t *testing.T) {
	store := newFakeStore()
	store.versions[1] = 1
	store.versions[2] = 4
	store.pending = []storage.PendingExport{{ID: 1, Version: 1}, {ID: 2, Version: 4}}

	w := NewExportWorker(store, 10)
	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if store.exported[1] != 1 || store.exported[2] != 4 {
		t.Fatalf("exported = %v; want both rows marked", store.exported)
	}
}

func TestProcessPendingFlagsFailures(t *testing.T) {
	store := newFakeStore()
	store.versions[1] = 1
	store.pending = []storage.PendingExport{{ID: 1, Version: 1}}
	store.markFailure = errors.New("disk full")

	w := NewExportWorker(store, 10)
	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending should continue past row failures, got %v", err)
	}
	if !store.errored[1] {
		t.Fatal("failed row should be flagged with export error")
	}
}
