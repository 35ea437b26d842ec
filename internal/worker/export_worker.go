// Package worker drains ledger events and reconciles the export status of
// transactions. The HTTP server publishes an event per mutation; the worker
// marks the row exported once the event for its current version has been
// delivered, and sweeps rows whose events were lost.
package worker

import (
	"context"
	"errors"
	"fmt"

	"finctl/internal/amqp"
	"finctl/internal/core"
	"finctl/internal/log"
	"finctl/internal/storage"
)

// LedgerStore is the slice of the repository the worker needs.
type LedgerStore interface {
	TransactionVersion(ctx context.Context, id int64) (int64, error)
	MarkExported(ctx context.Context, id, version int64) error
	MarkExportError(ctx context.Context, id int64) error
	PendingExports(ctx context.Context, limit int) ([]storage.PendingExport, error)
}

type ExportWorker struct {
	store     LedgerStore
	batchSize int
	logger    *log.Logger
}

func NewExportWorker(store LedgerStore, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		batchSize: batchSize,
		logger:    log.New(log.Config{Component: log.ComponentWorker}),
	}
}

// HandleLedgerEvent processes one consumed event. Returning an error causes
// a nack with requeue, so only transient failures propagate; stale or
// orphaned events are dropped.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	if event.Deleted {
		w.logger.InfoContext(ctx, "Transaction deletion acknowledged",
			log.FieldItemID, event.ID)
		return nil
	}

	current, err := w.store.TransactionVersion(ctx, event.ID)
	if errors.Is(err, core.ErrNotFound) {
		w.logger.InfoContext(ctx, "Transaction gone before export, dropping event",
			log.FieldItemID, event.ID, log.FieldVersion, event.Version)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction version: %w", err)
	}

	if current != event.Version {
		// A newer mutation already republished; its event settles the row.
		w.logger.InfoContext(ctx, "Stale ledger event, dropping",
			log.FieldItemID, event.ID,
			log.FieldVersion, event.Version,
			"current_version", current)
		return nil
	}

	if err := w.store.MarkExported(ctx, event.ID, event.Version); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("mark exported: %w", err)
	}

	w.logger.InfoContext(ctx, "Transaction exported",
		log.FieldItemID, event.ID, log.FieldVersion, event.Version)
	return nil
}

// ProcessPending sweeps transactions stuck in pending, typically because
// their publish failed or the event was lost. Individual failures flag the
// row and move on.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.PendingExports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "Sweeping pending exports", "count", len(pending))

	for _, p := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := w.store.MarkExported(ctx, p.ID, p.Version)
		if errors.Is(err, core.ErrNotFound) {
			// Row changed or vanished since the sweep query; next pass
			// picks up the new version.
			continue
		}
		if err != nil {
			w.logger.ErrorContext(ctx, "Pending export failed",
				log.FieldItemID, p.ID, log.FieldError, err.Error())
			if markErr := w.store.MarkExportError(ctx, p.ID); markErr != nil {
				w.logger.ErrorContext(ctx, "Failed to flag export error",
					log.FieldItemID, p.ID, log.FieldError, markErr.Error())
			}
			continue
		}

		w.logger.InfoContext(ctx, "Transaction exported",
			log.FieldItemID, p.ID, log.FieldVersion, p.Version,
			log.FieldOperation, log.OpExport)
	}
	return nil
}
