package services

import (
	"context"
	"fmt"
	"log/slog"

	"finctl/internal/amqp"
	"finctl/internal/core"
	"finctl/internal/report"
	"finctl/internal/storage"
)

// LedgerService manages transactions and their aggregates. Mutations are
// written to sqlite first and then announced on the export exchange;
// a failed publish never fails the request.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// List returns the user's transactions matching the scope, most recent
// first (date descending, creation time descending on ties).
func (s *LedgerService) List(ctx context.Context, userID int64, scope report.Scope) ([]core.Transaction, error) {
	transactions, err := s.storage.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	matched := report.Filter(transactions, scope)
	report.SortForListing(matched)
	return matched, nil
}

func (s *LedgerService) Get(ctx context.Context, userID, id int64) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id, userID)
}

// Create validates the transaction, enforces the category/type pairing and
// writes the row. The store never holds a transaction whose category type
// disagrees with its own.
func (s *LedgerService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := s.validate(ctx, t); err != nil {
		return core.Transaction{}, err
	}

	id, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishEvent(ctx, id, 1)
	return s.storage.GetTransaction(ctx, id, t.UserID)
}

// Update rewrites an existing transaction after the same validation as
// Create. Ownership is enforced by the store.
func (s *LedgerService) Update(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := s.validate(ctx, t); err != nil {
		return core.Transaction{}, err
	}

	if err := s.storage.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, err
	}

	if version, err := s.storage.TransactionVersion(ctx, t.ID); err == nil {
		s.publishEvent(ctx, t.ID, version)
	}
	return s.storage.GetTransaction(ctx, t.ID, t.UserID)
}

func (s *LedgerService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteTransaction(ctx, id, userID); err != nil {
		return err
	}
	s.publishDelete(ctx, id)
	return nil
}

// Summary aggregates the user's transactions over the scope, optionally
// with a per-category breakdown.
func (s *LedgerService) Summary(ctx context.Context, userID int64, scope report.Scope, breakdown bool) (report.Summary, error) {
	transactions, err := s.storage.ListTransactions(ctx, userID)
	if err != nil {
		return report.Summary{}, fmt.Errorf("list transactions: %w", err)
	}
	categories, err := s.storage.ListCategories(ctx, userID)
	if err != nil {
		return report.Summary{}, fmt.Errorf("list categories: %w", err)
	}
	return report.Summarize(transactions, categories, scope, breakdown), nil
}

func (s *LedgerService) validate(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	cat, err := s.storage.GetCategory(ctx, t.CategoryID, t.UserID)
	if err != nil {
		if err == core.ErrNotFound {
			return &core.ValidationError{Field: "category", Reason: "category does not exist"}
		}
		return err
	}
	return core.CheckCategoryMatch(t.Type, cat)
}

func (s *LedgerService) publishEvent(ctx context.Context, id, version int64) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping ledger event")
		return
	}
	if err := s.amqpClient.PublishLedgerEvent(ctx, id, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"id", id, "version", version, "error", err)
	}
}

func (s *LedgerService) publishDelete(ctx context.Context, id int64) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping ledger delete event")
		return
	}
	if err := s.amqpClient.PublishLedgerDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger delete event",
			"id", id, "error", err)
	}
}

// Close closes the storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
