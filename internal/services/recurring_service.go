package services

import (
	"context"
	"fmt"
	"log/slog"

	"finctl/internal/core"
	"finctl/internal/report"
	"finctl/internal/storage"
)

// RecurringService manages fixed income/expense definitions and their
// monthly projection. Items are deactivated, not deleted, to stop counting
// in projections; deletion exists for items created by mistake.
type RecurringService struct {
	storage *storage.SQLiteRepository
}

func NewRecurringService(storage *storage.SQLiteRepository) *RecurringService {
	return &RecurringService{storage: storage}
}

func (s *RecurringService) List(ctx context.Context, userID int64) ([]core.RecurringItem, error) {
	items, err := s.storage.ListRecurringItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recurring items: %w", err)
	}
	return items, nil
}

func (s *RecurringService) Get(ctx context.Context, userID, id int64) (core.RecurringItem, error) {
	return s.storage.GetRecurringItem(ctx, id, userID)
}

// Create validates the item (amount, frequency, dates, category pairing)
// before anything is written. Invalid items never reach the projection.
func (s *RecurringService) Create(ctx context.Context, item core.RecurringItem) (core.RecurringItem, error) {
	if err := s.validate(ctx, item); err != nil {
		return core.RecurringItem{}, err
	}

	id, err := s.storage.CreateRecurringItem(ctx, item)
	if err != nil {
		return core.RecurringItem{}, err
	}
	return s.storage.GetRecurringItem(ctx, id, item.UserID)
}

func (s *RecurringService) Update(ctx context.Context, item core.RecurringItem) (core.RecurringItem, error) {
	if err := s.validate(ctx, item); err != nil {
		return core.RecurringItem{}, err
	}

	if err := s.storage.UpdateRecurringItem(ctx, item); err != nil {
		return core.RecurringItem{}, err
	}

	slog.InfoContext(ctx, "Recurring item updated",
		"id", item.ID, "is_active", item.IsActive, "user_id", item.UserID)
	return s.storage.GetRecurringItem(ctx, item.ID, item.UserID)
}

// Deactivate flips the item inactive so the next projection drops its
// contribution entirely.
func (s *RecurringService) Deactivate(ctx context.Context, userID, id int64) (core.RecurringItem, error) {
	item, err := s.storage.GetRecurringItem(ctx, id, userID)
	if err != nil {
		return core.RecurringItem{}, err
	}
	if !item.IsActive {
		return item, nil
	}
	item.IsActive = false
	return s.Update(ctx, item)
}

func (s *RecurringService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteRecurringItem(ctx, id, userID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Recurring item deleted", "id", id, "user_id", userID)
	return nil
}

// Stats computes the monthly projection over the user's active items:
// per (type, frequency) counts and sums plus the monthly roll-up.
func (s *RecurringService) Stats(ctx context.Context, userID int64) (report.Projection, error) {
	items, err := s.storage.ListRecurringItems(ctx, userID)
	if err != nil {
		return report.Projection{}, fmt.Errorf("list recurring items: %w", err)
	}
	return report.Project(items)
}

func (s *RecurringService) validate(ctx context.Context, item core.RecurringItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	cat, err := s.storage.GetCategory(ctx, item.CategoryID, item.UserID)
	if err != nil {
		if err == core.ErrNotFound {
			return &core.ValidationError{Field: "category", Reason: "category does not exist"}
		}
		return err
	}
	return core.CheckCategoryMatch(item.Type, cat)
}
