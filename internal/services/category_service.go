// Package services orchestrates the store, the report engine and the export
// pipeline. All invariants are checked here before anything is written; the
// engine itself only ever sees valid rows.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"finctl/internal/core"
	"finctl/internal/report"
	"finctl/internal/storage"
)

// CategoryService manages default and custom categories for a user.
type CategoryService struct {
	storage *storage.SQLiteRepository
}

func NewCategoryService(storage *storage.SQLiteRepository) *CategoryService {
	return &CategoryService{storage: storage}
}

// Visible returns the raw category rows visible to a user, unordered.
func (s *CategoryService) Visible(ctx context.Context, userID int64) ([]core.Category, error) {
	categories, err := s.storage.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// List returns the user's visible categories partitioned by type, defaults
// before customs, names ascending.
func (s *CategoryService) List(ctx context.Context, userID int64) (report.CategorySet, error) {
	categories, err := s.storage.ListCategories(ctx, userID)
	if err != nil {
		return report.CategorySet{}, fmt.Errorf("list categories: %w", err)
	}
	return report.PartitionCategories(categories), nil
}

// ListByType returns the user's visible categories of one type, ordered as
// in List.
func (s *CategoryService) ListByType(ctx context.Context, userID int64, t core.ItemType) ([]core.Category, error) {
	if !t.Valid() {
		return nil, &core.ValidationError{Field: "type", Reason: `type must be "expense" or "income"`}
	}
	categories, err := s.storage.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	report.SortCategories(categories)
	return report.FilterByType(categories, t), nil
}

// Create adds a custom category, rejecting duplicates of the user's visible
// (name, type) pairs.
func (s *CategoryService) Create(ctx context.Context, c core.Category) (core.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.IsDefault = false
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	existing, err := s.storage.ListCategories(ctx, c.UserID)
	if err != nil {
		return core.Category{}, fmt.Errorf("list categories: %w", err)
	}
	if err := report.CheckDuplicateName(existing, c.Name, c.Type, c.UserID, 0); err != nil {
		return core.Category{}, err
	}

	id, err := s.storage.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, err
	}
	return s.storage.GetCategory(ctx, id, c.UserID)
}

// Update renames or restyles a custom category. Default categories are
// immutable and type changes are not allowed.
func (s *CategoryService) Update(ctx context.Context, userID, id int64, name, icon, color string) (core.Category, error) {
	current, err := s.storage.GetCategory(ctx, id, userID)
	if err != nil {
		return core.Category{}, err
	}
	if current.IsDefault {
		return core.Category{}, &core.IntegrityViolation{Reason: "default categories cannot be edited"}
	}
	if current.UserID != userID {
		return core.Category{}, core.ErrNotFound
	}

	updated := current
	updated.Name = strings.TrimSpace(name)
	updated.Icon = icon
	updated.Color = color
	if err := updated.Validate(); err != nil {
		return core.Category{}, err
	}

	existing, err := s.storage.ListCategories(ctx, userID)
	if err != nil {
		return core.Category{}, fmt.Errorf("list categories: %w", err)
	}
	if err := report.CheckDuplicateName(existing, updated.Name, updated.Type, userID, id); err != nil {
		return core.Category{}, err
	}

	if err := s.storage.UpdateCategory(ctx, updated); err != nil {
		return core.Category{}, err
	}

	slog.InfoContext(ctx, "Category updated", "id", id, "name", updated.Name, "user_id", userID)
	return s.storage.GetCategory(ctx, id, userID)
}

// Delete removes a custom category. Defaults and categories still referenced
// by transactions or recurring items are refused; nothing cascades.
func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	current, err := s.storage.GetCategory(ctx, id, userID)
	if err != nil {
		return err
	}
	if current.IsDefault {
		return &core.IntegrityViolation{Reason: "default categories cannot be deleted"}
	}
	if current.UserID != userID {
		return core.ErrNotFound
	}

	txCount, recurringCount, err := s.storage.CountCategoryRefs(ctx, id, userID)
	if err != nil {
		return err
	}
	if txCount > 0 {
		return &core.IntegrityViolation{Reason: "category has transactions and cannot be deleted"}
	}
	if recurringCount > 0 {
		return &core.IntegrityViolation{Reason: "category has recurring items and cannot be deleted"}
	}

	if err := s.storage.DeleteCategory(ctx, id, userID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Category deleted", "id", id, "user_id", userID)
	return nil
}
