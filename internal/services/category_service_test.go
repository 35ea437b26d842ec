package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finctl/internal/core"
	"finctl/internal/storage"
)

func newTestCategoryService(t *testing.T) (*CategoryService, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewCategoryService(repo), repo
}

func testDate(t *testing.T, s string) core.Date {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return core.Date{Time: parsed}
}

func createTestCategory(t *testing.T, svc *CategoryService, name string) core.Category {
	t.Helper()
	created, err := svc.Create(context.Background(), core.Category{
		Name: name, Icon: "X", Color: "#aabbcc", Type: core.Expense, UserID: 1,
	})
	if err != nil {
		t.Fatalf("Create category %q: %v", name, err)
	}
	return created
}

func TestDeleteCategoryWithTransactionIsRefused(t *testing.T) {
	svc, repo := newTestCategoryService(t)
	ctx := context.Background()

	cat := createTestCategory(t, svc, "Pets")
	txID, err := repo.CreateTransaction(ctx, core.Transaction{
		Description: "vet visit",
		Amount:      core.Money{Cents: 4500},
		Type:        core.Expense,
		CategoryID:  cat.ID,
		Date:        testDate(t, "2024-03-10"),
		UserID:      1,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	err = svc.Delete(ctx, 1, cat.ID)
	if !core.IsIntegrity(err) {
		t.Fatalf("Delete referenced category = %v; want IntegrityViolation", err)
	}

	// both rows survive the refused delete
	if _, err := repo.GetCategory(ctx, cat.ID, 1); err != nil {
		t.Fatalf("category gone after refused delete: %v", err)
	}
	got, err := repo.GetTransaction(ctx, txID, 1)
	if err != nil {
		t.Fatalf("transaction gone after refused delete: %v", err)
	}
	if got.CategoryID != cat.ID || got.Amount.Cents != 4500 {
		t.Fatalf("transaction changed after refused delete: %+v", got)
	}

	// removing the reference unblocks the delete
	if err := repo.DeleteTransaction(ctx, txID, 1); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if err := svc.Delete(ctx, 1, cat.ID); err != nil {
		t.Fatalf("Delete after clearing references = %v; want nil", err)
	}
}

func TestDeleteCategoryWithRecurringItemIsRefused(t *testing.T) {
	svc, repo := newTestCategoryService(t)
	ctx := context.Background()

	cat := createTestCategory(t, svc, "Subscriptions")
	itemID, err := repo.CreateRecurringItem(ctx, core.RecurringItem{
		Description: "streaming",
		Amount:      core.Money{Cents: 1299},
		Type:        core.Expense,
		CategoryID:  cat.ID,
		UserID:      1,
		Frequency:   core.Monthly,
		StartDate:   testDate(t, "2024-01-01"),
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("CreateRecurringItem: %v", err)
	}

	err = svc.Delete(ctx, 1, cat.ID)
	if !core.IsIntegrity(err) {
		t.Fatalf("Delete referenced category = %v; want IntegrityViolation", err)
	}

	if _, err := repo.GetCategory(ctx, cat.ID, 1); err != nil {
		t.Fatalf("category gone after refused delete: %v", err)
	}
	if _, err := repo.GetRecurringItem(ctx, itemID, 1); err != nil {
		t.Fatalf("recurring item gone after refused delete: %v", err)
	}
}

func TestDefaultCategoryCannotBeEditedOrDeleted(t *testing.T) {
	svc, repo := newTestCategoryService(t)
	ctx := context.Background()

	set, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	def := set.Expense[0]
	if !def.IsDefault {
		t.Fatalf("expected seeded default first, got %+v", def)
	}

	if _, err := svc.Update(ctx, 1, def.ID, "Hijacked", "X", "#000000"); !core.IsIntegrity(err) {
		t.Fatalf("Update default = %v; want IntegrityViolation", err)
	}
	if err := svc.Delete(ctx, 1, def.ID); !core.IsIntegrity(err) {
		t.Fatalf("Delete default = %v; want IntegrityViolation", err)
	}

	got, err := repo.GetCategory(ctx, def.ID, 1)
	if err != nil {
		t.Fatalf("default category gone: %v", err)
	}
	if got.Name != def.Name {
		t.Fatalf("default category renamed to %q; want %q", got.Name, def.Name)
	}
}

func TestDeleteCategoryOfOtherUserNotFound(t *testing.T) {
	svc, _ := newTestCategoryService(t)
	ctx := context.Background()

	cat := createTestCategory(t, svc, "Pets")
	if err := svc.Delete(ctx, 2, cat.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Delete as other user = %v; want ErrNotFound", err)
	}
}
