package core

import (
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		Description: "groceries",
		Amount:      Money{Cents: 4250},
		Type:        Expense,
		CategoryID:  3,
		Date:        NewDate(2024, 3, 10),
		UserID:      1,
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected valid transaction, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"empty description", func(tx *Transaction) { tx.Description = "  " }},
		{"zero amount", func(tx *Transaction) { tx.Amount.Cents = 0 }},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -100 }},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }},
		{"missing category", func(tx *Transaction) { tx.CategoryID = 0 }},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			err := tx.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !IsValidation(err) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestCheckCategoryMatch(t *testing.T) {
	expenseCat := Category{ID: 3, Name: "Food", Type: Expense}

	if err := CheckCategoryMatch(Expense, expenseCat); err != nil {
		t.Fatalf("matching types should pass, got %v", err)
	}

	err := CheckCategoryMatch(Income, expenseCat)
	if err == nil {
		t.Fatal("income transaction with expense category must be rejected")
	}
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func validRecurringItem() RecurringItem {
	return RecurringItem{
		Description: "rent",
		Amount:      Money{Cents: 90000},
		Type:        Expense,
		CategoryID:  2,
		UserID:      1,
		Frequency:   Monthly,
		StartDate:   NewDate(2024, 1, 1),
		IsActive:    true,
	}
}

func TestRecurringItemValidate(t *testing.T) {
	if err := validRecurringItem().Validate(); err != nil {
		t.Fatalf("expected valid item, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*RecurringItem)
	}{
		{"unknown frequency", func(r *RecurringItem) { r.Frequency = "daily" }},
		{"empty frequency", func(r *RecurringItem) { r.Frequency = "" }},
		{"zero amount", func(r *RecurringItem) { r.Amount.Cents = 0 }},
		{"missing category", func(r *RecurringItem) { r.CategoryID = 0 }},
		{"missing start date", func(r *RecurringItem) { r.StartDate = Date{} }},
		{"end before start", func(r *RecurringItem) { r.EndDate = NewDate(2023, 12, 31) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := validRecurringItem()
			tc.mutate(&item)
			err := item.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !IsValidation(err) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
		})
	}

	// End date equal to start date is allowed.
	item := validRecurringItem()
	item.EndDate = item.StartDate
	if err := item.Validate(); err != nil {
		t.Fatalf("end date == start date should be valid, got %v", err)
	}
}

func TestCategoryValidate(t *testing.T) {
	valid := Category{Name: "Pets", Icon: "🐾", Color: "#8B4513", Type: Expense, UserID: 7}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid category, got %v", err)
	}

	ownerless := valid
	ownerless.UserID = 0
	if err := ownerless.Validate(); !IsValidation(err) {
		t.Fatalf("custom category without owner: expected ValidationError, got %v", err)
	}

	seeded := valid
	seeded.UserID = 0
	seeded.IsDefault = true
	if err := seeded.Validate(); err != nil {
		t.Fatalf("default category needs no owner, got %v", err)
	}

	short := valid
	short.Name = "x"
	if err := short.Validate(); !IsValidation(err) {
		t.Fatalf("single-character name: expected ValidationError, got %v", err)
	}
}

func TestDateIn(t *testing.T) {
	d := NewDate(2024, 3, 5)
	if !d.In(2024, time.March) {
		t.Fatal("2024-03-05 should be in March 2024")
	}
	if d.In(2024, time.February) {
		t.Fatal("2024-03-05 is not in February 2024")
	}
	if d.In(2023, time.March) {
		t.Fatal("2024-03-05 is not in March 2023")
	}
}
