package core

import (
	"strings"
	"time"
)

const (
	Expense ItemType = "expense"
	Income  ItemType = "income"
)

const (
	Weekly    Frequency = "weekly"
	Biweekly  Frequency = "biweekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

type (
	// ItemType classifies a category, transaction or recurring item as
	// money going out (expense) or coming in (income).
	ItemType string

	// Frequency is the cadence of a recurring item.
	Frequency string

	Date struct {
		time.Time
	}

	// Category labels transactions and recurring items. Default categories
	// are seeded by the store, shared by all users and immutable; custom
	// categories belong to exactly one user.
	Category struct {
		ID        int64
		Name      string
		Icon      string
		Color     string
		Type      ItemType
		IsDefault bool
		UserID    int64 // zero for default categories
		CreatedAt time.Time
	}

	// Transaction is a single point-in-time ledger entry. Its category must
	// carry the same type as the transaction itself.
	Transaction struct {
		ID          int64
		Description string
		Amount      Money
		Type        ItemType
		CategoryID  int64
		Date        Date
		UserID      int64
		CreatedAt   time.Time
	}

	// RecurringItem is a fixed income or expense definition. It is never
	// posted to the ledger; projections derive monthly figures from it.
	// Deactivation, not deletion, is how an item stops counting.
	RecurringItem struct {
		ID          int64
		Description string
		Amount      Money
		Type        ItemType
		CategoryID  int64
		UserID      int64
		Frequency   Frequency
		StartDate   Date
		EndDate     Date // optional; zero means open-ended
		IsActive    bool
		Notes       string
	}
)

const maxDescriptionLen = 200

func (t ItemType) Valid() bool {
	return t == Expense || t == Income
}

func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Reason: "date is required"}
	}
	return nil
}

// NewDate builds a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// In reports whether the date falls inside the given one-based month of year.
func (d Date) In(year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	if n := len(strings.TrimSpace(c.Name)); n < 2 || n > 100 {
		return &ValidationError{Field: "name", Reason: "name must be between 2 and 100 characters"}
	}
	if strings.TrimSpace(c.Icon) == "" {
		return &ValidationError{Field: "icon", Reason: "icon is required"}
	}
	if strings.TrimSpace(c.Color) == "" {
		return &ValidationError{Field: "color", Reason: "color is required"}
	}
	if !c.Type.Valid() {
		return &ValidationError{Field: "type", Reason: `type must be "expense" or "income"`}
	}
	if !c.IsDefault && c.UserID == 0 {
		return &ValidationError{Field: "user", Reason: "custom category requires an owner"}
	}
	return nil
}

// Validate checks the transaction's own fields. The category/type pairing is
// checked separately via CheckCategoryMatch because it needs the joined
// category row.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return &ValidationError{Field: "description", Reason: "description is required"}
	}
	if len(t.Description) > maxDescriptionLen {
		return &ValidationError{Field: "description", Reason: "description too long (max 200 characters)"}
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return &ValidationError{Field: "type", Reason: `type must be "expense" or "income"`}
	}
	if t.CategoryID == 0 {
		return &ValidationError{Field: "category", Reason: "category is required"}
	}
	return t.Date.Validate()
}

// CheckCategoryMatch enforces that a transaction or recurring item of the
// given type uses a category of the same type. The store never holds a row
// where the two disagree.
func CheckCategoryMatch(itemType ItemType, cat Category) error {
	if cat.Type != itemType {
		return &ValidationError{
			Field:  "category",
			Reason: "category type " + string(cat.Type) + " does not match " + string(itemType),
		}
	}
	return nil
}

func (r RecurringItem) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return &ValidationError{Field: "description", Reason: "description is required"}
	}
	if len(r.Description) > maxDescriptionLen {
		return &ValidationError{Field: "description", Reason: "description too long (max 200 characters)"}
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if !r.Type.Valid() {
		return &ValidationError{Field: "type", Reason: `type must be "expense" or "income"`}
	}
	if r.CategoryID == 0 {
		return &ValidationError{Field: "category", Reason: "category is required"}
	}
	if _, err := MultiplierFor(r.Frequency); err != nil {
		return err
	}
	if err := r.StartDate.Validate(); err != nil {
		return &ValidationError{Field: "start_date", Reason: "start date is required"}
	}
	if !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate.Time) {
		return &ValidationError{Field: "end_date", Reason: "end date must not be before start date"}
	}
	return nil
}
