package report

import (
	"testing"

	"finctl/internal/core"
)

func recurring(id int64, t core.ItemType, cents int64, f core.Frequency, active bool) core.RecurringItem {
	return core.RecurringItem{
		ID:          id,
		Description: "item",
		Amount:      core.Money{Cents: cents},
		Type:        t,
		CategoryID:  1,
		UserID:      1,
		Frequency:   f,
		StartDate:   core.NewDate(2024, 1, 1),
		IsActive:    active,
	}
}

func TestProjectSteadyMonth(t *testing.T) {
	items := []core.RecurringItem{
		recurring(1, core.Expense, 10000, core.Monthly, true),
		recurring(2, core.Expense, 13000, core.Weekly, true),
		recurring(3, core.Income, 300000, core.Monthly, true),
	}

	p, err := Project(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 100 monthly + 130 weekly * 4.33 = 662.90
	if p.MonthlyExpense.Cents != 66290 {
		t.Fatalf("expected monthly expense 66290, got %d", p.MonthlyExpense.Cents)
	}
	if p.MonthlyIncome.Cents != 300000 {
		t.Fatalf("expected monthly income 300000, got %d", p.MonthlyIncome.Cents)
	}
	if p.MonthlyBalance.Cents != 233710 {
		t.Fatalf("expected monthly balance 233710, got %d", p.MonthlyBalance.Cents)
	}
}

func TestProjectGroupsByTypeAndFrequency(t *testing.T) {
	items := []core.RecurringItem{
		recurring(1, core.Expense, 5000, core.Weekly, true),
		recurring(2, core.Expense, 7000, core.Weekly, true),
		recurring(3, core.Expense, 90000, core.Monthly, true),
		recurring(4, core.Income, 120000, core.Yearly, true),
	}

	p, err := Project(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(p.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(p.Groups))
	}

	// Groups ordered by type, then frequency rank. Expense < income.
	weekly := p.Groups[0]
	if weekly.Type != core.Expense || weekly.Frequency != core.Weekly {
		t.Fatalf("expected expense/weekly group first, got %+v", weekly)
	}
	if weekly.Count != 2 || weekly.TotalAmount.Cents != 12000 {
		t.Fatalf("weekly group should sum both items: %+v", weekly)
	}
	// Normalization applies to the group sum: 120.00 * 4.33 = 519.60.
	if weekly.MonthlyEquivalent.Cents != 51960 {
		t.Fatalf("expected weekly group monthly equivalent 51960, got %d", weekly.MonthlyEquivalent.Cents)
	}

	if p.Groups[2].Type != core.Income || p.Groups[2].Frequency != core.Yearly {
		t.Fatalf("expected income/yearly group last, got %+v", p.Groups[2])
	}
}

func TestProjectExcludesInactive(t *testing.T) {
	items := []core.RecurringItem{
		recurring(1, core.Expense, 10000, core.Monthly, true),
		recurring(2, core.Expense, 99900, core.Monthly, false),
	}

	p, err := Project(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MonthlyExpense.Cents != 10000 {
		t.Fatalf("deactivated item must not contribute, got %d", p.MonthlyExpense.Cents)
	}

	// Deactivating the remaining item removes its contribution entirely.
	items[0].IsActive = false
	p, err = Project(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MonthlyExpense.Cents != 0 || p.MonthlyIncome.Cents != 0 || p.MonthlyBalance.Cents != 0 {
		t.Fatalf("all items inactive must yield zero projection, got %+v", p)
	}
	if len(p.Groups) != 0 {
		t.Fatalf("all items inactive must yield no groups, got %d", len(p.Groups))
	}
}

func TestProjectEmptyInput(t *testing.T) {
	p, err := Project(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MonthlyBalance.Cents != 0 || len(p.Groups) != 0 {
		t.Fatalf("empty input must yield zero projection, got %+v", p)
	}
}

func TestProjectUnknownFrequency(t *testing.T) {
	items := []core.RecurringItem{recurring(1, core.Expense, 100, "daily", true)}
	if _, err := Project(items); !core.IsValidation(err) {
		t.Fatalf("expected ValidationError for unknown frequency, got %v", err)
	}
}
