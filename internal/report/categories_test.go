package report

import (
	"testing"

	"finctl/internal/core"
)

func cat(id int64, name string, t core.ItemType, isDefault bool, userID int64) core.Category {
	return core.Category{ID: id, Name: name, Icon: "x", Color: "#000", Type: t, IsDefault: isDefault, UserID: userID}
}

func TestPartitionCategories(t *testing.T) {
	categories := []core.Category{
		cat(5, "viagem", core.Expense, false, 1),
		cat(1, "Salário", core.Income, true, 0),
		cat(2, "Transporte", core.Expense, true, 0),
		cat(3, "Alimentação", core.Expense, true, 0),
		cat(4, "Freelance", core.Income, false, 1),
	}

	set := PartitionCategories(categories)

	if len(set.Expense) != 3 || len(set.Income) != 2 {
		t.Fatalf("expected 3 expense / 2 income, got %d/%d", len(set.Expense), len(set.Income))
	}

	// Defaults first, then customs, names ascending case-insensitive.
	wantExpense := []int64{3, 2, 5}
	for i, want := range wantExpense {
		if set.Expense[i].ID != want {
			t.Fatalf("expense position %d: expected id %d, got %d", i, want, set.Expense[i].ID)
		}
	}
	if set.Income[0].ID != 1 || set.Income[1].ID != 4 {
		t.Fatalf("income partition out of order: %+v", set.Income)
	}
}

func TestFilterByType(t *testing.T) {
	categories := []core.Category{
		cat(1, "Salário", core.Income, true, 0),
		cat(2, "Transporte", core.Expense, true, 0),
	}
	expense := FilterByType(categories, core.Expense)
	if len(expense) != 1 || expense[0].ID != 2 {
		t.Fatalf("expected only the expense category, got %+v", expense)
	}
}

func TestCheckDuplicateName(t *testing.T) {
	existing := []core.Category{
		cat(1, "Alimentação", core.Expense, true, 0),
		cat(2, "Viagem", core.Expense, false, 1),
		cat(3, "Viagem", core.Expense, false, 2), // other user's custom
	}

	cases := []struct {
		name      string
		newName   string
		newType   core.ItemType
		userID    int64
		excludeID int64
		ok        bool
	}{
		{"fresh name", "Pets", core.Expense, 1, 0, true},
		{"same name other type", "Viagem", core.Income, 1, 0, true},
		{"duplicate of own custom", "Viagem", core.Expense, 1, 0, false},
		{"duplicate differs only in case", "  viagem ", core.Expense, 1, 0, false},
		{"duplicate of a default", "alimentação", core.Expense, 1, 0, false},
		{"other user's custom does not clash", "Viagem", core.Expense, 3, 0, true},
		{"rename to own current name", "Viagem", core.Expense, 1, 2, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckDuplicateName(existing, tc.newName, tc.newType, tc.userID, tc.excludeID)
			if tc.ok && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected IntegrityViolation")
				}
				if !core.IsIntegrity(err) {
					t.Fatalf("expected IntegrityViolation, got %T", err)
				}
			}
		})
	}
}
