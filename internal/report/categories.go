// Package report is the pure computation engine: category partitioning,
// transaction aggregation and recurring projections over in-memory
// collections. Everything here is stateless and side-effect free; the same
// inputs always produce the same outputs.
package report

import (
	"sort"
	"strings"

	"finctl/internal/core"
)

// CategorySet is a user's visible categories partitioned by type: all
// default categories plus that user's custom ones.
type CategorySet struct {
	Expense []core.Category
	Income  []core.Category
}

// PartitionCategories splits the visible category set by type and orders
// each partition default-before-custom, then by name ascending
// (case-insensitive).
func PartitionCategories(categories []core.Category) CategorySet {
	sorted := make([]core.Category, len(categories))
	copy(sorted, categories)
	SortCategories(sorted)

	var set CategorySet
	for _, c := range sorted {
		switch c.Type {
		case core.Expense:
			set.Expense = append(set.Expense, c)
		case core.Income:
			set.Income = append(set.Income, c)
		}
	}
	return set
}

// SortCategories orders in place by type, then default-before-custom, then
// name ascending, case-insensitive.
func SortCategories(categories []core.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		a, b := categories[i], categories[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.IsDefault != b.IsDefault {
			return a.IsDefault
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// FilterByType returns the categories of the requested type, preserving
// input order.
func FilterByType(categories []core.Category, t core.ItemType) []core.Category {
	out := make([]core.Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// CheckDuplicateName rejects a new or renamed category whose normalized
// (name, type) pair already exists among the user's visible categories.
// excludeID skips the category being renamed; pass zero on creation.
func CheckDuplicateName(existing []core.Category, name string, t core.ItemType, userID, excludeID int64) error {
	normalized := normalizeName(name)
	for _, c := range existing {
		if c.ID == excludeID || c.Type != t {
			continue
		}
		// Defaults are visible to everyone; customs only clash within a user.
		if !c.IsDefault && c.UserID != userID {
			continue
		}
		if normalizeName(c.Name) == normalized {
			return &core.IntegrityViolation{
				Reason: "a category named " + strings.TrimSpace(name) + " already exists for this type",
			}
		}
	}
	return nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
