package report

import (
	"sort"
	"time"

	"finctl/internal/core"
)

// Scope filters the transaction set an aggregate is computed over. The zero
// value means all-time, all categories, both types.
type Scope struct {
	Year       int
	Month      time.Month // set together with Year
	CategoryID int64      // 0 = all categories
	Type       core.ItemType
}

// windowed reports whether the scope restricts to a (month, year) pair.
func (s Scope) windowed() bool {
	return s.Year != 0 && s.Month != 0
}

func (s Scope) matches(t core.Transaction) bool {
	if s.windowed() && !t.Date.In(s.Year, s.Month) {
		return false
	}
	if s.CategoryID != 0 && t.CategoryID != s.CategoryID {
		return false
	}
	if s.Type != "" && t.Type != s.Type {
		return false
	}
	return true
}

// CategoryTotal is a per-category subtotal tagged with display metadata.
type CategoryTotal struct {
	CategoryID int64
	Name       string
	Icon       string
	Color      string
	Type       core.ItemType
	Count      int
	Total      core.Money
}

// Summary holds income/expense totals and the running balance for a scope,
// with an optional per-category breakdown.
type Summary struct {
	TotalIncome  core.Money
	TotalExpense core.Money
	Balance      core.Money
	ByCategory   []CategoryTotal
}

// Summarize computes totals over the transactions matching the scope in a
// single pass. An empty or non-matching input yields a zero-valued summary,
// not an error. When breakdown is true, per-category subtotals are included,
// tagged from the joined category metadata and ordered by descending total
// (name ascending on ties).
func Summarize(transactions []core.Transaction, categories []core.Category, scope Scope, breakdown bool) Summary {
	var sum Summary

	byID := make(map[int64]core.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	var perCategory map[int64]*CategoryTotal
	if breakdown {
		perCategory = make(map[int64]*CategoryTotal)
	}

	for _, t := range transactions {
		if !scope.matches(t) {
			continue
		}
		switch t.Type {
		case core.Income:
			sum.TotalIncome = sum.TotalIncome.Add(t.Amount)
		case core.Expense:
			sum.TotalExpense = sum.TotalExpense.Add(t.Amount)
		}
		if breakdown {
			ct, ok := perCategory[t.CategoryID]
			if !ok {
				ct = &CategoryTotal{CategoryID: t.CategoryID, Type: t.Type}
				if c, found := byID[t.CategoryID]; found {
					ct.Name, ct.Icon, ct.Color = c.Name, c.Icon, c.Color
				}
				perCategory[t.CategoryID] = ct
			}
			ct.Count++
			ct.Total = ct.Total.Add(t.Amount)
		}
	}

	sum.Balance = sum.TotalIncome.Sub(sum.TotalExpense)

	if breakdown {
		sum.ByCategory = make([]CategoryTotal, 0, len(perCategory))
		for _, ct := range perCategory {
			sum.ByCategory = append(sum.ByCategory, *ct)
		}
		sort.Slice(sum.ByCategory, func(i, j int) bool {
			a, b := sum.ByCategory[i], sum.ByCategory[j]
			if a.Total.Cents != b.Total.Cents {
				return a.Total.Cents > b.Total.Cents
			}
			return a.Name < b.Name
		})
	}

	return sum
}

// Filter returns the transactions matching the scope, preserving order.
func Filter(transactions []core.Transaction, scope Scope) []core.Transaction {
	out := make([]core.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if scope.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortForListing orders most-recent-first: transaction date descending,
// ties broken by creation timestamp descending. Stable for entries equal on
// both keys.
func SortForListing(transactions []core.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		a, b := transactions[i], transactions[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.After(b.Date.Time)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
