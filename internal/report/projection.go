package report

import (
	"sort"

	"finctl/internal/core"
)

// FrequencyGroup is the count and raw sum of active recurring items sharing
// a (type, frequency) pair, plus that sum's monthly-equivalent value.
type FrequencyGroup struct {
	Type              core.ItemType
	Frequency         core.Frequency
	Count             int
	TotalAmount       core.Money
	MonthlyEquivalent core.Money
}

// Projection answers "what would a steady month look like given current
// recurring commitments". It is independent of the transaction ledger.
type Projection struct {
	Groups         []FrequencyGroup
	MonthlyIncome  core.Money
	MonthlyExpense core.Money
	MonthlyBalance core.Money
}

// Project groups the active recurring items by (type, frequency), converts
// each group's raw sum to a monthly-equivalent amount, and rolls the groups
// up by type. Inactive items are excluded unconditionally. Items are assumed
// valid (frequency recognized, amount positive); an unknown frequency left
// in the input surfaces as a ValidationError rather than being repaired.
func Project(items []core.RecurringItem) (Projection, error) {
	type key struct {
		t core.ItemType
		f core.Frequency
	}

	groups := make(map[key]*FrequencyGroup)
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		k := key{item.Type, item.Frequency}
		g, ok := groups[k]
		if !ok {
			g = &FrequencyGroup{Type: item.Type, Frequency: item.Frequency}
			groups[k] = g
		}
		g.Count++
		g.TotalAmount = g.TotalAmount.Add(item.Amount)
	}

	var p Projection
	for _, g := range groups {
		monthly, err := core.MonthlyEquivalent(g.TotalAmount, g.Frequency)
		if err != nil {
			return Projection{}, err
		}
		g.MonthlyEquivalent = monthly
		switch g.Type {
		case core.Income:
			p.MonthlyIncome = p.MonthlyIncome.Add(monthly)
		case core.Expense:
			p.MonthlyExpense = p.MonthlyExpense.Add(monthly)
		}
		p.Groups = append(p.Groups, *g)
	}
	p.MonthlyBalance = p.MonthlyIncome.Sub(p.MonthlyExpense)

	sort.Slice(p.Groups, func(i, j int) bool {
		a, b := p.Groups[i], p.Groups[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return frequencyRank(a.Frequency) < frequencyRank(b.Frequency)
	})

	return p, nil
}

func frequencyRank(f core.Frequency) int {
	for i, known := range core.Frequencies() {
		if f == known {
			return i
		}
	}
	return len(core.Frequencies())
}
