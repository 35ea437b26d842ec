package http

import (
	"strings"

	"finctl/internal/core"
	"finctl/internal/report"
)

// amountField accepts a decimal amount sent either as a JSON string or a
// JSON number, e.g. "125.50" or 125.50.
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	*a = amountField(strings.Trim(string(b), `"`))
	return nil
}

func (a amountField) Cents() (int64, error) {
	return core.ParseDecimalToCents(string(a))
}

type categoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Type  string `json:"type"`
}

type transactionRequest struct {
	Description string      `json:"description"`
	Amount      amountField `json:"amount"`
	Type        string      `json:"type"`
	CategoryID  int64       `json:"category_id"`
	Date        string      `json:"date"`
}

type recurringRequest struct {
	Description string      `json:"description"`
	Amount      amountField `json:"amount"`
	Type        string      `json:"type"`
	CategoryID  int64       `json:"category_id"`
	Frequency   string      `json:"frequency"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	IsActive    *bool       `json:"is_active"`
	Notes       string      `json:"notes"`
}

type categoryJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	Type      string `json:"type"`
	IsDefault bool   `json:"is_default"`
}

type transactionJSON struct {
	ID            int64  `json:"id"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	AmountCents   int64  `json:"amount_cents"`
	Type          string `json:"type"`
	CategoryID    int64  `json:"category_id"`
	CategoryName  string `json:"category_name,omitempty"`
	CategoryIcon  string `json:"category_icon,omitempty"`
	CategoryColor string `json:"category_color,omitempty"`
	Date          string `json:"date"`
	CreatedAt     string `json:"created_at"`
}

type recurringJSON struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Type        string `json:"type"`
	CategoryID  int64  `json:"category_id"`
	Frequency   string `json:"frequency"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	IsActive    bool   `json:"is_active"`
	Notes       string `json:"notes,omitempty"`
}

type categoryTotalJSON struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	Type       string `json:"type"`
	Count      int    `json:"count"`
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
}

type summaryJSON struct {
	TotalIncome       string              `json:"total_income"`
	TotalIncomeCents  int64               `json:"total_income_cents"`
	TotalExpense      string              `json:"total_expense"`
	TotalExpenseCents int64               `json:"total_expense_cents"`
	Balance           string              `json:"balance"`
	BalanceCents      int64               `json:"balance_cents"`
	ByCategory        []categoryTotalJSON `json:"by_category,omitempty"`
}

type frequencyGroupJSON struct {
	Type                   string `json:"type"`
	Frequency              string `json:"frequency"`
	Count                  int    `json:"count"`
	TotalAmount            string `json:"total_amount"`
	TotalAmountCents       int64  `json:"total_amount_cents"`
	MonthlyEquivalent      string `json:"monthly_equivalent"`
	MonthlyEquivalentCents int64  `json:"monthly_equivalent_cents"`
}

type projectionJSON struct {
	Items         []frequencyGroupJSON `json:"items"`
	MonthlyTotals struct {
		Income       string `json:"income"`
		IncomeCents  int64  `json:"income_cents"`
		Expense      string `json:"expenses"`
		ExpenseCents int64  `json:"expenses_cents"`
		Balance      string `json:"balance"`
		BalanceCents int64  `json:"balance_cents"`
	} `json:"monthly_totals"`
}

const jsonDateLayout = "2006-01-02"

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{
		ID:        c.ID,
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		Type:      string(c.Type),
		IsDefault: c.IsDefault,
	}
}

func toCategoryListJSON(categories []core.Category) []categoryJSON {
	out := make([]categoryJSON, len(categories))
	for i, c := range categories {
		out[i] = toCategoryJSON(c)
	}
	return out
}

func toTransactionJSON(t core.Transaction, categories map[int64]core.Category) transactionJSON {
	out := transactionJSON{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount.String(),
		AmountCents: t.Amount.Cents,
		Type:        string(t.Type),
		CategoryID:  t.CategoryID,
		Date:        t.Date.Format(jsonDateLayout),
		CreatedAt:   t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if c, ok := categories[t.CategoryID]; ok {
		out.CategoryName, out.CategoryIcon, out.CategoryColor = c.Name, c.Icon, c.Color
	}
	return out
}

func toRecurringJSON(item core.RecurringItem) recurringJSON {
	out := recurringJSON{
		ID:          item.ID,
		Description: item.Description,
		Amount:      item.Amount.String(),
		AmountCents: item.Amount.Cents,
		Type:        string(item.Type),
		CategoryID:  item.CategoryID,
		Frequency:   string(item.Frequency),
		StartDate:   item.StartDate.Format(jsonDateLayout),
		IsActive:    item.IsActive,
		Notes:       item.Notes,
	}
	if !item.EndDate.IsZero() {
		out.EndDate = item.EndDate.Format(jsonDateLayout)
	}
	return out
}

func toSummaryJSON(sum report.Summary) summaryJSON {
	out := summaryJSON{
		TotalIncome:       sum.TotalIncome.String(),
		TotalIncomeCents:  sum.TotalIncome.Cents,
		TotalExpense:      sum.TotalExpense.String(),
		TotalExpenseCents: sum.TotalExpense.Cents,
		Balance:           sum.Balance.String(),
		BalanceCents:      sum.Balance.Cents,
	}
	for _, ct := range sum.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryTotalJSON{
			CategoryID: ct.CategoryID,
			Name:       ct.Name,
			Icon:       ct.Icon,
			Color:      ct.Color,
			Type:       string(ct.Type),
			Count:      ct.Count,
			Total:      ct.Total.String(),
			TotalCents: ct.Total.Cents,
		})
	}
	return out
}

func toProjectionJSON(p report.Projection) projectionJSON {
	var out projectionJSON
	out.Items = make([]frequencyGroupJSON, len(p.Groups))
	for i, g := range p.Groups {
		out.Items[i] = frequencyGroupJSON{
			Type:                   string(g.Type),
			Frequency:              string(g.Frequency),
			Count:                  g.Count,
			TotalAmount:            g.TotalAmount.String(),
			TotalAmountCents:       g.TotalAmount.Cents,
			MonthlyEquivalent:      g.MonthlyEquivalent.String(),
			MonthlyEquivalentCents: g.MonthlyEquivalent.Cents,
		}
	}
	out.MonthlyTotals.Income = p.MonthlyIncome.String()
	out.MonthlyTotals.IncomeCents = p.MonthlyIncome.Cents
	out.MonthlyTotals.Expense = p.MonthlyExpense.String()
	out.MonthlyTotals.ExpenseCents = p.MonthlyExpense.Cents
	out.MonthlyTotals.Balance = p.MonthlyBalance.String()
	out.MonthlyTotals.BalanceCents = p.MonthlyBalance.Cents
	return out
}
