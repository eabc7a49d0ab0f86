// Package stats derives the dashboard figures from the transaction list:
// totals, top category, budget-cap status and the seven-day expense trend.
package stats

import (
	"time"

	"finboard/internal/models"
)

// NoCategory is reported as the top category of an empty list.
const NoCategory = "-"

// TrendDays is the length of the expense trend window.
const TrendDays = 7

// Cap states.
const (
	CapWithin   = "within"
	CapExceeded = "exceeded"
)

// Summary holds every figure shown on the dashboard. Amounts are in the base
// currency; the *Formatted fields are rendered in the display currency.
type Summary struct {
	Currency          models.Currency `json:"currency"`
	Income            float64         `json:"income"`
	Expenses          float64         `json:"expenses"`
	Balance           float64         `json:"balance"`
	IncomeFormatted   string          `json:"incomeFormatted"`
	ExpensesFormatted string          `json:"expensesFormatted"`
	BalanceFormatted  string          `json:"balanceFormatted"`
	Records           int             `json:"records"`
	TopCategory       string          `json:"topCategory"`
	Cap               CapStatus       `json:"cap"`
	Trend             []TrendDay      `json:"trend"`
}

// CapStatus compares total expenses against the expense cap.
type CapStatus struct {
	Status    string  `json:"status"`
	Cap       float64 `json:"cap"`
	Remaining float64 `json:"remaining"`
	Overage   float64 `json:"overage"`
	Message   string  `json:"message"`
}

// Exceeded reports whether expenses are over the cap.
func (c CapStatus) Exceeded() bool { return c.Status == CapExceeded }

// TrendDay is one bar of the expense trend.
type TrendDay struct {
	Date      string  `json:"date"`
	Label     string  `json:"label"`
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
	Height    float64 `json:"height"`
}

// Compute derives the summary from txs under settings. today anchors the
// trend window; only its UTC calendar date is used.
func Compute(txs []models.Transaction, settings models.Settings, today time.Time) Summary {
	f := NewFormatter(settings)
	income, expenses := Totals(txs)
	balance := income - expenses

	return Summary{
		Currency:          settings.CurrentCurrency,
		Income:            income,
		Expenses:          expenses,
		Balance:           balance,
		IncomeFormatted:   f.Format(income),
		ExpensesFormatted: f.Format(expenses),
		BalanceFormatted:  f.Format(balance),
		Records:           len(txs),
		TopCategory:       TopCategory(txs),
		Cap:               Cap(expenses, settings),
		Trend:             Trend(txs, settings, today),
	}
}

// Totals sums income and expense amounts in list order.
func Totals(txs []models.Transaction) (income, expenses float64) {
	for _, t := range txs {
		switch t.Type {
		case models.TransactionTypeIncome:
			income += t.Amount
		case models.TransactionTypeExpense:
			expenses += t.Amount
		}
	}
	return income, expenses
}

// TopCategory returns the most frequent category. Categories are visited in
// order of first appearance and folded left from NoCategory, keeping the
// running winner only while its count is strictly greater; on a tie the
// category discovered later wins.
func TopCategory(txs []models.Transaction) string {
	counts := make(map[string]int)
	var order []string
	for _, t := range txs {
		if _, seen := counts[t.Category]; !seen {
			order = append(order, t.Category)
		}
		counts[t.Category]++
	}

	top := NoCategory
	for _, c := range order {
		if n, ok := counts[top]; ok && n > counts[c] {
			continue
		}
		top = c
	}
	return top
}

// Cap builds the budget status for the given expense total.
func Cap(expenses float64, settings models.Settings) CapStatus {
	f := NewFormatter(settings)
	remaining := settings.ExpenseCap - expenses

	if expenses > settings.ExpenseCap {
		overage := -remaining
		return CapStatus{
			Status:    CapExceeded,
			Cap:       settings.ExpenseCap,
			Remaining: remaining,
			Overage:   overage,
			Message:   "⚠️ Over budget by " + f.Format(overage),
		}
	}
	return CapStatus{
		Status:    CapWithin,
		Cap:       settings.ExpenseCap,
		Remaining: remaining,
		Message:   "✓ " + f.Format(remaining) + " remaining of " + f.Format(settings.ExpenseCap) + " budget",
	}
}

// Trend returns the daily expense totals for the TrendDays calendar days
// ending on today, oldest first. Heights are percentages of the largest day,
// with a floor of 1 on the denominator.
func Trend(txs []models.Transaction, settings models.Settings, today time.Time) []TrendDay {
	f := NewFormatter(settings)
	y, m, d := today.UTC().Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	days := make([]TrendDay, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		date := end.AddDate(0, 0, -i).Format(models.DateLayout)
		var amount float64
		for _, t := range txs {
			if t.Date == date && t.Type == models.TransactionTypeExpense {
				amount += t.Amount
			}
		}
		days = append(days, TrendDay{
			Date:      date,
			Label:     date[5:],
			Amount:    amount,
			Formatted: f.Format(amount),
		})
	}

	maxAmount := 1.0
	for _, day := range days {
		if day.Amount > maxAmount {
			maxAmount = day.Amount
		}
	}
	for i := range days {
		days[i].Height = days[i].Amount / maxAmount * 100
	}
	return days
}
