package expense

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/paisa/internal/model"
)

// Total sums the amounts of expenses.
func Total(expenses []model.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(decimal.NewFromFloat(e.Amount))
	}
	return sum
}

// FormatTotal renders a total as "$X.XX".
func FormatTotal(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// TotalsByCategory sums amounts per category in first-seen order.
func TotalsByCategory(expenses []model.Expense) ([]string, map[string]decimal.Decimal) {
	var order []string
	sums := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		if _, ok := sums[e.Category]; !ok {
			order = append(order, e.Category)
			sums[e.Category] = decimal.Zero
		}
		sums[e.Category] = sums[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}
	return order, sums
}
