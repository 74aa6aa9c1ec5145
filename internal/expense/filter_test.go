package expense

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/paisa/internal/model"
)

var sample = []model.Expense{
	{Key: "1", Title: "Coffee", Amount: 4.5, Date: "2024-01-10", Category: "Food"},
	{Key: "2", Title: "Bus", Amount: 2.25, Date: "2024-01-11", Category: "Travel"},
	{Key: "3", Title: "Bagel", Amount: 3, Date: "2024-01-12", Category: "Food"},
	{Key: "4", Title: "Snack", Amount: 1, Date: "2024-01-12", Category: "food"},
}

func TestFilterOptions(t *testing.T) {
	assert.Equal(t, []string{AllCategories}, FilterOptions(nil))
	assert.Equal(t, []string{AllCategories, "Food", "Food"}, FilterOptions([]string{"Food", "Food"}))
}

func TestFormCategories(t *testing.T) {
	assert.Equal(t, []string{"Miscellaneous"}, FormCategories(nil))
	assert.Equal(t, []string{"Food"}, FormCategories([]string{"Food"}))
}

func TestApplyFilter(t *testing.T) {
	assert.Len(t, ApplyFilter(sample, AllCategories), 4)
	assert.Len(t, ApplyFilter(sample, ""), 4)

	food := ApplyFilter(sample, "Food")
	assert.Len(t, food, 2)
	for _, e := range food {
		assert.Equal(t, "Food", e.Category)
	}
	assert.Empty(t, ApplyFilter(sample, "Rent"))
}

func TestFilterUnionIsAll(t *testing.T) {
	seen := 0
	for _, c := range []string{"Food", "Travel", "food"} {
		seen += len(ApplyFilter(sample, c))
	}
	assert.Equal(t, len(ApplyFilter(sample, AllCategories)), seen)
}

func TestTotal(t *testing.T) {
	assert.Equal(t, "$0.00", FormatTotal(Total(nil)))
	assert.Equal(t, "$10.75", FormatTotal(Total(sample)))
	assert.Equal(t, "$0.30", FormatTotal(Total([]model.Expense{{Amount: 0.1}, {Amount: 0.2}})))
	assert.Equal(t, "$7.50", FormatTotal(Total(ApplyFilter(sample, "Food"))))
}

func TestTotalsByCategory(t *testing.T) {
	order, sums := TotalsByCategory(sample)
	assert.Equal(t, []string{"Food", "Travel", "food"}, order)
	assert.True(t, sums["Food"].Equal(decimal.RequireFromString("7.5")))
}
