package expense

import "github.com/theirongolddev/paisa/internal/model"

// AllCategories is the first filter option and disables filtering.
const AllCategories = "All Categories"

// DefaultCategory is offered by the entry form when the user has none.
const DefaultCategory = "Miscellaneous"

// FilterOptions returns the filter selector entries. Duplicates are kept.
func FilterOptions(categories []string) []string {
	opts := make([]string, 0, len(categories)+1)
	opts = append(opts, AllCategories)
	return append(opts, categories...)
}

// FormCategories returns the entry-form selector entries, falling back to
// DefaultCategory so there is always something to pick.
func FormCategories(categories []string) []string {
	if len(categories) == 0 {
		return []string{DefaultCategory}
	}
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// ApplyFilter keeps the expenses whose category equals selected exactly.
// AllCategories and the empty string keep everything.
func ApplyFilter(expenses []model.Expense, selected string) []model.Expense {
	if selected == "" || selected == AllCategories {
		return expenses
	}
	out := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == selected {
			out = append(out, e)
		}
	}
	return out
}
