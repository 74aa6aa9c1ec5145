// Package model defines the domain types shared by storage, CLI, and TUI.
package model

// Expense is one stored expense plus its store-assigned key.
type Expense struct {
	Key      string
	Title    string
	Amount   float64
	Date     string // YYYY-MM-DD
	Category string
}

// Record is the stored JSON shape of an expense. The title lives under
// "expense" so existing databases stay readable.
type Record struct {
	Title    string  `json:"expense"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
}

// Record returns the stored form of e.
func (e Expense) Record() Record {
	return Record{Title: e.Title, Amount: e.Amount, Date: e.Date, Category: e.Category}
}

// WithKey attaches a key to a stored record.
func (r Record) WithKey(key string) Expense {
	return Expense{Key: key, Title: r.Title, Amount: r.Amount, Date: r.Date, Category: r.Category}
}
