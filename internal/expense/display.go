package expense

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/paisa/internal/model"
)

// NoExpensesRow is the only row shown for an empty list. It is not
// selectable.
const NoExpensesRow = "No expenses found."

// Fields are the four values recovered from a display line.
type Fields struct {
	Title    string
	Amount   string
	Category string
	Date     string
}

// Draft converts parsed fields into a form draft.
func (f Fields) Draft() Draft {
	return Draft{Title: f.Title, Amount: f.Amount, Date: f.Date, Category: f.Category}
}

// FormatAmount renders an amount the way it has always been displayed:
// shortest round-trip digits, ".0" on whole numbers, and exponent notation
// outside 1e-4..1e16.
func FormatAmount(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	if exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:]); err == nil && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatLine renders "<title>: $<amount> [<category>] on <date>".
func FormatLine(e model.Expense) string {
	return fmt.Sprintf("%s: $%s [%s] on %s", e.Title, FormatAmount(e.Amount), e.Category, e.Date)
}

// ParseLine inverts FormatLine. Titles containing ": $", categories
// containing "[", or amounts containing " on " do not survive the trip.
func ParseLine(line string) (Fields, error) {
	if line == NoExpensesRow {
		return Fields{}, &ParseError{Line: line, Reason: "placeholder row"}
	}
	title, rest, ok := strings.Cut(line, ": $")
	if !ok {
		return Fields{}, &ParseError{Line: line, Reason: `missing ": $"`}
	}
	amountCat, date, ok := strings.Cut(rest, " on ")
	if !ok {
		return Fields{}, &ParseError{Line: line, Reason: `missing " on "`}
	}
	amount, category, ok := strings.Cut(amountCat, "[")
	if !ok {
		return Fields{}, &ParseError{Line: line, Reason: `missing "["`}
	}
	return Fields{
		Title:    title,
		Amount:   strings.TrimSpace(amount),
		Category: strings.TrimSuffix(category, "]"),
		Date:     date,
	}, nil
}
