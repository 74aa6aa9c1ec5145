package expense

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/paisa/internal/model"
)

// DateLayout is the stored date format.
const DateLayout = "2006-01-02"

// Draft is the raw text of the expense form.
type Draft struct {
	Title    string
	Amount   string
	Date     string
	Category string
}

// Validate checks the draft and converts it to a storable record. Create and
// update share these rules: every field is required, the amount must be a
// finite number, and the date must be YYYY-MM-DD.
func (d Draft) Validate() (model.Record, error) {
	title := strings.TrimSpace(d.Title)
	amount := strings.TrimSpace(d.Amount)
	date := strings.TrimSpace(d.Date)
	category := strings.TrimSpace(d.Category)

	var missing []string
	for _, f := range []struct{ name, val string }{
		{"title", title}, {"amount", amount}, {"date", date}, {"category", category},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return model.Record{}, &RequiredFieldError{Fields: missing}
	}

	amt, err := ParseAmount(amount)
	if err != nil {
		return model.Record{}, err
	}
	value := amt.InexactFloat64()
	if math.IsInf(value, 0) {
		return model.Record{}, &ValidationError{Field: "amount", Value: amount, Message: MsgAmountNumeric}
	}

	if _, err := time.Parse(DateLayout, date); err != nil {
		return model.Record{}, &ValidationError{Field: "date", Value: date, Message: MsgDateFormat}
	}

	return model.Record{
		Title:    title,
		Amount:   value,
		Date:     date,
		Category: category,
	}, nil
}

// ParseAmount parses user input as a decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: "amount", Value: s, Message: MsgAmountNumeric}
	}
	return d, nil
}

// DraftOf fills a form draft from a stored expense.
func DraftOf(e model.Expense) Draft {
	return Draft{
		Title:    e.Title,
		Amount:   FormatAmount(e.Amount),
		Date:     e.Date,
		Category: e.Category,
	}
}
