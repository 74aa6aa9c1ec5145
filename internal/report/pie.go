// Package report renders expense charts.
package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/model"
)

// ErrNoData is returned when no category has a positive total.
var ErrNoData = errors.New("report: no positive expenses to chart")

// Slice is one wedge of the category pie.
type Slice struct {
	Category string
	Amount   float64
	Percent  float64
}

// CategorySlices totals expenses per category. Categories whose total is
// zero or negative cannot be drawn and are left out.
func CategorySlices(expenses []model.Expense) []Slice {
	order, sums := expense.TotalsByCategory(expenses)

	var total float64
	for _, c := range order {
		if v := sums[c].InexactFloat64(); v > 0 {
			total += v
		}
	}

	var slices []Slice
	for _, c := range order {
		v := sums[c].InexactFloat64()
		if v <= 0 {
			continue
		}
		slices = append(slices, Slice{Category: c, Amount: v, Percent: v / total * 100})
	}
	return slices
}

// CategoryPie renders a PNG pie chart of spending by category.
func CategoryPie(expenses []model.Expense, width, height int) ([]byte, error) {
	slices := CategorySlices(expenses)
	if len(slices) == 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: $%.2f (%.1f%%)", s.Category, s.Amount, s.Percent),
			Value: s.Amount,
		})
	}

	pie := chart.PieChart{
		Width:  width,
		Height: height,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   40,
				Right:  40,
				Bottom: 40,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buf := bytes.NewBuffer(nil)
	if err := pie.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("report: rendering pie chart: %w", err)
	}
	return buf.Bytes(), nil
}
