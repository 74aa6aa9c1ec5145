package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/paisa/internal/model"
)

var expenses = []model.Expense{
	{Title: "Coffee", Amount: 4.5, Category: "Food"},
	{Title: "Bagel", Amount: 3.5, Category: "Food"},
	{Title: "Bus", Amount: 2, Category: "Travel"},
	{Title: "Refund", Amount: -5, Category: "Misc"},
}

func TestCategorySlices(t *testing.T) {
	slices := CategorySlices(expenses)
	require.Len(t, slices, 2)
	assert.Equal(t, "Food", slices[0].Category)
	assert.InDelta(t, 8.0, slices[0].Amount, 1e-9)
	assert.InDelta(t, 80.0, slices[0].Percent, 1e-9)
	assert.InDelta(t, 20.0, slices[1].Percent, 1e-9)
}

func TestCategoryPieRendersPNG(t *testing.T) {
	png, err := CategoryPie(expenses, 640, 480)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestCategoryPieNoData(t *testing.T) {
	_, err := CategoryPie(nil, 640, 480)
	assert.ErrorIs(t, err, ErrNoData)
}
