package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestFormatCurrency(t *testing.T) {
	cases := map[string]string{
		"0":        "$0.00",
		"4.5":      "$4.50",
		"1234.567": "$1,234.57",
		"-3":       "-$3.00",
		"1000000":  "$1,000,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrency(decimal.RequireFromString(in)), in)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "-1,000", FormatNumber(-1000))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "(not set)", MaskSecret(""))
	assert.Equal(t, "*****", MaskSecret("short"))
	assert.Equal(t, "AIzaSy...wxyz", MaskSecret("AIzaSyABCDEFGHIJKLMNOPwxyz"))
}

func TestRenderTableAlignment(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Title", "Amount"},
		Rows:    [][]string{{"Coffee", "4.5"}, {"Rent", "1200.0"}},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[3], "│ Coffee │    4.5 │")

	out = RenderTable(Table{
		Headers: []string{"Title", "Category"},
		Rows:    [][]string{{"Coffee", "Food"}},
		Right:   map[int]bool{},
	})
	assert.Contains(t, out, "│ Coffee │ Food     │")
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}
