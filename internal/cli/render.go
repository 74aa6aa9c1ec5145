package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (dark teal)
var (
	ColorBorder    = lipgloss.Color("#1F3B3A")
	ColorTextDim   = lipgloss.Color("#4F6F6C")
	ColorTextMuted = lipgloss.Color("#7FA39F")
	ColorText      = lipgloss.Color("#E0F2F1")
	ColorAccent    = lipgloss.Color("#26A69A")
	ColorGreen     = lipgloss.Color("#80CBC4")
	ColorRed       = lipgloss.Color("#EF5350")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	amountStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
	// Right lists right-aligned columns. When nil every column but the
	// first is right-aligned.
	Right map[int]bool
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows. A row holding
// the single cell "---" renders as a separator.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	widths := columnWidths(t)

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(widths, t.Headers, headerStyle, func(int) bool { return false }))
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	alignRight := func(i int) bool {
		if t.Right != nil {
			return t.Right[i]
		}
		return i > 0
	}
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}
		b.WriteString(line(widths, row, valueStyle, alignRight))
	}
	b.WriteString(rule(widths, "╰", "┴", "╯"))

	return b.String()
}

// columnWidths returns t.Widths, or the widest cell of each column.
func columnWidths(t Table) []int {
	n := len(t.Headers)
	if n == 0 {
		n = len(t.Rows[0])
	}
	widths := make([]int, n)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	grow := func(cells []string) {
		for i, c := range cells {
			if w := lipgloss.Width(c); i < n && w > widths[i] {
				widths[i] = w
			}
		}
	}
	grow(t.Headers)
	for _, row := range t.Rows {
		grow(row)
	}
	return widths
}

// rule draws a horizontal border with the given corner and junction runes.
func rule(widths []int, left, mid, right string) string {
	segs := make([]string, len(widths))
	for i, w := range widths {
		segs[i] = strings.Repeat("─", w+2)
	}
	return dimStyle.Render(left+strings.Join(segs, mid)+right) + "\n"
}

// line draws one row of cells between vertical borders.
func line(widths []int, cells []string, style lipgloss.Style, right func(int) bool) string {
	bar := dimStyle.Render("│")
	var b strings.Builder
	b.WriteString(bar)
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(style.Render(" " + pad(cell, w, right(i)) + " "))
		if i < len(widths)-1 {
			b.WriteString(bar)
		}
	}
	b.WriteString(bar + "\n")
	return b.String()
}

// pad fills s with spaces to display width w.
func pad(s string, w int, right bool) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// RenderTotal renders a "label  $X.XX" summary line.
func RenderTotal(label, amount string) string {
	return fmt.Sprintf("  %s %s", mutedStyle.Render(label), amountStyle.Render(amount))
}

// RenderError renders an error title and message for stderr.
func RenderError(title, message string) string {
	return errorStyle.Render(title+":") + " " + message
}

// RenderHorizontalBar renders a bar sized relative to maxValue.
func RenderHorizontalBar(value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 {
		return ""
	}
	barLen := int(value / maxValue * float64(maxWidth))
	if barLen < 0 {
		barLen = 0
	}
	return amountStyle.Render(strings.Repeat("█", barLen))
}
