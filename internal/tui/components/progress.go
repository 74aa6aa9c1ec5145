package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/paisa/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a share bar followed by its percentage.
// pct is a fraction in [0, 1]; values outside are clamped.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	if width < 1 {
		width = 1
	}
	if pct > 1 {
		pct = 1
	}
	if pct < 0 {
		pct = 0
	}
	filled := int(pct*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barColor lipgloss.Color
	switch {
	case pct >= 0.5:
		barColor = t.AccentBright
	default:
		barColor = t.Accent
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + pctStyle.Render(fmt.Sprintf(" %3.0f%%", pct*100))
}

// ShareRow renders "label  ████░░  42%" with the label padded to labelW.
func ShareRow(label string, pct float64, labelW, barW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if labelW < 2 {
		labelW = 2
	}
	runes := []rune(label)
	if len(runes) > labelW {
		label = string(runes[:labelW-1]) + "…"
	}
	pad := labelW - lipgloss.Width(label)
	if pad < 0 {
		pad = 0
	}

	return labelStyle.Render(label+strings.Repeat(" ", pad)+" ") + ProgressBar(pct, barW)
}
