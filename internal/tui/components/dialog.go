package components

import (
	"github.com/theirongolddev/paisa/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Dialog renders a centered modal card. Error dialogs get a red border.
func Dialog(title, message, hint string, isError bool, width, height int) string {
	t := theme.Active

	border := t.BorderAccent
	titleColor := t.AccentBright
	if isError {
		border = t.Red
		titleColor = t.Red
	}

	maxW := width - 8
	if maxW > 60 {
		maxW = 60
	}
	if maxW < 20 {
		maxW = 20
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(t.Surface).
		Padding(1, 3).
		MaxWidth(maxW + 8)

	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Background(t.Surface).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(maxW)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	content := titleStyle.Render(title) + "\n\n" + bodyStyle.Render(message)
	if hint != "" {
		content += "\n\n" + hintStyle.Render(hint)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, cardStyle.Render(content),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// RenderHeader renders the one-line app header: name on the left, the
// signed-in user on the right.
func RenderHeader(title, user string, width int) string {
	t := theme.Active

	nameStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	userStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Background(t.Surface).Width(width)

	left := nameStyle.Render(" ◈ " + title)
	right := ""
	if user != "" {
		right = userStyle.Render(user + " ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Background(t.Surface).Width(gap).Render("")

	return rowStyle.Render(left + spacer + right)
}
