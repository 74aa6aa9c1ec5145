package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/paisa/internal/cli"
	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/model"
	"github.com/theirongolddev/paisa/internal/tui/components"
	"github.com/theirongolddev/paisa/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) viewExpenses(cw, h int) string {
	t := theme.Active

	if a.exp.categoryForm != nil {
		card := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderAccent).
			Padding(1, 2).
			Render(a.exp.categoryForm.View() + "\n\n" +
				lipgloss.NewStyle().Foreground(t.TextDim).Render("enter save · esc cancel"))
		return lipgloss.Place(cw, h, lipgloss.Center, lipgloss.Center, card,
			lipgloss.WithWhitespaceBackground(t.Background))
	}

	leftW := cw * 2 / 5
	if leftW < 40 {
		leftW = 40
	}
	rightW := cw - leftW

	left := lipgloss.JoinVertical(lipgloss.Left,
		a.renderExpenseForm(leftW),
		a.renderBreakdown(leftW),
	)
	right := a.renderExpenseList(rightW)

	return components.CardRow([]string{left, right})
}

func (a App) renderExpenseForm(w int) string {
	t := theme.Active
	s := a.exp

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(10)
	activeLabel := labelStyle.Foreground(t.Accent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	label := func(f focus, text string) string {
		if s.focus == f {
			return activeLabel.Render(text)
		}
		return labelStyle.Render(text)
	}

	var b strings.Builder
	b.WriteString(label(focusTitle, "Title:") + s.title.View() + "\n")
	b.WriteString(label(focusAmount, "Amount:") + s.amount.View() + "\n")
	b.WriteString(label(focusDate, "Date:") + s.date.View() + "\n")
	b.WriteString(label(focusCategory, "Category:") +
		picker(s.currentCategory(), s.focus == focusCategory, components.CardInnerWidth(w)-10) + "\n\n")

	selected := s.selected != nil
	b.WriteString(action(a.keys.Add, true) + valueStyle.Render("  ") +
		action(a.keys.Edit, selected) + valueStyle.Render("  ") +
		action(a.keys.Delete, selected) + valueStyle.Render("  ") +
		action(a.keys.NewCategory, true))

	title := "New Expense"
	if selected {
		title = "Editing " + truncStr(s.selected.Title, components.CardInnerWidth(w)-10)
	}
	return components.FocusCard(title, b.String(), w, s.focus.inForm())
}

// action renders a key hint, dimmed when the action is unavailable.
func action(b key.Binding, enabled bool) string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if !enabled {
		keyStyle = lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		descStyle = keyStyle
	}
	h := b.Help()
	return keyStyle.Render(h.Key) + descStyle.Render(" "+h.Desc)
}

// picker renders a left/right selector value.
func picker(value string, focused bool, width int) string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	arrow := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if focused {
		style = style.Foreground(t.AccentBright).Bold(true)
		arrow = arrow.Foreground(t.Accent)
	}
	return arrow.Render("‹ ") + style.Render(truncStr(value, width-4)) + arrow.Render(" ›")
}

func (a App) renderExpenseList(w int) string {
	t := theme.Active
	s := a.exp
	inner := components.CardInnerWidth(w)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(inner)
	cursorStyle := rowStyle.Background(t.SurfaceHover)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Width(inner)
	totalStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(labelStyle.Render("Filter by Category: "))
	b.WriteString(picker(s.currentFilter(), s.focus == focusFilter, inner-20))
	b.WriteString("\n\n")

	if len(s.expenses) == 0 {
		line := expense.NoExpensesRow
		if s.focus == focusList {
			b.WriteString(cursorStyle.Foreground(t.TextDim).Render(line))
		} else {
			b.WriteString(dimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	end := s.offset + s.listH
	if end > len(s.expenses) {
		end = len(s.expenses)
	}
	for i := s.offset; i < end; i++ {
		e := s.expenses[i]
		marker := "  "
		if s.selected != nil && s.selected.Key == e.Key {
			marker = "● "
		}
		line := truncStr(marker+expense.FormatLine(e), inner)
		if s.focus == focusList && i == s.cursor {
			b.WriteString(cursorStyle.Foreground(t.AccentBright).Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(totalStyle.Render("Total Expenses: " + expense.FormatTotal(expense.Total(s.expenses))))

	return components.FocusCard("Expenses", b.String(), w, s.focus == focusFilter || s.focus == focusList)
}

func (a App) renderBreakdown(w int) string {
	t := theme.Active
	s := a.exp
	inner := components.CardInnerWidth(w)

	metrics := components.MetricCardRow([]components.Metric{
		{Label: "Shown", Value: fmt.Sprintf("%d", len(s.expenses))},
		{Label: "Categories", Value: fmt.Sprintf("%d", len(s.categories))},
	}, w)

	names, totals := expense.TotalsByCategory(s.expenses)
	grand := expense.Total(s.expenses)

	var b strings.Builder
	if len(names) == 0 || !grand.IsPositive() {
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("Nothing to break down yet."))
	} else {
		labelW := inner / 3
		barW := inner - labelW - 6
		for _, name := range names {
			pct, _ := totals[name].Div(grand).Float64()
			b.WriteString(components.ShareRow(name, pct, labelW, barW))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("By date "))
		daily := dailyAmounts(s.expenses)
		if n := inner - 8; len(daily) > n {
			daily = daily[len(daily)-n:]
		}
		b.WriteString(components.Sparkline(daily, t.Accent))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("Largest " + cli.FormatCurrency(largest(s.expenses))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, metrics, components.ContentCard("By Category", b.String(), w))
}

// dailyAmounts sums amounts per date in ascending date order.
func dailyAmounts(expenses []model.Expense) []float64 {
	byDate := make(map[string]float64)
	for _, e := range expenses {
		byDate[e.Date] += e.Amount
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]float64, len(dates))
	for i, d := range dates {
		out[i] = byDate[d]
	}
	return out
}

func largest(expenses []model.Expense) decimal.Decimal {
	maxD := decimal.Zero
	for i, e := range expenses {
		d := decimal.NewFromFloat(e.Amount)
		if i == 0 || d.GreaterThan(maxD) {
			maxD = d
		}
	}
	return maxD
}
