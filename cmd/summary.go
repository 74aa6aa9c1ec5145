package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/theirongolddev/paisa/internal/cli"
	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/report"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Spending summary by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withTracker(cmd, runSummary)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(ctx context.Context, t *expense.Tracker, out io.Writer) error {
	list, err := t.ListExpenses(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "\n  No expenses yet.")
		fmt.Fprintln(out, "  Add one with `paisa expenses add` or the TUI.")
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle("PAISA  Spending Summary"))
	fmt.Fprintln(out)

	slices := report.CategorySlices(list)
	var maxAmount float64
	for _, s := range slices {
		if s.Amount > maxAmount {
			maxAmount = s.Amount
		}
	}

	rows := make([][]string, 0, len(slices))
	for _, s := range slices {
		rows = append(rows, []string{
			s.Category,
			cli.FormatCurrency(decimal.NewFromFloat(s.Amount)),
			cli.FormatPercent(s.Percent),
			cli.RenderHorizontalBar(s.Amount, maxAmount, 20),
		})
	}

	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("%s expenses", cli.FormatNumber(int64(len(list)))),
		Headers: []string{"Category", "Total", "Share", ""},
		Rows:    rows,
		Right:   map[int]bool{1: true, 2: true},
	}))
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTotal("Total Expenses:", expense.FormatTotal(expense.Total(list))))
	return nil
}
