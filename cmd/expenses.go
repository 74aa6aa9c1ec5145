package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/paisa/internal/cli"
	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/model"
	"github.com/theirongolddev/paisa/internal/rtdb"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagCategory string
	flagByAmount bool

	flagTitle      string
	flagAmount     string
	flagDate       string
	flagExpenseCat string
	flagLine       string
)

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"expense", "exp"},
	Short:   "List, add, edit, and delete expenses",
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses, optionally for one category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withTracker(cmd, runExpensesList)
	},
}

var expensesTotalCmd = &cobra.Command{
	Use:   "total",
	Short: "Print the total of the listed expenses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withTracker(cmd, runExpensesTotal)
	},
}

var expensesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an expense",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withTracker(cmd, func(ctx context.Context, t *expense.Tracker, out io.Writer) error {
			return runExpensesAdd(ctx, cmd, t, out)
		})
	},
}

var expensesEditCmd = &cobra.Command{
	Use:   "edit KEY",
	Short: "Edit an expense; unset fields keep their stored values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, t *expense.Tracker, out io.Writer) error {
			return runExpensesEdit(ctx, cmd, t, out, args[0])
		})
	},
}

var expensesDeleteCmd = &cobra.Command{
	Use:     "delete KEY",
	Aliases: []string{"rm"},
	Short:   "Delete an expense",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, t *expense.Tracker, out io.Writer) error {
			if err := t.DeleteExpense(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "  Deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{expensesListCmd, expensesTotalCmd} {
		c.Flags().StringVarP(&flagCategory, "category", "c", "", "Only this category")
		c.Flags().BoolVar(&flagByAmount, "by-amount", false, "Order by amount instead of insertion")
	}
	for _, c := range []*cobra.Command{expensesAddCmd, expensesEditCmd} {
		c.Flags().StringVarP(&flagTitle, "title", "t", "", "Expense title")
		c.Flags().StringVarP(&flagAmount, "amount", "a", "", "Amount, e.g. 4.50")
		c.Flags().StringVarP(&flagDate, "date", "d", "", "Date as YYYY-MM-DD")
		c.Flags().StringVarP(&flagExpenseCat, "category", "c", "", "Category")
	}
	expensesAddCmd.Flags().Lookup("date").Usage = "Date as YYYY-MM-DD (default today)"
	expensesAddCmd.Flags().Lookup("category").Usage = "Category (default " + expense.DefaultCategory + ")"
	expensesEditCmd.Flags().StringVar(&flagLine, "line", "",
		`Replace all fields from a display line, "Title: $4.5 [Food] on 2024-01-10"`)

	expensesCmd.AddCommand(expensesListCmd, expensesTotalCmd, expensesAddCmd, expensesEditCmd, expensesDeleteCmd)
	rootCmd.AddCommand(expensesCmd)
}

// listExpenses loads expenses the way the expense screen does: filtering
// implies amount order.
func listExpenses(ctx context.Context, t *expense.Tracker) ([]model.Expense, error) {
	if flagByAmount || (flagCategory != "" && flagCategory != expense.AllCategories) {
		list, err := t.ListExpensesOrderedByAmount(ctx)
		if err != nil {
			return nil, err
		}
		return expense.ApplyFilter(list, flagCategory), nil
	}
	return t.ListExpenses(ctx)
}

func runExpensesList(ctx context.Context, t *expense.Tracker, out io.Writer) error {
	list, err := listExpenses(ctx, t)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "\n  "+expense.NoExpensesRow)
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderTable(expenseTable(list)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTotal("Total Expenses:", expense.FormatTotal(expense.Total(list))))
	return nil
}

func expenseTable(list []model.Expense) cli.Table {
	rows := make([][]string, len(list))
	for i, e := range list {
		rows[i] = []string{
			e.Key,
			e.Date,
			e.Title,
			e.Category,
			cli.FormatCurrency(decimal.NewFromFloat(e.Amount)),
		}
	}
	title := "Expenses"
	if flagCategory != "" && flagCategory != expense.AllCategories {
		title += " · " + flagCategory
	}
	return cli.Table{
		Title:   title,
		Headers: []string{"Key", "Date", "Title", "Category", "Amount"},
		Rows:    rows,
		Right:   map[int]bool{4: true},
	}
}

func runExpensesTotal(ctx context.Context, t *expense.Tracker, out io.Writer) error {
	list, err := listExpenses(ctx, t)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, expense.FormatTotal(expense.Total(list)))
	return nil
}

func runExpensesAdd(ctx context.Context, cmd *cobra.Command, t *expense.Tracker, out io.Writer) error {
	d := expense.Draft{
		Title:    flagTitle,
		Amount:   flagAmount,
		Date:     flagDate,
		Category: flagExpenseCat,
	}
	if !cmd.Flags().Changed("date") {
		d.Date = time.Now().Format("2006-01-02")
	}
	if !cmd.Flags().Changed("category") {
		categories, err := t.ListCategories(ctx)
		if err != nil {
			return err
		}
		d.Category = expense.FormCategories(categories)[0]
	}

	key, err := t.CreateExpense(ctx, d)
	if err != nil {
		return err
	}
	progress(cmd, "Added %s", key)
	fmt.Fprintln(out, key)
	return nil
}

func runExpensesEdit(ctx context.Context, cmd *cobra.Command, t *expense.Tracker, out io.Writer, key string) error {
	list, err := t.ListExpenses(ctx)
	if err != nil {
		return err
	}
	current, ok := findExpense(list, key)
	if !ok {
		return &rtdb.RemoteError{Op: "update", Path: key, Err: rtdb.ErrNotFound}
	}

	d := expense.DraftOf(current)
	if flagLine != "" {
		fields, err := expense.ParseLine(flagLine)
		if err != nil {
			return err
		}
		d = fields.Draft()
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		d.Title = flagTitle
	}
	if flags.Changed("amount") {
		d.Amount = flagAmount
	}
	if flags.Changed("date") {
		d.Date = flagDate
	}
	if flags.Changed("category") {
		d.Category = flagExpenseCat
	}

	if err := t.UpdateExpense(ctx, key, d); err != nil {
		return err
	}
	fmt.Fprintf(out, "  Updated %s\n", key)
	return nil
}

func findExpense(list []model.Expense, key string) (model.Expense, bool) {
	for _, e := range list {
		if e.Key == key {
			return e, true
		}
	}
	return model.Expense{}, false
}
