package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/theirongolddev/paisa/internal/cli"
	"github.com/theirongolddev/paisa/internal/expense"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category", "cat"},
	Short:   "List or add expense categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories in the order they were added",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withTracker(cmd, runCategoriesList)
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		return withTracker(cmd, func(ctx context.Context, t *expense.Tracker, out io.Writer) error {
			if err := t.AddCategory(ctx, name); err != nil {
				return err
			}
			fmt.Fprintf(out, "  Added category %q\n", strings.TrimSpace(name))
			return nil
		})
	},
}

func init() {
	categoriesCmd.AddCommand(categoriesListCmd, categoriesAddCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runCategoriesList(ctx context.Context, t *expense.Tracker, out io.Writer) error {
	categories, err := t.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Fprintln(out, "\n  No categories yet. Expenses will default to "+expense.DefaultCategory+".")
		return nil
	}

	rows := make([][]string, len(categories))
	for i, c := range categories {
		rows[i] = []string{strconv.Itoa(i + 1), c}
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Title:   "Categories",
		Headers: []string{"#", "Name"},
		Rows:    rows,
		Right:   map[int]bool{0: true},
	}))
	return nil
}
