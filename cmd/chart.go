package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/report"

	"github.com/spf13/cobra"
)

var (
	flagChartOut    string
	flagChartWidth  int
	flagChartHeight int
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a pie chart of spending by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withTracker(cmd, func(ctx context.Context, t *expense.Tracker, out io.Writer) error {
			return runChart(ctx, cmd, t, out)
		})
	},
}

func init() {
	chartCmd.Flags().StringVarP(&flagChartOut, "out", "o", "expenses.png", "PNG file to write")
	chartCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Only this category")
	chartCmd.Flags().IntVar(&flagChartWidth, "width", 1024, "Image width in pixels")
	chartCmd.Flags().IntVar(&flagChartHeight, "height", 768, "Image height in pixels")
	rootCmd.AddCommand(chartCmd)
}

func runChart(ctx context.Context, cmd *cobra.Command, t *expense.Tracker, out io.Writer) error {
	progress(cmd, "Loading expenses...")
	list, err := listExpenses(ctx, t)
	if err != nil {
		return err
	}

	png, err := report.CategoryPie(list, flagChartWidth, flagChartHeight)
	if err != nil {
		return err
	}
	if err := os.WriteFile(flagChartOut, png, 0o644); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}

	fmt.Fprintf(out, "  Wrote %s (%d categories)\n", flagChartOut, len(report.CategorySlices(list)))
	return nil
}
