package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/paisa/internal/config"
	"github.com/theirongolddev/paisa/internal/tui"
	"github.com/theirongolddev/paisa/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive expense tracker",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer r.Close()

	theme.SetActive(r.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Gate:    r.backend.Gate,
		Tracker: r.backend.Tracker,
		Log:     r.log,
		Email:   config.Pick(flagEmail, r.cfg.General.Email),
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
