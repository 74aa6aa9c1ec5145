package cmd

import (
	"fmt"

	"github.com/theirongolddev/paisa/internal/backend"
	"github.com/theirongolddev/paisa/internal/config"
	"github.com/theirongolddev/paisa/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := config.Load()

	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = config.SQLitePath(cfg)
	}

	backendOpts := make([]huh.Option[string], 0, len(backend.Types()))
	for _, t := range backend.TypeStrings() {
		backendOpts = append(backendOpts, huh.NewOption(t, t))
	}
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to paisa!").
				Description("Credentials stay in the environment or a .env file.\nThis wizard only writes preferences."),
			huh.NewSelect[string]().
				Title("Backend").
				Options(backendOpts...).
				Value(&cfg.General.Backend),
			huh.NewInput().
				Title("Default email").
				Description("Prefills the login screen. Optional.").
				Value(&cfg.General.Email),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("SQLite database").
				Description("Used by the sqlite backend.").
				Value(&cfg.SQLite.Path),
			huh.NewInput().
				Title("Env file").
				Description("Leave empty to read ./.env").
				Value(&cfg.General.EnvFile),
		).WithHideFunc(func() bool { return cfg.General.Backend == string(backend.Memory) }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&cfg.Appearance.Theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&cfg.Log.Level),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Saved to %s\n", config.ConfigPath())
	fmt.Fprintln(out, "  Run `paisa setup` anytime to reconfigure.")
	fmt.Fprintln(out)

	return nil
}
