package cmd

import (
	"fmt"
	"io"

	"github.com/theirongolddev/paisa/internal/cli"
	"github.com/theirongolddev/paisa/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	env, err := config.LoadEnv(config.Pick(flagEnvFile, cfg.General.EnvFile))
	if err != nil {
		return err
	}

	printConfig(cmd.OutOrStdout(), cfg, env)
	return nil
}

func printConfig(w io.Writer, cfg config.Config, env config.Env) {
	orNone := func(s string) string {
		if s == "" {
			return "not set"
		}
		return s
	}
	secret := func(s string) string {
		if s == "" {
			return "not set"
		}
		return cli.MaskSecret(s)
	}

	backendName := config.Pick(flagBackend, env.Backend, cfg.General.Backend)

	fmt.Fprintf(w, "  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Fprintln(w, "  Status: loaded")
	} else {
		fmt.Fprintln(w, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [General]")
	fmt.Fprintf(w, "    Backend:  %s\n", backendName)
	fmt.Fprintf(w, "    Email:    %s\n", orNone(config.Pick(flagEmail, cfg.General.Email)))
	fmt.Fprintf(w, "    Env file: %s\n", orNone(config.Pick(flagEnvFile, cfg.General.EnvFile)))
	fmt.Fprintln(w)

	switch backendName {
	case "firebase":
		fmt.Fprintln(w, "  [Firebase]")
		fmt.Fprintf(w, "    API key:      %s\n", secret(env.Firebase.APIKey))
		fmt.Fprintf(w, "    Project:      %s\n", orNone(env.Firebase.ProjectID))
		fmt.Fprintf(w, "    Database URL: %s\n", orNone(env.Firebase.DatabaseURL))
	case "supabase":
		fmt.Fprintln(w, "  [Supabase]")
		fmt.Fprintf(w, "    URL: %s\n", orNone(env.Supabase.URL))
		fmt.Fprintf(w, "    Key: %s\n", secret(env.Supabase.Key))
	case "sqlite":
		fmt.Fprintln(w, "  [SQLite]")
		fmt.Fprintf(w, "    Path: %s\n", config.SQLitePath(cfg))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Appearance]")
	fmt.Fprintf(w, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Log]")
	fmt.Fprintf(w, "    Level: %s\n", config.Pick(flagLogLevel, env.LogLevel, cfg.Log.Level))
	fmt.Fprintf(w, "    File:  %s\n", config.LogPath(cfg))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Events]")
	fmt.Fprintf(w, "    Broker:   %s\n", secret(env.AMQPURL))
	fmt.Fprintf(w, "    Exchange: %s\n", cfg.Events.Exchange)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Run `paisa setup` to reconfigure.")
}
