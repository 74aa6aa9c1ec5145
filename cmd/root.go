// Package cmd implements the paisa CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/theirongolddev/paisa/internal/auth"
	"github.com/theirongolddev/paisa/internal/backend"
	"github.com/theirongolddev/paisa/internal/cli"
	"github.com/theirongolddev/paisa/internal/config"
	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/logger"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const passwordEnv = "PAISA_PASSWORD"

var (
	flagBackend  string
	flagEnvFile  string
	flagLogLevel string
	flagQuiet    bool
	flagEmail    string
)

// openBackend is swapped out by tests.
var openBackend = backend.Open

var rootCmd = &cobra.Command{
	Use:           "paisa",
	Short:         "Personal expense tracker",
	Long:          "Track expenses by category against Firebase, Supabase, or a local SQLite file.",
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		title, message := expense.Describe(err)
		fmt.Fprintln(os.Stderr, cli.RenderError(title, message))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "",
		"Backend: "+strings.Join(backend.TypeStrings(), ", "))
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Load credentials from this file instead of ./.env")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVarP(&flagEmail, "email", "e", "", "Account email")
}

// runtime is what every command needs once flags, env, and config are
// resolved.
type runtime struct {
	cfg     config.Config
	env     config.Env
	log     *zap.Logger
	backend *backend.Backend
}

func (r *runtime) Close() {
	if err := r.backend.Close(); err != nil {
		r.log.Warn("closing backend", zap.Error(err))
	}
	_ = r.log.Sync()
}

// setup is the shared start-up path: config file, environment, logger, then
// the backend. logToFile is false for commands that print to the terminal,
// which log to stderr instead.
func setup(ctx context.Context, logToFile bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	env, err := config.LoadEnv(config.Pick(flagEnvFile, cfg.General.EnvFile))
	if err != nil {
		return nil, err
	}

	level := config.Pick(flagLogLevel, env.LogLevel, cfg.Log.Level, "info")
	logPath := ""
	if logToFile {
		logPath = config.LogPath(cfg)
	} else if flagLogLevel == "" && env.LogLevel == "" {
		// Keep stderr quiet unless a level was asked for.
		level = "warn"
	}
	log, err := logger.New(level, logPath)
	if err != nil {
		return nil, err
	}

	bcfg := backend.Config{
		Type:           backend.Type(config.Pick(flagBackend, env.Backend, cfg.General.Backend, string(backend.Firebase))),
		Env:            env,
		SQLitePath:     config.SQLitePath(cfg),
		EventsExchange: cfg.Events.Exchange,
	}
	b, err := openBackend(ctx, bcfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	return &runtime{cfg: cfg, env: env, log: log, backend: b}, nil
}

// signIn authenticates a non-interactive command. The password comes from
// PAISA_PASSWORD, or a prompt when stdin is a terminal.
func (r *runtime) signIn(ctx context.Context) (auth.Session, error) {
	email := config.Pick(flagEmail, r.cfg.General.Email)
	if email == "" {
		return auth.Session{}, errors.New("no account email: pass --email or set [general] email")
	}

	password := os.Getenv(passwordEnv)
	if password == "" {
		err := huh.NewInput().
			Title("Password for " + email).
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Run()
		if err != nil {
			return auth.Session{}, fmt.Errorf("reading password: %w", err)
		}
	}

	sess, err := r.backend.Gate.SignIn(ctx, email, password)
	if err != nil {
		return auth.Session{}, err
	}
	r.log.Debug("signed in", zap.String("email", email))
	return sess, nil
}

// tracker signs in and returns a tracker for the session.
func (r *runtime) tracker(ctx context.Context) (*expense.Tracker, error) {
	sess, err := r.signIn(ctx)
	if err != nil {
		return nil, err
	}
	return r.backend.Tracker(sess)
}

// withTracker runs fn against a signed-in tracker.
func withTracker(cmd *cobra.Command, fn func(ctx context.Context, t *expense.Tracker, out io.Writer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer r.Close()

	t, err := r.tracker(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, t, cmd.OutOrStdout())
}

// progress prints a status line to stderr unless --quiet.
func progress(cmd *cobra.Command, format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "  "+format+"\n", args...)
}
