package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/paisa/internal/cli"
	"github.com/theirongolddev/paisa/internal/config"
	"github.com/theirongolddev/paisa/internal/daemon"

	"github.com/spf13/cobra"
)

type daemonRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	Email     string    `json:"email"`
}

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonStateFile    string
	flagDaemonEventsBuffer int
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch an account's spending and serve it over HTTP/SSE",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaultState := filepath.Join(config.StateDir(), "paisad.json")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "127.0.0.1:8788", "HTTP listen address")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 30*time.Second, "Polling interval")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonStateFile, "state-file", defaultState, "Daemon state file (pid, address)")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if err := ensureDaemonNotRunning(flagDaemonStateFile); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	r, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer r.Close()

	sess, err := r.signIn(ctx)
	if err != nil {
		return err
	}
	tracker, err := r.backend.Tracker(sess)
	if err != nil {
		return err
	}

	state := daemonRuntimeState{PID: os.Getpid(), Addr: flagDaemonAddr, StartedAt: time.Now(), Email: sess.Email}
	if err := writeState(flagDaemonStateFile, state); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagDaemonStateFile) }()

	svc := daemon.New(daemon.Config{
		Email:        sess.Email,
		Interval:     flagDaemonInterval,
		Addr:         flagDaemonAddr,
		EventsBuffer: flagDaemonEventsBuffer,
	}, tracker, r.log)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  paisa daemon listening on http://%s\n", flagDaemonAddr)
	fmt.Fprintf(out, "  Polling %s every %s\n", sess.Email, flagDaemonInterval)
	fmt.Fprintln(out, "  Stop with: paisa daemon stop")
	r.log.Info("daemon started", zap.String("addr", flagDaemonAddr), zap.Duration("interval", flagDaemonInterval))

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	state, err := readState(flagDaemonStateFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(out, "  Daemon: not running")
		return nil
	case err != nil:
		return err
	case !processAlive(state.PID):
		fmt.Fprintf(out, "  Daemon: stale state file (pid %d not alive)\n", state.PID)
		return nil
	}

	fmt.Fprintf(out, "  Daemon PID: %d (up %s)\n", state.PID, time.Since(state.StartedAt).Round(time.Second))
	fmt.Fprintf(out, "  Address: http://%s\n", state.Addr)

	st, err := fetchStatus(cmd.Context(), state.Addr)
	if err != nil {
		fmt.Fprintf(out, "  API status: %v\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Fprintln(out, "  Last poll: pending")
	} else {
		fmt.Fprintf(out, "  Last poll: %s (%d polls)\n", st.LastPollAt.Local().Format(time.RFC3339), st.PollCount)
	}
	fmt.Fprintf(out, "  Account: %s\n", st.Email)
	fmt.Fprintf(out, "  Expenses: %d in %d categories\n", st.Summary.Expenses, st.Summary.Categories)
	fmt.Fprintf(out, "  Total: %s\n", cli.FormatCurrency(st.Summary.Total))
	if st.LastError != "" {
		fmt.Fprintf(out, "  Last error: %s\n", st.LastError)
	}
	return nil
}

// fetchStatus asks a running daemon for its status.
func fetchStatus(ctx context.Context, addr string) (daemon.Status, error) {
	var st daemon.Status
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, fmt.Errorf("unreachable (%w)", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response (%w)", err)
	}
	return st, nil
}

func runDaemonStop(cmd *cobra.Command, _ []string) error {
	state, err := readState(flagDaemonStateFile)
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(state.PID)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	for deadline := time.Now().Add(8 * time.Second); time.Now().Before(deadline); time.Sleep(150 * time.Millisecond) {
		if !processAlive(state.PID) {
			_ = os.Remove(flagDaemonStateFile)
			fmt.Fprintf(cmd.OutOrStdout(), "  Stopped daemon (pid %d)\n", state.PID)
			return nil
		}
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", state.PID)
}

// ensureDaemonNotRunning fails when the state file names a live process and
// clears it when the process is gone.
func ensureDaemonNotRunning(path string) error {
	state, err := readState(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case processAlive(state.PID):
		return fmt.Errorf("daemon already running (pid %d)", state.PID)
	}
	return os.Remove(path)
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func writeState(path string, st daemonRuntimeState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (daemonRuntimeState, error) {
	var st daemonRuntimeState
	//nolint:gosec // daemon state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("reading %s: %w", path, err)
	}
	return st, nil
}
