package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const appName = "paisa"

// Config holds the paisa preferences file.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	SQLite     SQLiteConfig     `toml:"sqlite"`
	Log        LogConfig        `toml:"log"`
	Events     EventsConfig     `toml:"events"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Backend string `toml:"backend"`
	EnvFile string `toml:"env_file,omitempty"`
	Email   string `toml:"email,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// SQLiteConfig holds settings for the local backend.
type SQLiteConfig struct {
	Path string `toml:"path,omitempty"`
}

// LogConfig holds log settings. The TUI owns the terminal, so logs go to a
// file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// EventsConfig holds change-event settings. The broker URL is a secret and
// comes from AMQP_URL.
type EventsConfig struct {
	Exchange string `toml:"exchange"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Backend: "firebase",
		},
		Appearance: AppearanceConfig{
			Theme: "dark-teal",
		},
		Log: LogConfig{
			Level: "info",
		},
		Events: EventsConfig{
			Exchange: "paisa.events",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns the XDG-compliant state directory, home of the log file.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, fallback, appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// SQLitePath returns the configured database path or the default one.
func SQLitePath(cfg Config) string {
	if cfg.SQLite.Path != "" {
		return cfg.SQLite.Path
	}
	return filepath.Join(DataDir(), "paisa.db")
}

// LogPath returns the configured log file or the default one.
func LogPath(cfg Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(StateDir(), "paisa.log")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Pick returns the first non-empty value. Callers list sources from highest
// precedence down: flag, environment, file, default.
func Pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
