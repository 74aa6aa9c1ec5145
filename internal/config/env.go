// Package config loads paisa's TOML preferences and the environment that
// carries backend credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// FirebaseEnv holds the web app config of a Firebase project.
type FirebaseEnv struct {
	APIKey            string
	AuthDomain        string
	ProjectID         string
	DatabaseURL       string
	StorageBucket     string
	MessagingSenderID string
	AppID             string
}

// SupabaseEnv holds a Supabase project URL and anon key.
type SupabaseEnv struct {
	URL string
	Key string
}

// Env is everything paisa reads from the environment.
type Env struct {
	Firebase FirebaseEnv
	Supabase SupabaseEnv
	Backend  string
	LogLevel string
	AMQPURL  string
}

// LoadEnv loads file (or ./.env when file is empty and it exists) into the
// process environment, then reads the variables paisa uses. Variables that
// are already set win over the file.
func LoadEnv(file string) (Env, error) {
	if file != "" {
		if err := godotenv.Load(file); err != nil {
			return Env{}, fmt.Errorf("loading env file %s: %w", file, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Env{}, fmt.Errorf("loading .env: %w", err)
	}
	return ReadEnv(), nil
}

// ReadEnv reads the environment without touching any file.
func ReadEnv() Env {
	return Env{
		Firebase: FirebaseEnv{
			APIKey:            lookup("apiKey", "FIREBASE_API_KEY"),
			AuthDomain:        lookup("authDomain", "FIREBASE_AUTH_DOMAIN"),
			ProjectID:         lookup("projectId", "FIREBASE_PROJECT_ID"),
			DatabaseURL:       lookup("databaseURL", "FIREBASE_DATABASE_URL"),
			StorageBucket:     lookup("storageBucket", "FIREBASE_STORAGE_BUCKET"),
			MessagingSenderID: lookup("messagingSenderId", "FIREBASE_MESSAGING_SENDER_ID"),
			AppID:             lookup("appId", "FIREBASE_APP_ID"),
		},
		Supabase: SupabaseEnv{
			URL: lookup("SUPABASE_URL"),
			Key: lookup("SUPABASE_KEY"),
		},
		Backend:  lookup("PAISA_BACKEND"),
		LogLevel: lookup("PAISA_LOG_LEVEL"),
		AMQPURL:  lookup("AMQP_URL"),
	}
}

func lookup(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

// Validate reports every problem with the environment for backend at once.
func (e Env) Validate(backend string) error {
	var problems []string
	missing := func(name, value string) {
		if value == "" {
			problems = append(problems, "missing "+name)
		}
	}

	switch backend {
	case "firebase":
		missing("apiKey", e.Firebase.APIKey)
		missing("authDomain", e.Firebase.AuthDomain)
		missing("projectId", e.Firebase.ProjectID)
		missing("databaseURL", e.Firebase.DatabaseURL)
		missing("storageBucket", e.Firebase.StorageBucket)
		if e.Firebase.DatabaseURL != "" && !isHTTPURL(e.Firebase.DatabaseURL) {
			problems = append(problems, fmt.Sprintf("invalid databaseURL %q: must be an http(s) URL", e.Firebase.DatabaseURL))
		}
	case "supabase":
		missing("SUPABASE_URL", e.Supabase.URL)
		missing("SUPABASE_KEY", e.Supabase.Key)
		if e.Supabase.URL != "" && !isHTTPURL(e.Supabase.URL) {
			problems = append(problems, fmt.Sprintf("invalid SUPABASE_URL %q: must be an http(s) URL", e.Supabase.URL))
		}
	case "sqlite", "memory":
	default:
		problems = append(problems, fmt.Sprintf("unknown backend %q: must be one of firebase, supabase, sqlite, memory", backend))
	}

	if e.AMQPURL != "" {
		if u, err := url.Parse(e.AMQPURL); err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			problems = append(problems, fmt.Sprintf("invalid AMQP_URL %q: scheme must be amqp or amqps", e.AMQPURL))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration invalid:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}
