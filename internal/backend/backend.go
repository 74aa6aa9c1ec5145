// Package backend wires an auth gate, a data namespace, and an event
// publisher for the configured backend type.
package backend

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/theirongolddev/paisa/internal/auth"
	"github.com/theirongolddev/paisa/internal/config"
	"github.com/theirongolddev/paisa/internal/events"
	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/rtdb"
	"github.com/theirongolddev/paisa/internal/store"
)

// Type names a backend.
type Type string

const (
	Firebase Type = "firebase"
	Supabase Type = "supabase"
	SQLite   Type = "sqlite"
	Memory   Type = "memory"
)

// IsValid reports whether t is a known backend.
func (t Type) IsValid() bool {
	switch t {
	case Firebase, Supabase, SQLite, Memory:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }

// Types returns every backend type.
func Types() []Type {
	return []Type{Firebase, Supabase, SQLite, Memory}
}

// TypeStrings returns every backend type as a string.
func TypeStrings() []string {
	types := Types()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

// Config selects and configures a backend.
type Config struct {
	Type           Type
	Env            config.Env
	SQLitePath     string
	EventsExchange string
}

// Validate checks that the environment carries what Type needs.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %q", c.Type)
	}
	if err := c.Env.Validate(c.Type.String()); err != nil {
		return err
	}
	if c.Type == SQLite && c.SQLitePath == "" {
		return errors.New("SQLite database path is required for sqlite backend")
	}
	return nil
}

// Backend is an opened backend.
type Backend struct {
	Type   Type
	Gate   auth.Gate
	Events events.Publisher

	namespace func(auth.Session) (rtdb.Namespace, error)
	closers   []func() error
	log       *zap.Logger
}

// Open validates cfg and connects to the backend it names. The event
// publisher is optional: when AMQP_URL is unset or the broker cannot be
// reached, events are dropped.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Backend{Type: cfg.Type, Events: events.Nop{}, log: log}

	switch cfg.Type {
	case Firebase:
		fb := cfg.Env.Firebase
		b.Gate = auth.NewFirebase(fb.APIKey)
		b.namespace = func(s auth.Session) (rtdb.Namespace, error) {
			return rtdb.NewFirebase(fb.DatabaseURL, s.IDToken), nil
		}
	case Supabase:
		sb := cfg.Env.Supabase
		b.Gate = auth.NewSupabase(sb.URL, sb.Key)
		b.namespace = func(s auth.Session) (rtdb.Namespace, error) {
			return rtdb.NewSupabase(sb.URL, sb.Key, s.IDToken)
		}
	case SQLite:
		db, err := store.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite backend: %w", err)
		}
		b.Gate = auth.NewLocal(db)
		b.namespace = func(auth.Session) (rtdb.Namespace, error) { return db, nil }
		b.closers = append(b.closers, db.Close)
	case Memory:
		ns := rtdb.NewMemory()
		b.Gate = auth.NewLocal(auth.NewMemoryAccounts())
		b.namespace = func(auth.Session) (rtdb.Namespace, error) { return ns, nil }
	}

	if url := cfg.Env.AMQPURL; url != "" {
		pub, err := events.DialAMQP(url, cfg.EventsExchange)
		if err != nil {
			log.Warn("change events disabled", zap.Error(err))
		} else {
			b.Events = pub
			b.closers = append(b.closers, pub.Close)
		}
	}

	log.Info("backend opened", zap.String("backend", cfg.Type.String()))
	return b, nil
}

// Namespace returns the data namespace as seen by sess.
func (b *Backend) Namespace(sess auth.Session) (rtdb.Namespace, error) {
	return b.namespace(sess)
}

// Tracker returns an expense tracker for sess.
func (b *Backend) Tracker(sess auth.Session) (*expense.Tracker, error) {
	ns, err := b.Namespace(sess)
	if err != nil {
		return nil, err
	}
	return expense.NewTracker(ns, sess, b.Events, b.log)
}

// Close releases everything Open acquired.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
