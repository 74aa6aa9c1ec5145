// Package events publishes change notifications after successful writes.
// Publishing is best-effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/theirongolddev/paisa/internal/model"
)

// Kinds of change.
const (
	ExpenseCreated = "expense.created"
	ExpenseUpdated = "expense.updated"
	ExpenseDeleted = "expense.deleted"
	CategoryAdded  = "category.added"
)

// Event describes one successful write.
type Event struct {
	Kind     string        `json:"kind"`
	UserID   string        `json:"user_id"`
	Key      string        `json:"key,omitempty"`
	Expense  *model.Record `json:"expense,omitempty"`
	Category string        `json:"category,omitempty"`
	At       time.Time     `json:"at"`
}

// JSON encodes the event.
func (e Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
