// Package expense holds the expense tracker's rules: form validation, the
// list display format, category filtering, totals, and the Tracker that
// reads and writes a user's categories and expenses.
package expense

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/paisa/internal/auth"
	"github.com/theirongolddev/paisa/internal/events"
	"github.com/theirongolddev/paisa/internal/model"
	"github.com/theirongolddev/paisa/internal/rtdb"
)

const orderField = "amount"

// Tracker reads and writes one user's categories and expenses.
type Tracker struct {
	ns         rtdb.Namespace
	userID     string
	categories string
	expenses   string
	pub        events.Publisher
	log        *zap.Logger
}

// NewTracker scopes ns to the session's user. pub and log may be nil.
func NewTracker(ns rtdb.Namespace, sess auth.Session, pub events.Publisher, log *zap.Logger) (*Tracker, error) {
	cats, err := rtdb.UserPath(sess.UserID, "categories")
	if err != nil {
		return nil, err
	}
	exps, err := rtdb.UserPath(sess.UserID, "expenses")
	if err != nil {
		return nil, err
	}
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		ns:         ns,
		userID:     sess.UserID,
		categories: cats,
		expenses:   exps,
		pub:        pub,
		log:        log.With(zap.String("user_id", sess.UserID)),
	}, nil
}

// ListCategories returns category names in insertion order.
func (t *Tracker) ListCategories(ctx context.Context) ([]string, error) {
	children, err := t.ns.Children(ctx, t.categories)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	out := make([]string, 0, len(children))
	for _, c := range children {
		var name string
		if err := json.Unmarshal(c.Value, &name); err != nil {
			return nil, &rtdb.RemoteError{Op: "get", Path: t.categories + "/" + c.Key, Message: "category is not a string", Err: err}
		}
		out = append(out, name)
	}
	return out, nil
}

// AddCategory appends name. Duplicates are allowed.
func (t *Tracker) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &RequiredFieldError{Fields: []string{"category"}}
	}
	key, err := t.ns.Push(ctx, t.categories, name)
	if err != nil {
		return fmt.Errorf("adding category: %w", err)
	}
	t.log.Debug("category added", zap.String("key", key), zap.String("name", name))
	t.publish(ctx, events.Event{Kind: events.CategoryAdded, Key: key, Category: name})
	return nil
}

// ListExpenses returns every expense in insertion order.
func (t *Tracker) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	children, err := t.ns.Children(ctx, t.expenses)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	return t.decode(children)
}

// ListExpensesOrderedByAmount returns every expense ordered by amount.
func (t *Tracker) ListExpensesOrderedByAmount(ctx context.Context) ([]model.Expense, error) {
	children, err := t.ns.ChildrenOrderedBy(ctx, t.expenses, orderField)
	if err != nil {
		return nil, fmt.Errorf("listing expenses by amount: %w", err)
	}
	return t.decode(children)
}

// CreateExpense validates d and stores it, returning the new key.
func (t *Tracker) CreateExpense(ctx context.Context, d Draft) (string, error) {
	rec, err := d.Validate()
	if err != nil {
		return "", err
	}
	key, err := t.ns.Push(ctx, t.expenses, rec)
	if err != nil {
		return "", fmt.Errorf("creating expense: %w", err)
	}
	t.log.Debug("expense created", zap.String("key", key), zap.Float64("amount", rec.Amount))
	t.publish(ctx, events.Event{Kind: events.ExpenseCreated, Key: key, Expense: &rec})
	return key, nil
}

// UpdateExpense validates d and overwrites all four fields of key.
func (t *Tracker) UpdateExpense(ctx context.Context, key string, d Draft) error {
	if strings.TrimSpace(key) == "" {
		return &RequiredFieldError{Fields: []string{"key"}}
	}
	if err := rtdb.ValidKey(key); err != nil {
		return &rtdb.RemoteError{Op: "update", Path: t.expenses, Err: err}
	}
	rec, err := d.Validate()
	if err != nil {
		return err
	}
	if err := t.ns.Update(ctx, t.expenses, key, rec); err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}
	t.log.Debug("expense updated", zap.String("key", key))
	t.publish(ctx, events.Event{Kind: events.ExpenseUpdated, Key: key, Expense: &rec})
	return nil
}

// DeleteExpense removes key permanently.
func (t *Tracker) DeleteExpense(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return &RequiredFieldError{Fields: []string{"key"}}
	}
	if err := rtdb.ValidKey(key); err != nil {
		return &rtdb.RemoteError{Op: "remove", Path: t.expenses, Err: err}
	}
	if err := t.ns.Remove(ctx, t.expenses, key); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	t.log.Debug("expense deleted", zap.String("key", key))
	t.publish(ctx, events.Event{Kind: events.ExpenseDeleted, Key: key})
	return nil
}

// storedRecord accepts any JSON for amount so a bad value can be reported.
type storedRecord struct {
	Title    string          `json:"expense"`
	Amount   json.RawMessage `json:"amount"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
}

func (t *Tracker) decode(children []rtdb.Child) ([]model.Expense, error) {
	out := make([]model.Expense, 0, len(children))
	for _, c := range children {
		var r storedRecord
		if err := json.Unmarshal(c.Value, &r); err != nil {
			return nil, &rtdb.RemoteError{Op: "get", Path: t.expenses + "/" + c.Key, Message: "malformed expense", Err: err}
		}
		var amount *float64
		if err := json.Unmarshal(r.Amount, &amount); err != nil || amount == nil {
			return nil, &rtdb.RemoteError{Op: "get", Path: t.expenses + "/" + c.Key, Message: "amount is not a number", Err: err}
		}
		out = append(out, model.Expense{
			Key:      c.Key,
			Title:    r.Title,
			Amount:   *amount,
			Date:     r.Date,
			Category: r.Category,
		})
	}
	return out, nil
}

func (t *Tracker) publish(ctx context.Context, e events.Event) {
	e.UserID = t.userID
	e.At = time.Now().UTC()
	if err := t.pub.Publish(ctx, e); err != nil {
		t.log.Warn("publishing change event", zap.String("kind", e.Kind), zap.Error(err))
	}
}
