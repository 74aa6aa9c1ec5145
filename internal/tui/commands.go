package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/paisa/internal/auth"
	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/model"
)

// mutation names a store write issued from the expense screen.
type mutation int

const (
	opAdd mutation = iota
	opEdit
	opDelete
	opAddCategory
)

func (m mutation) String() string {
	switch m {
	case opAdd:
		return "add expense"
	case opEdit:
		return "edit expense"
	case opDelete:
		return "delete expense"
	case opAddCategory:
		return "add category"
	}
	return "unknown"
}

// authMsg carries the result of a sign-in or sign-up.
type authMsg struct {
	email   string
	signUp  bool
	session auth.Session
	err     error
}

// loadedMsg carries a full reload of categories and the visible expenses.
type loadedMsg struct {
	categories []string
	expenses   []model.Expense
	err        error
}

// categoriesMsg carries a category-only reload.
type categoriesMsg struct {
	categories []string
	err        error
}

// mutatedMsg reports the outcome of a store write.
type mutatedMsg struct {
	op  mutation
	err error
}

// remote runs fn with a deadline inside a tea.Cmd goroutine.
func remote(timeout time.Duration, fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fn(ctx)
	}
}

func authCmd(gate auth.Gate, timeout time.Duration, email, password string, signUp bool) tea.Cmd {
	return remote(timeout, func(ctx context.Context) tea.Msg {
		var (
			sess auth.Session
			err  error
		)
		if signUp {
			sess, err = gate.SignUp(ctx, email, password)
		} else {
			sess, err = gate.SignIn(ctx, email, password)
		}
		return authMsg{email: email, signUp: signUp, session: sess, err: err}
	})
}

// loadCmd reloads categories and expenses. A filter other than the
// sentinel, or any filter change, reads the amount-ordered listing and
// narrows it client-side.
func loadCmd(tr *expense.Tracker, timeout time.Duration, filter string, orderByAmount bool) tea.Cmd {
	return remote(timeout, func(ctx context.Context) tea.Msg {
		cats, err := tr.ListCategories(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}

		var list []model.Expense
		if orderByAmount || filter != expense.AllCategories {
			list, err = tr.ListExpensesOrderedByAmount(ctx)
		} else {
			list, err = tr.ListExpenses(ctx)
		}
		if err != nil {
			return loadedMsg{err: err}
		}

		return loadedMsg{categories: cats, expenses: expense.ApplyFilter(list, filter)}
	})
}

func loadCategoriesCmd(tr *expense.Tracker, timeout time.Duration) tea.Cmd {
	return remote(timeout, func(ctx context.Context) tea.Msg {
		cats, err := tr.ListCategories(ctx)
		return categoriesMsg{categories: cats, err: err}
	})
}

func mutateCmd(timeout time.Duration, op mutation, fn func(ctx context.Context) error) tea.Cmd {
	return remote(timeout, func(ctx context.Context) tea.Msg {
		return mutatedMsg{op: op, err: fn(ctx)}
	})
}
