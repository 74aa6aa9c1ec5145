package expense

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/paisa/internal/auth"
	"github.com/theirongolddev/paisa/internal/events"
	"github.com/theirongolddev/paisa/internal/model"
	"github.com/theirongolddev/paisa/internal/rtdb"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
	fail   bool
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("broker down")
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func newTestTracker(t *testing.T, ns rtdb.Namespace, pub events.Publisher) *Tracker {
	t.Helper()
	tr, err := NewTracker(ns, auth.Session{UserID: "u1", Email: "u1@example.com"}, pub, nil)
	require.NoError(t, err)
	return tr
}

var coffee = Draft{Title: "Coffee", Amount: "4.50", Date: "2024-01-10", Category: "Food"}

func TestNewTrackerNeedsUser(t *testing.T) {
	_, err := NewTracker(rtdb.NewMemory(), auth.Session{}, nil, nil)
	assert.ErrorIs(t, err, rtdb.ErrNoUser)
}

func TestEmptyStore(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t, rtdb.NewMemory(), nil)

	cats, err := tr.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
	assert.Equal(t, []string{"Miscellaneous"}, FormCategories(cats))

	exps, err := tr.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, exps)
	assert.Equal(t, "$0.00", FormatTotal(Total(exps)))
}

func TestCreateThenList(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	tr := newTestTracker(t, rtdb.NewMemory(), rec)

	before, err := tr.ListExpenses(ctx)
	require.NoError(t, err)

	key, err := tr.CreateExpense(ctx, coffee)
	require.NoError(t, err)

	after, err := tr.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	assert.Equal(t, model.Expense{Key: key, Title: "Coffee", Amount: 4.5, Date: "2024-01-10", Category: "Food"}, after[0])
	assert.Equal(t, "Coffee: $4.5 [Food] on 2024-01-10", FormatLine(after[0]))
	assert.Equal(t, "$4.50", FormatTotal(Total(after)))
	assert.Equal(t, []string{events.ExpenseCreated}, rec.kinds())
}

func TestCreateInvalidAmountStoresNothing(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t, rtdb.NewMemory(), nil)

	d := coffee
	d.Amount = "abc"
	_, err := tr.CreateExpense(ctx, d)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	exps, err := tr.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, exps)
}

func TestUpdateOverwritesAllFields(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t, rtdb.NewMemory(), nil)

	key, err := tr.CreateExpense(ctx, coffee)
	require.NoError(t, err)

	exps, err := tr.ListExpenses(ctx)
	require.NoError(t, err)
	d := DraftOf(exps[0])
	d.Amount = "9.99"
	require.NoError(t, tr.UpdateExpense(ctx, key, d))

	exps, err = tr.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, model.Expense{Key: key, Title: "Coffee", Amount: 9.99, Date: "2024-01-10", Category: "Food"}, exps[0])
	assert.Equal(t, "$9.99", FormatTotal(Total(exps)))
}

func TestUpdateValidatesLikeCreate(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t, rtdb.NewMemory(), nil)
	key, err := tr.CreateExpense(ctx, coffee)
	require.NoError(t, err)

	d := coffee
	d.Category = ""
	var re *RequiredFieldError
	assert.ErrorAs(t, tr.UpdateExpense(ctx, key, d), &re)
}

func TestDeleteRemovesAndReducesTotal(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t, rtdb.NewMemory(), nil)

	k1, err := tr.CreateExpense(ctx, coffee)
	require.NoError(t, err)
	_, err = tr.CreateExpense(ctx, Draft{Title: "Bus", Amount: "2", Date: "2024-01-11", Category: "Travel"})
	require.NoError(t, err)

	before, _ := tr.ListExpenses(ctx)
	require.NoError(t, tr.DeleteExpense(ctx, k1))
	after, err := tr.ListExpenses(ctx)
	require.NoError(t, err)

	for _, e := range after {
		assert.NotEqual(t, k1, e.Key)
	}
	assert.True(t, Total(before).Sub(Total(after)).Equal(Total(before[:1])))
}

func TestDeleteMissingIsRemoteError(t *testing.T) {
	tr := newTestTracker(t, rtdb.NewMemory(), nil)
	err := tr.DeleteExpense(context.Background(), "missing")
	var re *rtdb.RemoteError
	assert.ErrorAs(t, err, &re)
}

func TestKeysCannotLeaveUserPath(t *testing.T) {
	ctx := context.Background()
	ns := rtdb.NewMemory()
	a := newTestTracker(t, ns, nil)
	b, err := NewTracker(ns, auth.Session{UserID: "u2"}, nil, nil)
	require.NoError(t, err)
	key, err := b.CreateExpense(ctx, coffee)
	require.NoError(t, err)

	escape := "../../u2/expenses/" + key
	var re *rtdb.RemoteError
	err = a.UpdateExpense(ctx, escape, coffee)
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, rtdb.ErrInvalidKey)
	assert.ErrorIs(t, a.DeleteExpense(ctx, escape), rtdb.ErrInvalidKey)
	assert.ErrorIs(t, a.UpdateExpense(ctx, "abc/def", coffee), rtdb.ErrInvalidKey)

	exps, err := b.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, exps, 1)
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	tr := newTestTracker(t, rtdb.NewMemory(), rec)

	require.NoError(t, tr.AddCategory(ctx, "Food"))
	require.NoError(t, tr.AddCategory(ctx, " Travel "))
	require.NoError(t, tr.AddCategory(ctx, "Food"))

	var re *RequiredFieldError
	assert.ErrorAs(t, tr.AddCategory(ctx, "   "), &re)

	cats, err := tr.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Travel", "Food"}, cats)
	assert.Equal(t, []string{AllCategories, "Food", "Travel", "Food"}, FilterOptions(cats))
	assert.Len(t, rec.kinds(), 3)
}

func TestOrderedByAmount(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t, rtdb.NewMemory(), nil)
	for _, amt := range []string{"5", "1.5", "3"} {
		d := coffee
		d.Amount = amt
		_, err := tr.CreateExpense(ctx, d)
		require.NoError(t, err)
	}
	exps, err := tr.ListExpensesOrderedByAmount(ctx)
	require.NoError(t, err)
	var amounts []float64
	for _, e := range exps {
		amounts = append(amounts, e.Amount)
	}
	assert.Equal(t, []float64{1.5, 3, 5}, amounts)
}

func TestMalformedAmountIsRemoteError(t *testing.T) {
	ctx := context.Background()
	ns := rtdb.NewMemory()
	_, err := ns.Push(ctx, "users/u1/expenses", map[string]any{"expense": "x", "amount": "oops", "date": "2024-01-01", "category": "Food"})
	require.NoError(t, err)

	_, err = newTestTracker(t, ns, nil).ListExpenses(ctx)
	var re *rtdb.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "amount is not a number", re.Message)
}

func TestPublishFailureIsNotSurfaced(t *testing.T) {
	tr := newTestTracker(t, rtdb.NewMemory(), &recorder{fail: true})
	_, err := tr.CreateExpense(context.Background(), coffee)
	assert.NoError(t, err)
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	ns := rtdb.NewMemory()
	a := newTestTracker(t, ns, nil)
	b, err := NewTracker(ns, auth.Session{UserID: "u2"}, nil, nil)
	require.NoError(t, err)

	_, err = a.CreateExpense(ctx, coffee)
	require.NoError(t, err)
	exps, err := b.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, exps)
}
