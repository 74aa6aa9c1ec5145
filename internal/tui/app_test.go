package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/paisa/internal/auth"
	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/rtdb"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// fakeGate is an in-memory auth.Gate speaking the provider's messages.
type fakeGate struct {
	mu    sync.Mutex
	users map[string]string
}

func newFakeGate() *fakeGate { return &fakeGate{users: map[string]string{}} }

func (g *fakeGate) SignIn(_ context.Context, email, password string) (auth.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if email == "" || password == "" {
		return auth.Session{}, &auth.Error{Op: auth.OpSignIn, Message: "Email and password are required."}
	}
	if pw, ok := g.users[email]; !ok || pw != password {
		return auth.Session{}, &auth.Error{Op: auth.OpSignIn, Message: "INVALID_LOGIN_CREDENTIALS"}
	}
	return auth.Session{UserID: "uid-" + email, Email: email, IDToken: "tok"}, nil
}

func (g *fakeGate) SignUp(_ context.Context, email, password string) (auth.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.users[email]; ok {
		return auth.Session{}, &auth.Error{Op: auth.OpSignUp, Message: "EMAIL_EXISTS"}
	}
	g.users[email] = password
	return auth.Session{UserID: "uid-" + email, Email: email, IDToken: "tok"}, nil
}

const testEmail = "me@example.com"

var testDay = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (App, *rtdb.Memory) {
	t.Helper()
	ns := rtdb.NewMemory()
	a := NewApp(Options{
		Gate: newFakeGate(),
		Tracker: func(s auth.Session) (*expense.Tracker, error) {
			return expense.NewTracker(ns, s, nil, nil)
		},
		Now: func() time.Time { return testDay },
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App), ns
}

// signedIn returns an app on the expense screen with the welcome dialog
// dismissed.
func signedIn(t *testing.T) (App, *rtdb.Memory) {
	t.Helper()
	a, ns := newTestApp(t)
	a, cmd := a.authenticate(testEmail, "secret1", true)
	a = drain(t, a, cmd)
	require.Equal(t, screenExpenses, a.screen)
	require.False(t, a.busy)
	return press(t, a, tea.KeyMsg{Type: tea.KeyEnter}), ns
}

func trackerFor(t *testing.T, ns rtdb.Namespace) *expense.Tracker {
	t.Helper()
	tr, err := expense.NewTracker(ns, auth.Session{UserID: "uid-" + testEmail}, nil, nil)
	require.NoError(t, err)
	return tr
}

// drain runs cmd and feeds every auth and store result back into the app
// until nothing is left. Timer commands (spinner, cursor blink) are dropped.
func drain(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	for _, msg := range collect(cmd) {
		m, next := a.Update(msg)
		a = m.(App)
		a = drain(t, a, next)
	}
	return a
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return nil
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case authMsg, loadedMsg, categoriesMsg, mutatedMsg:
		return []tea.Msg{msg}
	}
	return nil
}

func press(t *testing.T, a App, msg tea.KeyMsg) App {
	t.Helper()
	m, cmd := a.Update(msg)
	return drain(t, m.(App), cmd)
}

func TestLoginFailureShowsDialogAndKeepsForm(t *testing.T) {
	a, _ := newTestApp(t)
	a.login.vals.Email = testEmail
	a.login.vals.Password = "wrong"

	a, cmd := a.authenticate(testEmail, "wrong", false)
	assert.True(t, a.busy)
	a = drain(t, a, cmd)

	assert.Equal(t, screenLogin, a.screen)
	assert.False(t, a.busy)
	require.NotNil(t, a.notice)
	assert.Equal(t, "Login Failed", a.notice.title)
	assert.Equal(t, "INVALID_LOGIN_CREDENTIALS", a.notice.message)
	assert.Equal(t, "wrong", a.login.vals.Password)
	assert.Contains(t, a.View(), "INVALID_LOGIN_CREDENTIALS")

	a = press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, a.notice)
}

func TestSignUpCarriesSessionToExpenseScreen(t *testing.T) {
	a, _ := newTestApp(t)

	a, cmd := a.authenticate(testEmail, "secret1", true)
	a = drain(t, a, cmd)

	assert.Equal(t, screenExpenses, a.screen)
	assert.Equal(t, "uid-"+testEmail, a.exp.session.UserID)
	require.NotNil(t, a.notice)
	assert.Equal(t, "Sign Up Successful", a.notice.title)
	assert.Equal(t, "Account created for "+testEmail+"!", a.notice.message)
	assert.Empty(t, a.login.vals.Password)

	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	view := a.View()
	assert.Contains(t, view, expense.NoExpensesRow)
	assert.Contains(t, view, "Total Expenses: $0.00")
	assert.Equal(t, "Miscellaneous", a.exp.currentCategory())
	assert.Equal(t, "2024-01-10", a.exp.date.Value())
}

func TestSignInShowsWelcome(t *testing.T) {
	a, _ := newTestApp(t)
	a, cmd := a.authenticate(testEmail, "secret1", true)
	a = drain(t, a, cmd)
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := a.logout()
	a = drain(t, m.(App), cmd)

	a, cmd = a.authenticate(testEmail, "secret1", false)
	a = drain(t, a, cmd)
	require.NotNil(t, a.notice)
	assert.Equal(t, "Login Successful", a.notice.title)
	assert.Equal(t, "Welcome "+testEmail+"!", a.notice.message)
}

func TestBusyIgnoresKeys(t *testing.T) {
	a, _ := signedIn(t)
	a.busy = true
	a.exp.title.SetValue("Coffee")
	a.exp.amount.SetValue("4.50")

	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.True(t, m.(App).busy)
}

func TestAddExpenseClearsTitleAndAmount(t *testing.T) {
	a, _ := signedIn(t)
	a.exp.title.SetValue("Coffee")
	a.exp.amount.SetValue("4.50")

	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.Len(t, a.exp.expenses, 1)
	e := a.exp.expenses[0]
	assert.Equal(t, "Coffee", e.Title)
	assert.InDelta(t, 4.5, e.Amount, 1e-9)
	assert.Equal(t, "2024-01-10", e.Date)
	assert.Equal(t, "Miscellaneous", e.Category)

	assert.Empty(t, a.exp.title.Value())
	assert.Empty(t, a.exp.amount.Value())
	assert.Equal(t, "2024-01-10", a.exp.date.Value())
	assert.Contains(t, a.View(), "Coffee: $4.5 [Miscellaneous] on 2024-01-10")
	assert.Contains(t, a.View(), "Total Expenses: $4.50")
}

func TestAddInvalidAmountKeepsInputs(t *testing.T) {
	a, _ := signedIn(t)
	a.exp.title.SetValue("Lunch")
	a.exp.amount.SetValue("abc")

	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.NotNil(t, a.notice)
	assert.Equal(t, "Invalid Input", a.notice.title)
	assert.Equal(t, expense.MsgAmountNumeric, a.notice.message)
	assert.Equal(t, "Lunch", a.exp.title.Value())
	assert.Equal(t, "abc", a.exp.amount.Value())
	assert.Empty(t, a.exp.expenses)
}

func TestAddMissingFieldIsInputError(t *testing.T) {
	a, _ := signedIn(t)
	a.exp.amount.SetValue("3")

	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.NotNil(t, a.notice)
	assert.Equal(t, "Input Error", a.notice.title)
	assert.Equal(t, expense.MsgRequired, a.notice.message)
}

func TestEditAndDeleteNeedSelection(t *testing.T) {
	a, _ := signedIn(t)

	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Nil(t, cmd)
	assert.False(t, m.(App).busy)

	m, cmd = a.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Nil(t, cmd)
	assert.False(t, m.(App).busy)
}

func TestPlaceholderRowIsNotSelectable(t *testing.T) {
	a, _ := signedIn(t)
	a.exp.focus = focusList

	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, a.exp.selected)
	assert.Nil(t, a.notice)
}

func TestSelectEditDelete(t *testing.T) {
	a, _ := signedIn(t)
	for _, d := range []struct{ title, amount string }{{"Coffee", "4.50"}, {"Taxi", "12"}} {
		a.exp.title.SetValue(d.title)
		a.exp.amount.SetValue(d.amount)
		a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS})
	}
	require.Len(t, a.exp.expenses, 2)

	a.exp.focus = focusList
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, a.exp.selected)
	assert.Equal(t, "Coffee", a.exp.title.Value())
	assert.Equal(t, "4.5", a.exp.amount.Value())

	// Edit only the amount; the other fields are written back unchanged.
	a.exp.amount.SetValue("9.99")
	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Nil(t, a.exp.selected, "reload clears the selection")
	require.Len(t, a.exp.expenses, 2)
	assert.Equal(t, "Coffee", a.exp.expenses[0].Title)
	assert.InDelta(t, 9.99, a.exp.expenses[0].Amount, 1e-9)
	assert.Equal(t, "2024-01-10", a.exp.expenses[0].Date)
	assert.Contains(t, a.View(), "Total Expenses: $21.99")

	a = press(t, a, tea.KeyMsg{Type: tea.KeyDown})
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, a.exp.selected)
	assert.Equal(t, "Taxi", a.exp.selected.Title)

	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.Len(t, a.exp.expenses, 1)
	assert.Equal(t, "Coffee", a.exp.expenses[0].Title)
	assert.Empty(t, a.exp.title.Value())
	assert.Empty(t, a.exp.amount.Value())
	assert.Contains(t, a.View(), "Total Expenses: $9.99")
}

func TestEditKeepsCategoryMissingFromList(t *testing.T) {
	a, ns := signedIn(t)

	// Stored under the default before any category existed.
	a.exp.title.SetValue("Coffee")
	a.exp.amount.SetValue("4.5")
	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Len(t, a.exp.expenses, 1)
	require.Equal(t, expense.DefaultCategory, a.exp.expenses[0].Category)

	require.NoError(t, trackerFor(t, ns).AddCategory(context.Background(), "Food"))
	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Equal(t, []string{"Food"}, a.exp.formCategories())

	a.exp.focus = focusList
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, a.exp.selected)
	assert.Equal(t, expense.DefaultCategory, a.exp.currentCategory())

	a.exp.amount.SetValue("9.99")
	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlE})
	require.Len(t, a.exp.expenses, 1)
	assert.InDelta(t, 9.99, a.exp.expenses[0].Amount, 1e-9)
	assert.Equal(t, expense.DefaultCategory, a.exp.expenses[0].Category)
	assert.Equal(t, []string{"Food"}, a.exp.formCategories(), "the extra option goes with the selection")
}

func TestFilterNarrowsByCategory(t *testing.T) {
	a, ns := signedIn(t)
	tr := trackerFor(t, ns)
	ctx := context.Background()
	require.NoError(t, tr.AddCategory(ctx, "Food"))
	require.NoError(t, tr.AddCategory(ctx, "Travel"))
	for _, d := range []expense.Draft{
		{Title: "Dinner", Amount: "30", Date: "2024-01-02", Category: "Food"},
		{Title: "Train", Amount: "12", Date: "2024-01-03", Category: "Travel"},
		{Title: "Snack", Amount: "3", Date: "2024-01-04", Category: "Food"},
	} {
		_, err := tr.CreateExpense(ctx, d)
		require.NoError(t, err)
	}

	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, []string{expense.AllCategories, "Food", "Travel"}, a.exp.filterOptions())
	assert.Len(t, a.exp.expenses, 3)

	a.exp.focus = focusFilter
	a = press(t, a, tea.KeyMsg{Type: tea.KeyRight})

	assert.Equal(t, "Food", a.exp.currentFilter())
	require.Len(t, a.exp.expenses, 2)
	assert.Equal(t, "Snack", a.exp.expenses[0].Title, "filtered list is ordered by amount")
	assert.Equal(t, "Dinner", a.exp.expenses[1].Title)
	assert.Contains(t, a.View(), "Total Expenses: $33.00")

	// Back to the sentinel: everything, still ordered by amount.
	a = press(t, a, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, expense.AllCategories, a.exp.currentFilter())
	require.Len(t, a.exp.expenses, 3)
	assert.Equal(t, "Snack", a.exp.expenses[0].Title)
	assert.Equal(t, "Dinner", a.exp.expenses[2].Title)
}

func TestReloadKeepsActiveFilter(t *testing.T) {
	a, ns := signedIn(t)
	tr := trackerFor(t, ns)
	require.NoError(t, tr.AddCategory(context.Background(), "Food"))
	require.NoError(t, tr.AddCategory(context.Background(), "Travel"))
	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlR})

	a.exp.focus = focusFilter
	a = press(t, a, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, "Food", a.exp.currentFilter())

	a.exp.category = 1 // Travel
	a.exp.title.SetValue("Bus")
	a.exp.amount.SetValue("2")
	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, "Food", a.exp.currentFilter())
	assert.Empty(t, a.exp.expenses, "a Travel expense stays hidden under the Food filter")
}

func TestAddCategoryRefreshesSelectors(t *testing.T) {
	a, _ := signedIn(t)

	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	a = m.(App)
	require.NotNil(t, a.exp.categoryForm)

	a = press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, a.exp.categoryForm)

	m, cmd := a.addCategory("Books")
	a = drain(t, m.(App), cmd)

	_, cmd = a.handleMutated(mutatedMsg{op: opAddCategory})
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "category reload keeps the spinner ticking")
	assert.Len(t, batch, 2)

	assert.Equal(t, []string{"Books"}, a.exp.categories)
	assert.Equal(t, []string{"Books"}, a.exp.formCategories())
	assert.Equal(t, []string{expense.AllCategories, "Books"}, a.exp.filterOptions())
	assert.False(t, a.busy)
}

func TestLogoutDropsSession(t *testing.T) {
	a, _ := signedIn(t)
	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlO})

	assert.Equal(t, screenLogin, a.screen)
	assert.Empty(t, a.exp.session.UserID)
	assert.Nil(t, a.exp.tracker)
	assert.Equal(t, testEmail, a.login.vals.Email)
	assert.Empty(t, a.login.vals.Password)
}

func TestHelpOverlay(t *testing.T) {
	a, _ := signedIn(t)
	a.exp.focus = focusList

	a = press(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, a.showHelp)
	assert.Contains(t, a.View(), "Keyboard Shortcuts")

	a = press(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.False(t, a.showHelp)
}

func TestTypingGoesToFocusedField(t *testing.T) {
	a, _ := signedIn(t)

	a = press(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Tea?")})
	assert.Equal(t, "Tea?", a.exp.title.Value())
	assert.False(t, a.showHelp)

	a = press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusAmount, a.exp.focus)
	a = press(t, a, tea.KeyMsg{Type: tea.KeyShiftTab})
	a = press(t, a, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, focusList, a.exp.focus)
}

func TestTooNarrow(t *testing.T) {
	a, _ := newTestApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.(App).View(), "Terminal too narrow")
}

func TestViewFillsTerminal(t *testing.T) {
	a, _ := signedIn(t)
	lines := strings.Split(a.View(), "\n")
	assert.Len(t, lines, 40)
}
