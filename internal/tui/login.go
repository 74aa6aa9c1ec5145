package tui

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/theirongolddev/paisa/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const loginFormWidth = 50

// loginValues backs the login form. It lives behind a pointer so the form
// keeps its bindings across copies of App.
type loginValues struct {
	Email    string
	Password string
	Login    bool
}

type loginState struct {
	form *huh.Form
	vals *loginValues
}

func newLoginState(email string) loginState {
	vals := &loginValues{Email: email, Login: true}
	return loginState{form: newLoginForm(vals), vals: vals}
}

func newLoginForm(vals *loginValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("Enter email").
				Value(&vals.Email),
			huh.NewInput().
				Title("Password").
				Placeholder("Password").
				EchoMode(huh.EchoModePassword).
				Value(&vals.Password),
			huh.NewConfirm().
				Affirmative("Login").
				Negative("Sign Up").
				Value(&vals.Login),
		),
	).
		WithTheme(formTheme()).
		WithShowHelp(false).
		WithWidth(loginFormWidth)
}

func (l *loginState) resize(width int) {
	w := width - 8
	if w > loginFormWidth {
		w = loginFormWidth
	}
	if l.form != nil && w > 0 {
		l.form = l.form.WithWidth(w)
	}
}

// formTheme builds a huh theme from the active palette.
func formTheme() *huh.Theme {
	t := theme.Active
	ft := huh.ThemeBase()

	ft.Focused.Base = ft.Focused.Base.BorderForeground(t.BorderAccent)
	ft.Focused.Title = ft.Focused.Title.Foreground(t.Accent).Bold(true)
	ft.Focused.Description = ft.Focused.Description.Foreground(t.TextMuted)
	ft.Focused.ErrorIndicator = ft.Focused.ErrorIndicator.Foreground(t.Red)
	ft.Focused.ErrorMessage = ft.Focused.ErrorMessage.Foreground(t.Red)
	ft.Focused.TextInput.Cursor = ft.Focused.TextInput.Cursor.Foreground(t.AccentBright)
	ft.Focused.TextInput.Placeholder = ft.Focused.TextInput.Placeholder.Foreground(t.TextDim)
	ft.Focused.TextInput.Prompt = ft.Focused.TextInput.Prompt.Foreground(t.Accent)
	ft.Focused.TextInput.Text = ft.Focused.TextInput.Text.Foreground(t.TextPrimary)
	ft.Focused.FocusedButton = ft.Focused.FocusedButton.Foreground(t.Background).Background(t.Accent).Bold(true)
	ft.Focused.BlurredButton = ft.Focused.BlurredButton.Foreground(t.TextMuted).Background(t.SurfaceHover)

	ft.Blurred = ft.Focused
	ft.Blurred.Base = ft.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	ft.Blurred.Title = ft.Blurred.Title.Foreground(t.TextMuted).Bold(false)

	return ft
}

func (a App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.login.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.login.form = f
	}

	switch a.login.form.State {
	case huh.StateCompleted:
		vals := a.login.vals
		// A completed huh form cannot be reused; rebuild it over the same
		// values so a failed attempt keeps what was typed.
		a.login.form = newLoginForm(vals)
		a.login.resize(a.width)
		next, authCmd := a.authenticate(vals.Email, vals.Password, !vals.Login)
		return next, tea.Batch(authCmd, next.login.form.Init())
	case huh.StateAborted:
		return a, tea.Quit
	}

	return a, cmd
}

// authenticate starts a sign-in or sign-up against the gate.
func (a App) authenticate(email, password string, signUp bool) (App, tea.Cmd) {
	return a.startRemote(authCmd(a.gate, a.timeout, email, password, signUp))
}

func (a App) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	op := "sign in"
	if msg.signUp {
		op = "sign up"
	}
	if msg.err != nil {
		return a.fail(op, msg.err), nil
	}

	tracker, err := a.trackerFor(msg.session)
	if err != nil {
		return a.fail(op, err), nil
	}

	a.log.Info("signed in", zap.String("email", msg.email), zap.Bool("sign_up", msg.signUp))

	if msg.signUp {
		a.notice = &notice{title: "Sign Up Successful", message: fmt.Sprintf("Account created for %s!", msg.email)}
	} else {
		a.notice = &notice{title: "Login Successful", message: fmt.Sprintf("Welcome %s!", msg.email)}
	}

	a.login.vals.Password = ""
	a.screen = screenExpenses
	a.showHelp = false
	a.exp = newExpenseState(tracker, msg.session, a.now())
	a.exp.resize(a.contentWidth(), a.height)

	// busy stays set until the first reload lands.
	return a, tea.Batch(a.reload(), a.exp.focusCmd())
}

// logout drops the session and returns to a fresh login form that keeps
// the last email.
func (a App) logout() (tea.Model, tea.Cmd) {
	a.log.Info("signed out", zap.String("email", a.exp.session.Email))

	email := a.login.vals.Email
	a.exp = expenseState{}
	a.screen = screenLogin
	a.showHelp = false
	a.login = newLoginState(email)
	a.login.resize(a.width)
	return a, a.login.form.Init()
}

func (a App) viewLogin(cw, h int) string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	body := titleStyle.Render("◈ "+appTitle) + subtitleStyle.Render(" · expense tracker") +
		"\n\n" + a.login.form.View()

	return lipgloss.Place(cw, h, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}
