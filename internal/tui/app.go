// Package tui provides the interactive Bubble Tea front end for paisa: a
// login screen and an expense screen sharing one root model.
package tui

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/paisa/internal/auth"
	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/tui/components"
	"github.com/theirongolddev/paisa/internal/tui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	appTitle         = "Paisa"
	minTerminalWidth = 80
	maxContentWidth  = 140
	minContentHeight = 5

	defaultTimeout = 15 * time.Second
)

type screen int

const (
	screenLogin screen = iota
	screenExpenses
)

// Options wires the TUI to a backend.
type Options struct {
	Gate    auth.Gate
	Tracker func(auth.Session) (*expense.Tracker, error)
	Log     *zap.Logger
	// Email prefills the login form.
	Email string
	// Timeout bounds every remote call. Zero means 15s.
	Timeout time.Duration
	// Now seeds the date field. Defaults to time.Now.
	Now func() time.Time
}

// notice is a blocking modal. Errors and confirmations share it.
type notice struct {
	title   string
	message string
	isError bool
}

// App is the root Bubble Tea model.
type App struct {
	gate       auth.Gate
	trackerFor func(auth.Session) (*expense.Tracker, error)
	log        *zap.Logger
	timeout    time.Duration
	now        func() time.Time

	// UI state
	width    int
	height   int
	screen   screen
	showHelp bool
	notice   *notice

	// busy is set while a remote call is in flight; input is ignored
	// until its result message arrives.
	busy    bool
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	login loginState
	exp   expenseState
}

// NewApp creates the TUI model, starting on the login screen.
func NewApp(opts Options) App {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	h := help.New()
	h.Styles.ShortKey = h.Styles.ShortKey.Foreground(theme.Active.Accent)
	h.Styles.ShortDesc = h.Styles.ShortDesc.Foreground(theme.Active.TextMuted)
	h.Styles.ShortSeparator = h.Styles.ShortSeparator.Foreground(theme.Active.TextDim)
	h.Styles.FullKey = h.Styles.FullKey.Foreground(theme.Active.Accent)
	h.Styles.FullDesc = h.Styles.FullDesc.Foreground(theme.Active.TextMuted)

	return App{
		gate:       opts.Gate,
		trackerFor: opts.Tracker,
		log:        opts.Log,
		timeout:    opts.Timeout,
		now:        opts.Now,
		spinner:    sp,
		help:       h,
		keys:       newKeyMap(),
		login:      newLoginState(opts.Email),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.login.form.Init()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.login.resize(msg.Width)
		a.exp.resize(a.contentWidth(), a.height)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		if a.busy {
			return a, nil
		}
		if a.notice != nil {
			if key.Matches(msg, a.keys.Dismiss) {
				a.notice = nil
			}
			return a, nil
		}
		if a.screen == screenLogin {
			return a.updateLogin(msg)
		}
		return a.updateExpenses(msg)

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case authMsg:
		return a.handleAuth(msg)

	case loadedMsg:
		return a.handleLoaded(msg)

	case categoriesMsg:
		return a.handleCategories(msg)

	case mutatedMsg:
		return a.handleMutated(msg)
	}

	// Forward unhandled messages (cursor blinks, form internals) to the
	// active screen.
	if a.screen == screenLogin {
		return a.updateLogin(msg)
	}
	return a.updateExpenses(msg)
}

// startRemote marks the app busy and runs cmd alongside the spinner.
func (a App) startRemote(cmd tea.Cmd) (App, tea.Cmd) {
	a.busy = true
	return a, tea.Batch(cmd, a.spinner.Tick)
}

// fail clears the busy flag and raises an error modal. Prior state is
// left as it was.
func (a App) fail(action string, err error) App {
	a.busy = false
	title, message := expense.Describe(err)
	a.notice = &notice{title: title, message: message, isError: true}
	a.log.Debug("action failed", zap.String("action", action), zap.Error(err))
	return a
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.notice != nil {
		return components.Dialog(a.notice.title, a.notice.message, "Press Enter to continue",
			a.notice.isError, a.width, a.height)
	}

	if a.showHelp && a.screen == screenExpenses {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  paisa needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	user := ""
	if a.screen == screenExpenses {
		user = a.exp.session.Email
	}
	header := components.RenderHeader(appTitle, user, w)

	right := ""
	if a.busy {
		right = a.spinner.View() + " Working…"
	}
	var left string
	if a.screen == screenLogin {
		left = a.help.ShortHelpView([]key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
			key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "login or sign up")),
			a.keys.Quit,
		})
	} else {
		left = a.help.ShortHelpView(a.keys.ShortHelp())
	}
	statusBar := components.RenderStatusBar(w, left, right)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	if a.screen == screenLogin {
		content = a.viewLogin(cw, contentH)
	} else {
		content = a.viewExpenses(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
