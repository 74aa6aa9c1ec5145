package tui

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/paisa/internal/auth"
	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// focus is the expense screen zone receiving keys.
type focus int

const (
	focusTitle focus = iota
	focusAmount
	focusDate
	focusCategory
	focusFilter
	focusList
	focusCount // sentinel
)

func (f focus) inForm() bool {
	return f <= focusCategory
}

// expenseState is the expense screen. It exists only while a session is
// held and is discarded on logout.
type expenseState struct {
	session auth.Session
	tracker *expense.Tracker

	title  textinput.Model
	amount textinput.Model
	date   textinput.Model
	focus  focus

	categories []string
	category   int // index into expense.FormCategories(categories)
	filter     int // index into expense.FilterOptions(categories)
	// orderByAmount is set once the filter has been touched; from then on
	// reloads read the amount-ordered listing.
	orderByAmount bool

	expenses []model.Expense
	cursor   int
	offset   int
	listH    int
	// selected is the row chosen for edit/delete, with its store key.
	selected *model.Expense

	categoryForm *huh.Form
	newCategory  *string
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 30
	return ti
}

func newExpenseState(tr *expense.Tracker, sess auth.Session, today time.Time) expenseState {
	s := expenseState{
		session: sess,
		tracker: tr,
		title:   newTextInput("Coffee", 120),
		amount:  newTextInput("4.50", 32),
		date:    newTextInput(expense.DateLayout, 10),
		listH:   10,
	}
	s.date.SetValue(today.Format(expense.DateLayout))
	s.title.Focus()
	return s
}

// listChrome is the number of content lines around the expense rows:
// header, status bar, card borders, filter line, spacer and total line.
const listChrome = 7

func (s *expenseState) resize(width, height int) {
	s.listH = height - listChrome
	if s.listH < 3 {
		s.listH = 3
	}
	w := width/2 - 16
	if w < 12 {
		w = 12
	}
	s.title.Width = w
	s.amount.Width = w
	s.date.Width = w
	if s.categoryForm != nil {
		s.categoryForm = s.categoryForm.WithWidth(width / 2)
	}
}

func (s *expenseState) focusCmd() tea.Cmd {
	s.title.Blur()
	s.amount.Blur()
	s.date.Blur()
	switch s.focus {
	case focusTitle:
		return s.title.Focus()
	case focusAmount:
		return s.amount.Focus()
	case focusDate:
		return s.date.Focus()
	}
	return nil
}

func (s *expenseState) input() *textinput.Model {
	switch s.focus {
	case focusTitle:
		return &s.title
	case focusAmount:
		return &s.amount
	case focusDate:
		return &s.date
	}
	return nil
}

// formCategories lists the category picker options. While a row is
// selected its category stays pickable even when the category list no
// longer names it, so an edit writes it back unchanged.
func (s expenseState) formCategories() []string {
	opts := expense.FormCategories(s.categories)
	if s.selected != nil && s.selected.Category != "" {
		if _, ok := find(opts, s.selected.Category); !ok {
			opts = append(opts, s.selected.Category)
		}
	}
	return opts
}

func (s expenseState) filterOptions() []string {
	return expense.FilterOptions(s.categories)
}

func (s expenseState) currentCategory() string {
	opts := s.formCategories()
	if s.category < 0 || s.category >= len(opts) {
		return opts[0]
	}
	return opts[s.category]
}

func (s expenseState) currentFilter() string {
	opts := s.filterOptions()
	if s.filter < 0 || s.filter >= len(opts) {
		return expense.AllCategories
	}
	return opts[s.filter]
}

func (s expenseState) draft() expense.Draft {
	return expense.Draft{
		Title:    s.title.Value(),
		Amount:   s.amount.Value(),
		Date:     s.date.Value(),
		Category: s.currentCategory(),
	}
}

// setCategories swaps in a fresh category list, keeping the form and
// filter selections on the same names when they still exist.
func (s *expenseState) setCategories(cats []string) {
	category := s.currentCategory()
	filter := s.currentFilter()
	s.categories = cats
	s.category = indexOf(s.formCategories(), category)
	s.filter = indexOf(s.filterOptions(), filter)
}

// rows is the number of list rows, counting the placeholder row.
func (s expenseState) rows() int {
	if len(s.expenses) == 0 {
		return 1
	}
	return len(s.expenses)
}

func (s *expenseState) moveCursor(delta int) {
	s.cursor += delta
	if s.cursor >= s.rows() {
		s.cursor = s.rows() - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.listH > 0 && s.cursor >= s.offset+s.listH {
		s.offset = s.cursor - s.listH + 1
	}
}

// selectRow loads the row under the cursor into the form. The placeholder
// row is not selectable.
func (s *expenseState) selectRow() {
	if len(s.expenses) == 0 || s.cursor >= len(s.expenses) {
		return
	}
	e := s.expenses[s.cursor]
	s.selected = &e

	d := expense.DraftOf(e)
	s.title.SetValue(d.Title)
	s.amount.SetValue(d.Amount)
	s.date.SetValue(d.Date)
	if i, ok := find(s.formCategories(), e.Category); ok {
		s.category = i
	}
}

func (s *expenseState) clearForm() {
	s.selected = nil
	s.title.SetValue("")
	s.amount.SetValue("")
}

// indexOf returns the first index of v in items, or 0.
func indexOf(items []string, v string) int {
	i, _ := find(items, v)
	return i
}

func find(items []string, v string) (int, bool) {
	for i, it := range items {
		if it == v {
			return i, true
		}
	}
	return 0, false
}

func cycle(i, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}

// reload issues a full reload honoring the active filter. Callers set busy.
func (a App) reload() tea.Cmd {
	return tea.Batch(
		loadCmd(a.exp.tracker, a.timeout, a.exp.currentFilter(), a.exp.orderByAmount),
		a.spinner.Tick,
	)
}

func (a App) updateExpenses(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.exp.categoryForm != nil {
		return a.updateCategoryForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if in := a.exp.input(); in != nil {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.keys.Edit.SetEnabled(a.exp.selected != nil)
	a.keys.Delete.SetEnabled(a.exp.selected != nil)

	switch {
	case key.Matches(km, a.keys.NextField):
		a.exp.focus = focus(cycle(int(a.exp.focus), 1, int(focusCount)))
		return a, a.exp.focusCmd()
	case key.Matches(km, a.keys.PrevField):
		a.exp.focus = focus(cycle(int(a.exp.focus), -1, int(focusCount)))
		return a, a.exp.focusCmd()
	case key.Matches(km, a.keys.Add):
		return a.addExpense()
	case key.Matches(km, a.keys.Edit):
		return a.editExpense()
	case key.Matches(km, a.keys.Delete):
		return a.deleteExpense()
	case key.Matches(km, a.keys.NewCategory):
		return a.openCategoryForm()
	case key.Matches(km, a.keys.Logout):
		return a.logout()
	case key.Matches(km, a.keys.Refresh):
		a.busy = true
		return a, a.reload()
	case key.Matches(km, a.keys.Clear):
		a.exp.clearForm()
		return a, nil
	}

	if in := a.exp.input(); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(km)
		return a, cmd
	}

	if key.Matches(km, a.keys.Help) {
		a.showHelp = true
		return a, nil
	}

	switch a.exp.focus {
	case focusCategory:
		n := len(a.exp.formCategories())
		switch {
		case key.Matches(km, a.keys.Left):
			a.exp.category = cycle(a.exp.category, -1, n)
		case key.Matches(km, a.keys.Right):
			a.exp.category = cycle(a.exp.category, 1, n)
		}
		return a, nil

	case focusFilter:
		n := len(a.exp.filterOptions())
		delta := 0
		switch {
		case key.Matches(km, a.keys.Left):
			delta = -1
		case key.Matches(km, a.keys.Right):
			delta = 1
		}
		if delta == 0 || n < 2 {
			return a, nil
		}
		return a.setFilter(cycle(a.exp.filter, delta, n))

	case focusList:
		switch {
		case key.Matches(km, a.keys.Up):
			a.exp.moveCursor(-1)
		case key.Matches(km, a.keys.Down):
			a.exp.moveCursor(1)
		case key.Matches(km, a.keys.Select):
			a.exp.selectRow()
		}
		return a, nil
	}

	return a, nil
}

// setFilter changes the category filter and reloads the list.
func (a App) setFilter(i int) (tea.Model, tea.Cmd) {
	a.exp.filter = i
	a.exp.orderByAmount = true
	a.busy = true
	return a, a.reload()
}

func (a App) addExpense() (tea.Model, tea.Cmd) {
	tr, d := a.exp.tracker, a.exp.draft()
	return a.startRemote(mutateCmd(a.timeout, opAdd, func(ctx context.Context) error {
		_, err := tr.CreateExpense(ctx, d)
		return err
	}))
}

func (a App) editExpense() (tea.Model, tea.Cmd) {
	if a.exp.selected == nil {
		return a, nil
	}
	tr, k, d := a.exp.tracker, a.exp.selected.Key, a.exp.draft()
	return a.startRemote(mutateCmd(a.timeout, opEdit, func(ctx context.Context) error {
		return tr.UpdateExpense(ctx, k, d)
	}))
}

func (a App) deleteExpense() (tea.Model, tea.Cmd) {
	if a.exp.selected == nil {
		return a, nil
	}
	tr, k := a.exp.tracker, a.exp.selected.Key
	return a.startRemote(mutateCmd(a.timeout, opDelete, func(ctx context.Context) error {
		return tr.DeleteExpense(ctx, k)
	}))
}

func (a App) openCategoryForm() (tea.Model, tea.Cmd) {
	name := ""
	a.exp.newCategory = &name
	a.exp.categoryForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Add Category").
				Description("Category Name:").
				CharLimit(64).
				Value(a.exp.newCategory),
		),
	).
		WithTheme(formTheme()).
		WithShowHelp(false).
		WithWidth(a.contentWidth() / 2)
	return a, a.exp.categoryForm.Init()
}

func (a App) updateCategoryForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		a.exp.categoryForm = nil
		a.exp.newCategory = nil
		return a, a.exp.focusCmd()
	}

	form, cmd := a.exp.categoryForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.exp.categoryForm = f
	}

	switch a.exp.categoryForm.State {
	case huh.StateCompleted:
		name := strings.TrimSpace(*a.exp.newCategory)
		a.exp.categoryForm = nil
		a.exp.newCategory = nil
		if name == "" {
			return a, a.exp.focusCmd()
		}
		return a.addCategory(name)
	case huh.StateAborted:
		a.exp.categoryForm = nil
		a.exp.newCategory = nil
		return a, a.exp.focusCmd()
	}

	return a, cmd
}

func (a App) addCategory(name string) (tea.Model, tea.Cmd) {
	tr := a.exp.tracker
	return a.startRemote(mutateCmd(a.timeout, opAddCategory, func(ctx context.Context) error {
		return tr.AddCategory(ctx, name)
	}))
}

func (a App) handleMutated(msg mutatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a.fail(msg.op.String(), msg.err), nil
	}
	a.log.Debug("store updated", zap.Stringer("op", msg.op))

	switch msg.op {
	case opAddCategory:
		return a, tea.Batch(loadCategoriesCmd(a.exp.tracker, a.timeout), a.spinner.Tick)
	case opAdd, opDelete:
		a.exp.clearForm()
	}
	return a, a.reload()
}

func (a App) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a.fail("reload", msg.err), nil
	}
	a.busy = false
	a.exp.setCategories(msg.categories)
	a.exp.expenses = msg.expenses
	a.exp.cursor = 0
	a.exp.offset = 0
	a.exp.selected = nil
	return a, nil
}

func (a App) handleCategories(msg categoriesMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a.fail("reload categories", msg.err), nil
	}
	a.busy = false
	a.exp.setCategories(msg.categories)
	return a, a.exp.focusCmd()
}
