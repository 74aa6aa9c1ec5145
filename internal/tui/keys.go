package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the expense screen bindings. Edit and Delete are disabled
// while no row is selected, which also makes key.Matches ignore them.
type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Dismiss     key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	Add         key.Binding
	Edit        key.Binding
	Delete      key.Binding
	NewCategory key.Binding
	Logout      key.Binding
	Refresh     key.Binding
	Clear       key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Select      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Dismiss:     key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter/esc", "dismiss")),
		NextField:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Add:         key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "add")),
		Edit:        key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("^e", "edit"), key.WithDisabled()),
		Delete:      key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("^x", "delete"), key.WithDisabled()),
		NewCategory: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^n", "new category")),
		Logout:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^o", "log out")),
		Refresh:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "reload")),
		Clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear form")),
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Left:        key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "previous")),
		Right:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next")),
		Select:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.NewCategory, k.NextField, k.Logout, k.Help}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.Up, k.Down, k.Left, k.Right, k.Select},
		{k.Add, k.Edit, k.Delete, k.NewCategory, k.Refresh, k.Clear},
		{k.Logout, k.Help, k.Quit},
	}
}
