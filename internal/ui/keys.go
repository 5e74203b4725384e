package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for every screen. Bindings are matched
// per page, so the same key may mean different things on different screens.
type KeyMap struct {
	// List navigation.
	Up   key.Binding
	Down key.Binding

	// Directory.
	Search      key.Binding
	NewEmployee key.Binding
	Attendance  key.Binding
	Reload      key.Binding

	// Creation form. Letters are text input there, so only non-printing
	// keys move between fields.
	NextField key.Binding
	PrevField key.Binding
	PrevDept  key.Binding
	NextDept  key.Binding
	Submit    key.Binding

	// Attendance.
	Present key.Binding
	Absent  key.Binding
	History key.Binding

	Back      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	NewEmployee: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "add employee"),
	),
	Attendance: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "attendance"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-tab", "prev field"),
	),
	PrevDept: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "prev dept"),
	),
	NextDept: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next dept"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Present: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "present"),
	),
	Absent: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "absent"),
	),
	History: key.NewBinding(
		key.WithKeys("h"),
		key.WithHelp("h", "history"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
