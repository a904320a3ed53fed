package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Task actions
	Add     key.Binding
	Edit    key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Snooze  key.Binding
	Undo    key.Binding
	MoveUp  key.Binding
	MoveDn  key.Binding
	Backlog key.Binding
	Clear   key.Binding

	// Day navigation
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding

	// Bulk
	MigrateAll key.Binding
	ClearPref  key.Binding

	// Views
	ArchiveView key.Binding
	RecycleView key.Binding

	// General
	Help    key.Binding
	Quit    key.Binding
	Back    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev pane")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next pane")),

		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle done")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Snooze:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "snooze to tomorrow")),
		Undo:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo delete")),
		MoveUp:  key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDn:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		Backlog: key.NewBinding(key.WithKeys("0", "b"), key.WithHelp("0/b", "to backlog")),
		Clear:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear day")),

		PrevDay: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous day")),
		NextDay: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next day")),
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),

		MigrateAll: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "migrate unfinished")),
		ClearPref:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "forget carry-over choice")),

		ArchiveView: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "archive")),
		RecycleView: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "recycle bin")),

		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Confirm: key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
	}
}
