package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Tab      key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Add      key.Binding
	Done     key.Binding
	Move     key.Binding
	Delete   key.Binding
	Edit     key.Binding
	Archive  key.Binding
	Filter   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev section")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next section")),
	Tab:      key.NewBinding(key.WithKeys("tab", " "), key.WithHelp("tab/space", "next section")),
	MoveUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move task up")),
	MoveDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move task down")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Done:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "mark done")),
	Move:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move to next section")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit text")),
	Archive:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "archive old done")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
