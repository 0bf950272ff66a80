package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap lists every binding of the review screen.
type KeyMap struct {
	SwitchPane key.Binding
	Down       key.Binding
	Up         key.Binding
	Open       key.Binding
	Back       key.Binding
	Pending    key.Binding
	Later      key.Binding
	Done       key.Binding
	Ask        key.Binding
	Suggest    key.Binding
	Apply      key.Binding
	Retry      key.Binding
	PageDown   key.Binding
	PageUp     key.Binding
	Dismiss    key.Binding
	Quit       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "pane")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "move")),
		Up:         key.NewBinding(key.WithKeys("k", "up")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detail")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Pending:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1/2/3", "pending/later/done")),
		Later:      key.NewBinding(key.WithKeys("2")),
		Done:       key.NewBinding(key.WithKeys("3")),
		Ask:        key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "ask")),
		Suggest:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "suggest")),
		Apply:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply")),
		Retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
		Dismiss:    key.NewBinding(key.WithKeys("x")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchPane, k.Down, k.Open, k.Back, k.Pending, k.Ask, k.Suggest, k.Apply, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SwitchPane, k.Down, k.Open, k.Back},
		{k.Pending, k.Ask, k.Suggest, k.Apply},
		{k.Retry, k.Quit},
	}
}
