package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	First    key.Binding
	Last     key.Binding
	Refresh  key.Binding
	LoadMore key.Binding
	Enable   key.Binding
	Auto     key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	First: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first"),
	),
	Last: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	LoadMore: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "load more"),
	),
	Enable: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "toggle enabled"),
	),
	Auto: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle auto load"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y", "c"),
		key.WithHelp("y", "copy row"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.LoadMore, k.Enable, k.Auto, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.First, k.Last},
		{k.Refresh, k.LoadMore, k.Enable, k.Auto},
		{k.Copy, k.Help, k.Quit, k.Escape},
	}
}
