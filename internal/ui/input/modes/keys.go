package modes

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the normal mode key bindings
type KeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	First    key.Binding
	Last     key.Binding
	SkipBack key.Binding
	SkipFwd  key.Binding
	Up       key.Binding
	Down     key.Binding
	FocusBar key.Binding
	Open     key.Binding
	Search   key.Binding
	Jump     key.Binding
	Cancel   key.Binding
	Retry    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// Keys is the key map used by normal mode and the help bar
var Keys = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("n", "right", "l"),
		key.WithHelp("n/→", "next page"),
	),
	Prev: key.NewBinding(
		key.WithKeys("b", "left", "h"),
		key.WithHelp("b/←", "prev page"),
	),
	First: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first page"),
	),
	Last: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last page"),
	),
	SkipBack: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "skip back"),
	),
	SkipFwd: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "skip ahead"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "down"),
	),
	FocusBar: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "page bar"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open recipe"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Jump: key.NewBinding(
		key.WithKeys(":"),
		key.WithHelp(":", "go to page"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("x", "esc"),
		key.WithHelp("x", "cancel"),
	),
	Retry: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "retry"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns bindings for the one-line help bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Next, k.Prev, k.FocusBar, k.Open, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped into columns
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.First, k.Last, k.SkipBack, k.SkipFwd},
		{k.Up, k.Down, k.Open, k.FocusBar},
		{k.Search, k.Jump, k.Cancel, k.Retry},
		{k.Help, k.Quit},
	}
}
