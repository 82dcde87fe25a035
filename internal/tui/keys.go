package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search  key.Binding
	Done    key.Binding
	Remove  key.Binding
	Refetch key.Binding
	Quit    key.Binding
}

func newKeyMap(allowRefetch bool) keyMap {
	k := keyMap{
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Done:    key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter/esc", "done")),
		Remove:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove")),
		Refetch: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	k.Refetch.SetEnabled(allowRefetch)
	return k
}

func (k keyMap) extra() []key.Binding {
	return []key.Binding{k.Search, k.Remove, k.Refetch}
}
