package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Activate   key.Binding
	Decrease   key.Binding
	Increase   key.Binding
	CoarseDown key.Binding
	CoarseUp   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func Key(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(keyboardKey[0], help))
}

func newKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Activate:   key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "toggle")),
		Decrease:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Increase:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		CoarseDown: Key("-10", "["),
		CoarseUp:   Key("+10", "]"),
		Help:       Key("more", "?"),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Activate, k.Decrease, k.Increase, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Activate},
		{k.Decrease, k.Increase, k.CoarseDown, k.CoarseUp},
		{k.Help, k.Quit},
	}
}
