package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	left    key.Binding
	right   key.Binding
	toggle  key.Binding
	enter   key.Binding
	next    key.Binding
	back    key.Binding
	cancel  key.Binding
	add     key.Binding
	submit  key.Binding
	login   key.Binding
	logout  key.Binding
	edit    key.Binding
	refresh key.Binding
	quit    key.Binding
	force   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "less")),
		right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "more")),
		toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		back:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "back")),
		cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		add:     key.NewBinding(key.WithKeys("a", "/"), key.WithHelp("a", "add custom")),
		submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		login:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect spotify")),
		logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
		edit:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "edit preferences")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		force:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right},
		{k.toggle, k.next, k.back, k.submit},
		{k.edit, k.refresh, k.logout, k.quit},
	}
}
