package tui

import "github.com/charmbracelet/bubbles/key"

// chatKeyMap holds the chat client's key bindings.
type chatKeyMap struct {
	Send       key.Binding
	Attach     key.Binding
	Clear      key.Binding
	Theme      key.Binding
	Model      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Back       key.Binding
	Quit       key.Binding
}

func newChatKeyMap() chatKeyMap {
	return chatKeyMap{
		Send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Attach:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "attach file")),
		Clear:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Theme:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "dark/light")),
		Model:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next model")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k chatKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Attach, k.Clear, k.Theme, k.Model, k.Back}
}

// FullHelp implements help.KeyMap.
func (k chatKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Attach, k.Clear},
		{k.Theme, k.Model},
		{k.ScrollUp, k.ScrollDown, k.Back, k.Quit},
	}
}
