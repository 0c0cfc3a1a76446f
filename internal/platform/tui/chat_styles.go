package tui

import "github.com/charmbracelet/lipgloss"

// chatStyles is one palette of the chat client.
type chatStyles struct {
	Header    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Body      lipgloss.Style
	Typing    lipgloss.Style
	Status    lipgloss.Style
	File      lipgloss.Style
}

var (
	darkChatStyles = chatStyles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("236")).Padding(0, 1),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Body:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Typing:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		File:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	}

	lightChatStyles = chatStyles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("253")).Padding(0, 1),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("28")),
		Body:      lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		Typing:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		File:      lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
	}
)

func stylesFor(dark bool) chatStyles {
	if dark {
		return darkChatStyles
	}
	return lightChatStyles
}
