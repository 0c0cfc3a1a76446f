package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-lounge/internal/core"
)

// FoodMode selects how Snake places food.
type FoodMode int

const (
	// FoodAnywhere spawns food on any cell, including under the snake.
	FoodAnywhere FoodMode = iota
	// FoodAvoidSnake spawns food only on free cells.
	FoodAvoidSnake
)

var foodModes = []struct {
	mode  FoodMode
	label string
}{
	{FoodAnywhere, "Classic (food may land on the snake)"},
	{FoodAvoidSnake, "Tidy (food avoids the snake)"},
}

// SnakeModeModel lets users choose how food is placed before playing Snake.
type SnakeModeModel struct {
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selection FoodMode
	choosing  bool
	quitting  bool
	back      bool
}

// NewSnakeModeModel creates a new Snake mode selection model with the cursor
// on the current mode.
func NewSnakeModeModel(width, height int, current FoodMode) SnakeModeModel {
	cursor := 0
	for i, fm := range foodModes {
		if fm.mode == current {
			cursor = i
		}
	}
	return SnakeModeModel{
		cursor:    cursor,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m SnakeModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SnakeModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m SnakeModeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(foodModes)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = foodModes[m.cursor].mode
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the mode selection.
func (m SnakeModeModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("S N A K E", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Food placement:", m.width))
	b.WriteString("\n\n")

	for i, fm := range foodModes {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, fm.label), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m SnakeModeModel) Selected() *FoodMode {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m SnakeModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m SnakeModeModel) WantsBack() bool {
	return m.back
}

// RunSnakeModeSelector runs the Snake mode selection and returns the chosen
// mode, or nil when the user backed out or quit.
func RunSnakeModeSelector(cfg core.RuntimeConfig, current FoodMode) (*FoodMode, error) {
	model := NewSnakeModeModel(cfg.ScreenW, cfg.ScreenH, current)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(SnakeModeModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}

	return m.Selected(), nil
}
