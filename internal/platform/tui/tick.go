// Package tui provides the Bubble Tea integration for the lounge.
// It handles the terminal UI loop, input mapping, and game and chat orchestration.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-lounge/internal/registry"
)

// TickMsg is sent to trigger a game simulation tick. Game and Gen together
// name the tick stream: a restart bumps Gen, and a new game instance never
// accepts ticks scheduled for another one.
type TickMsg struct {
	Game registry.Game
	Gen  uint64
	Time time.Time
}

// tickCmd returns a Bubble Tea command that sends one tick of game's stream
// gen after interval.
func tickCmd(interval time.Duration, game registry.Game, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Game: game, Gen: gen, Time: t}
	})
}
