package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lounge/internal/core"
	"github.com/vovakirdan/tui-lounge/internal/registry"
)

// GameModel is the Bubble Tea model for running a game. It owns the tick
// stream: a tick is rescheduled only while the game is running and the tick
// belongs to the current generation, so a restart or game over ends the
// previous stream.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	gameState  core.GameState
	keyMapper  *KeyMapper
	logger     *log.Logger
	embedded   bool // Back returns to a parent menu instead of quitting
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a new Bubble Tea model for the given game.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, logger *log.Logger) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = core.DefaultTickInterval
	}
	if logger == nil {
		logger = log.Default()
	}

	return GameModel{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keyMapper: NewKeyMapper(),
		logger:    logger,
	}
}

// Init resets the game. Nothing ticks until the player starts it.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return nil
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keyMapper.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		if m.embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case core.ActionConfirm:
		// Starting while running supersedes the current stream.
		res := m.game.Update(core.StartEvent())
		m.gameState = res.State
		m.logger.Debug("game started", "game", m.game.ID(), "generation", res.State.Generation)
		return m, tickCmd(m.config.TickInterval, m.game, res.State.Generation)

	case core.ActionNone:
		return m, nil

	default:
		res := m.game.Update(core.InputEvent(action))
		m.gameState = res.State
		return m, nil
	}
}

// handleTick advances the game and schedules the next tick of the same stream.
func (m GameModel) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Game != m.game || msg.Gen != m.gameState.Generation {
		return m, nil
	}

	wasOver := m.gameState.GameOver
	res := m.game.Update(core.TickEvent(msg.Gen))
	m.gameState = res.State

	if m.gameState.GameOver && !wasOver {
		m.logger.Debug("game over", "game", m.game.ID(), "score", m.gameState.Score)
	}
	if !m.gameState.Running || m.gameState.Generation != msg.Gen {
		return m, nil
	}
	return m, tickCmd(m.config.TickInterval, m.game, msg.Gen)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last reported game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for a single game.
func Run(game registry.Game, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewGameModel(game, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
