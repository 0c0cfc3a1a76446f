package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-lounge/internal/core"
	"github.com/vovakirdan/tui-lounge/internal/games/snake"
	"github.com/vovakirdan/tui-lounge/internal/logging"
)

func newTestGameModel(t *testing.T, opts snake.Options) GameModel {
	t.Helper()

	cfg := core.RuntimeConfig{
		ScreenW:      80,
		ScreenH:      30,
		TickInterval: 100 * time.Millisecond,
		Seed:         42,
	}
	m := NewGameModel(snake.NewWithOptions(opts), cfg, logging.Discard())
	m.Init()
	return m
}

func send(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T, want GameModel", next)
	}
	return gm, cmd
}

func TestGameModelStartBeginsTickStream(t *testing.T) {
	m := newTestGameModel(t, snake.DefaultOptions())

	if m.State().Running {
		t.Fatal("game should not run before start")
	}

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("start should schedule a tick")
	}
	if !m.State().Running {
		t.Error("game should be running after start")
	}
	if m.State().Generation != 1 {
		t.Errorf("Generation = %d, want 1", m.State().Generation)
	}
}

func TestGameModelTickReschedules(t *testing.T) {
	m := newTestGameModel(t, snake.DefaultOptions())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})

	m, cmd := send(t, m, TickMsg{Game: m.game, Gen: 1, Time: time.Now()})
	if cmd == nil {
		t.Error("a running game should schedule the next tick")
	}
	if !m.State().Running {
		t.Error("game should still be running")
	}
}

func TestGameModelDropsStaleTicks(t *testing.T) {
	m := newTestGameModel(t, snake.DefaultOptions())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	// Restart: the first stream is superseded.
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.State().Generation != 2 {
		t.Fatalf("Generation = %d, want 2", m.State().Generation)
	}

	before := m.State()
	m, cmd := send(t, m, TickMsg{Game: m.game, Gen: 1, Time: time.Now()})
	if cmd != nil {
		t.Error("a stale tick must not be rescheduled")
	}
	if m.State() != before {
		t.Errorf("stale tick changed state: %+v -> %+v", before, m.State())
	}
}

func TestGameModelGameOverStopsTicking(t *testing.T) {
	m := newTestGameModel(t, snake.Options{
		TileCount: 20,
		Origin:    snake.Segment{X: 19, Y: 10},
	})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})

	m, cmd := send(t, m, TickMsg{Game: m.game, Gen: 1, Time: time.Now()})
	if cmd != nil {
		t.Error("no tick should be scheduled after game over")
	}
	if !m.State().GameOver || m.State().Running {
		t.Errorf("state = %+v, want game over", m.State())
	}

	// A late tick of the finished stream does nothing.
	_, cmd = send(t, m, TickMsg{Game: m.game, Gen: 1, Time: time.Now()})
	if cmd != nil {
		t.Error("late tick after game over must not be rescheduled")
	}
}

func TestGameModelBack(t *testing.T) {
	m := newTestGameModel(t, snake.DefaultOptions())

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || !m.IsQuitting() {
		t.Error("back should quit a standalone game")
	}

	embedded := newTestGameModel(t, snake.DefaultOptions())
	embedded.embedded = true
	embedded, cmd = send(t, embedded, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || !embedded.BackToMenu() || embedded.IsQuitting() {
		t.Error("back should return to the menu when embedded")
	}
}

func TestGameModelView(t *testing.T) {
	m := newTestGameModel(t, snake.DefaultOptions())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.View() == "" {
		t.Error("View should render the board")
	}
}

func TestGameModelIgnoresTicksOfAnotherGame(t *testing.T) {
	old := newTestGameModel(t, snake.DefaultOptions())
	old, _ = send(t, old, tea.KeyMsg{Type: tea.KeyEnter})

	m := newTestGameModel(t, snake.DefaultOptions())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.State().Generation != old.State().Generation {
		t.Fatalf("both games should be on generation 1, got %d and %d",
			m.State().Generation, old.State().Generation)
	}

	before := m.State()
	m, cmd := send(t, m, TickMsg{Game: old.game, Gen: 1, Time: time.Now()})
	if cmd != nil {
		t.Error("a tick from another game must not start a second stream")
	}
	if m.State() != before {
		t.Errorf("foreign tick changed state: %+v -> %+v", before, m.State())
	}
}

func TestGameModelAppliesGridConfig(t *testing.T) {
	cfg := core.RuntimeConfig{
		ScreenW: 80,
		ScreenH: 30,
		Seed:    5,
		Grid:    core.GridConfig{TileCount: 5, OriginX: 4, OriginY: 0},
	}
	m := NewGameModel(snake.New(), cfg, logging.Discard())
	m.Init()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})

	// Origin sits on the right wall of the 5-tile board.
	m, _ = send(t, m, TickMsg{Game: m.game, Gen: 1, Time: time.Now()})
	if !m.State().GameOver {
		t.Errorf("state = %+v, want game over at the configured wall", m.State())
	}
}
