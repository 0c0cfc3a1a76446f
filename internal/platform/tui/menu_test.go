package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-lounge/internal/core"
	_ "github.com/vovakirdan/tui-lounge/internal/games/snake"
)

func TestMenuListsGamesAndChat(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24}

	m := NewMenuModel(cfg, true)
	if len(m.items) != 2 {
		t.Fatalf("items = %d, want 2", len(m.items))
	}
	if m.items[0].ID != "snake" || m.items[0].Kind != ItemGame {
		t.Errorf("first item = %+v, want snake game", m.items[0])
	}
	if m.items[1].ID != ChatItemID || m.items[1].Kind != ItemChat {
		t.Errorf("last item = %+v, want chat", m.items[1])
	}

	if got := NewMenuModel(cfg, false); len(got.items) != 1 {
		t.Errorf("items without chat = %d, want 1", len(got.items))
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, true)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	if cmd == nil {
		t.Error("select should exit the menu")
	}
	sel := m.Selected()
	if sel == nil || sel.Kind != ItemChat {
		t.Fatalf("Selected() = %+v, want chat", sel)
	}
	if m.IsQuitting() {
		t.Error("selecting is not quitting")
	}
}

func TestMenuCursorClamps(t *testing.T) {
	m := NewMenuModel(core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, true)

	var next tea.Model = m
	for range 5 {
		next, _ = next.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	if c := next.(MenuModel).cursor; c != 0 {
		t.Errorf("cursor = %d, want 0", c)
	}
	for range 5 {
		next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if c := next.(MenuModel).cursor; c != 1 {
		t.Errorf("cursor = %d, want 1", c)
	}
}

func TestMenuResizeUpdatesConfig(t *testing.T) {
	m := NewMenuModel(core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, false)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	cfg := next.(MenuModel).Config()
	if cfg.ScreenW != 120 || cfg.ScreenH != 40 {
		t.Errorf("Config() = %dx%d, want 120x40", cfg.ScreenW, cfg.ScreenH)
	}
}

func TestMenuView(t *testing.T) {
	m := NewMenuModel(core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, true)
	view := m.View()

	for _, want := range []string{"Snake", "AI Chat", "> Snake"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestSnakeModeSelector(t *testing.T) {
	m := NewSnakeModeModel(80, 24, FoodAvoidSnake)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want it on the current mode", m.cursor)
	}
	if m.Selected() != nil {
		t.Fatal("nothing selected yet")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("select should exit the selector")
	}
	sel := next.(SnakeModeModel).Selected()
	if sel == nil || *sel != FoodAnywhere {
		t.Errorf("Selected() = %v, want FoodAnywhere", sel)
	}

	back, _ := NewSnakeModeModel(80, 24, FoodAnywhere).Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !back.(SnakeModeModel).WantsBack() {
		t.Error("esc should go back")
	}
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"ab", 6, "  ab"},
		{"abcdef", 4, "abcdef"},
		{"日本", 8, "  日本"},
	}

	for _, tt := range tests {
		if got := centerText(tt.text, tt.width); got != tt.want {
			t.Errorf("centerText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}
