package core

import "time"

// DefaultTickInterval is the fixed wall-clock period between game ticks.
const DefaultTickInterval = 100 * time.Millisecond

// RuntimeConfig contains configuration passed to games at initialization.
// Games use it to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW      int           // Screen width in characters
	ScreenH      int           // Screen height in characters
	TickInterval time.Duration // Period of the tick stream
	Seed         int64         // RNG seed, 0 means the platform picks one

	// Grid overrides a tile game's board. The zero value keeps the game's own.
	Grid GridConfig
}

// GridConfig describes a square tile board.
type GridConfig struct {
	TileCount        int  // Width and height in tiles
	OriginX, OriginY int  // Starting cell
	SpawnOnFreeCells bool // Items never spawn under the player's body
}

// IsZero reports whether no grid override is set.
func (g GridConfig) IsZero() bool {
	return g == GridConfig{}
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:      80,
		ScreenH:      24,
		TickInterval: DefaultTickInterval,
	}
}

// GameState is what a game reports back to the platform after each event.
type GameState struct {
	Score    int  // Current score
	Running  bool // True between start and the terminal transition
	GameOver bool // True once the game has ended

	// Generation identifies the active tick stream. It changes on every start,
	// so ticks scheduled for an earlier stream can be recognized and dropped.
	Generation uint64
}

// StepResult is returned by Game.Update after handling one event.
type StepResult struct {
	State GameState

	// Redraw is false when the event did not change anything visible,
	// e.g. a stale tick or the tick that ended the game.
	Redraw bool
}
