// Package snake implements the classic grid Snake game as a pure state
// machine: NotStarted → Running → GameOver, driven by start, direction and
// tick events.
package snake

import (
	"math/rand"

	"github.com/vovakirdan/tui-lounge/internal/core"
	"github.com/vovakirdan/tui-lounge/internal/registry"
)

// Segment is one grid cell of the playfield, in tiles.
type Segment struct {
	X, Y int
}

// Add returns the segment moved by v.
func (s Segment) Add(v Velocity) Segment {
	return Segment{X: s.X + v.DX, Y: s.Y + v.DY}
}

// Velocity is the per-tick displacement of the head. Once moving, exactly
// one axis is non-zero.
type Velocity struct {
	DX, DY int
}

// IsZero reports whether the snake is standing still.
func (v Velocity) IsZero() bool {
	return v.DX == 0 && v.DY == 0
}

// Opposite returns the reverse of v.
func (v Velocity) Opposite() Velocity {
	return Velocity{DX: -v.DX, DY: -v.DY}
}

// Direction is one of the four arrow directions.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Velocity returns the unit vector for the direction.
func (d Direction) Velocity() Velocity {
	switch d {
	case DirUp:
		return Velocity{DX: 0, DY: -1}
	case DirDown:
		return Velocity{DX: 0, DY: 1}
	case DirLeft:
		return Velocity{DX: -1, DY: 0}
	default:
		return Velocity{DX: 1, DY: 0}
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// directionFor maps an arrow action to a direction. Other actions are ignored.
func directionFor(a core.Action) (Direction, bool) {
	switch a {
	case core.ActionUp:
		return DirUp, true
	case core.ActionDown:
		return DirDown, true
	case core.ActionLeft:
		return DirLeft, true
	case core.ActionRight:
		return DirRight, true
	}
	return 0, false
}

// Phase is the lifecycle state of a game.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Options configures the playfield.
type Options struct {
	// TileCount is the width and height of the square grid, in tiles.
	TileCount int
	// Origin is where the single-segment snake starts.
	Origin Segment
	// AvoidSnake makes food spawn only on cells the snake does not occupy.
	// Off by default: food may land on the snake.
	AvoidSnake bool
}

// DefaultOptions matches a 400px canvas with 20px tiles.
func DefaultOptions() Options {
	return Options{
		TileCount: 20,
		Origin:    Segment{X: 10, Y: 10},
	}
}

// frame is what the last successful tick drew.
type frame struct {
	snake []Segment
	food  Segment
	valid bool
}

// Game implements the Snake game.
type Game struct {
	opts Options
	rng  *rand.Rand

	tick       uint64
	generation uint64
	phase      Phase

	snake    []Segment // Head at index 0
	food     Segment
	velocity Velocity
	score    int

	// The terminal tick never replaces this, so the board keeps showing the
	// position just before the collision.
	frame frame
}

// New creates a game with the default options. Reset may replace them with
// the board from RuntimeConfig.Grid.
func New() *Game {
	return NewWithOptions(DefaultOptions())
}

// optionsFromGrid converts a grid override into snake options.
func optionsFromGrid(grid core.GridConfig) Options {
	opts := Options{
		TileCount:  grid.TileCount,
		Origin:     Segment{X: grid.OriginX, Y: grid.OriginY},
		AvoidSnake: grid.SpawnOnFreeCells,
	}
	if opts.TileCount <= 0 {
		opts.TileCount = DefaultOptions().TileCount
	}
	return opts
}

// NewWithOptions creates a game with explicit options.
func NewWithOptions(opts Options) *Game {
	if opts.TileCount <= 0 {
		opts.TileCount = DefaultOptions().TileCount
	}
	return &Game{
		opts: opts,
		rng:  rand.New(rand.NewSource(1)),
	}
}

func init() {
	registry.Register("snake", func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "snake"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Snake"
}

// Reset applies the runtime config and returns to the not-started phase.
// A non-zero cfg.Grid replaces the board options.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if !cfg.Grid.IsZero() {
		g.opts = optionsFromGrid(cfg.Grid)
	}
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.phase = PhaseNotStarted
	g.tick = 0
	g.score = 0
	g.snake = nil
	g.velocity = Velocity{}
	g.frame = frame{}
}

// Update consumes one event and reports the resulting state.
func (g *Game) Update(ev core.Event) core.StepResult {
	redraw := false

	switch ev.Kind {
	case core.EventStart:
		g.Start()
		redraw = true

	case core.EventInput:
		if dir, ok := directionFor(ev.Action); ok {
			g.OnDirectionInput(dir)
		}

	case core.EventTick:
		if ev.Generation == g.generation && g.phase == PhaseRunning {
			redraw = g.Tick()
		}
	}

	return core.StepResult{State: g.State(), Redraw: redraw}
}

// Start resets all state and begins a new tick stream. Starting while a
// game is running supersedes it: the old stream's ticks become stale.
func (g *Game) Start() {
	g.generation++
	g.tick = 0
	g.snake = []Segment{g.opts.Origin}
	g.food = g.spawnFood()
	g.score = 0
	g.velocity = Velocity{}
	g.phase = PhaseRunning
	g.captureFrame()
}

// OnDirectionInput changes the velocity immediately. It is a no-op unless
// running, and the exact reverse of the current velocity is ignored.
func (g *Game) OnDirectionInput(d Direction) {
	if g.phase != PhaseRunning {
		return
	}

	v := d.Velocity()
	if v == g.velocity.Opposite() {
		return
	}
	g.velocity = v
}

// Tick advances the simulation by one step. It returns false when the step
// ended the game, in which case nothing new is drawn.
func (g *Game) Tick() bool {
	if g.phase != PhaseRunning || len(g.snake) == 0 {
		return false
	}
	g.tick++

	head := g.snake[0].Add(g.velocity)
	g.snake = append([]Segment{head}, g.snake...)

	if head == g.food {
		g.score++
		g.food = g.spawnFood()
	} else {
		g.snake = g.snake[:len(g.snake)-1]
	}

	if !g.inBounds(head) {
		g.endGame()
		return false
	}
	for _, seg := range g.snake[1:] {
		if seg == head {
			g.endGame()
			return false
		}
	}

	g.captureFrame()
	return true
}

// endGame stops the tick stream and marks the game as over.
func (g *Game) endGame() {
	g.phase = PhaseGameOver
}

func (g *Game) inBounds(s Segment) bool {
	n := g.opts.TileCount
	return s.X >= 0 && s.X < n && s.Y >= 0 && s.Y < n
}

// spawnFood picks a uniformly random cell. With AvoidSnake it picks among
// free cells only, falling back to any cell when the board is full.
func (g *Game) spawnFood() Segment {
	n := g.opts.TileCount

	if g.opts.AvoidSnake {
		occupied := make(map[Segment]bool, len(g.snake))
		for _, seg := range g.snake {
			occupied[seg] = true
		}

		free := make([]Segment, 0, max(0, n*n-len(occupied)))
		for y := range n {
			for x := range n {
				if p := (Segment{X: x, Y: y}); !occupied[p] {
					free = append(free, p)
				}
			}
		}
		if len(free) > 0 {
			return free[g.rng.Intn(len(free))]
		}
	}

	return Segment{X: g.rng.Intn(n), Y: g.rng.Intn(n)}
}

func (g *Game) captureFrame() {
	g.frame = frame{
		snake: append([]Segment(nil), g.snake...),
		food:  g.food,
		valid: true,
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:      g.score,
		Running:    g.phase == PhaseRunning,
		GameOver:   g.phase == PhaseGameOver,
		Generation: g.generation,
	}
}

// Phase returns the current lifecycle phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// TileCount returns the grid size in tiles.
func (g *Game) TileCount() int {
	return g.opts.TileCount
}
