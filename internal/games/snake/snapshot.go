package snake

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Generation uint64
	Phase      Phase
	Score      int
	SnakeLen   int
	Head       Segment
	Velocity   Velocity
	Food       Segment
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	var head Segment
	if len(g.snake) > 0 {
		head = g.snake[0]
	}

	return Snapshot{
		Tick:       g.tick,
		Generation: g.generation,
		Phase:      g.phase,
		Score:      g.score,
		SnakeLen:   len(g.snake),
		Head:       head,
		Velocity:   g.velocity,
		Food:       g.food,
	}
}
