package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-lounge/internal/config"
	"github.com/vovakirdan/tui-lounge/internal/core"
	"github.com/vovakirdan/tui-lounge/internal/logging"
)

// fileLogger opens the log file for an interactive command. The terminal
// belongs to the TUI, so logging falls back to nowhere if the file can't open.
func fileLogger(prefix string) (*log.Logger, func()) {
	f, err := logging.OpenFile(flagLogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return logging.Discard(), func() {}
	}
	return logging.New(f, prefix, flagLogLevel), func() { f.Close() }
}

// runtimeConfig builds the runtime config from the terminal size and global flags.
func runtimeConfig(snakeCfg config.SnakeConfig) core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return core.RuntimeConfig{
		ScreenW:      width,
		ScreenH:      height,
		TickInterval: snakeCfg.TickInterval(),
		Seed:         seed,
		Grid:         gridConfig(snakeCfg),
	}
}

// gridConfig turns the snake config into the board games are reset with.
func gridConfig(cfg config.SnakeConfig) core.GridConfig {
	return core.GridConfig{
		TileCount:        cfg.TileCount(),
		OriginX:          cfg.Board.Origin.X,
		OriginY:          cfg.Board.Origin.Y,
		SpawnOnFreeCells: cfg.Food.AvoidSnake,
	}
}
