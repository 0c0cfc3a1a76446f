// Package config provides YAML-based configuration loading for the snake
// game and the chat client.
package config

import (
	"errors"
	"fmt"
	"time"
)

// SnakeConfig contains all configuration for the Snake game.
type SnakeConfig struct {
	Board  SnakeBoard  `yaml:"board"`
	Timing SnakeTiming `yaml:"timing"`
	Food   SnakeFood   `yaml:"food"`
}

// SnakeBoard describes the square playfield. The tile count is derived from
// the canvas width the same way a pixel canvas would be divided into tiles.
type SnakeBoard struct {
	CanvasWidth int      `yaml:"canvas_width"`
	TileSize    int      `yaml:"tile_size"`
	Origin      GridCell `yaml:"origin"`
}

// GridCell is a tile coordinate.
type GridCell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// SnakeTiming defines the fixed tick period.
type SnakeTiming struct {
	TickMS int `yaml:"tick_ms"`
}

// SnakeFood defines food placement.
type SnakeFood struct {
	AvoidSnake bool `yaml:"avoid_snake"`
}

// TileCount returns the number of tiles per side.
func (c SnakeConfig) TileCount() int {
	if c.Board.TileSize <= 0 {
		return 0
	}
	return c.Board.CanvasWidth / c.Board.TileSize
}

// TickInterval returns the tick period as a duration.
func (c SnakeConfig) TickInterval() time.Duration {
	return time.Duration(c.Timing.TickMS) * time.Millisecond
}

// Validate checks that the board and timing make sense.
func (c SnakeConfig) Validate() error {
	var errs []error

	if c.Board.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("board.tile_size must be positive, got %d", c.Board.TileSize))
	} else if n := c.TileCount(); n < 2 {
		errs = append(errs, fmt.Errorf("board must be at least 2 tiles wide, got %d", n))
	} else {
		o := c.Board.Origin
		if o.X < 0 || o.X >= n || o.Y < 0 || o.Y >= n {
			errs = append(errs, fmt.Errorf("board.origin (%d,%d) is outside the %dx%d grid", o.X, o.Y, n, n))
		}
	}
	if c.Timing.TickMS <= 0 {
		errs = append(errs, fmt.Errorf("timing.tick_ms must be positive, got %d", c.Timing.TickMS))
	}

	return errors.Join(errs...)
}

// ChatConfig contains all configuration for the chat client.
type ChatConfig struct {
	Backend      ChatBackend     `yaml:"backend"`
	Models       []string        `yaml:"models"`
	DefaultModel string          `yaml:"default_model"`
	Greeting     string          `yaml:"greeting"`
	Render       ChatRender      `yaml:"render"`
	Attachments  ChatAttachments `yaml:"attachments"`
}

// ChatBackend locates the chat server.
type ChatBackend struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ChatRender selects how assistant replies are formatted.
type ChatRender struct {
	Renderer string `yaml:"renderer"` // "glamour" or "plain"
	WordWrap int    `yaml:"word_wrap"`
}

// ChatAttachments configures the optional watched upload directory.
type ChatAttachments struct {
	WatchDir   string   `yaml:"watch_dir"`
	Extensions []string `yaml:"extensions"`
}

// Validate checks the chat configuration.
func (c ChatConfig) Validate() error {
	var errs []error

	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("backend.base_url is required"))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, fmt.Errorf("backend.timeout must not be negative, got %s", c.Backend.Timeout))
	}
	if len(c.Models) == 0 {
		errs = append(errs, errors.New("at least one model is required"))
	}
	switch c.Render.Renderer {
	case "glamour", "plain":
	default:
		errs = append(errs, fmt.Errorf("render.renderer must be glamour or plain, got %q", c.Render.Renderer))
	}

	return errors.Join(errs...)
}

// Model returns the default model, falling back to the first listed one.
func (c ChatConfig) Model() string {
	for _, m := range c.Models {
		if m == c.DefaultModel {
			return m
		}
	}
	if len(c.Models) > 0 {
		return c.Models[0]
	}
	return c.DefaultModel
}
