package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lounge/internal/config"
	"github.com/vovakirdan/tui-lounge/internal/platform/tui"
	"github.com/vovakirdan/tui-lounge/internal/registry"
)

var (
	flagSnakeConfig string
	flagAvoidSnake  bool
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Enter/Space  - Start (or restart)
  Arrow keys   - Steer
  Esc/B        - Back
  Q/Ctrl+C     - Quit

Examples:
  lounge play snake
  lounge play snake --avoid-snake
  lounge play snake --config ./my-snake.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSnakeConfig, "config", "", "Path to custom snake config YAML")
	playCmd.Flags().BoolVar(&flagAvoidSnake, "avoid-snake", false, "Never spawn food on the snake")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'lounge list' to see available games.")
		os.Exit(1)
	}

	snakeCfg, err := config.LoadSnake(flagSnakeConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cmd.Flags().Changed("avoid-snake") {
		snakeCfg.Food.AvoidSnake = flagAvoidSnake
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := fileLogger(gameID)
	defer closeLog()

	if err := tui.Run(game, runtimeConfig(snakeCfg), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
