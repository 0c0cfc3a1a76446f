package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lounge/internal/config"
	"github.com/vovakirdan/tui-lounge/internal/platform/tui"
	"github.com/vovakirdan/tui-lounge/internal/registry"
	"github.com/vovakirdan/tui-lounge/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the lounge with a picker menu",
	Long: `Start the lounge in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select Snake or the chat.
Leaving either returns you to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit

Examples:
  lounge menu
  lounge menu --db ./lounge.db`,
	Run: runMenu,
}

func init() {
	// Uses global flags from main.go (--seed, --db, --log-level, --log-file)
	// and the chat flags for the chat entry.
	menuCmd.Flags().StringVar(&flagSnakeConfig, "snake-config", "", "Path to custom snake config YAML")
	menuCmd.Flags().StringVar(&flagChatConfig, "chat-config", "", "Path to custom chat config YAML")
	menuCmd.Flags().StringVar(&flagChatURL, "url", "", "Chat server base URL (overrides config)")
}

func runMenu(_ *cobra.Command, _ []string) {
	snakeCfg, err := config.LoadSnake(flagSnakeConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	chatCfg, chatErr := loadChatConfig()
	if chatErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: chat disabled: %v\n", chatErr)
	}

	logger, closeLog := fileLogger("menu")
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open preferences database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := runtimeConfig(snakeCfg)
	food := tui.FoodAnywhere
	if snakeCfg.Food.AvoidSnake {
		food = tui.FoodAvoidSnake
	}

	// Menu loop
	for ctx.Err() == nil {
		menuResult, err := tui.RunMenu(cfg, chatErr == nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config
		if menuResult.Quit {
			break
		}

		if menuResult.Kind == tui.ItemChat {
			controller, opts, cleanup, err := newChat(ctx, chatCfg, store, logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			if err := tui.RunChat(ctx, controller, opts); err != nil {
				fmt.Fprintf(os.Stderr, "Error running chat: %v\n", err)
			}
			cleanup()
			continue
		}

		if menuResult.ItemID == "snake" {
			selection, err := tui.RunSnakeModeSelector(cfg, food)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			// User pressed back or quit
			if selection == nil {
				continue
			}
			food = *selection
			cfg.Grid.SpawnOnFreeCells = food == tui.FoodAvoidSnake
		}

		game, err := registry.Create(menuResult.ItemID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Fresh seed for each game unless one was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
