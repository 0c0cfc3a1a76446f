// lounge is a terminal lounge: a Snake game and an AI chat client, playable
// locally or over SSH.
//
// Usage:
//
//	lounge list              - List available games
//	lounge play <game>       - Play a game
//	lounge chat              - Chat with the AI assistant
//	lounge menu              - Start menu to pick a game or the chat
//	lounge serve             - Start SSH server for remote use
//	lounge prefs             - Show or change stored preferences
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.lounge/lounge.db)
//	--log-level <level>  - debug, info, warn or error (default: info)
//	--log-file <path>    - Log destination for TUI commands (default: ~/.lounge/lounge.log)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lounge/internal/logging"

	// Import games to register them
	_ "github.com/vovakirdan/tui-lounge/internal/games/snake"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lounge",
	Short: "TUI Lounge - Snake and an AI chat in your terminal",
	Long: `TUI Lounge lets you play Snake and talk to an AI assistant
directly in your terminal, locally or over SSH.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  chat     - Open the AI chat client
  menu     - Interactive picker menu
  serve    - Start SSH server for remote use
  prefs    - Show or change stored preferences

Examples:
  lounge list
  lounge play snake
  lounge chat --url http://localhost:5000
  lounge menu
  lounge serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.lounge/lounge.db", "Path to preferences database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", logging.DefaultFile, "Log file for interactive commands")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(prefsCmd)
}
