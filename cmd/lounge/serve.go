package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lounge/internal/config"
	"github.com/vovakirdan/tui-lounge/internal/logging"
	"github.com/vovakirdan/tui-lounge/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagNoChat      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lounge SSH server",
	Long: `Start an SSH server that allows users to connect, play Snake and chat.

Each SSH connection gets its own session with a picker menu and its own
conversation. The dark mode preference is stored per SSH user.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.lounge/host_key

Examples:
  lounge serve                           # Listen on :23234 with auto-generated key
  lounge serve --ssh :2222               # Listen on port 2222
  lounge serve --host-key ./my_host_key  # Use specific host key
  lounge serve --url http://chat:5000    # Point sessions at a chat server
  lounge serve --no-chat                 # Snake only

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().BoolVar(&flagNoChat, "no-chat", false, "Disable the chat client")
	serveCmd.Flags().StringVar(&flagSnakeConfig, "snake-config", "", "Path to custom snake config YAML")
	serveCmd.Flags().StringVar(&flagChatConfig, "chat-config", "", "Path to custom chat config YAML")
	serveCmd.Flags().StringVar(&flagChatURL, "url", "", "Chat server base URL (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := logging.New(os.Stderr, "lounge-ssh", flagLogLevel)

	snakeCfg, err := config.LoadSnake(flagSnakeConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := tui.SSHServerConfig{
		Address:      flagSSHAddr,
		HostKeyPath:  flagHostKey,
		DBPath:       flagDBPath,
		IdleTimeout:  time.Duration(flagIdleTimeout) * time.Minute,
		TickInterval: snakeCfg.TickInterval(),
		Grid:         gridConfig(snakeCfg),
		Logger:       logger,
	}

	if !flagNoChat {
		chatCfg, err := loadChatConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Chat = &chatCfg
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting lounge SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
