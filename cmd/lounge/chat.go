package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lounge/internal/backend"
	"github.com/vovakirdan/tui-lounge/internal/chat"
	"github.com/vovakirdan/tui-lounge/internal/config"
	"github.com/vovakirdan/tui-lounge/internal/markdown"
	"github.com/vovakirdan/tui-lounge/internal/platform/tui"
	"github.com/vovakirdan/tui-lounge/internal/storage"
	"github.com/vovakirdan/tui-lounge/internal/watch"
)

var (
	flagChatConfig string
	flagChatURL    string
	flagChatModel  string
	flagWatchDir   string
	flagRenderer   string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the AI assistant",
	Long: `Open the chat client against a chat server.

Replies are rendered as markdown with highlighted code blocks. Files can be
attached with Ctrl+O, or dropped into a watched directory to be uploaded
automatically. The text extracted from an upload goes with your next message.

Controls:
  Enter        - Send
  Ctrl+O       - Attach a file by path
  Ctrl+L       - Clear the conversation
  Ctrl+T       - Toggle dark/light mode
  Tab          - Next model
  Esc/Ctrl+C   - Quit

Examples:
  lounge chat
  lounge chat --url http://10.0.0.5:5000 --model gpt-4
  lounge chat --watch ~/Inbox`,
	Run: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&flagChatConfig, "config", "", "Path to custom chat config YAML")
	chatCmd.Flags().StringVar(&flagChatURL, "url", "", "Chat server base URL (overrides config)")
	chatCmd.Flags().StringVar(&flagChatModel, "model", "", "Model to start with (overrides config)")
	chatCmd.Flags().StringVar(&flagWatchDir, "watch", "", "Directory whose new files are uploaded automatically")
	chatCmd.Flags().StringVar(&flagRenderer, "renderer", "", "Reply renderer: glamour or plain")
}

// loadChatConfig loads the chat config and applies command-line overrides.
func loadChatConfig() (config.ChatConfig, error) {
	cfg, err := config.LoadChat(flagChatConfig)
	if err != nil {
		return cfg, err
	}
	if flagChatURL != "" {
		cfg.Backend.BaseURL = flagChatURL
	}
	if flagChatModel != "" {
		cfg.DefaultModel = flagChatModel
		found := false
		for _, m := range cfg.Models {
			found = found || m == flagChatModel
		}
		if !found {
			cfg.Models = append(cfg.Models, flagChatModel)
		}
	}
	if flagWatchDir != "" {
		cfg.Attachments.WatchDir = flagWatchDir
	}
	if flagRenderer != "" {
		cfg.Render.Renderer = flagRenderer
	}
	return cfg, cfg.Validate()
}

// newChat wires a controller and TUI options for a local chat session.
// The returned cleanup stops the watcher, if any.
func newChat(ctx context.Context, cfg config.ChatConfig, store *storage.Store, logger *log.Logger) (*chat.Controller, tui.ChatOptions, func(), error) {
	renderer, err := markdown.New(cfg.Render.Renderer, cfg.Render.WordWrap)
	if err != nil {
		return nil, tui.ChatOptions{}, nil, err
	}

	var prefs chat.Preferences
	if store != nil {
		prefs = store.Scope("")
	}

	client := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})
	controller := chat.NewController(client, prefs, logger, chat.SessionOptions{
		Model:    cfg.Model(),
		Greeting: cfg.Greeting,
	})

	opts := tui.ChatOptions{
		Renderer: renderer,
		Models:   cfg.Models,
		Logger:   logger,
	}
	cleanup := func() {}

	if cfg.Attachments.WatchDir != "" {
		w, err := watch.NewFSNotifyWatcher(cfg.Attachments.Extensions, 0)
		if err != nil {
			return nil, tui.ChatOptions{}, nil, fmt.Errorf("cannot create watcher: %w", err)
		}
		files, err := w.Watch(ctx, cfg.Attachments.WatchDir)
		if err != nil {
			w.Close()
			return nil, tui.ChatOptions{}, nil, fmt.Errorf("cannot watch %s: %w", cfg.Attachments.WatchDir, err)
		}
		go func() {
			for err := range w.Errors() {
				logger.Warn("watcher error", "err", err)
			}
		}()
		logger.Info("watching for attachments", "dir", cfg.Attachments.WatchDir)
		opts.Files = files
		cleanup = func() { w.Close() }
	}

	return controller, opts, cleanup, nil
}

func runChat(_ *cobra.Command, _ []string) {
	cfg, err := loadChatConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := fileLogger("chat")
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open preferences database: %v\n", err)
		// Continue without storage - dark mode just isn't remembered
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	controller, opts, cleanup, err := newChat(ctx, cfg, store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := tui.RunChat(ctx, controller, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error running chat: %v\n", err)
		os.Exit(1)
	}
}
