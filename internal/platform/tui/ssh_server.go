package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-lounge/internal/backend"
	"github.com/vovakirdan/tui-lounge/internal/chat"
	"github.com/vovakirdan/tui-lounge/internal/config"
	"github.com/vovakirdan/tui-lounge/internal/core"
	"github.com/vovakirdan/tui-lounge/internal/markdown"
	"github.com/vovakirdan/tui-lounge/internal/registry"
	"github.com/vovakirdan/tui-lounge/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.lounge/host_key.
	HostKeyPath string

	// DBPath is the path to the preferences database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickInterval is the game tick period.
	TickInterval time.Duration

	// Grid is the board every session's games are reset with.
	Grid core.GridConfig

	// Chat enables the chat client when set.
	Chat *config.ChatConfig

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:      ":23234",
		DBPath:       "~/.lounge/lounge.db",
		IdleTimeout:  30 * time.Minute,
		TickInterval: core.DefaultTickInterval,
	}
}

// SSHServer wraps a Wish SSH server for the lounge.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	backend  chat.Backend
	renderer markdown.Renderer
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "lounge-ssh",
		})
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open preferences database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	if cfg.Chat != nil {
		srv.backend = backend.New(backend.Config{
			BaseURL: cfg.Chat.Backend.BaseURL,
			Timeout: cfg.Chat.Backend.Timeout,
		})
		srv.renderer, err = markdown.New(cfg.Chat.Render.Renderer, cfg.Chat.Render.WordWrap)
		if err != nil {
			logger.Warn("falling back to plain rendering", "error", err)
			srv.renderer = markdown.NewPlain(cfg.Chat.Render.WordWrap)
		}
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".lounge", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:      pty.Window.Width,
		ScreenH:      pty.Window.Height,
		TickInterval: s.config.TickInterval,
		Seed:         time.Now().UnixNano(),
		Grid:         s.config.Grid,
	}

	model := NewSessionModel(sshSession.Context(), s.sessionServices(sshSession.User()), cfg)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sessionServices builds what one SSH user's session needs. Each user gets
// their own chat conversation and preference scope.
func (s *SSHServer) sessionServices(user string) SessionServices {
	svc := SessionServices{
		Logger: s.logger.With("user", user),
	}
	if s.backend == nil {
		return svc
	}

	var prefs chat.Preferences
	if s.store != nil {
		prefs = s.store.Scope(user)
	}
	cc := s.config.Chat
	svc.NewChat = func() *chat.Controller {
		return chat.NewController(s.backend, prefs, svc.Logger, chat.SessionOptions{
			Model:    cc.Model(),
			Greeting: cc.Greeting,
		})
	}
	svc.ChatOptions = ChatOptions{
		Renderer: s.renderer,
		Models:   cc.Models,
		Logger:   svc.Logger,
	}
	return svc
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "chat", s.backend != nil)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionServices is what a SessionModel needs beyond the runtime config.
type SessionServices struct {
	// NewChat creates a fresh chat controller. Nil disables chat.
	NewChat     func() *chat.Controller
	ChatOptions ChatOptions
	Logger      *log.Logger
}

// SessionModel manages the full lounge flow: menu -> game or chat -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	ctx       context.Context
	services  SessionServices
	config    core.RuntimeConfig
	menu      MenuModel
	gameModel *GameModel
	chatModel *ChatModel
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(ctx context.Context, svc SessionServices, cfg core.RuntimeConfig) SessionModel {
	if svc.Logger == nil {
		svc.Logger = log.Default()
	}
	return SessionModel{
		ctx:      ctx,
		services: svc,
		config:   cfg,
		menu:     NewMenuModel(cfg, svc.NewChat != nil),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.gameModel != nil:
		return m.updateGame(msg)
	case m.chatModel != nil:
		return m.updateChat(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.config = m.menu.Config()

	// The menu quits its own program on select; here we switch views instead.
	switch selected.Kind {
	case ItemChat:
		chatModel := NewChatModel(m.ctx, m.services.NewChat(), m.services.ChatOptions)
		chatModel.embedded = true
		chatModel.resize(m.config.ScreenW, m.config.ScreenH)
		chatModel.refresh()
		m.chatModel = &chatModel
		return m, m.chatModel.Init()

	default:
		game, err := registry.Create(selected.ID)
		if err != nil {
			// Shouldn't happen since menu only shows registered games
			m.menu = NewMenuModel(m.config, m.services.NewChat != nil)
			return m, nil
		}
		gameModel := NewGameModel(game, m.config, m.services.Logger)
		gameModel.embedded = true
		m.gameModel = &gameModel
		return m, m.gameModel.Init()
	}
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.gameModel.BackToMenu() {
		m.gameModel = nil
		m.menu = NewMenuModel(m.config, m.services.NewChat != nil)
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateChat handles updates when in chat mode.
func (m SessionModel) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.chatModel.Update(msg)
	if chatModel, ok := newModel.(ChatModel); ok {
		m.chatModel = &chatModel
	}

	if m.chatModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.chatModel.BackToMenu() {
		m.chatModel = nil
		m.menu = NewMenuModel(m.config, m.services.NewChat != nil)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.gameModel != nil:
		return m.gameModel.View()
	case m.chatModel != nil:
		return m.chatModel.View()
	}
	return m.menu.View()
}
