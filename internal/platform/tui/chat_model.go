package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lounge/internal/chat"
	"github.com/vovakirdan/tui-lounge/internal/markdown"
	"github.com/vovakirdan/tui-lounge/internal/watch"
)

// chatEventMsg carries the outcome of a performed effect back to Update.
// from is the controller that performed it; results meant for another
// controller are dropped.
type chatEventMsg struct {
	from *chat.Controller
	ev   chat.Event
}

// fileDroppedMsg reports a settled file in the watched attachment directory.
type fileDroppedMsg struct {
	event watch.FileEvent
}

// ChatOptions configures a ChatModel.
type ChatOptions struct {
	Renderer markdown.Renderer
	// Models are offered for cycling with tab.
	Models []string
	// Files, when set, delivers files to upload automatically.
	Files  <-chan watch.FileEvent
	Logger *log.Logger
}

type renderKey struct {
	id   int
	dark bool
}

// ChatModel is the Bubble Tea model for the chat client. State changes go
// through the controller on the update goroutine; network calls run as
// commands and report back as chatEventMsg.
type ChatModel struct {
	ctx        context.Context
	controller *chat.Controller
	renderer   markdown.Renderer
	models     []string
	files      <-chan watch.FileEvent
	logger     *log.Logger

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     chatKeyMap

	cache     map[renderKey]string
	attaching bool
	status    string
	width     int
	height    int
	ready     bool
	embedded  bool
	quitting  bool
	back      bool
}

// NewChatModel creates the chat model. ctx bounds every request it issues.
func NewChatModel(ctx context.Context, controller *chat.Controller, opts ChatOptions) ChatModel {
	if opts.Renderer == nil {
		opts.Renderer = markdown.NewPlain(80)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "Type your message..."
	ti.Prompt = "> "
	ti.CharLimit = 0 // Long pastes go through whole
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ChatModel{
		ctx:        ctx,
		controller: controller,
		renderer:   opts.Renderer,
		models:     opts.Models,
		files:      opts.Files,
		logger:     opts.Logger,
		input:      ti,
		viewport:   viewport.New(80, 20),
		spinner:    sp,
		help:       help.New(),
		keys:       newChatKeyMap(),
		cache:      make(map[renderKey]string),
	}
}

// Init starts the cursor blink and, if configured, the file watcher feed.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForFile(m.files))
}

func waitForFile(files <-chan watch.FileEvent) tea.Cmd {
	if files == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-files
		if !ok {
			return nil
		}
		return fileDroppedMsg{event: ev}
	}
}

// Update handles messages.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case chatEventMsg:
		if msg.ev == nil || msg.from != m.controller {
			return m, nil
		}
		cmd := m.apply(msg.ev)
		m.refresh()
		return m, cmd

	case fileDroppedMsg:
		m.logger.Info("attachment dropped", "file", msg.event.Path, "op", msg.event.Operation)
		cmd := m.apply(chat.UploadEvent{Path: msg.event.Path})
		m.refresh()
		return m, tea.Batch(cmd, waitForFile(m.files))

	case spinner.TickMsg:
		// The spinner stops once no reply is pending.
		if !m.controller.Session().Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ChatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.controller.Close()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.attaching {
			m.setAttaching(false)
			return m, nil
		}
		m.controller.Close()
		if m.embedded {
			m.back = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		return m.submit()

	case key.Matches(msg, m.keys.Attach):
		m.setAttaching(!m.attaching)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		cmd := m.apply(chat.ClearEvent{})
		m.status = ""
		m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.Theme):
		cmd := m.apply(chat.ToggleDarkModeEvent{})
		m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.Model):
		if len(m.models) > 1 {
			next := m.models[0]
			for i, name := range m.models {
				if name == m.controller.Session().Model() {
					next = m.models[(i+1)%len(m.models)]
				}
			}
			m.apply(chat.ModelSelectedEvent{Model: next})
		}
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input, or uploads the typed path in attach mode.
func (m ChatModel) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	if m.attaching {
		if value == "" {
			return m, nil
		}
		m.setAttaching(false)
		cmd := m.apply(chat.UploadEvent{Path: expandHome(value)})
		m.refresh()
		return m, cmd
	}

	eff, err := m.controller.Apply(chat.SendEvent{Text: value})
	if errors.Is(err, chat.ErrRequestInFlight) {
		m.status = "Still waiting for the previous reply"
		return m, nil
	}
	if err != nil {
		m.logger.Error("send failed", "err", err)
		return m, nil
	}
	if eff == nil {
		return m, nil
	}

	m.input.Reset()
	m.status = ""
	m.refresh()
	return m, tea.Batch(m.perform(eff), m.spinner.Tick)
}

// apply feeds ev to the controller and returns the command performing any effect.
func (m *ChatModel) apply(ev chat.Event) tea.Cmd {
	eff, err := m.controller.Apply(ev)
	if err != nil {
		m.logger.Error("chat event rejected", "event", ev, "err", err)
		return nil
	}
	return m.perform(eff)
}

func (m ChatModel) perform(eff chat.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	ctx, ctrl := m.ctx, m.controller
	return func() tea.Msg {
		return chatEventMsg{from: ctrl, ev: ctrl.Perform(ctx, eff)}
	}
}

// expandHome expands a leading ~ in a typed path.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func (m *ChatModel) setAttaching(on bool) {
	m.attaching = on
	m.input.Reset()
	if on {
		m.input.Placeholder = "Path of the file to upload..."
		m.input.Prompt = "file> "
	} else {
		m.input.Placeholder = "Type your message..."
		m.input.Prompt = "> "
	}
}

func (m *ChatModel) resize(width, height int) {
	if width != m.width {
		clear(m.cache)
	}
	m.width, m.height = width, height
	m.help.Width = width
	m.input.Width = max(10, width-8)

	// Header, status, input and help lines.
	vh := max(3, height-5)
	if !m.ready {
		m.viewport = viewport.New(width, vh)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vh
	}
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *ChatModel) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *ChatModel) renderTranscript() string {
	session := m.controller.Session()
	dark := session.DarkMode()
	st := stylesFor(dark)
	width := max(20, m.viewport.Width-2)

	var blocks []string
	for _, e := range session.Transcript() {
		switch {
		case e.Typing:
			blocks = append(blocks, st.Assistant.Render("Assistant")+"\n"+st.Typing.Render(m.spinner.View()+" typing..."))
		case e.Role == chat.RoleUser:
			body := st.Body.Width(width).Render(e.Content)
			blocks = append(blocks, st.User.Render("You")+"\n"+body)
		default:
			blocks = append(blocks, st.Assistant.Render("Assistant")+"\n"+m.renderEntry(e, dark))
		}
	}
	return strings.Join(blocks, "\n\n")
}

// renderEntry formats an assistant entry once per theme and caches it.
func (m *ChatModel) renderEntry(e chat.Entry, dark bool) string {
	k := renderKey{id: e.ID, dark: dark}
	if out, ok := m.cache[k]; ok {
		return out
	}
	out, err := m.renderer.Render(e.Content, dark)
	if err != nil {
		m.logger.Warn("markdown render failed", "err", err)
		out = e.Content
	}
	m.cache[k] = out
	return out
}

// View renders the chat screen.
func (m ChatModel) View() string {
	if m.quitting {
		return ""
	}

	session := m.controller.Session()
	st := stylesFor(session.DarkMode())

	theme := "light"
	if session.DarkMode() {
		theme = "dark"
	}
	header := st.Header.Render("AI Chat") + " " + st.Status.Render(session.Model()+" · "+theme)
	if name := session.FileName(); name != "" {
		header += " " + st.File.Render("📎 "+name)
	}

	status := m.status
	if session.PendingFileText() != "" && status == "" {
		status = "File text attached to your next message"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		st.Status.Render(status),
		m.input.View(),
		m.help.View(m.keys),
	)
}

// IsQuitting returns true if user requested to quit entirely.
func (m ChatModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m ChatModel) BackToMenu() bool {
	return m.back
}

// RunChat starts the Bubble Tea program for the chat client.
func RunChat(ctx context.Context, controller *chat.Controller, opts ChatOptions) error {
	model := NewChatModel(ctx, controller, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
