package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// Controller binds a Session to a Backend and the local preference store.
// Apply must be called from a single goroutine; Perform may run on any.
type Controller struct {
	session *Session
	backend Backend
	prefs   Preferences
	logger  *log.Logger

	mu     sync.Mutex
	cancel map[uint64]context.CancelFunc
	closed bool
}

// NewController creates a controller. The stored theme, when readable,
// overrides opts.DarkMode. prefs may be nil.
func NewController(backend Backend, prefs Preferences, logger *log.Logger, opts SessionOptions) *Controller {
	if logger == nil {
		logger = log.Default()
	}

	if prefs != nil {
		dark, err := prefs.DarkMode()
		if err != nil {
			logger.Warn("cannot read dark mode preference", "err", err)
		} else {
			opts.DarkMode = dark
		}
	}

	return &Controller{
		session: NewSession(opts),
		backend: backend,
		prefs:   prefs,
		logger:  logger,
		cancel:  make(map[uint64]context.CancelFunc),
	}
}

// Session returns the controlled session.
func (c *Controller) Session() *Session {
	return c.session
}

// Apply feeds ev to the session and handles the local side of its effect.
// The returned effect still needs Perform.
func (c *Controller) Apply(ev Event) (Effect, error) {
	if _, ok := ev.(ClearEvent); ok {
		c.cancelAll()
	}

	eff, err := c.session.Update(ev)
	if err != nil {
		return nil, err
	}

	if eff, ok := eff.(DarkModeEffect); ok && c.prefs != nil {
		if err := c.prefs.SetDarkMode(eff.Enabled); err != nil {
			c.logger.Warn("cannot persist dark mode", "err", err)
		}
	}
	return eff, nil
}

// Perform runs the remote side of eff and returns the event describing its
// outcome. It never touches the session.
func (c *Controller) Perform(ctx context.Context, eff Effect) Event {
	switch eff := eff.(type) {
	case ChatEffect:
		return c.performChat(ctx, eff)
	case UploadEffect:
		return c.performUpload(ctx, eff)
	case DarkModeEffect:
		err := c.backend.SetDarkMode(ctx, eff.Enabled)
		if err != nil {
			c.logger.Warn("dark mode sync failed", "enabled", eff.Enabled, "err", err)
		}
		return DarkModeSyncedEvent{Enabled: eff.Enabled, Err: err}
	}
	return nil
}

func (c *Controller) performChat(ctx context.Context, eff ChatEffect) Event {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return ChatResultEvent{Seq: eff.Seq, Err: ErrClosed}
	}
	c.cancel[eff.Seq] = cancel
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.cancel, eff.Seq)
		c.mu.Unlock()
		cancel()
	}()

	c.logger.Debug("chat request", "seq", eff.Seq, "model", eff.Request.Model,
		"messages", len(eff.Request.Messages), "file_text", len(eff.Request.FileText) > 0)

	content, err := c.backend.Chat(ctx, eff.ConversationID, eff.Request)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.logger.Debug("chat request cancelled", "seq", eff.Seq)
		} else {
			c.logger.Error("chat request failed", "seq", eff.Seq, "err", err)
		}
		return ChatResultEvent{Seq: eff.Seq, Err: err}
	}

	c.logger.Info("chat reply", "seq", eff.Seq, "bytes", len(content))
	return ChatResultEvent{Seq: eff.Seq, Content: content}
}

func (c *Controller) performUpload(ctx context.Context, eff UploadEffect) Event {
	if c.isClosed() {
		return UploadResultEvent{Seq: eff.Seq, Err: ErrClosed}
	}

	f, err := os.Open(eff.Path)
	if err != nil {
		return UploadResultEvent{Seq: eff.Seq, Err: fmt.Errorf("cannot open %s: %w", filepath.Base(eff.Path), err)}
	}
	defer f.Close()

	res, err := c.backend.Upload(ctx, filepath.Base(eff.Path), f)
	switch {
	case err != nil:
		c.logger.Error("upload failed", "file", eff.Path, "err", err)
	case res.Error != "":
		c.logger.Warn("upload rejected", "file", eff.Path, "reason", res.Error)
	default:
		c.logger.Info("upload complete", "file", res.Filename, "chars", len(res.Text))
	}
	return UploadResultEvent{Seq: eff.Seq, Result: res, Err: err}
}

// Close cancels every request in flight. Effects performed afterwards fail
// with ErrClosed without reaching the backend.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancelAll()
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) cancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for seq, cancel := range c.cancel {
		cancel()
		delete(c.cancel, seq)
	}
}

// Dispatch applies ev and performs any resulting effect synchronously,
// feeding outcomes back until the session is settled.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	for ev != nil {
		eff, err := c.Apply(ev)
		if err != nil || eff == nil {
			return err
		}
		ev = c.Perform(ctx, eff)
	}
	return nil
}

// UploadFile uploads the file at path and records the outcome in the transcript.
func (c *Controller) UploadFile(ctx context.Context, path string) error {
	return c.Dispatch(ctx, UploadEvent{Path: path})
}

// SendMessage sends text, plus any pending file text, and waits for the reply.
func (c *Controller) SendMessage(ctx context.Context, text string) error {
	return c.Dispatch(ctx, SendEvent{Text: text})
}

// ClearConversation wipes the transcript, history and pending upload, and
// cancels any request in flight.
func (c *Controller) ClearConversation() error {
	return c.Dispatch(context.Background(), ClearEvent{})
}

// ToggleDarkMode flips the theme, stores it and notifies the backend.
func (c *Controller) ToggleDarkMode(ctx context.Context) error {
	return c.Dispatch(ctx, ToggleDarkModeEvent{})
}
