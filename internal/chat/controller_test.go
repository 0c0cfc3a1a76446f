package chat

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu sync.Mutex

	reply     string
	chatErr   error
	upload    UploadResult
	uploadErr error
	darkErr   error
	block     chan struct{}

	requests  []ChatRequest
	convIDs   []string
	uploads   map[string]string
	darkCalls []bool
}

func (f *fakeBackend) Upload(_ context.Context, filename string, r io.Reader) (UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return UploadResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploads == nil {
		f.uploads = make(map[string]string)
	}
	f.uploads[filename] = string(data)
	return f.upload, f.uploadErr
}

func (f *fakeBackend) Chat(ctx context.Context, conversationID string, req ChatRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.convIDs = append(f.convIDs, conversationID)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.chatErr
}

func (f *fakeBackend) SetDarkMode(_ context.Context, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.darkCalls = append(f.darkCalls, enabled)
	return f.darkErr
}

type memPrefs struct {
	dark    bool
	readErr error
	sets    int
}

func (p *memPrefs) DarkMode() (bool, error) { return p.dark, p.readErr }

func (p *memPrefs) SetDarkMode(enabled bool) error {
	p.dark = enabled
	p.sets++
	return nil
}

func newTestController(b Backend, p Preferences) *Controller {
	return NewController(b, p, log.New(io.Discard), SessionOptions{Model: "gpt-3.5-turbo"})
}

func TestControllerLoadsStoredDarkMode(t *testing.T) {
	c := newTestController(&fakeBackend{}, &memPrefs{dark: true})
	assert.True(t, c.Session().DarkMode())

	c = newTestController(&fakeBackend{}, &memPrefs{dark: true, readErr: errors.New("locked")})
	assert.False(t, c.Session().DarkMode())

	c = newTestController(&fakeBackend{}, nil)
	assert.False(t, c.Session().DarkMode())
}

func TestControllerSendMessage(t *testing.T) {
	b := &fakeBackend{reply: "Hi! How can I help?"}
	c := newTestController(b, nil)

	require.NoError(t, c.SendMessage(context.Background(), "hello"))

	require.Len(t, b.requests, 1)
	assert.Equal(t, ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
		Model:    "gpt-3.5-turbo",
	}, b.requests[0])
	assert.Equal(t, c.Session().ConversationID(), b.convIDs[0])

	hist := c.Session().History()
	require.Len(t, hist, 2)
	assert.Equal(t, "Hi! How can I help?", hist[1].Content)
	assert.Zero(t, typingCount(c.Session().Transcript()))
}

func TestControllerSendEmptyMakesNoRequest(t *testing.T) {
	b := &fakeBackend{}
	c := newTestController(b, nil)

	require.NoError(t, c.SendMessage(context.Background(), ""))
	assert.Empty(t, b.requests)
	assert.Empty(t, c.Session().Transcript())
}

func TestControllerSendFailure(t *testing.T) {
	b := &fakeBackend{chatErr: errors.New("Internal Server Error")}
	c := newTestController(b, nil)

	require.NoError(t, c.SendMessage(context.Background(), "hello"))

	tr := c.Session().Transcript()
	require.Len(t, tr, 2)
	assert.Equal(t, "Error: Internal Server Error", tr[1].Content)
	assert.Len(t, c.Session().History(), 1)
}

func TestControllerUploadThenSend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("quarterly numbers"), 0o644))

	b := &fakeBackend{
		reply:  "Summary.",
		upload: UploadResult{Text: "quarterly numbers", Filename: "report.txt"},
	}
	c := newTestController(b, nil)

	require.NoError(t, c.UploadFile(context.Background(), path))
	assert.Equal(t, "quarterly numbers", b.uploads["report.txt"])
	assert.Equal(t, "quarterly numbers", c.Session().PendingFileText())

	require.NoError(t, c.SendMessage(context.Background(), "summarize"))
	assert.Equal(t, "quarterly numbers", b.requests[0].FileText)
	assert.Empty(t, c.Session().PendingFileText())
}

func TestControllerUploadMissingFile(t *testing.T) {
	c := newTestController(&fakeBackend{}, nil)

	require.NoError(t, c.UploadFile(context.Background(), filepath.Join(t.TempDir(), "gone.txt")))

	tr := c.Session().Transcript()
	require.Len(t, tr, 1)
	assert.Contains(t, tr[0].Content, "File upload failed: cannot open gone.txt")
}

func TestControllerToggleDarkMode(t *testing.T) {
	b := &fakeBackend{darkErr: errors.New("offline")}
	p := &memPrefs{}
	c := newTestController(b, p)

	require.NoError(t, c.ToggleDarkMode(context.Background()))

	assert.True(t, c.Session().DarkMode())
	assert.True(t, p.dark)
	assert.Equal(t, 1, p.sets)
	assert.Equal(t, []bool{true}, b.darkCalls)
}

func TestControllerClearCancelsInFlight(t *testing.T) {
	b := &fakeBackend{reply: "late", block: make(chan struct{})}
	c := newTestController(b, nil)

	eff, err := c.Apply(SendEvent{Text: "slow question"})
	require.NoError(t, err)

	done := make(chan Event, 1)
	go func() { done <- c.Perform(context.Background(), eff) }()

	// Wait until the request reached the backend.
	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(b.requests) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, c.ClearConversation())

	ev := <-done
	res, ok := ev.(ChatResultEvent)
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, context.Canceled)

	_, err = c.Apply(res)
	require.NoError(t, err)
	assert.Empty(t, c.Session().Transcript())
	assert.False(t, c.Session().Busy())
}

func TestControllerCloseCancelsAndRefusesWork(t *testing.T) {
	b := &fakeBackend{reply: "never", block: make(chan struct{})}
	c := newTestController(b, nil)

	eff, err := c.Apply(SendEvent{Text: "slow question"})
	require.NoError(t, err)

	done := make(chan Event, 1)
	go func() { done <- c.Perform(context.Background(), eff) }()

	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(b.requests) == 1
	}, time.Second, time.Millisecond)

	c.Close()

	res, ok := (<-done).(ChatResultEvent)
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, context.Canceled)

	// Later effects never reach the backend.
	ev := c.Perform(context.Background(), ChatEffect{Seq: 9})
	assert.ErrorIs(t, ev.(ChatResultEvent).Err, ErrClosed)

	ev = c.Perform(context.Background(), UploadEffect{Seq: 10, Path: "notes.txt"})
	assert.ErrorIs(t, ev.(UploadResultEvent).Err, ErrClosed)

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Len(t, b.requests, 1)
	assert.Empty(t, b.uploads)
}
