package chat

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrRequestInFlight is returned when a message is sent before the previous
// reply arrived. The session is left unchanged so the text can be resent.
var ErrRequestInFlight = errors.New("chat: a request is already in flight")

// ErrClosed is reported for effects performed after Controller.Close.
var ErrClosed = errors.New("chat: controller closed")

// SessionOptions configures a new Session.
type SessionOptions struct {
	Model    string
	DarkMode bool
	// Greeting is shown as the first assistant entry but never sent as history.
	Greeting string
	// NewID generates conversation IDs. Defaults to random UUIDs.
	NewID func() string
}

// Session is the state of one chat conversation. It performs no I/O: Update
// returns an Effect describing the call to make, and the call's outcome is
// fed back as another event.
type Session struct {
	transcript []Entry
	nextID     int
	history    []Message

	pendingFileText string
	fileName        string
	darkMode        bool
	model           string
	conversationID  string
	newID           func() string

	seq      uint64 // last token handed out
	inFlight uint64 // token of the pending chat request, 0 if idle
	typingID int
	// Results tagged at or below this token predate the last clear.
	clearedAt uint64
	// Token of the upload whose text is currently pending.
	appliedUpload uint64
}

// NewSession creates a session, showing the greeting if one is configured.
func NewSession(opts SessionOptions) *Session {
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	s := &Session{
		model:          opts.Model,
		darkMode:       opts.DarkMode,
		newID:          newID,
		conversationID: newID(),
	}
	if opts.Greeting != "" {
		s.appendEntry(RoleAssistant, opts.Greeting)
	}
	return s
}

// Update applies one event. The returned effect, if any, must be performed
// and its result fed back through Update.
func (s *Session) Update(ev Event) (Effect, error) {
	switch ev := ev.(type) {
	case SendEvent:
		return s.send(ev.Text)
	case ChatResultEvent:
		s.chatResult(ev)
	case UploadEvent:
		return s.upload(ev.Path), nil
	case UploadResultEvent:
		s.uploadResult(ev)
	case ClearEvent:
		s.clear()
	case ToggleDarkModeEvent:
		s.darkMode = !s.darkMode
		return DarkModeEffect{Enabled: s.darkMode}, nil
	case DarkModeSyncedEvent:
		// Local state stays authoritative.
	case ModelSelectedEvent:
		s.model = ev.Model
	default:
		return nil, fmt.Errorf("chat: unknown event %T", ev)
	}
	return nil, nil
}

func (s *Session) send(text string) (Effect, error) {
	if s.inFlight != 0 {
		return nil, ErrRequestInFlight
	}

	text = strings.TrimSpace(text)
	if text == "" && s.pendingFileText == "" {
		return nil, nil
	}

	if text != "" {
		s.appendEntry(RoleUser, text)
		s.history = append(s.history, Message{Role: RoleUser, Content: text})
	}
	s.fileName = ""

	s.typingID = s.appendEntry(RoleAssistant, "")
	s.transcript[len(s.transcript)-1].Typing = true

	s.seq++
	s.inFlight = s.seq

	return ChatEffect{
		Seq:            s.seq,
		ConversationID: s.conversationID,
		Request: ChatRequest{
			Messages: append([]Message(nil), s.history...),
			Model:    s.model,
			FileText: s.pendingFileText,
		},
	}, nil
}

func (s *Session) chatResult(ev ChatResultEvent) {
	if s.inFlight == 0 || ev.Seq != s.inFlight {
		return
	}
	s.inFlight = 0
	s.removeTyping()

	if ev.Err != nil {
		s.appendEntry(RoleAssistant, "Error: "+ev.Err.Error())
		return
	}

	s.appendEntry(RoleAssistant, ev.Content)
	s.history = append(s.history, Message{Role: RoleAssistant, Content: ev.Content})
	s.pendingFileText = ""
}

func (s *Session) upload(path string) Effect {
	s.fileName = filepath.Base(path)
	s.seq++
	return UploadEffect{Seq: s.seq, Path: path}
}

func (s *Session) uploadResult(ev UploadResultEvent) {
	if ev.Seq <= s.clearedAt {
		return
	}

	switch {
	case ev.Err != nil:
		s.appendEntry(RoleAssistant, "File upload failed: "+ev.Err.Error())
	case ev.Result.Error != "":
		s.appendEntry(RoleAssistant, "File upload error: "+ev.Result.Error)
	default:
		// An older upload finishing late does not replace a newer one's text.
		if ev.Seq >= s.appliedUpload {
			s.pendingFileText = ev.Result.Text
			s.appliedUpload = ev.Seq
		}
		s.appendEntry(RoleAssistant, `File "`+ev.Result.Filename+`" uploaded successfully. I can now reference its content.`)
	}
}

func (s *Session) clear() {
	s.transcript = nil
	s.history = nil
	s.pendingFileText = ""
	s.fileName = ""
	s.inFlight = 0
	s.typingID = 0
	s.clearedAt = s.seq
	s.conversationID = s.newID()
}

func (s *Session) appendEntry(role Role, content string) int {
	s.nextID++
	s.transcript = append(s.transcript, Entry{ID: s.nextID, Role: role, Content: content})
	return s.nextID
}

func (s *Session) removeTyping() {
	for i, e := range s.transcript {
		if e.ID == s.typingID {
			s.transcript = append(s.transcript[:i], s.transcript[i+1:]...)
			break
		}
	}
	s.typingID = 0
}

// Transcript returns a copy of the visible entries in order.
func (s *Session) Transcript() []Entry {
	return append([]Entry(nil), s.transcript...)
}

// History returns a copy of the conversation history.
func (s *Session) History() []Message {
	return append([]Message(nil), s.history...)
}

// PendingFileText returns the uploaded text waiting for the next send.
func (s *Session) PendingFileText() string { return s.pendingFileText }

// FileName returns the name of the file chosen for upload, if still shown.
func (s *Session) FileName() string { return s.fileName }

// DarkMode reports the current theme.
func (s *Session) DarkMode() bool { return s.darkMode }

// Busy reports whether a chat request is in flight.
func (s *Session) Busy() bool { return s.inFlight != 0 }

// InFlight returns the token of the pending chat request, or 0.
func (s *Session) InFlight() uint64 { return s.inFlight }

// Model returns the model used for the next request.
func (s *Session) Model() string { return s.model }

// ConversationID identifies the conversation to the backend. It changes on clear.
func (s *Session) ConversationID() string { return s.conversationID }
