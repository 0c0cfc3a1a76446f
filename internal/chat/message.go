// Package chat holds the chat client's conversation state and the controller
// that drives it against a remote chat backend.
package chat

import (
	"context"
	"io"
)

// Role is who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of conversation history sent to the backend.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Entry is one item of the visible transcript. A Typing entry is the
// transient placeholder shown while a reply is pending.
type Entry struct {
	ID      int
	Role    Role
	Content string
	Typing  bool
}

// ChatRequest is the body of a chat call.
type ChatRequest struct {
	Messages []Message `json:"messages"`
	Model    string    `json:"model"`
	FileText string    `json:"file_text"`
}

// UploadResult is the extraction endpoint's reply. Error is set instead of
// Text when the server rejected the file.
type UploadResult struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
	Error    string `json:"error,omitempty"`
}

// Backend is the remote chat service.
type Backend interface {
	// Upload sends a file for text extraction.
	Upload(ctx context.Context, filename string, r io.Reader) (UploadResult, error)
	// Chat sends the conversation and returns the assistant's reply.
	Chat(ctx context.Context, conversationID string, req ChatRequest) (string, error)
	// SetDarkMode mirrors the theme preference. The reply is ignored.
	SetDarkMode(ctx context.Context, enabled bool) error
}

// Preferences stores the local theme preference.
type Preferences interface {
	DarkMode() (bool, error)
	SetDarkMode(enabled bool) error
}
