// Package backend is the HTTP client for the chat server.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/vovakirdan/tui-lounge/internal/chat"
)

// ConversationHeader carries the conversation ID on chat requests.
const ConversationHeader = "X-Conversation-ID"

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeStatus
	ErrTypeDecode
	ErrTypeRemote
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeStatus:
		return "status"
	case ErrTypeDecode:
		return "decode"
	case ErrTypeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// ClientError represents an error from the chat client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// StatusError is a non-2xx reply. Its message is the raw response body,
// which is what the server uses to explain the failure.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return http.StatusText(e.Code)
	}
	return e.Body
}

// Config holds configuration options for the client.
type Config struct {
	// BaseURL is the server root (default: http://127.0.0.1:5000)
	BaseURL string

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Client talks to the chat server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ chat.Backend = (*Client)(nil)

// New creates a client.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "http://127.0.0.1:5000"
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{baseURL: base, httpClient: hc}
}

// Upload posts the file as multipart field "file" and returns the extracted
// text. A server-side rejection is reported in UploadResult.Error, not as err.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (chat.UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return chat.UploadResult{}, &ClientError{Type: ErrTypeUnknown, Message: "failed to build form", Cause: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return chat.UploadResult{}, &ClientError{Type: ErrTypeUnknown, Message: "failed to read file", Cause: err}
	}
	if err := mw.Close(); err != nil {
		return chat.UploadResult{}, &ClientError{Type: ErrTypeUnknown, Message: "failed to build form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return chat.UploadResult{}, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chat.UploadResult{}, &ClientError{Type: ErrTypeConnection, Message: "upload request failed", Cause: err}
	}
	defer resp.Body.Close()

	// The server answers {error} with an error status, so decode regardless.
	var result chat.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode/100 != 2 {
			return chat.UploadResult{}, &ClientError{
				Type:    ErrTypeStatus,
				Message: "upload failed",
				Cause:   &StatusError{Code: resp.StatusCode},
			}
		}
		return chat.UploadResult{}, &ClientError{Type: ErrTypeDecode, Message: "invalid upload response", Cause: err}
	}
	if result.Filename == "" && result.Error == "" {
		result.Filename = filename
	}
	return result, nil
}

type chatResponse struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// Chat posts the conversation and returns the assistant's content. A non-2xx
// reply returns a *StatusError whose message is the raw body.
func (c *Client) Chat(ctx context.Context, conversationID string, chatReq chat.ChatRequest) (string, error) {
	if chatReq.Messages == nil {
		chatReq.Messages = []chat.Message{}
	}
	payload, err := json.Marshal(chatReq)
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if conversationID != "" {
		req.Header.Set(ConversationHeader, conversationID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "chat request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(resp.Body)
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ClientError{Type: ErrTypeDecode, Message: "invalid chat response", Cause: err}
	}
	if out.Error != "" {
		return "", &ClientError{Type: ErrTypeRemote, Message: out.Error}
	}
	return out.Content, nil
}

// SetDarkMode notifies the server of the theme. The reply body is ignored.
func (c *Client) SetDarkMode(ctx context.Context, enabled bool) error {
	payload, err := json.Marshal(map[string]bool{"dark_mode": enabled})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/toggle-dark-mode", bytes.NewReader(payload))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "dark mode sync failed", Cause: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		return &ClientError{Type: ErrTypeStatus, Message: fmt.Sprintf("dark mode sync returned %s", resp.Status)}
	}
	return nil
}
