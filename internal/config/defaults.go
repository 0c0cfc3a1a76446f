package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

//go:embed defaults/chat.yaml
var defaultChatYAML []byte

// DefaultSnakeConfig returns the default Snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Board: SnakeBoard{
			CanvasWidth: 400,
			TileSize:    20,
			Origin:      GridCell{X: 10, Y: 10},
		},
		Timing: SnakeTiming{
			TickMS: 100,
		},
	}
}

// DefaultChatConfig returns the default chat configuration.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		Backend: ChatBackend{
			BaseURL: "http://127.0.0.1:5000",
		},
		Models:       []string{"gpt-3.5-turbo", "gpt-4"},
		DefaultModel: "gpt-3.5-turbo",
		Greeting:     "Hello! I'm your AI assistant. How can I help you today?",
		Render: ChatRender{
			Renderer: "glamour",
			WordWrap: 80,
		},
		Attachments: ChatAttachments{
			Extensions: []string{".txt", ".md", ".pdf", ".docx", ".csv", ".json"},
		},
	}
}
