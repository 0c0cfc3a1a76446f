// Package markdown renders assistant replies for the terminal: formatted
// text with syntax-highlighted code blocks, in a dark or light palette.
package markdown

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Renderer formats markdown content.
type Renderer interface {
	Render(content string, dark bool) (string, error)
}

// New returns the renderer named kind ("glamour" or "plain").
func New(kind string, wordWrap int) (Renderer, error) {
	switch kind {
	case "", "glamour":
		return NewGlamour(wordWrap)
	case "plain":
		return NewPlain(wordWrap), nil
	default:
		return nil, fmt.Errorf("markdown: unknown renderer %q", kind)
	}
}

// Glamour renders full markdown with glamour's standard dark and light styles.
// It is safe for concurrent use; SSH sessions share one.
type Glamour struct {
	// glamour.TermRenderer keeps per-render state, so calls are serialized.
	mu    sync.Mutex
	dark  *glamour.TermRenderer
	light *glamour.TermRenderer
}

// NewGlamour builds both palettes up front.
func NewGlamour(wordWrap int) (*Glamour, error) {
	dark, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown: dark renderer: %w", err)
	}

	light, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("light"),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown: light renderer: %w", err)
	}

	return &Glamour{dark: dark, light: light}, nil
}

// Render formats content, returning it unchanged if glamour fails.
func (g *Glamour) Render(content string, dark bool) (string, error) {
	r := g.light
	if dark {
		r = g.dark
	}

	g.mu.Lock()
	out, err := r.Render(content)
	g.mu.Unlock()
	if err != nil {
		return content, err
	}
	return strings.Trim(out, "\n"), nil
}

// Plain leaves prose untouched apart from wrapping and highlights fenced
// code blocks with chroma.
type Plain struct {
	wordWrap int
}

// NewPlain creates a plain renderer. A wordWrap of 0 disables wrapping.
func NewPlain(wordWrap int) *Plain {
	return &Plain{wordWrap: wordWrap}
}

// Render implements Renderer.
func (p *Plain) Render(content string, dark bool) (string, error) {
	var out []string
	var prose []string
	var code []string
	lang := ""
	inCode := false

	flushProse := func() {
		if len(prose) == 0 {
			return
		}
		text := strings.Join(prose, "\n")
		if p.wordWrap > 0 {
			text = lipgloss.NewStyle().Width(p.wordWrap).Render(text)
		}
		out = append(out, text)
		prose = nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case !inCode && strings.HasPrefix(trimmed, "```"):
			flushProse()
			inCode = true
			lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			code = nil
		case inCode && strings.HasPrefix(trimmed, "```"):
			out = append(out, strings.TrimRight(Highlight(strings.Join(code, "\n"), lang, dark), "\n"))
			inCode = false
		case inCode:
			code = append(code, line)
		default:
			prose = append(prose, line)
		}
	}

	// An unterminated fence still gets highlighted.
	if inCode {
		out = append(out, strings.TrimRight(Highlight(strings.Join(code, "\n"), lang, dark), "\n"))
	}
	flushProse()

	return strings.Join(out, "\n"), nil
}

// Highlight applies syntax highlighting for lang, guessing the language when
// lang is empty or unknown. Falls back to the raw code on failure.
func Highlight(code, lang string, dark bool) string {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := "github"
	if dark {
		styleName = "monokai"
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
