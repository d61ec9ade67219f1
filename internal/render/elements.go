package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Plain is unstyled text.
type Plain string

// Render returns the text unchanged.
func (p Plain) Render(Engines) (string, error) {
	return string(p), nil
}

// Text is a run of text painted with a single style.
type Text struct {
	Value string
	Style lipgloss.Style
}

// Render paints the text with its style.
func (t Text) Render(Engines) (string, error) {
	return t.Style.Render(t.Value), nil
}

// Syntax is a block of code to be highlighted.
type Syntax struct {
	Code        string
	Lexer       string
	Theme       string
	Transparent bool
}

// Render highlights the code with the configured highlighter.
func (s Syntax) Render(e Engines) (string, error) {
	if e.Highlighter == nil {
		return "", ErrNoEngine
	}
	return e.Highlighter.Highlight(s.Code, s.Lexer, s.Theme, s.Transparent)
}

// Markdown is markdown source rendered with the active theme.
type Markdown struct {
	Source string
	Theme  string
}

// Render renders the markdown with the configured markdown engine.
func (m Markdown) Render(e Engines) (string, error) {
	if e.Markdown == nil {
		return "", ErrNoEngine
	}
	return e.Markdown.RenderMarkdown(m.Source, m.Theme)
}

// Link is clickable text pointing at URL.
type Link struct {
	URL     string
	Icon    string
	Message string
	Style   lipgloss.Style
}

// Text returns the visible text of the link.
func (l Link) Text() string {
	return l.Icon + l.Message
}

// Render wraps the visible text in an OSC 8 hyperlink. The closing
// sequence ends the link right after the visible text so styling and
// the link target do not carry over to whatever follows.
func (l Link) Render(Engines) (string, error) {
	return ansi.SetHyperlink(l.URL) + l.Style.Render(l.Text()) + ansi.ResetHyperlink(), nil
}

// Padded surrounds an element with blank space.
type Padded struct {
	Element Element
	Top     int
	Right   int
	Bottom  int
	Left    int
}

// Render paints the inner element and applies the padding.
func (p Padded) Render(e Engines) (string, error) {
	inner, err := String(p.Element, e)
	if err != nil {
		return "", err
	}
	return lipgloss.NewStyle().
		Padding(p.Top, p.Right, p.Bottom, p.Left).
		Render(inner), nil
}
