// Package render defines the terminal elements produced from notebook
// outputs and the engines used to paint them.
//
// Converters build elements as plain values; nothing is drawn until
// Render is called with a set of Engines. This keeps conversion pure and
// lets tests inspect elements without a terminal backend.
package render

import (
	"errors"
	"strings"
)

// Capabilities describes what the terminal and the user configuration
// allow. It is passed by value and never mutated during a render.
type Capabilities struct {
	Unicode            bool
	NerdFont           bool
	Hyperlinks         bool
	Plain              bool
	Files              bool
	HideHyperlinkHints bool
	Theme              string
}

// Element is a renderable terminal element.
type Element interface {
	Render(e Engines) (string, error)
}

// MarkdownRenderer renders markdown source for the terminal.
type MarkdownRenderer interface {
	RenderMarkdown(source, theme string) (string, error)
}

// Highlighter syntax-highlights code with the named lexer and theme.
// When transparent is set the theme's background color is not painted.
type Highlighter interface {
	Highlight(code, lexer, theme string, transparent bool) (string, error)
}

// Engines are the rendering services elements are painted with.
type Engines struct {
	Markdown    MarkdownRenderer
	Highlighter Highlighter
	Width       int
}

// ErrNoEngine is returned when an element needs an engine that was not provided.
var ErrNoEngine = errors.New("render: engine not configured")

// String paints el, treating a nil element as empty output.
func String(el Element, e Engines) (string, error) {
	if el == nil {
		return "", nil
	}
	return el.Render(e)
}

// Join paints each element and joins the results with newlines.
// Nil elements are skipped.
func Join(e Engines, elements ...Element) (string, error) {
	parts := make([]string, 0, len(elements))
	for _, el := range elements {
		if el == nil {
			continue
		}
		s, err := el.Render(e)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}
