package row

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/basecamp/nbpreview/internal/render"
)

// MarkdownCell is a markdown cell rendered with the active theme.
type MarkdownCell struct {
	Source string
	Theme  string
	Pad    [4]int
}

// Render renders the markdown and applies the padding.
func (c MarkdownCell) Render(e render.Engines) (string, error) {
	return render.Padded{
		Element: render.Markdown{Source: c.Source, Theme: c.Theme},
		Top:     c.Pad[0],
		Right:   c.Pad[1],
		Bottom:  c.Pad[2],
		Left:    c.Pad[3],
	}.Render(e)
}

// CodeCell is a code cell highlighted with Lexer.
type CodeCell struct {
	Source  string
	Plain   bool
	SafeBox *bool
	Theme   string
	Lexer   string
	Border  lipgloss.Style
}

// Render highlights the source and frames it unless plain.
func (c CodeCell) Render(e render.Engines) (string, error) {
	code, err := render.Syntax{Code: c.Source, Lexer: c.Lexer, Theme: c.Theme}.Render(e)
	if err != nil {
		return "", err
	}
	if c.Plain {
		return code, nil
	}
	return frame(code, c.Border, c.SafeBox, e.Width), nil
}

// SourceCell is a cell shown as its unstyled source.
type SourceCell struct {
	Source  string
	Plain   bool
	SafeBox *bool
	Border  lipgloss.Style
}

// Render returns the source, framed unless plain.
func (c SourceCell) Render(e render.Engines) (string, error) {
	if c.Plain {
		return c.Source, nil
	}
	return frame(c.Source, c.Border, c.SafeBox, e.Width), nil
}

// frame draws a border around content, filling width when it is set.
// ASCII is used when safeBox is true, or when it is nil and the locale
// is not UTF-8.
func frame(content string, style lipgloss.Style, safeBox *bool, width int) string {
	safe := !render.DetectUnicode()
	if safeBox != nil {
		safe = *safeBox
	}
	if safe {
		style = style.Border(render.ASCIIBorder)
	} else if !style.GetBorderTop() {
		style = style.Border(lipgloss.RoundedBorder())
	}
	if width > 0 {
		if inner := width - style.GetHorizontalBorderSize(); inner > 0 {
			style = style.Width(inner)
		}
	}
	return style.Render(content)
}
