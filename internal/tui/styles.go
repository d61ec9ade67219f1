package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette used to paint notebook output.
type Theme struct {
	Indicator        lipgloss.AdaptiveColor
	StderrBackground lipgloss.AdaptiveColor
	Link             lipgloss.AdaptiveColor
	Border           lipgloss.AdaptiveColor
	// Heading colors markdown headings below the title.
	Heading          lipgloss.AdaptiveColor
	Error            lipgloss.AdaptiveColor
	Muted            lipgloss.AdaptiveColor
}

// DefaultTheme returns the default nbpreview theme. Indicator and stderr
// colors are ANSI 256 palette indexes so they follow the terminal's scheme.
func DefaultTheme() Theme {
	return Theme{
		Indicator:        lipgloss.AdaptiveColor{Light: "247", Dark: "247"},
		StderrBackground: lipgloss.AdaptiveColor{Light: "174", Dark: "174"},
		Link:             lipgloss.AdaptiveColor{Light: "12", Dark: "12"},
		Border:           lipgloss.AdaptiveColor{Light: "#dadce0", Dark: "#3c4043"},
		Heading:          lipgloss.AdaptiveColor{Light: "#03DAC5", Dark: "#03DAC5"},
		Error:            lipgloss.AdaptiveColor{Light: "#d93025", Dark: "#f28b82"},
		Muted:            lipgloss.AdaptiveColor{Light: "#80868b", Dark: "#6e7681"},
	}
}

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	theme Theme

	// Indicator paints execution counts such as "[3]:".
	Indicator lipgloss.Style
	// Stderr paints error stream text on a highlighted background.
	Stderr lipgloss.Style
	// Link paints the visible text of hyperlinks.
	Link lipgloss.Style
	// CellBorder frames code and raw cells.
	CellBorder lipgloss.Style
	// Error and Muted paint CLI error reports and their hints.
	Error lipgloss.Style
	Muted lipgloss.Style
}

// NewStyles creates a new Styles with the default theme.
func NewStyles() *Styles {
	return NewStylesWithTheme(DefaultTheme())
}

// NewStylesWithTheme creates a new Styles with a custom theme.
func NewStylesWithTheme(theme Theme) *Styles {
	s := &Styles{theme: theme}

	s.Indicator = lipgloss.NewStyle().
		Foreground(theme.Indicator)

	s.Stderr = lipgloss.NewStyle().
		Background(theme.StderrBackground)

	s.Link = lipgloss.NewStyle().
		Foreground(theme.Link)

	s.CellBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	s.Error = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Error)

	s.Muted = lipgloss.NewStyle().
		Foreground(theme.Muted)

	return s
}

// Theme returns the current theme.
func (s *Styles) Theme() Theme {
	return s.theme
}
