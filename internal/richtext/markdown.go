package richtext

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// DefaultWidth is the word wrap width used when none is configured.
const DefaultWidth = 80

// Markdown palette.
const (
	TitleColor           = "#6002EE"
	DefaultHeadingColor  = "#03DAC5"
	titleForeground      = "#FFFFFF"
	codeBlockIndentation = 4
)

// GlamourRenderer renders Markdown for terminal display using glamour.
type GlamourRenderer struct {
	// Width is the word wrap width. Zero means DefaultWidth.
	Width int
	// Plain disables colors and decorations.
	Plain bool
	// HeadingColor paints headings below the title. Empty means
	// DefaultHeadingColor.
	HeadingColor string
	// Images paints the links shown in place of images. Nil leaves images
	// to glamour.
	Images ImageLinker
}

// RenderMarkdown renders md with a glamour style derived from theme.
func (g GlamourRenderer) RenderMarkdown(md, theme string) (string, error) {
	if md == "" {
		return "", nil
	}

	width := g.Width
	if width <= 0 {
		width = DefaultWidth
	}

	style := StyleConfig(theme)
	if g.HeadingColor != "" {
		style.Heading.Color = &g.HeadingColor
	}
	if g.Plain {
		style = styles.NoTTYStyleConfig
	}

	var links []string
	if g.Images != nil {
		var err error
		if md, links, err = replaceImages(md, g.Images); err != nil {
			return "", err
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	out, err := r.Render(md)
	if err != nil {
		return "", err
	}

	return restoreImages(strings.Trim(out, "\n"), links), nil
}

// StyleConfig returns the glamour style for a syntax theme: the light base
// style for light themes, the dark one otherwise. The title is painted on
// TitleColor, other headings in DefaultHeadingColor. Code blocks are
// indented, highlighted with the theme's chroma style and keep the
// terminal background.
func StyleConfig(theme string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if IsLightTheme(theme) {
		cfg = styles.LightStyleConfig
	}

	cfg.H1.Color = stringPtr(titleForeground)
	cfg.H1.BackgroundColor = stringPtr(TitleColor)
	cfg.H1.Bold = boolPtr(true)
	cfg.Heading.Color = stringPtr(DefaultHeadingColor)
	cfg.Heading.Bold = boolPtr(true)
	for _, h := range []*ansi.StyleBlock{&cfg.H2, &cfg.H3, &cfg.H4, &cfg.H5, &cfg.H6} {
		h.Color = nil
		h.Bold = nil
	}

	cfg.BlockQuote.Faint = boolPtr(true)

	cfg.CodeBlock.Chroma = nil
	cfg.CodeBlock.Theme = transparentStyleName(ChromaStyleName(theme))
	cfg.CodeBlock.Margin = uintPtr(codeBlockIndentation)
	return cfg
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
func uintPtr(u uint) *uint       { return &u }

// IsLightTheme reports whether theme is meant for light backgrounds.
func IsLightTheme(theme string) bool {
	theme = strings.ToLower(theme)
	if _, ok := lightThemes[theme]; ok {
		return true
	}
	return strings.Contains(theme, "light")
}

var lightThemes = map[string]struct{}{
	"github":       {},
	"friendly":     {},
	"tango":        {},
	"xcode":        {},
	"autumn":       {},
	"borland":      {},
	"colorful":     {},
	"emacs":        {},
	"lovelace":     {},
	"manni":        {},
	"murphy":       {},
	"pastie":       {},
	"perldoc":      {},
	"trac":         {},
	"vs":           {},
	"bw":           {},
	"algol":        {},
	"algol_nu":     {},
	"abap":         {},
	"arduino":      {},
	"igor":         {},
	"rainbow_dash": {},
}
