package richtext

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
)

// DefaultStyle is the chroma style used for unknown themes.
const DefaultStyle = "monokai"

// lexerAliases maps notebook lexer names chroma does not know to the
// closest chroma lexer.
var lexerAliases = map[string]string{
	"ipython":           "python",
	"ipython2":          "python",
	"ipython3":          "python",
	"ipython traceback": "python",
	"ipythonconsole":    "python",
}

// themeAliases maps terminal theme names to chroma styles.
var themeAliases = map[string]string{
	"ansi_dark":  "monokai",
	"ansi_light": "github",
	"dark":       "monokai",
	"light":      "github",
}

// ChromaHighlighter highlights code with chroma.
type ChromaHighlighter struct {
	// Formatter is the chroma formatter name. Empty means "terminal256".
	Formatter string
}

// Highlight returns code highlighted with the named lexer and theme.
func (h ChromaHighlighter) Highlight(code, lexer, theme string, transparent bool) (string, error) {
	style := ChromaStyle(theme)
	if transparent {
		cleared, err := clearBackground(style, style.Name)
		if err != nil {
			return "", fmt.Errorf("building %s style: %w", style.Name, err)
		}
		style = cleared
	}

	name := h.Formatter
	if name == "" {
		name = "terminal256"
	}
	formatter := formatters.Get(name)
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := Lexer(lexer).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", lexer, err)
	}

	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return "", fmt.Errorf("formatting %s: %w", lexer, err)
	}

	out := b.String()
	if !strings.HasSuffix(code, "\n") {
		out = trimFinalNewline(out)
	}
	return out, nil
}

// trimFinalNewline removes the newline lexers append to their input, keeping
// any escape sequences that follow it.
func trimFinalNewline(s string) string {
	i := strings.LastIndex(s, "\n")
	if i < 0 || ansi.Strip(s[i+1:]) != "" {
		return s
	}
	return s[:i] + s[i+1:]
}

// Lexer resolves a lexer by name or alias, falling back to chroma's plain
// text lexer.
func Lexer(name string) chroma.Lexer {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := lexerAliases[key]; ok {
		key = alias
	}
	l := lexers.Get(key)
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// ChromaStyleName resolves a theme name to a registered chroma style.
func ChromaStyleName(theme string) string {
	key := strings.ToLower(strings.TrimSpace(theme))
	if alias, ok := themeAliases[key]; ok {
		return alias
	}
	if _, ok := chromaStyles.Registry[key]; ok {
		return key
	}
	return DefaultStyle
}

// ChromaStyle returns the chroma style for theme.
func ChromaStyle(theme string) *chroma.Style {
	return chromaStyles.Get(ChromaStyleName(theme))
}

// clearBackground copies style under name without its background color,
// so highlighted code sits on the terminal's own background.
func clearBackground(style *chroma.Style, name string) (*chroma.Style, error) {
	builder := chroma.NewStyleBuilder(name)
	for _, tt := range style.Types() {
		builder.AddEntry(tt, style.Get(tt))
	}
	bg := builder.Get(chroma.Background)
	bg.Background = 0
	bg.NoInherit = true
	builder.AddEntry(chroma.Background, bg)
	return builder.Build()
}

var registerMu sync.Mutex

// transparentStyleName registers a background-free copy of the named
// chroma style and returns the name it is registered under. glamour looks
// code block themes up by name.
func transparentStyleName(name string) string {
	transparent := name + "-transparent"

	registerMu.Lock()
	defer registerMu.Unlock()
	if _, ok := chromaStyles.Registry[transparent]; ok {
		return transparent
	}
	style, err := clearBackground(chromaStyles.Get(name), transparent)
	if err != nil {
		return name
	}
	chromaStyles.Register(style)
	return transparent
}
