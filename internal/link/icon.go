package link

import (
	"sync"

	"github.com/yuin/goldmark-emoji/definition"

	"github.com/basecamp/nbpreview/internal/render"
)

// Icon is the pair of symbols a link can be decorated with. The nerd font
// glyph needs a patched font; the emoji needs unicode output.
type Icon struct {
	NerdFont string `yaml:"nerd_font"`
	Emoji    string `yaml:"emoji"`
}

var emojis = sync.OnceValue(func() definition.Emojis { return definition.Github() })

// Symbol returns the icon for caps without trailing space. A nerd font
// glyph wins over an emoji; with neither allowed ok is false.
func (i Icon) Symbol(caps render.Capabilities) (symbol string, ok bool) {
	switch {
	case caps.NerdFont:
		return i.NerdFont, true
	case caps.Unicode:
		return EmojiGlyph(i.Emoji), true
	default:
		return "", false
	}
}

// Prefix returns the icon followed by a space, or "" when no icon is
// allowed.
func (i Icon) Prefix(caps render.Capabilities) string {
	symbol, ok := i.Symbol(caps)
	if !ok {
		return ""
	}
	return symbol + " "
}

// EmojiGlyph resolves a GitHub emoji short name. Unknown names are
// returned in ":name:" form.
func EmojiGlyph(name string) string {
	if e, ok := emojis().Get(name); ok && len(e.Unicode) > 0 {
		return string(e.Unicode)
	}
	return ":" + name + ":"
}
