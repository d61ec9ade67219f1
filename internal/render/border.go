package render

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ASCIIBorder is drawn when unicode box characters are not safe.
var ASCIIBorder = lipgloss.Border{
	Top:          "-",
	Bottom:       "-",
	Left:         "|",
	Right:        "|",
	TopLeft:      "+",
	TopRight:     "+",
	BottomLeft:   "+",
	BottomRight:  "+",
	MiddleLeft:   "+",
	MiddleRight:  "+",
	Middle:       "+",
	MiddleTop:    "+",
	MiddleBottom: "+",
}

// DetectUnicode reports whether the locale declares a UTF-8 encoding.
// The first of LC_ALL, LC_CTYPE and LANG that is set decides.
func DetectUnicode() bool {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		v = strings.ToLower(v)
		return strings.Contains(v, "utf-8") || strings.Contains(v, "utf8")
	}
	return false
}
