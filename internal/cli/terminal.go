package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/muesli/termenv"
)

// minWidth is the narrowest terminal width that is trusted.
const minWidth = 20

// terminalInfo returns the terminal width and whether the writer is a TTY.
// The width is zero when it cannot be determined.
func terminalInfo(w io.Writer) (width int, isTTY bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	if w, _, err := term.GetSize(f.Fd()); err == nil && w >= minWidth {
		width = w
	}
	return width, term.IsTerminal(f.Fd())
}

// colorProfile returns the color profile for rendered output.
func colorProfile(plain bool) termenv.Profile {
	if plain {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}
