// Package appctx provides application context helpers.
package appctx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/basecamp/nbpreview/internal/config"
	"github.com/basecamp/nbpreview/internal/fetch"
	"github.com/basecamp/nbpreview/internal/link"
	"github.com/basecamp/nbpreview/internal/output"
	"github.com/basecamp/nbpreview/internal/render"
	"github.com/basecamp/nbpreview/internal/richtext"
	"github.com/basecamp/nbpreview/internal/tui"
)

// contextKey is a private type for context keys.
type contextKey string

const appKey contextKey = "app"

// App holds the shared application context for all commands.
type App struct {
	Config *config.Config
	Caps   render.Capabilities
	Styles *tui.Styles

	Engines   render.Engines
	Converter output.Converter

	// Logger writes to stderr; quiet unless verbose.
	Logger *slog.Logger
	level  *slog.LevelVar

	// Out receives rendered output.
	Out io.Writer

	// Flags holds the global flag values
	Flags GlobalFlags
}

// GlobalFlags holds values for global CLI flags.
type GlobalFlags struct {
	Verbose int
	// TempDir overrides where linked files are written.
	TempDir string
}

// Terminal describes the output stream.
type Terminal struct {
	IsTTY bool
	Width int
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg *config.Config, term Terminal) *App {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	caps := cfg.Capabilities(config.Detected{
		Unicode:  render.DetectUnicode(),
		Terminal: term.IsTTY,
	})

	theme := tui.ResolveTheme()
	if caps.Plain {
		theme = tui.NoColorTheme()
	}
	styles := tui.NewStylesWithTheme(theme)

	width := cfg.Width
	if width <= 0 {
		width = term.Width
	}
	if width <= 0 {
		width = richtext.DefaultWidth
	}

	app := &App{
		Config: cfg,
		Caps:   caps,
		Styles: styles,
		Engines: render.Engines{
			Highlighter: richtext.ChromaHighlighter{},
			Width:       width,
		},
		Logger: logger,
		level:  level,
		Out:    os.Stdout,
	}
	app.Converter = app.newConverter()
	app.Engines.Markdown = app.newMarkdown()
	return app
}

// newMarkdown builds the markdown engine. Images link through the current
// converter.
func (a *App) newMarkdown() richtext.GlamourRenderer {
	heading := a.Styles.Theme().Heading.Dark
	if richtext.IsLightTheme(a.Caps.Theme) {
		heading = a.Styles.Theme().Heading.Light
	}
	return richtext.GlamourRenderer{
		Width:        a.Engines.Width,
		Plain:        a.Caps.Plain,
		HeadingColor: heading,
		Images:       output.MarkdownImages{Converter: a.Converter, Caps: a.Caps},
	}
}

func (a *App) newConverter() output.Converter {
	return output.Converter{
		Links: link.Renderer{
			Files:  link.TempWriter{Dir: a.Flags.TempDir},
			Style:  a.Styles.Link,
			Logger: a.Logger,
		},
		Fetcher: fetch.NewClient(nil, a.Logger),
		Latex:   richtext.LatexConverter{},
		Styles:  a.Styles,
		Logger:  a.Logger,
	}
}

// ApplyFlags applies global flag values to the app.
func (a *App) ApplyFlags() {
	// Determine verbosity level from flags and NBPREVIEW_DEBUG env var
	verboseLevel := a.Flags.Verbose
	if debugEnv := os.Getenv("NBPREVIEW_DEBUG"); debugEnv != "" {
		if level, err := strconv.Atoi(debugEnv); err == nil {
			verboseLevel = max(verboseLevel, level)
		} else if debugEnv == "true" {
			verboseLevel = 2
		}
	}
	if verboseLevel == 0 && a.Config.Verbose != nil {
		verboseLevel = *a.Config.Verbose
	}

	switch {
	case verboseLevel >= 2:
		a.level.Set(slog.LevelDebug)
	case verboseLevel == 1:
		a.level.Set(slog.LevelInfo)
	}

	a.Converter = a.newConverter()
	a.Engines.Markdown = a.newMarkdown()
}

// Verbosity returns the active log level.
func (a *App) Verbosity() slog.Level {
	return a.level.Level()
}

// WithApp stores the app in the context.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// FromContext retrieves the app from the context.
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey).(*App)
	return app
}
