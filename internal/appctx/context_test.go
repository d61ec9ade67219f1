package appctx

import (
	"context"
	"log/slog"
	"testing"

	"github.com/basecamp/nbpreview/internal/config"
	"github.com/basecamp/nbpreview/internal/link"
	"github.com/basecamp/nbpreview/internal/output"
	"github.com/basecamp/nbpreview/internal/richtext"
)

func TestNewApp(t *testing.T) {
	cfg := config.Default()
	app := NewApp(cfg, Terminal{IsTTY: true, Width: 120})

	if app == nil {
		t.Fatal("NewApp returned nil")
	}
	if app.Config != cfg {
		t.Error("Config not set correctly")
	}
	if app.Styles == nil {
		t.Error("Styles not initialized")
	}
	if app.Engines.Markdown == nil || app.Engines.Highlighter == nil {
		t.Error("render engines not initialized")
	}
	if app.Engines.Width != 120 {
		t.Errorf("Engines.Width = %d, want 120", app.Engines.Width)
	}
	if app.Converter.Links == nil || app.Converter.Fetcher == nil {
		t.Error("converter collaborators not initialized")
	}
	if app.Caps.Plain {
		t.Error("terminal output should not be plain by default")
	}
	if !app.Caps.Hyperlinks {
		t.Error("terminal output should allow hyperlinks by default")
	}
}

func TestNewAppMarkdownEngine(t *testing.T) {
	app := NewApp(config.Default(), Terminal{IsTTY: true, Width: 100})
	app.Flags.TempDir = t.TempDir()
	app.ApplyFlags()

	md, ok := app.Engines.Markdown.(richtext.GlamourRenderer)
	if !ok {
		t.Fatalf("Engines.Markdown = %T, want richtext.GlamourRenderer", app.Engines.Markdown)
	}
	if md.Width != 100 {
		t.Errorf("markdown width = %d, want 100", md.Width)
	}
	if md.HeadingColor != app.Styles.Theme().Heading.Dark {
		t.Errorf("HeadingColor = %q, want the theme heading color", md.HeadingColor)
	}
	images, ok := md.Images.(output.MarkdownImages)
	if !ok {
		t.Fatalf("Images = %T, want output.MarkdownImages", md.Images)
	}
	if images.Converter.Links.(link.Renderer).Files.(link.TempWriter).Dir != app.Flags.TempDir {
		t.Error("markdown images should write through the rebuilt converter")
	}
}

func TestNewAppPiped(t *testing.T) {
	app := NewApp(config.Default(), Terminal{})

	if !app.Caps.Plain {
		t.Error("piped output should be plain by default")
	}
	if app.Caps.Hyperlinks {
		t.Error("piped output should not use hyperlinks by default")
	}
	if app.Engines.Width != richtext.DefaultWidth {
		t.Errorf("Engines.Width = %d, want %d", app.Engines.Width, richtext.DefaultWidth)
	}
}

func TestNewAppConfiguredWidth(t *testing.T) {
	cfg := config.Default()
	cfg.Width = 50
	app := NewApp(cfg, Terminal{IsTTY: true, Width: 120})

	if app.Engines.Width != 50 {
		t.Errorf("Engines.Width = %d, want 50", app.Engines.Width)
	}
}

func TestApplyFlagsTempDir(t *testing.T) {
	app := NewApp(config.Default(), Terminal{})
	dir := t.TempDir()
	app.Flags.TempDir = dir
	app.ApplyFlags()

	r, ok := app.Converter.Links.(link.Renderer)
	if !ok {
		t.Fatalf("Links = %T, want link.Renderer", app.Converter.Links)
	}
	w, ok := r.Files.(link.TempWriter)
	if !ok || w.Dir != dir {
		t.Errorf("Files = %#v, want TempWriter in %s", r.Files, dir)
	}
}

func TestApplyFlagsVerbose(t *testing.T) {
	t.Setenv("NBPREVIEW_DEBUG", "")

	tests := []struct {
		verbose int
		want    slog.Level
	}{
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
	}
	for _, tt := range tests {
		app := NewApp(config.Default(), Terminal{})
		app.Flags.Verbose = tt.verbose
		app.ApplyFlags()
		if got := app.Verbosity(); got != tt.want {
			t.Errorf("verbose %d: level = %v, want %v", tt.verbose, got, tt.want)
		}
	}
}

func TestApplyFlagsDebugEnv(t *testing.T) {
	t.Setenv("NBPREVIEW_DEBUG", "true")

	app := NewApp(config.Default(), Terminal{})
	app.ApplyFlags()
	if got := app.Verbosity(); got != slog.LevelDebug {
		t.Errorf("level = %v, want debug", got)
	}
}

func TestApplyFlagsConfigVerbose(t *testing.T) {
	t.Setenv("NBPREVIEW_DEBUG", "")

	cfg := config.Default()
	one := 1
	cfg.Verbose = &one
	app := NewApp(cfg, Terminal{})
	app.ApplyFlags()
	if got := app.Verbosity(); got != slog.LevelInfo {
		t.Errorf("level = %v, want info", got)
	}
}

func TestWithAppAndFromContext(t *testing.T) {
	app := NewApp(config.Default(), Terminal{})

	ctx := WithApp(context.Background(), app)
	if FromContext(ctx) != app {
		t.Error("FromContext did not retrieve the same app")
	}
}

func TestFromContextEmpty(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Error("expected nil from empty context")
	}
}
