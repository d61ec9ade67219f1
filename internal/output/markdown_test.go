package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basecamp/nbpreview/internal/link"
	"github.com/basecamp/nbpreview/internal/render"
)

func TestMarkdownImagesRemote(t *testing.T) {
	w := &memoryWriter{}
	m := MarkdownImages{
		Converter: Converter{Links: link.Renderer{Files: w}},
		Caps:      render.Capabilities{Files: true, Hyperlinks: true, Unicode: true},
	}

	out, err := m.ImageLink("https://example.com/logo.png", "logo")
	require.NoError(t, err)
	assert.Contains(t, out, ansi.SetHyperlink("https://example.com/logo.png"))
	assert.Equal(t, "🌐 Click to view logo", ansi.Strip(out))
	assert.Empty(t, w.files)
}

func TestMarkdownImagesLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "my plot.png"), []byte("png bytes"), 0o644))

	w := &memoryWriter{}
	m := MarkdownImages{
		Converter: Converter{Links: link.Renderer{Files: w}},
		Caps:      render.Capabilities{Files: true, NerdFont: true},
		Dir:       dir,
	}

	out, err := m.ImageLink("my%20plot.png", "plot")
	require.NoError(t, err)
	assert.Equal(t, "\uf1c5 /tmp/out0.png", out)
	assert.Equal(t, []byte("png bytes"), w.files["/tmp/out0.png"])
}

func TestMarkdownImagesMissingFileShowsTitle(t *testing.T) {
	w := &memoryWriter{}
	m := MarkdownImages{
		Converter: Converter{Links: link.Renderer{Files: w}},
		Caps:      render.Capabilities{Files: true, Hyperlinks: true, Unicode: true},
		Dir:       t.TempDir(),
	}

	out, err := m.ImageLink("missing.png", "missing.png")
	require.NoError(t, err)
	assert.Equal(t, link.EmojiGlyph("framed_picture")+" missing.png", ansi.Strip(out))
	assert.Empty(t, w.files)
}

func TestMarkdownImagesWithoutFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0o644))

	w := &memoryWriter{}
	m := MarkdownImages{
		Converter: Converter{Links: link.Renderer{Files: w}},
		Caps:      render.Capabilities{},
		Dir:       dir,
	}

	out, err := m.ImageLink("a.png", "diagram")
	require.NoError(t, err)
	assert.Equal(t, "diagram", out)
	assert.Empty(t, w.files)
}
