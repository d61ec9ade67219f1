package link

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basecamp/nbpreview/internal/render"
)

type recordingWriter struct {
	calls   int
	content []byte
	ext     string
	err     error
}

func (w *recordingWriter) Write(content []byte, extension string) (string, error) {
	w.calls++
	w.content = content
	w.ext = extension
	if w.err != nil {
		return "", w.err
	}
	return "/tmp/out." + extension, nil
}

var chart = Target{
	Subject:   "Vega chart",
	Extension: "html",
	Icon:      Icon{NerdFont: "\uf080", Emoji: "bar_chart"},
}

func allCaps() []render.Capabilities {
	var out []render.Capabilities
	for i := range 1 << 5 {
		out = append(out, render.Capabilities{
			Unicode:            i&1 != 0,
			NerdFont:           i&2 != 0,
			Hyperlinks:         i&4 != 0,
			Files:              i&8 != 0,
			HideHyperlinkHints: i&16 != 0,
		})
	}
	return out
}

func paint(t *testing.T, el render.Element) string {
	t.Helper()
	s, err := render.String(el, render.Engines{})
	require.NoError(t, err)
	return s
}

func TestIconSelection(t *testing.T) {
	tests := []struct {
		name string
		caps render.Capabilities
		want string
	}{
		{"nerd font wins", render.Capabilities{NerdFont: true, Unicode: true}, "\uf080 "},
		{"nerd font without unicode", render.Capabilities{NerdFont: true}, "\uf080 "},
		{"emoji", render.Capabilities{Unicode: true}, "📊 "},
		{"none", render.Capabilities{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chart.Icon.Prefix(tt.caps))
		})
	}
}

func TestIconIndependentOfContent(t *testing.T) {
	for _, caps := range allCaps() {
		if !caps.Files || !caps.Hyperlinks {
			continue
		}
		var icons []string
		for _, content := range [][]byte{[]byte("a"), []byte("<html>much longer</html>"), {}} {
			el, err := Renderer{Files: &recordingWriter{}}.Render(content, chart, caps)
			require.NoError(t, err)
			icons = append(icons, el.(render.Link).Icon)
		}
		assert.Equal(t, icons[0], icons[1])
		assert.Equal(t, icons[0], icons[2])
	}
}

func TestFilesDisabledNeverWrites(t *testing.T) {
	for _, caps := range allCaps() {
		caps.Files = false
		w := &recordingWriter{}
		el, err := Renderer{Files: w}.Render([]byte("{}"), chart, caps)
		require.NoError(t, err)

		assert.Zero(t, w.calls)
		out := paint(t, el)
		assert.NotContains(t, out, "/tmp/")
		assert.NotContains(t, out, "file://")
		assert.Equal(t, chart.Icon.Prefix(caps)+"Vega chart", out)
	}
}

func TestAbsentContentIsLabel(t *testing.T) {
	w := &recordingWriter{}
	caps := render.Capabilities{Files: true, Hyperlinks: true, Unicode: true}
	el, err := Renderer{Files: w}.Render(nil, chart, caps)
	require.NoError(t, err)

	assert.Zero(t, w.calls)
	assert.Equal(t, render.Plain("📊 Vega chart"), el)
}

func TestEmptyContentIsWritten(t *testing.T) {
	w := &recordingWriter{}
	_, err := Renderer{Files: w}.Render([]byte{}, chart, render.Capabilities{Files: true})
	require.NoError(t, err)
	assert.Equal(t, 1, w.calls)
}

func TestHyperlink(t *testing.T) {
	w := &recordingWriter{}
	caps := render.Capabilities{Files: true, Hyperlinks: true, NerdFont: true}
	el, err := Renderer{Files: w}.Render([]byte("<html></html>"), chart, caps)
	require.NoError(t, err)

	link, ok := el.(render.Link)
	require.True(t, ok)
	assert.Equal(t, "file:///tmp/out.html", link.URL)
	assert.Equal(t, "\uf080 ", link.Icon)
	assert.Equal(t, "Click to view Vega chart", link.Message)
	assert.Equal(t, "html", w.ext)

	out := paint(t, el)
	assert.True(t, strings.HasPrefix(out, ansi.SetHyperlink("file:///tmp/out.html")))
	assert.True(t, strings.HasSuffix(out, ansi.ResetHyperlink()))
	assert.Equal(t, "\uf080 Click to view Vega chart", ansi.Strip(out))
}

func TestHiddenHints(t *testing.T) {
	caps := render.Capabilities{Files: true, Hyperlinks: true, HideHyperlinkHints: true, Unicode: true}
	el, err := Renderer{Files: &recordingWriter{}}.Render([]byte("x"), chart, caps)
	require.NoError(t, err)

	assert.Equal(t, "📊 ", el.(render.Link).Text())
}

func TestHiddenHintsWithoutIconFallsBackToSubject(t *testing.T) {
	caps := render.Capabilities{Files: true, Hyperlinks: true, HideHyperlinkHints: true}
	el, err := Renderer{Files: &recordingWriter{}}.Render([]byte("x"), chart, caps)
	require.NoError(t, err)

	assert.Equal(t, "Vega chart", el.(render.Link).Text())
	assert.Equal(t, "Vega chart", ansi.Strip(paint(t, el)))
}

func TestRenderURL(t *testing.T) {
	web, ok := Lookup("web")
	require.True(t, ok)
	web.Subject = "logo"

	caps := render.Capabilities{Hyperlinks: true, Unicode: true}
	el := Renderer{Files: &recordingWriter{err: assert.AnError}}.RenderURL("https://example.com/logo.png", web, caps)
	assert.Equal(t, "https://example.com/logo.png", el.(render.Link).URL)
	assert.Equal(t, "🌐 Click to view logo", el.(render.Link).Text())

	caps.Hyperlinks = false
	el = Renderer{}.RenderURL("https://example.com/logo.png", web, caps)
	assert.Equal(t, render.Plain("🌐 https://example.com/logo.png"), el)
}

func TestPathWithoutHyperlinks(t *testing.T) {
	caps := render.Capabilities{Files: true, Unicode: true}
	el, err := Renderer{Files: &recordingWriter{}}.Render([]byte("x"), chart, caps)
	require.NoError(t, err)

	assert.Equal(t, render.Plain("📊 /tmp/out.html"), el)
}

func TestWriteFailurePropagates(t *testing.T) {
	boom := errors.New("disk full")
	caps := render.Capabilities{Files: true, Hyperlinks: true}
	el, err := Renderer{Files: &recordingWriter{err: boom}}.Render([]byte("x"), chart, caps)

	assert.Nil(t, el)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Vega chart")
}

func TestEveryCallWritesANewFile(t *testing.T) {
	dir := t.TempDir()
	r := Renderer{Files: TempWriter{Dir: dir}}
	caps := render.Capabilities{Files: true}

	for range 3 {
		_, err := r.Render([]byte("x"), chart, caps)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestTempWriter(t *testing.T) {
	dir := t.TempDir()
	w := TempWriter{Dir: dir, Prefix: "test-"}

	path, err := w.Write([]byte("<svg/>"), ".svg")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "test-"))
	assert.Equal(t, ".svg", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTempWriterDefaults(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	path, err := TempWriter{}.Write([]byte("x"), "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), DefaultPrefix))
	assert.Empty(t, filepath.Ext(path))
}

func TestTempWriterMissingDir(t *testing.T) {
	_, err := TempWriter{Dir: filepath.Join(t.TempDir(), "missing")}.Write([]byte("x"), "txt")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	require.NoError(t, LoadError())

	tests := []struct {
		kind      string
		subject   string
		extension string
		emoji     string
	}{
		{"image", "Image", "", "framed_picture"},
		{"html", "HTML", "html", "globe_with_meridians"},
		{"vega", "Vega chart", "html", "bar_chart"},
		{"pdf", "PDF", "pdf", "page_facing_up"},
		{"web", "Web page", "", "globe_with_meridians"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			target, ok := Lookup(tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.subject, target.Subject)
			assert.Equal(t, tt.extension, target.Extension)
			assert.Equal(t, tt.emoji, target.Emoji)
			assert.NotEmpty(t, target.NerdFont)
		})
	}

	_, ok := Lookup("missing")
	assert.False(t, ok)
}

func TestEmojiGlyph(t *testing.T) {
	assert.NotEqual(t, ":framed_picture:", EmojiGlyph("framed_picture"))
	assert.Equal(t, "🌐", EmojiGlyph("globe_with_meridians"))
	assert.Equal(t, "📄", EmojiGlyph("page_facing_up"))
	assert.Equal(t, ":no_such_emoji:", EmojiGlyph("no_such_emoji"))
}
