package output

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/basecamp/nbpreview/internal/render"
)

// MarkdownImages paints the links shown in place of images in markdown.
// Remote images link to their URL; local images are materialized like an
// image output so the terminal can open them.
type MarkdownImages struct {
	Converter Converter
	Caps      render.Capabilities
	// Dir resolves relative image paths. Empty means the working directory.
	Dir string
}

// ImageLink returns the painted link for one image.
func (m MarkdownImages) ImageLink(destination, title string) (string, error) {
	if u, err := url.Parse(destination); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		t := target("web")
		t.Subject = title
		return render.String(m.Converter.links().RenderURL(destination, t, m.Caps), render.Engines{})
	}

	path := destination
	if unquoted, err := url.PathUnescape(destination); err == nil {
		path = unquoted
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.Dir, path)
	}

	content, err := os.ReadFile(path) //nolint:gosec // G304: Path comes from the notebook being previewed
	if err != nil {
		m.Converter.logger().Debug("markdown image unavailable", "path", path, "error", err)
		content = nil
	}

	t := target("image").WithExtension(strings.TrimPrefix(filepath.Ext(path), "."))
	t.Subject = title
	el, err := m.Converter.links().Render(content, t, m.Caps)
	if err != nil {
		return "", err
	}
	return render.String(el, render.Engines{})
}
