// Package link renders outputs that are shown as a link to a file rather
// than inline. The result depends on what the terminal supports: an icon
// style, clickable hyperlinks and whether files may be written at all.
package link

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/basecamp/nbpreview/internal/render"
)

// Target describes what a link points at.
type Target struct {
	// Subject names the content, as in "Click to view <Subject>".
	Subject string `yaml:"subject"`
	// Extension is the file extension used when the content is written.
	Extension string `yaml:"extension"`
	Icon      `yaml:",inline"`
}

// WithExtension returns a copy of t using ext.
func (t Target) WithExtension(ext string) Target {
	t.Extension = ext
	return t
}

// FileWriter materializes content to a uniquely named file and returns its
// path.
type FileWriter interface {
	Write(content []byte, extension string) (string, error)
}

// Renderer turns link content into an element.
type Renderer struct {
	Files  FileWriter
	Style  lipgloss.Style
	Logger *slog.Logger
}

// Render builds the element for content. A nil content slice means the
// content is absent; an empty non-nil slice is written as an empty file.
//
// Without file access, or without content, the result is the icon and the
// subject. Otherwise the content is written to a new file on every call
// and the result is either a hyperlink to it or its path as text. A write
// failure is returned as an error and no element is produced.
func (r Renderer) Render(content []byte, target Target, caps render.Capabilities) (render.Element, error) {
	icon := target.Icon.Prefix(caps)
	if !caps.Files || content == nil {
		return render.Plain(icon + target.Subject), nil
	}

	path, err := r.files().Write(content, target.Extension)
	if err != nil {
		return nil, fmt.Errorf("writing %s: %w", target.Subject, err)
	}
	r.logger().Debug("link file written", "subject", target.Subject, "path", path)

	return r.pointTo("file://"+path, path, icon, target, caps), nil
}

// RenderURL builds the element for content that already lives at url:
// nothing is written, and the result is a hyperlink to url or url as text.
func (r Renderer) RenderURL(url string, target Target, caps render.Capabilities) render.Element {
	return r.pointTo(url, url, target.Icon.Prefix(caps), target, caps)
}

// pointTo links to url, or shows location when hyperlinks are off.
func (r Renderer) pointTo(url, location, icon string, target Target, caps render.Capabilities) render.Element {
	if !caps.Hyperlinks {
		return render.Plain(icon + location)
	}

	message := ""
	if !caps.HideHyperlinkHints {
		message = "Click to view " + target.Subject
	}
	if message == "" && icon == "" {
		message = target.Subject
	}
	return render.Link{
		URL:     url,
		Icon:    icon,
		Message: message,
		Style:   r.Style,
	}
}

func (r Renderer) files() FileWriter {
	if r.Files == nil {
		return TempWriter{}
	}
	return r.Files
}

func (r Renderer) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}
