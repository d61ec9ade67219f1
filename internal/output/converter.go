package output

import (
	"context"
	"io"
	"log/slog"

	"github.com/basecamp/nbpreview/internal/dataframe"
	"github.com/basecamp/nbpreview/internal/fetch"
	"github.com/basecamp/nbpreview/internal/link"
	"github.com/basecamp/nbpreview/internal/render"
	"github.com/basecamp/nbpreview/internal/richtext"
	"github.com/basecamp/nbpreview/internal/tui"
)

// Fetcher retrieves the body of a URL.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// LinkRenderer turns file-backed or remote content into a link element.
type LinkRenderer interface {
	Render(content []byte, target link.Target, caps render.Capabilities) (render.Element, error)
	RenderURL(url string, target link.Target, caps render.Capabilities) render.Element
}

// LatexConverter approximates LaTeX as plain text.
type LatexConverter interface {
	ToText(src string) string
}

// Converter bundles the collaborators the converters need. The zero value
// uses the default implementation of each.
type Converter struct {
	Links     LinkRenderer
	Fetcher   Fetcher
	Templates Templates
	Latex     LatexConverter
	Styles    *tui.Styles
	Logger    *slog.Logger
	// Tables controls how HTML tables are flattened into grids.
	Tables dataframe.Options
}

var defaultTemplates = &EmbeddedTemplates{}

func (c Converter) links() LinkRenderer {
	if c.Links == nil {
		return link.Renderer{Style: c.styles().Link, Logger: c.Logger}
	}
	return c.Links
}

func (c Converter) fetcher() Fetcher {
	if c.Fetcher == nil {
		return fetch.NewClient(nil, c.Logger)
	}
	return c.Fetcher
}

func (c Converter) templates() Templates {
	if c.Templates == nil {
		return defaultTemplates
	}
	return c.Templates
}

func (c Converter) latex() LatexConverter {
	if c.Latex == nil {
		return richtext.LatexConverter{}
	}
	return c.Latex
}

func (c Converter) styles() *tui.Styles {
	if c.Styles == nil {
		return tui.NewStyles()
	}
	return c.Styles
}

func (c Converter) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
