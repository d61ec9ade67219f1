package output

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/basecamp/nbpreview/internal/link"
	"github.com/basecamp/nbpreview/internal/render"
	"github.com/basecamp/nbpreview/internal/richtext"
)

// target returns the registered link target for kind.
func target(kind string) link.Target {
	if t, ok := link.Lookup(kind); ok {
		return t
	}
	return link.Target{Subject: kind}
}

// RenderImageLink renders an image output as a link to a file holding the
// image. SVG text is written as is; other images are base64 decoded.
func (c Converter) RenderImageLink(data Data, mime string, caps render.Capabilities) (render.Element, error) {
	encoded, ok := data.Text(mime)
	if !ok {
		return nil, nil
	}

	var content []byte
	if mime == MIMESVG {
		content = []byte(encoded)
	} else {
		decoded, err := base64.StdEncoding.DecodeString(stripWhitespace(encoded))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", mime, err)
		}
		content = decoded
	}
	t := target("image").WithExtension(richtext.ExtensionForMIME(mime))
	return c.links().Render(content, t, caps)
}

// RenderHTMLLink renders text/html as a link to an HTML file. A missing
// value is written as an empty document.
func (c Converter) RenderHTMLLink(data Data, caps render.Capabilities) (render.Element, error) {
	src, _ := data.Text(MIMEHTML)
	return c.links().Render([]byte(src), target("html"), caps)
}

// RenderVegaLink renders a Vega (v5) or Vega-Lite (v4) chart as a link to
// an HTML page embedding it. A specification given as a URL is fetched;
// fetch failures leave the chart empty instead of failing the render.
func (c Converter) RenderVegaLink(ctx context.Context, data Data, executionCount *int, caps render.Capabilities) (render.Element, error) {
	spec, ok := data[MIMEVega]
	if !ok {
		spec, ok = data[MIMEVegaLite]
	}
	if !ok {
		return nil, nil
	}

	t := target("vega")
	chart, ok := c.vegaSpec(ctx, spec)

	var content []byte
	if caps.Files && ok {
		indicator := ""
		if executionCount != nil {
			indicator = fmt.Sprintf("[%d]: ", *executionCount)
		}
		page, err := c.templates().Execute(VegaTemplate, VegaParams{
			ExecutionCountIndicator: indicator,
			Subject:                 t.Subject,
			VegaJSON:                chart,
		})
		if err != nil {
			return nil, err
		}
		content = []byte(page)
	}

	return c.links().Render(content, t, caps)
}

// vegaSpec returns the chart specification to embed. ok is false when it
// is empty, could not be retrieved, or a fetched body is not JSON.
func (c Converter) vegaSpec(ctx context.Context, spec any) (chart any, ok bool) {
	s, isString := spec.(string)
	if !isString {
		return spec, spec != nil
	}
	if s == "" {
		return nil, false
	}
	if !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "http://") {
		return s, true
	}

	body, err := c.fetcher().Get(ctx, s)
	if err != nil {
		c.logger().Warn("chart specification unavailable", "url", s, "error", err)
		return nil, false
	}
	if err := json.Unmarshal([]byte(body), &chart); err != nil {
		c.logger().Warn("chart specification is not JSON", "url", s, "error", err)
		return nil, false
	}
	return chart, true
}

// RenderPDF renders application/pdf as its icon alone, or nothing when no
// icon is allowed.
func (c Converter) RenderPDF(caps render.Capabilities) render.Element {
	symbol, ok := target("pdf").Symbol(caps)
	if !ok {
		return nil
	}
	return render.Plain(symbol)
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
