package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/basecamp/nbpreview/internal/dataframe"
	"github.com/basecamp/nbpreview/internal/render"
	"github.com/basecamp/nbpreview/internal/richtext"
)

// RenderMarkdown renders text/markdown with the active theme.
func (c Converter) RenderMarkdown(data Data, theme string) render.Element {
	src, ok := data.Text(MIMEMarkdown)
	if !ok {
		return nil
	}
	return render.Markdown{Source: src, Theme: theme}
}

// RenderLatex approximates text/latex as plain text. The approximation
// relies on unicode symbols, so nothing is rendered without unicode.
func (c Converter) RenderLatex(data Data, unicode bool) render.Element {
	if !unicode {
		return nil
	}
	src, ok := data.Text(MIMELatex)
	if !ok {
		return nil
	}
	return render.Plain(c.latex().ToText(src))
}

// RenderJSON re-serializes application/json on one line, with a space
// after every comma and colon and non-ASCII text escaped. Values held as
// json.RawMessage keep their key order.
func (c Converter) RenderJSON(data Data, theme string) (render.Element, error) {
	v, ok := data[MIMEJSON]
	if !ok {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", MIMEJSON, err)
	}

	return render.Syntax{
		Code:        spacedJSON(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))),
		Lexer:       "json",
		Theme:       theme,
		Transparent: true,
	}, nil
}

// spacedJSON spaces out compact JSON separators and escapes non-ASCII
// runes inside strings as \uXXXX.
func spacedJSON(compact []byte) string {
	var b strings.Builder
	inString, escaped := false, false
	for _, r := range string(compact) {
		switch {
		case inString && escaped:
			escaped = false
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case inString && r > unicode.MaxASCII:
			if r > 0xffff {
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&b, "\\u%04x\\u%04x", hi, lo)
			} else {
				fmt.Fprintf(&b, "\\u%04x", r)
			}
			continue
		case !inString && (r == ',' || r == ':'):
			b.WriteRune(r)
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RenderPlainText passes text/plain through unchanged.
func (c Converter) RenderPlainText(data Data) render.Element {
	text, ok := data.Text(MIMEPlain)
	if !ok {
		return nil
	}
	return render.Plain(text)
}

// RenderHTML renders text/html. A pandas dataframe table becomes a grid;
// any other HTML is converted to markdown. Plain mode renders nothing.
func (c Converter) RenderHTML(data Data, caps render.Capabilities) (render.Element, error) {
	src, ok := data.Text(MIMEHTML)
	if !ok || caps.Plain {
		return nil, nil
	}

	grid, err := dataframe.Parse(src, caps.Unicode, c.Tables)
	if err != nil {
		return nil, err
	}
	if grid != nil {
		return grid, nil
	}

	md, err := richtext.HTMLToMarkdown(src)
	if err != nil {
		return nil, err
	}
	return render.Markdown{Source: md, Theme: caps.Theme}, nil
}

// IndicatorText returns the execution indicator for an execution count:
// "" without a count, "[ ]:" for a cell that has not run, "[n]:" otherwise.
func IndicatorText(count *int) string {
	switch {
	case count == nil:
		return ""
	case *count == 0:
		return "[ ]:"
	default:
		return "[" + strconv.Itoa(*count) + "]:"
	}
}

// ExecutionIndicator renders the dimmed execution indicator. topPad moves
// it down one line so it lines up with the content of a framed code cell.
func (c Converter) ExecutionIndicator(count *int, topPad bool) render.Element {
	var el render.Element = render.Text{
		Value: IndicatorText(count),
		Style: c.styles().Indicator,
	}
	if topPad {
		el = render.Padded{Element: el, Top: 1}
	}
	return el
}
