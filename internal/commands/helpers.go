package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/itchyny/gojq"

	"github.com/basecamp/nbpreview/internal/appctx"
	"github.com/basecamp/nbpreview/internal/clierr"
	"github.com/basecamp/nbpreview/internal/output"
	"github.com/basecamp/nbpreview/internal/render"
)

// readDocument reads and decodes a JSON document, returning the raw bytes
// alongside. A path of "-" reads from stdin.
func readDocument(path string, stdin io.Reader) (any, []byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // G304: Path is provided by the user
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, clierr.ErrNotFound("File", path)
		}
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, clierr.ErrUsageHint(fmt.Sprintf("%s is not valid JSON", path), err.Error())
	}
	return doc, data, nil
}

// selectValue runs a jq query against doc and returns its first result.
func selectValue(ctx context.Context, doc any, query string) (any, error) {
	if query == "" || query == "." {
		return doc, nil
	}
	q, err := gojq.Parse(query)
	if err != nil {
		return nil, clierr.ErrUsageHint("Invalid query", err.Error())
	}
	results := q.RunWithContext(ctx, doc)
	v, ok := results.Next()
	if !ok || v == nil {
		return nil, clierr.ErrNotFoundHint("Value", query, "The query selected nothing")
	}
	if err, ok := v.(error); ok {
		return nil, clierr.ErrUsageHint("Query failed", err.Error())
	}
	return v, nil
}

// selectRaw returns the raw bytes of the first value query selects, with
// object keys in document order. ok is false when query is not a path
// expression or the path cannot be followed.
func selectRaw(ctx context.Context, doc any, raw []byte, query string) (json.RawMessage, bool) {
	if query == "" || query == "." {
		return raw, true
	}
	q, err := gojq.Parse("path(" + query + ")")
	if err != nil {
		return nil, false
	}
	v, ok := q.RunWithContext(ctx, doc).Next()
	if !ok {
		return nil, false
	}
	path, ok := v.([]any)
	if !ok {
		return nil, false
	}

	cur := json.RawMessage(raw)
	for _, step := range path {
		switch step := step.(type) {
		case string:
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(cur, &obj); err != nil {
				return nil, false
			}
			if cur, ok = obj[step]; !ok {
				return nil, false
			}
		case int:
			var arr []json.RawMessage
			if err := json.Unmarshal(cur, &arr); err != nil {
				return nil, false
			}
			if step < 0 {
				step += len(arr)
			}
			if step < 0 || step >= len(arr) {
				return nil, false
			}
			cur = arr[step]
		default:
			return nil, false
		}
	}
	return cur, true
}

// keepJSONOrder swaps the decoded application/json value of an output for
// its raw bytes, so it re-serializes with the document's key order.
func keepJSONOrder(obj map[string]any, raw json.RawMessage) {
	var src struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &src); err != nil {
		return
	}
	data, ok := obj["data"].(map[string]any)
	if !ok || src.Data == nil {
		var bare map[string]json.RawMessage
		if err := json.Unmarshal(raw, &bare); err != nil {
			return
		}
		data, src.Data = obj, bare
	}
	if v, ok := src.Data[output.MIMEJSON]; ok {
		data[output.MIMEJSON] = v
	}
}

// decodeValue converts a selected JSON value into a typed struct.
func decodeValue(v any, into any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, into)
}

// paint renders elements one per line and writes them to the app output.
func paint(app *appctx.App, elements iter.Seq[render.Element]) error {
	var lines []string
	for el := range elements {
		if el == nil {
			continue
		}
		s, err := el.Render(app.Engines)
		if err != nil {
			return clierr.ErrRender("output", err)
		}
		lines = append(lines, s)
	}
	if len(lines) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(app.Out, strings.Join(lines, "\n"))
	return err
}

// paintRow renders the columns of a row side by side. The last column
// gets whatever width the others leave.
func paintRow(app *appctx.App, columns []render.Element) error {
	if len(columns) == 0 {
		return nil
	}
	parts := make([]string, 0, len(columns)*2)
	used := 0
	for _, col := range columns[:len(columns)-1] {
		s, err := render.String(col, app.Engines)
		if err != nil {
			return clierr.ErrRender("cell", err)
		}
		parts = append(parts, s, " ")
		used += lipgloss.Width(s) + 1
	}

	engines := app.Engines
	if engines.Width > 0 {
		engines.Width = max(engines.Width-used, 1)
	}
	s, err := render.String(columns[len(columns)-1], engines)
	if err != nil {
		return clierr.ErrRender("cell", err)
	}
	parts = append(parts, s)

	_, err = fmt.Fprintln(app.Out, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	return err
}

// one yields a single element.
func one(el render.Element) iter.Seq[render.Element] {
	return func(yield func(render.Element) bool) {
		yield(el)
	}
}

// intValue reads an optional JSON number as an int.
func intValue(v any) *int {
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i
	case int:
		return &n
	default:
		return nil
	}
}
