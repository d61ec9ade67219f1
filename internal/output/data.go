// Package output converts notebook cell outputs into terminal elements.
//
// Each converter reads at most one MIME key from an output's data. An
// absent key is not an error: the converter returns a nil element. Which
// MIME type to render is always decided by the caller.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MIME types read by the converters.
const (
	MIMEPlain    = "text/plain"
	MIMEMarkdown = "text/markdown"
	MIMELatex    = "text/latex"
	MIMEHTML     = "text/html"
	MIMEJSON     = "application/json"
	MIMEPDF      = "application/pdf"
	MIMESVG      = "image/svg+xml"
	MIMEVega     = "application/vnd.vega.v5+json"
	MIMEVegaLite = "application/vnd.vegalite.v4+json"
)

// Data maps a MIME type to its raw value, as in the data field of an
// execute_result or display_data output.
type Data map[string]any

// Text returns the value stored under mime as text. Notebook files may
// store text as a list of lines; those are joined.
func (d Data) Text(mime string) (string, bool) {
	v, ok := d[mime]
	if !ok || v == nil {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	case []string:
		return strings.Join(v, ""), true
	case []any:
		var b strings.Builder
		for _, line := range v {
			fmt.Fprint(&b, line)
		}
		return b.String(), true
	case json.RawMessage:
		var text MultilineString
		if err := json.Unmarshal(v, &text); err != nil {
			return string(v), true
		}
		return string(text), true
	default:
		return fmt.Sprint(v), true
	}
}

// MultilineString is notebook text stored either as one string or as a
// list of lines.
type MultilineString string

// UnmarshalJSON accepts a string or an array of strings.
func (m *MultilineString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = MultilineString(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(b, &lines); err != nil {
		return fmt.Errorf("multiline string: %w", err)
	}
	*m = MultilineString(strings.Join(lines, ""))
	return nil
}

// Stream is a stream output: text written to stdout or stderr.
type Stream struct {
	Name string          `json:"name"`
	Text MultilineString `json:"text"`
}

// Error is an error output with its formatted traceback.
type Error struct {
	EName     string   `json:"ename"`
	EValue    string   `json:"evalue"`
	Traceback []string `json:"traceback"`
}
