package output

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// VegaTemplate wraps a Vega or Vega-Lite specification in a standalone page.
const VegaTemplate = "vega.html.tmpl"

// Templates renders a named template with parameters.
type Templates interface {
	Execute(name string, params any) (string, error)
}

// EmbeddedTemplates renders the HTML templates built into the binary.
type EmbeddedTemplates struct {
	once    sync.Once
	tmpl    *template.Template
	loadErr error
}

func (t *EmbeddedTemplates) load() {
	t.once.Do(func() {
		t.tmpl, t.loadErr = template.ParseFS(templatesFS, "templates/*.tmpl")
	})
}

// Execute renders the named template.
func (t *EmbeddedTemplates) Execute(name string, params any) (string, error) {
	t.load()
	if t.loadErr != nil {
		return "", fmt.Errorf("parsing templates: %w", t.loadErr)
	}
	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, name, params); err != nil {
		return "", fmt.Errorf("executing %s: %w", name, err)
	}
	return buf.String(), nil
}

// VegaParams are the parameters of VegaTemplate.
type VegaParams struct {
	// ExecutionCountIndicator is "[n]: ", or empty without an execution count.
	ExecutionCountIndicator string
	Subject                 string
	// VegaJSON is the decoded specification. The template encodes it as a
	// JavaScript value.
	VegaJSON any
}
