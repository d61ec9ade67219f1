// Package row assembles a notebook cell into the row shown for it: an
// execution indicator next to the rendered cell body.
package row

import (
	"github.com/basecamp/nbpreview/internal/output"
	"github.com/basecamp/nbpreview/internal/render"
	"github.com/basecamp/nbpreview/internal/tui"
)

// Cell types.
const (
	TypeMarkdown = "markdown"
	TypeCode     = "code"
	TypeRaw      = "raw"
)

// Cell is a notebook cell as stored in an .ipynb file.
type Cell struct {
	Type           string                 `json:"cell_type"`
	Source         output.MultilineString `json:"source"`
	ExecutionCount *int                   `json:"execution_count"`
}

// Options configure how input cells are rendered.
type Options struct {
	// Plain drops decorations: no borders and no execution indicator.
	Plain bool
	// Pad is the top, right, bottom and left padding of markdown cells.
	Pad [4]int
	// Language is the notebook's kernel language.
	Language string
	Theme    string
	// UnicodeBorder forces unicode (true) or ASCII (false) borders.
	// Nil detects from the locale.
	UnicodeBorder *bool
	Styles        *tui.Styles
}

// Row is a rendered cell with its execution indicator.
type Row struct {
	Cell render.Element
	// Execution is nil for cells without an indicator.
	Execution render.Element
	Plain     bool
}

// TableRow returns the row's columns. Plain rows have the cell alone;
// other rows have the indicator, or empty text, followed by the cell.
func (r Row) TableRow() []render.Element {
	if r.Plain {
		return []render.Element{r.Cell}
	}
	execution := r.Execution
	if execution == nil {
		execution = render.Plain("")
	}
	return []render.Element{execution, r.Cell}
}

// RenderInputRow renders a cell according to its type. Markdown cells are
// rendered as markdown, code cells are highlighted and get an execution
// indicator, and any other type is shown as its raw source.
func RenderInputRow(cell Cell, opts Options) Row {
	source := string(cell.Source)
	safeBox := SafeBox(opts.UnicodeBorder)
	styles := opts.Styles
	if styles == nil {
		styles = tui.NewStyles()
	}

	var rendered render.Element
	var execution render.Element
	switch cell.Type {
	case TypeMarkdown:
		rendered = MarkdownCell{Source: source, Theme: opts.Theme, Pad: opts.Pad}
	case TypeCode:
		conv := output.Converter{Styles: styles}
		execution = conv.ExecutionIndicator(cell.ExecutionCount, !opts.Plain)
		rendered = CodeCell{
			Source:  source,
			Plain:   opts.Plain,
			SafeBox: safeBox,
			Theme:   opts.Theme,
			Lexer:   DefaultLexer(opts.Language),
			Border:  styles.CellBorder,
		}
	default:
		rendered = SourceCell{
			Source:  source,
			Plain:   opts.Plain,
			SafeBox: safeBox,
			Border:  styles.CellBorder,
		}
	}

	return Row{Cell: rendered, Execution: execution, Plain: opts.Plain}
}

// DefaultLexer returns the lexer for code cells: the interactive variant
// for python notebooks, the language name otherwise.
func DefaultLexer(language string) string {
	if language == "python" {
		return "ipython"
	}
	return language
}

// SafeBox maps the unicode border flag to the safe box flag: nil stays
// nil, otherwise its inverse.
func SafeBox(unicodeBorder *bool) *bool {
	if unicodeBorder == nil {
		return nil
	}
	safe := !*unicodeBorder
	return &safe
}
