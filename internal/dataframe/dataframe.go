// Package dataframe converts HTML tables, as emitted for pandas DataFrames,
// into terminal grids.
package dataframe

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Cell is one slot of the grid.
type Cell struct {
	Text       string
	Emphasized bool
}

// Row is one line of grid slots.
type Row struct {
	Cells []Cell
	// EndSection marks a rule drawn after the row.
	EndSection bool
}

// Grid is a table flattened into terminal cells.
type Grid struct {
	// Columns is the number of right-justified columns created from the
	// first header row.
	Columns int
	Header  []Row
	Body    []Row
	// Unicode selects box-drawing characters for the rules; ASCII otherwise.
	Unicode bool
}

// Options tunes the conversion.
type Options struct {
	// TrackGridColumns keys row spans by the final grid column instead of
	// the cell's index within its source row. The default reproduces the
	// source-relative behavior, which misaligns when a row-spanning cell
	// is preceded by column-spanning cells.
	TrackGridColumns bool
}

// Parse parses src and converts its first dataframe table.
// It returns nil when src holds no dataframe table.
func Parse(src string, unicode bool, opts Options) (*Grid, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	table := Find(doc)
	if table == nil {
		return nil, nil
	}
	return FromHTML(table, unicode, opts), nil
}

// Find returns the first element carrying the "dataframe" class when that
// element is a table, and nil otherwise.
func Find(doc *html.Node) *html.Node {
	n := findClass(doc, "dataframe")
	if n == nil || n.DataAtom != atom.Table {
		return nil
	}
	return n
}

func findClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, name := range strings.Fields(attr(n, "class")) {
		if name == class {
			return true
		}
	}
	return false
}

// FromHTML converts a parsed <table> element into a grid.
func FromHTML(table *html.Node, unicode bool, opts Options) *Grid {
	g := &Grid{Unicode: unicode}

	headRows := children(child(table, atom.Thead), atom.Tr)
	for i, tr := range headRows {
		var row []Cell
		for _, cell := range cellsOf(tr) {
			colspan := spanAttr(cell, "colspan")
			if i == 0 {
				g.Columns += colspan
			}
			row = append(row, expand(cell, colspan)...)
		}
		g.Header = append(g.Header, Row{Cells: row, EndSection: i == len(headRows)-1})
	}

	b := &bodyBuilder{spans: spanTracker{}}
	for _, tr := range children(child(table, atom.Tbody), atom.Tr) {
		var cells []Cell
		if opts.TrackGridColumns {
			cells = b.gridRow(cellsOf(tr))
		} else {
			cells = b.sourceRow(cellsOf(tr))
		}
		g.Body = append(g.Body, Row{Cells: cells})
	}
	return g
}

type bodyBuilder struct {
	spans spanTracker
}

// sourceRow expands one body row, keying new spans by the cell's index in
// its own row and inserting placeholders at the tracked indexes.
func (b *bodyBuilder) sourceRow(cells []*html.Node) []Cell {
	var row []Cell
	own := spanTracker{}
	for i, cell := range cells {
		row = append(row, expand(cell, spanAttr(cell, "colspan"))...)
		if rowspan := spanAttr(cell, "rowspan"); rowspan > 1 {
			own[i] += rowspan
		}
	}

	for _, col := range b.spans.columns() {
		row = insertAt(row, col, Cell{})
		b.spans.consume(col)
	}

	b.spans.merge(own)
	return row
}

// gridRow expands one body row, keying spans by final grid column. Every
// column covered by a spanning cell receives a placeholder.
func (b *bodyBuilder) gridRow(cells []*html.Node) []Cell {
	var row []Cell
	own := spanTracker{}
	pending := make(map[int]bool, len(b.spans))
	for _, col := range b.spans.columns() {
		pending[col] = true
	}

	col := 0
	fill := func() {
		for pending[col] {
			row = append(row, Cell{})
			b.spans.consume(col)
			delete(pending, col)
			col++
		}
	}

	for _, cell := range cells {
		fill()
		colspan := spanAttr(cell, "colspan")
		if rowspan := spanAttr(cell, "rowspan"); rowspan > 1 {
			for k := range colspan {
				own[col+k] += rowspan
			}
		}
		row = append(row, expand(cell, colspan)...)
		col += colspan
	}

	// Spans reaching past the row's last cell.
	for _, c := range b.spans.columns() {
		if !pending[c] {
			continue
		}
		for col < c {
			row = append(row, Cell{})
			col++
		}
		fill()
	}

	b.spans.merge(own)
	return row
}

// expand turns a cell into colspan slots: colspan-1 placeholders followed
// by the cell's text, emphasized for header cells.
func expand(cell *html.Node, colspan int) []Cell {
	slots := make([]Cell, colspan)
	slots[colspan-1] = Cell{
		Text:       leadingText(cell),
		Emphasized: cell.DataAtom == atom.Th,
	}
	return slots
}

func insertAt(row []Cell, i int, c Cell) []Cell {
	if i >= len(row) {
		return append(row, c)
	}
	row = append(row, Cell{})
	copy(row[i+1:], row[i:])
	row[i] = c
	return row
}

// spanAttr reads a colspan or rowspan attribute, treating missing or
// invalid values as 1.
func spanAttr(n *html.Node, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(attr(n, key)))
	if err != nil || v < 1 {
		return 1
	}
	return v
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// leadingText returns the text preceding the element's first child element.
func leadingText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil && c.Type != html.ElementNode; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func child(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
	}
	return nil
}

func children(n *html.Node, a atom.Atom) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			out = append(out, c)
		}
	}
	return out
}

func cellsOf(tr *html.Node) []*html.Node {
	var out []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Th || c.DataAtom == atom.Td) {
			out = append(out, c)
		}
	}
	return out
}
