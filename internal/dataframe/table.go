package dataframe

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/basecamp/nbpreview/internal/render"
)

var (
	cellStyle     = lipgloss.NewStyle().Align(lipgloss.Right).Padding(0, 1)
	emphasisStyle = lipgloss.NewStyle().Bold(true)
)

// Render draws the grid without an outer edge, with a single horizontal
// rule after every row that closes a section.
func (g *Grid) Render(render.Engines) (string, error) {
	rows := g.rows()
	if len(rows) == 0 {
		return "", nil
	}

	border := lipgloss.NormalBorder()
	if !g.Unicode {
		border = render.ASCIIBorder
	}

	lines := strings.Split(g.Table().String(), "\n")
	out := make([]string, 0, len(lines)+1)
	for i, line := range lines {
		out = append(out, line)
		if i < len(rows)-1 && rows[i].EndSection {
			out = append(out, strings.Repeat(border.Top, lipgloss.Width(lines[0])))
		}
	}
	return strings.Join(out, "\n"), nil
}

// Table builds the lipgloss table for the grid. Every header row is an
// ordinary one-line row so stacked headers all stay visible; rules are
// drawn by Render.
func (g *Grid) Table() *table.Table {
	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderRow(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			return cellStyle
		})

	width := g.width()
	for _, row := range g.rows() {
		t.Row(padCells(cellStrings(row.Cells), width)...)
	}
	return t
}

func (g *Grid) rows() []Row {
	rows := make([]Row, 0, len(g.Header)+len(g.Body))
	rows = append(rows, g.Header...)
	return append(rows, g.Body...)
}

// width is the widest row of the grid.
func (g *Grid) width() int {
	w := g.Columns
	for _, rows := range [][]Row{g.Header, g.Body} {
		for _, r := range rows {
			w = max(w, len(r.Cells))
		}
	}
	return w
}

func padCells(cells []string, width int) []string {
	for len(cells) < width {
		cells = append(cells, "")
	}
	return cells
}

func cellStrings(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = cellString(c)
	}
	return out
}

func cellString(c Cell) string {
	text := strings.ReplaceAll(c.Text, "\n", " ")
	if c.Emphasized && text != "" {
		return emphasisStyle.Render(text)
	}
	return text
}
