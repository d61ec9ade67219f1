// Package richtext provides the text engines used to paint notebook
// outputs: HTML to Markdown conversion, glamour Markdown rendering,
// chroma syntax highlighting and a LaTeX to text approximation.
package richtext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	blankLines = regexp.MustCompile(`\n{3,}`)
	spaceRun   = regexp.MustCompile(`[ \t\r\n\f]+`)
)

// HTMLToMarkdown converts HTML content to Markdown so it can be rendered
// in the terminal. Scripts and styles are dropped.
func HTMLToMarkdown(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var w mdWriter
	w.children(doc)

	out := blankLines.ReplaceAllString(w.b.String(), "\n\n")
	return strings.TrimSpace(out), nil
}

type mdWriter struct {
	b     strings.Builder
	pre   int
	lists []listState
}

type listState struct {
	ordered bool
	n       int
}

func (w *mdWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c)
	}
}

func (w *mdWriter) block(n *html.Node, prefix string) {
	w.b.WriteString("\n\n" + prefix)
	w.children(n)
	w.b.WriteString("\n\n")
}

func (w *mdWriter) wrap(n *html.Node, marker string) {
	w.b.WriteString(marker)
	w.children(n)
	w.b.WriteString(marker)
}

func (w *mdWriter) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if w.pre > 0 {
			w.b.WriteString(n.Data)
			return
		}
		w.b.WriteString(spaceRun.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
	default:
		w.children(n)
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head:
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level, _ := strconv.Atoi(n.Data[1:])
		w.block(n, strings.Repeat("#", level)+" ")
	case atom.P, atom.Div:
		w.block(n, "")
	case atom.Br:
		w.b.WriteString("  \n")
	case atom.Hr:
		w.b.WriteString("\n\n---\n\n")
	case atom.Strong, atom.B:
		w.wrap(n, "**")
	case atom.Em, atom.I:
		w.wrap(n, "*")
	case atom.Del, atom.S, atom.Strike:
		w.wrap(n, "~~")
	case atom.Code:
		if w.pre > 0 {
			w.children(n)
			return
		}
		w.wrap(n, "`")
	case atom.Pre:
		w.pre++
		w.b.WriteString("\n\n```" + codeLanguage(n) + "\n")
		w.children(n)
		w.b.WriteString("\n```\n\n")
		w.pre--
	case atom.A:
		href := attr(n, "href")
		if href == "" {
			w.children(n)
			return
		}
		w.b.WriteString("[")
		w.children(n)
		w.b.WriteString("](" + href + ")")
	case atom.Img:
		w.b.WriteString("![" + attr(n, "alt") + "](" + attr(n, "src") + ")")
	case atom.Blockquote:
		var inner mdWriter
		inner.children(n)
		lines := strings.Split(strings.TrimSpace(blankLines.ReplaceAllString(inner.b.String(), "\n\n")), "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight("> "+strings.TrimSpace(line), " ")
		}
		w.b.WriteString("\n\n" + strings.Join(lines, "\n") + "\n\n")
	case atom.Ul, atom.Ol:
		w.lists = append(w.lists, listState{ordered: n.DataAtom == atom.Ol})
		w.b.WriteString("\n\n")
		w.children(n)
		w.b.WriteString("\n\n")
		w.lists = w.lists[:len(w.lists)-1]
	case atom.Li:
		w.listItem(n)
	case atom.Table:
		w.table(n)
	default:
		w.children(n)
	}
}

func (w *mdWriter) listItem(n *html.Node) {
	marker := "- "
	depth := len(w.lists)
	if depth > 0 {
		l := &w.lists[depth-1]
		l.n++
		if l.ordered {
			marker = strconv.Itoa(l.n) + ". "
		}
	}
	var inner mdWriter
	inner.lists = w.lists
	inner.children(n)
	text := strings.TrimSpace(blankLines.ReplaceAllString(inner.b.String(), "\n\n"))
	text = strings.ReplaceAll(text, "\n\n", "\n")
	indent := strings.Repeat("  ", max(depth-1, 0))
	w.b.WriteString(indent + marker + strings.ReplaceAll(text, "\n", "\n"+indent+"  ") + "\n")
}

// table writes a pipe table. The first row is treated as the header.
func (w *mdWriter) table(n *html.Node) {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom != atom.Tr {
				walk(c)
				continue
			}
			var row []string
			for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type != html.ElementNode || (cell.DataAtom != atom.Td && cell.DataAtom != atom.Th) {
					continue
				}
				var inner mdWriter
				inner.children(cell)
				text := spaceRun.ReplaceAllString(inner.b.String(), " ")
				row = append(row, strings.ReplaceAll(strings.TrimSpace(text), "|", `\|`))
			}
			rows = append(rows, row)
		}
	}
	walk(n)
	if len(rows) == 0 {
		return
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	w.b.WriteString("\n\n")
	for i, r := range rows {
		for len(r) < width {
			r = append(r, "")
		}
		w.b.WriteString("| " + strings.Join(r, " | ") + " |\n")
		if i == 0 {
			w.b.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
		}
	}
	w.b.WriteString("\n")
}

func codeLanguage(pre *html.Node) string {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			for _, class := range strings.Fields(attr(c, "class")) {
				if lang, ok := strings.CutPrefix(class, "language-"); ok {
					return lang
				}
			}
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
