package richtext

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ImageLinker paints the link shown in place of a markdown image. title is
// the image's alt text, or its destination when that is empty.
type ImageLinker interface {
	ImageLink(destination, title string) (string, error)
}

// inlineImage matches the inline image syntax: ![alt](destination "title").
var inlineImage = regexp.MustCompile(`!\[((?:[^\[\]\\]|\\.)*)\]\(\s*(<[^>\n]*>|[^\s)]+)(?:\s+(?:"[^"]*"|'[^']*'))?\s*\)`)

var escapedPunct = regexp.MustCompile(`\\([[:punct:]])`)

type markdownImage struct {
	destination string
	alt         string
}

// imagePlaceholder is a single word glamour passes through untouched.
func imagePlaceholder(i int) string {
	return fmt.Sprintf("nbpreviewimage%dx", i)
}

// replaceImages swaps every inline image of md for a placeholder and
// returns the painted link for each placeholder, in order. Images inside
// code are left alone.
func replaceImages(md string, linker ImageLinker) (string, []string, error) {
	src := []byte(md)
	images, code := scanMarkdown(src)
	if len(images) == 0 {
		return md, nil, nil
	}

	var (
		b     strings.Builder
		links []string
		last  int
		next  int
	)
	for _, m := range inlineImage.FindAllStringSubmatchIndex(md, -1) {
		if inRanges(m[0], code) {
			continue
		}
		dest := escapedPunct.ReplaceAllString(strings.Trim(md[m[4]:m[5]], "<>"), "$1")
		i := next
		for i < len(images) && images[i].destination != dest {
			i++
		}
		if i == len(images) {
			continue
		}
		next = i + 1

		title := images[i].alt
		if title == "" {
			title = images[i].destination
		}
		link, err := linker.ImageLink(images[i].destination, title)
		if err != nil {
			return "", nil, err
		}

		b.WriteString(md[last:m[0]])
		b.WriteString(imagePlaceholder(len(links)))
		links = append(links, link)
		last = m[1]
	}
	b.WriteString(md[last:])
	return b.String(), links, nil
}

// restoreImages puts the painted links back in place of their placeholders.
func restoreImages(out string, links []string) string {
	for i := len(links) - 1; i >= 0; i-- {
		out = strings.ReplaceAll(out, imagePlaceholder(i), links[i])
	}
	return out
}

// scanMarkdown parses src and returns its images in document order and
// the byte ranges holding code.
func scanMarkdown(src []byte) ([]markdownImage, [][2]int) {
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var images []markdownImage
	var code [][2]int
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Image:
			images = append(images, markdownImage{
				destination: string(n.Destination),
				alt:         plainText(n, src),
			})
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					code = append(code, [2]int{t.Segment.Start, t.Segment.Stop})
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
			lines := n.Lines()
			for i := range lines.Len() {
				seg := lines.At(i)
				code = append(code, [2]int{seg.Start, seg.Stop})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return images, code
}

// plainText concatenates the text under n.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
		case *ast.String:
			b.Write(c.Value)
		default:
			b.WriteString(plainText(c, src))
		}
	}
	return b.String()
}

func inRanges(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}
