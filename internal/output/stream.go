package output

import (
	"iter"

	"github.com/basecamp/nbpreview/internal/render"
)

// TracebackLexer highlights error traceback lines.
const TracebackLexer = "IPython Traceback"

// RenderStream yields one element: stderr text on the highlighted stderr
// background, or the text unstyled for any other stream.
func (c Converter) RenderStream(s Stream) iter.Seq[render.Element] {
	var el render.Element = render.Plain(s.Text)
	if s.Name == "stderr" {
		el = render.Text{Value: string(s.Text), Style: c.styles().Stderr}
	}
	return singleUse(func(yield func(render.Element) bool) {
		yield(el)
	})
}

// RenderError yields one highlighted element per traceback line, in
// order. Backgrounds are left transparent.
func (c Converter) RenderError(e Error, theme string) iter.Seq[render.Element] {
	traceback := e.Traceback
	return singleUse(func(yield func(render.Element) bool) {
		for _, line := range traceback {
			el := render.Syntax{
				Code:        line,
				Lexer:       TracebackLexer,
				Theme:       theme,
				Transparent: true,
			}
			if !yield(el) {
				return
			}
		}
	})
}

// singleUse wraps seq so it can be ranged over once. Later ranges yield
// nothing.
func singleUse[T any](seq iter.Seq[T]) iter.Seq[T] {
	used := false
	return func(yield func(T) bool) {
		if used {
			return
		}
		used = true
		seq(yield)
	}
}
