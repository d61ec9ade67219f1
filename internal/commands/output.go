// Package commands implements the CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/basecamp/nbpreview/internal/appctx"
	"github.com/basecamp/nbpreview/internal/clierr"
	"github.com/basecamp/nbpreview/internal/output"
	"github.com/basecamp/nbpreview/internal/render"
)

// Output types of nbformat outputs.
const (
	outputStream  = "stream"
	outputError   = "error"
	outputDisplay = "display_data"
	outputResult  = "execute_result"
)

// NewOutputCmd creates the output command for rendering one cell output.
func NewOutputCmd() *cobra.Command {
	var mime string
	var query string

	cmd := &cobra.Command{
		Use:   "output <file>",
		Short: "Render one notebook output",
		Long: `Render a single notebook output object.

The file holds an nbformat output (stream, error, display_data or
execute_result), or a larger document from which --query selects one.
Use "-" to read from stdin.

Stream and error outputs render as they are. For data outputs, --mime
picks the representation to render.

Supported MIME types: ` + strings.Join(supportedMIMEs(), ", "),
		Example: `  nbpreview output result.json --mime text/markdown
  nbpreview output notebook.ipynb --query '.cells[3].outputs[0]' --mime image/png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			doc, raw, err := readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			v, err := selectValue(cmd.Context(), doc, query)
			if err != nil {
				return err
			}
			obj, ok := v.(map[string]any)
			if !ok {
				return clierr.ErrUsageHint("Selected value is not an output object", fmt.Sprintf("got %T", v))
			}
			if selected, ok := selectRaw(cmd.Context(), doc, raw, query); ok {
				keepJSONOrder(obj, selected)
			}

			elements, err := renderOutput(cmd.Context(), app, obj, mime)
			if err != nil {
				return err
			}
			return paint(app, elements)
		},
	}

	cmd.Flags().StringVarP(&mime, "mime", "m", "", "MIME type to render from a data output")
	cmd.Flags().StringVarP(&query, "query", "q", "", "jq expression selecting the output")

	return cmd
}

// mimeRenderers render one MIME type of a data output.
var mimeRenderers = map[string]func(ctx context.Context, app *appctx.App, data output.Data, count *int) (render.Element, error){
	output.MIMEMarkdown: func(_ context.Context, app *appctx.App, data output.Data, _ *int) (render.Element, error) {
		return app.Converter.RenderMarkdown(data, app.Caps.Theme), nil
	},
	output.MIMELatex: func(_ context.Context, app *appctx.App, data output.Data, _ *int) (render.Element, error) {
		return app.Converter.RenderLatex(data, app.Caps.Unicode), nil
	},
	output.MIMEJSON: func(_ context.Context, app *appctx.App, data output.Data, _ *int) (render.Element, error) {
		return app.Converter.RenderJSON(data, app.Caps.Theme)
	},
	output.MIMEPlain: func(_ context.Context, app *appctx.App, data output.Data, _ *int) (render.Element, error) {
		return app.Converter.RenderPlainText(data), nil
	},
	output.MIMEHTML: renderHTML,
	output.MIMEPDF: func(_ context.Context, app *appctx.App, _ output.Data, _ *int) (render.Element, error) {
		return app.Converter.RenderPDF(app.Caps), nil
	},
	output.MIMEVega:     renderVega,
	output.MIMEVegaLite: renderVega,
}

func renderVega(ctx context.Context, app *appctx.App, data output.Data, count *int) (render.Element, error) {
	return app.Converter.RenderVegaLink(ctx, data, count, app.Caps)
}

// renderHTML shows the converted document followed by a link to the page.
func renderHTML(_ context.Context, app *appctx.App, data output.Data, _ *int) (render.Element, error) {
	body, err := app.Converter.RenderHTML(data, app.Caps)
	if err != nil {
		return nil, err
	}
	link, err := app.Converter.RenderHTMLLink(data, app.Caps)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return link, nil
	}
	return joined{body, link}, nil
}

// joined paints elements one per line.
type joined []render.Element

func (j joined) Render(e render.Engines) (string, error) {
	return render.Join(e, j...)
}

func supportedMIMEs() []string {
	mimes := make([]string, 0, len(mimeRenderers)+1)
	for m := range mimeRenderers {
		mimes = append(mimes, m)
	}
	mimes = append(mimes, "image/*")
	sort.Strings(mimes)
	return mimes
}

// renderOutput converts an nbformat output object into elements.
func renderOutput(ctx context.Context, app *appctx.App, obj map[string]any, mime string) (iter.Seq[render.Element], error) {
	kind, _ := obj["output_type"].(string)
	switch kind {
	case outputStream:
		var s output.Stream
		if err := decodeValue(obj, &s); err != nil {
			return nil, clierr.ErrUsageHint("Malformed stream output", err.Error())
		}
		return app.Converter.RenderStream(s), nil
	case outputError:
		var e output.Error
		if err := decodeValue(obj, &e); err != nil {
			return nil, clierr.ErrUsageHint("Malformed error output", err.Error())
		}
		return app.Converter.RenderError(e, app.Caps.Theme), nil
	}

	if mime == "" {
		return nil, clierr.ErrUsageHint("--mime is required for data outputs", "Available: "+strings.Join(availableMIMEs(obj), ", "))
	}

	data := output.Data(obj)
	if raw, ok := obj["data"].(map[string]any); ok || kind == outputDisplay || kind == outputResult {
		data = output.Data(raw)
	}
	count := intValue(obj["execution_count"])

	el, err := renderData(ctx, app, data, mime, count)
	if err != nil {
		return nil, err
	}
	return one(el), nil
}

func renderData(ctx context.Context, app *appctx.App, data output.Data, mime string, count *int) (render.Element, error) {
	mime = strings.ToLower(mime)
	fn, ok := mimeRenderers[mime]
	if !ok && strings.HasPrefix(mime, "image/") {
		fn = func(_ context.Context, app *appctx.App, data output.Data, _ *int) (render.Element, error) {
			return app.Converter.RenderImageLink(data, mime, app.Caps)
		}
		ok = true
	}
	if !ok {
		return nil, clierr.ErrUsageHint("Unsupported MIME type: "+mime, "Supported: "+strings.Join(supportedMIMEs(), ", "))
	}

	el, err := fn(ctx, app, data, count)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, clierr.ErrResource(err)
		}
		return nil, clierr.ErrRender(mime, err)
	}
	if el == nil {
		app.Logger.Debug("nothing to render", "mime", mime)
	}
	return el, nil
}

// availableMIMEs lists the MIME keys of a data output.
func availableMIMEs(obj map[string]any) []string {
	data, ok := obj["data"].(map[string]any)
	if !ok {
		data = obj
	}
	var mimes []string
	for k := range data {
		if strings.Contains(k, "/") {
			mimes = append(mimes, k)
		}
	}
	sort.Strings(mimes)
	return mimes
}
