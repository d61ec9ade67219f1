package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/basecamp/nbpreview/internal/appctx"
	"github.com/basecamp/nbpreview/internal/clierr"
	"github.com/basecamp/nbpreview/internal/row"
)

// DefaultLanguage is assumed when a notebook does not declare one.
const DefaultLanguage = "python"

// NewCellCmd creates the cell command for rendering one cell's input row.
func NewCellCmd() *cobra.Command {
	var query string
	var language string
	var pad []int

	cmd := &cobra.Command{
		Use:   "cell <file>",
		Short: "Render one notebook cell",
		Long: `Render the input of a single notebook cell with its execution indicator.

The file holds an nbformat cell, or a notebook from which --query selects
one. Use "-" to read from stdin. The language defaults to the notebook's
kernel language when the file is a notebook.`,
		Example: `  nbpreview cell notebook.ipynb --query '.cells[0]'
  nbpreview cell cell.json --language julia --plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			if len(pad) != 0 && len(pad) != 4 {
				return clierr.ErrUsageHint("--pad takes four values", "top,right,bottom,left")
			}

			doc, _, err := readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if language == "" {
				language = notebookLanguage(doc)
			}
			v, err := selectValue(cmd.Context(), doc, query)
			if err != nil {
				return err
			}

			var cell row.Cell
			if err := decodeValue(v, &cell); err != nil || cell.Type == "" {
				hint := "expected an object with cell_type and source"
				if err != nil {
					hint = err.Error()
				}
				return clierr.ErrUsageHint("Selected value is not a notebook cell", hint)
			}

			opts := row.Options{
				Plain:         app.Caps.Plain,
				Language:      language,
				Theme:         app.Caps.Theme,
				UnicodeBorder: app.Config.UnicodeBorder,
				Styles:        app.Styles,
			}
			copy(opts.Pad[:], pad)

			r := row.RenderInputRow(cell, opts)
			app.Logger.Debug("rendering cell", "type", cell.Type, "language", language, "plain", opts.Plain)
			return paintRow(app, r.TableRow())
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "jq expression selecting the cell")
	cmd.Flags().StringVarP(&language, "language", "l", "", fmt.Sprintf("Notebook language (default from the notebook, else %s)", DefaultLanguage))
	cmd.Flags().IntSliceVar(&pad, "pad", nil, "Padding around markdown cells: top,right,bottom,left")

	return cmd
}

// notebookLanguage reads the kernel language from notebook metadata.
func notebookLanguage(doc any) string {
	nb, ok := doc.(map[string]any)
	if !ok {
		return DefaultLanguage
	}
	meta, _ := nb["metadata"].(map[string]any)
	if spec, ok := meta["kernelspec"].(map[string]any); ok {
		if lang, ok := spec["language"].(string); ok && lang != "" {
			return lang
		}
	}
	if info, ok := meta["language_info"].(map[string]any); ok {
		if name, ok := info["name"].(string); ok && name != "" {
			return name
		}
	}
	return DefaultLanguage
}
