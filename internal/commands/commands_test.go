package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basecamp/nbpreview/internal/appctx"
	"github.com/basecamp/nbpreview/internal/clierr"
	"github.com/basecamp/nbpreview/internal/config"
	"github.com/basecamp/nbpreview/internal/link"
	"github.com/basecamp/nbpreview/internal/render"
)

type fakeMarkdown struct{}

func (fakeMarkdown) RenderMarkdown(source, theme string) (string, error) {
	return "md:" + source, nil
}

type fakeHighlighter struct{}

func (fakeHighlighter) Highlight(code, lexer, theme string, transparent bool) (string, error) {
	return code, nil
}

func boolPtr(b bool) *bool { return &b }

// newTestApp returns a plain app painting with fake engines into a buffer.
func newTestApp(t *testing.T, mutate func(*config.Config)) (*appctx.App, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Plain = boolPtr(true)
	cfg.Unicode = boolPtr(true)
	if mutate != nil {
		mutate(cfg)
	}
	app := appctx.NewApp(cfg, appctx.Terminal{})
	app.Flags.TempDir = t.TempDir()
	app.ApplyFlags()
	app.Engines = render.Engines{Markdown: fakeMarkdown{}, Highlighter: fakeHighlighter{}}
	var out bytes.Buffer
	app.Out = &out
	return app, &out
}

func runCmd(t *testing.T, app *appctx.App, cmdName string, args ...string) error {
	t.Helper()
	var cmd = NewOutputCmd()
	if cmdName == "cell" {
		cmd = NewCellCmd()
	}
	cmd.SetArgs(args)
	cmd.SetContext(appctx.WithApp(context.Background(), app))
	return cmd.Execute()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadDocument(t *testing.T) {
	doc, raw, err := readDocument("-", strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, doc)
	assert.Equal(t, `{"a":1}`, string(raw))

	_, _, err = readDocument("-", strings.NewReader(`{`))
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.AsError(err).Code)

	_, _, err = readDocument(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
	assert.Equal(t, clierr.CodeNotFound, clierr.AsError(err).Code)
}

func TestSelectValue(t *testing.T) {
	doc := map[string]any{"cells": []any{map[string]any{"id": "a"}, map[string]any{"id": "b"}}}

	v, err := selectValue(context.Background(), doc, ".cells[1].id")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	v, err = selectValue(context.Background(), doc, "")
	require.NoError(t, err)
	assert.Equal(t, doc, v)

	_, err = selectValue(context.Background(), doc, ".cells[5]")
	require.Error(t, err)
	assert.Equal(t, clierr.CodeNotFound, clierr.AsError(err).Code)

	_, err = selectValue(context.Background(), doc, ".cells[")
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.AsError(err).Code)
}

func TestSelectRaw(t *testing.T) {
	raw := []byte(`{"cells":[{"id":"a"},{"z":1,"b":{"y":2,"x":3}}]}`)
	doc, _, err := readDocument("-", bytes.NewReader(raw))
	require.NoError(t, err)

	v, ok := selectRaw(context.Background(), doc, raw, ".cells[1].b")
	require.True(t, ok)
	assert.Equal(t, `{"y":2,"x":3}`, string(v))

	v, ok = selectRaw(context.Background(), doc, raw, ".cells[-1].z")
	require.True(t, ok)
	assert.Equal(t, "1", string(v))

	v, ok = selectRaw(context.Background(), doc, raw, "")
	require.True(t, ok)
	assert.Equal(t, string(raw), string(v))

	_, ok = selectRaw(context.Background(), doc, raw, ".cells | length")
	assert.False(t, ok)
}

func TestNotebookLanguage(t *testing.T) {
	assert.Equal(t, "julia", notebookLanguage(map[string]any{
		"metadata": map[string]any{"kernelspec": map[string]any{"language": "julia"}},
	}))
	assert.Equal(t, "r", notebookLanguage(map[string]any{
		"metadata": map[string]any{"language_info": map[string]any{"name": "r"}},
	}))
	assert.Equal(t, DefaultLanguage, notebookLanguage(map[string]any{}))
	assert.Equal(t, DefaultLanguage, notebookLanguage([]any{}))
}

func TestOutputStream(t *testing.T) {
	app, out := newTestApp(t, nil)
	path := writeFile(t, "out.json", `{"output_type":"stream","name":"stderr","text":"oops"}`)

	require.NoError(t, runCmd(t, app, "output", path))
	assert.Equal(t, "oops\n", ansi.Strip(out.String()))
}

func TestOutputError(t *testing.T) {
	app, out := newTestApp(t, nil)
	path := writeFile(t, "out.json", `{"output_type":"error","ename":"E","evalue":"v","traceback":["line 1","line 2"]}`)

	require.NoError(t, runCmd(t, app, "output", path))
	assert.Equal(t, "line 1\nline 2\n", out.String())
}

func TestOutputMarkdownFromNotebook(t *testing.T) {
	app, out := newTestApp(t, nil)
	nb := `{"cells":[{"outputs":[{"output_type":"display_data","data":{"text/markdown":["# Hi"]}}]}]}`
	path := writeFile(t, "nb.ipynb", nb)

	require.NoError(t, runCmd(t, app, "output", path, "--query", ".cells[0].outputs[0]", "--mime", "text/markdown"))
	assert.Equal(t, "md:# Hi\n", out.String())
}

func TestOutputJSONKeepsDocumentOrder(t *testing.T) {
	app, out := newTestApp(t, nil)
	nb := `{"cells":[{"outputs":[{"output_type":"execute_result","execution_count":1,"data":{"application/json":{"b": 1, "a": [1, 2]}}}]}]}`
	path := writeFile(t, "nb.ipynb", nb)

	require.NoError(t, runCmd(t, app, "output", path, "--query", ".cells[0].outputs[0]", "--mime", "application/json"))
	assert.Equal(t, `{"b": 1, "a": [1, 2]}`+"\n", out.String())
}

func TestOutputJSONFromBareData(t *testing.T) {
	app, out := newTestApp(t, nil)
	path := writeFile(t, "data.json", `{"application/json":{"z":"é","a":null}}`)

	require.NoError(t, runCmd(t, app, "output", path, "--mime", "application/json"))
	assert.Equal(t, `{"z": "\u00e9", "a": null}`+"\n", out.String())
}

func TestOutputRequiresMIME(t *testing.T) {
	app, _ := newTestApp(t, nil)
	path := writeFile(t, "out.json", `{"output_type":"execute_result","execution_count":1,"data":{"text/plain":"1","text/html":"<b>1</b>"}}`)

	err := runCmd(t, app, "output", path)
	require.Error(t, err)
	e := clierr.AsError(err)
	assert.Equal(t, clierr.CodeUsage, e.Code)
	assert.Equal(t, "Available: text/html, text/plain", e.Hint)
}

func TestOutputUnsupportedMIME(t *testing.T) {
	app, _ := newTestApp(t, nil)
	path := writeFile(t, "out.json", `{"output_type":"display_data","data":{"text/plain":"x"}}`)

	err := runCmd(t, app, "output", path, "--mime", "application/x-nope")
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.AsError(err).Code)
}

func TestOutputMissingMIMEKeyRendersNothing(t *testing.T) {
	app, out := newTestApp(t, nil)
	path := writeFile(t, "out.json", `{"output_type":"display_data","data":{"text/plain":"x"}}`)

	require.NoError(t, runCmd(t, app, "output", path, "--mime", "text/latex"))
	assert.Empty(t, out.String())
}

func TestOutputPlainText(t *testing.T) {
	app, out := newTestApp(t, nil)
	path := writeFile(t, "out.json", `{"output_type":"execute_result","execution_count":3,"data":{"text/plain":["a\n","b"]}}`)

	require.NoError(t, runCmd(t, app, "output", path, "--mime", "TEXT/PLAIN"))
	assert.Equal(t, "a\nb\n", out.String())
}

func TestOutputImageWritesFile(t *testing.T) {
	app, out := newTestApp(t, nil)
	png := base64.StdEncoding.EncodeToString([]byte("not really a png"))
	path := writeFile(t, "out.json", `{"output_type":"display_data","data":{"image/png":"`+png+`"}}`)

	require.NoError(t, runCmd(t, app, "output", path, "--mime", "image/png"))

	matches, err := filepath.Glob(filepath.Join(app.Flags.TempDir, link.DefaultPrefix+"*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Contains(t, out.String(), matches[0])

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(data))
}

func TestOutputImageWriteFailure(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app.Flags.TempDir = filepath.Join(t.TempDir(), "missing", "dir")
	app.ApplyFlags()
	path := writeFile(t, "out.json", `{"output_type":"display_data","data":{"image/svg+xml":"<svg/>"}}`)

	err := runCmd(t, app, "output", path, "--mime", "image/svg+xml")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitResource, clierr.AsError(err).ExitCode())
}

func TestOutputImageBadBase64(t *testing.T) {
	app, _ := newTestApp(t, nil)
	path := writeFile(t, "out.json", `{"output_type":"display_data","data":{"image/png":"!!"}}`)

	err := runCmd(t, app, "output", path, "--mime", "image/png")
	require.Error(t, err)
	assert.Equal(t, clierr.CodeRender, clierr.AsError(err).Code)
}

func TestOutputPDFWithoutUnicode(t *testing.T) {
	app, out := newTestApp(t, func(cfg *config.Config) { cfg.Unicode = boolPtr(false) })
	path := writeFile(t, "out.json", `{"output_type":"display_data","data":{"application/pdf":"JVBERi0="}}`)

	require.NoError(t, runCmd(t, app, "output", path, "--mime", "application/pdf"))
	assert.Empty(t, out.String())
}

func TestOutputHTMLPlainShowsLinkOnly(t *testing.T) {
	app, out := newTestApp(t, func(cfg *config.Config) { cfg.Files = boolPtr(false) })
	path := writeFile(t, "out.json", `{"output_type":"display_data","data":{"text/html":"<p>hi</p>"}}`)

	require.NoError(t, runCmd(t, app, "output", path, "--mime", "text/html"))
	assert.Contains(t, out.String(), "HTML")
	assert.NotContains(t, out.String(), "md:")
}

func TestOutputHTMLStyledShowsBodyAndLink(t *testing.T) {
	app, out := newTestApp(t, func(cfg *config.Config) {
		cfg.Plain = boolPtr(false)
		cfg.Files = boolPtr(false)
	})
	path := writeFile(t, "out.json", `{"output_type":"display_data","data":{"text/html":"<p>hi</p>"}}`)

	require.NoError(t, runCmd(t, app, "output", path, "--mime", "text/html"))
	lines := strings.Split(strings.TrimSpace(ansi.Strip(out.String())), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "md:hi", lines[0])
}

func TestOutputRejectsNonObject(t *testing.T) {
	app, _ := newTestApp(t, nil)
	path := writeFile(t, "out.json", `[1, 2]`)

	err := runCmd(t, app, "output", path)
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.AsError(err).Code)
}

func TestCellPlainCode(t *testing.T) {
	app, out := newTestApp(t, nil)
	path := writeFile(t, "cell.json", `{"cell_type":"code","execution_count":2,"source":["x = 1\n","x"]}`)

	require.NoError(t, runCmd(t, app, "cell", path))
	assert.Equal(t, "x = 1\nx\n", out.String())
}

func TestCellFramedCodeHasIndicator(t *testing.T) {
	app, out := newTestApp(t, func(cfg *config.Config) {
		cfg.Plain = boolPtr(false)
		cfg.UnicodeBorder = boolPtr(false)
	})
	path := writeFile(t, "cell.json", `{"cell_type":"code","execution_count":2,"source":"x"}`)

	require.NoError(t, runCmd(t, app, "cell", path))
	text := ansi.Strip(out.String())
	assert.Contains(t, text, "[2]:")
	assert.Contains(t, text, "+")
	assert.Contains(t, text, "| x")
}

func TestCellMarkdownFromNotebook(t *testing.T) {
	app, out := newTestApp(t, nil)
	nb := `{"metadata":{"kernelspec":{"language":"python"}},"cells":[{"cell_type":"markdown","source":"*hi*"}]}`
	path := writeFile(t, "nb.ipynb", nb)

	require.NoError(t, runCmd(t, app, "cell", path, "--query", ".cells[0]"))
	assert.Equal(t, "md:*hi*\n", out.String())
}

func TestCellRejectsBadPad(t *testing.T) {
	app, _ := newTestApp(t, nil)
	path := writeFile(t, "cell.json", `{"cell_type":"markdown","source":"x"}`)

	err := runCmd(t, app, "cell", path, "--pad", "1,2")
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.AsError(err).Code)
}

func TestCellRejectsNonCell(t *testing.T) {
	app, _ := newTestApp(t, nil)
	path := writeFile(t, "cell.json", `{"source":"x"}`)

	err := runCmd(t, app, "cell", path)
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.AsError(err).Code)
}
