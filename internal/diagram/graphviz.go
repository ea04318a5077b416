package diagram

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/rendis/cwlviz/pkg/cwl"
)

// layouts are the graphviz layout engines accepted by Render. The default
// mirrors cwlviewer: hierarchical "dot".
var layouts = map[string]graphviz.Layout{
	"dot":       graphviz.DOT,
	"neato":     graphviz.NEATO,
	"fdp":       graphviz.FDP,
	"sfdp":      graphviz.SFDP,
	"twopi":     graphviz.TWOPI,
	"circo":     graphviz.CIRCO,
	"osage":     graphviz.OSAGE,
	"patchwork": graphviz.PATCHWORK,
}

// DefaultLayout is used when the caller does not override the engine.
const DefaultLayout = "dot"

// formatForPath infers the output format from the file extension,
// defaulting to PNG.
func formatForPath(path string) graphviz.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return graphviz.SVG
	case ".jpg", ".jpeg":
		return graphviz.JPG
	case ".dot", ".gv":
		return graphviz.XDOT
	default:
		return graphviz.PNG
	}
}

// Render lays out the graph with the named engine and returns the encoded
// image bytes in the given format.
func Render(ctx context.Context, g *Graph, layout string, format graphviz.Format) ([]byte, error) {
	if layout == "" {
		layout = DefaultLayout
	}
	engine, ok := layouts[layout]
	if !ok {
		return nil, cwl.NewErrorf(cwl.ErrCodeRender, "unknown layout engine %q", layout)
	}

	graph, err := graphviz.ParseBytes([]byte(g.DOT()))
	if err != nil {
		return nil, cwl.NewError(cwl.ErrCodeRender, "parse diagram").WithCause(err)
	}
	defer graph.Close()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, cwl.NewError(cwl.ErrCodeRender, "create graphviz").WithCause(err)
	}
	defer gv.Close()
	gv.SetLayout(engine)

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, format, &buf); err != nil {
		return nil, cwl.NewError(cwl.ErrCodeRender, "render diagram").WithCause(err)
	}
	return buf.Bytes(), nil
}

// RenderFile renders the graph and writes the image to path. The format
// follows the path extension (default PNG).
func RenderFile(ctx context.Context, g *Graph, path, layout string) error {
	data, err := Render(ctx, g, layout, formatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cwl.NewErrorf(cwl.ErrCodeRender, "write %s", path).WithCause(err)
	}
	return nil
}
