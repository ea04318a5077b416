// Package viewer implements the graph-assembly core: it loads a workflow's
// fact graph, resolves the root process, extracts the inner, input and
// output edges, and assembles the diagram graph.
package viewer

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/rendis/cwlviz/internal/convert"
	"github.com/rendis/cwlviz/internal/diagram"
	"github.com/rendis/cwlviz/internal/rdf"
	"github.com/rendis/cwlviz/internal/sparql"
	"github.com/rendis/cwlviz/pkg/cwl"
)

// Cluster names in the emitted DOT, matching the cwlviewer conventions.
const (
	inputsCluster  = "cluster_inputs"
	outputsCluster = "cluster_outputs"
)

// Options configures a viewer session.
type Options struct {
	// Style overrides the diagram styling; zero value means DefaultStyle.
	Style diagram.Style
	// Logger receives pipeline progress at debug level; nil falls back to
	// slog.Default.
	Logger *slog.Logger
}

func (o Options) style() diagram.Style {
	if o.Style == (diagram.Style{}) {
		return diagram.DefaultStyle()
	}
	return o.Style
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Viewer is one viewer session: a fact graph, the resolved root workflow
// and the assembled diagram graph. Sessions are single-threaded and
// independent of each other.
type Viewer struct {
	facts  *rdf.Graph
	root   rdf.Term
	dot    *diagram.Graph
	logger *slog.Logger
}

// New converts the workflow document through conv, loads the resulting
// fact graph and assembles the diagram. Construction is a strictly ordered
// pipeline: convert → load → resolve root → inner → input → output. Any
// stage failure aborts with no partial diagram.
func New(ctx context.Context, documentPath string, conv convert.Converter, opts Options) (*Viewer, error) {
	data, err := conv.Convert(ctx, documentPath)
	if err != nil {
		return nil, err
	}

	facts, err := rdf.DecodeTurtle(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return NewFromGraph(facts, opts)
}

// NewFromGraph assembles a diagram from an already loaded fact graph.
func NewFromGraph(facts *rdf.Graph, opts Options) (*Viewer, error) {
	v := &Viewer{
		facts:  facts,
		dot:    diagram.NewGraph(opts.style()),
		logger: opts.logger(),
	}

	if err := v.resolveRoot(); err != nil {
		return nil, err
	}
	if err := v.setInnerEdges(); err != nil {
		return nil, err
	}
	if err := v.setInputEdges(); err != nil {
		return nil, err
	}
	if err := v.setOutputEdges(); err != nil {
		return nil, err
	}

	v.logger.Debug("diagram assembled",
		slog.String("root", v.root.Value),
		slog.Int("nodes", len(v.dot.Nodes())),
		slog.Int("edges", len(v.dot.Edges())))
	return v, nil
}

// Root returns the URI of the top-level workflow process.
func (v *Viewer) Root() string { return v.root.Value }

// Graph returns the assembled diagram graph.
func (v *Viewer) Graph() *diagram.Graph { return v.dot }

// DOT serializes the diagram to DOT text.
func (v *Viewer) DOT() string { return v.dot.DOT() }

// Render lays out the diagram with the named engine and writes the image
// to outputPath. An empty layout selects the default engine.
func (v *Viewer) Render(ctx context.Context, outputPath, layout string) error {
	return diagram.RenderFile(ctx, v.dot, outputPath, layout)
}

// resolveRoot runs the root-identification query. Workflow documents can
// describe several processes; the root is the one no other process runs as
// a step. Zero rows is fatal: there is no diagram without a root.
func (v *Viewer) resolveRoot() error {
	rows, err := getRootQuery.Eval(v.facts, nil)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return cwl.NewError(cwl.ErrCodeRootNotFound, "document has no identifiable top-level workflow")
	}
	v.root = rows[0]["workflow"]
	return nil
}

func (v *Viewer) rootBinding() map[string]rdf.Term {
	return map[string]rdf.Term{"root_graph": v.root}
}

// setInnerEdges adds the step-to-step data dependency edges.
func (v *Viewer) setInnerEdges() error {
	rows, err := getInnerEdgesQuery.Eval(v.facts, v.rootBinding())
	if err != nil {
		return err
	}
	for _, row := range rows {
		src := row["source_step"].Value
		tgt := row["target_step"].Value
		v.dot.AddStyledNode(src, stepLabel(row, "source_label", src), diagram.StyleStep)
		v.dot.AddStyledNode(tgt, stepLabel(row, "target_label", tgt), diagram.StyleStep)
		v.dot.AddEdge(src, tgt)
	}
	return nil
}

// setInputEdges adds workflow inputs and their edges into consuming steps.
// The cluster exists even for a workflow without inputs.
func (v *Viewer) setInputEdges() error {
	cluster := v.dot.EnsureCluster(inputsCluster, diagram.ClusterSpec{
		Title:    v.dot.Style().InputsTitle,
		SameRank: true,
		Dashed:   true,
	})

	rows, err := getInputEdgesQuery.Eval(v.facts, v.rootBinding())
	if err != nil {
		return err
	}
	for _, row := range rows {
		input := row["input"].Value
		v.dot.AddStyledNode(input, fragment(input), diagram.StyleInput)
		cluster.Add(input)
		v.dot.AddEdge(input, row["step"].Value)
	}
	return nil
}

// setOutputEdges adds workflow outputs and their edges from producing
// steps. The outputs cluster titles at the bottom.
func (v *Viewer) setOutputEdges() error {
	cluster := v.dot.EnsureCluster(outputsCluster, diagram.ClusterSpec{
		Title:    v.dot.Style().OutputsTitle,
		SameRank: true,
		Dashed:   true,
		TitleLoc: "b",
	})

	rows, err := getOutputEdgesQuery.Eval(v.facts, v.rootBinding())
	if err != nil {
		return err
	}
	for _, row := range rows {
		output := row["output"].Value
		v.dot.AddStyledNode(output, fragment(output), diagram.StyleOutput)
		cluster.Add(output)
		v.dot.AddEdge(row["step"].Value, output)
	}
	return nil
}

// stepLabel resolves a step's display label: the declared label verbatim
// when the row bound one (even an empty literal), otherwise the URI
// fragment.
func stepLabel(row sparql.Row, labelVar, uri string) string {
	if label, ok := row[labelVar]; ok {
		return label.Value
	}
	return fragment(uri)
}

// fragment returns the URI fragment: the substring after the last '#'.
// A URI without a fragment yields an empty label, passed through
// unchanged.
func fragment(uri string) string {
	for i := len(uri) - 1; i >= 0; i-- {
		if uri[i] == '#' {
			return uri[i+1:]
		}
	}
	return ""
}
