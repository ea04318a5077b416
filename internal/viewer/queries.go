package viewer

import (
	_ "embed"

	"github.com/rendis/cwlviz/internal/sparql"
)

// The four bundled query patterns. They are static, versioned resources:
// each documents its required bindings and result-row shape in its header.
// Compiled once at package init; read-only afterwards.

//go:embed queries/get_root.rq
var getRootText string

//go:embed queries/get_inner_edges.rq
var getInnerEdgesText string

//go:embed queries/get_input_edges.rq
var getInputEdgesText string

//go:embed queries/get_output_edges.rq
var getOutputEdgesText string

var (
	getRootQuery        = sparql.MustParse(getRootText)
	getInnerEdgesQuery  = sparql.MustParse(getInnerEdgesText)
	getInputEdgesQuery  = sparql.MustParse(getInputEdgesText)
	getOutputEdgesQuery = sparql.MustParse(getOutputEdgesText)
)
