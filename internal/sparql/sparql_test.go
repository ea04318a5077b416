package sparql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/cwlviz/internal/rdf"
	"github.com/rendis/cwlviz/pkg/cwl"
)

func testGraph() *rdf.Graph {
	g := rdf.NewGraph()
	wf := rdf.NewIRI("file:///wf.cwl#main")
	sub := rdf.NewIRI("file:///sub.cwl#nested")
	s1 := rdf.NewIRI("file:///wf.cwl#main/s1")
	s2 := rdf.NewIRI("file:///wf.cwl#main/s2")

	g.Add(rdf.Triple{Subj: wf, Pred: rdf.NewIRI(cwl.RDFType), Obj: rdf.NewIRI(cwl.ClassWorkflow)})
	g.Add(rdf.Triple{Subj: sub, Pred: rdf.NewIRI(cwl.RDFType), Obj: rdf.NewIRI(cwl.ClassWorkflow)})
	g.Add(rdf.Triple{Subj: wf, Pred: rdf.NewIRI(cwl.Steps), Obj: s1})
	g.Add(rdf.Triple{Subj: wf, Pred: rdf.NewIRI(cwl.Steps), Obj: s2})
	g.Add(rdf.Triple{Subj: s2, Pred: rdf.NewIRI(cwl.Run), Obj: sub})
	g.Add(rdf.Triple{Subj: s1, Pred: rdf.NewIRI(cwl.RDFSLabel), Obj: rdf.NewLiteral("Step One")})
	return g
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"no select":        `WHERE { ?s ?p ?o . }`,
		"no variables":     `SELECT WHERE { ?s ?p ?o . }`,
		"unknown prefix":   `SELECT ?s WHERE { ?s missing:pred ?o . }`,
		"unterminated":     `SELECT ?s WHERE { ?s ?p ?o .`,
		"unterminated iri": `SELECT ?s WHERE { ?s <http://x ?o . }`,
		"orphan selection": `SELECT ?nope WHERE { ?s ?p ?o . }`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(text)
			require.Error(t, err)
			assert.True(t, cwl.HasCode(err, cwl.ErrCodeQuery))
		})
	}
}

func TestEvalBasicJoin(t *testing.T) {
	q, err := Parse(`
PREFIX cwl: <https://w3id.org/cwl/cwl#>
PREFIX Workflow: <https://w3id.org/cwl/cwl#Workflow/>
SELECT ?step
WHERE {
  ?root Workflow:steps ?step .
}`)
	require.NoError(t, err)

	rows, err := q.Eval(testGraph(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "file:///wf.cwl#main/s1", rows[0]["step"].Value)
	assert.Equal(t, "file:///wf.cwl#main/s2", rows[1]["step"].Value)
}

func TestEvalInitBindings(t *testing.T) {
	q := MustParse(`
PREFIX Workflow: <https://w3id.org/cwl/cwl#Workflow/>
SELECT ?step
WHERE { ?root Workflow:steps ?step . }`)

	rows, err := q.Eval(testGraph(), map[string]rdf.Term{
		"root": rdf.NewIRI("file:///wf.cwl#main"),
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// Binding an IRI nothing references yields zero rows, not an error.
	rows, err = q.Eval(testGraph(), map[string]rdf.Term{
		"root": rdf.NewIRI("file:///other.cwl#x"),
	})
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Binding a variable the pattern never mentions is a QUERY_ERROR.
	_, err = q.Eval(testGraph(), map[string]rdf.Term{
		"ghost": rdf.NewIRI("file:///wf.cwl#main"),
	})
	require.Error(t, err)
	assert.True(t, cwl.HasCode(err, cwl.ErrCodeQuery))
}

func TestEvalOptionalLeftJoin(t *testing.T) {
	q := MustParse(`
PREFIX Workflow: <https://w3id.org/cwl/cwl#Workflow/>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT ?step ?label
WHERE {
  ?root Workflow:steps ?step .
  OPTIONAL { ?step rdfs:label ?label }
}`)

	rows, err := q.Eval(testGraph(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// s1 carries a label, s2 does not.
	assert.True(t, rows[0].Has("label"))
	assert.Equal(t, "Step One", rows[0]["label"].Value)
	assert.False(t, rows[1].Has("label"))
}

func TestEvalFilterNotExists(t *testing.T) {
	q := MustParse(`
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX cwl: <https://w3id.org/cwl/cwl#>
PREFIX Workflow: <https://w3id.org/cwl/cwl#Workflow/>
SELECT ?workflow
WHERE {
  ?workflow rdf:type cwl:Workflow .
  FILTER NOT EXISTS {
    ?parent Workflow:steps ?step .
    ?step cwl:run ?workflow .
  }
}`)

	// Two workflows in the graph; only #main is not run by any step.
	rows, err := q.Eval(testGraph(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "file:///wf.cwl#main", rows[0]["workflow"].Value)
}

func TestEvalRepeatedVariableInPattern(t *testing.T) {
	g := rdf.NewGraph()
	g.Add(rdf.Triple{Subj: rdf.NewIRI("x"), Pred: rdf.NewIRI("p"), Obj: rdf.NewIRI("x")})
	g.Add(rdf.Triple{Subj: rdf.NewIRI("y"), Pred: rdf.NewIRI("p"), Obj: rdf.NewIRI("z")})

	q := MustParse(`SELECT ?s WHERE { ?s <p> ?s . }`)
	rows, err := q.Eval(g, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "x", rows[0]["s"].Value)
}

func TestEvalLiteralAndTypeShorthand(t *testing.T) {
	g := rdf.NewGraph()
	g.Add(rdf.Triple{Subj: rdf.NewIRI("n"), Pred: rdf.NewIRI(cwl.RDFType), Obj: rdf.NewIRI("T")})
	g.Add(rdf.Triple{Subj: rdf.NewIRI("n"), Pred: rdf.NewIRI("name"), Obj: rdf.NewLiteral("T")})

	// "a" expands to rdf:type; the quoted "T" must match only the literal.
	q := MustParse(`SELECT ?s WHERE { ?s a <T> . ?s <name> "T" . }`)
	rows, err := q.Eval(g, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestEvalDeterministic(t *testing.T) {
	q := MustParse(`
PREFIX Workflow: <https://w3id.org/cwl/cwl#Workflow/>
SELECT ?step
WHERE { ?root Workflow:steps ?step . }`)

	g := testGraph()
	first, err := q.Eval(g, nil)
	require.NoError(t, err)
	second, err := q.Eval(g, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
