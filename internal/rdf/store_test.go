package rdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/cwlviz/pkg/cwl"
)

func ptr(t Term) *Term { return &t }

func TestMatchWildcardsAndBounds(t *testing.T) {
	g := NewGraph()
	wf := NewIRI("file:///wf.cwl#main")
	s1 := NewIRI("file:///wf.cwl#main/s1")
	s2 := NewIRI("file:///wf.cwl#main/s2")
	g.Add(Triple{wf, NewIRI(cwl.Steps), s1})
	g.Add(Triple{wf, NewIRI(cwl.Steps), s2})
	g.Add(Triple{s1, NewIRI(cwl.RDFSLabel), NewLiteral("Step One")})

	assert.Equal(t, 3, g.Len())

	// Subject-bound match preserves insertion order.
	steps := g.Match(ptr(wf), ptr(NewIRI(cwl.Steps)), nil)
	require.Len(t, steps, 2)
	assert.Equal(t, s1, steps[0].Obj)
	assert.Equal(t, s2, steps[1].Obj)

	// Object-bound match.
	back := g.Match(nil, nil, ptr(s2))
	require.Len(t, back, 1)
	assert.Equal(t, wf, back[0].Subj)

	// Fully bound, absent.
	assert.Empty(t, g.Match(ptr(s2), ptr(NewIRI(cwl.RDFSLabel)), nil))

	// All wildcards returns everything.
	assert.Len(t, g.Match(nil, nil, nil), 3)
}

func TestMatchDistinguishesTermKinds(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{NewIRI("s"), NewIRI("p"), NewLiteral("v")})

	// Same value, different kind: no match.
	assert.Empty(t, g.Match(nil, nil, ptr(NewIRI("v"))))
	assert.Len(t, g.Match(nil, nil, ptr(NewLiteral("v"))), 1)
}

func TestDecodeTurtle(t *testing.T) {
	doc := `@prefix cwl: <https://w3id.org/cwl/cwl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

<file:///wf.cwl#main> a cwl:Workflow ;
    <https://w3id.org/cwl/cwl#Workflow/steps> <file:///wf.cwl#main/s1> .
<file:///wf.cwl#main/s1> rdfs:label "Step One" .
`
	g, err := DecodeTurtle(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	labels := g.Match(nil, ptr(NewIRI(cwl.RDFSLabel)), nil)
	require.Len(t, labels, 1)
	assert.Equal(t, KindLiteral, labels[0].Obj.Kind)
	assert.Equal(t, "Step One", labels[0].Obj.Value)
}

func TestDecodeTurtleMalformed(t *testing.T) {
	_, err := DecodeTurtle(strings.NewReader("this is not turtle @@"))
	require.Error(t, err)
	assert.True(t, cwl.HasCode(err, cwl.ErrCodeConversion))
}
