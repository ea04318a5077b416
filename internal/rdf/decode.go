package rdf

import (
	"io"

	knakk "github.com/knakk/rdf"

	"github.com/rendis/cwlviz/pkg/cwl"
)

// DecodeTurtle loads the conversion collaborator's serialized fact graph
// (Turtle, as emitted by cwltool --print-rdf) into a Graph.
func DecodeTurtle(r io.Reader) (*Graph, error) {
	dec := knakk.NewTripleDecoder(r, knakk.Turtle)
	triples, err := dec.DecodeAll()
	if err != nil {
		return nil, cwl.NewError(cwl.ErrCodeConversion, "decode fact graph").WithCause(err)
	}

	g := NewGraph()
	for _, t := range triples {
		g.Add(Triple{
			Subj: fromKnakk(t.Subj),
			Pred: fromKnakk(t.Pred),
			Obj:  fromKnakk(t.Obj),
		})
	}
	return g, nil
}

// fromKnakk maps a knakk/rdf term onto the store's Term representation.
func fromKnakk(t knakk.Term) Term {
	switch t.Type() {
	case knakk.TermIRI:
		return NewIRI(t.String())
	case knakk.TermLiteral:
		return NewLiteral(t.String())
	default:
		return NewBlank(t.String())
	}
}
