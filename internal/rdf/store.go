// Package rdf provides the in-memory fact graph: a triple store indexed by
// subject, predicate and object, loaded once per viewer session and never
// mutated afterwards.
package rdf

// TermKind discriminates the three RDF term types.
type TermKind int

const (
	KindIRI TermKind = iota
	KindLiteral
	KindBlank
)

// Term is a single RDF term. Value carries the IRI, the literal's lexical
// form, or the blank node identifier, without any serialization decoration.
type Term struct {
	Kind  TermKind
	Value string
}

// NewIRI returns an IRI term.
func NewIRI(v string) Term { return Term{Kind: KindIRI, Value: v} }

// NewLiteral returns a literal term.
func NewLiteral(v string) Term { return Term{Kind: KindLiteral, Value: v} }

// NewBlank returns a blank node term.
func NewBlank(id string) Term { return Term{Kind: KindBlank, Value: id} }

// Triple is one subject–predicate–object fact.
type Triple struct {
	Subj Term
	Pred Term
	Obj  Term
}

// Graph is the fact graph. Indexes keep triple positions in insertion
// order so repeated queries over the same input are deterministic.
type Graph struct {
	triples []Triple
	bySubj  map[Term][]int
	byPred  map[Term][]int
	byObj   map[Term][]int
}

// NewGraph returns an empty fact graph.
func NewGraph() *Graph {
	return &Graph{
		bySubj: make(map[Term][]int),
		byPred: make(map[Term][]int),
		byObj:  make(map[Term][]int),
	}
}

// Add appends a triple and indexes it.
func (g *Graph) Add(t Triple) {
	i := len(g.triples)
	g.triples = append(g.triples, t)
	g.bySubj[t.Subj] = append(g.bySubj[t.Subj], i)
	g.byPred[t.Pred] = append(g.byPred[t.Pred], i)
	g.byObj[t.Obj] = append(g.byObj[t.Obj], i)
}

// AddAll appends a batch of triples.
func (g *Graph) AddAll(ts []Triple) {
	for _, t := range ts {
		g.Add(t)
	}
}

// Len returns the number of stored triples.
func (g *Graph) Len() int { return len(g.triples) }

// Match returns all triples matching the given terms in insertion order.
// A nil position is a wildcard. The narrowest available index drives the
// scan; remaining positions are checked per candidate.
func (g *Graph) Match(s, p, o *Term) []Triple {
	candidates := g.candidates(s, p, o)

	var out []Triple
	for _, i := range candidates {
		t := g.triples[i]
		if s != nil && t.Subj != *s {
			continue
		}
		if p != nil && t.Pred != *p {
			continue
		}
		if o != nil && t.Obj != *o {
			continue
		}
		out = append(out, t)
	}
	return out
}

// candidates picks the smallest index slice covering the bound positions,
// falling back to a full scan when every position is a wildcard.
func (g *Graph) candidates(s, p, o *Term) []int {
	var best []int
	have := false

	consider := func(idx []int) {
		if !have || len(idx) < len(best) {
			best = idx
			have = true
		}
	}

	if s != nil {
		consider(g.bySubj[*s])
	}
	if p != nil {
		consider(g.byPred[*p])
	}
	if o != nil {
		consider(g.byObj[*o])
	}
	if have {
		return best
	}

	all := make([]int, len(g.triples))
	for i := range all {
		all[i] = i
	}
	return all
}
