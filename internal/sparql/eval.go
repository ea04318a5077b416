package sparql

import (
	"github.com/rendis/cwlviz/internal/rdf"
	"github.com/rendis/cwlviz/pkg/cwl"
)

// Row is one query solution. Variables left unbound by an OPTIONAL group
// are absent from the map.
type Row map[string]rdf.Term

// Has reports whether the variable is bound in this row.
func (r Row) Has(name string) bool {
	_, ok := r[name]
	return ok
}

type binding map[string]rdf.Term

func (b binding) clone() binding {
	nb := make(binding, len(b)+1)
	for k, v := range b {
		nb[k] = v
	}
	return nb
}

// Eval runs the query against the fact graph with the given externally
// bound variables. Rows come back in triple insertion order, so re-running
// against the same graph is deterministic. An init binding for a variable
// the pattern never mentions is a QUERY_ERROR.
func (q *Query) Eval(g *rdf.Graph, init map[string]rdf.Term) ([]Row, error) {
	base := make(binding, len(init))
	for name, term := range init {
		if _, ok := q.vars[name]; !ok {
			return nil, cwl.NewErrorf(cwl.ErrCodeQuery, "binding for unknown variable ?%s", name)
		}
		base[name] = term
	}

	sols := solveBGP(g, q.where, []binding{base})

	// FILTER NOT EXISTS: drop solutions the group can extend.
	for _, group := range q.notExists {
		var kept []binding
		for _, b := range sols {
			if len(solveBGP(g, group, []binding{b})) == 0 {
				kept = append(kept, b)
			}
		}
		sols = kept
	}

	// OPTIONAL: left join each group.
	for _, group := range q.optional {
		var joined []binding
		for _, b := range sols {
			ext := solveBGP(g, group, []binding{b})
			if len(ext) == 0 {
				joined = append(joined, b)
				continue
			}
			joined = append(joined, ext...)
		}
		sols = joined
	}

	rows := make([]Row, 0, len(sols))
	for _, b := range sols {
		row := make(Row, len(q.Select))
		for _, v := range q.Select {
			if term, ok := b[v]; ok {
				row[v] = term
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// solveBGP extends each input binding across the conjunction of patterns.
func solveBGP(g *rdf.Graph, pats []pattern, in []binding) []binding {
	out := in
	for _, pat := range pats {
		var next []binding
		for _, b := range out {
			for _, t := range matchPattern(g, pat, b) {
				if nb, ok := extend(b, pat, t); ok {
					next = append(next, nb)
				}
			}
		}
		out = next
		if len(out) == 0 {
			return nil
		}
	}
	return out
}

// matchPattern queries the store with every position the binding already
// fixes.
func matchPattern(g *rdf.Graph, pat pattern, b binding) []rdf.Triple {
	return g.Match(resolve(pat.S, b), resolve(pat.P, b), resolve(pat.O, b))
}

// resolve returns the concrete term for a pattern position, or nil when it
// is an unbound variable (wildcard).
func resolve(t patTerm, b binding) *rdf.Term {
	if !t.isVar() {
		c := t.Const
		return &c
	}
	if v, ok := b[t.Var]; ok {
		return &v
	}
	return nil
}

// extend binds the pattern's free variables to the matched triple's terms,
// rejecting the triple when a variable repeated within the pattern would
// take two different values.
func extend(b binding, pat pattern, t rdf.Triple) (binding, bool) {
	nb := b.clone()
	for _, pair := range [3]struct {
		pt   patTerm
		term rdf.Term
	}{{pat.S, t.Subj}, {pat.P, t.Pred}, {pat.O, t.Obj}} {
		if !pair.pt.isVar() {
			continue
		}
		if bound, ok := nb[pair.pt.Var]; ok {
			if bound != pair.term {
				return nil, false
			}
			continue
		}
		nb[pair.pt.Var] = pair.term
	}
	return nb, true
}
