// Package sparql implements the pattern-query subset the bundled viewer
// queries need: SELECT over basic graph patterns with single-level OPTIONAL
// groups and FILTER NOT EXISTS, evaluated against an internal/rdf.Graph.
package sparql

import (
	"fmt"
	"strings"

	"github.com/rendis/cwlviz/internal/rdf"
	"github.com/rendis/cwlviz/pkg/cwl"
)

const rdfTypeIRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// patTerm is one position of a triple pattern: either a variable name or a
// constant term.
type patTerm struct {
	Var   string
	Const rdf.Term
}

func (t patTerm) isVar() bool { return t.Var != "" }

// pattern is a single triple pattern.
type pattern struct {
	S, P, O patTerm
}

// Query is a parsed pattern query. Queries are read-only after Parse and
// safe to share across sessions.
type Query struct {
	Select    []string
	where     []pattern
	optional  [][]pattern
	notExists [][]pattern
	vars      map[string]struct{}
}

// Parse compiles a query text. Malformed text yields a QUERY_ERROR.
func Parse(text string) (*Query, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, cwl.NewError(cwl.ErrCodeQuery, "tokenize query").WithCause(err)
	}

	p := &parser{toks: toks, prefixes: make(map[string]string)}
	q, err := p.parse()
	if err != nil {
		return nil, cwl.NewError(cwl.ErrCodeQuery, "parse query").WithCause(err)
	}
	return q, nil
}

// MustParse parses a bundled query resource and panics on failure. Only for
// the statically embedded patterns, which are validated by tests.
func MustParse(text string) *Query {
	q, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return q
}

type parser struct {
	toks     []string
	pos      int
	prefixes map[string]string
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(want string) error {
	if got := p.next(); !strings.EqualFold(got, want) {
		return fmt.Errorf("expected %q, got %q", want, got)
	}
	return nil
}

func (p *parser) parse() (*Query, error) {
	q := &Query{vars: make(map[string]struct{})}

	// PREFIX headers.
	for strings.EqualFold(p.peek(), "PREFIX") {
		p.next()
		name := p.next()
		if !strings.HasSuffix(name, ":") {
			return nil, fmt.Errorf("prefix name %q must end with ':'", name)
		}
		iri := p.next()
		if !strings.HasPrefix(iri, "<") || !strings.HasSuffix(iri, ">") {
			return nil, fmt.Errorf("prefix IRI %q must be enclosed in <>", iri)
		}
		p.prefixes[strings.TrimSuffix(name, ":")] = strings.Trim(iri, "<>")
	}

	// SELECT ?a ?b ...
	if err := p.expect("SELECT"); err != nil {
		return nil, err
	}
	for strings.HasPrefix(p.peek(), "?") {
		q.Select = append(q.Select, strings.TrimPrefix(p.next(), "?"))
	}
	if len(q.Select) == 0 {
		return nil, fmt.Errorf("SELECT lists no variables")
	}

	// WHERE { ... }
	if err := p.expect("WHERE"); err != nil {
		return nil, err
	}
	if err := p.expect("{"); err != nil {
		return nil, err
	}

	for {
		switch tok := p.peek(); {
		case tok == "":
			return nil, fmt.Errorf("unterminated WHERE block")
		case tok == "}":
			p.next()
			for _, v := range q.Select {
				if _, ok := q.vars[v]; !ok {
					return nil, fmt.Errorf("selected variable ?%s never appears in WHERE", v)
				}
			}
			return q, nil
		case strings.EqualFold(tok, "OPTIONAL"):
			p.next()
			group, err := p.parseGroup(q)
			if err != nil {
				return nil, err
			}
			q.optional = append(q.optional, group)
		case strings.EqualFold(tok, "FILTER"):
			p.next()
			if err := p.expect("NOT"); err != nil {
				return nil, err
			}
			if err := p.expect("EXISTS"); err != nil {
				return nil, err
			}
			group, err := p.parseGroup(q)
			if err != nil {
				return nil, err
			}
			q.notExists = append(q.notExists, group)
		default:
			pat, err := p.parsePattern(q)
			if err != nil {
				return nil, err
			}
			q.where = append(q.where, pat)
		}
	}
}

// parseGroup parses a braced pattern group.
func (p *parser) parseGroup(q *Query) ([]pattern, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var group []pattern
	for p.peek() != "}" {
		if p.peek() == "" {
			return nil, fmt.Errorf("unterminated group")
		}
		pat, err := p.parsePattern(q)
		if err != nil {
			return nil, err
		}
		group = append(group, pat)
	}
	p.next()
	if len(group) == 0 {
		return nil, fmt.Errorf("empty pattern group")
	}
	return group, nil
}

// parsePattern parses one triple pattern, consuming a trailing "." when
// present.
func (p *parser) parsePattern(q *Query) (pattern, error) {
	var terms [3]patTerm
	for i := range terms {
		t, err := p.parseTerm(q)
		if err != nil {
			return pattern{}, err
		}
		terms[i] = t
	}
	if p.peek() == "." {
		p.next()
	}
	return pattern{S: terms[0], P: terms[1], O: terms[2]}, nil
}

func (p *parser) parseTerm(q *Query) (patTerm, error) {
	tok := p.next()
	switch {
	case tok == "":
		return patTerm{}, fmt.Errorf("unexpected end of query in triple pattern")
	case tok == "{" || tok == "}" || tok == ".":
		return patTerm{}, fmt.Errorf("unexpected %q in triple pattern", tok)
	case strings.HasPrefix(tok, "?"):
		name := strings.TrimPrefix(tok, "?")
		if name == "" {
			return patTerm{}, fmt.Errorf("empty variable name")
		}
		q.vars[name] = struct{}{}
		return patTerm{Var: name}, nil
	case strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">"):
		return patTerm{Const: rdf.NewIRI(strings.Trim(tok, "<>"))}, nil
	case strings.HasPrefix(tok, `"`) && strings.HasSuffix(tok, `"`) && len(tok) >= 2:
		return patTerm{Const: rdf.NewLiteral(strings.Trim(tok, `"`))}, nil
	case tok == "a":
		return patTerm{Const: rdf.NewIRI(rdfTypeIRI)}, nil
	default:
		iri, err := p.expand(tok)
		if err != nil {
			return patTerm{}, err
		}
		return patTerm{Const: rdf.NewIRI(iri)}, nil
	}
}

// expand resolves a prefixed name against the declared prefixes.
func (p *parser) expand(tok string) (string, error) {
	idx := strings.Index(tok, ":")
	if idx < 0 {
		return "", fmt.Errorf("unrecognized term %q", tok)
	}
	ns, ok := p.prefixes[tok[:idx]]
	if !ok {
		return "", fmt.Errorf("undeclared prefix %q", tok[:idx])
	}
	return ns + tok[idx+1:], nil
}

// tokenize splits query text into tokens. IRIs (<...>) and string literals
// ("...") are single tokens; braces and lone dots separate; # starts a
// comment outside of IRIs and literals.
func tokenize(s string) ([]string, error) {
	var toks []string
	r := []rune(s)
	i := 0
	for i < len(r) {
		c := r[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '#':
			for i < len(r) && r[i] != '\n' {
				i++
			}
		case c == '{' || c == '}':
			toks = append(toks, string(c))
			i++
		case c == '<':
			j := i + 1
			for j < len(r) && r[j] != '>' {
				j++
			}
			if j >= len(r) {
				return nil, fmt.Errorf("unterminated IRI")
			}
			toks = append(toks, string(r[i:j+1]))
			i = j + 1
		case c == '"':
			j := i + 1
			for j < len(r) && r[j] != '"' {
				if r[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(r) {
				return nil, fmt.Errorf("unterminated string literal")
			}
			toks = append(toks, string(r[i:j+1]))
			i = j + 1
		default:
			j := i
			for j < len(r) && !strings.ContainsRune(" \t\n\r{}<\"", r[j]) {
				j++
			}
			tok := string(r[i:j])
			// A trailing dot terminates the triple, not the token.
			if len(tok) > 1 && strings.HasSuffix(tok, ".") {
				toks = append(toks, strings.TrimSuffix(tok, "."), ".")
			} else {
				toks = append(toks, tok)
			}
			i = j
		}
	}
	return toks, nil
}
