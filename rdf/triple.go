package rdf

import "fmt"

// Validate checks the positional rules for an asserted or quoted triple:
// no nil positions, no literal subject, an IRI or variable predicate.
// Nested triple terms are validated recursively.
func (t Triple) Validate() error {
	if t.S == nil || t.P == nil || t.O == nil {
		return ErrNilTerm
	}
	switch t.S.Kind() {
	case TermLiteral:
		return fmt.Errorf("%w: literal subject %s", ErrInvalidTriple, FormatTerm(t.S))
	case TermTriple:
		if err := t.S.(TripleTerm).Triple().Validate(); err != nil {
			return err
		}
	}
	switch t.P.Kind() {
	case TermIRI, TermVariable:
	default:
		return fmt.Errorf("%w: predicate %s is not an IRI", ErrInvalidTriple, FormatTerm(t.P))
	}
	if tt, ok := t.O.(TripleTerm); ok {
		if err := tt.Triple().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the triple part of the quad and the graph name.
func (q Quad) Validate() error {
	if err := q.ToTriple().Validate(); err != nil {
		return err
	}
	if q.G == nil {
		return nil
	}
	switch q.G.Kind() {
	case TermIRI, TermBlankNode:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidGraphName, FormatTerm(q.G))
	}
}

// IsGround reports whether the triple mentions no blank node, including inside
// nested triple terms.
func (t Triple) IsGround() bool {
	return !hasBlank(t.S) && !hasBlank(t.P) && !hasBlank(t.O)
}

// IsGround reports whether the quad mentions no blank node in any position.
func (q Quad) IsGround() bool {
	return q.ToTriple().IsGround() && !hasBlank(q.G)
}

func hasBlank(term Term) bool {
	switch v := term.(type) {
	case BlankNode:
		return true
	case TripleTerm:
		return hasBlank(v.S) || hasBlank(v.P) || hasBlank(v.O)
	default:
		return false
	}
}

// Involves reports whether term occurs in any position of the triple,
// including inside nested triple terms.
func (t Triple) Involves(term Term) bool {
	return involves(t.S, term) || involves(t.P, term) || involves(t.O, term)
}

func involves(in, term Term) bool {
	if in == term {
		return true
	}
	if tt, ok := in.(TripleTerm); ok {
		return involves(tt.S, term) || involves(tt.P, term) || involves(tt.O, term)
	}
	return false
}

// Terms returns the subject, predicate and object.
func (t Triple) Terms() [3]Term { return [3]Term{t.S, t.P, t.O} }

// BlankNodes returns the distinct blank nodes of the triple in the order they
// are first met, descending into nested triple terms.
func (t Triple) BlankNodes() []BlankNode {
	var out []BlankNode
	seen := make(map[BlankNode]struct{}, 2)
	for _, term := range t.Terms() {
		out = collectBlanks(term, seen, out)
	}
	return out
}

// BlankNodes returns the distinct blank nodes of the quad, graph name last.
func (q Quad) BlankNodes() []BlankNode {
	out := q.ToTriple().BlankNodes()
	if b, ok := q.G.(BlankNode); ok {
		for _, existing := range out {
			if existing == b {
				return out
			}
		}
		out = append(out, b)
	}
	return out
}

func collectBlanks(term Term, seen map[BlankNode]struct{}, out []BlankNode) []BlankNode {
	switch v := term.(type) {
	case BlankNode:
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	case TripleTerm:
		out = collectBlanks(v.S, seen, out)
		out = collectBlanks(v.P, seen, out)
		out = collectBlanks(v.O, seen, out)
	}
	return out
}

// MapBlankNodes returns a copy of the triple with every blank node replaced by
// fn(node), including inside nested triple terms.
func (t Triple) MapBlankNodes(fn func(BlankNode) Term) Triple {
	return Triple{S: MapTerm(t.S, fn), P: MapTerm(t.P, fn), O: MapTerm(t.O, fn)}
}

// MapBlankNodes returns a copy of the quad with every blank node replaced.
func (q Quad) MapBlankNodes(fn func(BlankNode) Term) Quad {
	return Quad{S: MapTerm(q.S, fn), P: MapTerm(q.P, fn), O: MapTerm(q.O, fn), G: MapTerm(q.G, fn)}
}

// MapTerm applies fn to term if it is a blank node, recursing into triple terms.
// Other terms, and nil, are returned unchanged.
func MapTerm(term Term, fn func(BlankNode) Term) Term {
	switch v := term.(type) {
	case BlankNode:
		return fn(v)
	case TripleTerm:
		return TripleTerm{S: MapTerm(v.S, fn), P: MapTerm(v.P, fn), O: MapTerm(v.O, fn)}
	default:
		return term
	}
}

// QuotedTriples returns the triples quoted directly by the subject and object
// of t. Deeper nesting is reached by calling QuotedTriples on the results.
func (t Triple) QuotedTriples() []Triple {
	var out []Triple
	if tt, ok := t.S.(TripleTerm); ok {
		out = append(out, tt.Triple())
	}
	if tt, ok := t.O.(TripleTerm); ok {
		out = append(out, tt.Triple())
	}
	return out
}

// IsBlank reports whether term is a blank node.
func IsBlank(term Term) bool {
	_, ok := term.(BlankNode)
	return ok
}
