package rdf

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
	// TermTriple represents an RDF-star triple term.
	TermTriple
	// TermVariable represents a query variable.
	TermVariable
)

// String returns a short name for the kind.
func (k TermKind) String() string {
	switch k {
	case TermIRI:
		return "iri"
	case TermBlankNode:
		return "blank"
	case TermLiteral:
		return "literal"
	case TermTriple:
		return "triple"
	case TermVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Term is a value that can appear in RDF statements.
//
// All concrete terms are comparable values, so two terms are equal exactly
// when they are == and any Term (and any Triple built from terms) can be used
// as a map key.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal.
//
// A literal with neither Datatype nor Lang is an xsd:string. Use NewLiteral to
// keep that form normalized when the datatype comes from untrusted input.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns the N-Triples form of the literal.
func (l Literal) String() string { return FormatTerm(l) }

// NewLiteral builds a literal, dropping an explicit xsd:string or
// rdf:langString datatype so that equal literals compare equal.
func NewLiteral(lexical string, datatype IRI, lang string) Literal {
	if lang != "" {
		return Literal{Lexical: lexical, Lang: lang}
	}
	if datatype == XSDString {
		datatype = IRI{}
	}
	return Literal{Lexical: lexical, Datatype: datatype}
}

// Variable is a named query variable. Variables never appear in asserted data
// but may be used in patterns.
type Variable struct {
	Name string
}

// Kind returns TermVariable.
func (v Variable) Kind() TermKind { return TermVariable }

// String returns the variable name prefixed with "?".
func (v Variable) String() string { return "?" + v.Name }

// TripleTerm is an RDF-star quoted triple term.
type TripleTerm struct {
	// S is the subject of the quoted triple.
	S Term
	// P is the predicate of the quoted triple.
	P Term
	// O is the object of the quoted triple.
	O Term
}

// Kind returns TermTriple.
func (t TripleTerm) Kind() TermKind { return TermTriple }

// String returns the N-Triples form of the triple term.
func (t TripleTerm) String() string { return FormatTerm(t) }

// Triple returns the quoted triple.
func (t TripleTerm) Triple() Triple { return Triple{S: t.S, P: t.P, O: t.O} }

// Triple is an RDF triple.
type Triple struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P Term
	// O is the object.
	O Term
}

// NewTriple builds a triple.
func NewTriple(s, p, o Term) Triple {
	return Triple{S: s, P: p, O: o}
}

// String returns the N-Triples line for the triple without the trailing newline.
func (t Triple) String() string {
	return FormatTerm(t.S) + " " + FormatTerm(t.P) + " " + FormatTerm(t.O) + " ."
}

// Quote wraps the triple in a TripleTerm.
func (t Triple) Quote() TripleTerm { return TripleTerm{S: t.S, P: t.P, O: t.O} }

// Quad is an RDF quad (triple + optional graph name).
type Quad struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P Term
	// O is the object.
	O Term
	// G is the graph name, or nil for the default graph.
	G Term
}

// IsZero reports whether the quad has no subject/predicate/object.
func (q Quad) IsZero() bool {
	return q.S == nil && q.P == nil && q.O == nil && q.G == nil
}

// ToTriple extracts the triple from a quad (ignores graph).
func (q Quad) ToTriple() Triple {
	return Triple{S: q.S, P: q.P, O: q.O}
}

// InDefaultGraph reports whether the quad is in the default graph (no named graph).
func (q Quad) InDefaultGraph() bool {
	return q.G == nil
}

// ToQuad converts a triple to a quad in the default graph.
func (t Triple) ToQuad() Quad {
	return Quad{S: t.S, P: t.P, O: t.O, G: nil}
}

// ToQuadInGraph converts a triple to a quad in a named graph.
func (t Triple) ToQuadInGraph(graph Term) Quad {
	return Quad{S: t.S, P: t.P, O: t.O, G: graph}
}

// Well-known datatype IRIs.
var (
	XSDString     = IRI{Value: "http://www.w3.org/2001/XMLSchema#string"}
	RDFLangString = IRI{Value: "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"}
)
