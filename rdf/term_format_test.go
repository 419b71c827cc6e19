package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTerm(t *testing.T) {
	integer := IRI{Value: "http://www.w3.org/2001/XMLSchema#integer"}
	cases := []struct {
		name string
		term Term
		want string
	}{
		{"iri", exS, "<http://example.org/s>"},
		{"blank", BlankNode{ID: "b0"}, "_:b0"},
		{"plain literal", Literal{Lexical: "hello"}, `"hello"`},
		{"explicit xsd:string", Literal{Lexical: "hello", Datatype: XSDString}, `"hello"`},
		{"language", Literal{Lexical: "hallo", Lang: "de"}, `"hallo"@de`},
		{"typed", Literal{Lexical: "1", Datatype: integer}, `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"quote and backslash", Literal{Lexical: `a"b\c`}, `"a\"b\\c"`},
		{"whitespace controls", Literal{Lexical: "a\nb\rc\td"}, `"a\nb\rc\td"`},
		{"backspace and form feed", Literal{Lexical: "\b\f"}, `"\b\f"`},
		{"other controls", Literal{Lexical: "\x00\x1f\x7f"}, `"\u0000\u001F\u007F"`},
		{"non-ascii kept", Literal{Lexical: "café ☕"}, `"café ☕"`},
		{"variable", Variable{Name: "x"}, "?x"},
		{"triple term", TripleTerm{S: BlankNode{ID: "a"}, P: exP, O: Literal{Lexical: "v"}}, `<<( _:a <http://example.org/p> "v" )>>`},
		{"nil", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatTerm(tc.term))
		})
	}
}

func TestFormatNQuad(t *testing.T) {
	assert.Equal(t,
		"<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n",
		FormatNQuad(Quad{S: exS, P: exP, O: exO}))
	assert.Equal(t,
		"_:a <http://example.org/p> \"v\" <http://example.org/g> .\n",
		FormatNQuad(Quad{S: BlankNode{ID: "a"}, P: exP, O: Literal{Lexical: "v"}, G: exG}))
}

func TestFormatRoundTripsThroughParser(t *testing.T) {
	quads := []Quad{
		{S: exS, P: exP, O: Literal{Lexical: "line\nbreak \"quoted\" \\ \x01"}},
		{S: BlankNode{ID: "x.y"}, P: exP, O: Literal{Lexical: "hi", Lang: "en-GB"}, G: BlankNode{ID: "g"}},
		{S: NewTriple(exS, exP, exO).Quote(), P: exP, O: NewTriple(BlankNode{ID: "a"}, exP, Literal{Lexical: "v"}).Quote(), G: exG},
	}
	for _, q := range quads {
		got, err := ParseNQuad(FormatNQuad(q))
		if assert.NoError(t, err, FormatNQuad(q)) {
			assert.Equal(t, q, got)
		}
	}
}
