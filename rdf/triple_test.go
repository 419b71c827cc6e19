package rdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTripleValidate(t *testing.T) {
	lit := Literal{Lexical: "v"}
	b := BlankNode{ID: "b"}
	cases := []struct {
		name string
		t    Triple
		want error
	}{
		{"ground", NewTriple(exS, exP, exO), nil},
		{"blank subject and literal object", NewTriple(b, exP, lit), nil},
		{"variable predicate", NewTriple(exS, Variable{Name: "p"}, exO), nil},
		{"quoted subject", NewTriple(NewTriple(b, exP, lit).Quote(), exP, exO), nil},
		{"nil object", Triple{S: exS, P: exP}, ErrNilTerm},
		{"literal subject", NewTriple(lit, exP, exO), ErrInvalidTriple},
		{"blank predicate", NewTriple(exS, b, exO), ErrInvalidTriple},
		{"literal predicate", NewTriple(exS, lit, exO), ErrInvalidTriple},
		{"nested literal subject", NewTriple(exS, exP, NewTriple(lit, exP, exO).Quote()), ErrInvalidTriple},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.t.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestQuadValidateGraphName(t *testing.T) {
	tr := NewTriple(exS, exP, exO)
	assert.NoError(t, tr.ToQuad().Validate())
	assert.NoError(t, tr.ToQuadInGraph(BlankNode{ID: "g"}).Validate())
	assert.ErrorIs(t, tr.ToQuadInGraph(Literal{Lexical: "g"}).Validate(), ErrInvalidGraphName)
	assert.Equal(t, ErrCodeInvalidGraphName, Code(tr.ToQuadInGraph(Literal{Lexical: "g"}).Validate()))
}

func TestTripleBlankNodes(t *testing.T) {
	a, b := BlankNode{ID: "a"}, BlankNode{ID: "b"}
	inner := NewTriple(b, exP, a).Quote()
	tr := NewTriple(a, exP, inner)

	assert.False(t, tr.IsGround())
	assert.True(t, NewTriple(exS, exP, NewTriple(exS, exP, exO).Quote()).IsGround())
	assert.Equal(t, []BlankNode{a, b}, tr.BlankNodes())
	assert.True(t, tr.Involves(b))
	assert.True(t, tr.Involves(inner))
	assert.False(t, tr.Involves(exO))

	q := Quad{S: a, P: exP, O: exO, G: BlankNode{ID: "g"}}
	assert.Equal(t, []BlankNode{a, {ID: "g"}}, q.BlankNodes())
	assert.False(t, Quad{S: exS, P: exP, O: exO, G: BlankNode{ID: "g"}}.IsGround())
	assert.Equal(t, []BlankNode{a}, Quad{S: a, P: exP, O: exO, G: a}.BlankNodes())
}

func TestMapBlankNodes(t *testing.T) {
	a, b := BlankNode{ID: "a"}, BlankNode{ID: "b"}
	rename := func(n BlankNode) Term { return BlankNode{ID: n.ID + "2"} }

	tr := NewTriple(a, exP, NewTriple(b, exP, Literal{Lexical: "v"}).Quote())
	got := tr.MapBlankNodes(rename)
	want := NewTriple(BlankNode{ID: "a2"}, exP, NewTriple(BlankNode{ID: "b2"}, exP, Literal{Lexical: "v"}).Quote())
	assert.Equal(t, want, got)

	q := Quad{S: exS, P: exP, O: exO, G: b}.MapBlankNodes(rename)
	assert.Equal(t, BlankNode{ID: "b2"}, q.G)
	assert.Nil(t, MapTerm(nil, rename))
}

func TestQuotedTriples(t *testing.T) {
	inner := NewTriple(exS, exP, exO)
	outer := NewTriple(inner.Quote(), exP, NewTriple(inner.Quote(), exP, exO).Quote())
	quoted := outer.QuotedTriples()
	assert.Equal(t, []Triple{inner, NewTriple(inner.Quote(), exP, exO)}, quoted)
	assert.Empty(t, inner.QuotedTriples())
	assert.True(t, IsBlank(BlankNode{ID: "x"}))
	assert.False(t, IsBlank(exS))
}

func TestBlankNodeGenerator(t *testing.T) {
	g := NewBlankNodeGenerator("")
	assert.Equal(t, BlankNode{ID: "b1"}, g.Next())

	used := map[string]bool{"n1": true, "n2": true}
	g = NewBlankNodeGenerator("n")
	g.InUse = func(id string) bool { return used[id] }
	assert.Equal(t, BlankNode{ID: "n3"}, g.Next())
	assert.Equal(t, BlankNode{ID: "n4"}, g.Next())
	assert.Equal(t, uint64(4), g.Issued())
}
