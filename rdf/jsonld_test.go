package rdf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const foaf = "http://xmlns.com/foaf/0.1/"

const aliceDoc = `{
  "@context": {
    "name": "http://xmlns.com/foaf/0.1/name",
    "knows": {"@id": "http://xmlns.com/foaf/0.1/knows", "@type": "@id"}
  },
  "@id": "http://example.org/alice",
  "name": "Alice",
  "knows": {"name": "Bob"}
}`

func TestJSONLDReader(t *testing.T) {
	quads, err := ReadAll(context.Background(), strings.NewReader(aliceDoc), FormatJSONLD)
	require.NoError(t, err)
	require.Len(t, quads, 3)

	alice := IRI{Value: "http://example.org/alice"}
	var bob Term
	names := map[Term]Term{}
	for _, q := range quads {
		assert.Nil(t, q.G)
		switch q.P {
		case IRI{Value: foaf + "knows"}:
			assert.Equal(t, alice, q.S)
			bob = q.O
		case IRI{Value: foaf + "name"}:
			names[q.S] = q.O
		}
	}
	require.NotNil(t, bob)
	assert.True(t, IsBlank(bob))
	assert.Equal(t, Literal{Lexical: "Alice"}, names[alice])
	assert.Equal(t, Literal{Lexical: "Bob"}, names[bob])
}

func TestJSONLDReaderNamedGraph(t *testing.T) {
	doc := `{
  "@context": {"name": "http://xmlns.com/foaf/0.1/name"},
  "@id": "http://example.org/g",
  "@graph": [{"@id": "http://example.org/s", "name": {"@value": "x", "@language": "en"}}]
}`
	quads, err := ReadAll(context.Background(), strings.NewReader(doc), FormatJSONLD)
	require.NoError(t, err)
	require.Len(t, quads, 1)
	assert.Equal(t, Quad{S: exS, P: IRI{Value: foaf + "name"}, O: Literal{Lexical: "x", Lang: "en"}, G: exG}, quads[0])
}

func TestJSONLDReaderRefusesRemoteContexts(t *testing.T) {
	doc := `{"@context": "http://example.org/context.jsonld", "@id": "http://example.org/s", "name": "x"}`
	_, err := ReadAll(context.Background(), strings.NewReader(doc), FormatJSONLD)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "jsonld", perr.Format)
	assert.Equal(t, ErrCodeParseError, Code(err))
}

func TestJSONLDReaderRejectsMalformedJSON(t *testing.T) {
	_, err := ReadAll(context.Background(), strings.NewReader(`{"@id": `), FormatJSONLD)
	assert.Error(t, err)
}

func TestJSONLDRoundTrip(t *testing.T) {
	integer := IRI{Value: "http://www.w3.org/2001/XMLSchema#integer"}
	quads := []Quad{
		{S: exS, P: exP, O: exO},
		{S: exS, P: exP, O: Literal{Lexical: "hi", Lang: "en"}},
		{S: exS, P: exP, O: Literal{Lexical: "7", Datatype: integer}},
		{S: exS, P: exP, O: Literal{Lexical: "plain"}, G: exG},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, FormatJSONLD, quads))
	assert.True(t, json.Valid(buf.Bytes()))

	back, err := ReadAll(context.Background(), &buf, FormatJSONLD)
	require.NoError(t, err)
	assert.ElementsMatch(t, quads, back)
}

func TestJSONLDWriterRejectsTripleTerms(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatJSONLD)
	require.NoError(t, err)
	require.NoError(t, w.Write(Quad{S: NewTriple(exS, exP, exO).Quote(), P: exP, O: exO}))
	assert.ErrorContains(t, w.Close(), "cannot be represented")
	assert.Zero(t, buf.Len())
}

func TestLDDatasetConversion(t *testing.T) {
	quads := []Quad{
		{S: BlankNode{ID: "a"}, P: exP, O: Literal{Lexical: "v"}},
		{S: exS, P: exP, O: BlankNode{ID: "a"}, G: BlankNode{ID: "g"}},
	}
	ds, err := ToLDDataset(quads)
	require.NoError(t, err)
	assert.Len(t, ds.Graphs[DefaultGraphName], 1)
	assert.Len(t, ds.Graphs["_:g"], 1)

	back, err := FromLDDataset(ds)
	require.NoError(t, err)
	assert.Equal(t, quads, back)

	_, err = ToLDDataset([]Quad{{S: exS, P: exP}})
	assert.ErrorIs(t, err, ErrNilTerm)
}

func TestFromLDDatasetNormalizesStrings(t *testing.T) {
	ds := ld.NewRDFDataset()
	ds.Graphs[DefaultGraphName] = []*ld.Quad{
		ld.NewQuad(ld.NewIRI(exS.Value), ld.NewIRI(exP.Value), ld.NewLiteral("x", ld.XSDString, ""), DefaultGraphName),
	}
	quads, err := FromLDDataset(ds)
	require.NoError(t, err)
	assert.Equal(t, []Quad{{S: exS, P: exP, O: Literal{Lexical: "x"}}}, quads)
}
