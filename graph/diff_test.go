package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdfstore/rdf"
)

func TestDiffEqualGraphs(t *testing.T) {
	a, err := FromTriples([]rdf.Triple{tr(blank("x"), iri("p"), lit("v"))})
	require.NoError(t, err)
	b, err := FromTriples([]rdf.Triple{tr(blank("y"), iri("p"), lit("v"))})
	require.NoError(t, err)

	d, err := a.Diff(b)
	require.NoError(t, err)
	assert.True(t, d.Equal)
	assert.True(t, d.IsEmpty())
	assert.Equal(t, Mapping{blank("x"): blank("y")}, d.Mapping)

	_, err = a.Diff(nil)
	assert.ErrorIs(t, err, rdf.ErrNilTerm)
}

func TestDiffReportsGroundAndBlankChanges(t *testing.T) {
	a, err := FromTriples([]rdf.Triple{
		tr(iri("s"), iri("p"), iri("o")),
		tr(iri("s"), iri("p"), iri("kept")),
		tr(blank("a"), iri("name"), lit("x")),
		tr(blank("a"), iri("age"), lit("1")),
		tr(blank("gone"), iri("name"), lit("z")),
	})
	require.NoError(t, err)
	b, err := FromTriples([]rdf.Triple{
		tr(iri("s"), iri("p"), iri("o2")),
		tr(iri("s"), iri("p"), iri("kept")),
		tr(blank("b"), iri("name"), lit("x")),
		tr(blank("b"), iri("age"), lit("1")),
		tr(blank("c"), iri("name"), lit("y")),
	})
	require.NoError(t, err)

	d, err := a.Diff(b)
	require.NoError(t, err)
	assert.False(t, d.Equal)
	assert.False(t, d.IsEmpty())
	assert.Equal(t, []rdf.Triple{tr(iri("s"), iri("p"), iri("o"))}, d.RemovedTriples)
	assert.Equal(t, []rdf.Triple{tr(iri("s"), iri("p"), iri("o2"))}, d.AddedTriples)
	assert.Equal(t, [][]rdf.Triple{{tr(blank("gone"), iri("name"), lit("z"))}}, d.RemovedMSGs)
	assert.Equal(t, [][]rdf.Triple{{tr(blank("c"), iri("name"), lit("y"))}}, d.AddedMSGs)
	assert.Equal(t, Mapping{blank("a"): blank("b")}, d.Mapping)
}

func TestSpanningSubGraphs(t *testing.T) {
	triples := []rdf.Triple{
		tr(blank("b"), iri("p"), blank("c")),
		tr(iri("s"), iri("p"), iri("o")),
		tr(blank("d"), iri("p"), iri("o")),
		tr(blank("a"), iri("p"), blank("b")),
		tr(tr(blank("e"), iri("p"), blank("d")).Quote(), iri("q"), lit("v")),
	}

	got := SpanningSubGraphs(triples)
	require.Len(t, got, 3)
	assert.Equal(t, []rdf.Triple{
		tr(tr(blank("e"), iri("p"), blank("d")).Quote(), iri("q"), lit("v")),
		tr(blank("d"), iri("p"), iri("o")),
	}, got[0])
	assert.Equal(t, []rdf.Triple{tr(iri("s"), iri("p"), iri("o"))}, got[1])
	assert.Equal(t, []rdf.Triple{
		tr(blank("a"), iri("p"), blank("b")),
		tr(blank("b"), iri("p"), blank("c")),
	}, got[2])
}
