package castore

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdfstore/canon"
	"github.com/geoknoesis/rdfstore/graph"
	"github.com/geoknoesis/rdfstore/rdf"
)

func iri(v string) rdf.IRI          { return rdf.IRI{Value: "urn:" + v} }
func blank(id string) rdf.BlankNode { return rdf.BlankNode{ID: id} }

func chain(a, b string) []rdf.Quad {
	return []rdf.Quad{
		{S: blank(a), P: iri("knows"), O: blank(b)},
		{S: blank(b), P: iri("name"), O: rdf.Literal{Lexical: "bob"}},
		{S: iri("s"), P: iri("p"), O: blank(a), G: iri("g")},
	}
}

func openStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorePutDeduplicatesEquivalentDatasets(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	d1, created, err := s.PutQuads(ctx, chain("x", "y"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, d1, 64)

	d2, created, err := s.PutQuads(ctx, chain("other", "names"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, d1, d2)

	d3, created, err := s.PutQuads(ctx, chain("x", "x2")[:2])
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, d1, d3)

	digests, err := s.Digests()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{d1, d3}, digests)
}

func TestStoreGetReturnsCanonicalDataset(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	ds, err := graph.DatasetFromQuads(chain("x", "y"))
	require.NoError(t, err)
	want, err := canon.Canonicalize(ds)
	require.NoError(t, err)

	digest, _, err := s.Put(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, want.Hash(), digest)

	nquads, ok, err := s.GetNQuads(digest)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.SerializedNQuads(), nquads)

	got, ok, err := s.Get(ctx, digest)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Output.Quads(), got.Quads())

	orig, err := graph.DatasetFromQuads(chain("x", "y"))
	require.NoError(t, err)
	g1, _ := orig.Graph(iri("g"))
	g2, ok := got.Graph(iri("g"))
	require.True(t, ok)
	assert.True(t, g1.Equals(g2))
}

func TestStoreMissingDigest(t *testing.T) {
	s := openStore(t)

	_, ok, err := s.Get(context.Background(), "deadbeef")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Has("deadbeef")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Delete("deadbeef")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreDelete(t *testing.T) {
	s := openStore(t)
	digest, _, err := s.PutQuads(context.Background(), chain("a", "b"))
	require.NoError(t, err)

	ok, err := s.Has(digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Has(digest)
	require.NoError(t, err)
	assert.False(t, ok)

	digests, err := s.Digests()
	require.NoError(t, err)
	assert.Empty(t, digests)
}

func TestStoreKeyPrefixesAreIsolated(t *testing.T) {
	s := openStore(t, WithKeyPrefix("a/"))
	digest, _, err := s.PutQuads(context.Background(), chain("a", "b"))
	require.NoError(t, err)

	digests, err := s.Digests()
	require.NoError(t, err)
	assert.Equal(t, []string{digest}, digests)
	assert.Equal(t, []byte("a/"+digest), s.key(digest))
}

func TestStoreCanonicalizerOptions(t *testing.T) {
	s := openStore(t, WithCanonicalizerOptions(canon.WithHashAlgorithm(canon.SHA384)))
	digest, _, err := s.PutQuads(context.Background(), chain("a", "b"))
	require.NoError(t, err)
	assert.Len(t, digest, 96)

	limited := openStore(t, WithCanonicalizerOptions(canon.WithMaxWork(1)))
	triangle := []rdf.Quad{
		{S: blank("a"), P: iri("next"), O: blank("b")},
		{S: blank("b"), P: iri("next"), O: blank("c")},
		{S: blank("c"), P: iri("next"), O: blank("a")},
	}
	_, _, err = limited.PutQuads(context.Background(), triangle)
	assert.ErrorIs(t, err, rdf.ErrWorkLimit)
}

func TestStoreLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := openStore(t, WithLogger(logger))

	_, _, err := s.PutQuads(context.Background(), chain("a", "b"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "castore put")
}

func TestStoreClosed(t *testing.T) {
	s, err := Open()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, _, err = s.PutQuads(context.Background(), chain("a", "b"))
	assert.ErrorIs(t, err, rdf.ErrClosed)
	_, err = s.Has("x")
	assert.ErrorIs(t, err, rdf.ErrClosed)
	_, err = s.Digests()
	assert.ErrorIs(t, err, rdf.ErrClosed)
}
