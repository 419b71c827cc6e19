package graph

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdfstore/rdf"
)

// relabel renames every blank node consistently and shuffles the triples.
func relabel(r *rand.Rand, triples []rdf.Triple, prefix string) []rdf.Triple {
	names := make(map[rdf.BlankNode]rdf.Term)
	out := make([]rdf.Triple, len(triples))
	for i, t := range triples {
		out[i] = t.MapBlankNodes(func(b rdf.BlankNode) rdf.Term {
			if n, ok := names[b]; ok {
				return n
			}
			n := blank(prefix + strconv.Itoa(len(names)))
			names[b] = n
			return n
		})
	}
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func cycle(prefix string, n int) []rdf.Triple {
	out := make([]rdf.Triple, n)
	for i := range out {
		out[i] = tr(blank(prefix+strconv.Itoa(i)), iri("next"), blank(prefix+strconv.Itoa((i+1)%n)))
	}
	return out
}

func assertMapsOnto(t *testing.T, m Mapping, a, b []rdf.Triple) {
	t.Helper()
	require.True(t, m.IsBijection(), describeMapping(m))
	set := tripleSetOf(b)
	for _, x := range a {
		assert.True(t, has(set, m.Apply(x)), "%s maps to %s", x, m.Apply(x))
	}
}

func TestMatcherSimpleIsomorphism(t *testing.T) {
	a := []rdf.Triple{tr(blank("x"), iri("p"), blank("y"))}
	b := []rdf.Triple{tr(blank("m"), iri("p"), blank("n"))}

	m, ok, err := NewMatcher().Equal(a, b)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Mapping{blank("x"): blank("m"), blank("y"): blank("n")}, m)
	assert.Equal(t, "_:x->_:m _:y->_:n", describeMapping(m))
}

func TestMatcherGroundMismatch(t *testing.T) {
	a := []rdf.Triple{tr(iri("s"), iri("p"), iri("o"))}
	b := []rdf.Triple{tr(iri("s"), iri("p"), iri("o2"))}

	_, ok, err := NewMatcher().Equal(a, b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatcherRejects(t *testing.T) {
	tests := []struct {
		name string
		a, b []rdf.Triple
	}{
		{
			name: "different sizes",
			a:    []rdf.Triple{tr(blank("a"), iri("p"), lit("v"))},
			b:    []rdf.Triple{tr(blank("a"), iri("p"), lit("v")), tr(blank("a"), iri("p"), lit("w"))},
		},
		{
			name: "ground versus blank",
			a:    []rdf.Triple{tr(iri("s"), iri("p"), lit("v"))},
			b:    []rdf.Triple{tr(blank("s"), iri("p"), lit("v"))},
		},
		{
			name: "shared versus separate blank",
			a:    []rdf.Triple{tr(blank("a"), iri("p"), lit("1")), tr(blank("a"), iri("p"), lit("2"))},
			b:    []rdf.Triple{tr(blank("a"), iri("p"), lit("1")), tr(blank("b"), iri("p"), lit("2"))},
		},
		{
			name: "two triangles versus a hexagon",
			a:    append(cycle("t", 3), cycle("u", 3)...),
			b:    cycle("h", 6),
		},
		{
			name: "different literal in a cycle",
			a:    append(cycle("c", 4), tr(blank("c0"), iri("label"), lit("x"))),
			b:    append(cycle("d", 4), tr(blank("d0"), iri("label"), lit("y"))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := NewMatcher().Equal(tt.a, tt.b)
			require.NoError(t, err)
			assert.False(t, ok)
			_, ok, err = NewMatcher().Equal(tt.b, tt.a)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestMatcherRelabelInvariance(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	graphs := map[string][]rdf.Triple{
		"random":  randomTriples(r, 300),
		"cycle":   cycle("c", 8),
		"cliques": append(cycle("t", 3), cycle("u", 3)...),
		"quoted": {
			tr(tr(blank("a"), iri("p"), blank("b")).Quote(), iri("says"), blank("c")),
			tr(blank("c"), iri("name"), lit("carol")),
			tr(blank("b"), iri("p"), blank("a")),
		},
	}
	for name, a := range graphs {
		t.Run(name, func(t *testing.T) {
			m, ok, err := NewMatcher().Equal(a, a)
			require.NoError(t, err)
			require.True(t, ok)
			assertMapsOnto(t, m, a, a)

			b := relabel(r, a, "r")
			m, ok, err = NewMatcher().Equal(a, b)
			require.NoError(t, err)
			require.True(t, ok)
			assertMapsOnto(t, m, a, b)

			back, ok, err := NewMatcher().Equal(b, a)
			require.NoError(t, err)
			require.True(t, ok)
			assertMapsOnto(t, back, b, a)
		})
	}
}

func TestMatcherSearchBudget(t *testing.T) {
	a := append(cycle("t", 3), cycle("u", 3)...)
	b := cycle("h", 6)

	_, ok, err := NewMatcher(WithSearchBudget(1)).Equal(a, b)
	assert.ErrorIs(t, err, rdf.ErrSearchBudget)
	assert.Equal(t, rdf.ErrCodeSearchBudget, rdf.Code(err))
	assert.False(t, ok)

	_, ok, err = NewMatcher(WithSearchBudget(100000)).Equal(a, b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatcherSubGraph(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	super := []rdf.Triple{
		tr(blank("m"), iri("p"), blank("n")),
		tr(blank("n"), iri("p"), blank("k")),
		tr(blank("k"), iri("name"), lit("kay")),
		tr(iri("s"), iri("p"), iri("o")),
	}
	sub := []rdf.Triple{tr(blank("x"), iri("p"), blank("y"))}

	m, ok, err := NewMatcher().SubGraph(sub, super)
	require.NoError(t, err)
	require.True(t, ok)
	assertMapsOnto(t, m, sub, super)

	// Monotone in the super graph.
	bigger := append(relabel(r, super, "q"), tr(iri("s"), iri("p"), lit("more")))
	m, ok, err = NewMatcher().SubGraph(sub, bigger)
	require.NoError(t, err)
	require.True(t, ok)
	assertMapsOnto(t, m, sub, bigger)

	// Every graph contains itself and its relabelings.
	_, ok, err = NewMatcher().SubGraph(super, relabel(r, super, "z"))
	require.NoError(t, err)
	assert.True(t, ok)

	chain := []rdf.Triple{
		tr(blank("a"), iri("p"), blank("b")),
		tr(blank("b"), iri("p"), blank("c")),
		tr(blank("c"), iri("name"), lit("kay")),
	}
	_, ok, err = NewMatcher().SubGraph(chain, super)
	require.NoError(t, err)
	assert.True(t, ok)

	for name, s := range map[string][]rdf.Triple{
		"missing ground": {tr(iri("s"), iri("p"), iri("other"))},
		"wrong literal":  {tr(blank("a"), iri("name"), lit("bob"))},
		"too long":       cycle("c", 3),
		"larger":         append(super, tr(blank("extra"), iri("p"), lit("x"))),
	} {
		_, ok, err := NewMatcher().SubGraph(s, super)
		require.NoError(t, err, name)
		assert.False(t, ok, name)
	}
}

func TestMappingApplyLeavesUnmappedNodes(t *testing.T) {
	m := Mapping{blank("a"): blank("x")}
	got := m.Apply(tr(blank("a"), iri("p"), blank("b")))
	assert.Equal(t, tr(blank("x"), iri("p"), blank("b")), got)
	assert.True(t, m.IsBijection())
	assert.False(t, Mapping{blank("a"): blank("x"), blank("b"): blank("x")}.IsBijection())
}
