package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geoknoesis/rdfstore/rdf"
)

func TestNamespaceMap(t *testing.T) {
	ns := NewNamespaceMap()
	ns.Add("ex", rdf.IRI{Value: "http://example.org/"})
	ns.Add("exv", rdf.IRI{Value: "http://example.org/vocab#"})

	got, ok := ns.Expand("ex:thing")
	assert.True(t, ok)
	assert.Equal(t, "http://example.org/thing", got.Value)
	_, ok = ns.Expand("nope:thing")
	assert.False(t, ok)
	_, ok = ns.Expand("plain")
	assert.False(t, ok)

	qname, ok := ns.Compact(rdf.IRI{Value: "http://example.org/vocab#term"})
	assert.True(t, ok)
	assert.Equal(t, "exv:term", qname)
	_, ok = ns.Compact(rdf.IRI{Value: "urn:x"})
	assert.False(t, ok)

	other := NewNamespaceMap()
	other.Add("ex", rdf.IRI{Value: "http://other.org/"})
	other.Add("foaf", rdf.IRI{Value: "http://xmlns.com/foaf/0.1/"})
	ns.Import(other)
	ns.Import(nil)
	assert.Equal(t, []string{"ex", "exv", "foaf"}, ns.Prefixes())
	ex, _ := ns.Get("ex")
	assert.Equal(t, "http://example.org/", ex.Value)

	ns.Remove("exv")
	assert.Equal(t, 2, ns.Len())
}
