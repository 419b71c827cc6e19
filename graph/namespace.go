package graph

import (
	"sort"
	"strings"

	"github.com/geoknoesis/rdfstore/rdf"
)

// NamespaceMap maps prefixes to namespace IRIs.
type NamespaceMap struct {
	prefixes map[string]rdf.IRI
}

// NewNamespaceMap creates an empty map.
func NewNamespaceMap() *NamespaceMap {
	return &NamespaceMap{prefixes: make(map[string]rdf.IRI)}
}

// Add binds prefix to ns, replacing any existing binding.
func (n *NamespaceMap) Add(prefix string, ns rdf.IRI) {
	n.prefixes[prefix] = ns
}

// Remove drops the binding for prefix.
func (n *NamespaceMap) Remove(prefix string) {
	delete(n.prefixes, prefix)
}

// Get returns the namespace bound to prefix.
func (n *NamespaceMap) Get(prefix string) (rdf.IRI, bool) {
	ns, ok := n.prefixes[prefix]
	return ns, ok
}

// Prefixes returns the bound prefixes in sorted order.
func (n *NamespaceMap) Prefixes() []string {
	out := make([]string, 0, len(n.prefixes))
	for p := range n.prefixes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of bindings.
func (n *NamespaceMap) Len() int { return len(n.prefixes) }

// Import copies the bindings of other whose prefixes are not bound here.
func (n *NamespaceMap) Import(other *NamespaceMap) {
	if other == nil {
		return
	}
	for p, ns := range other.prefixes {
		if _, exists := n.prefixes[p]; !exists {
			n.prefixes[p] = ns
		}
	}
}

// Expand resolves a prefixed name such as "ex:thing".
func (n *NamespaceMap) Expand(qname string) (rdf.IRI, bool) {
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok {
		return rdf.IRI{}, false
	}
	ns, ok := n.prefixes[prefix]
	if !ok {
		return rdf.IRI{}, false
	}
	return rdf.IRI{Value: ns.Value + local}, true
}

// Compact returns the shortest prefixed form of iri, if any binding applies.
func (n *NamespaceMap) Compact(iri rdf.IRI) (string, bool) {
	best, bestLen := "", 0
	for _, p := range n.Prefixes() {
		ns := n.prefixes[p].Value
		if len(ns) > bestLen && strings.HasPrefix(iri.Value, ns) {
			best, bestLen = p, len(ns)
		}
	}
	if bestLen == 0 {
		return "", false
	}
	return best + ":" + iri.Value[bestLen:], true
}
