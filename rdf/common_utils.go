package rdf

import "strconv"

// BlankNodeGenerator hands out monotonically numbered blank nodes.
//
// InUse, when set, is consulted for every candidate so a generator scoped to
// a graph never returns an identifier the graph already mentions. The
// generator is not safe for concurrent use.
type BlankNodeGenerator struct {
	Prefix  string
	InUse   func(id string) bool
	counter uint64
}

// NewBlankNodeGenerator creates a generator issuing prefix1, prefix2, ...
func NewBlankNodeGenerator(prefix string) *BlankNodeGenerator {
	if prefix == "" {
		prefix = "b"
	}
	return &BlankNodeGenerator{Prefix: prefix}
}

// Next returns a fresh blank node.
func (g *BlankNodeGenerator) Next() BlankNode {
	for {
		g.counter++
		id := g.Prefix + strconv.FormatUint(g.counter, 10)
		if g.InUse == nil || !g.InUse(id) {
			return BlankNode{ID: id}
		}
	}
}

// Issued returns how many identifiers have been considered so far.
func (g *BlankNodeGenerator) Issued() uint64 { return g.counter }
