package graph

import (
	"fmt"
	"log/slog"

	"github.com/geoknoesis/rdfstore/rdf"
)

// Graph is a named set of triples backed by a TripleStore, with a namespace
// map and a blank node generator scoped to the graph.
//
// A Graph owns the store it creates. A store passed in with WithStore is
// borrowed: Close leaves it open. Like Collection, a Graph is safe for
// concurrent reads only.
type Graph struct {
	name       rdf.Term
	store      TripleStore
	ownsStore  bool
	namespaces *NamespaceMap
	blanks     *rdf.BlankNodeGenerator
	blankUse   map[string]int
	listeners  listeners[GraphEvent]
	detach     func()
	logger     *slog.Logger
	closed     bool
}

// New creates an empty graph, or a graph over an existing store.
func New(opts ...GraphOption) (*Graph, error) {
	var o graphOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.name != nil {
		if k := o.name.Kind(); k != rdf.TermIRI && k != rdf.TermBlankNode {
			return nil, fmt.Errorf("%w: %s", rdf.ErrInvalidGraphName, rdf.FormatTerm(o.name))
		}
	}
	g := &Graph{
		name:       o.name,
		store:      o.store,
		namespaces: NewNamespaceMap(),
		blankUse:   make(map[string]int),
		logger:     o.logger,
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.store == nil {
		g.store = NewCollection(o.collection...)
		g.ownsStore = true
	}
	prefix := o.blankPrefix
	if prefix == "" {
		prefix = "autos"
	}
	g.blanks = rdf.NewBlankNodeGenerator(prefix)
	g.blanks.InUse = func(id string) bool { return g.blankUse[id] > 0 }

	for _, t := range g.store.Triples() {
		g.track(t, 1)
	}
	g.detach = g.store.Subscribe(g.onStoreEvent)
	return g, nil
}

// MustNew is New for options known to be valid.
func MustNew(opts ...GraphOption) *Graph {
	g, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// FromTriples builds a graph holding triples.
func FromTriples(triples []rdf.Triple, opts ...GraphOption) (*Graph, error) {
	g, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if _, err := g.AssertAll(triples); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) onStoreEvent(e Event) {
	switch e.Kind {
	case EventAsserted:
		g.track(e.Triple, 1)
		g.listeners.emit(GraphEvent{Kind: TripleAsserted, Graph: g, Triple: e.Triple})
	case EventRetracted:
		g.track(e.Triple, -1)
		g.listeners.emit(GraphEvent{Kind: TripleRetracted, Graph: g, Triple: e.Triple})
	}
}

func (g *Graph) track(t rdf.Triple, delta int) {
	for _, b := range t.BlankNodes() {
		if n := g.blankUse[b.ID] + delta; n > 0 {
			g.blankUse[b.ID] = n
		} else {
			delete(g.blankUse, b.ID)
		}
	}
}

// Name returns the graph name, nil for the default graph.
func (g *Graph) Name() rdf.Term { return g.name }

// Store returns the backing store.
func (g *Graph) Store() TripleStore { return g.store }

// Namespaces returns the graph's namespace map.
func (g *Graph) Namespaces() *NamespaceMap { return g.namespaces }

// Len returns the number of asserted triples.
func (g *Graph) Len() int { return g.store.Count() }

// IsEmpty reports whether the graph has no asserted triples.
func (g *Graph) IsEmpty() bool { return g.store.Count() == 0 }

// Triples returns the asserted triples.
func (g *Graph) Triples() []rdf.Triple { return g.store.Triples() }

// QuotedTriples returns the triples quoted by asserted triples.
func (g *Graph) QuotedTriples() []rdf.Triple { return g.store.QuotedTriples() }

// Contains reports whether t is asserted in the graph.
func (g *Graph) Contains(t rdf.Triple) bool { return g.store.Contains(t) }

// Match delegates a pattern query to the store.
func (g *Graph) Match(s, p, o rdf.Term) ([]rdf.Triple, error) {
	return g.store.Match(s, p, o)
}

// Assert adds t and reports whether it was newly asserted.
func (g *Graph) Assert(t rdf.Triple) (bool, error) {
	if g.closed {
		return false, rdf.ErrClosed
	}
	return g.store.Add(t)
}

// AssertAll adds every triple and returns how many were new. It stops at the
// first invalid triple.
func (g *Graph) AssertAll(triples []rdf.Triple) (int, error) {
	added := 0
	for _, t := range triples {
		ok, err := g.Assert(t)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// Retract removes t and reports whether it was asserted.
func (g *Graph) Retract(t rdf.Triple) (bool, error) {
	if g.closed {
		return false, rdf.ErrClosed
	}
	return g.store.Delete(t)
}

// RetractAll removes every triple and returns how many were asserted.
func (g *Graph) RetractAll(triples []rdf.Triple) (int, error) {
	removed := 0
	for _, t := range triples {
		ok, err := g.Retract(t)
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

// Clear retracts every triple, then fires Cleared.
func (g *Graph) Clear() error {
	if _, err := g.RetractAll(g.store.Triples()); err != nil {
		return err
	}
	g.listeners.emit(GraphEvent{Kind: Cleared, Graph: g})
	return nil
}

// NewBlankNode returns a blank node that the graph does not mention.
func (g *Graph) NewBlankNode() rdf.BlankNode { return g.blanks.Next() }

// BlankNodes returns the blank nodes mentioned by asserted triples.
func (g *Graph) BlankNodes() []rdf.BlankNode {
	out := make([]rdf.BlankNode, 0, len(g.blankUse))
	for id := range g.blankUse {
		out = append(out, rdf.BlankNode{ID: id})
	}
	return out
}

// Nodes returns the distinct subjects and objects of asserted triples.
func (g *Graph) Nodes() []rdf.Term {
	seen := make(map[rdf.Term]struct{})
	var out []rdf.Term
	for _, set := range [][]rdf.Term{g.store.SubjectNodes(), g.store.ObjectNodes()} {
		for _, n := range set {
			if _, dup := seen[n]; !dup {
				seen[n] = struct{}{}
				out = append(out, n)
			}
		}
	}
	return out
}

// QuotedNodes returns the distinct subjects and objects of quoted triples.
func (g *Graph) QuotedNodes() []rdf.Term {
	seen := make(map[rdf.Term]struct{})
	var out []rdf.Term
	for _, t := range g.store.QuotedTriples() {
		for _, n := range []rdf.Term{t.S, t.O} {
			if _, dup := seen[n]; !dup {
				seen[n] = struct{}{}
				out = append(out, n)
			}
		}
	}
	return out
}

// Merge asserts every triple of other into g. Blank nodes of other are
// replaced by fresh blank nodes of g, consistently across the merge, so the
// two graphs' blank nodes never collide. When g is empty the triples are
// copied as they are. Namespaces of other that g does not bind are imported.
func (g *Graph) Merge(other *Graph) error {
	if other == nil {
		return rdf.ErrNilTerm
	}
	if other == g || other.store == g.store {
		return rdf.ErrSelfMerge
	}
	g.namespaces.Import(other.namespaces)
	triples := other.Triples()
	if !g.IsEmpty() {
		fresh := make(map[rdf.BlankNode]rdf.Term)
		rename := func(b rdf.BlankNode) rdf.Term {
			if n, ok := fresh[b]; ok {
				return n
			}
			n := g.NewBlankNode()
			fresh[b] = n
			return n
		}
		for i, t := range triples {
			triples[i] = t.MapBlankNodes(rename)
		}
		g.logger.Debug("merge remapped blank nodes", "count", len(fresh))
	}
	if _, err := g.AssertAll(triples); err != nil {
		return err
	}
	g.listeners.emit(GraphEvent{Kind: Merged, Graph: g, Source: other})
	return nil
}

// Listen registers a listener for graph events and returns a function that
// removes it.
func (g *Graph) Listen(l GraphListener) func() {
	return g.listeners.add(l)
}

// Equals reports whether g and other are equal up to blank node renaming.
func (g *Graph) Equals(other *Graph) bool {
	_, ok := g.EqualsWithMapping(other)
	return ok
}

// EqualsWithMapping is Equals returning the witnessing mapping from g's blank
// nodes to other's.
func (g *Graph) EqualsWithMapping(other *Graph) (Mapping, bool) {
	if other == nil {
		return nil, false
	}
	if g == other {
		return identityMapping(g.BlankNodes()), true
	}
	m, ok, _ := NewMatcher(WithMatcherLogger(g.logger)).Equal(g.Triples(), other.Triples())
	return m, ok
}

// IsSubGraphOf reports whether g maps into other.
func (g *Graph) IsSubGraphOf(other *Graph) bool {
	_, ok := g.IsSubGraphOfWithMapping(other)
	return ok
}

// IsSubGraphOfWithMapping is IsSubGraphOf returning the mapping from g's
// blank nodes to other's.
func (g *Graph) IsSubGraphOfWithMapping(other *Graph) (Mapping, bool) {
	if other == nil {
		return nil, false
	}
	if g == other {
		return identityMapping(g.BlankNodes()), true
	}
	m, ok, _ := NewMatcher(WithMatcherLogger(g.logger)).SubGraph(g.Triples(), other.Triples())
	return m, ok
}

// HasSubGraph reports whether sub maps into g.
func (g *Graph) HasSubGraph(sub *Graph) bool {
	if sub == nil {
		return false
	}
	return sub.IsSubGraphOf(g)
}

// HasSubGraphWithMapping is HasSubGraph returning the mapping from sub's
// blank nodes to g's.
func (g *Graph) HasSubGraphWithMapping(sub *Graph) (Mapping, bool) {
	if sub == nil {
		return nil, false
	}
	return sub.IsSubGraphOfWithMapping(g)
}

// Close detaches the graph from its store and closes the store if the graph
// created it.
func (g *Graph) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if g.detach != nil {
		g.detach()
	}
	g.listeners.clear()
	if g.ownsStore {
		return g.store.Close()
	}
	return nil
}

func identityMapping(nodes []rdf.BlankNode) Mapping {
	m := make(Mapping, len(nodes))
	for _, b := range nodes {
		m[b] = b
	}
	return m
}
