package graph

import (
	"fmt"
	"sort"

	"github.com/geoknoesis/rdfstore/rdf"
)

// Dataset is a set of graphs keyed by graph name. The default graph has the
// nil name and always exists.
type Dataset struct {
	graphs map[rdf.Term]*Graph
	opts   []GraphOption
}

// NewDataset creates a dataset holding an empty default graph. The options
// are applied to every graph the dataset creates; WithName and WithStore are
// overridden per graph.
func NewDataset(opts ...GraphOption) *Dataset {
	d := &Dataset{graphs: make(map[rdf.Term]*Graph), opts: opts}
	d.graphs[nil] = d.newGraph(nil)
	return d
}

// DatasetFromQuads builds a dataset from quads, creating graphs as needed.
func DatasetFromQuads(quads []rdf.Quad, opts ...GraphOption) (*Dataset, error) {
	d := NewDataset(opts...)
	for _, q := range quads {
		if _, err := d.AddQuad(q); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

func (d *Dataset) newGraph(name rdf.Term) *Graph {
	opts := make([]GraphOption, 0, len(d.opts)+2)
	opts = append(opts, d.opts...)
	opts = append(opts, WithStore(nil), WithName(name))
	// The name was validated by the caller.
	return MustNew(opts...)
}

func checkGraphName(name rdf.Term) error {
	if name == nil {
		return nil
	}
	if k := name.Kind(); k != rdf.TermIRI && k != rdf.TermBlankNode {
		return fmt.Errorf("%w: %s", rdf.ErrInvalidGraphName, rdf.FormatTerm(name))
	}
	return nil
}

// AddGraph adds g under its own name. It fails with rdf.ErrDuplicateGraph
// when a non-empty graph of that name is present; an empty graph of that
// name is replaced.
func (d *Dataset) AddGraph(g *Graph) error {
	if g == nil {
		return rdf.ErrNilTerm
	}
	name := g.Name()
	if err := checkGraphName(name); err != nil {
		return err
	}
	if cur, ok := d.graphs[name]; ok {
		if cur == g {
			return nil
		}
		if !cur.IsEmpty() {
			return fmt.Errorf("%w: %s", rdf.ErrDuplicateGraph, graphLabel(name))
		}
		cur.Close()
	}
	d.graphs[name] = g
	return nil
}

// Graph returns the graph with the given name; nil names the default graph.
func (d *Dataset) Graph(name rdf.Term) (*Graph, bool) {
	g, ok := d.graphs[name]
	return g, ok
}

// GraphOrCreate returns the graph with the given name, creating an empty one
// if needed.
func (d *Dataset) GraphOrCreate(name rdf.Term) (*Graph, error) {
	if g, ok := d.graphs[name]; ok {
		return g, nil
	}
	if err := checkGraphName(name); err != nil {
		return nil, err
	}
	g := d.newGraph(name)
	d.graphs[name] = g
	return g, nil
}

// RemoveGraph closes and removes a named graph. Removing the default graph
// empties it instead.
func (d *Dataset) RemoveGraph(name rdf.Term) (bool, error) {
	g, ok := d.graphs[name]
	if !ok {
		return false, nil
	}
	if name == nil {
		return true, g.Clear()
	}
	delete(d.graphs, name)
	return true, g.Close()
}

// Names returns the graph names: nil for the default graph first, then the
// named graphs in N-Triples order.
func (d *Dataset) Names() []rdf.Term {
	names := make([]rdf.Term, 0, len(d.graphs))
	for name := range d.graphs {
		if name != nil {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return rdf.FormatTerm(names[i]) < rdf.FormatTerm(names[j]) })
	return append([]rdf.Term{nil}, names...)
}

// Graphs returns the graphs in Names order.
func (d *Dataset) Graphs() []*Graph {
	names := d.Names()
	out := make([]*Graph, len(names))
	for i, name := range names {
		out[i] = d.graphs[name]
	}
	return out
}

// AddQuad asserts q's triple in the graph named by q.G.
func (d *Dataset) AddQuad(q rdf.Quad) (bool, error) {
	if err := q.Validate(); err != nil {
		return false, err
	}
	g, err := d.GraphOrCreate(q.G)
	if err != nil {
		return false, err
	}
	return g.Assert(q.ToTriple())
}

// RemoveQuad retracts q's triple from the graph named by q.G.
func (d *Dataset) RemoveQuad(q rdf.Quad) (bool, error) {
	g, ok := d.graphs[q.G]
	if !ok {
		return false, nil
	}
	return g.Retract(q.ToTriple())
}

// Quads returns every quad, graph by graph in Names order and sorted within
// each graph.
func (d *Dataset) Quads() []rdf.Quad {
	var out []rdf.Quad
	for _, name := range d.Names() {
		triples := d.graphs[name].Triples()
		sortTriples(triples)
		for _, t := range triples {
			out = append(out, t.ToQuadInGraph(name))
		}
	}
	return out
}

// Len returns the number of quads.
func (d *Dataset) Len() int {
	n := 0
	for _, g := range d.graphs {
		n += g.Len()
	}
	return n
}

// Close closes every graph.
func (d *Dataset) Close() error {
	var first error
	for _, g := range d.graphs {
		if err := g.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func graphLabel(name rdf.Term) string {
	if name == nil {
		return "default graph"
	}
	return rdf.FormatTerm(name)
}
