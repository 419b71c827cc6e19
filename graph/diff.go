package graph

import (
	"sort"

	"github.com/geoknoesis/rdfstore/rdf"
)

// Diff describes how to get from one graph to another.
//
// Ground triples are compared directly. Triples with blank nodes are grouped
// into minimal spanning sub-graphs (MSGs): the connected components formed
// by triples sharing blank nodes. Each MSG of the source is paired with an
// equal MSG of the target; whatever cannot be paired is reported as added or
// removed as a whole.
type Diff struct {
	Equal          bool
	Mapping        Mapping
	AddedTriples   []rdf.Triple
	RemovedTriples []rdf.Triple
	AddedMSGs      [][]rdf.Triple
	RemovedMSGs    [][]rdf.Triple
}

// IsEmpty reports whether the diff records no change.
func (d *Diff) IsEmpty() bool {
	return len(d.AddedTriples) == 0 && len(d.RemovedTriples) == 0 &&
		len(d.AddedMSGs) == 0 && len(d.RemovedMSGs) == 0
}

// Diff computes the difference from g to other.
func (g *Graph) Diff(other *Graph) (*Diff, error) {
	if other == nil {
		return nil, rdf.ErrNilTerm
	}
	return NewMatcher(WithMatcherLogger(g.logger)).Diff(g.Triples(), other.Triples())
}

// Diff computes the difference from triple set a to triple set b.
func (m *Matcher) Diff(a, b []rdf.Triple) (*Diff, error) {
	mapping, equal, err := m.Equal(a, b)
	if err != nil {
		return nil, err
	}
	if equal {
		return &Diff{Equal: true, Mapping: mapping}, nil
	}

	d := &Diff{Mapping: make(Mapping)}
	setA, setB := tripleSetOf(a), tripleSetOf(b)
	var restA, restB []rdf.Triple
	for t := range setA {
		switch {
		case !t.IsGround():
			restA = append(restA, t)
		case !has(setB, t):
			d.RemovedTriples = append(d.RemovedTriples, t)
		}
	}
	for t := range setB {
		switch {
		case !t.IsGround():
			restB = append(restB, t)
		case !has(setA, t):
			d.AddedTriples = append(d.AddedTriples, t)
		}
	}
	sortTriples(d.AddedTriples)
	sortTriples(d.RemovedTriples)

	msgsA, msgsB := SpanningSubGraphs(restA), SpanningSubGraphs(restB)
	paired := make([]bool, len(msgsB))
	for _, msgA := range msgsA {
		matched := false
		for j, msgB := range msgsB {
			if paired[j] || len(msgA) != len(msgB) {
				continue
			}
			mp, ok, err := m.Equal(msgA, msgB)
			if err != nil {
				return nil, err
			}
			if ok {
				paired[j], matched = true, true
				for k, v := range mp {
					d.Mapping[k] = v
				}
				break
			}
		}
		if !matched {
			d.RemovedMSGs = append(d.RemovedMSGs, msgA)
		}
	}
	for j, msgB := range msgsB {
		if !paired[j] {
			d.AddedMSGs = append(d.AddedMSGs, msgB)
		}
	}
	return d, nil
}

// SpanningSubGraphs splits triples into groups connected through shared
// blank nodes. Ground triples each form their own group. Groups and the
// triples inside them are sorted by their N-Triples form.
func SpanningSubGraphs(triples []rdf.Triple) [][]rdf.Triple {
	parent := make(map[rdf.BlankNode]rdf.BlankNode)
	var find func(b rdf.BlankNode) rdf.BlankNode
	find = func(b rdf.BlankNode) rdf.BlankNode {
		p, ok := parent[b]
		if !ok {
			parent[b] = b
			return b
		}
		if p == b {
			return b
		}
		root := find(p)
		parent[b] = root
		return root
	}
	for _, t := range triples {
		bs := t.BlankNodes()
		for i := 1; i < len(bs); i++ {
			ra, rb := find(bs[0]), find(bs[i])
			if ra != rb {
				parent[rb] = ra
			}
		}
		if len(bs) == 1 {
			find(bs[0])
		}
	}

	groups := make(map[rdf.BlankNode][]rdf.Triple)
	var out [][]rdf.Triple
	for _, t := range triples {
		bs := t.BlankNodes()
		if len(bs) == 0 {
			out = append(out, []rdf.Triple{t})
			continue
		}
		root := find(bs[0])
		groups[root] = append(groups[root], t)
	}
	for _, grp := range groups {
		sortTriples(grp)
		out = append(out, grp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0].String() < out[j][0].String() })
	return out
}

func tripleSetOf(triples []rdf.Triple) map[rdf.Triple]struct{} {
	set := make(map[rdf.Triple]struct{}, len(triples))
	for _, t := range triples {
		set[t] = struct{}{}
	}
	return set
}

func has(set map[rdf.Triple]struct{}, t rdf.Triple) bool {
	_, ok := set[t]
	return ok
}

func sortTriples(ts []rdf.Triple) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].String() < ts[j].String() })
}
