package graph

import (
	"sort"

	"github.com/geoknoesis/rdfstore/rdf"
)

// SubGraph reports whether every triple of sub has a counterpart in super
// under an injective renaming of sub's blank nodes, and returns that
// renaming. A blank node may only map to a node used at least as often.
func (m *Matcher) SubGraph(sub, super []rdf.Triple) (Mapping, bool, error) {
	ss, sp := newSide(sub), newSide(super)
	if len(ss.all) > len(sp.all) {
		return nil, false, nil
	}
	for t := range ss.all {
		if t.IsGround() {
			if _, ok := sp.all[t]; !ok {
				return nil, false, nil
			}
		} else {
			ss.addNonGround(t)
		}
	}
	if len(ss.triples) == 0 {
		return Mapping{}, true, nil
	}
	for t := range sp.all {
		if !t.IsGround() {
			sp.addNonGround(t)
		}
	}
	if len(ss.triples) > len(sp.triples) || len(ss.degree) > len(sp.degree) {
		return nil, false, nil
	}
	sortSide(ss)
	sortSide(sp)
	if !degreesDominated(ss, sp) {
		return nil, false, nil
	}

	identity := true
	for _, t := range ss.triples {
		if _, ok := sp.all[t]; !ok {
			identity = false
			break
		}
	}
	if identity {
		return identityMapping(ss.nodes), true, nil
	}

	st := &matchState{a: ss, b: sp, mapping: make(Mapping), used: make(map[rdf.BlankNode]rdf.BlankNode)}
	atLeast := func(x, y rdf.BlankNode) bool { return sp.degree[y] >= ss.degree[x] }
	if !st.propagate(atLeast) {
		return nil, false, nil
	}
	if len(st.mapping) == len(ss.nodes) && st.verifySub() {
		return st.mapping, true, nil
	}
	if len(st.mapping) == len(ss.nodes) {
		st.reset(nil)
	}

	m.logger.Debug("sub-graph match falling back to search",
		"blank_nodes", len(ss.nodes), "mapped", len(st.mapping))
	found, err := m.search(st, atLeast, containedSignatures, st.verifySub)
	if err != nil || !found {
		return nil, false, err
	}
	return st.mapping, true, nil
}

// degreesDominated checks that, with both degree lists sorted in descending
// order, every sub degree is at most the super degree at the same rank. An
// injective degree-respecting mapping cannot exist otherwise.
func degreesDominated(sub, super *side) bool {
	ds := make([]int, 0, len(sub.nodes))
	for _, b := range sub.nodes {
		ds = append(ds, sub.degree[b])
	}
	dp := make([]int, 0, len(super.nodes))
	for _, b := range super.nodes {
		dp = append(dp, super.degree[b])
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ds)))
	sort.Sort(sort.Reverse(sort.IntSlice(dp)))
	for i, d := range ds {
		if d > dp[i] {
			return false
		}
	}
	return true
}
