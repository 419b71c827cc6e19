package graph

import "github.com/geoknoesis/rdfstore/rdf"

// pairKey is the key of the compound indexes. A and B hold the two
// constrained positions in subject, predicate, object order.
type pairKey struct {
	A, B rdf.Term
}

type tripleSet map[rdf.Triple]struct{}

// pattern is a triple pattern where nil positions are unbound.
type pattern struct {
	s, p, o rdf.Term
}

func (p pattern) matches(t rdf.Triple) bool {
	return (p.s == nil || p.s == t.S) &&
		(p.p == nil || p.p == t.P) &&
		(p.o == nil || p.o == t.O)
}

// indexes holds the secondary indexes for one side of a collection,
// either asserted or quoted triples. Disabled indexes stay nil.
type indexes struct {
	enabled    IndexSet
	s, p, o    map[rdf.Term]tripleSet
	sp, so, po map[pairKey]tripleSet
}

func newIndexes(enabled IndexSet) *indexes {
	ix := &indexes{enabled: enabled}
	if enabled.Has(IndexSubject) {
		ix.s = make(map[rdf.Term]tripleSet)
	}
	if enabled.Has(IndexPredicate) {
		ix.p = make(map[rdf.Term]tripleSet)
	}
	if enabled.Has(IndexObject) {
		ix.o = make(map[rdf.Term]tripleSet)
	}
	if enabled.Has(IndexSubjectPredicate) {
		ix.sp = make(map[pairKey]tripleSet)
	}
	if enabled.Has(IndexSubjectObject) {
		ix.so = make(map[pairKey]tripleSet)
	}
	if enabled.Has(IndexPredicateObject) {
		ix.po = make(map[pairKey]tripleSet)
	}
	return ix
}

func (ix *indexes) insert(t rdf.Triple) {
	addTerm(ix.s, t.S, t)
	addTerm(ix.p, t.P, t)
	addTerm(ix.o, t.O, t)
	addPair(ix.sp, pairKey{t.S, t.P}, t)
	addPair(ix.so, pairKey{t.S, t.O}, t)
	addPair(ix.po, pairKey{t.P, t.O}, t)
}

func (ix *indexes) remove(t rdf.Triple) {
	removeTerm(ix.s, t.S, t)
	removeTerm(ix.p, t.P, t)
	removeTerm(ix.o, t.O, t)
	removePair(ix.sp, pairKey{t.S, t.P}, t)
	removePair(ix.so, pairKey{t.S, t.O}, t)
	removePair(ix.po, pairKey{t.P, t.O}, t)
}

// lookup returns the narrowest indexed candidate set for the pattern. ok is
// false when no enabled index covers any bound position; exact is true when
// every triple in the set matches the pattern without further filtering.
func (ix *indexes) lookup(pat pattern) (set tripleSet, exact, ok bool) {
	bound := 0
	for _, term := range [3]rdf.Term{pat.s, pat.p, pat.o} {
		if term != nil {
			bound++
		}
	}
	if bound == 2 {
		switch {
		case pat.s != nil && pat.p != nil && ix.sp != nil:
			return ix.sp[pairKey{pat.s, pat.p}], true, true
		case pat.s != nil && pat.o != nil && ix.so != nil:
			return ix.so[pairKey{pat.s, pat.o}], true, true
		case pat.p != nil && pat.o != nil && ix.po != nil:
			return ix.po[pairKey{pat.p, pat.o}], true, true
		}
	}
	exact = bound == 1
	// Prefer the most selective single-term index: subject, object, predicate.
	switch {
	case pat.s != nil && ix.s != nil:
		return ix.s[pat.s], exact, true
	case pat.o != nil && ix.o != nil:
		return ix.o[pat.o], exact, true
	case pat.p != nil && ix.p != nil:
		return ix.p[pat.p], exact, true
	}
	return nil, false, false
}

// keys returns the key set of a single-term index, or nil if it is disabled.
func (ix *indexes) keys(position IndexSet) (map[rdf.Term]tripleSet, bool) {
	switch position {
	case IndexSubject:
		return ix.s, ix.s != nil
	case IndexPredicate:
		return ix.p, ix.p != nil
	case IndexObject:
		return ix.o, ix.o != nil
	}
	return nil, false
}

func (ix *indexes) sizes() map[string]int {
	out := make(map[string]int, 6)
	if ix.s != nil {
		out["s"] = len(ix.s)
	}
	if ix.p != nil {
		out["p"] = len(ix.p)
	}
	if ix.o != nil {
		out["o"] = len(ix.o)
	}
	if ix.sp != nil {
		out["sp"] = len(ix.sp)
	}
	if ix.so != nil {
		out["so"] = len(ix.so)
	}
	if ix.po != nil {
		out["po"] = len(ix.po)
	}
	return out
}

func addTerm(m map[rdf.Term]tripleSet, key rdf.Term, t rdf.Triple) {
	if m == nil {
		return
	}
	set, ok := m[key]
	if !ok {
		set = make(tripleSet, 1)
		m[key] = set
	}
	set[t] = struct{}{}
}

func removeTerm(m map[rdf.Term]tripleSet, key rdf.Term, t rdf.Triple) {
	if m == nil {
		return
	}
	if set, ok := m[key]; ok {
		delete(set, t)
		if len(set) == 0 {
			delete(m, key)
		}
	}
}

func addPair(m map[pairKey]tripleSet, key pairKey, t rdf.Triple) {
	if m == nil {
		return
	}
	set, ok := m[key]
	if !ok {
		set = make(tripleSet, 1)
		m[key] = set
	}
	set[t] = struct{}{}
}

func removePair(m map[pairKey]tripleSet, key pairKey, t rdf.Triple) {
	if m == nil {
		return
	}
	if set, ok := m[key]; ok {
		delete(set, t)
		if len(set) == 0 {
			delete(m, key)
		}
	}
}
