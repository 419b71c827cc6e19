package graph

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/geoknoesis/rdfstore/rdf"
)

// Mapping maps blank nodes of one graph to blank nodes of another.
type Mapping map[rdf.BlankNode]rdf.BlankNode

// IsBijection reports whether no two keys share an image.
func (m Mapping) IsBijection() bool {
	seen := make(map[rdf.BlankNode]struct{}, len(m))
	for _, v := range m {
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// Apply rewrites the blank nodes of t through the mapping. Unmapped blank
// nodes are left unchanged.
func (m Mapping) Apply(t rdf.Triple) rdf.Triple {
	return t.MapBlankNodes(func(b rdf.BlankNode) rdf.Term {
		if v, ok := m[b]; ok {
			return v
		}
		return b
	})
}

func (m Mapping) clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithSearchBudget bounds the number of candidate assignments the
// brute-force phase may try. When the budget runs out the match is
// inconclusive and rdf.ErrSearchBudget is returned. Zero means unbounded.
func WithSearchBudget(n int) MatcherOption {
	return func(m *Matcher) { m.budget = n }
}

// WithMatcherLogger sets the logger for phase diagnostics.
func WithMatcherLogger(logger *slog.Logger) MatcherOption {
	return func(m *Matcher) { m.logger = logger }
}

// Matcher decides whether two triple sets are equal, or one contains the
// other, up to a renaming of blank nodes.
//
// Equality is settled in stages that each either decide the answer or fix
// more of the mapping: ground triples, blank node degree classes, nodes
// used once, nodes with a unique degree, then propagation along triples
// whose other blank nodes are already mapped. Whatever remains is searched
// by backtracking over candidates of equal degree and equal local
// signature, pruning an assignment as soon as a fully mapped triple has no
// counterpart.
//
// A Matcher holds no state between calls and may be shared.
type Matcher struct {
	budget int
	logger *slog.Logger
}

// NewMatcher creates a matcher.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// side is one graph prepared for matching: its non-ground triples and the
// blank node statistics over them.
type side struct {
	all     map[rdf.Triple]struct{}
	triples []rdf.Triple
	blanks  [][]rdf.BlankNode
	nodes   []rdf.BlankNode
	degree  map[rdf.BlankNode]int
	byNode  map[rdf.BlankNode][]int
	byPred  map[rdf.Term][]int
}

func newSide(triples []rdf.Triple) *side {
	s := &side{
		all:    make(map[rdf.Triple]struct{}, len(triples)),
		degree: make(map[rdf.BlankNode]int),
		byNode: make(map[rdf.BlankNode][]int),
		byPred: make(map[rdf.Term][]int),
	}
	for _, t := range triples {
		s.all[t] = struct{}{}
	}
	return s
}

// addNonGround records a triple that mentions at least one blank node.
func (s *side) addNonGround(t rdf.Triple) {
	i := len(s.triples)
	s.triples = append(s.triples, t)
	bs := t.BlankNodes()
	s.blanks = append(s.blanks, bs)
	for _, b := range bs {
		if _, ok := s.degree[b]; !ok {
			s.nodes = append(s.nodes, b)
		}
		s.byNode[b] = append(s.byNode[b], i)
	}
	for _, term := range t.Terms() {
		countOccurrences(term, s.degree)
	}
	s.byPred[t.P] = append(s.byPred[t.P], i)
}

func countOccurrences(term rdf.Term, degree map[rdf.BlankNode]int) {
	switch v := term.(type) {
	case rdf.BlankNode:
		degree[v]++
	case rdf.TripleTerm:
		countOccurrences(v.S, degree)
		countOccurrences(v.P, degree)
		countOccurrences(v.O, degree)
	}
}

// signature describes the triples around b with b written as * and other
// blank nodes as _. Any renaming that maps one graph onto another preserves
// it.
func (s *side) signature(b rdf.BlankNode) []string {
	mask := func(x rdf.BlankNode) rdf.Term {
		if x == b {
			return rdf.Variable{Name: "*"}
		}
		return rdf.Variable{Name: "_"}
	}
	idx := s.byNode[b]
	out := make([]string, len(idx))
	for i, ti := range idx {
		out[i] = s.triples[ti].MapBlankNodes(mask).String()
	}
	sort.Strings(out)
	return out
}

// Equal reports whether a and b hold the same triples up to blank node
// renaming, and returns the mapping from a's blank nodes to b's. The inputs
// are treated as sets.
func (m *Matcher) Equal(a, b []rdf.Triple) (Mapping, bool, error) {
	sa, sb := newSide(a), newSide(b)
	if len(sa.all) != len(sb.all) {
		return nil, false, nil
	}

	// Ground triples must match exactly; the rest are split off.
	groundA, groundB := 0, 0
	for t := range sa.all {
		if t.IsGround() {
			if _, ok := sb.all[t]; !ok {
				return nil, false, nil
			}
			groundA++
		} else {
			sa.addNonGround(t)
		}
	}
	for t := range sb.all {
		if t.IsGround() {
			groundB++
		} else {
			sb.addNonGround(t)
		}
	}
	if groundA != groundB {
		return nil, false, nil
	}
	if len(sa.triples) == 0 {
		return Mapping{}, true, nil
	}
	sortSide(sa)
	sortSide(sb)

	if len(sa.degree) != len(sb.degree) {
		return nil, false, nil
	}
	bucketsA, bucketsB := degreeBuckets(sa), degreeBuckets(sb)
	if len(bucketsA) != len(bucketsB) {
		return nil, false, nil
	}
	for d, nodes := range bucketsA {
		if len(bucketsB[d]) != len(nodes) {
			return nil, false, nil
		}
	}

	if mapping, ok := m.trivialMapping(sa, sb); ok {
		return mapping, true, nil
	}

	st := &matchState{a: sa, b: sb, mapping: make(Mapping), used: make(map[rdf.BlankNode]rdf.BlankNode)}

	// Nodes used once.
	for _, x := range sa.nodes {
		if sa.degree[x] != 1 {
			continue
		}
		cands := st.candidatesVia(sa.triples[sa.byNode[x][0]], x, func(y rdf.BlankNode) bool {
			return sb.degree[y] == 1
		})
		if len(cands) == 0 {
			return nil, false, nil
		}
		if len(cands) == 1 && !st.bind(x, cands[0]) {
			return nil, false, nil
		}
	}

	// Nodes whose degree is unique in their graph.
	for d, nodes := range bucketsA {
		if len(nodes) != 1 {
			continue
		}
		if !st.bind(nodes[0], bucketsB[d][0]) {
			return nil, false, nil
		}
	}
	base := st.mapping.clone()

	sameDegree := func(x, y rdf.BlankNode) bool { return sa.degree[x] == sb.degree[y] }
	if !st.propagate(sameDegree) {
		return nil, false, nil
	}

	if len(st.mapping) == len(sa.nodes) {
		if st.verifyEqual() {
			return st.mapping, true, nil
		}
		m.logger.Debug("derived mapping failed verification, searching from base mapping",
			"blank_nodes", len(sa.nodes), "base", len(base))
		st.reset(base)
	}

	m.logger.Debug("graph match falling back to search",
		"blank_nodes", len(sa.nodes), "mapped", len(st.mapping))
	found, err := m.search(st, sameDegree, equalSignatures, st.verifyEqual)
	if err != nil || !found {
		return nil, false, err
	}
	return st.mapping, true, nil
}

func sortSide(s *side) {
	// Node order follows triple order, which follows map iteration; sort it
	// so searches are reproducible.
	sort.Slice(s.nodes, func(i, j int) bool { return s.nodes[i].ID < s.nodes[j].ID })
}

func degreeBuckets(s *side) map[int][]rdf.BlankNode {
	out := make(map[int][]rdf.BlankNode)
	for _, b := range s.nodes {
		d := s.degree[b]
		out[d] = append(out[d], b)
	}
	return out
}

// trivialMapping tries the identity on blank node identifiers, which
// succeeds whenever both graphs were built from the same data.
func (m *Matcher) trivialMapping(sa, sb *side) (Mapping, bool) {
	mapping := make(Mapping, len(sa.nodes))
	for _, x := range sa.nodes {
		if sb.degree[x] != sa.degree[x] {
			return nil, false
		}
		mapping[x] = x
	}
	for _, t := range sa.triples {
		if _, ok := sb.all[t]; !ok {
			return nil, false
		}
	}
	return mapping, true
}

// matchState is the mapping under construction from side a to side b.
type matchState struct {
	a, b    *side
	mapping Mapping
	used    map[rdf.BlankNode]rdf.BlankNode // image -> preimage
}

// bind records x -> y. It fails if x is already bound elsewhere or y is
// already the image of another node.
func (st *matchState) bind(x, y rdf.BlankNode) bool {
	if cur, ok := st.mapping[x]; ok {
		return cur == y
	}
	if pre, ok := st.used[y]; ok && pre != x {
		return false
	}
	st.mapping[x] = y
	st.used[y] = x
	return true
}

func (st *matchState) unbind(x rdf.BlankNode) {
	if y, ok := st.mapping[x]; ok {
		delete(st.used, y)
		delete(st.mapping, x)
	}
}

func (st *matchState) reset(base Mapping) {
	st.mapping = make(Mapping, len(base))
	st.used = make(map[rdf.BlankNode]rdf.BlankNode, len(base))
	for x, y := range base {
		st.bind(x, y)
	}
}

// candidatesVia returns the distinct nodes y of side b for which some b
// triple matches t with x read as y, mapped nodes read as their images and
// other blank nodes read as any blank node. Images of other nodes are
// excluded.
func (st *matchState) candidatesVia(t rdf.Triple, x rdf.BlankNode, keep func(rdf.BlankNode) bool) []rdf.BlankNode {
	var out []rdf.BlankNode
	seen := make(map[rdf.BlankNode]struct{})
	for _, bi := range st.b.byPred[t.P] {
		u := unifier{mapping: st.mapping, free: x}
		if !u.triple(t, st.b.triples[bi]) || !u.bound {
			continue
		}
		y := u.image
		if pre, ok := st.used[y]; ok && pre != x {
			continue
		}
		if _, dup := seen[y]; dup || !keep(y) {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	return out
}

// propagate extends the mapping along triples in which x is the only
// unmapped blank node, until nothing changes. Every node it binds is forced
// by the nodes already bound. It reports false when some node is left with
// no possible image.
func (st *matchState) propagate(compatible func(x, y rdf.BlankNode) bool) bool {
	for changed := true; changed; {
		changed = false
		for _, x := range st.a.nodes {
			if _, done := st.mapping[x]; done {
				continue
			}
			var cands map[rdf.BlankNode]struct{}
			for _, ti := range st.a.byNode[x] {
				if !st.onlyUnmapped(ti, x) {
					continue
				}
				found := st.candidatesVia(st.a.triples[ti], x, func(y rdf.BlankNode) bool {
					return compatible(x, y)
				})
				next := make(map[rdf.BlankNode]struct{}, len(found))
				for _, y := range found {
					if cands == nil {
						next[y] = struct{}{}
					} else if _, ok := cands[y]; ok {
						next[y] = struct{}{}
					}
				}
				cands = next
				if len(cands) == 0 {
					return false
				}
			}
			if len(cands) == 1 {
				for y := range cands {
					if !st.bind(x, y) {
						return false
					}
				}
				changed = true
			}
		}
	}
	return true
}

// onlyUnmapped reports whether x is the only unmapped blank node of triple ti.
func (st *matchState) onlyUnmapped(ti int, x rdf.BlankNode) bool {
	for _, b := range st.a.blanks[ti] {
		if b == x {
			continue
		}
		if _, ok := st.mapping[b]; !ok {
			return false
		}
	}
	return true
}

func (st *matchState) fullyMapped(ti int) bool {
	for _, b := range st.a.blanks[ti] {
		if _, ok := st.mapping[b]; !ok {
			return false
		}
	}
	return true
}

// consistent checks every fully mapped triple around x against side b.
func (st *matchState) consistent(x rdf.BlankNode) bool {
	for _, ti := range st.a.byNode[x] {
		if !st.fullyMapped(ti) {
			continue
		}
		if _, ok := st.b.all[st.mapping.Apply(st.a.triples[ti])]; !ok {
			return false
		}
	}
	return true
}

// verifyEqual substitutes the complete mapping into every triple of a and
// checks that exactly the non-ground triples of b come out.
func (st *matchState) verifyEqual() bool {
	if len(st.mapping) != len(st.a.nodes) {
		return false
	}
	images := make(map[rdf.Triple]struct{}, len(st.a.triples))
	for _, t := range st.a.triples {
		img := st.mapping.Apply(t)
		if _, ok := st.b.all[img]; !ok {
			return false
		}
		images[img] = struct{}{}
	}
	return len(images) == len(st.b.triples)
}

// verifySub checks that every triple of a maps into b.
func (st *matchState) verifySub() bool {
	if len(st.mapping) != len(st.a.nodes) {
		return false
	}
	for _, t := range st.a.triples {
		if _, ok := st.b.all[st.mapping.Apply(t)]; !ok {
			return false
		}
	}
	return true
}

type signatureCheck func(a, b []string) bool

func equalSignatures(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// containedSignatures reports whether multiset a is contained in multiset b.
func containedSignatures(a, b []string) bool {
	if len(a) > len(b) {
		return false
	}
	j := 0
	for _, s := range a {
		for j < len(b) && b[j] < s {
			j++
		}
		if j == len(b) || b[j] != s {
			return false
		}
		j++
	}
	return true
}

// search completes the mapping by backtracking. Unmapped nodes are tried
// most constrained first; every assignment is checked against the triples it
// completes before going deeper, and the finished mapping is verified.
func (m *Matcher) search(st *matchState, compatible func(x, y rdf.BlankNode) bool, sigOK signatureCheck, verify func() bool) (bool, error) {
	sigB := make(map[rdf.BlankNode][]string, len(st.b.nodes))
	for _, y := range st.b.nodes {
		sigB[y] = st.b.signature(y)
	}
	var pending []rdf.BlankNode
	cands := make(map[rdf.BlankNode][]rdf.BlankNode)
	for _, x := range st.a.nodes {
		if _, ok := st.mapping[x]; ok {
			continue
		}
		sig := st.a.signature(x)
		for _, y := range st.b.nodes {
			if _, taken := st.used[y]; taken {
				continue
			}
			if compatible(x, y) && sigOK(sig, sigB[y]) {
				cands[x] = append(cands[x], y)
			}
		}
		if len(cands[x]) == 0 {
			return false, nil
		}
		pending = append(pending, x)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		ci, cj := len(cands[pending[i]]), len(cands[pending[j]])
		if ci != cj {
			return ci < cj
		}
		return st.a.degree[pending[i]] > st.a.degree[pending[j]]
	})

	tries := 0
	var step func(i int) (bool, error)
	step = func(i int) (bool, error) {
		if i == len(pending) {
			return verify(), nil
		}
		x := pending[i]
		for _, y := range cands[x] {
			if _, taken := st.used[y]; taken {
				continue
			}
			tries++
			if m.budget > 0 && tries > m.budget {
				return false, rdf.ErrSearchBudget
			}
			st.bind(x, y)
			if st.consistent(x) {
				ok, err := step(i + 1)
				if ok || err != nil {
					return ok, err
				}
			}
			st.unbind(x)
		}
		return false, nil
	}
	found, err := step(0)
	m.logger.Debug("graph match search finished", "found", found, "assignments", tries)
	return found, err
}

// unifier matches a pattern triple from side a against a concrete triple
// from side b. The free node may take any blank image, which is captured.
type unifier struct {
	mapping Mapping
	free    rdf.BlankNode
	image   rdf.BlankNode
	bound   bool
}

func (u *unifier) triple(a, b rdf.Triple) bool {
	return u.term(a.S, b.S) && u.term(a.P, b.P) && u.term(a.O, b.O)
}

func (u *unifier) term(a, b rdf.Term) bool {
	switch av := a.(type) {
	case rdf.BlankNode:
		bv, ok := b.(rdf.BlankNode)
		if !ok {
			return false
		}
		if av == u.free {
			if u.bound {
				return u.image == bv
			}
			u.image, u.bound = bv, true
			return true
		}
		if img, ok := u.mapping[av]; ok {
			return img == bv
		}
		return true
	case rdf.TripleTerm:
		bv, ok := b.(rdf.TripleTerm)
		if !ok {
			return false
		}
		return u.term(av.S, bv.S) && u.term(av.P, bv.P) && u.term(av.O, bv.O)
	default:
		return a == b
	}
}

// describeMapping renders a mapping in sorted "_:a->_:b" form for logs and
// tests.
func describeMapping(m Mapping) string {
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, k.String()+"->"+v.String())
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
