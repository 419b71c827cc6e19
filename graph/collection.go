package graph

import (
	"github.com/geoknoesis/rdfstore/rdf"
)

// entry is the per-triple metadata of a Collection. A triple is physically
// present while it is asserted or quoted at least once.
type entry struct {
	asserted bool
	quoted   int
}

// Collection is an indexed in-memory triple set.
//
// Each stored triple carries two independent counts: whether it is asserted
// (directly part of the graph) and how many present triples quote it through
// a triple term in subject or object position. Quoting is recursive: a
// quoted triple that itself contains triple terms quotes those in turn.
//
// Up to six secondary indexes (s, p, o, sp, so, po) are kept for asserted
// triples and mirrored for quoted triples. A disabled index is replaced by a
// scan of the primary map; results are identical either way.
//
// A Collection is safe for concurrent readers but not for concurrent
// mutation. Use ThreadSafeCollection when mutations race with reads.
type Collection struct {
	opts      Options
	entries   map[rdf.Triple]*entry
	asserted  int
	quoted    int
	assertIx  *indexes
	quoteIx   *indexes
	listeners listeners[Event]
	closed    bool
}

var _ TripleStore = (*Collection)(nil)

// NewCollection creates an empty collection. All indexes are enabled unless
// configured otherwise.
func NewCollection(opts ...Option) *Collection {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Collection{
		opts:     options,
		entries:  make(map[rdf.Triple]*entry),
		assertIx: newIndexes(options.Indexes),
		quoteIx:  newIndexes(options.Indexes),
	}
}

// Indexes returns the enabled secondary indexes.
func (c *Collection) Indexes() IndexSet { return c.opts.Indexes }

// Add asserts t. It reports false when t was already asserted; quoting
// references held by t are only counted when t first becomes present.
func (c *Collection) Add(t rdf.Triple) (bool, error) {
	if c.closed {
		return false, rdf.ErrClosed
	}
	if err := t.Validate(); err != nil {
		return false, err
	}
	return c.add(t, false), nil
}

// Delete retracts t. It reports false when t was not asserted. A retracted
// triple stays in the quoted indexes while other triples still quote it.
func (c *Collection) Delete(t rdf.Triple) (bool, error) {
	if c.closed {
		return false, rdf.ErrClosed
	}
	if t.S == nil || t.P == nil || t.O == nil {
		return false, rdf.ErrNilTerm
	}
	e, ok := c.entries[t]
	if !ok || !e.asserted {
		return false, nil
	}
	e.asserted = false
	c.asserted--
	c.assertIx.remove(t)
	c.listeners.emit(Event{Kind: EventRetracted, Triple: t})
	if e.quoted == 0 {
		c.drop(t)
	}
	return true, nil
}

func (c *Collection) add(t rdf.Triple, quoting bool) bool {
	e, present := c.entries[t]
	if !present {
		e = &entry{}
		c.entries[t] = e
	}
	added := false
	if quoting {
		e.quoted++
		if e.quoted == 1 {
			c.quoted++
			c.quoteIx.insert(t)
			c.listeners.emit(Event{Kind: EventQuoted, Triple: t})
		}
	} else if !e.asserted {
		e.asserted = true
		c.asserted++
		c.assertIx.insert(t)
		c.listeners.emit(Event{Kind: EventAsserted, Triple: t})
		added = true
	}
	if !present {
		for _, inner := range t.QuotedTriples() {
			c.add(inner, true)
		}
	}
	return added
}

// unquote releases one quoting reference to t.
func (c *Collection) unquote(t rdf.Triple) {
	e, ok := c.entries[t]
	if !ok || e.quoted == 0 {
		return
	}
	e.quoted--
	if e.quoted > 0 {
		return
	}
	c.quoted--
	c.quoteIx.remove(t)
	c.listeners.emit(Event{Kind: EventUnquoted, Triple: t})
	if !e.asserted {
		c.drop(t)
	}
}

// drop removes an entry that is neither asserted nor quoted and releases the
// references it held on nested triples.
func (c *Collection) drop(t rdf.Triple) {
	delete(c.entries, t)
	for _, inner := range t.QuotedTriples() {
		c.unquote(inner)
	}
}

// Contains reports whether t is asserted.
func (c *Collection) Contains(t rdf.Triple) bool {
	e, ok := c.entries[t]
	return ok && e.asserted
}

// ContainsQuoted reports whether t is quoted by at least one present triple.
func (c *Collection) ContainsQuoted(t rdf.Triple) bool {
	e, ok := c.entries[t]
	return ok && e.quoted > 0
}

// QuoteCount returns the number of quoting references to t.
func (c *Collection) QuoteCount(t rdf.Triple) int {
	if e, ok := c.entries[t]; ok {
		return e.quoted
	}
	return 0
}

// Count returns the number of asserted triples.
func (c *Collection) Count() int { return c.asserted }

// QuotedCount returns the number of distinct quoted triples.
func (c *Collection) QuotedCount() int { return c.quoted }

// Triples returns the asserted triples in no particular order.
func (c *Collection) Triples() []rdf.Triple {
	return c.scan(false, pattern{})
}

// QuotedTriples returns the quoted triples in no particular order.
func (c *Collection) QuotedTriples() []rdf.Triple {
	return c.scan(true, pattern{})
}

// Match returns the asserted triples matching the pattern. A nil position is
// unbound; a Variable matches anything as well.
func (c *Collection) Match(s, p, o rdf.Term) ([]rdf.Triple, error) {
	pat, err := newPattern(s, p, o)
	if err != nil {
		return nil, err
	}
	return c.find(false, pat), nil
}

// MatchQuoted is Match over quoted triples.
func (c *Collection) MatchQuoted(s, p, o rdf.Term) ([]rdf.Triple, error) {
	pat, err := newPattern(s, p, o)
	if err != nil {
		return nil, err
	}
	return c.find(true, pat), nil
}

// WithSubject returns the asserted triples with subject s. The other With*
// and QuotedWith* queries follow the same contract: every argument must be
// non-nil, results are empty rather than an error when nothing matches, and
// the compound forms return the intersection of the single-term forms.
func (c *Collection) WithSubject(s rdf.Term) ([]rdf.Triple, error) {
	return c.query(false, s, nil, nil, true, false, false)
}

func (c *Collection) WithPredicate(p rdf.Term) ([]rdf.Triple, error) {
	return c.query(false, nil, p, nil, false, true, false)
}

func (c *Collection) WithObject(o rdf.Term) ([]rdf.Triple, error) {
	return c.query(false, nil, nil, o, false, false, true)
}

func (c *Collection) WithSubjectPredicate(s, p rdf.Term) ([]rdf.Triple, error) {
	return c.query(false, s, p, nil, true, true, false)
}

func (c *Collection) WithSubjectObject(s, o rdf.Term) ([]rdf.Triple, error) {
	return c.query(false, s, nil, o, true, false, true)
}

func (c *Collection) WithPredicateObject(p, o rdf.Term) ([]rdf.Triple, error) {
	return c.query(false, nil, p, o, false, true, true)
}

func (c *Collection) QuotedWithSubject(s rdf.Term) ([]rdf.Triple, error) {
	return c.query(true, s, nil, nil, true, false, false)
}

func (c *Collection) QuotedWithPredicate(p rdf.Term) ([]rdf.Triple, error) {
	return c.query(true, nil, p, nil, false, true, false)
}

func (c *Collection) QuotedWithObject(o rdf.Term) ([]rdf.Triple, error) {
	return c.query(true, nil, nil, o, false, false, true)
}

func (c *Collection) QuotedWithSubjectPredicate(s, p rdf.Term) ([]rdf.Triple, error) {
	return c.query(true, s, p, nil, true, true, false)
}

func (c *Collection) QuotedWithSubjectObject(s, o rdf.Term) ([]rdf.Triple, error) {
	return c.query(true, s, nil, o, true, false, true)
}

func (c *Collection) QuotedWithPredicateObject(p, o rdf.Term) ([]rdf.Triple, error) {
	return c.query(true, nil, p, o, false, true, true)
}

// query validates that every required position is non-nil and that the
// restriction is satisfiable, then runs the lookup.
func (c *Collection) query(quoted bool, s, p, o rdf.Term, needS, needP, needO bool) ([]rdf.Triple, error) {
	if (needS && s == nil) || (needP && p == nil) || (needO && o == nil) {
		return nil, rdf.ErrNilTerm
	}
	if err := checkPattern(s, p); err != nil {
		return nil, err
	}
	return c.find(quoted, pattern{s: s, p: p, o: o}), nil
}

func newPattern(s, p, o rdf.Term) (pattern, error) {
	pat := pattern{s: unbindVariable(s), p: unbindVariable(p), o: unbindVariable(o)}
	if err := checkPattern(pat.s, pat.p); err != nil {
		return pattern{}, err
	}
	return pat, nil
}

func unbindVariable(t rdf.Term) rdf.Term {
	if _, ok := t.(rdf.Variable); ok {
		return nil
	}
	return t
}

// checkPattern rejects restrictions no stored triple can satisfy.
func checkPattern(s, p rdf.Term) error {
	if s != nil && s.Kind() == rdf.TermLiteral {
		return rdf.ErrInvalidPattern
	}
	if p != nil && p.Kind() != rdf.TermIRI && p.Kind() != rdf.TermVariable {
		return rdf.ErrInvalidPattern
	}
	return nil
}

func (c *Collection) find(quoted bool, pat pattern) []rdf.Triple {
	if pat.s != nil && pat.p != nil && pat.o != nil {
		t := rdf.Triple{S: pat.s, P: pat.p, O: pat.o}
		if (quoted && c.ContainsQuoted(t)) || (!quoted && c.Contains(t)) {
			return []rdf.Triple{t}
		}
		return nil
	}
	ix := c.assertIx
	if quoted {
		ix = c.quoteIx
	}
	if pat == (pattern{}) {
		return c.scan(quoted, pat)
	}
	set, exact, ok := ix.lookup(pat)
	if !ok {
		return c.scan(quoted, pat)
	}
	out := make([]rdf.Triple, 0, len(set))
	for t := range set {
		if exact || pat.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// scan is the fallback for disabled indexes: a linear pass over the
// primary map filtered by the pattern.
func (c *Collection) scan(quoted bool, pat pattern) []rdf.Triple {
	var out []rdf.Triple
	for t, e := range c.entries {
		if (quoted && e.quoted == 0) || (!quoted && !e.asserted) {
			continue
		}
		if pat.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Collection) SubjectNodes() []rdf.Term         { return c.nodes(false, IndexSubject) }
func (c *Collection) PredicateNodes() []rdf.Term       { return c.nodes(false, IndexPredicate) }
func (c *Collection) ObjectNodes() []rdf.Term          { return c.nodes(false, IndexObject) }
func (c *Collection) QuotedSubjectNodes() []rdf.Term   { return c.nodes(true, IndexSubject) }
func (c *Collection) QuotedPredicateNodes() []rdf.Term { return c.nodes(true, IndexPredicate) }
func (c *Collection) QuotedObjectNodes() []rdf.Term    { return c.nodes(true, IndexObject) }

func (c *Collection) nodes(quoted bool, position IndexSet) []rdf.Term {
	ix := c.assertIx
	if quoted {
		ix = c.quoteIx
	}
	if keys, ok := ix.keys(position); ok {
		out := make([]rdf.Term, 0, len(keys))
		for k := range keys {
			out = append(out, k)
		}
		return out
	}
	seen := make(map[rdf.Term]struct{})
	var out []rdf.Term
	for _, t := range c.scan(quoted, pattern{}) {
		var term rdf.Term
		switch position {
		case IndexSubject:
			term = t.S
		case IndexPredicate:
			term = t.P
		default:
			term = t.O
		}
		if _, dup := seen[term]; !dup {
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}
	return out
}

// Subscribe registers a listener for state transitions. The returned
// function removes it.
func (c *Collection) Subscribe(l Listener) func() {
	return c.listeners.add(l)
}

// Stats reports the size of the collection and its indexes.
func (c *Collection) Stats() Stats {
	return Stats{
		Asserted:     c.asserted,
		Quoted:       c.quoted,
		Entries:      len(c.entries),
		Indexes:      c.opts.Indexes,
		AssertedKeys: c.assertIx.sizes(),
		QuotedKeys:   c.quoteIx.sizes(),
	}
}

// Close releases the collection's memory. Further mutations fail with
// rdf.ErrClosed and queries return empty results.
func (c *Collection) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.entries = map[rdf.Triple]*entry{}
	c.assertIx = newIndexes(NoIndexes)
	c.quoteIx = newIndexes(NoIndexes)
	c.asserted, c.quoted = 0, 0
	c.listeners.clear()
	return nil
}

// Stats summarizes a collection.
type Stats struct {
	Asserted     int
	Quoted       int
	Entries      int
	Indexes      IndexSet
	AssertedKeys map[string]int
	QuotedKeys   map[string]int
}
