package graph

import (
	"sync"

	"github.com/geoknoesis/rdfstore/rdf"
)

// TripleStore is the storage capability a Graph is built on. Collection is
// the in-memory implementation; ThreadSafeCollection decorates any store
// with a read/write lock.
type TripleStore interface {
	Add(t rdf.Triple) (bool, error)
	Delete(t rdf.Triple) (bool, error)
	Contains(t rdf.Triple) bool
	ContainsQuoted(t rdf.Triple) bool
	Count() int
	QuotedCount() int
	Triples() []rdf.Triple
	QuotedTriples() []rdf.Triple

	Match(s, p, o rdf.Term) ([]rdf.Triple, error)
	MatchQuoted(s, p, o rdf.Term) ([]rdf.Triple, error)

	WithSubject(s rdf.Term) ([]rdf.Triple, error)
	WithPredicate(p rdf.Term) ([]rdf.Triple, error)
	WithObject(o rdf.Term) ([]rdf.Triple, error)
	WithSubjectPredicate(s, p rdf.Term) ([]rdf.Triple, error)
	WithSubjectObject(s, o rdf.Term) ([]rdf.Triple, error)
	WithPredicateObject(p, o rdf.Term) ([]rdf.Triple, error)

	QuotedWithSubject(s rdf.Term) ([]rdf.Triple, error)
	QuotedWithPredicate(p rdf.Term) ([]rdf.Triple, error)
	QuotedWithObject(o rdf.Term) ([]rdf.Triple, error)
	QuotedWithSubjectPredicate(s, p rdf.Term) ([]rdf.Triple, error)
	QuotedWithSubjectObject(s, o rdf.Term) ([]rdf.Triple, error)
	QuotedWithPredicateObject(p, o rdf.Term) ([]rdf.Triple, error)

	SubjectNodes() []rdf.Term
	PredicateNodes() []rdf.Term
	ObjectNodes() []rdf.Term
	QuotedSubjectNodes() []rdf.Term
	QuotedPredicateNodes() []rdf.Term
	QuotedObjectNodes() []rdf.Term

	Subscribe(l Listener) func()
	Close() error
}

// ThreadSafeCollection wraps a TripleStore with a sync.RWMutex so that
// mutations may race with reads. Query results are fully materialized under
// the read lock. Listeners run while the write lock is held and must not
// call back into the store.
type ThreadSafeCollection struct {
	mu    sync.RWMutex
	inner TripleStore
}

var _ TripleStore = (*ThreadSafeCollection)(nil)

// NewThreadSafeCollection wraps inner. A nil inner gets a fresh Collection.
func NewThreadSafeCollection(inner TripleStore) *ThreadSafeCollection {
	if inner == nil {
		inner = NewCollection()
	}
	return &ThreadSafeCollection{inner: inner}
}

func (c *ThreadSafeCollection) Add(t rdf.Triple) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Add(t)
}

func (c *ThreadSafeCollection) Delete(t rdf.Triple) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Delete(t)
}

func (c *ThreadSafeCollection) Contains(t rdf.Triple) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.Contains(t)
}

func (c *ThreadSafeCollection) ContainsQuoted(t rdf.Triple) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.ContainsQuoted(t)
}

func (c *ThreadSafeCollection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.Count()
}

func (c *ThreadSafeCollection) QuotedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.QuotedCount()
}

func (c *ThreadSafeCollection) Triples() []rdf.Triple {
	return c.read(c.inner.Triples)
}

func (c *ThreadSafeCollection) QuotedTriples() []rdf.Triple {
	return c.read(c.inner.QuotedTriples)
}

func (c *ThreadSafeCollection) Match(s, p, o rdf.Term) ([]rdf.Triple, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.Match(s, p, o)
}

func (c *ThreadSafeCollection) MatchQuoted(s, p, o rdf.Term) ([]rdf.Triple, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.MatchQuoted(s, p, o)
}

func (c *ThreadSafeCollection) WithSubject(s rdf.Term) ([]rdf.Triple, error) {
	return c.one(c.inner.WithSubject, s)
}

func (c *ThreadSafeCollection) WithPredicate(p rdf.Term) ([]rdf.Triple, error) {
	return c.one(c.inner.WithPredicate, p)
}

func (c *ThreadSafeCollection) WithObject(o rdf.Term) ([]rdf.Triple, error) {
	return c.one(c.inner.WithObject, o)
}

func (c *ThreadSafeCollection) WithSubjectPredicate(s, p rdf.Term) ([]rdf.Triple, error) {
	return c.two(c.inner.WithSubjectPredicate, s, p)
}

func (c *ThreadSafeCollection) WithSubjectObject(s, o rdf.Term) ([]rdf.Triple, error) {
	return c.two(c.inner.WithSubjectObject, s, o)
}

func (c *ThreadSafeCollection) WithPredicateObject(p, o rdf.Term) ([]rdf.Triple, error) {
	return c.two(c.inner.WithPredicateObject, p, o)
}

func (c *ThreadSafeCollection) QuotedWithSubject(s rdf.Term) ([]rdf.Triple, error) {
	return c.one(c.inner.QuotedWithSubject, s)
}

func (c *ThreadSafeCollection) QuotedWithPredicate(p rdf.Term) ([]rdf.Triple, error) {
	return c.one(c.inner.QuotedWithPredicate, p)
}

func (c *ThreadSafeCollection) QuotedWithObject(o rdf.Term) ([]rdf.Triple, error) {
	return c.one(c.inner.QuotedWithObject, o)
}

func (c *ThreadSafeCollection) QuotedWithSubjectPredicate(s, p rdf.Term) ([]rdf.Triple, error) {
	return c.two(c.inner.QuotedWithSubjectPredicate, s, p)
}

func (c *ThreadSafeCollection) QuotedWithSubjectObject(s, o rdf.Term) ([]rdf.Triple, error) {
	return c.two(c.inner.QuotedWithSubjectObject, s, o)
}

func (c *ThreadSafeCollection) QuotedWithPredicateObject(p, o rdf.Term) ([]rdf.Triple, error) {
	return c.two(c.inner.QuotedWithPredicateObject, p, o)
}

func (c *ThreadSafeCollection) SubjectNodes() []rdf.Term   { return c.terms(c.inner.SubjectNodes) }
func (c *ThreadSafeCollection) PredicateNodes() []rdf.Term { return c.terms(c.inner.PredicateNodes) }
func (c *ThreadSafeCollection) ObjectNodes() []rdf.Term    { return c.terms(c.inner.ObjectNodes) }

func (c *ThreadSafeCollection) QuotedSubjectNodes() []rdf.Term {
	return c.terms(c.inner.QuotedSubjectNodes)
}

func (c *ThreadSafeCollection) QuotedPredicateNodes() []rdf.Term {
	return c.terms(c.inner.QuotedPredicateNodes)
}

func (c *ThreadSafeCollection) QuotedObjectNodes() []rdf.Term {
	return c.terms(c.inner.QuotedObjectNodes)
}

func (c *ThreadSafeCollection) Subscribe(l Listener) func() {
	c.mu.Lock()
	cancel := c.inner.Subscribe(l)
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		cancel()
	}
}

func (c *ThreadSafeCollection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Close()
}

func (c *ThreadSafeCollection) read(fn func() []rdf.Triple) []rdf.Triple {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fn()
}

func (c *ThreadSafeCollection) terms(fn func() []rdf.Term) []rdf.Term {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fn()
}

func (c *ThreadSafeCollection) one(fn func(rdf.Term) ([]rdf.Triple, error), a rdf.Term) ([]rdf.Triple, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fn(a)
}

func (c *ThreadSafeCollection) two(fn func(rdf.Term, rdf.Term) ([]rdf.Triple, error), a, b rdf.Term) ([]rdf.Triple, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fn(a, b)
}
