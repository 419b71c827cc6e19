package graph

import (
	"log/slog"
	"strings"

	"github.com/geoknoesis/rdfstore/rdf"
)

// IndexSet selects which secondary indexes a Collection maintains.
type IndexSet uint8

const (
	IndexSubject IndexSet = 1 << iota
	IndexPredicate
	IndexObject
	IndexSubjectPredicate
	IndexSubjectObject
	IndexPredicateObject

	// NoIndexes answers every query by scanning the primary map.
	NoIndexes IndexSet = 0
	// AllIndexes enables all six secondary indexes.
	AllIndexes = IndexSubject | IndexPredicate | IndexObject |
		IndexSubjectPredicate | IndexSubjectObject | IndexPredicateObject
)

// Has reports whether every index in other is enabled.
func (s IndexSet) Has(other IndexSet) bool { return s&other == other }

// String lists the enabled indexes, e.g. "s,p,sp".
func (s IndexSet) String() string {
	if s == NoIndexes {
		return "none"
	}
	var parts []string
	for _, ix := range []struct {
		bit  IndexSet
		name string
	}{
		{IndexSubject, "s"}, {IndexPredicate, "p"}, {IndexObject, "o"},
		{IndexSubjectPredicate, "sp"}, {IndexSubjectObject, "so"}, {IndexPredicateObject, "po"},
	} {
		if s.Has(ix.bit) {
			parts = append(parts, ix.name)
		}
	}
	return strings.Join(parts, ",")
}

// Option configures a Collection.
type Option func(*Options)

// Options configures a Collection.
type Options struct {
	Indexes IndexSet
}

func defaultOptions() Options {
	return Options{Indexes: AllIndexes}
}

// WithIndexes selects the secondary indexes to maintain.
func WithIndexes(set IndexSet) Option {
	return func(o *Options) { o.Indexes = set }
}

// WithoutIndexes disables every secondary index.
func WithoutIndexes() Option {
	return WithIndexes(NoIndexes)
}

// GraphOption configures a Graph.
type GraphOption func(*graphOptions)

type graphOptions struct {
	name        rdf.Term
	store       TripleStore
	collection  []Option
	logger      *slog.Logger
	blankPrefix string
}

// WithName sets the graph name. The name must be an IRI or a blank node.
func WithName(name rdf.Term) GraphOption {
	return func(o *graphOptions) { o.name = name }
}

// WithStore backs the graph by an externally owned store. Closing the graph
// leaves the store open.
func WithStore(store TripleStore) GraphOption {
	return func(o *graphOptions) { o.store = store }
}

// WithCollectionOptions configures the collection a graph creates for itself.
func WithCollectionOptions(opts ...Option) GraphOption {
	return func(o *graphOptions) { o.collection = append(o.collection, opts...) }
}

// WithLogger sets the logger used by the graph.
func WithLogger(logger *slog.Logger) GraphOption {
	return func(o *graphOptions) { o.logger = logger }
}

// WithBlankNodePrefix sets the prefix of generated blank node identifiers.
func WithBlankNodePrefix(prefix string) GraphOption {
	return func(o *graphOptions) { o.blankPrefix = prefix }
}
