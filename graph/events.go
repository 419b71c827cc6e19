package graph

import (
	"sort"

	"github.com/geoknoesis/rdfstore/rdf"
)

// EventKind identifies a collection state transition.
type EventKind uint8

const (
	// EventAsserted fires when a triple becomes asserted.
	EventAsserted EventKind = iota + 1
	// EventRetracted fires when a triple stops being asserted.
	EventRetracted
	// EventQuoted fires when a triple gains its first quoting reference.
	EventQuoted
	// EventUnquoted fires when a triple loses its last quoting reference.
	EventUnquoted
)

func (k EventKind) String() string {
	switch k {
	case EventAsserted:
		return "asserted"
	case EventRetracted:
		return "retracted"
	case EventQuoted:
		return "quoted"
	case EventUnquoted:
		return "unquoted"
	default:
		return "unknown"
	}
}

// Event describes one transition of a triple in a collection.
type Event struct {
	Kind   EventKind
	Triple rdf.Triple
}

// Listener receives collection events synchronously, on the goroutine that
// performed the mutation. Listeners must not mutate the collection.
type Listener func(Event)

// listeners is a small registry shared by Collection and Graph. Delivery
// order follows registration order.
type listeners[E any] struct {
	next int
	fns  map[int]func(E)
}

func (l *listeners[E]) add(fn func(E)) func() {
	if l.fns == nil {
		l.fns = make(map[int]func(E))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() { delete(l.fns, id) }
}

func (l *listeners[E]) emit(e E) {
	if len(l.fns) == 0 {
		return
	}
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := l.fns[id]; ok {
			fn(e)
		}
	}
}

func (l *listeners[E]) clear() { l.fns = nil }

// GraphEventKind identifies a graph level notification.
type GraphEventKind uint8

const (
	TripleAsserted GraphEventKind = iota + 1
	TripleRetracted
	Cleared
	Merged
)

func (k GraphEventKind) String() string {
	switch k {
	case TripleAsserted:
		return "triple-asserted"
	case TripleRetracted:
		return "triple-retracted"
	case Cleared:
		return "cleared"
	case Merged:
		return "merged"
	default:
		return "unknown"
	}
}

// GraphEvent is delivered to graph listeners. Triple is set for
// TripleAsserted and TripleRetracted; Source is set for Merged.
type GraphEvent struct {
	Kind   GraphEventKind
	Graph  *Graph
	Triple rdf.Triple
	Source *Graph
}

// GraphListener receives graph events synchronously.
type GraphListener func(GraphEvent)
