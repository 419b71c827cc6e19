package canon

import (
	"context"
	"encoding/hex"
	"fmt"
	"hash"
	"log/slog"
	"sort"
	"strings"

	"github.com/geoknoesis/rdfstore/graph"
	"github.com/geoknoesis/rdfstore/rdf"
)

// Canonicalizer implements RDF Dataset Canonicalization (RDFC-1.0).
//
// Blank nodes are first labelled by a hash of the quads around them. Nodes
// whose hash is unique receive canonical labels in hash order. The rest are
// told apart by N-degree hashing, which explores the related blank nodes in
// every order and keeps the smallest resulting path. The input dataset is
// never modified; each run builds a new output dataset.
//
// A Canonicalizer has no per-run state and may be shared.
type Canonicalizer struct {
	opts Options
}

// New creates a canonicalizer.
func New(opts ...Option) *Canonicalizer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxRecursion <= 0 {
		o.MaxRecursion = DefaultMaxRecursion
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return &Canonicalizer{opts: o}
}

// Canonicalize runs the algorithm on ds with a fresh canonicalizer.
func Canonicalize(ds *graph.Dataset, opts ...Option) (*Result, error) {
	return New(opts...).Canonicalize(ds)
}

// Canonicalize runs the algorithm on ds.
func (c *Canonicalizer) Canonicalize(ds *graph.Dataset) (*Result, error) {
	return c.CanonicalizeContext(context.Background(), ds)
}

// CanonicalizeQuads builds a dataset from quads and canonicalizes it.
func (c *Canonicalizer) CanonicalizeQuads(ctx context.Context, quads []rdf.Quad) (*Result, error) {
	ds, err := graph.DatasetFromQuads(quads)
	if err != nil {
		return nil, err
	}
	return c.CanonicalizeContext(ctx, ds)
}

// CanonicalizeContext runs the algorithm on ds. The context is checked once
// per blank node at the top level of the algorithm.
func (c *Canonicalizer) CanonicalizeContext(ctx context.Context, ds *graph.Dataset) (*Result, error) {
	if ds == nil {
		return nil, rdf.ErrNilTerm
	}
	newHash, err := c.opts.Hash.newHash()
	if err != nil {
		return nil, err
	}
	r := &run{
		ctx:          ctx,
		newHash:      newHash,
		logger:       c.opts.Logger,
		quads:        ds.Quads(),
		blankToQuads: make(map[string][]int),
		firstDegree:  make(map[string]string),
		canonical:    NewIdentifierIssuer("c14n"),
		depth:        c.opts.MaxRecursion,
		maxWork:      c.opts.MaxWork,
	}
	labels, err := r.label()
	if err != nil {
		return nil, err
	}

	relabel := func(b rdf.BlankNode) rdf.Term { return rdf.BlankNode{ID: labels[b.ID]} }
	out := make([]rdf.Quad, len(r.quads))
	for i, q := range r.quads {
		out[i] = q.MapBlankNodes(relabel)
	}
	output, err := graph.DatasetFromQuads(out, graph.WithLogger(c.opts.Logger))
	if err != nil {
		return nil, err
	}
	sortQuads(out)
	c.opts.Logger.Debug("canonicalization finished",
		"quads", len(out), "blank_nodes", len(labels), "work", r.work)
	return &Result{
		Input:             ds,
		Output:            output,
		IssuedIdentifiers: labels,
		Quads:             out,
		algorithm:         c.opts.Hash,
	}, nil
}

// run is the state of one canonicalization.
type run struct {
	ctx          context.Context
	newHash      func() hash.Hash
	logger       *slog.Logger
	quads        []rdf.Quad
	blankToQuads map[string][]int
	firstDegree  map[string]string
	canonical    *IdentifierIssuer
	depth        int
	maxWork      int
	work         int
}

// component is one blank node occurrence in a quad. Blank nodes nested in a
// triple term take the position of the term that holds them.
type component struct {
	id       string
	position byte
}

func components(q rdf.Quad) []component {
	var out []component
	var walk func(term rdf.Term, position byte)
	walk = func(term rdf.Term, position byte) {
		switch v := term.(type) {
		case rdf.BlankNode:
			out = append(out, component{id: v.ID, position: position})
		case rdf.TripleTerm:
			walk(v.S, position)
			walk(v.P, position)
			walk(v.O, position)
		}
	}
	walk(q.S, 's')
	walk(q.O, 'o')
	walk(q.G, 'g')
	return out
}

// label computes the canonical label of every blank node identifier.
func (r *run) label() (map[string]string, error) {
	for i, q := range r.quads {
		for _, c := range components(q) {
			list := r.blankToQuads[c.id]
			if n := len(list); n == 0 || list[n-1] != i {
				r.blankToQuads[c.id] = append(list, i)
			}
		}
	}

	hashToBlanks := make(map[string][]string)
	for _, id := range sortedKeys(r.blankToQuads) {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		h := r.hashFirstDegreeQuads(id)
		r.firstDegree[id] = h
		hashToBlanks[h] = append(hashToBlanks[h], id)
	}

	hashes := sortedKeys(hashToBlanks)
	for _, h := range hashes {
		if ids := hashToBlanks[h]; len(ids) == 1 {
			r.canonical.Issue(ids[0])
			delete(hashToBlanks, h)
		}
	}

	type pathResult struct {
		hash   string
		issuer *IdentifierIssuer
	}
	for _, h := range hashes {
		ids, ok := hashToBlanks[h]
		if !ok {
			continue
		}
		r.logger.Debug("canonicalization resolving shared first-degree hash",
			"hash", h, "blank_nodes", len(ids))
		var results []pathResult
		for _, id := range ids {
			if err := r.ctx.Err(); err != nil {
				return nil, err
			}
			if _, done := r.canonical.Issued(id); done {
				continue
			}
			temp := NewIdentifierIssuer("b")
			temp.Issue(id)
			nh, issuer, err := r.hashNDegreeQuads(id, temp)
			if err != nil {
				return nil, err
			}
			results = append(results, pathResult{hash: nh, issuer: issuer})
		}
		sort.SliceStable(results, func(i, j int) bool { return results[i].hash < results[j].hash })
		for _, res := range results {
			for _, existing := range res.issuer.Order() {
				r.canonical.Issue(existing)
			}
		}
	}

	labels := make(map[string]string, len(r.blankToQuads))
	for id := range r.blankToQuads {
		labels[id], _ = r.canonical.Issued(id)
	}
	return labels, nil
}

func (r *run) hashFirstDegreeQuads(id string) string {
	mask := func(b rdf.BlankNode) rdf.Term {
		if b.ID == id {
			return rdf.BlankNode{ID: "a"}
		}
		return rdf.BlankNode{ID: "z"}
	}
	lines := make([]string, 0, len(r.blankToQuads[id]))
	for _, qi := range r.blankToQuads[id] {
		lines = append(lines, rdf.FormatNQuad(r.quads[qi].MapBlankNodes(mask)))
	}
	sort.Strings(lines)
	return r.digest(strings.Join(lines, ""))
}

func (r *run) hashRelatedBlankNode(related string, q rdf.Quad, issuer *IdentifierIssuer, position byte) string {
	var b strings.Builder
	b.WriteByte(position)
	if position != 'g' {
		b.WriteString(rdf.FormatTerm(q.P))
	}
	if id, ok := r.canonical.Issued(related); ok {
		b.WriteString("_:" + id)
	} else if id, ok := issuer.Issued(related); ok {
		b.WriteString("_:" + id)
	} else {
		b.WriteString(r.firstDegree[related])
	}
	return r.digest(b.String())
}

func (r *run) hashNDegreeQuads(id string, issuer *IdentifierIssuer) (string, *IdentifierIssuer, error) {
	if r.depth <= 0 {
		return "", nil, fmt.Errorf("%w: while hashing _:%s", rdf.ErrRecursionLimit, id)
	}
	r.depth--
	defer func() { r.depth++ }()
	if err := r.spend(); err != nil {
		return "", nil, err
	}

	hashToRelated := make(map[string][]string)
	for _, qi := range r.blankToQuads[id] {
		q := r.quads[qi]
		for _, c := range components(q) {
			if c.id == id {
				continue
			}
			h := r.hashRelatedBlankNode(c.id, q, issuer, c.position)
			hashToRelated[h] = append(hashToRelated[h], c.id)
		}
	}

	var data strings.Builder
	for _, h := range sortedKeys(hashToRelated) {
		data.WriteString(h)
		list := append([]string(nil), hashToRelated[h]...)
		sort.Strings(list)

		var chosenPath string
		var chosenIssuer *IdentifierIssuer
		for more := true; more; more = nextPermutation(list) {
			if err := r.spend(); err != nil {
				return "", nil, err
			}
			path, next, ok, err := r.tryPermutation(list, issuer, chosenPath, chosenIssuer != nil)
			if err != nil {
				return "", nil, err
			}
			if ok && (chosenIssuer == nil || path < chosenPath) {
				chosenPath, chosenIssuer = path, next
			}
		}
		data.WriteString(chosenPath)
		issuer = chosenIssuer
	}
	return r.digest(data.String()), issuer, nil
}

// tryPermutation builds the path for one ordering of related blank nodes.
// ok is false when the path was abandoned because it cannot beat chosen.
func (r *run) tryPermutation(perm []string, issuer *IdentifierIssuer, chosen string, haveChosen bool) (string, *IdentifierIssuer, bool, error) {
	issuerCopy := issuer.Clone()
	var path strings.Builder
	var recursion []string
	worse := func() bool {
		return haveChosen && path.Len() >= len(chosen) && path.String() > chosen
	}
	for _, related := range perm {
		if id, ok := r.canonical.Issued(related); ok {
			path.WriteString("_:" + id)
		} else {
			if _, ok := issuerCopy.Issued(related); !ok {
				recursion = append(recursion, related)
			}
			path.WriteString("_:" + issuerCopy.Issue(related))
		}
		if worse() {
			return "", nil, false, nil
		}
	}
	for _, related := range recursion {
		h, next, err := r.hashNDegreeQuads(related, issuerCopy)
		if err != nil {
			return "", nil, false, err
		}
		path.WriteString("_:" + issuerCopy.Issue(related))
		path.WriteString("<" + h + ">")
		issuerCopy = next
		if worse() {
			return "", nil, false, nil
		}
	}
	return path.String(), issuerCopy, true, nil
}

func (r *run) spend() error {
	r.work++
	if r.maxWork > 0 && r.work > r.maxWork {
		return fmt.Errorf("%w: %d steps", rdf.ErrWorkLimit, r.maxWork)
	}
	return nil
}

func (r *run) digest(s string) string {
	h := r.newHash()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// nextPermutation rearranges list into the next lexicographic permutation
// and reports false once the last one has been passed.
func nextPermutation(list []string) bool {
	i := len(list) - 2
	for i >= 0 && list[i] >= list[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(list) - 1
	for list[j] <= list[i] {
		j--
	}
	list[i], list[j] = list[j], list[i]
	for l, r := i+1, len(list)-1; l < r; l, r = l+1, r-1 {
		list[l], list[r] = list[r], list[l]
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortQuads(quads []rdf.Quad) {
	sort.Slice(quads, func(i, j int) bool {
		return rdf.FormatNQuad(quads[i]) < rdf.FormatNQuad(quads[j])
	})
}
