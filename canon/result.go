package canon

import (
	"encoding/hex"
	"strings"
	"sync"

	"github.com/geoknoesis/rdfstore/graph"
	"github.com/geoknoesis/rdfstore/rdf"
)

// Result is a canonicalized dataset.
type Result struct {
	// Input is the dataset that was canonicalized. It is not modified.
	Input *graph.Dataset
	// Output holds the input quads with canonical blank node labels.
	Output *graph.Dataset
	// IssuedIdentifiers maps every input blank node identifier to its
	// canonical label (without the "_:" prefix).
	IssuedIdentifiers map[string]string
	// Quads are the output quads in canonical N-Quads order.
	Quads []rdf.Quad

	algorithm HashAlgorithm
	once      sync.Once
	nquads    string
}

// SerializedNQuads returns the canonical N-Quads document: one line per
// quad, sorted by code point, each ending in "\n". It is computed on first
// use.
func (r *Result) SerializedNQuads() string {
	r.once.Do(func() {
		var b strings.Builder
		for _, q := range r.Quads {
			b.WriteString(rdf.FormatNQuad(q))
		}
		r.nquads = b.String()
	})
	return r.nquads
}

// Hash returns the hex digest of SerializedNQuads, computed with the run's
// hash algorithm.
func (r *Result) Hash() string {
	newHash, err := r.algorithm.newHash()
	if err != nil {
		return ""
	}
	h := newHash()
	h.Write([]byte(r.SerializedNQuads()))
	return hex.EncodeToString(h.Sum(nil))
}

// Algorithm returns the hash algorithm of the run.
func (r *Result) Algorithm() HashAlgorithm { return r.algorithm }
