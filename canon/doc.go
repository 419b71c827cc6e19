// Package canon computes canonical forms of RDF datasets using the RDF
// Dataset Canonicalization algorithm (RDFC-1.0).
//
// Two datasets that differ only in blank node identifiers or quad order
// canonicalize to byte-identical N-Quads, so the canonical form (or its
// Hash) can be used to compare or content-address datasets:
//
//	ds, _ := graph.DatasetFromQuads(quads)
//	res, err := canon.Canonicalize(ds)
//	if err != nil {
//	    // rdf.ErrRecursionLimit: the dataset is too self-similar to label
//	}
//	fmt.Print(res.SerializedNQuads())
//
// Pathological inputs can make the algorithm expensive. WithMaxRecursion
// bounds the nesting of N-degree hashing and WithMaxWork bounds its total
// effort; CanonicalizeContext additionally honours cancellation.
package canon
