// Package rdf provides the RDF term model shared by the store, the graph
// matcher and the canonicalizer, together with streaming N-Triples, N-Quads
// and JSON-LD readers/writers.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Author: Stephane Fellah (stephanef@geoknoesis.com)
// Geosemantic-AI expert with 30 years of experience
//
// Terms are small comparable values (IRI, BlankNode, Literal, Variable and
// the RDF-star TripleTerm). Two terms are equal exactly when they are ==, so
// terms and triples can be used directly as map keys:
//
//	seen := map[rdf.Triple]bool{}
//	seen[rdf.NewTriple(rdf.IRI{Value: "urn:s"}, rdf.IRI{Value: "urn:p"}, rdf.Literal{Lexical: "v"})] = true
//
// FormatTerm and FormatNQuad produce the canonical N-Triples/N-Quads form
// used for hashing: literals are escaped with the minimal canonical escape
// set, xsd:string datatypes are omitted and triple terms are written as
// <<( s p o )>>.
//
// Example (decoding quads):
//
//	dec, err := rdf.NewReader(strings.NewReader(input), rdf.FormatNQuads)
//	if err != nil {
//	    // handle error
//	}
//	defer dec.Close()
//
//	for {
//	    quad, err := dec.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    // process quad.S, quad.P, quad.O, quad.G
//	}
//
// Readers accept OptSafeLimits and the individual Opt* limits to bound line
// length, triple term nesting, document size and statement count for
// untrusted input. JSON-LD documents are expanded offline: remote contexts
// are refused.
package rdf
