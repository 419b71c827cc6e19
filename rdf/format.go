package rdf

import (
	"path/filepath"
	"strings"
)

// Format identifies RDF serialization formats.
type Format string

const (
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatJSONLD   Format = "jsonld"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ntriples", "nt", "n-triples", "application/n-triples":
		return FormatNTriples, true
	case "nquads", "nq", "n-quads", "application/n-quads":
		return FormatNQuads, true
	case "jsonld", "json-ld", "json", "application/ld+json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	return ParseFormat(ext)
}

// SupportsQuads reports whether the format can carry named graphs.
func (f Format) SupportsQuads() bool {
	return f == FormatNQuads || f == FormatJSONLD
}
