package rdf

import (
	"strings"
)

const hexUpper = "0123456789ABCDEF"

// FormatTerm renders a term in canonical N-Triples syntax. Blank nodes are
// written as _:id, literals use the canonical escape set, and triple terms use
// the <<( s p o )>> form. A nil term renders as the empty string.
func FormatTerm(term Term) string {
	var b strings.Builder
	writeTerm(&b, term)
	return b.String()
}

// FormatNQuad renders a quad as one canonical N-Quads line, including the
// terminating " .\n". Quads in the default graph are written as triples.
func FormatNQuad(q Quad) string {
	var b strings.Builder
	b.Grow(64)
	writeTerm(&b, q.S)
	b.WriteByte(' ')
	writeTerm(&b, q.P)
	b.WriteByte(' ')
	writeTerm(&b, q.O)
	if q.G != nil {
		b.WriteByte(' ')
		writeTerm(&b, q.G)
	}
	b.WriteString(" .\n")
	return b.String()
}

func writeTerm(b *strings.Builder, term Term) {
	switch v := term.(type) {
	case IRI:
		b.WriteByte('<')
		b.WriteString(v.Value)
		b.WriteByte('>')
	case BlankNode:
		b.WriteString("_:")
		b.WriteString(v.ID)
	case Literal:
		b.WriteByte('"')
		writeEscaped(b, v.Lexical)
		b.WriteByte('"')
		switch {
		case v.Lang != "":
			b.WriteByte('@')
			b.WriteString(v.Lang)
		case v.Datatype.Value != "" && v.Datatype != XSDString:
			b.WriteString("^^<")
			b.WriteString(v.Datatype.Value)
			b.WriteByte('>')
		}
	case Variable:
		b.WriteByte('?')
		b.WriteString(v.Name)
	case TripleTerm:
		b.WriteString("<<( ")
		writeTerm(b, v.S)
		b.WriteByte(' ')
		writeTerm(b, v.P)
		b.WriteByte(' ')
		writeTerm(b, v.O)
		b.WriteString(" )>>")
	}
}

// writeEscaped applies the canonical N-Triples string escapes.
func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if ch < 0x20 || ch == 0x7f {
				b.WriteString(`\u00`)
				b.WriteByte(hexUpper[ch>>4])
				b.WriteByte(hexUpper[ch&0x0f])
				continue
			}
			b.WriteByte(ch)
		}
	}
}
