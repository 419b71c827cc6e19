package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type ntDecoder struct {
	reader *bufio.Reader
	err    error
	format Format
	opts   Options
	line   int
}

func newNTDecoder(r io.Reader, format Format, opts Options) Reader {
	return &ntDecoder{reader: bufio.NewReader(r), format: format, opts: opts}
}

func (d *ntDecoder) Next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	for {
		raw, err := readLineWithLimit(d.reader, d.opts.MaxLineBytes)
		if err != nil {
			if err == io.EOF {
				return Quad{}, io.EOF
			}
			d.line++
			d.err = wrapParseErrorWithPosition(string(d.format), "", d.line, 0, -1, err)
			return Quad{}, d.err
		}
		d.line++
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quad, col, err := parseNTLine(line, d.format, d.opts.MaxDepth)
		if err != nil {
			d.err = wrapParseErrorWithPosition(string(d.format), line, d.line, col, -1, err)
			return Quad{}, d.err
		}
		return quad, nil
	}
}

func (d *ntDecoder) Close() error {
	return nil
}

// ParseNQuad parses a single N-Triples or N-Quads statement.
func ParseNQuad(line string) (Quad, error) {
	q, _, err := parseNTLine(strings.TrimSpace(line), FormatNQuads, DefaultMaxDepth)
	return q, err
}

func parseNTLine(line string, format Format, maxDepth int) (Quad, int, error) {
	cursor := &ntCursor{input: line, maxDepth: maxDepth}
	quad, err := cursor.parseStatement(format)
	if err != nil {
		return Quad{}, cursor.pos + 1, err
	}
	return quad, 0, nil
}

type ntCursor struct {
	input    string
	pos      int
	depth    int
	maxDepth int
}

func (c *ntCursor) parseStatement(format Format) (Quad, error) {
	subject, err := c.parseTerm(false)
	if err != nil {
		return Quad{}, err
	}
	if subject.Kind() == TermLiteral {
		return Quad{}, c.errorf("literal not allowed as subject")
	}
	predicate, err := c.parseIRI()
	if err != nil {
		return Quad{}, err
	}
	object, err := c.parseTerm(true)
	if err != nil {
		return Quad{}, err
	}

	var graph Term
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] != '.' {
		if format == FormatNTriples {
			return Quad{}, c.errorf("graph term not allowed in N-Triples")
		}
		graph, err = c.parseTerm(false)
		if err != nil {
			return Quad{}, err
		}
		if k := graph.Kind(); k != TermIRI && k != TermBlankNode {
			return Quad{}, c.errorf("graph name must be an IRI or blank node")
		}
	}
	if !c.consume('.') {
		return Quad{}, c.errorf("expected '.' at end of statement")
	}
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] != '#' {
		return Quad{}, c.errorf("unexpected content after '.'")
	}
	return Quad{S: subject, P: predicate, O: object, G: graph}, nil
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) consumeString(s string) bool {
	c.skipWS()
	if strings.HasPrefix(c.input[c.pos:], s) {
		c.pos += len(s)
		return true
	}
	return false
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case strings.HasPrefix(c.input[c.pos:], "<<"):
		return c.parseTripleTerm()
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token")
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	start := c.pos
	escaped := false
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		switch c.input[c.pos] {
		case ' ', '\t', '"', '{', '}', '|', '^', '`':
			return IRI{}, c.errorf("invalid character %q in IRI", c.input[c.pos])
		case '\\':
			escaped = true
		}
		c.pos++
	}
	if c.pos >= len(c.input) {
		return IRI{}, c.errorf("unterminated IRI")
	}
	value := c.input[start:c.pos]
	c.pos++
	if escaped {
		decoded, err := UnescapeString(value)
		if err != nil {
			return IRI{}, c.errorf("%v in IRI", err)
		}
		value = decoded
	}
	return IRI{Value: value}, nil
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	if !c.consumeString("_:") {
		return BlankNode{}, c.errorf("expected blank node")
	}
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// A label may contain '.' but not end with one.
	for c.pos+1 < len(c.input) && c.input[c.pos] == '.' && !isTermDelimiter(c.input[c.pos+1]) {
		c.pos++
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
			c.pos++
		}
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node id missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	if !c.consume('"') {
		return Literal{}, c.errorf("expected literal")
	}
	start := c.pos
	escaped := false
	closed := false
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '"' {
			closed = true
			break
		}
		if ch == '\\' {
			escaped = true
			c.pos += 2
			continue
		}
		c.pos++
	}
	if !closed {
		return Literal{}, c.errorf("unterminated literal")
	}
	lexical := c.input[start:c.pos]
	c.pos++
	if escaped {
		decoded, err := UnescapeString(lexical)
		if err != nil {
			return Literal{}, c.errorf("%v in literal", err)
		}
		lexical = decoded
	}
	if c.pos < len(c.input) && c.input[c.pos] == '@' {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
			c.pos++
		}
		lang := c.input[start:c.pos]
		if !isValidLangTag(lang) {
			return Literal{}, c.errorf("invalid language tag %q", lang)
		}
		return Literal{Lexical: lexical, Lang: lang}, nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return NewLiteral(lexical, dt, ""), nil
	}
	return Literal{Lexical: lexical}, nil
}

// parseTripleTerm accepts both <<( s p o )>> and the older << s p o >> form.
func (c *ntCursor) parseTripleTerm() (Term, error) {
	if !c.consumeString("<<") {
		return nil, c.errorf("expected '<<'")
	}
	c.depth++
	if c.maxDepth > 0 && c.depth > c.maxDepth {
		return nil, ErrDepthExceeded
	}
	defer func() { c.depth-- }()

	paren := c.consume('(')
	subject, err := c.parseTerm(false)
	if err != nil {
		return nil, err
	}
	if subject.Kind() == TermLiteral {
		return nil, c.errorf("literal not allowed as subject")
	}
	predicate, err := c.parseIRI()
	if err != nil {
		return nil, err
	}
	object, err := c.parseTerm(true)
	if err != nil {
		return nil, err
	}
	if paren && !c.consume(')') {
		return nil, c.errorf("expected ')'")
	}
	if !c.consumeString(">>") {
		return nil, c.errorf("expected '>>'")
	}
	return TripleTerm{S: subject, P: predicate, O: object}, nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("ntriples: "+format, args...)
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '.', '<', '>', '(', ')', '"':
		return true
	default:
		return false
	}
}

type ntEncoder struct {
	writer *bufio.Writer
	format Format
	err    error
}

func newNTEncoder(w io.Writer, format Format) Writer {
	return &ntEncoder{writer: bufio.NewWriter(w), format: format}
}

func (e *ntEncoder) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if q.IsZero() {
		return fmt.Errorf("ntriples: empty statement")
	}
	if err := q.Validate(); err != nil {
		return fmt.Errorf("ntriples: %w", err)
	}
	if e.format == FormatNTriples && q.G != nil {
		return fmt.Errorf("ntriples: graph term not allowed in N-Triples")
	}
	_, err := e.writer.WriteString(FormatNQuad(q))
	if err != nil {
		e.err = err
	}
	return err
}

func (e *ntEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *ntEncoder) Close() error {
	return e.Flush()
}
