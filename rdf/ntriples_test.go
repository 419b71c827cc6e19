package rdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNTriplesReader(t *testing.T) {
	input := `# a comment
<http://example.org/s> <http://example.org/p> <http://example.org/o> .

_:b0 <http://example.org/p> "chat"@fr . # trailing comment
_:b0 <http://example.org/p> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .
<< <http://example.org/s> <http://example.org/p> _:b0 >> <http://example.org/p> "old syntax" .
`
	quads, err := ReadAll(context.Background(), strings.NewReader(input), FormatNTriples)
	require.NoError(t, err)
	require.Len(t, quads, 4)

	assert.Equal(t, Quad{S: exS, P: exP, O: exO}, quads[0])
	assert.Equal(t, Literal{Lexical: "chat", Lang: "fr"}, quads[1].O)
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema#integer", quads[2].O.(Literal).Datatype.Value)
	assert.Equal(t, TripleTerm{S: exS, P: exP, O: BlankNode{ID: "b0"}}, quads[3].S)
	for _, q := range quads {
		assert.Nil(t, q.G)
	}
}

func TestNQuadsReader(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n" +
		"<http://example.org/s> <http://example.org/p> <http://example.org/o> _:g .\n" +
		"<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"
	quads, err := ReadAll(context.Background(), strings.NewReader(input), FormatNQuads)
	require.NoError(t, err)
	require.Len(t, quads, 3)
	assert.Equal(t, exG, quads[0].G)
	assert.Equal(t, BlankNode{ID: "g"}, quads[1].G)
	assert.Nil(t, quads[2].G)
}

func TestNTriplesReaderErrors(t *testing.T) {
	cases := []struct {
		name   string
		format Format
		input  string
		msg    string
	}{
		{"literal subject", FormatNTriples, `"s" <http://example.org/p> <http://example.org/o> .`, "literal not allowed"},
		{"blank predicate", FormatNTriples, `<http://example.org/s> _:p <http://example.org/o> .`, "expected IRI"},
		{"missing dot", FormatNTriples, `<http://example.org/s> <http://example.org/p> <http://example.org/o>`, "expected '.'"},
		{"graph in ntriples", FormatNTriples, `<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .`, "graph term not allowed"},
		{"literal graph", FormatNQuads, `<http://example.org/s> <http://example.org/p> <http://example.org/o> "g" .`, "literal not allowed"},
		{"unterminated literal", FormatNTriples, `<http://example.org/s> <http://example.org/p> "abc .`, "unterminated literal"},
		{"bad escape", FormatNTriples, `<http://example.org/s> <http://example.org/p> "a\qb" .`, "invalid escape"},
		{"space in IRI", FormatNTriples, `<http://example.org/s s> <http://example.org/p> <http://example.org/o> .`, "invalid character"},
		{"bad language tag", FormatNTriples, `<http://example.org/s> <http://example.org/p> "x"@1x .`, "invalid language tag"},
		{"trailing garbage", FormatNTriples, `<http://example.org/s> <http://example.org/p> <http://example.org/o> . x`, "unexpected content"},
		{"unclosed triple term", FormatNTriples, `<<( <http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/p> <http://example.org/o> .`, "expected ')'"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n" + tc.input + "\n"
			_, err := ReadAll(context.Background(), strings.NewReader(input), tc.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, 2, perr.Line)
			assert.Greater(t, perr.Column, 0)
			assert.Equal(t, string(tc.format), perr.Format)
			assert.Equal(t, ErrCodeParseError, Code(err))
		})
	}
}

func TestReaderStopsAfterError(t *testing.T) {
	input := "garbage\n<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"
	dec, err := NewReader(strings.NewReader(input), FormatNTriples)
	require.NoError(t, err)
	defer dec.Close()

	_, first := dec.Next()
	require.Error(t, first)
	_, second := dec.Next()
	assert.Equal(t, first, second)
}

func TestParseErrorExcerpt(t *testing.T) {
	_, err := ReadAll(context.Background(), strings.NewReader(`<http://example.org/s> <http://example.org/p> "x"@1x .`+"\n"), FormatNTriples)
	require.Error(t, err)
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "ntriples:1:"), msg)
	assert.Contains(t, msg, "^")
}

func TestNQuadsWriter(t *testing.T) {
	var buf bytes.Buffer
	quads := []Quad{
		{S: exS, P: exP, O: Literal{Lexical: "a\tb"}},
		{S: BlankNode{ID: "x"}, P: exP, O: exO, G: exG},
	}
	require.NoError(t, WriteAll(&buf, FormatNQuads, quads))
	assert.Equal(t,
		"<http://example.org/s> <http://example.org/p> \"a\\tb\" .\n"+
			"_:x <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n",
		buf.String())

	back, err := ReadAll(context.Background(), &buf, FormatNQuads)
	require.NoError(t, err)
	assert.Equal(t, quads, back)
}

func TestNTriplesWriterRejects(t *testing.T) {
	w, err := NewWriter(io.Discard, FormatNTriples)
	require.NoError(t, err)

	assert.Error(t, w.Write(Quad{}))
	assert.ErrorIs(t, w.Write(Quad{S: Literal{Lexical: "s"}, P: exP, O: exO}), ErrInvalidTriple)
	assert.ErrorContains(t, w.Write(Quad{S: exS, P: exP, O: exO, G: exG}), "graph term not allowed")
	assert.NoError(t, w.Write(Quad{S: exS, P: exP, O: exO}))
	assert.NoError(t, w.Close())
}

func TestParseStreamsToHandler(t *testing.T) {
	input := strings.Repeat("<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n", 3)
	stop := errors.New("stop")
	n := 0
	err := Parse(context.Background(), strings.NewReader(input), FormatNTriples, func(Quad) error {
		n++
		if n == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, n)

	//nolint:staticcheck // nil context is documented to mean Background
	assert.NoError(t, Parse(nil, strings.NewReader(input), FormatNTriples, func(Quad) error { return nil }))
}
