package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{nil, ""},
		{io.EOF, ""},
		{ErrUnsupportedFormat, ErrCodeUnsupportedFormat},
		{ErrLineTooLong, ErrCodeLineTooLong},
		{ErrStatementTooLong, ErrCodeStatementTooLong},
		{ErrDepthExceeded, ErrCodeDepthExceeded},
		{ErrTripleLimitExceeded, ErrCodeTripleLimitExceeded},
		{ErrNilTerm, ErrCodeInvalidArgument},
		{fmt.Errorf("%w: literal subject", ErrInvalidTriple), ErrCodeInvalidTriple},
		{ErrInvalidPattern, ErrCodeInvalidPattern},
		{ErrInvalidGraphName, ErrCodeInvalidGraphName},
		{ErrDuplicateGraph, ErrCodeDuplicateGraph},
		{ErrSelfMerge, ErrCodeSelfMerge},
		{ErrClosed, ErrCodeClosed},
		{fmt.Errorf("canon: %w", ErrRecursionLimit), ErrCodeRecursionLimit},
		{ErrWorkLimit, ErrCodeWorkLimit},
		{ErrSearchBudget, ErrCodeSearchBudget},
		{context.Canceled, ErrCodeContextCanceled},
		{context.DeadlineExceeded, ErrCodeContextCanceled},
		{&fs.PathError{Op: "open", Path: "x", Err: os.ErrNotExist}, ErrCodeIOError},
		{errors.New("something else"), ErrCodeParseError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Code(tc.err), "%v", tc.err)
	}
}

func TestErrorCode_ParseErrorUnwraps(t *testing.T) {
	err := wrapParseErrorWithPosition("ntriples", "x", 3, 1, -1, ErrLineTooLong)
	assert.Equal(t, ErrCodeLineTooLong, Code(err))
	assert.ErrorIs(t, err, ErrLineTooLong)

	plain := wrapParseError("jsonld", "", -1, errors.New("bad"))
	assert.Equal(t, ErrCodeParseError, Code(plain))
	assert.Equal(t, "jsonld: bad", plain.Error())

	assert.Nil(t, wrapParseError("jsonld", "", 0, nil))
}

func TestErrorCode_ParseErrorKeepsPosition(t *testing.T) {
	inner := &ParseError{Format: "nquads", Line: 4, Column: 7, Offset: 12, Err: errors.New("bad")}
	err := wrapParseErrorWithPosition("nquads", "", 0, 0, -1, inner)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 4, perr.Line)
	assert.Equal(t, 7, perr.Column)
	assert.Equal(t, 12, perr.Offset)
}

func TestErrorCode_UnsupportedFormat(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), Format("turtle"))
	assert.Equal(t, ErrCodeUnsupportedFormat, Code(err))
	_, err = NewWriter(io.Discard, Format("turtle"))
	assert.Equal(t, ErrCodeUnsupportedFormat, Code(err))
}

func TestParseErrorExcerptTruncates(t *testing.T) {
	long := strings.Repeat("x", 200)
	err := &ParseError{Format: "ntriples", Line: 1, Column: 100, Statement: long, Err: errors.New("bad")}
	msg := err.Error()
	assert.Contains(t, msg, "...")
	assert.NotContains(t, msg, long)

	noColumn := &ParseError{Format: "ntriples", Line: 1, Statement: long, Err: errors.New("bad")}
	assert.Contains(t, noColumn.Error(), strings.Repeat("x", 80)+"...")
}
