package rdf

import (
	"context"
	"io"
)

// Reader streams RDF quads from an input.
// Triples read from triple-only formats have a nil graph name.
type Reader interface {
	Next() (Quad, error)
	Close() error
}

// Writer streams RDF quads to an output.
// For triple-only formats, the graph (G) field must be nil.
type Writer interface {
	Write(Quad) error
	Flush() error
	Close() error
}

// Handler processes quads in push mode.
type Handler func(Quad) error

// Option configures reader/writer behavior.
type Option func(*Options)

// Options configures parser/encoder behavior.
type Options struct {
	// Context for cancellation and timeouts
	Context context.Context

	// Security limits for untrusted input
	MaxLineBytes      int
	MaxStatementBytes int
	MaxDepth          int
	MaxTriples        int64

	// BaseIRI resolves relative references in JSON-LD documents.
	BaseIRI string
}

// NewReader creates a reader for the specified format.
func NewReader(r io.Reader, format Format, opts ...Option) (Reader, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return newDecoder(r, format, options)
}

// Parse parses RDF from the reader and streams quads to the handler.
// If ctx is nil, context.Background() is used as the default.
func Parse(ctx context.Context, r io.Reader, format Format, handler Handler, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = append([]Option{OptContext(ctx)}, opts...)

	reader, err := NewReader(r, format, opts...)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		quad, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := handler(quad); err != nil {
			return err
		}
	}
}

// ReadAll parses every quad of the input into memory.
func ReadAll(ctx context.Context, r io.Reader, format Format, opts ...Option) ([]Quad, error) {
	var quads []Quad
	err := Parse(ctx, r, format, func(q Quad) error {
		quads = append(quads, q)
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return quads, nil
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...Option) (Writer, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return newEncoder(w, format, options)
}

// WriteAll writes quads and closes the writer.
func WriteAll(w io.Writer, format Format, quads []Quad, opts ...Option) error {
	writer, err := NewWriter(w, format, opts...)
	if err != nil {
		return err
	}
	for _, q := range quads {
		if err := writer.Write(q); err != nil {
			_ = writer.Close()
			return err
		}
	}
	return writer.Close()
}

// Option helpers

// OptContext sets the context for cancellation and timeouts.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptMaxLineBytes sets the maximum line size limit.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxLineBytes = maxBytes
	}
}

// OptMaxStatementBytes sets the maximum size of a JSON-LD document.
func OptMaxStatementBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxStatementBytes = maxBytes
	}
}

// OptMaxDepth sets the maximum triple term nesting depth.
func OptMaxDepth(maxDepth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = maxDepth
	}
}

// OptMaxTriples sets the maximum number of triples/quads to process.
func OptMaxTriples(maxTriples int64) Option {
	return func(opts *Options) {
		opts.MaxTriples = maxTriples
	}
}

// OptSafeLimits applies safe limits suitable for untrusted input.
func OptSafeLimits() Option {
	return func(opts *Options) {
		safe := safeOptions()
		opts.MaxLineBytes = safe.MaxLineBytes
		opts.MaxStatementBytes = safe.MaxStatementBytes
		opts.MaxDepth = safe.MaxDepth
		opts.MaxTriples = safe.MaxTriples
	}
}

// OptBaseIRI sets the base IRI used when expanding JSON-LD documents.
func OptBaseIRI(base string) Option {
	return func(opts *Options) {
		opts.BaseIRI = base
	}
}

// Internal helpers

func newDecoder(r io.Reader, format Format, opts Options) (Reader, error) {
	if opts.Context != nil {
		r = &contextReader{ctx: opts.Context, r: r}
	}
	var dec Reader
	switch format {
	case FormatNTriples, FormatNQuads:
		dec = newNTDecoder(r, format, opts)
	case FormatJSONLD:
		dec = newJSONLDDecoder(r, opts)
	default:
		return nil, ErrUnsupportedFormat
	}
	if opts.MaxTriples > 0 {
		dec = &limitReader{Reader: dec, max: opts.MaxTriples}
	}
	return dec, nil
}

func newEncoder(w io.Writer, format Format, opts Options) (Writer, error) {
	switch format {
	case FormatNTriples, FormatNQuads:
		return newNTEncoder(w, format), nil
	case FormatJSONLD:
		return newJSONLDEncoder(w, opts), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// limitReader enforces Options.MaxTriples.
type limitReader struct {
	Reader
	max   int64
	count int64
}

func (l *limitReader) Next() (Quad, error) {
	q, err := l.Reader.Next()
	if err != nil {
		return q, err
	}
	l.count++
	if l.count > l.max {
		return Quad{}, ErrTripleLimitExceeded
	}
	return q, nil
}
