package canon

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"log/slog"
)

// HashAlgorithm names the digest used for every hash of a run.
type HashAlgorithm string

const (
	SHA256 HashAlgorithm = "SHA256"
	SHA384 HashAlgorithm = "SHA384"
)

// DefaultMaxRecursion bounds the nesting of N-degree hashing.
const DefaultMaxRecursion = 1000

func (a HashAlgorithm) newHash() (func() hash.Hash, error) {
	switch a {
	case SHA256, "":
		return sha256.New, nil
	case SHA384:
		return sha512.New384, nil
	default:
		return nil, fmt.Errorf("canon: unsupported hash algorithm %q", string(a))
	}
}

// Option configures a Canonicalizer.
type Option func(*Options)

// Options configures a Canonicalizer.
type Options struct {
	Hash         HashAlgorithm
	MaxRecursion int
	MaxWork      int
	Logger       *slog.Logger
}

func defaultOptions() Options {
	return Options{Hash: SHA256, MaxRecursion: DefaultMaxRecursion}
}

// WithHashAlgorithm selects the digest. SHA256 is the default.
func WithHashAlgorithm(a HashAlgorithm) Option {
	return func(o *Options) { o.Hash = a }
}

// WithMaxRecursion bounds how deeply N-degree hashing may nest before the
// run fails with rdf.ErrRecursionLimit.
func WithMaxRecursion(n int) Option {
	return func(o *Options) { o.MaxRecursion = n }
}

// WithMaxWork bounds the total number of N-degree hashing calls and
// permutations tried in one run; the run fails with rdf.ErrWorkLimit when it
// is exceeded. Zero means unbounded.
func WithMaxWork(n int) Option {
	return func(o *Options) { o.MaxWork = n }
}

// WithLogger sets the logger for tie-breaking diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
