package castore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/geoknoesis/rdfstore/canon"
	"github.com/geoknoesis/rdfstore/graph"
	"github.com/geoknoesis/rdfstore/rdf"
)

// DefaultKeyPrefix namespaces the store's keys inside badger.
const DefaultKeyPrefix = "rdfc/"

// Option configures a Store.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	canonOpts []canon.Option
	prefix    string
}

// WithLogger sets the logger for the store and the badger engine.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCanonicalizerOptions configures the canonicalizer used by Put.
func WithCanonicalizerOptions(opts ...canon.Option) Option {
	return func(o *options) { o.canonOpts = append(o.canonOpts, opts...) }
}

// WithKeyPrefix changes the key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// Store keeps datasets addressed by the digest of their canonical N-Quads
// form. Datasets that differ only in blank node names or quad order share a
// digest and are stored once. The data lives in an in-memory badger
// instance and is lost on Close.
type Store struct {
	db     *badger.DB
	canon  *canon.Canonicalizer
	prefix []byte
	logger *slog.Logger
}

// Open creates an empty store.
func Open(opts ...Option) (*Store, error) {
	o := options{prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	canonOpts := append([]canon.Option{canon.WithLogger(o.logger)}, o.canonOpts...)

	bopts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(badgerLogger{logger: o.logger.With("component", "badger")})
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{
		db:     db,
		canon:  canon.New(canonOpts...),
		prefix: []byte(o.prefix),
		logger: o.logger,
	}, nil
}

func (s *Store) key(digest string) []byte {
	key := make([]byte, 0, len(s.prefix)+len(digest))
	key = append(key, s.prefix...)
	return append(key, digest...)
}

func (s *Store) checkOpen() error {
	if s.db.IsClosed() {
		return rdf.ErrClosed
	}
	return nil
}

// Put canonicalizes ds and stores it under its digest. created is false when
// an equivalent dataset was already stored.
func (s *Store) Put(ctx context.Context, ds *graph.Dataset) (digest string, created bool, err error) {
	if err := s.checkOpen(); err != nil {
		return "", false, err
	}
	res, err := s.canon.CanonicalizeContext(ctx, ds)
	if err != nil {
		return "", false, err
	}
	digest = res.Hash()
	key := s.key(digest)
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		created = true
		return txn.Set(key, []byte(res.SerializedNQuads()))
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to store %s: %w", digest, err)
	}
	s.logger.Debug("castore put", "digest", digest, "created", created, "quads", len(res.Quads))
	return digest, created, nil
}

// PutQuads is Put for a list of quads.
func (s *Store) PutQuads(ctx context.Context, quads []rdf.Quad) (string, bool, error) {
	ds, err := graph.DatasetFromQuads(quads)
	if err != nil {
		return "", false, err
	}
	defer ds.Close()
	return s.Put(ctx, ds)
}

// GetNQuads returns the canonical N-Quads stored under digest.
func (s *Store) GetNQuads(digest string) (string, bool, error) {
	if err := s.checkOpen(); err != nil {
		return "", false, err
	}
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(digest))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(out), true, nil
}

// Get returns the dataset stored under digest. Its blank nodes carry their
// canonical labels.
func (s *Store) Get(ctx context.Context, digest string) (*graph.Dataset, bool, error) {
	nquads, ok, err := s.GetNQuads(digest)
	if err != nil || !ok {
		return nil, ok, err
	}
	quads, err := rdf.ReadAll(ctx, bytes.NewReader([]byte(nquads)), rdf.FormatNQuads)
	if err != nil {
		return nil, false, fmt.Errorf("stored dataset %s is corrupt: %w", digest, err)
	}
	ds, err := graph.DatasetFromQuads(quads)
	if err != nil {
		return nil, false, err
	}
	s.logger.Debug("castore get", "digest", digest, "quads", len(quads))
	return ds, true, nil
}

// Has reports whether a dataset is stored under digest.
func (s *Store) Has(digest string) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(s.key(digest))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes the dataset stored under digest and reports whether it
// existed.
func (s *Store) Delete(digest string) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	existed := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key := s.key(digest)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		existed = true
		return txn.Delete(key)
	})
	return existed, err
}

// Digests lists the stored digests in sorted order.
func (s *Store) Digests() ([]string, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var out []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = s.prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			out = append(out, string(it.Item().Key()[len(s.prefix):]))
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

// Close releases the badger instance and everything stored in it.
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}
