package convert

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"io"
	"log/slog"
	"os"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/rendis/cwlviz/pkg/cwl"
)

// CacheStore persists conversion results in a libSQL database keyed by the
// SHA-256 of the document bytes, so re-rendering an unchanged document
// skips the external tool.
type CacheStore struct {
	db *sql.DB
}

// OpenCacheStore opens (or creates) the cache database at the given path.
// The path should be a file URI, e.g. "file:/path/to/cache.db".
func OpenCacheStore(dbPath string) (*CacheStore, error) {
	db, err := sql.Open("libsql", dbPath)
	if err != nil {
		return nil, cwl.NewError(cwl.ErrCodeStore, "open cache db").WithCause(err)
	}
	db.SetMaxOpenConns(1)

	var result string
	_ = db.QueryRow("PRAGMA journal_mode=WAL").Scan(&result)
	_ = db.QueryRow("PRAGMA busy_timeout=5000").Scan(&result)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS rdf_cache (
		doc_hash   TEXT PRIMARY KEY,
		rdf        BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		_ = db.Close()
		return nil, cwl.NewError(cwl.ErrCodeStore, "create cache schema").WithCause(err)
	}

	return &CacheStore{db: db}, nil
}

// Close closes the database.
func (s *CacheStore) Close() error { return s.db.Close() }

// Get returns the cached serialization for the hash, or nil when absent.
func (s *CacheStore) Get(ctx context.Context, docHash string) ([]byte, error) {
	var rdf []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT rdf FROM rdf_cache WHERE doc_hash = ?`, docHash,
	).Scan(&rdf)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, cwl.NewError(cwl.ErrCodeStore, "read cache").WithCause(err)
	}
	return rdf, nil
}

// Put stores a serialization, overwriting any previous entry.
func (s *CacheStore) Put(ctx context.Context, docHash string, rdf []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rdf_cache (doc_hash, rdf) VALUES (?, ?)
		 ON CONFLICT(doc_hash) DO UPDATE SET rdf=excluded.rdf`,
		docHash, rdf,
	)
	if err != nil {
		return cwl.NewError(cwl.ErrCodeStore, "write cache").WithCause(err)
	}
	return nil
}

// CachedConverter fronts another Converter with a CacheStore. Cache
// failures degrade to direct conversion and never fail the pipeline.
type CachedConverter struct {
	inner  Converter
	store  *CacheStore
	logger *slog.Logger
}

// NewCachedConverter wraps inner with the cache.
func NewCachedConverter(inner Converter, store *CacheStore, logger *slog.Logger) *CachedConverter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedConverter{inner: inner, store: store, logger: logger}
}

// Convert returns the cached serialization when the document bytes are
// unchanged, converting and caching otherwise.
func (c *CachedConverter) Convert(ctx context.Context, documentPath string) ([]byte, error) {
	hash, err := sha256File(documentPath)
	if err != nil {
		// Let the inner converter produce the canonical error for an
		// unreadable document.
		return c.inner.Convert(ctx, documentPath)
	}

	if cached, cacheErr := c.store.Get(ctx, hash); cacheErr != nil {
		c.logger.Warn("cache read failed", slog.String("error", cacheErr.Error()))
	} else if cached != nil {
		c.logger.Debug("conversion cache hit", slog.String("hash", hash))
		return cached, nil
	}

	data, err := c.inner.Convert(ctx, documentPath)
	if err != nil {
		return nil, err
	}

	if putErr := c.store.Put(ctx, hash, data); putErr != nil {
		c.logger.Warn("cache write failed", slog.String("error", putErr.Error()))
	}
	return data, nil
}

// sha256File computes the SHA-256 hex digest of a file.
func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
