package storage

import (
	"context"
	"errors"
	"io"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("storage: key not found")
	ErrClosed      = errors.New("storage: engine closed")
	ErrNoLocation  = errors.New("storage: dir is required unless in_memory is set")
)

// KVEngine is the embedded key-value store used by the repositories.
//
// Implementations are safe for concurrent use.
type KVEngine interface {
	// Get returns the value of key, or ErrKeyNotFound.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair.
	Set(ctx context.Context, key, value []byte) error

	// SetIfAbsent stores the pair unless key already exists and reports
	// whether it wrote.
	SetIfAbsent(ctx context.Context, key, value []byte) (bool, error)

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key []byte) error

	// DeleteIfPresent removes key in the same transaction that checks it
	// exists and reports whether it removed anything.
	DeleteIfPresent(ctx context.Context, key []byte) (bool, error)

	// Scan calls fn for each key with the given prefix in key order until
	// fn returns false.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// Backup writes every live entry to w.
	Backup(ctx context.Context, w io.Writer) error

	// Load merges a stream written by Backup into the store.
	Load(ctx context.Context, r io.Reader) error

	// GC reclaims value log space.
	GC(ctx context.Context) error

	// Stats returns storage statistics.
	Stats(ctx context.Context) (*KVStats, error)

	// Close shuts the engine down.
	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	// LSMSize is the LSM tree size in bytes.
	LSMSize uint64

	// ValueLogSize is the value log size in bytes.
	ValueLogSize uint64

	// LastGCTime is the last GC run (Unix milliseconds), zero if never.
	LastGCTime int64

	// GCRuns counts value log rewrites.
	GCRuns uint64
}

// KVConfig configures the engine.
type KVConfig struct {
	// Dir is the storage directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in RAM; nothing survives Close.
	InMemory bool

	Badger BadgerConfig
}

// BadgerConfig contains Badger tuning parameters.
type BadgerConfig struct {
	// GCInterval is the interval between automatic GC runs. "0" disables
	// the background loop.
	// Default: 10m
	GCInterval string

	// GCThreshold is the discard ratio passed to RunValueLogGC.
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 16MB
	CacheSize int64

	// SyncWrites fsyncs after every write.
	// Default: true
	SyncWrites bool
}

// DefaultKVConfig returns the on-disk configuration for dir.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Dir:    dir,
		Badger: DefaultBadgerConfig(),
	}
}

// InMemoryKVConfig returns a configuration for a RAM-only engine.
func InMemoryKVConfig() KVConfig {
	cfg := KVConfig{InMemory: true, Badger: DefaultBadgerConfig()}
	cfg.Badger.GCInterval = "0"
	cfg.Badger.SyncWrites = false
	return cfg
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:  "10m",
		GCThreshold: 0.5,
		CacheSize:   16 << 20,
		SyncWrites:  true,
	}
}
