package cmap

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Map is a concurrent-safe sharded map with string-like keys.
type Map[K ~string, V any] struct {
	shards    []*shard[K, V]
	shardMask uint64
	capacity  int
}

type shard[K ~string, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// Option configures a Map.
type Option func(*options)

type options struct {
	shards   int
	capacity int
}

// WithShardCount sets the number of shards. Values that are not a positive
// power of two fall back to DefaultShardCount.
func WithShardCount(n int) Option {
	return func(o *options) { o.shards = n }
}

// WithShardCapacity bounds the number of entries per shard. When a shard is
// full, inserting a new key evicts one existing entry. Zero means unbounded.
func WithShardCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// New creates a sharded map.
func New[K ~string, V any](opts ...Option) *Map[K, V] {
	o := options{shards: DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}
	if o.shards <= 0 || o.shards&(o.shards-1) != 0 {
		o.shards = DefaultShardCount
	}
	if o.capacity < 0 {
		o.capacity = 0
	}

	m := &Map[K, V]{
		shards:    make([]*shard[K, V], o.shards),
		shardMask: uint64(o.shards - 1),
		capacity:  o.capacity,
	}
	for i := range m.shards {
		m.shards[i] = &shard[K, V]{items: make(map[K]V)}
	}
	return m
}

func (m *Map[K, V]) getShard(key K) *shard[K, V] {
	return m.shards[murmur3.Sum64([]byte(key))&m.shardMask]
}

// Get retrieves a value by key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	s := m.getShard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Set stores a key-value pair.
func (m *Map[K, V]) Set(key K, value V) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	m.put(s, key, value)
}

// put inserts under the shard's write lock, evicting when the shard is full.
func (m *Map[K, V]) put(s *shard[K, V], key K, value V) {
	if _, exists := s.items[key]; !exists && m.capacity > 0 && len(s.items) >= m.capacity {
		for k := range s.items {
			delete(s.items, k)
			break
		}
	}
	s.items[key] = value
}

// GetOrCompute returns the value stored for key, computing and storing it
// first if absent. fn runs at most once per missing key; errors are returned
// without storing anything.
func (m *Map[K, V]) GetOrCompute(key K, fn func() (V, error)) (V, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}

	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.items[key]; ok {
		return v, nil
	}

	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}
	m.put(s, key, v)
	return v, nil
}

// Len returns the total number of items.
func (m *Map[K, V]) Len() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// ShardCount returns the number of shards.
func (m *Map[K, V]) ShardCount() int {
	return len(m.shards)
}
