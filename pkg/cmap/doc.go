// Package cmap provides a concurrent map sharded by murmur3 key hash.
//
// ZetCipher uses it to memoise derived map sets: building a conversion map
// means decoding a permutation index against a pool of up to 256 symbols,
// which is worth doing once per (kind, pool, index) rather than per token.
//
// Features:
//
//   - Sharding: power-of-two shard count, murmur3 64-bit routing
//   - Fine-grained Locking: per-shard RWMutex
//   - Bounded shards: optional per-shard capacity with arbitrary eviction
//   - GetOrCompute: single computation per key under the shard lock
//
// Usage:
//
//	m := cmap.New[string, *Set]()
//	set, err := m.GetOrCompute(key, func() (*Set, error) { return build() })
package cmap
