package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/internal/storage"
)

const keyPrefix = "resource/"

// Repository persists pools in a KV engine under resource/<kind>/<cipher>.
// Values hold the raw pool bytes.
type Repository struct {
	kv storage.KVEngine
}

// NewRepository wraps kv.
func NewRepository(kv storage.KVEngine) *Repository {
	return &Repository{kv: kv}
}

func poolKey(kind domain.PoolKind, cipher string) []byte {
	return []byte(keyPrefix + string(kind) + "/" + cipher)
}

// Import writes every pool of b. Existing pools of the same cipher are
// replaced unless keep is set, in which case they win.
func (r *Repository) Import(ctx context.Context, b *Bundle, keep bool) (int, error) {
	s, err := b.Store()
	if err != nil {
		return 0, err
	}

	written := 0
	for _, kind := range domain.PoolKinds {
		for cipher, pool := range s.pools[kind] {
			key := poolKey(kind, cipher)
			if keep {
				ok, err := r.kv.SetIfAbsent(ctx, key, []byte(pool))
				if err != nil {
					return written, domain.ErrStorage.WithCause(err)
				}
				if ok {
					written++
				}
				continue
			}
			if err := r.kv.Set(ctx, key, []byte(pool)); err != nil {
				return written, domain.ErrStorage.WithCause(err)
			}
			written++
		}
	}
	return written, nil
}

// Pool reads one pool.
func (r *Repository) Pool(ctx context.Context, kind domain.PoolKind, cipher string) (string, error) {
	v, err := r.kv.Get(ctx, poolKey(kind, cipher))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", domain.ErrResourceMissing.WithDetailsf("no %s pool for cipher %q", kind, cipher)
	}
	if err != nil {
		return "", domain.ErrStorage.WithCause(err)
	}
	return string(v), nil
}

// Delete removes every pool of cipher.
func (r *Repository) Delete(ctx context.Context, cipher string) error {
	for _, kind := range domain.PoolKinds {
		if err := r.kv.Delete(ctx, poolKey(kind, cipher)); err != nil {
			return domain.ErrStorage.WithCause(err)
		}
	}
	return nil
}

// Load reads every stored pool into a MemoryStore.
func (r *Repository) Load(ctx context.Context) (*MemoryStore, error) {
	s := &MemoryStore{pools: make(map[domain.PoolKind]map[string]string, len(domain.PoolKinds))}
	for _, kind := range domain.PoolKinds {
		s.pools[kind] = make(map[string]string)
	}

	var bad error
	err := r.kv.Scan(ctx, []byte(keyPrefix), func(key, value []byte) bool {
		rest := strings.TrimPrefix(string(key), keyPrefix)
		kind, cipher, ok := strings.Cut(rest, "/")
		if !ok || !domain.PoolKind(kind).Valid() || cipher == "" {
			bad = fmt.Errorf("resource: unexpected key %q", key)
			return false
		}
		s.pools[domain.PoolKind(kind)][cipher] = string(value)
		return true
	})
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	if bad != nil {
		return nil, domain.ErrResourceInvalid.WithCause(bad)
	}
	if s.Len() == 0 {
		return nil, domain.ErrResourceMissing.WithDetails("repository holds no pools")
	}
	return s, nil
}

// Export returns the stored pools as a bundle.
func (r *Repository) Export(ctx context.Context) (*Bundle, error) {
	s, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	b := &Bundle{}
	for kind, table := range s.pools {
		for cipher, pool := range table {
			b.set(kind, cipher, EncodePool(pool))
		}
	}
	return b, nil
}
