package resource

import (
	"sort"

	"github.com/anonputraid/zetcipher/internal/core/domain"
)

// MemoryStore is an immutable set of decoded pools, keyed by kind and
// cipher. It satisfies service.PoolSource and is safe for concurrent use.
type MemoryStore struct {
	pools map[domain.PoolKind]map[string]string
}

// Pool returns the decoded pool of kind for cipher.
func (s *MemoryStore) Pool(kind domain.PoolKind, cipher string) (string, error) {
	if !kind.Valid() {
		return "", domain.ErrResourceMissing.WithDetailsf("unknown pool kind %q", kind)
	}
	p, ok := s.pools[kind][cipher]
	if !ok {
		return "", domain.ErrResourceMissing.WithDetailsf("no %s pool for cipher %q", kind, cipher)
	}
	return p, nil
}

// Ciphers returns the cipher ids present in every table, sorted.
func (s *MemoryStore) Ciphers() []string {
	var out []string
	for cipher := range s.pools[domain.PoolEncryption] {
		_, sec := s.pools[domain.PoolSecret][cipher]
		_, hide := s.pools[domain.PoolHide][cipher]
		if sec && hide {
			out = append(out, cipher)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of pools across all kinds.
func (s *MemoryStore) Len() int {
	n := 0
	for _, t := range s.pools {
		n += len(t)
	}
	return n
}
