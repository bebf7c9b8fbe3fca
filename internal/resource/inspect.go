package resource

import (
	"errors"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/pkg/permutation"
	"github.com/anonputraid/zetcipher/pkg/textcodec"
)

// hideDigits is the base order of hide pools. It starts with a non-zero
// digit, so the identity ordering is itself a usable hide pool.
const hideDigits = "1234567890"

// CanonicalPool returns the symbol set a pool of kind is a permutation of,
// in the base order Generate shuffles from.
func CanonicalPool(kind domain.PoolKind) string {
	switch kind {
	case domain.PoolEncryption:
		return textcodec.Alphabet
	case domain.PoolSecret:
		b := make([]byte, 256)
		for i := range b {
			b[i] = byte(i)
		}
		return string(b)
	case domain.PoolHide:
		return hideDigits
	}
	return ""
}

// PoolInfo describes one pool of a cipher.
type PoolInfo struct {
	Kind    domain.PoolKind `json:"kind" yaml:"kind"`
	Symbols int             `json:"symbols" yaml:"symbols"`
	// Canonical is set when the pool is a permutation of CanonicalPool.
	Canonical bool `json:"canonical" yaml:"canonical"`
	// Index is the Lehmer index of the pool relative to the canonical
	// order; empty when the pool is not canonical.
	Index     string `json:"index,omitempty" yaml:"index,omitempty"`
	Orderings string `json:"orderings" yaml:"orderings"`
}

// Inspect describes the three pools of cipher.
func (s *MemoryStore) Inspect(cipher string) ([]PoolInfo, error) {
	out := make([]PoolInfo, 0, len(domain.PoolKinds))
	for _, kind := range domain.PoolKinds {
		pool, err := s.Pool(kind, cipher)
		if err != nil {
			return nil, err
		}

		info := PoolInfo{
			Kind:      kind,
			Symbols:   len(pool),
			Orderings: permutation.Count(len(pool)),
		}
		idx, err := permutation.Rank(CanonicalPool(kind), pool)
		switch {
		case err == nil:
			info.Canonical = true
			info.Index = idx
		case !errors.Is(err, permutation.ErrNotInPool):
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// Canonical reports whether every pool of cipher is a permutation of its
// kind's canonical set.
func (s *MemoryStore) Canonical(cipher string) (bool, error) {
	pools, err := s.Inspect(cipher)
	if err != nil {
		return false, err
	}
	for _, p := range pools {
		if !p.Canonical {
			return false, nil
		}
	}
	return true, nil
}
