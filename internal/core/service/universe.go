package service

import (
	"errors"
	"fmt"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/pkg/codemap"
	"github.com/anonputraid/zetcipher/pkg/permutation"
	"github.com/anonputraid/zetcipher/pkg/textcodec"
)

// universe is the map set of one (cipher, index, signing) triple.
type universe struct {
	encryption *codemap.ConversionMap
	secret     *codemap.ConversionMap
	hide       *codemap.SignatureMap
}

// universe derives, or fetches from the memo caches, the map set for a call.
// An index outside its pool's range is reported as ErrPermutationRange.
func (c *Codec) universe(cl *call) (*universe, error) {
	encPool, err := c.pool(domain.PoolEncryption, cl.cipher)
	if err != nil {
		return nil, err
	}
	secPool, err := c.pool(domain.PoolSecret, cl.cipher)
	if err != nil {
		return nil, err
	}
	hidePool, err := c.pool(domain.PoolHide, cl.cipher)
	if err != nil {
		return nil, err
	}

	enc, err := c.conversion(domain.PoolEncryption, encPool, cl.index)
	if err != nil {
		return nil, err
	}
	if enc.Len() < len(textcodec.Alphabet) {
		return nil, domain.ErrResourceInvalid.WithDetailsf(
			"encryption pool of %q has %d symbols, alphabet needs %d", cl.cipher, enc.Len(), len(textcodec.Alphabet))
	}
	if err := enc.Validate(); err != nil {
		return nil, domain.ErrResourceInvalid.WithDetailsf("encryption pool of %q", cl.cipher).WithCause(err)
	}

	sec, err := c.conversion(domain.PoolSecret, secPool, cl.index)
	if err != nil {
		return nil, err
	}

	hide, err := c.signature(hidePool, cl.signing)
	if err != nil {
		return nil, err
	}
	if !hide.Bijective() {
		return nil, domain.ErrResourceInvalid.WithDetailsf("hide pool of %q is not a digit permutation", cl.cipher)
	}

	return &universe{encryption: enc, secret: sec, hide: hide}, nil
}

func (c *Codec) pool(kind domain.PoolKind, cipher string) (string, error) {
	p, err := c.store.Pool(kind, cipher)
	if err != nil {
		return "", err
	}
	if p == "" {
		return "", domain.ErrResourceInvalid.WithDetailsf("empty %s pool for %q", kind, cipher)
	}
	return p, nil
}

func cacheKey(kind domain.PoolKind, pool, index string) string {
	return string(kind) + "\x00" + pool + "\x00" + index
}

func (c *Codec) conversion(kind domain.PoolKind, pool, index string) (*codemap.ConversionMap, error) {
	key := cacheKey(kind, pool, index)
	if m, ok := c.conversions.Get(key); ok {
		c.observer.ObserveUniverse(true)
		return m, nil
	}
	c.observer.ObserveUniverse(false)

	return c.conversions.GetOrCompute(key, func() (*codemap.ConversionMap, error) {
		perm, err := permute(kind, pool, index)
		if err != nil {
			return nil, err
		}
		return codemap.NewConversionMap(perm), nil
	})
}

func (c *Codec) signature(pool, index string) (*codemap.SignatureMap, error) {
	key := cacheKey(domain.PoolHide, pool, index)
	if m, ok := c.signatures.Get(key); ok {
		c.observer.ObserveUniverse(true)
		return m, nil
	}
	c.observer.ObserveUniverse(false)

	return c.signatures.GetOrCompute(key, func() (*codemap.SignatureMap, error) {
		perm, err := permute(domain.PoolHide, pool, index)
		if err != nil {
			return nil, err
		}
		m, err := codemap.NewSignatureMap(perm)
		if err != nil {
			return nil, domain.ErrResourceInvalid.WithDetails("hide pool").WithCause(err)
		}
		return m, nil
	})
}

func permute(kind domain.PoolKind, pool, index string) (string, error) {
	perm, err := permutation.Decode(pool, index)
	switch {
	case err == nil:
		return perm, nil
	case errors.Is(err, permutation.ErrOutOfRange):
		return "", domain.ErrPermutationRange.WithDetailsf("%s pool of %d symbols", kind, len(pool)).WithCause(err)
	default:
		return "", fmt.Errorf("permute %s pool: %w", kind, err)
	}
}
