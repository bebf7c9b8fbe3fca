package resource

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/anonputraid/zetcipher/internal/core/domain"
)

// Bundle is the on-disk form of a resource set. Pools are dot-separated
// byte values.
type Bundle struct {
	Encryption map[string]string `yaml:"encryption"`
	Secret     map[string]string `yaml:"secret"`
	Hide       map[string]string `yaml:"hide"`
}

// Table returns the table of kind, or nil for an unknown kind.
func (b *Bundle) Table(kind domain.PoolKind) map[string]string {
	switch kind {
	case domain.PoolEncryption:
		return b.Encryption
	case domain.PoolSecret:
		return b.Secret
	case domain.PoolHide:
		return b.Hide
	}
	return nil
}

func (b *Bundle) set(kind domain.PoolKind, cipher, encoded string) {
	switch kind {
	case domain.PoolEncryption:
		if b.Encryption == nil {
			b.Encryption = make(map[string]string)
		}
		b.Encryption[cipher] = encoded
	case domain.PoolSecret:
		if b.Secret == nil {
			b.Secret = make(map[string]string)
		}
		b.Secret[cipher] = encoded
	case domain.PoolHide:
		if b.Hide == nil {
			b.Hide = make(map[string]string)
		}
		b.Hide[cipher] = encoded
	}
}

// Ciphers returns the sorted union of cipher ids over all tables.
func (b *Bundle) Ciphers() []string {
	seen := make(map[string]struct{})
	for _, kind := range domain.PoolKinds {
		for c := range b.Table(kind) {
			seen[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Store decodes every pool into a MemoryStore. Any malformed pool fails
// the whole bundle.
func (b *Bundle) Store() (*MemoryStore, error) {
	s := &MemoryStore{pools: make(map[domain.PoolKind]map[string]string, len(domain.PoolKinds))}
	for _, kind := range domain.PoolKinds {
		table := make(map[string]string, len(b.Table(kind)))
		for cipher, encoded := range b.Table(kind) {
			pool, err := DecodePool(encoded)
			if err != nil {
				return nil, domain.ErrResourceInvalid.WithDetailsf("%s pool of %q", kind, cipher).WithCause(err)
			}
			table[cipher] = pool
		}
		s.pools[kind] = table
	}
	return s, nil
}

// Marshal renders the bundle as YAML.
func (b *Bundle) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("resource: encode bundle: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("resource: encode bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseBundle reads a bundle, opening it first when it is sealed.
func ParseBundle(data []byte, passphrase string) (*Bundle, error) {
	if IsSealed(data) {
		if passphrase == "" {
			return nil, domain.ErrConfigMissing.WithDetails("resource bundle is sealed and no passphrase is set")
		}
		plain, err := Open(data, []byte(passphrase))
		if err != nil {
			return nil, domain.ErrResourceInvalid.WithDetails("cannot open sealed bundle").WithCause(err)
		}
		data = plain
	}

	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, domain.ErrResourceInvalid.WithDetails("bundle is not valid YAML").WithCause(err)
	}
	if len(b.Encryption)+len(b.Secret)+len(b.Hide) == 0 {
		return nil, domain.ErrResourceInvalid.WithDetails("bundle has no pools")
	}
	return &b, nil
}

// LoadFile reads and parses the bundle at path.
func LoadFile(path, passphrase string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrResourceMissing.WithDetails(path).WithCause(err)
		}
		return nil, fmt.Errorf("resource: read %s: %w", path, err)
	}
	return ParseBundle(data, passphrase)
}

// WriteFile writes the bundle to path, sealed when passphrase is not empty.
// An existing file is never overwritten.
func WriteFile(path string, b *Bundle, passphrase string) error {
	data, err := b.Marshal()
	if err != nil {
		return err
	}
	if passphrase != "" {
		if data, err = Seal(data, []byte(passphrase), DefaultAlgorithm()); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("resource: create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("resource: write %s: %w", path, err)
	}
	return f.Close()
}
