package codemap

import (
	"errors"
	"fmt"
)

// MaxSignatureLen is the largest pool a SignatureMap accepts: positions are
// addressed by a single decimal digit.
const MaxSignatureLen = 10

var (
	ErrSignatureEmpty     = errors.New("codemap: empty signature pool")
	ErrSignatureTooLong   = errors.New("codemap: signature pool longer than 10 symbols")
	ErrSignatureDuplicate = errors.New("codemap: signature pool repeats a symbol")
)

// SignatureMap is a position <-> symbol translate table.
type SignatureMap struct {
	forward [256]byte
	reverse [256]byte
	symbols string
}

// NewSignatureMap builds the table for a permuted pool of distinct symbols.
func NewSignatureMap(permuted string) (*SignatureMap, error) {
	switch {
	case len(permuted) == 0:
		return nil, ErrSignatureEmpty
	case len(permuted) > MaxSignatureLen:
		return nil, fmt.Errorf("%w: got %d", ErrSignatureTooLong, len(permuted))
	}

	m := &SignatureMap{symbols: permuted}
	for i := range m.forward {
		m.forward[i] = byte(i)
		m.reverse[i] = byte(i)
	}

	var seen [256]bool
	for i := 0; i < len(permuted); i++ {
		sym := permuted[i]
		if seen[sym] {
			return nil, fmt.Errorf("%w: %q", ErrSignatureDuplicate, sym)
		}
		seen[sym] = true
		m.forward['0'+i] = sym
		m.reverse[sym] = byte('0' + i)
	}

	return m, nil
}

// Apply replaces every digit d in s with the symbol at position d. Bytes
// with no mapping pass through.
func (m *SignatureMap) Apply(s string) string {
	return translate(s, &m.forward)
}

// Revert undoes Apply.
func (m *SignatureMap) Revert(s string) string {
	return translate(s, &m.reverse)
}

// Bijective reports whether the pool is a permutation of the digits
// '0'..'0'+Len()-1, the case in which Revert exactly inverts Apply over
// digit strings drawn from that range.
func (m *SignatureMap) Bijective() bool {
	var seen [MaxSignatureLen]bool
	for i := 0; i < len(m.symbols); i++ {
		d := int(m.symbols[i]) - '0'
		if d < 0 || d >= len(m.symbols) || seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}

// Len returns the number of positions.
func (m *SignatureMap) Len() int {
	return len(m.symbols)
}

func translate(s string, table *[256]byte) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = table[s[i]]
	}
	return string(out)
}
