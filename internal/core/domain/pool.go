package domain

// PoolKind names one of the three symbol pools kept per cipher.
type PoolKind string

const (
	// PoolEncryption permutes the text alphabet; it encodes payloads.
	PoolEncryption PoolKind = "encryption"
	// PoolSecret permutes byte values 0-255; it encodes key material,
	// passphrases and identities.
	PoolSecret PoolKind = "secret"
	// PoolHide permutes the ten digits; it is the digit substitution table.
	PoolHide PoolKind = "hide"
)

// PoolKinds lists every kind in resource-file order.
var PoolKinds = []PoolKind{PoolEncryption, PoolSecret, PoolHide}

// Valid reports whether k is a known kind.
func (k PoolKind) Valid() bool {
	switch k {
	case PoolEncryption, PoolSecret, PoolHide:
		return true
	}
	return false
}
