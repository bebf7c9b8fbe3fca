package resource

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Algorithm names a sealing AEAD.
type Algorithm string

const (
	AlgorithmAESGCM   Algorithm = "aes-gcm"
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// Sealing errors.
var (
	ErrPassphraseTooWeak = errors.New("resource: seal passphrase too weak (minimum 8 characters)")
	ErrNotSealed         = errors.New("resource: data is not a sealed bundle")
	ErrOpenFailed        = errors.New("resource: open failed - wrong passphrase or corrupted data")
	ErrUnknownAlgorithm  = errors.New("resource: unknown seal algorithm")
)

const (
	// MinPassphraseLength is the minimum seal passphrase length.
	MinPassphraseLength = 8

	// SaltLength is the argon2id salt length stored in the header.
	SaltLength = 16

	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	keyLength     = 32

	hkdfInfo = "zetcipher resource bundle v1"
)

// sealMagic opens every sealed bundle. The header is
// magic | algorithm id (1 byte) | salt, followed by nonce | ciphertext.
var sealMagic = []byte("ZCRB1")

var algorithmIDs = map[Algorithm]byte{
	AlgorithmAESGCM:   1,
	AlgorithmChaCha20: 2,
}

// DefaultAlgorithm prefers AES-GCM where Go has hardware AES.
func DefaultAlgorithm() Algorithm {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return AlgorithmAESGCM
	default:
		return AlgorithmChaCha20
	}
}

// IsSealed reports whether data starts with the sealed-bundle magic.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, sealMagic)
}

// Seal encrypts plain under a key derived from passphrase.
func Seal(plain, passphrase []byte, algo Algorithm) ([]byte, error) {
	if len(passphrase) < MinPassphraseLength {
		return nil, ErrPassphraseTooWeak
	}
	id, ok := algorithmIDs[algo]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algo)
	}

	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("resource: seal salt: %w", err)
	}

	header := make([]byte, 0, len(sealMagic)+1+SaltLength)
	header = append(header, sealMagic...)
	header = append(header, id)
	header = append(header, salt...)

	aead, err := newAEAD(algo, passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("resource: seal nonce: %w", err)
	}

	out := append(header, nonce...)
	return aead.Seal(out, nonce, plain, header), nil
}

// Open reverses Seal.
func Open(sealed, passphrase []byte) ([]byte, error) {
	headerLen := len(sealMagic) + 1 + SaltLength
	if !IsSealed(sealed) || len(sealed) < headerLen {
		return nil, ErrNotSealed
	}
	header := sealed[:headerLen]

	var algo Algorithm
	for a, id := range algorithmIDs {
		if id == header[len(sealMagic)] {
			algo = a
		}
	}
	if algo == "" {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownAlgorithm, header[len(sealMagic)])
	}

	aead, err := newAEAD(algo, passphrase, header[len(sealMagic)+1:])
	if err != nil {
		return nil, err
	}

	body := sealed[headerLen:]
	if len(body) < aead.NonceSize() {
		return nil, ErrOpenFailed
	}
	plain, err := aead.Open(nil, body[:aead.NonceSize()], body[aead.NonceSize():], header)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plain, nil
}

// deriveKey stretches passphrase with argon2id and expands the result
// with HKDF-SHA256.
func deriveKey(passphrase, salt []byte) ([]byte, error) {
	master := argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, keyLength)
	defer zero(master)

	key := make([]byte, keyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, salt, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("resource: derive key: %w", err)
	}
	return key, nil
}

func newAEAD(algo Algorithm, passphrase, salt []byte) (cipher.AEAD, error) {
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer zero(key)

	switch algo {
	case AlgorithmAESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case AlgorithmChaCha20:
		return chacha20poly1305.New(key)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algo)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
