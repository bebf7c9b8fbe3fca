package resource

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/pkg/decimal"
	"github.com/anonputraid/zetcipher/pkg/textcodec"
)

// DefaultRows is the number of ciphers Generate creates.
const DefaultRows = 81

// CipherPrefix starts every generated cipher id.
const CipherPrefix = "ZET/"

// Signing secrets are drawn from this range; its upper end stays below 10!,
// the number of hide pool orderings.
const (
	minSigningSecret = 1000000
	maxSigningSecret = 3618800
)

// Generate returns a bundle of rows fresh ciphers. Each cipher gets a
// shuffled text alphabet (encryption), a shuffled 0-255 byte range
// (secret) and a shuffled digit set whose first symbol is not '0' (hide).
// rnd defaults to crypto/rand.
func Generate(rows int, rnd io.Reader) (*Bundle, error) {
	if rows <= 0 {
		return nil, domain.ErrInvalidInput.WithDetails("rows must be positive")
	}
	if rnd == nil {
		rnd = rand.Reader
	}

	ids, err := cipherIDs(rows, rnd)
	if err != nil {
		return nil, err
	}

	alphabet := []byte(CanonicalPool(domain.PoolEncryption))
	bytesRange := []byte(CanonicalPool(domain.PoolSecret))
	digits := []byte(CanonicalPool(domain.PoolHide))

	b := &Bundle{}
	for _, id := range ids {
		enc, err := shuffled(alphabet, rnd)
		if err != nil {
			return nil, err
		}
		sec, err := shuffled(bytesRange, rnd)
		if err != nil {
			return nil, err
		}
		var hide []byte
		for hide == nil || hide[0] == '0' {
			if hide, err = shuffled(digits, rnd); err != nil {
				return nil, err
			}
		}

		b.set(domain.PoolEncryption, id, EncodePool(string(enc)))
		b.set(domain.PoolSecret, id, EncodePool(string(sec)))
		b.set(domain.PoolHide, id, EncodePool(string(hide)))
	}
	return b, nil
}

// Keys is a freshly generated codec configuration.
type Keys struct {
	Cipher        string
	AccessKeyID   string
	AccessKey     string
	SigningSecret string
}

// Env renders the keys as ZETCIPHER_* assignments.
func (k Keys) Env(lifetime time.Duration) []string {
	return []string{
		"ZETCIPHER_CIPHER=" + k.Cipher,
		"ZETCIPHER_ACCESS_KEY_ID=" + k.AccessKeyID,
		"ZETCIPHER_ACCESS_KEY=" + k.AccessKey,
		"ZETCIPHER_SIGNING_SECRET=" + k.SigningSecret,
		"ZETCIPHER_TOKEN_LIFETIME=" + strconv.FormatInt(int64(lifetime/time.Second), 10),
	}
}

// GenerateKeys picks a cipher of b and draws the matching secrets. The
// access key id lies in [1, 65!] so it selects an ordering of both the
// encryption and the secret pool.
func GenerateKeys(b *Bundle, now time.Time, rnd io.Reader) (Keys, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	ciphers := b.Ciphers()
	if len(ciphers) == 0 {
		return Keys{}, domain.ErrResourceMissing.WithDetails("bundle has no ciphers")
	}

	pick, err := uniform(rnd, int64(len(ciphers)))
	if err != nil {
		return Keys{}, err
	}

	limit, _ := new(big.Int).SetString(decimal.Factorial(len(textcodec.Alphabet)), 10)
	idx, err := rand.Int(rnd, limit)
	if err != nil {
		return Keys{}, fmt.Errorf("resource: access key id: %w", err)
	}
	idx.Add(idx, big.NewInt(1))

	id, err := ulid.New(ulid.Timestamp(now), rnd)
	if err != nil {
		return Keys{}, fmt.Errorf("resource: access key identifier: %w", err)
	}
	numeric, err := randomDigits(rnd, 12)
	if err != nil {
		return Keys{}, err
	}
	salt, err := randomText(rnd, 24)
	if err != nil {
		return Keys{}, err
	}

	signing, err := uniform(rnd, maxSigningSecret-minSigningSecret+1)
	if err != nil {
		return Keys{}, err
	}

	return Keys{
		Cipher:        ciphers[pick],
		AccessKeyID:   idx.String(),
		AccessKey:     id.String() + "/" + numeric + "/" + base64.StdEncoding.EncodeToString([]byte(salt)),
		SigningSecret: strconv.FormatInt(minSigningSecret+signing, 10),
	}, nil
}

func cipherIDs(n int, rnd io.Reader) ([]string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for len(out) < n {
		code, err := randomFrom(rnd, letters, 3)
		if err != nil {
			return nil, err
		}
		id := CipherPrefix + code
		if seen[id] {
			for suffix := 2; ; suffix++ {
				alt := id + "#" + strconv.Itoa(suffix)
				if !seen[alt] {
					id = alt
					break
				}
			}
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

// shuffled returns a Fisher-Yates shuffle of src.
func shuffled(src []byte, rnd io.Reader) ([]byte, error) {
	out := append([]byte(nil), src...)
	for i := len(out) - 1; i > 0; i-- {
		j, err := uniform(rnd, int64(i+1))
		if err != nil {
			return nil, err
		}
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func uniform(rnd io.Reader, n int64) (int64, error) {
	v, err := rand.Int(rnd, big.NewInt(n))
	if err != nil {
		return 0, fmt.Errorf("resource: random: %w", err)
	}
	return v.Int64(), nil
}

func randomFrom(rnd io.Reader, set string, n int) (string, error) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		j, err := uniform(rnd, int64(len(set)))
		if err != nil {
			return "", err
		}
		sb.WriteByte(set[j])
	}
	return sb.String(), nil
}

func randomDigits(rnd io.Reader, n int) (string, error) {
	first, err := randomFrom(rnd, "123456789", 1)
	if err != nil {
		return "", err
	}
	rest, err := randomFrom(rnd, "0123456789", n-1)
	if err != nil {
		return "", err
	}
	return first + rest, nil
}

func randomText(rnd io.Reader, n int) (string, error) {
	return randomFrom(rnd, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789", n)
}
