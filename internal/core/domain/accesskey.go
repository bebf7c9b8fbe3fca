package domain

import (
	"encoding/base64"
	"strings"

	"github.com/anonputraid/zetcipher/pkg/decimal"
)

// AccessKey is a parsed access key of the form
// identifier/numeric/base64-salt.
type AccessKey struct {
	Identifier string
	Numeric    string
	Salt       []byte
}

// ParseAccessKey parses raw. The salt accepts padded or unpadded standard
// base64.
func ParseAccessKey(raw string) (AccessKey, error) {
	parts := strings.SplitN(raw, "/", 3)
	if len(parts) != 3 {
		return AccessKey{}, ErrAccessKeyInvalid.WithDetails("expected identifier/numeric/salt")
	}

	id, numeric, encoded := parts[0], parts[1], parts[2]
	if id == "" {
		return AccessKey{}, ErrAccessKeyInvalid.WithDetails("empty identifier")
	}
	if !decimal.IsDigits(numeric) {
		return AccessKey{}, ErrAccessKeyInvalid.WithDetails("numeric segment is not a decimal number")
	}
	if encoded == "" {
		return AccessKey{}, ErrAccessKeyInvalid.WithDetails("empty salt")
	}

	salt, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		salt, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil {
		return AccessKey{}, ErrAccessKeyInvalid.WithDetails("salt is not base64").WithCause(err)
	}

	return AccessKey{Identifier: id, Numeric: numeric, Salt: salt}, nil
}

// Material returns the key material fed to the codec: the access key with
// its salt segment decoded.
func (k AccessKey) Material() string {
	return k.Identifier + "/" + k.Numeric + "/" + string(k.Salt)
}

// String re-encodes the key in its wire form.
func (k AccessKey) String() string {
	return k.Identifier + "/" + k.Numeric + "/" + base64.StdEncoding.EncodeToString(k.Salt)
}
