package service

import (
	"strings"
	"time"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/pkg/decimal"
)

// DefaultTokenLifetime applies when Settings.TokenLifetime is not positive.
const DefaultTokenLifetime = 900 * time.Second

// Settings is the immutable codec configuration.
type Settings struct {
	// Cipher selects the resource pools.
	Cipher string
	// AccessKeyID is the permutation index of the encryption and secret pools.
	AccessKeyID string
	// AccessKey is identifier/numeric/base64-salt.
	AccessKey string
	// SigningSecret is the permutation index of the hide pool.
	SigningSecret string
	// TokenLifetime is the default distance between encode time and expiry.
	TokenLifetime time.Duration
}

// Validate reports every absent or malformed field in one error.
func (s Settings) Validate() error {
	var problems []string

	if s.Cipher == "" {
		problems = append(problems, "cipher not set")
	}
	switch {
	case s.AccessKeyID == "":
		problems = append(problems, "access_key_id not set")
	case !decimal.IsDigits(s.AccessKeyID):
		problems = append(problems, "access_key_id is not a decimal number")
	}
	switch {
	case s.SigningSecret == "":
		problems = append(problems, "signing_secret not set")
	case !decimal.IsDigits(s.SigningSecret):
		problems = append(problems, "signing_secret is not a decimal number")
	}
	if s.AccessKey == "" {
		problems = append(problems, "access_key not set")
	}
	if s.TokenLifetime < 0 {
		problems = append(problems, "token_lifetime is negative")
	}

	if len(problems) > 0 {
		return domain.ErrConfigMissing.WithDetails(strings.Join(problems, "; "))
	}

	if _, err := domain.ParseAccessKey(s.AccessKey); err != nil {
		return err
	}
	return nil
}

func (s Settings) lifetime() time.Duration {
	if s.TokenLifetime <= 0 {
		return DefaultTokenLifetime
	}
	return s.TokenLifetime
}
