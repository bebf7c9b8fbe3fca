package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/anonputraid/zetcipher/internal/core/domain"
)

func TestSettings_Validate(t *testing.T) {
	if err := testSettings().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	err := Settings{}.Validate()
	if !errors.Is(err, domain.ErrConfigMissing) {
		t.Fatalf("Validate() error = %v, want ErrConfigMissing", err)
	}
	for _, field := range []string{"cipher", "access_key_id", "signing_secret", "access_key"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Validate() error %q does not name %s", err, field)
		}
	}
}

func TestSettings_Lifetime(t *testing.T) {
	s := testSettings()
	s.TokenLifetime = 0
	if s.lifetime() != DefaultTokenLifetime {
		t.Errorf("lifetime() = %v, want %v", s.lifetime(), DefaultTokenLifetime)
	}
}
