package domain

import (
	"errors"
	"testing"
)

func TestParseAccessKey(t *testing.T) {
	k, err := ParseAccessKey("ZCK01J/123456789012/c2FsdHlTYWx0MTIz")
	if err != nil {
		t.Fatalf("ParseAccessKey() error = %v", err)
	}
	if k.Identifier != "ZCK01J" || k.Numeric != "123456789012" {
		t.Errorf("ParseAccessKey() = %+v", k)
	}
	if got := k.Material(); got != "ZCK01J/123456789012/saltySalt123" {
		t.Errorf("Material() = %q", got)
	}
	if got := k.String(); got != "ZCK01J/123456789012/c2FsdHlTYWx0MTIz" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseAccessKey_Unpadded(t *testing.T) {
	k, err := ParseAccessKey("id/1/YWI")
	if err != nil {
		t.Fatalf("ParseAccessKey() error = %v", err)
	}
	if string(k.Salt) != "ab" {
		t.Errorf("Salt = %q, want ab", k.Salt)
	}
}

func TestParseAccessKey_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"two parts", "id/123"},
		{"empty identifier", "/123/YWI="},
		{"non numeric", "id/12a/YWI="},
		{"empty salt", "id/123/"},
		{"bad base64", "id/123/!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAccessKey(tt.raw); !errors.Is(err, ErrAccessKeyInvalid) {
				t.Errorf("ParseAccessKey(%q) error = %v, want ErrAccessKeyInvalid", tt.raw, err)
			}
		})
	}
}
