package service

import (
	"context"
	"errors"
	"testing"

	"github.com/anonputraid/zetcipher/internal/core/domain"
)

type callerKey struct{}

type fakeIdentities struct {
	ids map[string]bool
}

func (f *fakeIdentities) Exists(_ context.Context, id string) (bool, error) {
	return f.ids[id], nil
}

func (f *fakeIdentities) Current(ctx context.Context) (string, error) {
	id, ok := ctx.Value(callerKey{}).(string)
	if !ok {
		return "", domain.ErrIdentityNotFound.WithDetails("no caller")
	}
	return id, nil
}

func as(id string) context.Context {
	return context.WithValue(context.Background(), callerKey{}, id)
}

func newHandshakeCodec(t *testing.T) *Codec {
	t.Helper()
	c, _ := newTestCodec(t, WithIdentities(&fakeIdentities{ids: map[string]bool{"alice": true, "bob": true, "user-7": true}}))
	return c
}

func TestHandshake_RoundTrip(t *testing.T) {
	c := newHandshakeCodec(t)

	token, err := c.Handshake(context.Background(), "alice", "invite 42")
	if err != nil {
		t.Fatalf("Handshake() error = %v", err)
	}

	res, err := c.VerifyHandshake(as("alice"), token)
	if err != nil {
		t.Fatalf("VerifyHandshake() error = %v", err)
	}
	if !res.Valid || res.Data != "invite 42" || res.Bare {
		t.Errorf("VerifyHandshake() = %+v", res)
	}
}

func TestHandshake_Bare(t *testing.T) {
	c := newHandshakeCodec(t)

	token, err := c.Handshake(context.Background(), "user-7", "")
	if err != nil {
		t.Fatalf("Handshake() error = %v", err)
	}
	res, err := c.VerifyHandshake(as("user-7"), token)
	if err != nil {
		t.Fatalf("VerifyHandshake() error = %v", err)
	}
	if !res.Valid || !res.Bare || res.Data != HandshakeMarker {
		t.Errorf("VerifyHandshake() = %+v, want bare marker", res)
	}
}

func TestHandshake_OtherIdentityFails(t *testing.T) {
	c := newHandshakeCodec(t)

	token, err := c.Handshake(context.Background(), "alice", "mine", WithPassphrase("pw"))
	if err != nil {
		t.Fatalf("Handshake() error = %v", err)
	}

	res, err := c.VerifyHandshake(as("bob"), token, WithPassphrase("pw"))
	if err != nil {
		t.Fatalf("VerifyHandshake() error = %v", err)
	}
	if res.Valid {
		t.Errorf("VerifyHandshake as bob = %+v, want invalid", res)
	}

	if res, _ := c.VerifyHandshake(as("alice"), token); res.Valid {
		t.Errorf("VerifyHandshake without passphrase = %+v, want invalid", res)
	}
	if res, _ := c.VerifyHandshake(as("alice"), token, WithPassphrase("pw")); !res.Valid {
		t.Errorf("VerifyHandshake as alice = %+v, want valid", res)
	}
}

func TestHandshake_NotInterchangeableWithConventional(t *testing.T) {
	c := newHandshakeCodec(t)
	ctx := context.Background()

	hs, _ := c.Handshake(ctx, "alice", "data")
	if res, _ := c.Decode(ctx, hs); res.Valid {
		t.Errorf("Decode(handshake token) = %+v, want invalid", res)
	}

	plain, _ := c.Encode(ctx, "data")
	if res, _ := c.VerifyHandshake(as("alice"), plain); res.Valid {
		t.Errorf("VerifyHandshake(plain token) = %+v, want invalid", res)
	}
}

func TestHandshake_Errors(t *testing.T) {
	c := newHandshakeCodec(t)
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
		data string
		err  error
	}{
		{"unknown identity", "mallory", "x", domain.ErrIdentityNotFound},
		{"identity with separator", "a/b", "x", domain.ErrInvalidInput},
		{"empty identity", "", "x", domain.ErrInvalidInput},
		{"bad data", "alice", "x;y", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Handshake(ctx, tt.id, tt.data); !errors.Is(err, tt.err) {
				t.Errorf("Handshake(%q, %q) error = %v, want %v", tt.id, tt.data, err, tt.err)
			}
		})
	}

	token, _ := c.Handshake(ctx, "alice", "x")
	if _, err := c.VerifyHandshake(ctx, token); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Errorf("VerifyHandshake without caller error = %v, want ErrIdentityNotFound", err)
	}
	if _, err := c.VerifyHandshake(as("mallory"), token); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Errorf("VerifyHandshake as unregistered caller error = %v, want ErrIdentityNotFound", err)
	}
	if res, err := c.VerifyHandshake(as("alice"), "not-a-token"); err != nil || res.Reason != ReasonMalformed {
		t.Errorf("VerifyHandshake(malformed) = (%+v, %v)", res, err)
	}
}

func TestHandshake_NoResolver(t *testing.T) {
	c, _ := newTestCodec(t)

	if _, err := c.Handshake(context.Background(), "alice", "x"); !errors.Is(err, domain.ErrConfigMissing) {
		t.Errorf("Handshake() error = %v, want ErrConfigMissing", err)
	}
	if _, err := c.VerifyHandshake(as("alice"), "123"); !errors.Is(err, domain.ErrConfigMissing) {
		t.Errorf("VerifyHandshake() error = %v, want ErrConfigMissing", err)
	}
}
