package service

import (
	"context"
	"io"
	"time"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/internal/telemetry/logger"
	"github.com/anonputraid/zetcipher/pkg/decimal"
)

// PoolSource supplies the symbol pools of a cipher. Implementations return
// domain.ErrResourceMissing for unknown ciphers.
type PoolSource interface {
	Pool(kind domain.PoolKind, cipher string) (string, error)
}

// IdentityResolver is the identity collaborator of the handshake variant.
type IdentityResolver interface {
	// Exists reports whether id is registered.
	Exists(ctx context.Context, id string) (bool, error)
	// Current returns the identity of the caller carried by ctx, or
	// domain.ErrIdentityNotFound.
	Current(ctx context.Context) (string, error)
}

// Observer receives codec outcomes. *metric.Registry implements it.
type Observer interface {
	ObserveEncode(variant string, d time.Duration, err error)
	ObserveDecode(variant, reason string, d time.Duration)
	ObserveUniverse(hit bool)
}

type nopObserver struct{}

func (nopObserver) ObserveEncode(string, time.Duration, error)  {}
func (nopObserver) ObserveDecode(string, string, time.Duration) {}
func (nopObserver) ObserveUniverse(bool)                        {}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the codec logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Codec) { c.logger = l }
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Codec) { c.observer = o }
}

// WithIdentities enables the handshake variant.
func WithIdentities(r IdentityResolver) Option {
	return func(c *Codec) { c.identities = r }
}

// WithClock replaces time.Now for both expiry stamping and checking.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithRand replaces crypto/rand as the filler source.
func WithRand(r io.Reader) Option {
	return func(c *Codec) { c.rand = r }
}

// WithCacheCapacity bounds the memoised map sets per cache shard.
func WithCacheCapacity(n int) Option {
	return func(c *Codec) { c.cacheCapacity = n }
}

// CallOption adjusts a single encode or decode call.
type CallOption func(*call)

type call struct {
	passphrase string
	expiry     time.Time
	index      string
	cipher     string
	signing    string
	err        error
}

// WithPassphrase adds a passphrase component. Decoding must supply the same
// passphrase.
func WithPassphrase(p string) CallOption {
	return func(c *call) { c.passphrase = p }
}

// WithExpiry sets an explicit expiry instead of now plus the lifetime.
func WithExpiry(t time.Time) CallOption {
	return func(c *call) { c.expiry = t }
}

// WithIndex overrides the access-key id used to permute the encryption and
// secret pools.
func WithIndex(digits string) CallOption {
	return func(c *call) {
		if !decimal.IsDigits(digits) {
			c.err = domain.ErrInvalidInput.WithDetails("index is not a decimal number")
			return
		}
		c.index = digits
	}
}

// WithCipher overrides the cipher whose pools are used.
func WithCipher(id string) CallOption {
	return func(c *call) {
		if id == "" {
			c.err = domain.ErrInvalidInput.WithDetails("empty cipher")
			return
		}
		c.cipher = id
	}
}

// WithSigning overrides the signing secret used to permute the hide pool.
func WithSigning(digits string) CallOption {
	return func(c *call) {
		if !decimal.IsDigits(digits) {
			c.err = domain.ErrInvalidInput.WithDetails("signing value is not a decimal number")
			return
		}
		c.signing = digits
	}
}

func (c *Codec) newCall(opts []CallOption) (*call, error) {
	cl := &call{
		index:   c.settings.AccessKeyID,
		cipher:  c.settings.Cipher,
		signing: c.settings.SigningSecret,
	}
	for _, opt := range opts {
		opt(cl)
		if cl.err != nil {
			return nil, cl.err
		}
	}
	return cl, nil
}
