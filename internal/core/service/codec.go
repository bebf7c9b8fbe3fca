package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/internal/telemetry/logger"
	"github.com/anonputraid/zetcipher/pkg/cmap"
	"github.com/anonputraid/zetcipher/pkg/codemap"
	"github.com/anonputraid/zetcipher/pkg/decimal"
	"github.com/anonputraid/zetcipher/pkg/textcodec"
)

const (
	variantConventional = "conventional"
	variantHandshake    = "handshake"

	// guard prefixes the hidden payload component inside the sum.
	guard = '1'

	defaultCacheCapacity = 64
)

// Codec encodes and decodes tokens for one Settings value.
type Codec struct {
	settings Settings
	material string

	store      PoolSource
	identities IdentityResolver
	observer   Observer
	logger     logger.Logger
	now        func() time.Time
	rand       io.Reader

	cacheCapacity int
	conversions   *cmap.Map[string, *codemap.ConversionMap]
	signatures    *cmap.Map[string, *codemap.SignatureMap]
}

// New validates settings, derives the default map set and returns a Codec.
// Setup failures are domain configuration errors.
func New(settings Settings, store PoolSource, opts ...Option) (*Codec, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrConfigMissing.WithDetails("no resource store")
	}
	key, err := domain.ParseAccessKey(settings.AccessKey)
	if err != nil {
		return nil, err
	}

	c := &Codec{
		settings:      settings,
		material:      key.Material(),
		store:         store,
		observer:      nopObserver{},
		logger:        logger.Default(),
		now:           time.Now,
		cacheCapacity: defaultCacheCapacity,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.conversions = cmap.New[string, *codemap.ConversionMap](cmap.WithShardCapacity(c.cacheCapacity))
	c.signatures = cmap.New[string, *codemap.SignatureMap](cmap.WithShardCapacity(c.cacheCapacity))
	c.logger = c.logger.With("component", "codec", "cipher", settings.Cipher)

	cl, _ := c.newCall(nil)
	if _, err := c.universe(cl); err != nil {
		return nil, err
	}
	return c, nil
}

// Settings returns the configuration the codec was built with.
func (c *Codec) Settings() Settings {
	return c.settings
}

// CachedSets returns the number of memoised maps.
func (c *Codec) CachedSets() int {
	return c.conversions.Len() + c.signatures.Len()
}

// Encode returns a token carrying data. data must be non-empty ASCII
// letters, digits, spaces and hyphens.
func (c *Codec) Encode(ctx context.Context, data string, opts ...CallOption) (token string, err error) {
	start := time.Now()
	defer func() { c.observer.ObserveEncode(variantConventional, time.Since(start), err) }()

	if !textcodec.ScanText(data) {
		return "", domain.ErrInvalidInput.WithDetails("data must match [a-zA-Z0-9 -]+")
	}
	cl, err := c.newCall(opts)
	if err != nil {
		return "", err
	}
	u, err := c.universe(cl)
	if err != nil {
		return "", err
	}

	p := domain.Payload{Data: data, Expiry: c.expiry(cl).Unix()}
	return c.seal(u, p, cl.passphrase, "")
}

// Decode returns the data of a token encoded with the same settings and
// call options. Data problems are reported in the Result.
func (c *Codec) Decode(ctx context.Context, token string, opts ...CallOption) (res Result, err error) {
	start := time.Now()
	defer func() { c.observeDecode(ctx, variantConventional, res, err, start) }()

	cl, err := c.newCall(opts)
	if err != nil {
		return Result{}, err
	}
	p, reason, err := c.open(cl, token, "", false)
	if err != nil || reason != "" {
		return invalid(reason), err
	}
	return Result{Data: p.Data, Valid: true, ExpiresAt: time.Unix(p.Expiry, 0)}, nil
}

func (c *Codec) expiry(cl *call) time.Time {
	if !cl.expiry.IsZero() {
		return cl.expiry
	}
	return c.now().Add(c.settings.lifetime())
}

// component encodes text through the secret map and the hide table.
func component(u *universe, text string) string {
	return u.hide.Apply(textcodec.Encode(u.secret, text))
}

// seal frames p, encodes it and adds every component into one token.
func (c *Codec) seal(u *universe, p domain.Payload, passphrase, identity string) (string, error) {
	frame, err := p.Frame(len(c.material), c.rand)
	if err != nil {
		return "", domain.ErrInternal.WithDetails("payload filler").WithCause(err)
	}

	sum := string(guard) + u.hide.Apply(textcodec.Encode(u.encryption, frame))
	sum = decimal.Add(sum, component(u, c.material))
	if passphrase != "" {
		sum = decimal.Add(sum, component(u, passphrase))
	}
	if identity != "" {
		sum = decimal.Add(sum, component(u, identity))
	}
	return u.hide.Apply(sum), nil
}

// open reverses seal. A non-empty reason means the token is invalid; err is
// reserved for setup failures.
func (c *Codec) open(cl *call, token, identity string, identityBound bool) (domain.Payload, Reason, error) {
	if !textcodec.ScanToken(token) {
		return domain.Payload{}, ReasonMalformed, nil
	}

	u, err := c.universe(cl)
	if errors.Is(err, domain.ErrPermutationRange) {
		return domain.Payload{}, ReasonRange, nil
	}
	if err != nil {
		return domain.Payload{}, "", err
	}

	rest := u.hide.Revert(token)
	components := []string{component(u, c.material)}
	if cl.passphrase != "" {
		components = append(components, component(u, cl.passphrase))
	}
	if identity != "" {
		components = append(components, component(u, identity))
	}
	for _, k := range components {
		var ok bool
		if rest, ok = decimal.Subtract(rest, k); !ok {
			return domain.Payload{}, ReasonUnderflow, nil
		}
	}

	rest = decimal.Trim(rest)
	if len(rest) < 3 || rest[0] != guard || len(rest)%2 == 0 {
		return domain.Payload{}, ReasonFrame, nil
	}

	frame, ok := textcodec.Decode(u.encryption, u.hide.Revert(rest[1:]))
	if !ok {
		return domain.Payload{}, ReasonUnknownPair, nil
	}

	p, ok := domain.ParsePayload(frame, identityBound)
	if !ok {
		return domain.Payload{}, ReasonPayload, nil
	}
	if p.Expiry < c.now().Unix() {
		return domain.Payload{}, ReasonExpired, nil
	}
	if identityBound && p.Identity != identity {
		return domain.Payload{}, ReasonIdentity, nil
	}
	return p, "", nil
}

func (c *Codec) observeDecode(ctx context.Context, variant string, res Result, err error, start time.Time) {
	if err != nil {
		c.observer.ObserveDecode(variant, "error", time.Since(start))
		return
	}
	c.observer.ObserveDecode(variant, string(res.Reason), time.Since(start))
	if !res.Valid {
		c.logger.WithContext(ctx).Debug("token rejected", "variant", variant, "reason", string(res.Reason))
	}
}
