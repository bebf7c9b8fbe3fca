package service

import (
	"context"
	"time"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/pkg/textcodec"
)

// HandshakeMarker stands in for the data of a handshake issued without any.
const HandshakeMarker = "zetcipher"

// Handshake returns a token bound to the registered identity id. Empty data
// is replaced by HandshakeMarker.
func (c *Codec) Handshake(ctx context.Context, id, data string, opts ...CallOption) (token string, err error) {
	start := time.Now()
	defer func() { c.observer.ObserveEncode(variantHandshake, time.Since(start), err) }()

	if c.identities == nil {
		return "", domain.ErrConfigMissing.WithDetails("no identity resolver")
	}
	if !textcodec.ScanText(id) {
		return "", domain.ErrInvalidInput.WithDetails("identity must match [a-zA-Z0-9 -]+")
	}
	if data == "" {
		data = HandshakeMarker
	} else if !textcodec.ScanText(data) {
		return "", domain.ErrInvalidInput.WithDetails("data must match [a-zA-Z0-9 -]+")
	}

	ok, err := c.identities.Exists(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrIdentityNotFound.WithDetails(id)
	}

	cl, err := c.newCall(opts)
	if err != nil {
		return "", err
	}
	u, err := c.universe(cl)
	if err != nil {
		return "", err
	}

	p := domain.Payload{Data: data, Expiry: c.expiry(cl).Unix(), Identity: id}
	return c.seal(u, p, cl.passphrase, id)
}

// VerifyHandshake decodes a handshake token against the identity of the
// caller in ctx. A caller the resolver cannot name, or that is no longer
// registered, is an error rather than an invalid result.
func (c *Codec) VerifyHandshake(ctx context.Context, token string, opts ...CallOption) (res Result, err error) {
	start := time.Now()
	defer func() { c.observeDecode(ctx, variantHandshake, res, err, start) }()

	if c.identities == nil {
		return Result{}, domain.ErrConfigMissing.WithDetails("no identity resolver")
	}
	cl, err := c.newCall(opts)
	if err != nil {
		return Result{}, err
	}
	if !textcodec.ScanToken(token) {
		return invalid(ReasonMalformed), nil
	}

	id, err := c.identities.Current(ctx)
	if err != nil {
		return Result{}, err
	}
	ok, err := c.identities.Exists(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, domain.ErrIdentityNotFound.WithDetails(id)
	}
	p, reason, err := c.open(cl, token, id, true)
	if err != nil || reason != "" {
		return invalid(reason), err
	}
	return Result{
		Data:      p.Data,
		Valid:     true,
		ExpiresAt: time.Unix(p.Expiry, 0),
		Bare:      p.Data == HandshakeMarker,
	}, nil
}
