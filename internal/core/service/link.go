package service

import (
	"context"
	"net/url"

	"github.com/anonputraid/zetcipher/internal/core/domain"
)

// LinkParam is the query parameter carrying the token.
const LinkParam = "token"

// GenerateLink encodes data and appends it to target as token=<token>,
// joined with '?' or '&' depending on whether target already has a query.
func (c *Codec) GenerateLink(ctx context.Context, data, target string, opts ...CallOption) (string, error) {
	if target == "" {
		return "", domain.ErrMissingArgument.WithDetails("target")
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", domain.ErrInvalidInput.WithDetails("target is not a URL").WithCause(err)
	}

	token, err := c.Encode(ctx, data, opts...)
	if err != nil {
		return "", err
	}

	if u.RawQuery != "" {
		u.RawQuery += "&"
	}
	u.RawQuery += LinkParam + "=" + token
	u.ForceQuery = false
	return u.String(), nil
}

// ValidateLink extracts the token query parameter of link and decodes it.
// A link without a token is an argument error.
func (c *Codec) ValidateLink(ctx context.Context, link string, opts ...CallOption) (Result, error) {
	u, err := url.Parse(link)
	if err != nil {
		return Result{}, domain.ErrInvalidInput.WithDetails("link is not a URL").WithCause(err)
	}
	token := u.Query().Get(LinkParam)
	if token == "" {
		return Result{}, domain.ErrMissingArgument.WithDetails("link has no token parameter")
	}
	return c.Decode(ctx, token, opts...)
}
