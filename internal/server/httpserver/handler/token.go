package handler

import (
	"net/http"
	"time"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/internal/core/service"
)

// options merges the expiry and call overrides of a request.
func options(e Expiry, o TokenOptions) ([]service.CallOption, error) {
	opts := o.callOptions()
	switch {
	case e.ExpiresAt != nil && e.TTLSeconds != 0:
		return nil, domain.ErrInvalidInput.WithDetails("expires_at and ttl_seconds are exclusive")
	case e.ExpiresAt != nil:
		opts = append(opts, service.WithExpiry(*e.ExpiresAt))
	case e.TTLSeconds < 0:
		return nil, domain.ErrInvalidInput.WithDetails("ttl_seconds must be positive")
	case e.TTLSeconds > 0:
		opts = append(opts, service.WithExpiry(time.Now().Add(time.Duration(e.TTLSeconds)*time.Second)))
	}
	return opts, nil
}

// handleEncode handles POST /v1/tokens.
func (h *Handler) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	codec, ok := h.current(w, r)
	if !ok {
		return
	}

	opts, err := options(req.Expiry, req.TokenOptions)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	token, err := codec.Encode(r.Context(), req.Data, opts...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, TokenResponse{Token: token})
}

// handleDecode handles POST /v1/tokens/decode.
func (h *Handler) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	codec, ok := h.current(w, r)
	if !ok {
		return
	}

	res, err := codec.Decode(r.Context(), req.Token, req.callOptions()...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, decodeResponse(res))
}
