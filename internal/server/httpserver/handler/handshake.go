package handler

import "net/http"

// handleHandshake handles POST /v1/handshakes. The identity is the one the
// token is issued for, not necessarily the caller.
func (h *Handler) handleHandshake(w http.ResponseWriter, r *http.Request) {
	var req HandshakeRequest
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

	token, err := codec.Handshake(r.Context(), req.Identity, req.Data, opts...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, TokenResponse{Token: token})
}

// handleVerifyHandshake handles POST /v1/handshakes/verify for the calling
// identity.
func (h *Handler) handleVerifyHandshake(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	codec, ok := h.current(w, r)
	if !ok {
		return
	}

	res, err := codec.VerifyHandshake(r.Context(), req.Token, req.callOptions()...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, decodeResponse(res))
}
