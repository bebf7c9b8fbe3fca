package handler

import (
	"net/http"

	"github.com/anonputraid/zetcipher/internal/core/domain"
)

// handleGenerateLink handles POST /v1/links.
func (h *Handler) handleGenerateLink(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
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

	link, err := codec.GenerateLink(r.Context(), req.Data, req.Target, opts...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, LinkResponse{Link: link})
}

// handleValidateLink handles GET /v1/links/verify?link=<url>. A passphrase
// travels in the X-ZetCipher-Passphrase header, never in the query.
func (h *Handler) handleValidateLink(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("link")
	if link == "" {
		h.handleServiceError(w, r, domain.ErrMissingArgument.WithDetails("link query parameter is required"))
		return
	}
	codec, ok := h.current(w, r)
	if !ok {
		return
	}

	opts := TokenOptions{Passphrase: r.Header.Get(PassphraseHeader)}.callOptions()
	res, err := codec.ValidateLink(r.Context(), link, opts...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, decodeResponse(res))
}

// PassphraseHeader carries the passphrase of GET requests.
const PassphraseHeader = "X-ZetCipher-Passphrase"
