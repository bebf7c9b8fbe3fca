package handler

import (
	"net/http"
	"time"

	"github.com/anonputraid/zetcipher/internal/core/service"
	"github.com/anonputraid/zetcipher/internal/infra/buildinfo"
)

// handleHealth handles GET /health. It answers 503 until a codec is
// loaded.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Version: buildinfo.Get().Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	var codec *service.Codec
	if h.codec != nil {
		codec = h.codec()
	}
	if codec == nil {
		resp.Status = "unconfigured"
		status = http.StatusServiceUnavailable
	} else {
		resp.Cipher = codec.Settings().Cipher
	}
	h.writeJSON(w, r, status, resp)
}
