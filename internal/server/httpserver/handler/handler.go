package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/internal/core/service"
	"github.com/anonputraid/zetcipher/internal/telemetry/logger"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 64 << 10

// CodecSource returns the codec to serve a request with. The server swaps
// codecs on configuration reload, so handlers never keep one.
type CodecSource func() *service.Codec

// Handler serves the token, handshake and link endpoints.
type Handler struct {
	codec  CodecSource
	logger logger.Logger
	mux    *http.ServeMux
}

// New creates a Handler.
func New(codec CodecSource, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	h := &Handler{
		codec:  codec,
		logger: log,
		mux:    http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Routes lists the patterns served by the handler.
var Routes = []string{
	"GET /health",
	"POST /v1/tokens",
	"POST /v1/tokens/decode",
	"POST /v1/handshakes",
	"POST /v1/handshakes/verify",
	"POST /v1/links",
	"GET /v1/links/verify",
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)

	h.mux.HandleFunc("POST /v1/tokens", h.handleEncode)
	h.mux.HandleFunc("POST /v1/tokens/decode", h.handleDecode)

	h.mux.HandleFunc("POST /v1/handshakes", h.handleHandshake)
	h.mux.HandleFunc("POST /v1/handshakes/verify", h.handleVerifyHandshake)

	h.mux.HandleFunc("POST /v1/links", h.handleGenerateLink)
	h.mux.HandleFunc("GET /v1/links/verify", h.handleValidateLink)
}

// current returns the codec or answers 503 when none is loaded yet.
func (h *Handler) current(w http.ResponseWriter, r *http.Request) (*service.Codec, bool) {
	var c *service.Codec
	if h.codec != nil {
		c = h.codec()
	}
	if c == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, domain.ErrConfigMissing.Code, "codec not configured")
		return nil, false
	}
	return c, true
}

// decodeBody reads a JSON body into v, answering 400 on failure.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		msg := "invalid request body"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "request body too large"
		} else if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.Code, msg)
		return false
	}
	return true
}

// writeJSON writes a success envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}

// writeError writes an error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message))
}

// handleServiceError converts codec errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		status := StatusFor(de.Code)
		if status >= 500 {
			logger.L(r.Context()).Error("request failed", "code", de.Code, "error", err)
		}
		h.writeError(w, r, status, de.Code, de.Error())
		return
	}

	logger.L(r.Context()).Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternal.Code, "internal server error")
}

// StatusFor maps a ZC-AREA-NNNN code to the HTTP status NNN.
func StatusFor(code string) int {
	if len(code) < 4 {
		return http.StatusInternalServerError
	}
	n, err := strconv.Atoi(code[len(code)-4:])
	if err != nil {
		return http.StatusInternalServerError
	}
	status := n / 10
	if status < 400 || status > 599 || http.StatusText(status) == "" {
		if status >= 400 && status < 500 {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
	return status
}
