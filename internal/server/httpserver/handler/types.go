package handler

import (
	"time"

	"github.com/anonputraid/zetcipher/internal/core/service"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// TokenOptions are the per-call overrides shared by every request.
type TokenOptions struct {
	Passphrase string `json:"passphrase,omitempty"`
	// Index overrides the access key id.
	Index   string `json:"index,omitempty"`
	Cipher  string `json:"cipher,omitempty"`
	Signing string `json:"signing,omitempty"`
}

func (o TokenOptions) callOptions() []service.CallOption {
	var opts []service.CallOption
	if o.Passphrase != "" {
		opts = append(opts, service.WithPassphrase(o.Passphrase))
	}
	if o.Index != "" {
		opts = append(opts, service.WithIndex(o.Index))
	}
	if o.Cipher != "" {
		opts = append(opts, service.WithCipher(o.Cipher))
	}
	if o.Signing != "" {
		opts = append(opts, service.WithSigning(o.Signing))
	}
	return opts
}

// Expiry selects the token expiry. At most one field may be set; none
// means now plus the configured lifetime.
type Expiry struct {
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	TTLSeconds int64      `json:"ttl_seconds,omitempty"`
}

// EncodeRequest is the request body for POST /v1/tokens.
type EncodeRequest struct {
	Data string `json:"data"`
	Expiry
	TokenOptions
}

// TokenResponse carries a freshly issued token.
type TokenResponse struct {
	Token string `json:"token"`
}

// DecodeRequest is the request body for POST /v1/tokens/decode and
// POST /v1/handshakes/verify.
type DecodeRequest struct {
	Token string `json:"token"`
	TokenOptions
}

// DecodeResponse reports a decode outcome.
type DecodeResponse struct {
	Valid     bool       `json:"valid"`
	Data      string     `json:"data,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Bare      bool       `json:"bare,omitempty"`
}

func decodeResponse(res service.Result) DecodeResponse {
	out := DecodeResponse{
		Valid:  res.Valid,
		Data:   res.Data,
		Reason: string(res.Reason),
		Bare:   res.Bare,
	}
	if res.Valid && !res.ExpiresAt.IsZero() {
		t := res.ExpiresAt.UTC()
		out.ExpiresAt = &t
	}
	return out
}

// HandshakeRequest is the request body for POST /v1/handshakes.
type HandshakeRequest struct {
	Identity string `json:"identity"`
	Data     string `json:"data,omitempty"`
	Expiry
	TokenOptions
}

// LinkRequest is the request body for POST /v1/links.
type LinkRequest struct {
	Data   string `json:"data"`
	Target string `json:"target"`
	Expiry
	TokenOptions
}

// LinkResponse carries a generated link.
type LinkResponse struct {
	Link string `json:"link"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Cipher  string `json:"cipher,omitempty"`
	Time    string `json:"time"`
}
