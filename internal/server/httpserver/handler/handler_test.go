package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/anonputraid/zetcipher/internal/core/service"
	"github.com/anonputraid/zetcipher/internal/identity"
	"github.com/anonputraid/zetcipher/internal/resource"
	"github.com/anonputraid/zetcipher/internal/storage"
	"github.com/anonputraid/zetcipher/internal/telemetry/logger"
)

func newTestCodec(t *testing.T) *service.Codec {
	t.Helper()
	ctx := context.Background()

	b, err := resource.Generate(2, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	keys, err := resource.GenerateKeys(b, time.Now(), nil)
	if err != nil {
		t.Fatalf("GenerateKeys() error = %v", err)
	}
	store, err := b.Store()
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	kv, err := storage.NewBadgerEngine(storage.InMemoryKVConfig(), logger.NewNop())
	if err != nil {
		t.Fatalf("NewBadgerEngine() error = %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	dir, err := identity.NewDirectory(ctx, kv)
	if err != nil {
		t.Fatalf("NewDirectory() error = %v", err)
	}
	if _, err := dir.Add(ctx, "alice", "test"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	codec, err := service.New(service.Settings{
		Cipher:        keys.Cipher,
		AccessKeyID:   keys.AccessKeyID,
		AccessKey:     keys.AccessKey,
		SigningSecret: keys.SigningSecret,
		TokenLifetime: time.Hour,
	}, store, service.WithIdentities(dir), service.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("service.New() error = %v", err)
	}
	return codec
}

func newTestHandler(t *testing.T) *Handler {
	codec := newTestCodec(t)
	return New(func() *service.Codec { return codec }, logger.NewNop())
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends a request as caller (if not empty) and decodes the envelope.
func do(t *testing.T, h http.Handler, method, target, caller string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	if caller != "" {
		req = req.WithContext(identity.WithCaller(req.Context(), caller))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %q", rec.Body.String())
	}
	return rec, env
}

func data[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("Unmarshal(data) error = %v", err)
	}
	return v
}

func TestHandler_EncodeDecode(t *testing.T) {
	h := newTestHandler(t)

	rec, env := do(t, h, "POST", "/v1/tokens", "", EncodeRequest{Data: "hello world"})
	if rec.Code != http.StatusCreated || env.Code != "OK" {
		t.Fatalf("encode = %d %+v", rec.Code, env)
	}
	token := data[TokenResponse](t, env).Token
	if token == "" {
		t.Fatal("empty token")
	}

	rec, env = do(t, h, "POST", "/v1/tokens/decode", "", DecodeRequest{Token: token})
	if rec.Code != http.StatusOK {
		t.Fatalf("decode = %d %+v", rec.Code, env)
	}
	got := data[DecodeResponse](t, env)
	if !got.Valid || got.Data != "hello world" || got.ExpiresAt == nil {
		t.Errorf("decode = %+v", got)
	}
}

func TestHandler_Passphrase(t *testing.T) {
	h := newTestHandler(t)

	_, env := do(t, h, "POST", "/v1/tokens", "", EncodeRequest{
		Data:         "secret",
		TokenOptions: TokenOptions{Passphrase: "open sesame"},
	})
	token := data[TokenResponse](t, env).Token

	_, env = do(t, h, "POST", "/v1/tokens/decode", "", DecodeRequest{Token: token})
	if got := data[DecodeResponse](t, env); got.Valid || got.Reason == "" || got.Data != "" {
		t.Errorf("decode without passphrase = %+v", got)
	}

	_, env = do(t, h, "POST", "/v1/tokens/decode", "", DecodeRequest{
		Token:        token,
		TokenOptions: TokenOptions{Passphrase: "open sesame"},
	})
	if got := data[DecodeResponse](t, env); !got.Valid || got.Data != "secret" {
		t.Errorf("decode with passphrase = %+v", got)
	}
}

func TestHandler_Expiry(t *testing.T) {
	h := newTestHandler(t)

	past := time.Now().Add(-time.Minute)
	_, env := do(t, h, "POST", "/v1/tokens", "", EncodeRequest{Data: "old", Expiry: Expiry{ExpiresAt: &past}})
	token := data[TokenResponse](t, env).Token

	_, env = do(t, h, "POST", "/v1/tokens/decode", "", DecodeRequest{Token: token})
	if got := data[DecodeResponse](t, env); got.Valid || got.Reason != string(service.ReasonExpired) {
		t.Errorf("decode expired = %+v", got)
	}

	_, env = do(t, h, "POST", "/v1/tokens", "", EncodeRequest{Data: "short", Expiry: Expiry{TTLSeconds: 60}})
	token = data[TokenResponse](t, env).Token
	_, env = do(t, h, "POST", "/v1/tokens/decode", "", DecodeRequest{Token: token})
	got := data[DecodeResponse](t, env)
	if !got.Valid || got.ExpiresAt == nil || got.ExpiresAt.After(time.Now().Add(2*time.Minute)) {
		t.Errorf("decode ttl = %+v", got)
	}
}

func TestHandler_Errors(t *testing.T) {
	h := newTestHandler(t)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
		code   string
	}{
		{"not json", "POST", "/v1/tokens", "{", http.StatusBadRequest, "ZC-SYS-4000"},
		{"empty body", "POST", "/v1/tokens", nil, http.StatusBadRequest, "ZC-SYS-4000"},
		{"unknown field", "POST", "/v1/tokens", `{"data":"x","colour":"red"}`, http.StatusBadRequest, "ZC-SYS-4000"},
		{"bad data", "POST", "/v1/tokens", EncodeRequest{Data: "no_underscores"}, http.StatusBadRequest, "ZC-ARG-4001"},
		{"two expiries", "POST", "/v1/tokens", EncodeRequest{Data: "x", Expiry: Expiry{ExpiresAt: &future, TTLSeconds: 5}}, http.StatusBadRequest, "ZC-ARG-4001"},
		{"negative ttl", "POST", "/v1/tokens", EncodeRequest{Data: "x", Expiry: Expiry{TTLSeconds: -5}}, http.StatusBadRequest, "ZC-ARG-4001"},
		{"unknown cipher", "POST", "/v1/tokens", EncodeRequest{Data: "x", TokenOptions: TokenOptions{Cipher: "ZET/NONE"}}, http.StatusInternalServerError, "ZC-CONF-5002"},
		{"bad index", "POST", "/v1/tokens/decode", DecodeRequest{Token: "1", TokenOptions: TokenOptions{Index: "x1"}}, http.StatusBadRequest, "ZC-ARG-4001"},
		{"unknown identity", "POST", "/v1/handshakes", HandshakeRequest{Identity: "mallory"}, http.StatusNotFound, "ZC-IDEN-4040"},
		{"link without target", "POST", "/v1/links", LinkRequest{Data: "x"}, http.StatusBadRequest, "ZC-ARG-4002"},
		{"verify without link", "GET", "/v1/links/verify", nil, http.StatusBadRequest, "ZC-ARG-4002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, tt.method, tt.target, "", tt.body)
			if rec.Code != tt.status || env.Code != tt.code {
				t.Errorf("%s %s = %d %s, want %d %s (%s)", tt.method, tt.target, rec.Code, env.Code, tt.status, tt.code, env.Message)
			}
			if rec.Header().Get("X-Error-Code") != tt.code {
				t.Errorf("X-Error-Code = %q", rec.Header().Get("X-Error-Code"))
			}
		})
	}
}

func TestHandler_MalformedToken(t *testing.T) {
	h := newTestHandler(t)

	rec, env := do(t, h, "POST", "/v1/tokens/decode", "", DecodeRequest{Token: "12ab"})
	if rec.Code != http.StatusOK {
		t.Fatalf("decode = %d", rec.Code)
	}
	if got := data[DecodeResponse](t, env); got.Valid || got.Reason != string(service.ReasonMalformed) {
		t.Errorf("decode = %+v", got)
	}
}

func TestHandler_Handshake(t *testing.T) {
	h := newTestHandler(t)

	rec, env := do(t, h, "POST", "/v1/handshakes", "", HandshakeRequest{Identity: "alice", Data: "door 7"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("handshake = %d %+v", rec.Code, env)
	}
	token := data[TokenResponse](t, env).Token

	_, env = do(t, h, "POST", "/v1/handshakes/verify", "alice", DecodeRequest{Token: token})
	if got := data[DecodeResponse](t, env); !got.Valid || got.Data != "door 7" || got.Bare {
		t.Errorf("verify as alice = %+v", got)
	}

	rec, env = do(t, h, "POST", "/v1/handshakes/verify", "", DecodeRequest{Token: token})
	if rec.Code != http.StatusNotFound || env.Code != "ZC-IDEN-4040" {
		t.Errorf("verify without caller = %d %s", rec.Code, env.Code)
	}

	rec, env = do(t, h, "POST", "/v1/handshakes/verify", "bob", DecodeRequest{Token: token})
	if rec.Code != http.StatusNotFound {
		t.Errorf("verify as unregistered bob = %d %s", rec.Code, env.Code)
	}

	_, env = do(t, h, "POST", "/v1/handshakes", "", HandshakeRequest{Identity: "alice"})
	token = data[TokenResponse](t, env).Token
	_, env = do(t, h, "POST", "/v1/handshakes/verify", "alice", DecodeRequest{Token: token})
	if got := data[DecodeResponse](t, env); !got.Valid || !got.Bare {
		t.Errorf("verify bare = %+v", got)
	}
}

func TestHandler_Links(t *testing.T) {
	h := newTestHandler(t)

	rec, env := do(t, h, "POST", "/v1/links", "", LinkRequest{Data: "invite 42", Target: "https://example.com/join?x=1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("link = %d %+v", rec.Code, env)
	}
	link := data[LinkResponse](t, env).Link

	_, env = do(t, h, "GET", "/v1/links/verify?link="+url.QueryEscape(link), "", nil)
	if got := data[DecodeResponse](t, env); !got.Valid || got.Data != "invite 42" {
		t.Errorf("verify link = %+v", got)
	}

	_, env = do(t, h, "POST", "/v1/links", "", LinkRequest{
		Data:         "private",
		Target:       "/join",
		TokenOptions: TokenOptions{Passphrase: "pw"},
	})
	link = data[LinkResponse](t, env).Link

	req := httptest.NewRequest("GET", "/v1/links/verify?link="+url.QueryEscape(link), nil)
	req.Header.Set(PassphraseHeader, "pw")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out struct {
		Data DecodeResponse `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &out)
	if !out.Data.Valid || out.Data.Data != "private" {
		t.Errorf("verify link with passphrase = %+v", out.Data)
	}
}

func TestHandler_Health(t *testing.T) {
	codec := newTestCodec(t)
	h := New(func() *service.Codec { return codec }, nil)

	rec, env := do(t, h, "GET", "/health", "", nil)
	got := data[HealthResponse](t, env)
	if rec.Code != http.StatusOK || got.Status != "healthy" || got.Cipher != codec.Settings().Cipher || got.Version == "" {
		t.Errorf("health = %d %+v", rec.Code, got)
	}
}

func TestHandler_NoCodec(t *testing.T) {
	h := New(func() *service.Codec { return nil }, nil)

	rec, env := do(t, h, "GET", "/health", "", nil)
	if rec.Code != http.StatusServiceUnavailable || data[HealthResponse](t, env).Status != "unconfigured" {
		t.Errorf("health = %d", rec.Code)
	}

	rec, env = do(t, h, "POST", "/v1/tokens", "", EncodeRequest{Data: "x"})
	if rec.Code != http.StatusServiceUnavailable || env.Code != "ZC-CONF-5001" {
		t.Errorf("encode = %d %s", rec.Code, env.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[string]int{
		"ZC-ARG-4001":  http.StatusBadRequest,
		"ZC-TOKN-4003": http.StatusBadRequest,
		"ZC-IDEN-4040": http.StatusNotFound,
		"ZC-IDEN-4090": http.StatusConflict,
		"ZC-SYS-4290":  http.StatusTooManyRequests,
		"ZC-CONF-5002": http.StatusInternalServerError,
		"ZC-X-4990":    http.StatusBadRequest,
		"":             http.StatusInternalServerError,
		"ZC-SYS-abcd":  http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := StatusFor(code); got != want {
			t.Errorf("StatusFor(%q) = %d, want %d", code, got, want)
		}
	}
}
