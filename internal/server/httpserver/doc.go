// Package httpserver provides the HTTP/HTTPS server of zetcipher serve.
//
// The router wraps the handler package with request ids, panic recovery,
// access logging, per-client rate limiting, caller identification and
// Prometheus request metrics. /health and /metrics skip the rate limit.
package httpserver
