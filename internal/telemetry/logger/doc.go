// Package logger provides structured logging for ZetCipher.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: construction, levels, package-level default logger
//   - context.go: logger and request id propagation through context
//   - redact.go: masking of key material, passphrases and tokens
//
// JSON is the default output; "text" and "console" select slog's text
// handler. The level is process-wide and can be changed at runtime with
// SetLevel, which the serve command does on config reload.
package logger
