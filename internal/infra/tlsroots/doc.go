// Package tlsroots builds the TLS configuration of the HTTP server.
//
//   - roots.go: client CA pool for mutual TLS and the caller identity
//     carried by a verified client certificate
//   - watcher.go: server certificate hot-reload via fsnotify
//
// With a client CA configured the server requires a client certificate and
// treats its subject common name as the caller's identity id.
package tlsroots
