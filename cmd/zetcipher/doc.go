// Package main provides the entry point for zetcipher.
//
// zetcipher turns short text into tokens made only of digits and back:
//
//   - key: generate a resource bundle and the ZETCIPHER_* settings for it
//   - encode, decode: plain tokens with an embedded expiry
//   - handshake, verify-handshake: tokens bound to a registered identity
//   - link, verify-link: tokens carried in a URL query
//   - identity, resource, config: administration
//   - serve: the same operations over HTTP
//
// Usage:
//
//	zetcipher key --out resources.yaml
//	zetcipher encode "order 42" --ttl 10m
//	zetcipher -o json decode 3104...
//	zetcipher --config /etc/zetcipher/config.yaml serve
//
// A rejected token exits with status 2.
package main
