// Package domain defines the value objects shared by the ZetCipher codec
// and its surfaces.
//
// Domain types are pure values with no IO dependencies:
//
//   - AccessKey: parsed identifier/numeric/salt access key and the key
//     material derived from it
//   - Payload: the slash-delimited plaintext frame carried inside a token,
//     with filler padding
//   - Errors: structured error codes shared by the service, HTTP and CLI
//     layers
package domain
