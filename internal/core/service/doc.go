// Package service implements the ZetCipher token codec.
//
// A Codec turns short alphanumeric payloads plus an expiry into opaque
// decimal tokens and back. Every token is the sum of independently encoded
// components, each passed through a digit substitution table:
//
//	token = hide( guard+hide(enc(payload)) + hide(sec(key)) [+ hide(sec(passphrase))] [+ hide(sec(identity))] )
//
// enc and sec are conversion maps derived from the cipher's encryption and
// secret pools permuted by the access-key id; hide is the signature map of
// the hide pool permuted by the signing secret. Decoding subtracts every
// known component and reads the payload back out of the remainder. The
// guard digit keeps that remainder's leading zeros recoverable.
//
// Operations:
//
//   - Encode / Decode: stateless tokens
//   - Handshake / VerifyHandshake: tokens bound to a registered identity
//   - GenerateLink / ValidateLink: tokens carried in a URL query
//
// Setup problems (missing configuration, missing or malformed resources)
// are returned as errors. Data problems during decode are returned as a
// Result with Valid false and a Reason, never as an error.
//
// A Codec is immutable after New and safe for concurrent use.
package service
