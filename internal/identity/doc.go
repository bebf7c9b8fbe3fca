// Package identity keeps the registry of identities that handshake tokens
// may be bound to, and carries the calling identity through a context.
//
// Directory stores one JSON record per identity under identity/<id> in the
// storage engine and implements service.IdentityResolver: Exists consults
// the registry, Current reads the caller placed in the context by
// WithCaller (the HTTP layer does this from a request header, the CLI from
// a flag).
package identity
