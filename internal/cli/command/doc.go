// Package command provides the zetcipher command-line interface.
//
// This package defines all commands using urfave/cli/v2:
//
//   - root.go: application, global flags, exit handling
//   - runtime.go: configuration, storage and codec wiring shared by commands
//   - key.go: resource and key generation
//   - token.go: encode, decode, link and verify-link
//   - handshake.go: identity-bound tokens
//   - identity.go: identity directory management
//   - resource.go: bundle inspection, sealing and the badger repository
//   - config.go: configuration display and validation
//   - serve.go: the HTTP daemon with hot reload
//
// Commands parse flags, call the codec or a store, and print through the
// output package.
package command
