// Package storage provides the embedded key-value engine that backs the
// resource repository and the identity directory.
//
// The engine is Badger v3. It runs either on disk (Dir set) or fully in
// memory (InMemory), which is what tests and ephemeral `serve` instances
// use. Keys are namespaced by the callers with slash-separated prefixes:
//
//	resource/<kind>/<cipher>   pool bytes of one cipher
//	identity/<id>              registration record of one identity
//
// Backup and Load stream Badger's native backup format, so a store can be
// exported and merged into another one.
package storage
