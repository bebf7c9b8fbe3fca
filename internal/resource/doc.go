// Package resource loads, generates, seals and persists the symbol pools a
// codec is keyed by.
//
// A bundle holds three tables (encryption, secret, hide), each mapping a
// cipher id such as "ZET/ACS" to a pool written as dot-separated byte
// values ("65.66.67"). Bundles are YAML documents, optionally sealed with a
// passphrase (see Seal), and can be imported into the badger-backed
// Repository. MemoryStore is the read-only, decoded form handed to
// service.New.
package resource
