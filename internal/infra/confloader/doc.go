// Package confloader loads layered configuration with koanf.
//
// Sources, later ones overriding earlier ones:
//
//  1. defaults supplied by the caller (LoadMap)
//  2. a YAML file
//  3. environment variables
//  4. command-line flags (LoadMap again)
//
// Environment variables carry the ZETCIPHER_ prefix. Nested keys use a
// double underscore between path segments, so a single underscore can stay
// inside a key name: ZETCIPHER_RESOURCES__STORE_DIR sets resources.store_dir.
// Flat aliases such as ZETCIPHER_ACCESS_KEY_ID are mapped through
// WithEnvAliases.
//
// Watcher reports writes to a configuration file through fsnotify so that
// long-running commands can reload.
package confloader
