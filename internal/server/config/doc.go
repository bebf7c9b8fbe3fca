// Package config defines the configuration of the zetcipher binary.
//
//   - spec.go: Config struct definition
//   - default.go: default values and the flat ZETCIPHER_* aliases
//   - verify.go: validation beyond what unmarshaling catches
//   - sanitize.go: masked copy for logging
//
// Configuration is loaded through internal/infra/confloader from defaults,
// a YAML file, the environment and flags.
package config
