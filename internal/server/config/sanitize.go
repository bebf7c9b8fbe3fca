package config

import "strings"

// Sanitize returns a copy of the config with secrets masked, for logging
// and `zetcipher config show`.
func Sanitize(cfg *Config) *Config {
	s := *cfg
	s.Codec.AccessKeyID = maskSecret(s.Codec.AccessKeyID)
	s.Codec.AccessKey = maskSecret(s.Codec.AccessKey)
	s.Codec.SigningSecret = maskSecret(s.Codec.SigningSecret)
	s.Resources.Passphrase = maskSecret(s.Resources.Passphrase)
	return &s
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 4:
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
