package logger

import (
	"log/slog"
	"strings"
)

// AccessKeyPrefix starts every access key issued by `zetcipher key`.
// Values carrying it are partially masked wherever they are logged.
const AccessKeyPrefix = "ZCK"

// Attribute keys whose string values are fully redacted.
var sensitiveKeyPatterns = []string{
	"passphrase",
	"password",
	"secret",
	"signing",
	"salt",
	"token",
	"key",
	"credential",
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if v == "" {
			return a
		}
		if strings.HasPrefix(v, AccessKeyPrefix) {
			return slog.String(a.Key, maskValue(v, AccessKeyPrefix))
		}
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// maskValue keeps prefix plus the first and last three bytes of the body.
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) <= 6 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// RedactString masks access keys; other values pass through.
func RedactString(value string) string {
	if strings.HasPrefix(value, AccessKeyPrefix) {
		return maskValue(value, AccessKeyPrefix)
	}
	return value
}

// IsSensitiveKey reports whether an attribute key names secret material.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, p := range sensitiveKeyPatterns {
		if strings.Contains(k, p) {
			return true
		}
	}
	return false
}
