package logger

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestRedact_SensitiveKeys(t *testing.T) {
	tests := []struct {
		key      string
		value    string
		redacted bool
	}{
		{"passphrase", "open sesame", true},
		{"access_key_id", "123456", true},
		{"signing_secret", "1234567", true},
		{"token", "0192837465", true},
		{"salt", "abc", true},
		{"cipher", "ZET/ACS", false},
		{"reason", "expired", false},
		{"passphrase", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var buf bytes.Buffer
			l, _ := New(Config{Level: "info", Output: &buf})
			l.Info("m", tt.key, tt.value)

			got := decodeLine(t, &buf)[tt.key]
			if tt.redacted && got != redactedValue {
				t.Errorf("%s = %v, want redacted", tt.key, got)
			}
			if !tt.redacted && got != tt.value {
				t.Errorf("%s = %v, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestRedact_AccessKeyValue(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Output: &buf})

	// masked by value even under a harmless key
	l.Info("loaded", "value", "ZCK01HZXABCDEF/123/c2FsdA==")

	if got := decodeLine(t, &buf)["value"]; got != "ZCK01H...A==" {
		t.Errorf("value = %v, want ZCK01H...A==", got)
	}
}

func TestRedact_Group(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Output: &buf})

	l.Info("g", slog.Group("settings", "passphrase", "pw", "cipher", "ZET/ACS"))

	settings, ok := decodeLine(t, &buf)["settings"].(map[string]any)
	if !ok {
		t.Fatalf("settings group missing: %s", buf.String())
	}
	if settings["passphrase"] != redactedValue {
		t.Errorf("settings.passphrase = %v, want redacted", settings["passphrase"])
	}
	if settings["cipher"] != "ZET/ACS" {
		t.Errorf("settings.cipher = %v", settings["cipher"])
	}
}

func TestRedactString(t *testing.T) {
	tests := map[string]string{
		"ZCK01HZXABCDEF": "ZCK01H...DEF",
		"ZCKab":          "ZCK***",
		"plain":          "plain",
	}
	for in, want := range tests {
		if got := RedactString(in); got != want {
			t.Errorf("RedactString(%q) = %q, want %q", in, got, want)
		}
	}
}
