package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json.Unmarshal(%q) error = %v", buf.String(), err)
	}
	return entry
}

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		format string
		json   bool
	}{
		{"json", true},
		{"", true},
		{"text", false},
		{"console", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(Config{Level: "info", Format: tt.format, Output: &buf})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			l.Info("hello", "cipher", "ZET/ACS")

			isJSON := strings.HasPrefix(buf.String(), "{")
			if isJSON != tt.json {
				t.Errorf("format %q produced %q", tt.format, buf.String())
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { SetLevel("info") })

	l.Debug("d")
	l.Info("i")
	if buf.Len() != 0 {
		t.Errorf("debug/info should be filtered at warn, got %q", buf.String())
	}

	l.Warn("w")
	if !strings.Contains(buf.String(), `"msg":"w"`) {
		t.Errorf("warn should be written, got %q", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	for _, name := range []string{"debug", "warn", "error", "info"} {
		SetLevel(name)
		if got := GetLevel(); got != name {
			t.Errorf("GetLevel() after SetLevel(%q) = %q", name, got)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Output: &buf})

	l.With("component", "codec").Info("ready")

	entry := decodeLine(t, &buf)
	if entry["component"] != "codec" {
		t.Errorf("component = %v, want codec", entry["component"])
	}
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Output: &buf})

	ctx := context.WithValue(context.Background(), contextKey("k"), "v")
	l.WithContext(ctx).Info("ctx")
	if buf.Len() == 0 {
		t.Error("WithContext logger should still write")
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("discarded")
	l.With("a", 1).Warn("discarded")
}

func TestDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Output: &buf})
	SetDefault(l)

	Info("package level", "n", 1)
	if !strings.Contains(buf.String(), "package level") {
		t.Errorf("package-level Info not routed to default: %q", buf.String())
	}
}
