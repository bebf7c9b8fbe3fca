package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/anonputraid/zetcipher/internal/core/service"
)

// Config is the root configuration.
type Config struct {
	Codec     CodecSection     `koanf:"codec" json:"codec"`
	Resources ResourcesSection `koanf:"resources" json:"resources"`
	Storage   StorageSection   `koanf:"storage" json:"storage"`
	Server    ServerSection    `koanf:"server" json:"server"`
	Log       LogSection       `koanf:"log" json:"log"`
}

// CodecSection holds the token settings.
type CodecSection struct {
	Cipher        string `koanf:"cipher" json:"cipher"`
	AccessKeyID   string `koanf:"access_key_id" json:"access_key_id"`
	AccessKey     string `koanf:"access_key" json:"access_key"`
	SigningSecret string `koanf:"signing_secret" json:"signing_secret"`
	// TokenLifetime is whole seconds ("3600") or a Go duration ("1h").
	TokenLifetime string `koanf:"token_lifetime" json:"token_lifetime"`
	CacheCapacity int    `koanf:"cache_capacity" json:"cache_capacity"`
}

// Lifetime parses TokenLifetime. An empty value yields zero, which the
// codec replaces with its default.
func (c CodecSection) Lifetime() (time.Duration, error) {
	s := strings.TrimSpace(c.TokenLifetime)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// Settings converts the section into codec settings.
func (c CodecSection) Settings() (service.Settings, error) {
	lifetime, err := c.Lifetime()
	if err != nil {
		return service.Settings{}, err
	}
	return service.Settings{
		Cipher:        c.Cipher,
		AccessKeyID:   c.AccessKeyID,
		AccessKey:     c.AccessKey,
		SigningSecret: c.SigningSecret,
		TokenLifetime: lifetime,
	}, nil
}

// Resource sources.
const (
	SourceFile  = "file"
	SourceStore = "store"
)

// ResourcesSection says where the symbol pools come from.
type ResourcesSection struct {
	// Source is "file" (read File) or "store" (read the badger repository).
	Source string `koanf:"source" json:"source"`
	File   string `koanf:"file" json:"file"`
	// Passphrase opens sealed bundle files.
	Passphrase string `koanf:"passphrase" json:"passphrase"`
}

// StorageSection configures the embedded KV engine.
type StorageSection struct {
	DataDir    string `koanf:"data_dir" json:"data_dir"`
	InMemory   bool   `koanf:"in_memory" json:"in_memory"`
	GCInterval string `koanf:"gc_interval" json:"gc_interval"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http" json:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr            string        `koanf:"addr" json:"addr"`
	TLSCertFile     string        `koanf:"tls_cert_file" json:"tls_cert_file"`
	TLSKeyFile      string        `koanf:"tls_key_file" json:"tls_key_file"`
	TLSClientCAFile string        `koanf:"tls_client_ca_file" json:"tls_client_ca_file"`
	ReadTimeout     time.Duration `koanf:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`
	// RateLimit is requests per second per client address; 0 disables it.
	RateLimit float64 `koanf:"rate_limit" json:"rate_limit"`
	RateBurst int     `koanf:"rate_burst" json:"rate_burst"`
	// IdentityHeader names the header that carries the caller identity
	// when no verified client certificate does.
	IdentityHeader string `koanf:"identity_header" json:"identity_header"`
}

// TLSEnabled reports whether a server certificate is configured.
func (h HTTPConfig) TLSEnabled() bool {
	return h.TLSCertFile != "" || h.TLSKeyFile != ""
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level"`
	Format string `koanf:"format" json:"format"`
}
