package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:7080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultRateLimit       = 50
	DefaultRateBurst       = 100
	DefaultIdentityHeader  = "X-ZetCipher-Identity"

	DefaultTokenLifetime = "900"
	DefaultCacheCapacity = 64

	DefaultResourceFile = "resources.yaml"
	DefaultDataDir      = "/var/lib/zetcipher"
	DefaultGCInterval   = "10m"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// EnvAliases maps the flat ZETCIPHER_* variables printed by `zetcipher key`
// onto configuration keys.
var EnvAliases = map[string]string{
	"CIPHER":         "codec.cipher",
	"ACCESS_KEY_ID":  "codec.access_key_id",
	"ACCESS_KEY":     "codec.access_key",
	"SIGNING_SECRET": "codec.signing_secret",
	"TOKEN_LIFETIME": "codec.token_lifetime",
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Codec: CodecSection{
			TokenLifetime: DefaultTokenLifetime,
			CacheCapacity: DefaultCacheCapacity,
		},
		Resources: ResourcesSection{
			Source: SourceFile,
			File:   DefaultResourceFile,
		},
		Storage: StorageSection{
			DataDir:    DefaultDataDir,
			GCInterval: DefaultGCInterval,
		},
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
				RateLimit:       DefaultRateLimit,
				RateBurst:       DefaultRateBurst,
				IdentityHeader:  DefaultIdentityHeader,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Defaults returns Default() as a flat koanf map, the lowest layer of the
// loader.
func Defaults() map[string]any {
	d := Default()
	h := d.Server.HTTP
	return map[string]any{
		"codec.token_lifetime":         d.Codec.TokenLifetime,
		"codec.cache_capacity":         d.Codec.CacheCapacity,
		"resources.source":             d.Resources.Source,
		"resources.file":               d.Resources.File,
		"storage.data_dir":             d.Storage.DataDir,
		"storage.gc_interval":          d.Storage.GCInterval,
		"server.http.addr":             h.Addr,
		"server.http.read_timeout":     h.ReadTimeout.String(),
		"server.http.write_timeout":    h.WriteTimeout.String(),
		"server.http.shutdown_timeout": h.ShutdownTimeout.String(),
		"server.http.rate_limit":       h.RateLimit,
		"server.http.rate_burst":       h.RateBurst,
		"server.http.identity_header":  h.IdentityHeader,
		"log.level":                    d.Log.Level,
		"log.format":                   d.Log.Format,
	}
}
