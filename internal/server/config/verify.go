package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

// Verify validates everything except the codec secrets, which service.New
// checks itself so that the CLI can report them with domain error codes.
func Verify(cfg *Config) error {
	return errors.Join(
		verifyCodec(&cfg.Codec),
		verifyResources(&cfg.Resources, &cfg.Storage),
		verifyStorage(&cfg.Storage),
		verifyHTTP(&cfg.Server.HTTP),
		verifyLog(&cfg.Log),
	)
}

func verifyCodec(c *CodecSection) error {
	d, err := c.Lifetime()
	if err != nil {
		return fmt.Errorf("codec.token_lifetime: %w", err)
	}
	if d < 0 {
		return errors.New("codec.token_lifetime must not be negative")
	}
	if c.CacheCapacity < 0 {
		return errors.New("codec.cache_capacity must not be negative")
	}
	return nil
}

func verifyResources(r *ResourcesSection, s *StorageSection) error {
	switch r.Source {
	case SourceFile:
		if r.File == "" {
			return errors.New("resources.file is required when resources.source is file")
		}
	case SourceStore:
		if s.InMemory {
			return errors.New("resources.source store needs a persistent storage, storage.in_memory is set")
		}
	default:
		return fmt.Errorf("resources.source must be %q or %q, got %q", SourceFile, SourceStore, r.Source)
	}
	return nil
}

func verifyStorage(s *StorageSection) error {
	if !s.InMemory && s.DataDir == "" {
		return errors.New("storage.data_dir is required unless storage.in_memory is set")
	}
	if s.GCInterval != "" {
		if _, err := time.ParseDuration(s.GCInterval); err != nil {
			return fmt.Errorf("storage.gc_interval: %w", err)
		}
	}
	return nil
}

func verifyHTTP(h *HTTPConfig) error {
	var errs []error
	if _, _, err := net.SplitHostPort(h.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.http.addr: %w", err))
	}
	if h.TLSEnabled() {
		if h.TLSCertFile == "" || h.TLSKeyFile == "" {
			errs = append(errs, errors.New("server.http.tls_cert_file and tls_key_file must be set together"))
		}
		for _, f := range []string{h.TLSCertFile, h.TLSKeyFile, h.TLSClientCAFile} {
			if f == "" {
				continue
			}
			if _, err := os.Stat(f); err != nil {
				errs = append(errs, fmt.Errorf("server.http tls file: %w", err))
			}
		}
	} else if h.TLSClientCAFile != "" {
		errs = append(errs, errors.New("server.http.tls_client_ca_file needs a server certificate"))
	}
	if h.RateLimit < 0 || h.RateBurst < 0 {
		errs = append(errs, errors.New("server.http.rate_limit and rate_burst must not be negative"))
	}
	if h.RateLimit > 0 && h.RateBurst == 0 {
		errs = append(errs, errors.New("server.http.rate_burst must be positive when rate_limit is set"))
	}
	return errors.Join(errs...)
}

func verifyLog(l *LogSection) error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q is not one of json, text, console", l.Format)
	}
	return nil
}
