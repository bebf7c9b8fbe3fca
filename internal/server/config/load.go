package config

import (
	"github.com/anonputraid/zetcipher/internal/infra/confloader"
)

// Load layers defaults, the YAML file at path (optional), ZETCIPHER_*
// environment variables and flags, then verifies the result.
func Load(path string, flags map[string]any) (*Config, error) {
	l := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithEnvAliases(EnvAliases),
	)
	if err := l.LoadMap(Defaults()); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	if len(flags) > 0 {
		if err := l.LoadMap(flags); err != nil {
			return nil, err
		}
		if err := l.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
