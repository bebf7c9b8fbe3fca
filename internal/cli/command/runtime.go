package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/anonputraid/zetcipher/internal/core/service"
	"github.com/anonputraid/zetcipher/internal/identity"
	"github.com/anonputraid/zetcipher/internal/resource"
	"github.com/anonputraid/zetcipher/internal/server/config"
	"github.com/anonputraid/zetcipher/internal/storage"
	"github.com/anonputraid/zetcipher/internal/telemetry/logger"
)

const stateKey = "state"

// state is the configuration, logger and storage shared by the commands of
// one invocation. Storage is opened on first use and closed by App.After.
type state struct {
	cfg  *config.Config
	path string
	log  logger.Logger
	kv   *storage.BadgerEngine
}

// loadState loads the configuration once per invocation.
func loadState(c *cli.Context) (*state, error) {
	if s, ok := c.App.Metadata[stateKey].(*state); ok {
		return s, nil
	}

	path := c.String("config")
	cfg, err := config.Load(path, flagLayer(c))
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	s := &state{cfg: cfg, path: path, log: log}
	c.App.Metadata[stateKey] = s
	return s, nil
}

func closeRuntime(c *cli.Context) error {
	s, ok := c.App.Metadata[stateKey].(*state)
	if !ok {
		return nil
	}
	delete(c.App.Metadata, stateKey)
	if s.kv == nil {
		return nil
	}
	return s.kv.Close()
}

// store opens the badger engine.
func (s *state) store() (*storage.BadgerEngine, error) {
	if s.kv != nil {
		return s.kv, nil
	}
	kv, err := openStore(s.cfg.Storage, s.log)
	if err != nil {
		return nil, err
	}
	s.kv = kv
	return kv, nil
}

// directory opens the identity directory.
func (s *state) directory(ctx context.Context) (*identity.Directory, error) {
	kv, err := s.store()
	if err != nil {
		return nil, err
	}
	return identity.NewDirectory(ctx, kv)
}

// codec builds a codec from the loaded configuration.
func (s *state) codec(ctx context.Context, opts ...service.Option) (*service.Codec, error) {
	var kv storage.KVEngine
	if s.cfg.Resources.Source == config.SourceStore {
		e, err := s.store()
		if err != nil {
			return nil, err
		}
		kv = e
	}
	opts = append([]service.Option{service.WithLogger(s.log)}, opts...)
	return newCodec(ctx, s.cfg, kv, opts...)
}

func openStore(sc config.StorageSection, log logger.Logger) (*storage.BadgerEngine, error) {
	kvCfg := storage.DefaultKVConfig(sc.DataDir)
	if sc.InMemory {
		kvCfg = storage.InMemoryKVConfig()
	}
	if sc.GCInterval != "" {
		kvCfg.Badger.GCInterval = sc.GCInterval
	}
	kv, err := storage.NewBadgerEngine(kvCfg, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return kv, nil
}

// newCodec reads the pools named by cfg and builds a codec. kv is used only
// when resources come from the store.
func newCodec(ctx context.Context, cfg *config.Config, kv storage.KVEngine, opts ...service.Option) (*service.Codec, error) {
	settings, err := cfg.Codec.Settings()
	if err != nil {
		return nil, fmt.Errorf("codec settings: %w", err)
	}
	pools, err := loadPools(ctx, cfg.Resources, kv)
	if err != nil {
		return nil, err
	}
	if cfg.Codec.CacheCapacity > 0 {
		opts = append(opts, service.WithCacheCapacity(cfg.Codec.CacheCapacity))
	}
	return service.New(settings, pools, opts...)
}

func loadPools(ctx context.Context, rc config.ResourcesSection, kv storage.KVEngine) (*resource.MemoryStore, error) {
	if rc.Source == config.SourceStore {
		if kv == nil {
			return nil, fmt.Errorf("resources.source is %q but no storage is open", rc.Source)
		}
		return resource.NewRepository(kv).Load(ctx)
	}
	b, err := resource.LoadFile(rc.File, rc.Passphrase)
	if err != nil {
		return nil, err
	}
	return b.Store()
}
