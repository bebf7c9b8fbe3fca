package command

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/urfave/cli/v2"

	"github.com/anonputraid/zetcipher/internal/core/service"
	"github.com/anonputraid/zetcipher/internal/identity"
	"github.com/anonputraid/zetcipher/internal/infra/buildinfo"
	"github.com/anonputraid/zetcipher/internal/infra/confloader"
	"github.com/anonputraid/zetcipher/internal/infra/shutdown"
	"github.com/anonputraid/zetcipher/internal/infra/tlsroots"
	"github.com/anonputraid/zetcipher/internal/server/config"
	"github.com/anonputraid/zetcipher/internal/server/httpserver"
	"github.com/anonputraid/zetcipher/internal/storage"
	"github.com/anonputraid/zetcipher/internal/telemetry/logger"
	"github.com/anonputraid/zetcipher/internal/telemetry/metric"
)

// ServeCommand returns the serve command.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Description: "Serves the token API until SIGINT or SIGTERM. Changes to the config file\n" +
			"or the resource file rebuild the codec without a restart.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.http.addr",
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	flags := flagLayer(c)
	if c.IsSet("addr") {
		flags["server.http.addr"] = c.String("addr")
	}
	cfg, err := config.Load(c.String("config"), flags)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	kv, err := openStore(cfg.Storage, log)
	if err != nil {
		return err
	}
	defer kv.Close()

	d, err := newDaemon(c.Context, cfg, c.String("config"), flags, kv, log)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Server.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return d.run(c.Context, ln)
}

// daemon owns the long-lived pieces of `zetcipher serve`. The codec is
// swapped atomically on reload; requests in flight keep the one they got.
type daemon struct {
	cfg     *config.Config
	path    string
	flags   map[string]any
	log     logger.Logger
	kv      *storage.BadgerEngine
	dir     *identity.Directory
	metrics *metric.Registry

	codec atomic.Pointer[service.Codec]
	mu    sync.Mutex // serializes reload
}

func newDaemon(ctx context.Context, cfg *config.Config, path string, flags map[string]any, kv *storage.BadgerEngine, log logger.Logger) (*daemon, error) {
	dir, err := identity.NewDirectory(ctx, kv)
	if err != nil {
		return nil, err
	}

	d := &daemon{
		cfg:     cfg,
		path:    path,
		flags:   flags,
		log:     log,
		kv:      kv,
		dir:     dir,
		metrics: metric.NewRegistry(),
	}

	if err := kv.RegisterMetrics(d.metrics.Prometheus()); err != nil {
		return nil, err
	}
	d.metrics.MustRegister(metric.NewCollector(d.cachedSets, dir.Count))

	// An unusable codec is not fatal: the API answers 503 until a reload
	// brings a good configuration.
	codec, err := d.build(ctx, cfg)
	if err != nil {
		log.Error("codec not configured", "error", err)
	} else {
		d.codec.Store(codec)
	}
	return d, nil
}

func (d *daemon) current() *service.Codec {
	return d.codec.Load()
}

func (d *daemon) cachedSets() int {
	if c := d.codec.Load(); c != nil {
		return c.CachedSets()
	}
	return 0
}

func (d *daemon) build(ctx context.Context, cfg *config.Config) (*service.Codec, error) {
	return newCodec(ctx, cfg, d.kv,
		service.WithLogger(d.log),
		service.WithObserver(d.metrics),
		service.WithIdentities(d.dir),
	)
}

// reload reads the configuration again and swaps in a new codec. On any
// failure the previous codec stays in service.
func (d *daemon) reload(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cfg, err := config.Load(d.path, d.flags)
	if err != nil {
		return fmt.Errorf("reload configuration: %w", err)
	}
	codec, err := d.build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("reload codec: %w", err)
	}

	if cfg.Server.HTTP != d.cfg.Server.HTTP || cfg.Storage != d.cfg.Storage {
		d.log.Warn("server and storage settings changed, restart to apply them")
	}
	logger.SetLevel(cfg.Log.Level)
	d.codec.Store(codec)
	d.cfg.Codec, d.cfg.Resources, d.cfg.Log = cfg.Codec, cfg.Resources, cfg.Log

	d.log.Info("codec reloaded", "cipher", cfg.Codec.Cipher, "source", cfg.Resources.Source)
	return nil
}

// watchPaths returns the files whose changes trigger a reload.
func (d *daemon) watchPaths() []string {
	var paths []string
	if d.path != "" {
		paths = append(paths, d.path)
	}
	if d.cfg.Resources.Source == config.SourceFile && d.cfg.Resources.File != "" {
		paths = append(paths, d.cfg.Resources.File)
	}
	return paths
}

func (d *daemon) router() http.Handler {
	h := d.cfg.Server.HTTP
	return httpserver.NewRouter(&httpserver.RouterConfig{
		Codec:          d.current,
		Metrics:        d.metrics,
		Logger:         d.log,
		RateLimit:      h.RateLimit,
		RateBurst:      h.RateBurst,
		IdentityHeader: h.IdentityHeader,
	})
}

// tlsConfig starts the certificate watcher when TLS is configured.
func (d *daemon) tlsConfig(sd *shutdown.Handler) (*tls.Config, error) {
	h := d.cfg.Server.HTTP
	if !h.TLSEnabled() {
		return nil, nil
	}

	certs, err := tlsroots.NewWatcher(h.TLSCertFile, h.TLSKeyFile, tlsroots.WithLogger(d.log))
	if err != nil {
		return nil, err
	}
	certs.StartAsync()
	sd.OnShutdown(func(context.Context) error { return certs.Stop() })

	var clients *tlsroots.Pool
	if h.TLSClientCAFile != "" {
		if clients, err = tlsroots.LoadPool(h.TLSClientCAFile); err != nil {
			return nil, err
		}
	}
	d.log.Info("tls enabled", "mutual", clients != nil, "not_after", certs.NotAfter())
	return tlsroots.ServerConfig(certs, clients), nil
}

func (d *daemon) watch(ctx context.Context, sd *shutdown.Handler) error {
	paths := d.watchPaths()
	if len(paths) == 0 {
		return nil
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(d.log))
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			w.Stop()
			return err
		}
	}
	w.OnChange(func(path string) {
		d.log.Info("file changed", "path", path)
		if err := d.reload(ctx); err != nil {
			d.log.Error("reload failed, keeping current codec", "error", err)
		}
	})
	w.StartAsync()
	sd.OnShutdown(func(context.Context) error { return w.Stop() })
	return nil
}

// run serves on ln until ctx is done, a termination signal arrives or the
// listener fails.
func (d *daemon) run(ctx context.Context, ln net.Listener) error {
	h := d.cfg.Server.HTTP
	sd := shutdown.NewHandler(h.ShutdownTimeout)

	tlsCfg, err := d.tlsConfig(sd)
	if err != nil {
		ln.Close()
		sd.Shutdown()
		return err
	}
	if err := d.watch(ctx, sd); err != nil {
		ln.Close()
		sd.Shutdown()
		return err
	}

	srv := httpserver.New(httpserver.Config{
		Addr:         ln.Addr().String(),
		TLS:          tlsCfg,
		ReadTimeout:  h.ReadTimeout,
		WriteTimeout: h.WriteTimeout,
	}, d.router())
	sd.OnShutdown(func(ctx context.Context) error {
		d.log.Info("shutting down HTTP server")
		return srv.Shutdown(ctx)
	})

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil {
			serveErr <- err
			cancel()
		}
	}()

	info := buildinfo.Get()
	d.log.Info("zetcipher serving",
		"addr", ln.Addr().String(),
		"tls", tlsCfg != nil,
		"version", info.Version,
		"configured", d.current() != nil)

	err = sd.Wait(waitCtx)
	select {
	case e := <-serveErr:
		err = errors.Join(e, err)
	default:
	}
	if err != nil {
		return err
	}
	d.log.Info("server stopped")
	return nil
}
