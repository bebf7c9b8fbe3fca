package httpserver

import (
	"net/http"

	"github.com/anonputraid/zetcipher/internal/server/httpserver/handler"
	"github.com/anonputraid/zetcipher/internal/telemetry/logger"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Codec returns the codec currently in service.
	Codec handler.CodecSource

	// Metrics serves /metrics and records request metrics. Optional.
	Metrics MetricsSource

	Logger logger.Logger

	// RateLimit is the per-client budget in requests/second; 0 disables
	// rate limiting.
	RateLimit float64
	RateBurst int

	// IdentityHeader names the caller when no client certificate does.
	IdentityHeader string
}

// MetricsSource is the metrics registry of the server.
type MetricsSource interface {
	Observer
	Handler() http.Handler
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	h := handler.New(cfg.Codec, log)

	var obs Observer
	if cfg.Metrics != nil {
		obs = cfg.Metrics
	}
	var limiter *RateLimiter
	if cfg.RateLimit > 0 {
		limiter = NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	mux := http.NewServeMux()
	for _, pattern := range handler.Routes {
		mws := []Middleware{RequestID(log), AccessLog(pattern, obs), Recover()}
		if pattern != "GET /health" {
			mws = append(mws, RateLimit(limiter), Caller(cfg.IdentityHeader))
		}
		mux.Handle(pattern, Chain(h, mws...))
	}

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover()))
	}

	// Unmatched paths still get an envelope.
	mux.Handle("/", Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "ZC-SYS-4040", "no such endpoint")
	}), RequestID(log)))

	return mux
}
