package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zetcipher"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	tokensEncoded   *prometheus.CounterVec
	tokensDecoded   *prometheus.CounterVec
	codecDuration   *prometheus.HistogramVec
	universeLookups *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with the Go runtime and process collectors
// plus every ZetCipher instrument registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		tokensEncoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_encoded_total",
			Help:      "Tokens encoded, by variant and outcome.",
		}, []string{"variant", "outcome"}),
		tokensDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_decoded_total",
			Help:      "Tokens decoded, by variant and result reason (ok when valid).",
		}, []string{"variant", "reason"}),
		codecDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "codec_duration_seconds",
			Help:      "Time spent in encode and decode.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"operation"}),
		universeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "universe_lookups_total",
			Help:      "Derived map set lookups, by cache result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.tokensEncoded,
		r.tokensDecoded,
		r.codecDuration,
		r.universeLookups,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// Prometheus returns the underlying registry for additional collectors.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.reg
}

// MustRegister registers extra collectors, panicking on conflict.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.reg.MustRegister(cs...)
}

// Handler returns the /metrics handler.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ObserveEncode records one encode call.
func (r *Registry) ObserveEncode(variant string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.tokensEncoded.WithLabelValues(variant, outcome).Inc()
	r.codecDuration.WithLabelValues("encode").Observe(d.Seconds())
}

// ObserveDecode records one decode call. An empty reason means the token
// was valid.
func (r *Registry) ObserveDecode(variant, reason string, d time.Duration) {
	if reason == "" {
		reason = "ok"
	}
	r.tokensDecoded.WithLabelValues(variant, reason).Inc()
	r.codecDuration.WithLabelValues("decode").Observe(d.Seconds())
}

// ObserveUniverse records a derived map set lookup.
func (r *Registry) ObserveUniverse(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.universeLookups.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request.
func (r *Registry) ObserveHTTP(route string, code int, d time.Duration) {
	r.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}
