package metric

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// sample returns the value of the metric family name whose labels include
// every pair in labels.
func sample(t *testing.T, g prometheus.Gatherer, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matches(m, labels) {
				switch {
				case m.Counter != nil:
					return m.GetCounter().GetValue()
				case m.Gauge != nil:
					return m.GetGauge().GetValue()
				case m.Histogram != nil:
					return float64(m.GetHistogram().GetSampleCount())
				}
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, lp := range m.GetLabel() {
		if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
			found++
		}
	}
	return found == len(labels)
}

func TestRegistry_Observe(t *testing.T) {
	r := NewRegistry()

	r.ObserveEncode("conventional", time.Millisecond, nil)
	r.ObserveEncode("conventional", time.Millisecond, errors.New("boom"))
	r.ObserveDecode("handshake", "", time.Millisecond)
	r.ObserveDecode("handshake", "expired", time.Millisecond)
	r.ObserveDecode("handshake", "expired", time.Millisecond)
	r.ObserveUniverse(true)
	r.ObserveUniverse(false)
	r.ObserveHTTP("/v1/tokens", 200, time.Millisecond)

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"zetcipher_tokens_encoded_total", map[string]string{"variant": "conventional", "outcome": "ok"}, 1},
		{"zetcipher_tokens_encoded_total", map[string]string{"variant": "conventional", "outcome": "error"}, 1},
		{"zetcipher_tokens_decoded_total", map[string]string{"variant": "handshake", "reason": "ok"}, 1},
		{"zetcipher_tokens_decoded_total", map[string]string{"variant": "handshake", "reason": "expired"}, 2},
		{"zetcipher_universe_lookups_total", map[string]string{"result": "hit"}, 1},
		{"zetcipher_http_requests_total", map[string]string{"route": "/v1/tokens", "code": "200"}, 1},
		{"zetcipher_codec_duration_seconds", map[string]string{"operation": "decode"}, 3},
	}
	for _, tt := range tests {
		if got := sample(t, r.Prometheus(), tt.name, tt.labels); got != tt.want {
			t.Errorf("%s%v = %v, want %v", tt.name, tt.labels, got, tt.want)
		}
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.ObserveDecode("conventional", "", time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"zetcipher_tokens_decoded_total", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics output missing %s", want)
		}
	}
}

func TestCollector(t *testing.T) {
	sets, ids := 3, 7
	r := NewRegistry()
	r.MustRegister(NewCollector(func() int { return sets }, func() int { return ids }))

	if got := sample(t, r.Prometheus(), "zetcipher_universe_cached_sets", nil); got != 3 {
		t.Errorf("cached_sets = %v, want 3", got)
	}

	ids = 9
	if got := sample(t, r.Prometheus(), "zetcipher_identity_registered", nil); got != 9 {
		t.Errorf("identity_registered = %v, want 9", got)
	}
}

func TestCollector_NilSources(t *testing.T) {
	c := NewCollector(nil, nil)
	ch := make(chan prometheus.Metric, 4)
	c.Collect(ch)
	close(ch)
	if len(ch) != 0 {
		t.Errorf("collected %d metrics, want 0", len(ch))
	}
}
