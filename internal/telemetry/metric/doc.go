// Package metric exposes ZetCipher metrics in Prometheus format.
//
//   - prometheus.go: the registry, codec and HTTP instruments, /metrics
//     handler
//   - collector.go: a pull collector for gauges read on scrape (memoised
//     map sets, registered identities)
//
// Registry satisfies the codec's observer interface, so the service layer
// records outcomes without importing Prometheus.
package metric
