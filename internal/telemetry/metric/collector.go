package metric

import "github.com/prometheus/client_golang/prometheus"

// Collector reports gauges whose values are read at scrape time.
type Collector struct {
	cachedSets func() int
	identities func() int

	cachedSetsDesc *prometheus.Desc
	identitiesDesc *prometheus.Desc
}

// NewCollector creates a collector. Either source may be nil, in which
// case its gauge is not reported.
func NewCollector(cachedSets, identities func() int) *Collector {
	return &Collector{
		cachedSets: cachedSets,
		identities: identities,
		cachedSetsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "universe", "cached_sets"),
			"Derived map sets held in the memo cache.",
			nil, nil,
		),
		identitiesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "identity", "registered"),
			"Identities registered in the directory.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cachedSetsDesc
	ch <- c.identitiesDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.cachedSets != nil {
		ch <- prometheus.MustNewConstMetric(c.cachedSetsDesc, prometheus.GaugeValue, float64(c.cachedSets()))
	}
	if c.identities != nil {
		ch <- prometheus.MustNewConstMetric(c.identitiesDesc, prometheus.GaugeValue, float64(c.identities()))
	}
}
