// Package metrics exports registry activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vk/nsreg/internal/registry"
)

// Metrics implements registry.Observer.
type Metrics struct {
	created  prometheus.Counter
	fetched  prometheus.Counter
	requires *prometheus.CounterVec
	modules  prometheus.Gauge
}

var _ registry.Observer = (*Metrics)(nil)

// New registers the registry metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		created: factory.NewCounter(prometheus.CounterOpts{
			Name: "nsreg_modules_created_total",
			Help: "Total number of module namespaces created",
		}),
		fetched: factory.NewCounter(prometheus.CounterOpts{
			Name: "nsreg_modules_fetched_total",
			Help: "Total number of exports calls that returned an existing namespace",
		}),
		requires: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nsreg_require_total",
			Help: "Total number of require lookups by result",
		}, []string{"result"}),
		modules: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nsreg_modules",
			Help: "Current number of module namespaces",
		}),
	}
}

// ModuleCreated implements registry.Observer.
func (m *Metrics) ModuleCreated(string) {
	m.created.Inc()
	m.modules.Inc()
}

// ModuleFetched implements registry.Observer.
func (m *Metrics) ModuleFetched(string) {
	m.fetched.Inc()
}

// ModuleRequired implements registry.Observer.
func (m *Metrics) ModuleRequired(_ string, found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	m.requires.WithLabelValues(result).Inc()
}
