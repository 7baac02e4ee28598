package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters the services report into. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	CatalogLoads  *prometheus.CounterVec
	Lookups       *prometheus.CounterVec
	ItemsSaved    prometheus.Counter
	ItemsRemoved  prometheus.Counter
	SessionItems  prometheus.Gauge
	Exports       *prometheus.CounterVec
	ScannerDedups prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		CatalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iow_catalog_loads_total",
			Help: "Catalog load attempts by result.",
		}, []string{"result"}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iow_lookups_total",
			Help: "Item lookups by search kind and result.",
		}, []string{"kind", "result"}),
		ItemsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iow_session_items_saved_total",
			Help: "Scanned items appended to the session.",
		}),
		ItemsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iow_session_items_removed_total",
			Help: "Scanned items removed from the session.",
		}),
		SessionItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "iow_session_items",
			Help: "Items currently in the session.",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iow_exports_total",
			Help: "Report exports by format and result.",
		}, []string{"format", "result"}),
		ScannerDedups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iow_scanner_dedups_total",
			Help: "Keyboard-wedge inputs that were shortened.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		m.CatalogLoads, m.Lookups, m.ItemsSaved, m.ItemsRemoved,
		m.SessionItems, m.Exports, m.ScannerDedups,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) CatalogLoad(err error) {
	if m == nil {
		return
	}
	m.CatalogLoads.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) Lookup(kind string, found bool) {
	if m == nil {
		return
	}
	res := "miss"
	if found {
		res = "hit"
	}
	m.Lookups.WithLabelValues(kind, res).Inc()
}

func (m *Metrics) Saved(total int) {
	if m == nil {
		return
	}
	m.ItemsSaved.Inc()
	m.SessionItems.Set(float64(total))
}

func (m *Metrics) Removed(n, total int) {
	if m == nil {
		return
	}
	m.ItemsRemoved.Add(float64(n))
	m.SessionItems.Set(float64(total))
}

func (m *Metrics) Export(format string, err error) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(format, result(err)).Inc()
}

func (m *Metrics) Dedup() {
	if m == nil {
		return
	}
	m.ScannerDedups.Inc()
}
