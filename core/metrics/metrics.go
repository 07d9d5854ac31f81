package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns every collector the service exports. A nil *Registry is valid
// and records nothing, so components can be built without metrics in tests.
type Registry struct {
	reg *prometheus.Registry

	CyclesTotal      *prometheus.CounterVec
	CycleDuration    prometheus.Histogram
	LastSuccess      prometheus.Gauge
	UnitsTotal       *prometheus.CounterVec
	TransportRetries *prometheus.CounterVec
	Discrepancies    prometheus.Gauge
	Anomalies        *prometheus.GaugeVec
	ReorderSuggested prometheus.Gauge
}

// NewRegistry creates a private registry with all stock-sync collectors.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_sync_cycles_total",
		Help: "Reconciliation cycles by final status",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_sync_cycle_duration_seconds",
		Help:    "Wall time of a full reconciliation cycle",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stock_sync_last_success_timestamp_seconds",
		Help: "Unix time of the last cycle that reached both stores",
	})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_sync_units_total",
		Help: "Units processed per phase and outcome",
	}, []string{"phase", "outcome"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_sync_transport_retries_total",
		Help: "Retried remote calls per store and operation kind",
	}, []string{"store", "kind"})
	discrepancies := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stock_sync_discrepancies",
		Help: "Stock discrepancies found by the last analysis",
	})
	anomalies := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stock_sync_anomalies",
		Help: "Anomalies found by the last analysis per severity",
	}, []string{"severity"})
	reorder := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stock_sync_reorder_suggestions",
		Help: "Reorder suggestions produced by the last analysis",
	})

	r.MustRegister(cycles, duration, lastSuccess, units, retries, discrepancies, anomalies, reorder)
	return &Registry{
		reg:              r,
		CyclesTotal:      cycles,
		CycleDuration:    duration,
		LastSuccess:      lastSuccess,
		UnitsTotal:       units,
		TransportRetries: retries,
		Discrepancies:    discrepancies,
		Anomalies:        anomalies,
		ReorderSuggested: reorder,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveCycle records the end of a cycle.
func (r *Registry) ObserveCycle(status string, elapsed time.Duration, reachedStores bool) {
	if r == nil {
		return
	}
	r.CyclesTotal.WithLabelValues(status).Inc()
	r.CycleDuration.Observe(elapsed.Seconds())
	if reachedStores {
		r.LastSuccess.SetToCurrentTime()
	}
}

// Unit counts one processed unit.
func (r *Registry) Unit(phase, outcome string) {
	if r == nil {
		return
	}
	r.UnitsTotal.WithLabelValues(phase, outcome).Inc()
}

// Retry counts one retried remote call.
func (r *Registry) Retry(store, kind string) {
	if r == nil {
		return
	}
	r.TransportRetries.WithLabelValues(store, kind).Inc()
}

// SetAnalysis publishes the size of the last analysis.
func (r *Registry) SetAnalysis(discrepancies int, anomaliesBySeverity map[string]int, suggestions int) {
	if r == nil {
		return
	}
	r.Discrepancies.Set(float64(discrepancies))
	r.Anomalies.Reset()
	for severity, n := range anomaliesBySeverity {
		r.Anomalies.WithLabelValues(severity).Set(float64(n))
	}
	r.ReorderSuggested.Set(float64(suggestions))
}
