// Package metrics holds the Prometheus collectors exported by the simhub
// binaries. Each process owns a private registry so tests can build as many
// instances as they like.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "simhub"

// Metrics holds all Prometheus metrics for both simulators.
type Metrics struct {
	registry *prometheus.Registry

	// Cloud registry + poller
	PollCyclesTotal     prometheus.Counter
	ResourceUsage       *prometheus.GaugeVec
	Resources           *prometheus.GaugeVec
	ExportBatchesTotal  prometheus.Counter
	ExportFailuresTotal prometheus.Counter

	// IoT device store
	DeviceCommandsTotal *prometheus.CounterVec
	MotionEventsTotal   prometheus.Counter

	// HTTP facade
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all metrics on a fresh registry, along with the
// standard Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		PollCyclesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cloud",
			Name:      "poll_cycles_total",
			Help:      "Total number of completed usage poll cycles",
		}),
		ResourceUsage: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cloud",
			Name:      "resource_usage",
			Help:      "Last usage reading per resource and metric",
		}, []string{"name", "kind", "metric"}),
		Resources: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cloud",
			Name:      "resources",
			Help:      "Number of registered resources by status",
		}, []string{"status"}),
		ExportBatchesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cloud",
			Name:      "export_batches_total",
			Help:      "Total number of usage batches delivered to the collector",
		}),
		ExportFailuresTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cloud",
			Name:      "export_failures_total",
			Help:      "Total number of usage batches dropped after failed delivery",
		}),

		DeviceCommandsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "iot",
			Name:      "device_commands_total",
			Help:      "Total number of device control commands by outcome",
		}, []string{"device", "outcome"}),
		MotionEventsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "iot",
			Name:      "motion_events_total",
			Help:      "Total number of simulated motion events recorded",
		}),

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request durations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the registry in the Prometheus
// text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SetResourceCounts updates the resources-by-status gauge.
func (m *Metrics) SetResourceCounts(running, stopped int) {
	m.Resources.WithLabelValues("running").Set(float64(running))
	m.Resources.WithLabelValues("stopped").Set(float64(stopped))
}

// RecordUsage sets the usage gauge for one resource reading.
func (m *Metrics) RecordUsage(name, kind, metric string, value float64) {
	m.ResourceUsage.WithLabelValues(name, kind, metric).Set(value)
}

// ForgetResource removes the usage series of a deleted resource.
func (m *Metrics) ForgetResource(name string) {
	m.ResourceUsage.DeletePartialMatch(prometheus.Labels{"name": name})
}
