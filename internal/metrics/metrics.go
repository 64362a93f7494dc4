package metrics

import (
	"errors"
	"net/http"
	"time"

	"aptdeals/server/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aptdeals"

// Metrics groups the collectors the service exports. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	fetchRequests *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchedRows   *prometheus.CounterVec
	resolutions   *prometheus.CounterVec
	searches      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rtms_requests_total",
			Help:      "RTMS API calls by deal type and outcome.",
		}, []string{"deal_type", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rtms_request_duration_seconds",
			Help:      "Latency of single RTMS API pages.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"deal_type"}),
		fetchedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rtms_rows_total",
			Help:      "Raw transaction rows received from the RTMS API.",
		}, []string{"deal_type"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_resolutions_total",
			Help:      "Region lookups by outcome.",
		}, []string{"outcome"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Transaction searches by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.fetchRequests,
		m.fetchDuration,
		m.fetchedRows,
		m.resolutions,
		m.searches,
	)
	return m
}

// ObserveFetch records one API page request.
func (m *Metrics) ObserveFetch(dealType models.DealType, elapsed time.Duration, rows int, err error) {
	if m == nil {
		return
	}
	label := dealType.String()
	m.fetchDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if err != nil {
		m.fetchRequests.WithLabelValues(label, "error").Inc()
		return
	}
	m.fetchRequests.WithLabelValues(label, "ok").Inc()
	m.fetchedRows.WithLabelValues(label).Add(float64(rows))
}

func (m *Metrics) ObserveResolution(found bool, err error) {
	if m == nil {
		return
	}
	switch {
	case err != nil:
		m.resolutions.WithLabelValues("error").Inc()
	case found:
		m.resolutions.WithLabelValues("found").Inc()
	default:
		m.resolutions.WithLabelValues("not_found").Inc()
	}
}

// ObserveSearch classifies the outcome of a whole search.
func (m *Metrics) ObserveSearch(err error) {
	if m == nil {
		return
	}
	switch {
	case err == nil:
		m.searches.WithLabelValues("ok").Inc()
	case errors.Is(err, models.ErrInvalidQuery):
		m.searches.WithLabelValues("invalid").Inc()
	case errors.Is(err, models.ErrDataSourceUnavailable):
		m.searches.WithLabelValues("unavailable").Inc()
	default:
		m.searches.WithLabelValues("error").Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
