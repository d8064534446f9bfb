package observability

import (
	"net/http"
	"strconv"
	"time"

	"supramolecular/application/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Bus metrics
	QueryDuration   *prometheus.HistogramVec
	QueryResults    *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	CommandErrors   *prometheus.CounterVec

	// Fit metrics
	Fits        *prometheus.CounterVec
	FitDuration *prometheus.HistogramVec
	FitsSaved   *prometheus.CounterVec

	// Data metrics
	DatasetsUploaded prometheus.Counter

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	// Anything not mapped above
	Other *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Query bus handler duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		QueryResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of queries by outcome",
			},
			[]string{"query", "outcome"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Command bus handler duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		CommandErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "command_errors_total",
				Help:      "Total number of failed commands",
			},
			[]string{"command"},
		),
		Fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fits_total",
				Help:      "Total number of optimisations by outcome",
			},
			[]string{"fitter", "outcome"},
		),
		FitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fit_duration_seconds",
				Help:      "Optimisation wall time in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"fitter"},
		),
		FitsSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fits_saved_total",
				Help:      "Total number of saved fits",
			},
			[]string{"fitter"},
		),
		DatasetsUploaded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "datasets_uploaded_total",
				Help:      "Total number of new datasets stored",
			},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Total number of query cache lookups by result",
			},
			[]string{"query", "result"},
		),
		Other: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Counters without a dedicated metric",
			},
			[]string{"metric", "label"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.QueryDuration,
		c.QueryResults,
		c.CommandDuration,
		c.CommandErrors,
		c.Fits,
		c.FitDuration,
		c.FitsSaved,
		c.DatasetsUploaded,
		c.CacheLookups,
		c.Other,
	)

	return c
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Increment increments the counter behind metric
func (c *Collector) Increment(metric, label string) {
	switch metric {
	case ports.MetricQueryCount:
		// queries_total is derived from the success and error outcomes
	case ports.MetricQuerySuccess:
		c.QueryResults.WithLabelValues(label, "success").Inc()
	case ports.MetricQueryErrors:
		c.QueryResults.WithLabelValues(label, "error").Inc()
	case ports.MetricCommandErrors:
		c.CommandErrors.WithLabelValues(label).Inc()
	case ports.MetricFitsTotal:
		c.Fits.WithLabelValues(label, "started").Inc()
	case ports.MetricFitsFailed:
		c.Fits.WithLabelValues(label, "failed").Inc()
	case ports.MetricFitsTimedOut:
		c.Fits.WithLabelValues(label, "timed_out").Inc()
	case ports.MetricFitsSaved:
		c.FitsSaved.WithLabelValues(label).Inc()
	case ports.MetricDatasetsUploaded:
		c.DatasetsUploaded.Inc()
	case ports.MetricCacheHits:
		c.CacheLookups.WithLabelValues(label, "hit").Inc()
	case ports.MetricCacheMisses:
		c.CacheLookups.WithLabelValues(label, "miss").Inc()
	default:
		c.Other.WithLabelValues(metric, label).Inc()
	}
}

// Observe records a duration against metric
func (c *Collector) Observe(metric, label string, d time.Duration) {
	switch metric {
	case ports.MetricQueryDuration:
		c.QueryDuration.WithLabelValues(label).Observe(d.Seconds())
	case ports.MetricCommandDuration:
		c.CommandDuration.WithLabelValues(label).Observe(d.Seconds())
	case ports.MetricFitDuration:
		c.FitDuration.WithLabelValues(label).Observe(d.Seconds())
	}
}

// StartTimer starts timing metric; Stop records the elapsed time
func (c *Collector) StartTimer(metric, label string) ports.Timer {
	return &timer{start: time.Now(), stop: func(d time.Duration) { c.Observe(metric, label, d) }}
}

type timer struct {
	start time.Time
	stop  func(time.Duration)
}

func (t *timer) Stop() {
	t.stop(time.Since(t.start))
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) StartTimer(metric, label string) ports.Timer   { return nopTimer{} }
func (NopMetrics) Increment(metric, label string)                {}
func (NopMetrics) Observe(metric, label string, d time.Duration) {}

type nopTimer struct{}

func (nopTimer) Stop() {}
