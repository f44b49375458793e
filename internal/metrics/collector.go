// Package metrics exposes Prometheus instruments for the generation pipeline.
// All methods are safe on a nil *Collector so components can run without one.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "interiorai"

// Collector owns a private registry and the pipeline instruments.
type Collector struct {
	registry *prometheus.Registry

	tierOutcomes     *prometheus.CounterVec
	tierDuration     *prometheus.HistogramVec
	pollAttempts     *prometheus.CounterVec
	versionLookups   *prometheus.CounterVec
	advisoryOutcomes *prometheus.CounterVec
	versionDrift     *prometheus.GaugeVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewCollector registers every instrument on a fresh registry together with
// the Go runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		tierOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_tier_total",
			Help:      "Provider chain tier attempts by outcome.",
		}, []string{"tier", "outcome"}),
		tierDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_tier_duration_seconds",
			Help:      "Wall time spent in each provider chain tier.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"tier"}),
		pollAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_poll_attempts_total",
			Help:      "Prediction status fetches by observed status.",
		}, []string{"model", "status"}),
		versionLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_version_lookups_total",
			Help:      "Version resolver results (hit, miss, error).",
		}, []string{"result"}),
		advisoryOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisory_stage_total",
			Help:      "Optional pre-generation stages by outcome.",
		}, []string{"stage", "outcome"}),
		versionDrift: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_version_drift",
			Help:      "1 when the registry's latest version differs from the pinned fallback.",
		}, []string{"model"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.tierOutcomes, c.tierDuration, c.pollAttempts, c.versionLookups,
		c.advisoryOutcomes, c.versionDrift, c.httpRequests, c.httpDuration,
	)
	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) ObserveTier(tier, outcome string, took time.Duration) {
	if c == nil {
		return
	}
	c.tierOutcomes.WithLabelValues(tier, outcome).Inc()
	c.tierDuration.WithLabelValues(tier).Observe(took.Seconds())
}

func (c *Collector) ObservePoll(model, status string) {
	if c == nil {
		return
	}
	if status == "" {
		status = "error"
	}
	c.pollAttempts.WithLabelValues(model, status).Inc()
}

func (c *Collector) ObserveVersionLookup(result string) {
	if c == nil {
		return
	}
	c.versionLookups.WithLabelValues(result).Inc()
}

func (c *Collector) ObserveAdvisory(stage string, ok bool) {
	if c == nil {
		return
	}
	outcome := "skipped"
	if ok {
		outcome = "used"
	}
	c.advisoryOutcomes.WithLabelValues(stage, outcome).Inc()
}

func (c *Collector) SetVersionDrift(model string, drifted bool) {
	if c == nil {
		return
	}
	v := 0.0
	if drifted {
		v = 1
	}
	c.versionDrift.WithLabelValues(model).Set(v)
}

func (c *Collector) ObserveHTTP(method, route string, status int, took time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
