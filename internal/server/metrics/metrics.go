// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/triptales/internal/server/proof"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Proof verdict outcomes used as label values.
const (
	OutcomeWithin       = "within_radius"
	OutcomeOutside      = "outside_radius"
	OutcomeUnverifiable = "unverifiable"
)

// MetricsCollector is what services and HTTP middleware report to.
type MetricsCollector interface {
	RecordItineraryCreated(v proof.Verdict)
	RecordItineraryEvicted()
	RecordStatusChange(status string)
	RecordLoginFailure()
	RecordHTTPRequest(method, route string, statusCode int, d time.Duration)
}

type Collector struct {
	created     *prometheus.CounterVec
	evicted     prometheus.Counter
	statusSet   *prometheus.CounterVec
	loginFailed prometheus.Counter
	httpTotal   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triptales_itineraries_created_total",
			Help: "Itineraries created, by proof verdict.",
		}, []string{"outcome"}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triptales_itineraries_evicted_total",
			Help: "Itineraries evicted to stay within capacity.",
		}),
		statusSet: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triptales_review_status_changes_total",
			Help: "Moderation status changes, by new status.",
		}, []string{"status"}),
		loginFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triptales_login_failures_total",
			Help: "Rejected login attempts.",
		}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triptales_http_requests_total",
			Help: "HTTP requests, by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triptales_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.created,
		c.evicted,
		c.statusSet,
		c.loginFailed,
		c.httpTotal,
		c.httpLatency,
	)

	return c
}

// Outcome classifies a verdict for labelling.
func Outcome(v proof.Verdict) string {
	switch {
	case !v.Available:
		return OutcomeUnverifiable
	case v.WithinRadius:
		return OutcomeWithin
	default:
		return OutcomeOutside
	}
}

func (c *Collector) RecordItineraryCreated(v proof.Verdict) {
	c.created.WithLabelValues(Outcome(v)).Inc()
}

func (c *Collector) RecordItineraryEvicted() {
	c.evicted.Inc()
}

func (c *Collector) RecordStatusChange(status string) {
	c.statusSet.WithLabelValues(status).Inc()
}

func (c *Collector) RecordLoginFailure() {
	c.loginFailed.Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, d time.Duration) {
	c.httpTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards all measurements.
type Nop struct{}

func (Nop) RecordItineraryCreated(proof.Verdict)                 {}
func (Nop) RecordItineraryEvicted()                              {}
func (Nop) RecordStatusChange(string)                            {}
func (Nop) RecordLoginFailure()                                  {}
func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
