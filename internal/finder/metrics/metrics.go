package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the finder service.
type Metrics struct {
	Lookups         *prometheus.CounterVec
	Probes          *prometheus.CounterVec
	ProbeDuration   prometheus.Histogram
	Candidates      prometheus.Histogram
	CacheHits       prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on the given registerer so tests can use an
// isolated registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "emailfinder_lookups_total",
			Help: "Total lookups by outcome",
		}, []string{"outcome"}),
		Probes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "emailfinder_probes_total",
			Help: "Total mail-server probes by reported status",
		}, []string{"status"}),
		ProbeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "emailfinder_probe_duration_seconds",
			Help:    "Latency of individual mail-server probes",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Candidates: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "emailfinder_candidates_generated",
			Help:    "Number of candidate addresses generated per lookup",
			Buckets: []float64{10, 25, 50, 100, 200, 400},
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "emailfinder_catchall_cache_hits_total",
			Help: "Catch-all checks answered from the verdict cache",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "emailfinder_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// RecordLookup counts one finished lookup.
func (m *Metrics) RecordLookup(outcome string) {
	m.Lookups.WithLabelValues(outcome).Inc()
}

// RecordProbe counts one probe and its latency.
func (m *Metrics) RecordProbe(status string, seconds float64) {
	m.Probes.WithLabelValues(status).Inc()
	m.ProbeDuration.Observe(seconds)
}

// RecordCandidates tracks how many candidates one lookup generated.
func (m *Metrics) RecordCandidates(n int) {
	m.Candidates.Observe(float64(n))
}

// RecordCacheHit counts a catch-all check served from cache.
func (m *Metrics) RecordCacheHit() {
	m.CacheHits.Inc()
}

// ObserveRequestDuration satisfies the middleware latency observer.
func (m *Metrics) ObserveRequestDuration(method, path string, status int, seconds float64) {
	m.RequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(seconds)
}
