package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is
// valid and records nothing, so tests can pass nil without touching the
// default registry twice.
type Metrics struct {
	PipelineRejections *prometheus.CounterVec
	RequestsAdmitted   prometheus.Counter
	AuthSuccesses      prometheus.Counter
	AuthFailures       prometheus.Counter
	RateLimitClients   prometheus.Gauge
	EndpointLatency    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PipelineRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "euromillones_pipeline_rejections_total",
			Help: "Requests rejected by the validation pipeline, labeled by stage",
		}, []string{"stage"}),
		RequestsAdmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "euromillones_requests_admitted_total",
			Help: "Requests that passed rate limit admission",
		}),
		AuthSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "euromillones_auth_successes_total",
			Help: "Successful Basic-Auth verifications",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "euromillones_auth_failures_total",
			Help: "Failed Basic-Auth verifications, all causes",
		}),
		RateLimitClients: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "euromillones_rate_limit_clients",
			Help: "Client addresses currently tracked by the rate limiter",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "euromillones_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// RejectStage counts a pipeline rejection for the given stage field.
func (m *Metrics) RejectStage(stage string) {
	if m == nil {
		return
	}
	m.PipelineRejections.WithLabelValues(stage).Inc()
}

// Admitted counts a request that cleared rate limiting.
func (m *Metrics) Admitted() {
	if m == nil {
		return
	}
	m.RequestsAdmitted.Inc()
}

// AuthSuccess counts a successful credential verification.
func (m *Metrics) AuthSuccess() {
	if m == nil {
		return
	}
	m.AuthSuccesses.Inc()
}

// AuthFailure counts a failed credential verification.
func (m *Metrics) AuthFailure() {
	if m == nil {
		return
	}
	m.AuthFailures.Inc()
}

// TrackedClients records the rate limiter's client map size.
func (m *Metrics) TrackedClients(n int) {
	if m == nil {
		return
	}
	m.RateLimitClients.Set(float64(n))
}

// ObserveEndpointLatency records a request duration for an endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(endpoint).Observe(seconds)
}
