package factnews

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// apiRequestsTotal counts FactNews API calls by operation and outcome.
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "factnews_api_requests_total",
			Help: "Total number of FactNews API requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// apiRequestDuration measures FactNews API latency.
	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "factnews_api_request_duration_seconds",
			Help:    "FactNews API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)
)

// Outcome labels.
const (
	outcomeSuccess   = "success"
	outcomeTransport = "transport_error"
	outcomeClient    = "client_error"
	outcomeServer    = "server_error"
	outcomeDecode    = "decode_error"
)

// MetricsRecorder records per-call API metrics.
type MetricsRecorder interface {
	RecordRequest(operation, outcome string, duration time.Duration)
}

// PrometheusMetrics implements MetricsRecorder with the package collectors.
type PrometheusMetrics struct{}

// RecordRequest implements MetricsRecorder.
func (PrometheusMetrics) RecordRequest(operation, outcome string, duration time.Duration) {
	apiRequestsTotal.WithLabelValues(operation, outcome).Inc()
	apiRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// NoopMetrics discards all measurements.
type NoopMetrics struct{}

// RecordRequest implements MetricsRecorder.
func (NoopMetrics) RecordRequest(string, string, time.Duration) {}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	switch e := err.(type) {
	case *APIError:
		if e.ServerFault() {
			return outcomeServer
		}
		return outcomeClient
	case *DecodeError:
		return outcomeDecode
	default:
		return outcomeTransport
	}
}
