// Package observability provides the logging, metrics and tracing used by the dashboards
// and the paper worker.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus counters for dashboard activity
//   - tracing: OpenTelemetry tracing integration
//
// Example usage:
//
//	import (
//	    "fact-news/internal/observability/logging"
//	    "fact-news/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordSwipe("advance")
//	}
package observability
