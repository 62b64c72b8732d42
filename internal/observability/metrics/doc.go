// Package metrics provides the Prometheus counters for dashboard activity.
//
// This package centralizes business metrics:
//   - Feed and paper loads, including stale results that were discarded
//   - Fact-check requests per target
//   - Source add/remove/refresh requests and swipe gestures
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "fact-news/internal/observability/metrics"
//
//	func factCheck(ctx context.Context, id int64) error {
//	    _, err := api.FactCheckArticle(ctx, id)
//	    metrics.RecordFactCheck("article", err == nil)
//	    return err
//	}
package metrics
