// Package tracing provides OpenTelemetry tracing integration.
//
// The web dashboard wraps its mux with Middleware, and the FactNews API client opens a
// client span per call, so a slow page can be traced down to the upstream request.
//
// Example usage:
//
//	import "fact-news/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.Setup(0.1)
//	    defer shutdown(context.Background())
//	}
package tracing
