package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fact-news/internal/handler/http/pathutil"
	"fact-news/internal/handler/http/responsewriter"
)

// Labels: route is pathutil.NormalizePath, status the numeric code.
var (
	dashboardRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Dashboard HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	// Page renders are fast; form posts wait on the API and fact-checks take seconds.
	dashboardLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "Dashboard HTTP request latency by method and route",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	dashboardInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_http_requests_in_flight",
			Help: "Dashboard HTTP requests currently being served",
		},
	)

	// 303 はフォーム送信後のリダイレクト。ページ描画との比率を見るために分ける
	dashboardRedirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_redirects_total",
			Help: "Form posts answered with a redirect back to their page, by route",
		},
		[]string{"route"},
	)

	httpRateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_rate_limited_total",
			Help: "Requests rejected by the per-session rate limiter, by route",
		},
		[]string{"route"},
	)
)

// MetricsMiddleware records request count, latency and redirects per normalised route.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dashboardInFlight.Inc()
		defer dashboardInFlight.Dec()

		route := pathutil.NormalizePath(r.URL.Path)
		rw := responsewriter.Wrap(w)

		start := time.Now()
		next.ServeHTTP(rw, r)

		status := rw.StatusCode()
		dashboardRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		dashboardLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		if status == http.StatusSeeOther {
			dashboardRedirects.WithLabelValues(route).Inc()
		}
	})
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
