package http

import (
	"log/slog"
	"net/http"

	"fact-news/internal/handler/http/dashboard"
	hfeed "fact-news/internal/handler/http/feed"
	hpaper "fact-news/internal/handler/http/paper"
	"fact-news/internal/handler/http/requestid"
	"fact-news/internal/handler/http/sessionid"
	hsource "fact-news/internal/handler/http/source"
	"fact-news/internal/handler/http/view"
	"fact-news/internal/observability/tracing"
	feedUC "fact-news/internal/usecase/feed"
	paperUC "fact-news/internal/usecase/paper"
	srcUC "fact-news/internal/usecase/source"
	"fact-news/pkg/security/csp"
)

// RouterConfig wires the dashboard's pages and operational endpoints.
type RouterConfig struct {
	Logger *slog.Logger
	Base   *dashboard.Base

	Feed    *feedUC.Service
	Papers  *paperUC.Service
	Sources *srcUC.Service

	SwipeMinDistance float64
	Session          sessionid.Config
	// RateLimiter throttles form posts per session; nil disables throttling.
	RateLimiter  *SessionRateLimiter
	MaxBodyBytes int64

	Health *HealthHandler
	Ready  *ReadyHandler
}

// NewRouter returns the web dashboard's root handler.
// Middleware order: Request ID → Tracing → Recovery → Logging → Body Limit → CSP → Metrics.
// Pages additionally get a session cookie and, inside it, the per-session rate limit.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pages := http.NewServeMux()
	pages.Handle("GET    /{$}", http.RedirectHandler("/feed", http.StatusFound))
	hfeed.Register(pages, &hfeed.Handler{Base: cfg.Base, Svc: cfg.Feed})
	hpaper.Register(pages, &hpaper.Handler{Base: cfg.Base, Svc: cfg.Papers})
	hsource.Register(pages, &hsource.Handler{Base: cfg.Base, Svc: cfg.Sources, SwipeMinDistance: cfg.SwipeMinDistance})

	var dash http.Handler = pages
	if cfg.RateLimiter != nil {
		dash = cfg.RateLimiter.Middleware(dash)
	}
	dash = sessionid.Middleware(cfg.Session)(dash)

	health := cfg.Health
	if health == nil {
		health = &HealthHandler{RateLimiter: cfg.RateLimiter}
	}
	ready := cfg.Ready
	if ready == nil {
		ready = &ReadyHandler{}
	}

	root := http.NewServeMux()
	root.Handle("GET    /static/", view.Static())
	root.Handle("/health", health)
	root.Handle("/ready", ready)
	root.Handle("/live", LiveHandler{})
	root.Handle("/metrics", MetricsHandler())
	root.Handle("/", dash)

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	return Chain(root,
		requestid.Middleware,
		tracing.Middleware,
		Recover(logger),
		Logging(logger),
		LimitRequestBody(maxBody),
		SecurityHeaders(csp.DashboardPolicy(), map[string]*csp.Builder{
			"/health":          csp.StrictPolicy(),
			"/metrics":         csp.StrictPolicy(),
			"/sources/preview": csp.StrictPolicy(),
		}),
		MetricsMiddleware,
	)
}
