// Package http holds the dashboard's HTTP plumbing: middleware, metrics, health probes
// and the router that mounts the feed, paper and sources pages.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the outcome of one health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// breakerReporter is implemented by clients guarded by a circuit breaker.
type breakerReporter interface {
	BreakerOpen() bool
}

// HealthHandler reports the reachability of the FactNews API and the session store.
// An open API circuit breaker with a reachable API is reported as degraded.
type HealthHandler struct {
	API Pinger
	// Sessions is nil for the in-memory store.
	Sessions    Pinger
	RateLimiter *SessionRateLimiter
	Version     string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{}
	healthy := true

	api := h.checkAPI(ctx)
	checks["factnews_api"] = api
	if api.Status == statusUnhealthy {
		healthy = false
	}

	if h.Sessions != nil {
		store := checkPinger(ctx, h.Sessions)
		checks["session_store"] = store
		if store.Status == statusUnhealthy {
			healthy = false
		}
	} else {
		checks["session_store"] = CheckStatus{Status: statusHealthy, Message: "in-memory"}
	}

	if h.RateLimiter != nil {
		checks["rate_limiter"] = CheckStatus{
			Status:  statusHealthy,
			Details: map[string]any{"active_sessions": h.RateLimiter.Len()},
		}
	}

	resp := HealthResponse{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = statusUnhealthy
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

func (h *HealthHandler) checkAPI(ctx context.Context) CheckStatus {
	if h.API == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	st := checkPinger(ctx, h.API)
	if st.Status != statusHealthy {
		return st
	}
	if b, ok := h.API.(breakerReporter); ok && b.BreakerOpen() {
		return CheckStatus{Status: statusDegraded, Message: "circuit breaker open"}
	}
	return st
}

func checkPinger(ctx context.Context, p Pinger) CheckStatus {
	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		return CheckStatus{Status: statusUnhealthy, Message: err.Error()}
	}
	return CheckStatus{
		Status:  statusHealthy,
		Details: map[string]any{"latency_ms": time.Since(start).Milliseconds()},
	}
}

// ReadyHandler answers readiness probes. The dashboard is ready once the session store
// answers; the API may still be down, in which case the pages show connection notices.
type ReadyHandler struct {
	Sessions Pinger
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.Sessions != nil {
		if err := h.Sessions.Ping(ctx); err != nil {
			http.Error(w, "session store not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	writePlain(w, "ready")
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writePlain(w, "alive")
}

func writePlain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Default().Debug("probe: failed to write response", slog.Any("error", err))
	}
}
