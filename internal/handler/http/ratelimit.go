package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"fact-news/internal/handler/http/pathutil"
	"fact-news/internal/handler/http/respond"
	"fact-news/internal/handler/http/sessionid"
)

var errRateLimited = errors.New("too many requests, slow down")

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SessionRateLimiter throttles state-changing requests per browser session.
// Safe methods pass through untouched unless their path was registered with Throttle.
type SessionRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time
	// 外部サイトを叩く GET
	paths map[string]struct{}
}

// NewSessionRateLimiter allows perSecond sustained requests with bursts of burst.
func NewSessionRateLimiter(perSecond float64, burst int) *SessionRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &SessionRateLimiter{
		entries: map[string]*limiterEntry{},
		paths:   map[string]struct{}{},
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
}

// Throttle makes requests to paths count against the limit whatever their method.
// It must be called before the middleware serves traffic.
func (l *SessionRateLimiter) Throttle(paths ...string) *SessionRateLimiter {
	for _, p := range paths {
		l.paths[p] = struct{}{}
	}
	return l
}

func (l *SessionRateLimiter) exempt(r *http.Request) bool {
	if _, ok := l.paths[r.URL.Path]; ok {
		return false
	}
	return r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions
}

// Middleware rejects mutating or throttled requests over the limit with 429.
func (l *SessionRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		if !l.allow(clientKey(r)) {
			httpRateLimitedTotal.WithLabelValues(pathutil.NormalizePath(r.URL.Path)).Inc()
			w.Header().Set("Retry-After", "1")
			respond.SafeError(w, http.StatusTooManyRequests, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *SessionRateLimiter) allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()
	return e.limiter.AllowN(now, 1)
}

// Cleanup forgets sessions idle for longer than idle and returns how many were removed.
func (l *SessionRateLimiter) Cleanup(idle time.Duration) int {
	cutoff := l.now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked sessions.
func (l *SessionRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (l *SessionRateLimiter) StartCleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped")
			return
		case <-ticker.C:
			removed := l.Cleanup(idle)
			slog.Debug("rate limit cleanup completed",
				slog.Int("sessions_removed", removed),
				slog.Int("sessions_active", l.Len()))
		}
	}
}

// clientKey is the session ID, or the peer address for requests without one.
func clientKey(r *http.Request) string {
	if id := sessionid.FromContext(r.Context()); id != "" {
		return "session:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "addr:" + r.RemoteAddr
	}
	return "addr:" + host
}
