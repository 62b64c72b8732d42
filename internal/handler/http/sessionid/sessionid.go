// Package sessionid assigns every browser a session cookie whose value keys the
// server-held view state.
package sessionid

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultCookieName is the cookie carrying the session ID.
const DefaultCookieName = "factnews_session"

// Config configures the session cookie.
type Config struct {
	CookieName string
	// TTL is the cookie lifetime; it should match the session store TTL.
	TTL    time.Duration
	Secure bool
}

type contextKey struct{}

// FromContext returns the session ID, or "" outside the middleware.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// WithID stores id in ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// Middleware reads the session cookie, issuing a new UUID when it is missing or
// malformed, and refreshes the cookie on every response.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(name); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			cookie := &http.Cookie{
				Name:     name,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			}
			if cfg.TTL > 0 {
				cookie.MaxAge = int(cfg.TTL / time.Second)
			}
			http.SetCookie(w, cookie)

			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}
