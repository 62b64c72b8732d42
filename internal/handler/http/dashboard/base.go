// Package dashboard holds what the feed, paper and sources pages share: session access,
// flash notices, form parsing and the POST-redirect-GET response.
package dashboard

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fact-news/internal/handler/http/respond"
	"fact-news/internal/handler/http/sessionid"
	"fact-news/internal/handler/http/view"
	"fact-news/internal/infra/session"
	"fact-news/internal/observability/logging"
	"fact-news/internal/usecase/notify"
)

// MsgSessionUnavailable is shown when session state cannot be loaded or saved.
const MsgSessionUnavailable = "Your session could not be loaded. Please try again."

// Base carries the dependencies every dashboard page handler needs.
type Base struct {
	Sessions  *session.Manager
	View      *view.Renderer
	NoticeTTL time.Duration
	Now       func() time.Time
}

// Clock returns the current time.
func (b *Base) Clock() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Base) noticeTTL() time.Duration {
	if b.NoticeTTL > 0 {
		return b.NoticeTTL
	}
	return notify.DefaultTTL
}

// SessionID returns the session the request belongs to.
func SessionID(r *http.Request) string {
	return sessionid.FromContext(r.Context())
}

// Render shows page name built from the session by fill. Pending notices are
// handed to the page once and then forgotten; expired ones are dropped unseen.
func (b *Base) Render(w http.ResponseWriter, r *http.Request, name string, fill func(d *session.Data, p *view.Page)) {
	var page view.Page
	err := b.Sessions.Update(r.Context(), SessionID(r), func(d *session.Data) error {
		d.Notices.Prune(b.Clock(), b.noticeTTL())
		page.Notices = d.Notices.Drain()
		fill(d, &page)
		return nil
	})
	if err != nil {
		b.Fail(w, r, err)
		return
	}
	b.View.Render(w, r, http.StatusOK, name, page)
}

// Fail reports a session storage failure.
func (b *Base) Fail(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("session update failed",
		slog.String("path", r.URL.Path),
		slog.String("error", respond.SanitizeError(err)))
	b.View.RenderError(w, r, http.StatusServiceUnavailable, MsgSessionUnavailable)
}

// ParseForm parses the posted form, answering with an error page when it is unreadable.
func (b *Base) ParseForm(w http.ResponseWriter, r *http.Request) bool {
	err := r.ParseForm()
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		b.View.RenderError(w, r, http.StatusRequestEntityTooLarge, "The submitted form is too large.")
		return false
	}
	b.View.RenderError(w, r, http.StatusBadRequest, "The submitted form could not be read.")
	return false
}

// BadRequest answers a form whose fields make no sense.
func (b *Base) BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Warn("rejected form", slog.String("path", r.URL.Path), slog.Any("error", err))
	b.View.RenderError(w, r, http.StatusBadRequest, "The submitted form is invalid.")
}

// Done finishes a POST by redirecting to target.
func Done(w http.ResponseWriter, r *http.Request, target string) {
	respond.SeeOther(w, r, target, "/")
}
