// Package source serves the sources page: the paginated grid of registered sources
// with add, remove, refresh, swipe navigation and a feed preview endpoint.
package source

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fact-news/internal/domain/entity"
	"fact-news/internal/gesture"
	"fact-news/internal/handler/http/dashboard"
	"fact-news/internal/handler/http/pathutil"
	"fact-news/internal/handler/http/respond"
	"fact-news/internal/handler/http/view"
	"fact-news/internal/infra/feedprobe"
	"fact-news/internal/infra/session"
	srcUC "fact-news/internal/usecase/source"
)

const pagePath = "/sources"

// Handler serves the sources page and its actions.
type Handler struct {
	*dashboard.Base
	Svc *srcUC.Service
	// SwipeMinDistance is the horizontal travel in pixels a swipe needs.
	SwipeMinDistance float64
}

func (h *Handler) swipeMin() float64 {
	if h.SwipeMinDistance > 0 {
		return h.SwipeMinDistance
	}
	return gesture.DefaultMinDistance
}

// Show renders the grid, loading the sources first when this session holds no loaded list.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	err := session.Exchange(r.Context(), h.Sessions, dashboard.SessionID(r),
		func(d *session.Data) (srcUC.LoadRequest, error) {
			if d.Sources.Loaded {
				return srcUC.LoadRequest{}, session.ErrSkip
			}
			return d.Sources.BeginLoad(), nil
		},
		h.Svc.Fetch,
		func(d *session.Data, res srcUC.LoadResult) {
			d.Sources.ApplyLoad(res, &d.Notices)
		},
	)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.Render(w, r, view.PageSources, func(d *session.Data, p *view.Page) {
		p.Title = "Sources"
		p.Sources = d.Sources
		p.SwipeMinDistance = h.swipeMin()
	})
}

// Add registers the posted URL. On success the grid moves to its last page.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	if !h.ParseForm(w, r) {
		return
	}
	input := r.PostFormValue("url")
	err := session.Exchange(r.Context(), h.Sessions, dashboard.SessionID(r),
		func(d *session.Data) (srcUC.AddRequest, error) {
			d.Sources.SetInput(input)
			req, err := d.Sources.BeginAdd(&d.Notices)
			if err != nil {
				return req, session.ErrSkip
			}
			return req, nil
		},
		h.Svc.Add,
		func(d *session.Data, res srcUC.AddResult) {
			d.Sources.ApplyAdd(res, &d.Notices)
		},
	)
	h.finish(w, r, err)
}

// Remove deletes one source.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.formID(w, r)
	if !ok {
		return
	}
	err := session.Exchange(r.Context(), h.Sessions, dashboard.SessionID(r),
		func(d *session.Data) (srcUC.RemoveRequest, error) {
			req, err := d.Sources.BeginRemove(id)
			if err != nil {
				return req, session.ErrSkip
			}
			return req, nil
		},
		h.Svc.Remove,
		func(d *session.Data, res srcUC.RemoveResult) {
			d.Sources.ApplyRemove(res, &d.Notices)
		},
	)
	h.finish(w, r, err)
}

// Refresh asks the API to scrape new articles for one source.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := h.formID(w, r)
	if !ok {
		return
	}
	err := session.Exchange(r.Context(), h.Sessions, dashboard.SessionID(r),
		func(d *session.Data) (srcUC.RefreshRequest, error) {
			req, err := d.Sources.BeginRefresh(id)
			if err != nil {
				return req, session.ErrSkip
			}
			return req, nil
		},
		h.Svc.Refresh,
		func(d *session.Data, res srcUC.RefreshResult) {
			d.Sources.ApplyRefresh(res, &d.Notices)
		},
	)
	h.finish(w, r, err)
}

// Page jumps to the posted grid page. Out-of-range pages are ignored.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	if !h.ParseForm(w, r) {
		return
	}
	page, err := strconv.Atoi(r.PostFormValue("page"))
	if err != nil {
		h.BadRequest(w, r, fmt.Errorf("page: %w", err))
		return
	}
	h.move(w, r, func(st *srcUC.State) { st.GoTo(page) })
}

// Swipe classifies the posted pointer travel and pages the grid accordingly.
func (h *Handler) Swipe(w http.ResponseWriter, r *http.Request) {
	if !h.ParseForm(w, r) {
		return
	}
	startX, err := strconv.ParseFloat(r.PostFormValue("start_x"), 64)
	if err != nil {
		h.BadRequest(w, r, fmt.Errorf("start_x: %w", err))
		return
	}
	endX, err := strconv.ParseFloat(r.PostFormValue("end_x"), 64)
	if err != nil {
		h.BadRequest(w, r, fmt.Errorf("end_x: %w", err))
		return
	}
	dir := gesture.Classify(h.swipeMin(), startX, endX)
	h.move(w, r, func(st *srcUC.State) { st.Swipe(dir) })
}

// Preview reports the feed discovered behind ?url= as JSON without registering it.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.Svc.Preview(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		respond.SafeErrorV2(w, previewStatus(err), previewError(err))
		return
	}
	respond.JSON(w, http.StatusOK, preview)
}

func previewStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, feedprobe.ErrInvalidURL),
		errors.Is(err, feedprobe.ErrPrivateIP), errors.Is(err, feedprobe.ErrTooManyRedirects):
		return http.StatusBadRequest
	case errors.Is(err, feedprobe.ErrNoFeed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func previewError(err error) error {
	switch {
	case errors.Is(err, srcUC.ErrPreviewUnavailable):
		return respond.NewAppError(http.StatusServiceUnavailable, "feed preview is disabled", nil)
	case errors.Is(err, feedprobe.ErrNoFeed):
		return respond.NewAppError(http.StatusUnprocessableEntity, "no RSS or Atom feed found at that address", nil)
	case errors.Is(err, feedprobe.ErrPrivateIP):
		return respond.NewAppError(http.StatusBadRequest, "that address resolves to a private address", nil)
	case errors.Is(err, feedprobe.ErrTooManyRedirects):
		return respond.NewAppError(http.StatusBadRequest, "that address redirects too many times", nil)
	case previewStatus(err) == http.StatusBadGateway:
		return respond.NewAppError(http.StatusBadGateway, "the site could not be reached", err)
	default:
		return err
	}
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request, fn func(st *srcUC.State)) {
	err := h.Sessions.Update(r.Context(), dashboard.SessionID(r), func(d *session.Data) error {
		fn(d.Sources)
		return nil
	})
	h.finish(w, r, err)
}

func (h *Handler) formID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if !h.ParseForm(w, r) {
		return 0, false
	}
	id, err := pathutil.FormID(r, "id")
	if err != nil {
		h.BadRequest(w, r, err)
		return 0, false
	}
	return id, true
}

func (h *Handler) finish(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	dashboard.Done(w, r, pagePath)
}
