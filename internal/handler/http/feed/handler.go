// Package feed serves the article feed page.
package feed

import (
	"fmt"
	"net/http"
	"strconv"

	"fact-news/internal/handler/http/dashboard"
	"fact-news/internal/handler/http/pathutil"
	"fact-news/internal/handler/http/view"
	"fact-news/internal/infra/session"
	feedUC "fact-news/internal/usecase/feed"
	"fact-news/internal/usecase/notify"
)

const pagePath = "/feed"

// Handler serves the feed page and its actions.
type Handler struct {
	*dashboard.Base
	Svc *feedUC.Service
}

func (h *Handler) load(d *session.Data) (feedUC.LoadRequest, error) {
	return d.Feed.BeginLoad(), nil
}

func (h *Handler) applyLoad(d *session.Data, res feedUC.LoadResult) {
	d.Feed.ApplyLoad(res, &d.Notices)
}

// reload applies change to the feed state and refetches when it altered the filter.
func (h *Handler) reload(w http.ResponseWriter, r *http.Request, change func(d *session.Data) bool) {
	err := session.Exchange(r.Context(), h.Sessions, dashboard.SessionID(r),
		func(d *session.Data) (feedUC.LoadRequest, error) {
			if !change(d) {
				return feedUC.LoadRequest{}, session.ErrSkip
			}
			return h.load(d)
		},
		h.Svc.Fetch,
		h.applyLoad,
	)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	dashboard.Done(w, r, pagePath)
}

// Show renders the feed, loading it first when this session has never done so.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	err := session.Exchange(r.Context(), h.Sessions, dashboard.SessionID(r),
		func(d *session.Data) (feedUC.LoadRequest, error) {
			if d.Feed.Loaded {
				return feedUC.LoadRequest{}, session.ErrSkip
			}
			return h.load(d)
		},
		h.Svc.Fetch,
		h.applyLoad,
	)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.Render(w, r, view.PageFeed, func(d *session.Data, p *view.Page) {
		p.Title = "My News Feed"
		p.Feed = d.Feed
		p.Periods = feedUC.Periods
	})
}

// Search applies the submitted search term.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if !h.ParseForm(w, r) {
		return
	}
	term := r.PostFormValue("search")
	h.reload(w, r, func(d *session.Data) bool {
		d.Feed.SetSearchInput(term)
		return d.Feed.SubmitSearch()
	})
}

// Filter applies the source, date and period selectors.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	if !h.ParseForm(w, r) {
		return
	}
	sourceID, err := pathutil.OptionalFormID(r, "source_id")
	if err != nil {
		h.BadRequest(w, r, fmt.Errorf("source_id: %w", err))
		return
	}
	date := r.PostFormValue("date")
	var (
		period    feedUC.Period
		hasPeriod bool
	)
	if raw := r.PostFormValue("period"); raw != "" {
		if period, err = feedUC.ParsePeriod(raw); err != nil {
			h.BadRequest(w, r, err)
			return
		}
		hasPeriod = true
	}

	h.reload(w, r, func(d *session.Data) bool {
		changed := d.Feed.SelectSource(sourceID)
		dateChanged, err := d.Feed.SelectDate(date)
		if err != nil {
			d.Notices.Push(notify.Error(notify.MsgInvalidDate))
		}
		changed = changed || dateChanged
		if hasPeriod && d.Feed.SelectPeriod(period) {
			changed = true
		}
		return changed
	})
}

// Reset restores the default filter.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.reload(w, r, func(d *session.Data) bool {
		return d.Feed.Reset()
	})
}

// Page moves to the submitted page number.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	if !h.ParseForm(w, r) {
		return
	}
	page, err := strconv.Atoi(r.PostFormValue("page"))
	if err != nil {
		h.BadRequest(w, r, fmt.Errorf("page: %w", err))
		return
	}
	h.reload(w, r, func(d *session.Data) bool {
		return d.Feed.GoToPage(page)
	})
}

// Toggle expands or collapses one article.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	if !h.ParseForm(w, r) {
		return
	}
	id, err := pathutil.FormID(r, "id")
	if err != nil {
		h.BadRequest(w, r, err)
		return
	}
	err = h.Sessions.Update(r.Context(), dashboard.SessionID(r), func(d *session.Data) error {
		d.Feed.Toggle(id)
		return nil
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	dashboard.Done(w, r, articleAnchor(id))
}

// FactCheck fact-checks one visible article and updates it in place.
// Requests for checked, pending or off-page articles are ignored.
func (h *Handler) FactCheck(w http.ResponseWriter, r *http.Request) {
	if !h.ParseForm(w, r) {
		return
	}
	id, err := pathutil.FormID(r, "id")
	if err != nil {
		h.BadRequest(w, r, err)
		return
	}
	err = session.Exchange(r.Context(), h.Sessions, dashboard.SessionID(r),
		func(d *session.Data) (feedUC.FactCheckRequest, error) {
			req, err := d.Feed.BeginFactCheck(id)
			if err != nil {
				return req, session.ErrSkip
			}
			return req, nil
		},
		h.Svc.FactCheck,
		func(d *session.Data, res feedUC.FactCheckResult) {
			d.Feed.ApplyFactCheck(res, &d.Notices)
		},
	)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	dashboard.Done(w, r, articleAnchor(id))
}

func articleAnchor(id int64) string {
	return pagePath + "#article-" + strconv.FormatInt(id, 10)
}
