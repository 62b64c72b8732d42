// Package paper serves the daily paper page.
package paper

import (
	"net/http"

	"fact-news/internal/handler/http/dashboard"
	"fact-news/internal/handler/http/view"
	"fact-news/internal/infra/session"
	"fact-news/internal/usecase/notify"
	paperUC "fact-news/internal/usecase/paper"
)

const pagePath = "/papers"

// Handler serves the paper page and its actions.
type Handler struct {
	*dashboard.Base
	Svc *paperUC.Service
}

// Show renders the selected day's paper, generating it when the API has none yet.
// The paper is fetched again when the shown one is not for the selected day,
// including "today" after midnight, or when the last load failed.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	err := session.Exchange(r.Context(), h.Sessions, dashboard.SessionID(r),
		func(d *session.Data) (paperUC.LoadRequest, error) {
			now := h.Clock()
			if !d.Paper.NeedsLoad(now) {
				return paperUC.LoadRequest{}, session.ErrSkip
			}
			return d.Paper.BeginLoad(now), nil
		},
		h.Svc.Fetch,
		func(d *session.Data, res paperUC.LoadResult) {
			d.Paper.ApplyLoad(res, &d.Notices)
		},
	)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.Render(w, r, view.PagePapers, func(d *session.Data, p *view.Page) {
		p.Title = "Daily Papers"
		p.Paper = d.Paper
		p.PaperDate = d.Paper.DateValue(h.Clock())
	})
}

// SelectDate switches to the posted day. An empty date returns to today.
// The redirected page load fetches the new day.
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	if !h.ParseForm(w, r) {
		return
	}
	date := r.PostFormValue("date")
	err := h.Sessions.Update(r.Context(), dashboard.SessionID(r), func(d *session.Data) error {
		if _, err := d.Paper.SelectDate(date); err != nil {
			d.Notices.Push(notify.Error(notify.MsgInvalidDate))
		}
		return nil
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	dashboard.Done(w, r, pagePath)
}

// FactCheck fact-checks the shown paper. It is ignored when no unchecked paper is shown.
func (h *Handler) FactCheck(w http.ResponseWriter, r *http.Request) {
	err := session.Exchange(r.Context(), h.Sessions, dashboard.SessionID(r),
		func(d *session.Data) (paperUC.FactCheckRequest, error) {
			req, err := d.Paper.BeginFactCheck()
			if err != nil {
				return req, session.ErrSkip
			}
			return req, nil
		},
		h.Svc.FactCheck,
		func(d *session.Data, res paperUC.FactCheckResult) {
			d.Paper.ApplyFactCheck(res, &d.Notices)
		},
	)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	dashboard.Done(w, r, pagePath)
}
