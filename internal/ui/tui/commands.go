package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	feedUC "fact-news/internal/usecase/feed"
	paperUC "fact-news/internal/usecase/paper"
	srcUC "fact-news/internal/usecase/source"
)

// run performs fetch off the event loop and wraps its result in a message.
func run[Req, Res any](ctx context.Context, req Req, fetch func(context.Context, Req) Res, wrap func(Res) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return wrap(fetch(ctx, req))
	}
}

func (m Model) loadFeed() tea.Cmd {
	return run(m.ctx, m.feed.BeginLoad(), m.svc.Feed.Fetch, func(res feedUC.LoadResult) tea.Msg {
		return feedLoadedMsg{res: res}
	})
}

func (m Model) loadPaper() tea.Cmd {
	return run(m.ctx, m.paper.BeginLoad(m.opts.Now()), m.svc.Papers.Fetch, func(res paperUC.LoadResult) tea.Msg {
		return paperLoadedMsg{res: res}
	})
}

func (m Model) loadSources() tea.Cmd {
	return run(m.ctx, m.sources.BeginLoad(), m.svc.Sources.Fetch, func(res srcUC.LoadResult) tea.Msg {
		return sourcesLoadedMsg{res: res}
	})
}

// factCheckArticle returns nil when the article is checked, pending or off-page.
func (m Model) factCheckArticle(id int64) tea.Cmd {
	req, err := m.feed.BeginFactCheck(id)
	if err != nil {
		return nil
	}
	return run(m.ctx, req, m.svc.Feed.FactCheck, func(res feedUC.FactCheckResult) tea.Msg {
		return articleCheckedMsg{res: res}
	})
}

// factCheckPaper returns nil when no paper is shown or it is already checked.
func (m Model) factCheckPaper() tea.Cmd {
	req, err := m.paper.BeginFactCheck()
	if err != nil {
		return nil
	}
	return run(m.ctx, req, m.svc.Papers.FactCheck, func(res paperUC.FactCheckResult) tea.Msg {
		return paperCheckedMsg{res: res}
	})
}

// addSource validates the URL field; a malformed URL raises its notice on m.
func (m *Model) addSource() tea.Cmd {
	m.sources.SetInput(m.url.Value())
	req, err := m.sources.BeginAdd(&m.notices)
	if err != nil {
		return nil
	}
	return run(m.ctx, req, m.svc.Sources.Add, func(res srcUC.AddResult) tea.Msg {
		return sourceAddedMsg{res: res}
	})
}

// previewSource probes the URL field; a malformed URL raises its notice on m.
func (m *Model) previewSource() tea.Cmd {
	m.sources.SetInput(m.url.Value())
	req, err := m.sources.BeginPreview(&m.notices)
	if err != nil {
		return nil
	}
	return run(m.ctx, req, m.svc.Sources.FetchPreview, func(res srcUC.PreviewResult) tea.Msg {
		return sourcePreviewedMsg{res: res}
	})
}

func (m Model) removeSource(id int64) tea.Cmd {
	req, err := m.sources.BeginRemove(id)
	if err != nil {
		return nil
	}
	return run(m.ctx, req, m.svc.Sources.Remove, func(res srcUC.RemoveResult) tea.Msg {
		return sourceRemovedMsg{res: res}
	})
}

func (m Model) refreshSource(id int64) tea.Cmd {
	req, err := m.sources.BeginRefresh(id)
	if err != nil {
		return nil
	}
	return run(m.ctx, req, m.svc.Sources.Refresh, func(res srcUC.RefreshResult) tea.Msg {
		return sourceRefreshedMsg{res: res}
	})
}

// expireNoticesAfter fires once the notice raised at "at" has timed out.
func expireNoticesAfter(ttl time.Duration, at time.Time) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return noticeExpiredMsg{at: at}
	})
}
