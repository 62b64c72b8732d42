package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"fact-news/internal/domain/entity"
	"fact-news/internal/gesture"
	feedUC "fact-news/internal/usecase/feed"
	"fact-news/internal/usecase/notify"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)

	// 新しい通知が出たら期限切れ用の tick を予約する
	if n := m.notices.Len(); n > 0 {
		newest := m.notices.Items[n-1].At
		if newest.After(m.expiryFor) {
			m.expiryFor = newest
			cmd = tea.Batch(cmd, expireNoticesAfter(m.opts.NoticeTTL, newest))
		}
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.focus != focusNone {
			return m.handleInputKey(msg)
		}
		return m.handleKeyPress(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case feedLoadedMsg:
		if m.feed.ApplyLoad(msg.res, &m.notices) {
			m.feedCursor = clamp(m.feedCursor, len(m.feed.Articles))
		}
	case articleCheckedMsg:
		m.feed.ApplyFactCheck(msg.res, &m.notices)
	case paperLoadedMsg:
		m.paper.ApplyLoad(msg.res, &m.notices)
	case paperCheckedMsg:
		m.paper.ApplyFactCheck(msg.res, &m.notices)
	case sourcesLoadedMsg:
		if m.sources.ApplyLoad(msg.res, &m.notices) {
			m.sourceCursor = clamp(m.sourceCursor, len(m.sources.Visible()))
		}
	case sourceAddedMsg:
		m.sources.ApplyAdd(msg.res, &m.notices)
		if msg.res.Err == nil {
			m.url.SetValue("")
			m.sourceCursor = 0
		}
	case sourceRemovedMsg:
		m.sources.ApplyRemove(msg.res, &m.notices)
		m.sourceCursor = clamp(m.sourceCursor, len(m.sources.Visible()))
	case sourceRefreshedMsg:
		m.sources.ApplyRefresh(msg.res, &m.notices)
	case sourcePreviewedMsg:
		m.sources.ApplyPreview(msg.res, &m.notices)
	case noticeExpiredMsg:
		m.notices.Prune(time.Now(), m.opts.NoticeTTL)
	}
	return m, nil
}

// handleKeyPress processes keyboard input outside the text fields
func (m Model) handleKeyPress(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTo((m.page + 1) % Page(len(pageNames)))
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTo((m.page + Page(len(pageNames)) - 1) % Page(len(pageNames)))
	case key.Matches(msg, m.keys.Feed):
		return m.switchTo(PageFeed)
	case key.Matches(msg, m.keys.Papers):
		return m.switchTo(PagePapers)
	case key.Matches(msg, m.keys.Sources):
		return m.switchTo(PageSources)
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	}

	switch m.page {
	case PagePapers:
		return m.handlePaperKey(msg)
	case PageSources:
		return m.handleSourcesKey(msg)
	default:
		return m.handleFeedKey(msg)
	}
}

// switchTo shows page p, loading it when it has nothing current to show.
func (m Model) switchTo(p Page) (Model, tea.Cmd) {
	m.page = p
	switch p {
	case PagePapers:
		if m.paper.NeedsLoad(m.opts.Now()) {
			return m, m.loadPaper()
		}
	case PageSources:
		if !m.sources.Loaded && !m.sources.Loading {
			return m, m.loadSources()
		}
	default:
		if !m.feed.Loaded && !m.feed.Loading {
			return m, m.loadFeed()
		}
	}
	return m, nil
}

func (m Model) reload() tea.Cmd {
	switch m.page {
	case PagePapers:
		return m.loadPaper()
	case PageSources:
		return m.loadSources()
	default:
		return m.loadFeed()
	}
}

func (m Model) handleFeedKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	st := m.feed
	switch {
	case key.Matches(msg, m.keys.Up):
		m.feedCursor = clamp(m.feedCursor-1, len(st.Articles))
	case key.Matches(msg, m.keys.Down):
		m.feedCursor = clamp(m.feedCursor+1, len(st.Articles))
	case key.Matches(msg, m.keys.Toggle):
		if a, ok := m.selectedArticle(); ok {
			st.Toggle(a.ID)
		}
	case key.Matches(msg, m.keys.FactCheck):
		if a, ok := m.selectedArticle(); ok {
			return m, m.factCheckArticle(a.ID)
		}
	case key.Matches(msg, m.keys.Search):
		m.search.SetValue(st.SearchInput)
		return m.focusOn(focusSearch)
	case key.Matches(msg, m.keys.Date):
		m.feedDate.SetValue(st.Filter.Date)
		return m.focusOn(focusFeedDate)
	case key.Matches(msg, m.keys.Source):
		return m.refetchFeedIf(st.SelectSource(nextSource(st)))
	case key.Matches(msg, m.keys.Period):
		return m.refetchFeedIf(st.SelectPeriod(nextPeriod(st.Filter.Period)))
	case key.Matches(msg, m.keys.Reset):
		m.search.SetValue("")
		m.feedDate.SetValue("")
		return m.refetchFeedIf(st.Reset())
	case key.Matches(msg, m.keys.PrevPage):
		return m.refetchFeedIf(st.GoToPage(st.Filter.Page - 1))
	case key.Matches(msg, m.keys.NextPage):
		return m.refetchFeedIf(st.GoToPage(st.Filter.Page + 1))
	}
	return m, nil
}

func (m Model) refetchFeedIf(changed bool) (Model, tea.Cmd) {
	if !changed {
		return m, nil
	}
	m.feedCursor = 0
	return m, m.loadFeed()
}

func (m Model) handlePaperKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Date):
		m.paperDate.SetValue(m.paper.DateValue(m.opts.Now()))
		return m.focusOn(focusPaperDate)
	case key.Matches(msg, m.keys.Clear):
		if changed, _ := m.paper.SelectDate(""); changed {
			return m, m.loadPaper()
		}
	case key.Matches(msg, m.keys.FactCheck):
		return m, m.factCheckPaper()
	}
	return m, nil
}

func (m Model) handleSourcesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	st := m.sources
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sourceCursor = clamp(m.sourceCursor-gridColumns, len(st.Visible()))
	case key.Matches(msg, m.keys.Down):
		m.sourceCursor = clamp(m.sourceCursor+gridColumns, len(st.Visible()))
	case key.Matches(msg, m.keys.PrevPage):
		if m.sourceCursor%gridColumns > 0 {
			m.sourceCursor--
		} else if st.Prev() {
			m.sourceCursor = 0
		}
	case key.Matches(msg, m.keys.NextPage):
		if m.sourceCursor%gridColumns < gridColumns-1 && m.sourceCursor+1 < len(st.Visible()) {
			m.sourceCursor++
		} else if st.Next() {
			m.sourceCursor = 0
		}
	case key.Matches(msg, m.keys.Add):
		return m.focusOn(focusURL)
	case key.Matches(msg, m.keys.Preview):
		cmd := m.previewSource()
		return m, cmd
	case key.Matches(msg, m.keys.Remove):
		if src, ok := m.selectedSource(); ok {
			return m, m.removeSource(src.ID)
		}
	case key.Matches(msg, m.keys.Refresh):
		if src, ok := m.selectedSource(); ok {
			return m, m.refreshSource(src.ID)
		}
	}
	return m, nil
}

func (m Model) focusOn(f focus) (Model, tea.Cmd) {
	m.focus = f
	cmd := m.input(f).Focus()
	return m, cmd
}

// input returns the text field for f.
func (m *Model) input(f focus) *textinput.Model {
	switch f {
	case focusSearch:
		return &m.search
	case focusFeedDate:
		return &m.feedDate
	case focusPaperDate:
		return &m.paperDate
	default:
		return &m.url
	}
}

// handleInputKey routes keys to the focused text field. Enter applies it, Esc leaves it.
func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	f := m.focus
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.blur()
		return m.submit(f)
	}

	var cmd tea.Cmd
	in := m.input(f)
	*in, cmd = in.Update(msg)
	if f == focusSearch {
		m.feed.SetSearchInput(m.search.Value())
	}
	return m, cmd
}

func (m *Model) blur() {
	m.input(m.focus).Blur()
	m.focus = focusNone
}

func (m Model) submit(f focus) (Model, tea.Cmd) {
	switch f {
	case focusSearch:
		m.feed.SetSearchInput(m.search.Value())
		return m.refetchFeedIf(m.feed.SubmitSearch())
	case focusFeedDate:
		changed, err := m.feed.SelectDate(m.feedDate.Value())
		if err != nil {
			m.notices.Push(notify.Error(notify.MsgInvalidDate))
			return m, nil
		}
		return m.refetchFeedIf(changed)
	case focusPaperDate:
		if _, err := m.paper.SelectDate(m.paperDate.Value()); err != nil {
			m.notices.Push(notify.Error(notify.MsgInvalidDate))
			return m, nil
		}
		if m.paper.NeedsLoad(m.opts.Now()) {
			return m, m.loadPaper()
		}
	case focusURL:
		cmd := m.addSource()
		return m, cmd
	}
	return m, nil
}

// handleMouse turns left-button drags on the sources grid into page swipes.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.page != PageSources {
		m.swipe.Leave()
		return m
	}
	x := float64(msg.X)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.swipe.Start(x)
		}
	case tea.MouseActionMotion:
		m.swipe.Move(x)
	case tea.MouseActionRelease:
		m.swipe.Move(x)
		if dir := m.swipe.End(); dir != gesture.None && m.sources.Swipe(dir) {
			m.sourceCursor = 0
		}
	}
	return m
}

func (m Model) selectedArticle() (entity.Article, bool) {
	if m.feedCursor < 0 || m.feedCursor >= len(m.feed.Articles) {
		return entity.Article{}, false
	}
	return m.feed.Articles[m.feedCursor], true
}

func (m Model) selectedSource() (entity.Source, bool) {
	visible := m.sources.Visible()
	if m.sourceCursor < 0 || m.sourceCursor >= len(visible) {
		return entity.Source{}, false
	}
	return visible[m.sourceCursor], true
}

// nextSource cycles the source filter: all sources, then each loaded source in order.
func nextSource(st *feedUC.State) *int64 {
	if len(st.Sources) == 0 {
		return nil
	}
	if st.Filter.SourceID == nil {
		return &st.Sources[0].ID
	}
	for i, src := range st.Sources {
		if src.ID == *st.Filter.SourceID && i+1 < len(st.Sources) {
			return &st.Sources[i+1].ID
		}
	}
	return nil
}

func nextPeriod(p feedUC.Period) feedUC.Period {
	for i, known := range feedUC.Periods {
		if known == p {
			return feedUC.Periods[(i+1)%len(feedUC.Periods)]
		}
	}
	return feedUC.PeriodAll
}

// clamp keeps a cursor inside [0, n).
func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
