package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fact-news/internal/domain/entity"
	"fact-news/internal/usecase/feed"
	"fact-news/internal/usecase/notify"
	"fact-news/internal/usecase/paper"
	"fact-news/internal/usecase/source"
)

func strPtr(s string) *string { return &s }

func render(t *testing.T, name string, data Page) string {
	t.Helper()
	r, err := New()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.Render(w, httptest.NewRequest(http.MethodGet, "/"+name, nil), http.StatusOK, name, data)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	return w.Body.String()
}

func TestRender_Feed(t *testing.T) {
	st := feed.NewState(6)
	st.Sources = []entity.Source{{ID: 1, Name: "Wire"}}
	st.Articles = []entity.Article{
		{ID: 10, Title: "Budget passes", Source: entity.SourceRef{ID: 1}, Content: "Full budget text",
			PubDate: entity.NewTimestamp(time.Date(2025, 3, 4, 15, 7, 0, 0, time.UTC))},
		{ID: 11, Title: "Storm <warning>", Source: entity.SourceRef{ID: 9}, Description: strPtr("Coast alert"),
			FactChecked: true, FactSummary: strPtr("Accurate.")},
	}
	st.Total = 20
	st.Toggle(10)
	id := int64(1)
	st.SelectSource(&id)

	body := render(t, PageFeed, Page{
		Feed:    st,
		Periods: feed.Periods,
		Notices: []notify.Notice{notify.Success(notify.MsgArticleChecked)},
	})

	assert.Contains(t, body, "My News Feed")
	assert.Contains(t, body, "Full budget text", "expanded article shows its content")
	assert.Contains(t, body, "Show Less")
	assert.Contains(t, body, "Source: Unknown Source")
	assert.Contains(t, body, "Storm &lt;warning&gt;", "titles are escaped")
	assert.Contains(t, body, "Fact Check Summary")
	assert.Contains(t, body, "March 4, 2025 at 3:07 PM")
	assert.Contains(t, body, "Invalid date")
	assert.Contains(t, body, "Source: Wire", "active filter badge")
	assert.Contains(t, body, notify.MsgArticleChecked)
	assert.Contains(t, body, `aria-current="page"`)
}

func TestRender_FeedEmpty(t *testing.T) {
	body := render(t, PageFeed, Page{Feed: feed.NewState(6), Periods: feed.Periods})

	assert.Contains(t, body, "No articles found")
	assert.NotContains(t, body, `class="badges"`)
}

func TestRender_Papers(t *testing.T) {
	st := paper.NewState()
	_, err := st.SelectDate("2025-01-02")
	require.NoError(t, err)
	st.Paper = &entity.Paper{ID: 4, Content: ""}

	body := render(t, PagePapers, Page{Paper: st, PaperDate: "2025-01-02"})

	assert.Contains(t, body, "Paper ID: 4")
	assert.Contains(t, body, "No content available.")
	assert.Contains(t, body, "Clear Date")
	assert.Contains(t, body, "Date: Jan 2, 2025")

	body = render(t, PagePapers, Page{Paper: paper.NewState(), PaperDate: "2025-01-03"})
	assert.Contains(t, body, "No paper found")
}

func TestRender_SourcesGrid(t *testing.T) {
	st := source.NewState(6)
	for i := int64(1); i <= 8; i++ {
		st.Sources = append(st.Sources, entity.Source{ID: i, Name: "Source", RootURL: "https://example.com"})
	}
	st.Page = 2

	body := render(t, PageSources, Page{Sources: st, SwipeMinDistance: 50})

	assert.Contains(t, body, "My News Sources")
	assert.Contains(t, body, `data-swipe-min="50"`)
	assert.Contains(t, body, `aria-label="Go to page 2"`)
	assert.Contains(t, body, "swipe-form")
	// 2 sources on page 2, padded to 6 cells
	assert.Equal(t, 4, strings.Count(body, `source-card placeholder`))
}

func TestRender_SourcesEmpty(t *testing.T) {
	body := render(t, PageSources, Page{Sources: source.NewState(6)})
	assert.Contains(t, body, "No sources found. Add your first source above.")
}

func TestRenderError(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.RenderError(w, httptest.NewRequest(http.MethodGet, "/nope", nil), http.StatusNotFound, "Page not found.")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found.")
}

func TestStatic(t *testing.T) {
	w := httptest.NewRecorder()
	Static().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/dashboard.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".sidebar")
}

func TestStatic_Script(t *testing.T) {
	w := httptest.NewRecorder()
	Static().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/dashboard.js", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `getElementById("swipe-form")`)
	assert.Contains(t, body, `getElementById("preview-source")`)
}
