package factnews_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fact-news/internal/domain/entity"
	"fact-news/internal/infra/factnews"
	"fact-news/internal/resilience/circuitbreaker"
)

// recordedRequest captures what the fake API received.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]interface{}
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
	if b, _ := io.ReadAll(r.Body); len(b) > 0 {
		_ = json.Unmarshal(b, &rec.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeAPI) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type metricsSpy struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *metricsSpy) RecordRequest(_, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request), opts ...factnews.Option) (*factnews.Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{handler: handler}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	opts = append([]factnews.Option{factnews.WithMetrics(factnews.NoopMetrics{})}, opts...)
	c, err := factnews.New(factnews.Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, opts...)
	require.NoError(t, err)
	return c, api
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	_, err := factnews.New(factnews.Config{BaseURL: "not a url"})
	assert.Error(t, err)

	c, err := factnews.New(factnews.Config{})
	require.NoError(t, err)
	assert.Equal(t, factnews.DefaultBaseURL, c.BaseURL())
}

func TestClient_ListSources(t *testing.T) {
	t.Parallel()

	c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": 1, "name": "Reuters", "root_url": "https://reuters.example", "creation_timestamp": "2024-01-01T00:00:00"},
			{"id": 2, "name": "AP", "root_url": "https://ap.example", "creation_timestamp": "2024-01-02T00:00:00"},
		})
	})

	sources, err := c.ListSources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "AP", sources[1].Name)
	assert.Equal(t, http.MethodGet, api.last().Method)
	assert.Equal(t, "/sources", api.last().Path)
}

func TestClient_ListSourcesNullBody(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "null")
	})

	sources, err := c.ListSources(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sources)
	assert.Empty(t, sources)
}

func TestClient_ListArticlesForwardsQuery(t *testing.T) {
	t.Parallel()

	c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"detail":[{"id":5,"source":2,"title":"A"}],"total":11}`)
	})

	query := url.Values{"time_period": {"week"}, "page": {"2"}, "page_size": {"6"}}
	listing, err := c.ListArticles(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, listing.Articles, 1)
	require.NotNil(t, listing.Total)
	assert.Equal(t, 11, *listing.Total)
	assert.Equal(t, query, api.last().Query)
}

func TestClient_AddAndRemoveSourcePayloads(t *testing.T) {
	t.Parallel()

	c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, c.AddSource(context.Background(), "https://news.example"))
	assert.Equal(t, "/add_source/", api.last().Path)
	assert.Equal(t, "https://news.example", api.last().Body["url"])

	require.NoError(t, c.RemoveSource(context.Background(), 9))
	assert.Equal(t, "/remove_source", api.last().Path)
	assert.Equal(t, float64(9), api.last().Body["id"])
}

func TestClient_RefreshSource(t *testing.T) {
	t.Parallel()

	c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"detail": "Updated 3 articles"})
	})

	msg, err := c.RefreshSource(context.Background(), "https://news.example")
	require.NoError(t, err)
	assert.Equal(t, "Updated 3 articles", msg)
	assert.Equal(t, "/update_articles_from_source/", api.last().Path)
}

func TestClient_FactCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantSummary *string
	}{
		{name: "detail only", body: `{"detail":"Fact checking has been successfully completed"}`},
		{name: "with summary", body: `{"fact_checked":true,"fact_summary":"All claims hold"}`, wantSummary: strPtr("All claims hold")},
		{name: "empty body", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})

			res, err := c.FactCheckArticle(context.Background(), 3)
			require.NoError(t, err)
			assert.True(t, res.Checked)
			assert.Equal(t, tt.wantSummary, res.Summary)
			assert.Equal(t, "/fact_check_article", api.last().Path)

			res, err = c.FactCheckPaper(context.Background(), 4)
			require.NoError(t, err)
			assert.True(t, res.Checked)
			assert.Equal(t, "/fact_check_paper", api.last().Path)
			assert.Equal(t, float64(4), api.last().Body["id"])
		})
	}
}

func TestClient_GetPaperNotFound(t *testing.T) {
	t.Parallel()

	c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Paper not found."})
	})

	_, err := c.GetPaper(context.Background(), time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrNotFound))
	assert.Equal(t, "2024-06-01", api.last().Query.Get("date"))

	var apiErr *factnews.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Paper not found.", apiErr.UserMessage())
}

func TestClient_GeneratePaper(t *testing.T) {
	t.Parallel()

	c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"detail": "Daily paper generated successfully.", "paper_id": 7})
	})

	require.NoError(t, c.GeneratePaper(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "/generate_paper", api.last().Path)
	assert.Equal(t, "2024-06-01", api.last().Body["date"])
}

func TestClient_APIErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		notFound    bool
	}{
		{name: "string detail", status: 400, body: `{"detail":"Source has already been added"}`, wantMessage: "Source has already been added"},
		{name: "raw text", status: 422, body: "Link format is not supported", wantMessage: "Link format is not supported"},
		{name: "validation list falls back to body", status: 422, body: `{"detail":[{"msg":"bad"}]}`, wantMessage: `{"detail":[{"msg":"bad"}]}`},
		{name: "not found", status: 404, body: `{"detail":"Source not found"}`, wantMessage: "Source not found", notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := c.AddSource(context.Background(), "https://x.example")
			var apiErr *factnews.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.UserMessage())
			assert.Equal(t, tt.notFound, errors.Is(err, entity.ErrNotFound))
			assert.False(t, factnews.IsTransport(err))
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c, err := factnews.New(factnews.Config{BaseURL: baseURL, Timeout: time.Second}, factnews.WithMetrics(factnews.NoopMetrics{}))
	require.NoError(t, err)

	_, err = c.ListSources(context.Background())
	require.Error(t, err)
	assert.True(t, factnews.IsTransport(err))

	var te *factnews.TransportError
	require.True(t, errors.As(err, &te))
	assert.True(t, te.Unreachable())
	assert.Error(t, c.Ping(context.Background()))
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	spy := &metricsSpy{}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"detail": not json`)
	}, factnews.WithMetrics(spy))

	_, err := c.ListArticles(context.Background(), nil)
	var decodeErr *factnews.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.False(t, factnews.IsTransport(err))
	assert.Equal(t, []string{"decode_error"}, spy.outcomes)
}

func TestClient_BreakerOpensOnServerErrorsOnly(t *testing.T) {
	t.Parallel()

	cfg := circuitbreaker.Config{
		Name:             "test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}

	t.Run("4xx leaves the circuit closed", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}, factnews.WithBreakerConfig(cfg))

		for i := 0; i < 5; i++ {
			_ = c.AddSource(context.Background(), "https://x.example")
		}
		assert.False(t, c.BreakerOpen())
	})

	t.Run("5xx trips and later calls are transport failures", func(t *testing.T) {
		spy := &metricsSpy{}
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, factnews.WithBreakerConfig(cfg), factnews.WithMetrics(spy))

		for i := 0; i < 2; i++ {
			_, _ = c.ListSources(context.Background())
		}
		require.True(t, c.BreakerOpen())

		_, err := c.ListSources(context.Background())
		assert.True(t, factnews.IsTransport(err))
		assert.Equal(t, []string{"server_error", "server_error", "transport_error"}, spy.outcomes)
	})
}

func TestClient_BaseURLWithPathPrefix(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{handler: func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[]")
	}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := factnews.New(factnews.Config{BaseURL: srv.URL + "/api/"}, factnews.WithMetrics(factnews.NoopMetrics{}))
	require.NoError(t, err)
	_, err = c.ListSources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/sources", api.last().Path)
}

func strPtr(s string) *string { return &s }
