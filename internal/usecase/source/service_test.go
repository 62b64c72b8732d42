package source_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fact-news/internal/domain/entity"
	"fact-news/internal/gesture"
	"fact-news/internal/infra/factnews"
	"fact-news/internal/usecase/notify"
	"fact-news/internal/usecase/source"
)

/*────────────────────  スタブ  ────────────────────*/

type stubRepo struct {
	sources   []entity.Source
	listErr   error
	addErr    error
	removeErr error
	// listErrAfterAdd fails the refetch that follows a successful add.
	listErrAfterAdd bool
	refreshDetail   string
	refreshErr      error

	added     []string
	removed   []int64
	refreshed []string
}

func (r *stubRepo) ListSources(context.Context) ([]entity.Source, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	if r.listErrAfterAdd && len(r.added) > 0 {
		return nil, errors.New("refetch failed")
	}
	return append([]entity.Source(nil), r.sources...), nil
}

func (r *stubRepo) AddSource(_ context.Context, rawURL string) error {
	r.added = append(r.added, rawURL)
	if r.addErr != nil {
		return r.addErr
	}
	r.sources = append(r.sources, entity.Source{ID: int64(len(r.sources) + 100), Name: "new", RootURL: rawURL})
	return nil
}

func (r *stubRepo) RemoveSource(_ context.Context, id int64) error {
	r.removed = append(r.removed, id)
	return r.removeErr
}

func (r *stubRepo) RefreshSource(_ context.Context, rawURL string) (string, error) {
	r.refreshed = append(r.refreshed, rawURL)
	return r.refreshDetail, r.refreshErr
}

type stubProber struct {
	preview entity.FeedPreview
	err     error
}

func (p stubProber) Probe(context.Context, string) (entity.FeedPreview, error) {
	return p.preview, p.err
}

func makeSources(n int) []entity.Source {
	out := make([]entity.Source, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, entity.Source{ID: int64(i), Name: fmt.Sprintf("s%d", i), RootURL: fmt.Sprintf("https://s%d.example", i)})
	}
	return out
}

func loaded(t *testing.T, repo *stubRepo) (*source.Service, *source.State, *notify.Queue) {
	t.Helper()
	svc := &source.Service{Repo: repo}
	st := source.NewState(6)
	q := &notify.Queue{}
	svc.Load(context.Background(), st, q)
	require.Zero(t, q.Len())
	return svc, st, q
}

/*────────────────────  tests  ────────────────────*/

func TestService_LoadFailureLeavesEmptyCollection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantNotice string
	}{
		{name: "transport", err: &factnews.TransportError{Op: "list_sources", Err: errors.New("dial")}, wantNotice: notify.MsgConnection},
		{name: "server detail", err: &factnews.APIError{Status: 500, Detail: "db down"}, wantNotice: "db down"},
		{name: "decode", err: &factnews.DecodeError{Op: "list_sources", Err: errors.New("bad json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &source.Service{Repo: &stubRepo{listErr: tt.err}}
			st := source.NewState(6)
			st.Sources = makeSources(3)
			var q notify.Queue

			svc.Load(context.Background(), st, &q)

			assert.Empty(t, st.Sources)
			assert.False(t, st.Loaded, "a failed load is retried on the next visit")
			assert.False(t, st.Loading)
			assert.Equal(t, 1, st.TotalPages())
			assert.Zero(t, st.Placeholders())
			if tt.wantNotice == "" {
				assert.Zero(t, q.Len())
				return
			}
			require.Equal(t, 1, q.Len())
			assert.Equal(t, tt.wantNotice, q.Items[0].Text)
		})
	}
}

func TestState_Paging(t *testing.T) {
	t.Parallel()

	_, st, _ := loaded(t, &stubRepo{sources: makeSources(14)})

	assert.Equal(t, 3, st.TotalPages())
	assert.Len(t, st.Visible(), 6)
	assert.Zero(t, st.Placeholders())
	assert.False(t, st.HasPrev())

	assert.False(t, st.GoTo(0))
	assert.False(t, st.GoTo(4))
	assert.Equal(t, 1, st.Page)

	assert.True(t, st.GoTo(3))
	assert.Len(t, st.Visible(), 2)
	assert.Equal(t, 4, st.Placeholders())
}

func TestState_PlaceholdersFollowPageSize(t *testing.T) {
	t.Parallel()

	st := source.NewState(4)
	assert.Zero(t, st.Placeholders())

	st.Sources = makeSources(5)
	assert.Zero(t, st.Placeholders())
	require.True(t, st.GoTo(2))
	assert.Equal(t, 3, st.Placeholders())
	assert.False(t, st.Next())
	assert.True(t, st.Prev())
	assert.Equal(t, 2, st.Page)
}

func TestState_Swipe(t *testing.T) {
	t.Parallel()

	_, st, _ := loaded(t, &stubRepo{sources: makeSources(13)})

	assert.False(t, st.Swipe(gesture.Retreat), "no page before the first")
	assert.True(t, st.Swipe(gesture.Advance))
	assert.True(t, st.Swipe(gesture.Advance))
	assert.False(t, st.Swipe(gesture.Advance), "no page after the last")
	assert.False(t, st.Swipe(gesture.None))
	assert.Equal(t, 3, st.Page)
	assert.True(t, st.Swipe(gesture.Retreat))
	assert.Equal(t, 2, st.Page)
}

func TestService_AddGoesToLastPage(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{sources: makeSources(6)}
	svc, st, q := loaded(t, repo)
	st.SetInput("  https://new.example/  ")

	require.NoError(t, svc.RunAdd(context.Background(), st, q))

	assert.Equal(t, []string{"https://new.example/"}, repo.added)
	assert.Len(t, st.Sources, 7)
	assert.Equal(t, 2, st.Page)
	assert.Empty(t, st.Input)
	assert.False(t, st.Adding)
	require.Equal(t, 1, q.Len())
	assert.Equal(t, notify.MsgSourceAdded, q.Items[0].Text)
	assert.Equal(t, notify.LevelSuccess, q.Items[0].Level)
}

func TestService_AddRefetchFailureIsOnlyLogged(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{sources: makeSources(13), listErrAfterAdd: true}
	svc, st, q := loaded(t, repo)
	st.SetInput("https://new.example")

	require.NoError(t, svc.RunAdd(context.Background(), st, q))

	assert.Len(t, st.Sources, 13, "local list untouched")
	assert.Equal(t, 1, st.Page, "the page only moves after a successful refetch")
	assert.Empty(t, st.Input)
	require.Equal(t, 1, q.Len())
	assert.Equal(t, notify.MsgSourceAdded, q.Items[0].Text)
}

func TestService_AddInputChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantErr    error
		wantNotice bool
	}{
		{name: "blank ignored", input: "   ", wantErr: source.ErrEmptyInput},
		{name: "bad scheme", input: "ftp://x.example", wantErr: entity.ErrInvalidInput, wantNotice: true},
		{name: "no host", input: "https://", wantErr: entity.ErrInvalidInput, wantNotice: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepo{}
			svc := &source.Service{Repo: repo}
			st := source.NewState(6)
			st.SetInput(tt.input)
			var q notify.Queue

			err := svc.RunAdd(context.Background(), st, &q)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.added)
			assert.Equal(t, tt.input, st.Input)
			if tt.wantNotice {
				require.Equal(t, 1, q.Len())
				assert.Equal(t, notify.MsgSourceURLRequired, q.Items[0].Text)
			} else {
				assert.Zero(t, q.Len())
			}
		})
	}
}

func TestService_AddFailureNotices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantNotice string
	}{
		{name: "server detail", err: &factnews.APIError{Status: 400, Detail: "Source already exists"}, wantNotice: "Source already exists"},
		{name: "raw body", err: &factnews.APIError{Status: 502, Body: "Bad Gateway\n"}, wantNotice: "Bad Gateway"},
		{name: "transport", err: &factnews.TransportError{Op: "add_source", Err: context.DeadlineExceeded}, wantNotice: notify.MsgConnection},
		{name: "other", err: errors.New("weird")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &source.Service{Repo: &stubRepo{addErr: tt.err}}
			st := source.NewState(6)
			st.SetInput("https://x.example")
			var q notify.Queue

			require.NoError(t, svc.RunAdd(context.Background(), st, &q))

			assert.Equal(t, "https://x.example", st.Input, "input kept for correction")
			assert.False(t, st.Adding)
			if tt.wantNotice == "" {
				assert.Zero(t, q.Len())
				return
			}
			require.Equal(t, 1, q.Len())
			assert.Equal(t, tt.wantNotice, q.Items[0].Text)
			assert.Equal(t, notify.LevelError, q.Items[0].Level)
		})
	}
}

func TestService_RemoveLastItemOnLastPageClamps(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{sources: makeSources(7)}
	svc, st, q := loaded(t, repo)
	require.True(t, st.GoTo(2))

	require.NoError(t, svc.RunRemove(context.Background(), st, 7, q))

	assert.Equal(t, []int64{7}, repo.removed)
	assert.Len(t, st.Sources, 6)
	assert.Equal(t, 1, st.Page)
	assert.Zero(t, st.RemovingID)
	require.Equal(t, 1, q.Len())
	assert.Equal(t, notify.MsgSourceRemoved, q.Items[0].Text)
}

func TestService_RemoveOnlySource(t *testing.T) {
	t.Parallel()

	svc, st, q := loaded(t, &stubRepo{sources: makeSources(1)})

	require.NoError(t, svc.RunRemove(context.Background(), st, 1, q))
	assert.Empty(t, st.Sources)
	assert.Equal(t, 1, st.Page)
	assert.Zero(t, st.Placeholders(), "an empty grid renders no placeholder cells")
}

func TestService_RemoveFailureKeepsSource(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{sources: makeSources(3), removeErr: &factnews.APIError{Status: 404, Detail: "Source not found"}}
	svc, st, q := loaded(t, repo)

	require.NoError(t, svc.RunRemove(context.Background(), st, 2, q))
	assert.Len(t, st.Sources, 3)
	require.Equal(t, 1, q.Len())
	assert.Equal(t, "Source not found", q.Items[0].Text)

	assert.ErrorIs(t, svc.RunRemove(context.Background(), st, 42, q), source.ErrSourceNotFound)
}

func TestState_RemovePending(t *testing.T) {
	t.Parallel()

	st := source.NewState(6)
	st.Sources = makeSources(2)

	_, err := st.BeginRemove(1)
	require.NoError(t, err)
	_, err = st.BeginRemove(2)
	assert.ErrorIs(t, err, source.ErrRemovePending)
}

func TestService_Refresh(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{sources: makeSources(2), refreshDetail: "Updated 4 articles"}
	svc, st, q := loaded(t, repo)

	require.NoError(t, svc.RunRefresh(context.Background(), st, 2, q))
	assert.Equal(t, []string{"https://s2.example"}, repo.refreshed)
	require.Equal(t, 1, q.Len())
	assert.Equal(t, notify.LevelInfo, q.Items[0].Level)
	assert.Equal(t, "Updated 4 articles", q.Items[0].Text)
}

func TestService_Preview(t *testing.T) {
	t.Parallel()

	svc := &source.Service{Repo: &stubRepo{}}
	_, err := svc.Preview(context.Background(), "https://x.example")
	assert.ErrorIs(t, err, source.ErrPreviewUnavailable)

	want := entity.FeedPreview{URL: "https://x.example", FeedURL: "https://x.example/rss", Title: "X", ItemCount: 3}
	svc.Prober = stubProber{preview: want}
	got, err := svc.Preview(context.Background(), "https://x.example")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.Preview(context.Background(), "javascript:alert(1)")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	svc.Prober = stubProber{err: errors.New("no feed")}
	_, err = svc.Preview(context.Background(), "https://x.example")
	assert.Error(t, err)
}

func TestState_PreviewWorkflow(t *testing.T) {
	t.Parallel()

	want := entity.FeedPreview{URL: "https://x.example", FeedURL: "https://x.example/rss", Title: "X", ItemCount: 3}
	svc := &source.Service{Repo: &stubRepo{}, Prober: stubProber{preview: want}}
	st := source.NewState(6)
	var q notify.Queue

	_, err := st.BeginPreview(&q)
	assert.ErrorIs(t, err, source.ErrEmptyInput)

	st.SetInput("not a url")
	_, err = st.BeginPreview(&q)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	require.Equal(t, 1, q.Len())
	assert.Equal(t, notify.MsgSourceURLRequired, q.Items[0].Text)

	st.SetInput(" https://x.example ")
	first, err := st.BeginPreview(&q)
	require.NoError(t, err)
	second, err := st.BeginPreview(&q)
	require.NoError(t, err)
	assert.True(t, st.Previewing)
	assert.Equal(t, "https://x.example", second.URL)

	assert.True(t, st.ApplyPreview(svc.FetchPreview(context.Background(), second), &q))
	assert.False(t, st.ApplyPreview(svc.FetchPreview(context.Background(), first), &q), "stale preview")
	assert.False(t, st.Previewing)
	require.NotNil(t, st.Preview)
	assert.Equal(t, "X", st.Preview.Title)

	st.SetInput("https://x.example")
	assert.NotNil(t, st.Preview, "unchanged input keeps the preview")
	st.SetInput("https://y.example")
	assert.Nil(t, st.Preview)
}

func TestState_PreviewFailureRaisesNotice(t *testing.T) {
	t.Parallel()

	svc := &source.Service{Repo: &stubRepo{}, Prober: stubProber{err: errors.New("no feed")}}
	st := source.NewState(6)
	var q notify.Queue
	st.SetInput("https://x.example")

	req, err := st.BeginPreview(&q)
	require.NoError(t, err)
	assert.True(t, st.ApplyPreview(svc.FetchPreview(context.Background(), req), &q))
	assert.Nil(t, st.Preview)
	require.Equal(t, 1, q.Len())
	assert.Equal(t, notify.MsgPreviewFailed, q.Items[0].Text)
}

func TestState_StaleLoadDiscarded(t *testing.T) {
	t.Parallel()

	st := source.NewState(6)
	var q notify.Queue
	first := st.BeginLoad()
	second := st.BeginLoad()

	assert.True(t, st.ApplyLoad(source.LoadResult{Seq: second.Seq, Sources: makeSources(2)}, &q))
	assert.False(t, st.ApplyLoad(source.LoadResult{Seq: first.Seq, Sources: makeSources(9)}, &q))
	assert.Len(t, st.Sources, 2)
}
