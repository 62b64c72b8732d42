package feed_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fact-news/internal/domain/entity"
	"fact-news/internal/usecase/feed"
)

func TestFilter_Query(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter feed.Filter
		want   url.Values
	}{
		{
			name:   "defaults",
			filter: feed.DefaultFilter(6),
			want:   url.Values{"time_period": {"all"}, "page": {"1"}, "page_size": {"6"}},
		},
		{
			name:   "date replaces period",
			filter: feed.Filter{Date: "2024-05-01", Period: feed.PeriodWeek, Page: 2, PageSize: 6},
			want:   url.Values{"selected_date": {"2024-05-01"}, "page": {"2"}, "page_size": {"6"}},
		},
		{
			name:   "source and search",
			filter: feed.Filter{SourceID: int64Ptr(4), Period: feed.PeriodMonth, Search: "election", Page: 1, PageSize: 6},
			want: url.Values{
				"time_period": {"month"},
				"source_id":   {"4"},
				"search":      {"election"},
				"page":        {"1"},
				"page_size":   {"6"},
			},
		},
		{
			name:   "empty period sent as all",
			filter: feed.Filter{Page: 1, PageSize: 6},
			want:   url.Values{"time_period": {"all"}, "page": {"1"}, "page_size": {"6"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.filter.Query()); diff != "" {
				t.Errorf("Query() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	p, err := feed.ParsePeriod(" Week ")
	require.NoError(t, err)
	assert.Equal(t, feed.PeriodWeek, p)
	assert.Equal(t, "This week", p.Label())

	_, err = feed.ParsePeriod("year")
	assert.ErrorIs(t, err, feed.ErrInvalidPeriod)
}

func TestState_TypingDoesNotApplySearch(t *testing.T) {
	t.Parallel()

	st := feed.NewState(6)
	st.Total = 30
	require.True(t, st.GoToPage(3))

	st.SetSearchInput("climate")
	assert.Empty(t, st.Filter.Search)
	assert.Equal(t, 3, st.Filter.Page)

	assert.True(t, st.SubmitSearch())
	assert.Equal(t, "climate", st.Filter.Search)
	assert.Equal(t, 1, st.Filter.Page)
	assert.Equal(t, "climate", st.Filter.Query().Get("search"))

	assert.False(t, st.SubmitSearch(), "resubmitting the same term on page 1 is a no-op")
}

func TestState_FilterChangesResetPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		change func(st *feed.State) bool
	}{
		{name: "source", change: func(st *feed.State) bool { return st.SelectSource(int64Ptr(2)) }},
		{name: "period", change: func(st *feed.State) bool { return st.SelectPeriod(feed.PeriodToday) }},
		{name: "date", change: func(st *feed.State) bool {
			changed, err := st.SelectDate("2024-01-31")
			require.NoError(t, err)
			return changed
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := feed.NewState(6)
			st.Total = 60
			require.True(t, st.GoToPage(4))

			assert.True(t, tt.change(st))
			assert.Equal(t, 1, st.Filter.Page)
		})
	}
}

func TestState_SameSelectionIsNoop(t *testing.T) {
	t.Parallel()

	st := feed.NewState(6)
	assert.False(t, st.SelectSource(nil))
	assert.True(t, st.SelectSource(int64Ptr(5)))
	assert.False(t, st.SelectSource(int64Ptr(5)))
	assert.False(t, st.SelectPeriod(feed.PeriodAll))
}

func TestState_PeriodDisabledWhileDateSelected(t *testing.T) {
	t.Parallel()

	st := feed.NewState(6)
	_, err := st.SelectDate("2024-02-02")
	require.NoError(t, err)

	assert.False(t, st.SelectPeriod(feed.PeriodMonth))
	assert.Empty(t, st.Filter.Query().Get("time_period"))

	changed, err := st.SelectDate("")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "all", st.Filter.Query().Get("time_period"))
}

func TestState_SelectDateRejectsBadFormat(t *testing.T) {
	t.Parallel()

	st := feed.NewState(6)
	_, err := st.SelectDate("31/01/2024")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.Empty(t, st.Filter.Date)
}

func TestState_GoToPageBounds(t *testing.T) {
	t.Parallel()

	st := feed.NewState(6)
	st.Total = 13 // 3 pages

	assert.False(t, st.GoToPage(0))
	assert.False(t, st.GoToPage(4))
	assert.Equal(t, 1, st.Filter.Page)
	assert.True(t, st.GoToPage(3))
	assert.Equal(t, 3, st.Filter.Page)
}

func TestState_Reset(t *testing.T) {
	t.Parallel()

	st := feed.NewState(6)
	st.Total = 60
	st.SelectSource(int64Ptr(1))
	st.SetSearchInput("x")
	st.SubmitSearch()
	st.GoToPage(2)

	assert.True(t, st.Reset())
	assert.True(t, st.Filter.IsDefault())
	assert.Equal(t, 1, st.Filter.Page)
	assert.Empty(t, st.SearchInput)
	assert.Equal(t, 6, st.Filter.PageSize)
}

func TestState_ToggleIsPerArticle(t *testing.T) {
	t.Parallel()

	st := feed.NewState(6)
	st.Toggle(1)
	assert.True(t, st.IsExpanded(1))
	assert.False(t, st.IsExpanded(2))
	st.Toggle(1)
	assert.False(t, st.IsExpanded(1))
}

func TestState_SelectedSourceName(t *testing.T) {
	t.Parallel()

	st := feed.NewState(6)
	st.Sources = []entity.Source{{ID: 2, Name: "AP"}}
	assert.Empty(t, st.SelectedSourceName())
	st.SelectSource(int64Ptr(2))
	assert.Equal(t, "AP", st.SelectedSourceName())
}
