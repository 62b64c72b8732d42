package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fact-news/internal/common/pagination"
	"fact-news/internal/usecase/notify"
)

func newTestManager() *Manager {
	return NewManager(NewMemoryStore(0), time.Hour, pagination.DefaultConfig(), nil)
}

func TestExchange_RunsStepsInOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager()
	var steps []string

	err := Exchange(ctx, m, "s",
		func(d *Data) (string, error) {
			steps = append(steps, "begin")
			d.Feed.Loading = true
			return "req", nil
		},
		func(_ context.Context, req string) int {
			steps = append(steps, "fetch:"+req)
			return 42
		},
		func(d *Data, res int) {
			steps = append(steps, "apply")
			d.Feed.Loading = false
			d.Feed.Total = res
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"begin", "fetch:req", "apply"}, steps)

	require.NoError(t, m.Update(ctx, "s", func(d *Data) error {
		assert.False(t, d.Feed.Loading)
		assert.Equal(t, 42, d.Feed.Total)
		return nil
	}))
}

func TestExchange_FetchRunsWithoutLock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager()

	err := Exchange(ctx, m, "s",
		func(*Data) (struct{}, error) { return struct{}{}, nil },
		func(ctx context.Context, _ struct{}) struct{} {
			// A second update of the same session would deadlock if the lock were held.
			require.NoError(t, m.Update(ctx, "s", func(d *Data) error {
				d.Notices.Push(notify.Info("concurrent"))
				return nil
			}))
			return struct{}{}
		},
		func(*Data, struct{}) {},
	)
	require.NoError(t, err)

	require.NoError(t, m.Update(ctx, "s", func(d *Data) error {
		assert.Equal(t, 1, d.Notices.Len())
		return nil
	}))
}

func TestExchange_BeginFailureSkipsFetchButSaves(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager()
	boom := errors.New("boom")
	fetched := false

	err := Exchange(ctx, m, "s",
		func(d *Data) (int, error) {
			d.Notices.Push(notify.Error("bad input"))
			return 0, boom
		},
		func(context.Context, int) int { fetched = true; return 0 },
		func(*Data, int) {},
	)
	assert.ErrorIs(t, err, boom)
	assert.False(t, fetched)

	require.NoError(t, m.Update(ctx, "s", func(d *Data) error {
		assert.Equal(t, 1, d.Notices.Len())
		return nil
	}))
}

func TestExchange_SkipIsNotAnError(t *testing.T) {
	t.Parallel()

	fetched := false
	err := Exchange(context.Background(), newTestManager(), "s",
		func(*Data) (int, error) { return 0, ErrSkip },
		func(context.Context, int) int { fetched = true; return 0 },
		func(*Data, int) {},
	)
	assert.NoError(t, err)
	assert.False(t, fetched)
}

func TestExchange_ApplyRunsAfterCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	m := newTestManager()

	err := Exchange(ctx, m, "s",
		func(d *Data) (int, error) {
			d.Paper.FactChecking = true
			return 0, nil
		},
		func(context.Context, int) int {
			cancel()
			return 0
		},
		func(d *Data, _ int) { d.Paper.FactChecking = false },
	)
	require.NoError(t, err)

	require.NoError(t, m.Update(context.Background(), "s", func(d *Data) error {
		assert.False(t, d.Paper.FactChecking, "pending flag cleared despite cancellation")
		return nil
	}))
}
