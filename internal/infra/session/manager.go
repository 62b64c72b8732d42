package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fact-news/internal/common/pagination"
	"fact-news/internal/usecase/feed"
	"fact-news/internal/usecase/notify"
	"fact-news/internal/usecase/paper"
	"fact-news/internal/usecase/source"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

// Data is the view state of one browser session.
type Data struct {
	Feed    *feed.State   `json:"feed"`
	Paper   *paper.State  `json:"paper"`
	Sources *source.State `json:"sources"`
	Notices notify.Queue  `json:"notices"`
}

// NewData returns fresh view state with nothing loaded.
func NewData(pages pagination.Config) *Data {
	return &Data{
		Feed:    feed.NewState(pages.ArticlesPerPage),
		Paper:   paper.NewState(),
		Sources: source.NewState(pages.SourcesPerPage),
	}
}

// fill replaces views missing from an older document with fresh ones.
func (d *Data) fill(pages pagination.Config) {
	fresh := NewData(pages)
	if d.Feed == nil {
		d.Feed = fresh.Feed
	}
	if d.Paper == nil {
		d.Paper = fresh.Paper
	}
	if d.Sources == nil {
		d.Sources = fresh.Sources
	}
}

// Manager loads, mutates and saves session Data.
type Manager struct {
	store  Store
	ttl    time.Duration
	pages  pagination.Config
	locks  keyedMutex
	logger *slog.Logger
}

// NewManager returns a Manager over store. A non-positive ttl uses DefaultTTL.
func NewManager(store Store, ttl time.Duration, pages pagination.Config, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, ttl: ttl, pages: pages, logger: logger}
}

// Update runs fn on the session's Data and saves the result, even when fn fails.
// Calls for the same id never overlap within this process.
// An unknown, expired or undecodable session starts from fresh Data.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Data) error) error {
	unlock := m.locks.Lock(id)
	defer unlock()

	data, err := m.load(ctx, id)
	if err != nil {
		return err
	}

	fnErr := fn(data)

	if err := m.save(ctx, id, data); err != nil {
		return errors.Join(fnErr, err)
	}
	return fnErr
}

func (m *Manager) load(ctx context.Context, id string) (*Data, error) {
	raw, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return NewData(m.pages), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		m.logger.Warn("discarding undecodable session", slog.Any("error", err))
		return NewData(m.pages), nil
	}
	data.fill(m.pages)
	return &data, nil
}

func (m *Manager) save(ctx context.Context, id string, data *Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, id, raw, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete forgets a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
