package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultMaxSessions bounds the memory store.
const DefaultMaxSessions = 10000

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store. When full, the entry closest to expiry is evicted.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	maxKeys int
	now     func() time.Time
}

// NewMemoryStore returns an empty store holding at most maxKeys sessions
// (DefaultMaxSessions when maxKeys <= 0).
func NewMemoryStore(maxKeys int) *MemoryStore {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxSessions
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		maxKeys: maxKeys,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, ErrNotFound
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, id string, data []byte, ttl time.Duration) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[id]; !exists && len(s.entries) >= s.maxKeys {
		s.evictLocked()
	}
	s.entries[id] = memoryEntry{data: buf, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Cleanup drops expired sessions and returns how many were removed.
func (s *MemoryStore) Cleanup() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) evictLocked() {
	var (
		victim string
		oldest time.Time
	)
	for id, e := range s.entries {
		if victim == "" || e.expiresAt.Before(oldest) {
			victim, oldest = id, e.expiresAt
		}
	}
	delete(s.entries, victim)
}

// StartCleanup runs Cleanup every interval until ctx is cancelled.
func (s *MemoryStore) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("session cleanup started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			slog.Info("session cleanup stopped")
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				slog.Debug("expired sessions removed", slog.Int("count", n))
			}
		}
	}
}
