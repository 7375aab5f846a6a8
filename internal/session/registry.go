package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobmate/search-service/internal/feed"
)

// Registry holds the live sessions of this process. Sessions are never
// persisted; a sweep or an explicit delete discards their collections.
type Registry struct {
	fetcher  feed.Fetcher
	pageSize int
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry whose sessions share fetcher.
func NewRegistry(fetcher feed.Fetcher, pageSize int, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		fetcher:  fetcher,
		pageSize: pageSize,
		now:      now,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session and requests its initial page. The session
// is returned even when that first fetch fails; its view carries the error.
func (r *Registry) Create(ctx context.Context) *Session {
	s := New(uuid.NewString(), r.fetcher, r.pageSize, r.now)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	if err := s.Start(ctx); err != nil {
		slog.Warn("initial page failed", "sessionId", s.ID, "err", err)
	}
	return s
}

// Get looks up a live session.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Delete ends a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Sweep discards sessions idle for longer than maxIdle and returns how many
// were removed. Sessions with a page in flight are kept.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.State() == feed.StateLoading {
			continue
		}
		if s.IdleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
