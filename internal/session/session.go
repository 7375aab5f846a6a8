// Package session binds one feed accumulator and one filter engine to a
// presentation client, and owns the visibility sentinel between them.
package session

import (
	"context"
	"sync"
	"time"

	"jobmate/search-service/internal/feed"
	"jobmate/search-service/internal/filter"
)

// Session is the per-client controller. The accumulator and engine do their
// own locking; mu covers the sentinel and the idle clock.
type Session struct {
	ID string

	acc    *feed.Accumulator
	engine *filter.Engine
	now    func() time.Time

	mu       sync.Mutex
	sentinel string
	lastSeen time.Time
}

// New creates a session over its own accumulator. Nothing is fetched until
// Start.
func New(id string, fetcher feed.Fetcher, pageSize int, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		ID:       id,
		acc:      feed.NewAccumulator(fetcher, pageSize),
		engine:   filter.NewEngine(),
		now:      now,
		lastSeen: now(),
	}
}

// Start requests the initial page. A failure leaves the session in ERROR
// and is returned for logging; the session remains usable.
func (s *Session) Start(ctx context.Context) error {
	s.touch()
	return s.acc.Start(ctx)
}

// OnBecameVisible handles the trailing element of the rendered list entering
// the viewport. The signal is dropped when sentinelID is not the currently
// armed sentinel, a page is already loading, or the feed is in ERROR. It
// reports whether a request was issued.
func (s *Session) OnBecameVisible(ctx context.Context, sentinelID string) (bool, error) {
	s.touch()

	s.mu.Lock()
	armed := s.sentinel
	s.mu.Unlock()

	if sentinelID == "" || sentinelID != armed {
		return false, nil
	}

	ok, err := s.acc.Continue(ctx)
	if err != nil {
		s.disarm(sentinelID)
	}
	return ok, err
}

// disarm clears the sentinel if it is still id. A render in between may
// already have replaced it.
func (s *Session) disarm(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sentinel == id {
		s.sentinel = ""
	}
}

// Render computes the visible listings and re-arms the sentinel to the last
// of them. No sentinel is armed when nothing is visible or the feed is in
// ERROR, so visibility signals cannot fetch past a failure.
func (s *Session) Render() View {
	s.touch()

	state := s.acc.State()
	collection := s.acc.Records()
	visible := s.engine.Visible(collection)

	sentinel := ""
	if state != feed.StateError && len(visible) > 0 {
		sentinel = visible[len(visible)-1].JDUID
	}

	s.mu.Lock()
	s.sentinel = sentinel
	s.mu.Unlock()

	v := View{
		SessionID: s.ID,
		Listings:  cards(visible),
		State:     state,
		NoResults: len(visible) == 0 && state != feed.StateLoading,
		Sentinel:  sentinel,
		Criteria:  s.engine.Criteria().Snapshot(),
		Pages:     s.acc.PagesFetched(),
		Total:     len(collection),
	}
	if err := s.acc.Err(); err != nil {
		v.Error = err.Error()
	}
	return v
}

// Filters exposes the criteria setters.
func (s *Session) Filters() *filter.Engine {
	s.touch()
	return s.engine
}

// Reset clears an ERROR state so the feed can continue.
func (s *Session) Reset() bool {
	s.touch()
	return s.acc.Reset()
}

// State is the current fetch state.
func (s *Session) State() feed.State { return s.acc.State() }

// Sentinel returns the currently armed sentinel id.
func (s *Session) Sentinel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sentinel
}

// IdleSince reports when the session was last used.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}
