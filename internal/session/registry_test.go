package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/search-service/internal/feed"
	"jobmate/search-service/internal/session"
)

// fakeClock is advanced by hand.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestRegistry_CreateFetchesInitialPage(t *testing.T) {
	f := &pagedFetcher{all: catalogue(7)}
	r := session.NewRegistry(f, 5, nil)

	s := r.Create(context.Background())
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, f.count())
	assert.Len(t, s.Render().Listings, 5)

	got, ok := r.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_CreateKeepsSessionOnInitialFailure(t *testing.T) {
	f := &pagedFetcher{failAt: map[int]error{0: errors.New("down")}}
	r := session.NewRegistry(f, 5, nil)

	s := r.Create(context.Background())
	assert.Equal(t, feed.StateError, s.State())
	_, ok := r.Get(s.ID)
	assert.True(t, ok)
}

func TestRegistry_SessionsAreIndependent(t *testing.T) {
	f := &pagedFetcher{all: catalogue(12)}
	r := session.NewRegistry(f, 5, nil)
	ctx := context.Background()

	a := r.Create(ctx)
	b := r.Create(ctx)
	require.NotEqual(t, a.ID, b.ID)

	_, err := a.OnBecameVisible(ctx, a.Render().Sentinel)
	require.NoError(t, err)
	a.Filters().SetRoles([]string{"BackEnd"})

	assert.Equal(t, 10, a.Render().Total)
	assert.Equal(t, 5, b.Render().Total)
	assert.True(t, b.Filters().Criteria().IsZero())
}

func TestRegistry_Delete(t *testing.T) {
	r := session.NewRegistry(&pagedFetcher{}, 5, nil)
	s := r.Create(context.Background())

	assert.True(t, r.Delete(s.ID))
	assert.False(t, r.Delete(s.ID))
	_, ok := r.Get(s.ID)
	assert.False(t, ok)
}

func TestRegistry_SweepRemovesIdleSessions(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	r := session.NewRegistry(&pagedFetcher{all: catalogue(3)}, 5, clock.Now)
	ctx := context.Background()

	old := r.Create(ctx)
	clock.Advance(20 * time.Minute)
	fresh := r.Create(ctx)
	clock.Advance(15 * time.Minute)

	removed := r.Sweep(30 * time.Minute)
	assert.Equal(t, 1, removed)

	_, ok := r.Get(old.ID)
	assert.False(t, ok)
	_, ok = r.Get(fresh.ID)
	assert.True(t, ok)
}

func TestRegistry_UseKeepsSessionAlive(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	r := session.NewRegistry(&pagedFetcher{all: catalogue(3)}, 5, clock.Now)

	s := r.Create(context.Background())
	clock.Advance(25 * time.Minute)
	s.Render()
	clock.Advance(25 * time.Minute)

	assert.Zero(t, r.Sweep(30*time.Minute))
	assert.Equal(t, 1, r.Len())
}
