package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"jobmate/search-service/internal/model"
)

// Fetcher retrieves one page of listings from the upstream source.
// Any returned error is treated as a fetch failure.
type Fetcher interface {
	FetchPage(ctx context.Context, req model.PageRequest) (model.PageResponse, error)
}

// Accumulator sequences page requests and merges their records into a
// collection deduplicated by JDUID. The first occurrence of an id wins; later
// duplicates are dropped rather than used to overwrite.
//
// The mutex guards state and collection only. It is never held across the
// network call, so readers see LOADING while a page is in flight.
type Accumulator struct {
	fetcher  Fetcher
	pageSize int

	mu      sync.Mutex
	state   State
	pages   int
	started bool
	records []model.ListingRecord
	seen    mapset.Set[string]
	lastErr error
}

// NewAccumulator returns an empty, IDLE accumulator.
func NewAccumulator(fetcher Fetcher, pageSize int) *Accumulator {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Accumulator{
		fetcher:  fetcher,
		pageSize: pageSize,
		state:    StateIdle,
		seen:     mapset.NewThreadUnsafeSet[string](),
	}
}

// Start requests the initial page. Only the first call does anything; the
// initial request is issued unconditionally, regardless of visibility.
func (a *Accumulator) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = true
	a.mu.Unlock()

	_, err := a.RequestNextPage(ctx)
	return err
}

// RequestNextPage fetches the page at offset pages × pageSize.
//
// It returns false without fetching when a request is already in flight;
// such calls are rejected, not queued. On failure the state becomes ERROR,
// the page counter is left untouched and a *FetchError is returned. A page
// with zero records still advances the counter. Calling it from ERROR is an
// explicit re-trigger and retries the failed offset.
func (a *Accumulator) RequestNextPage(ctx context.Context) (bool, error) {
	return a.request(ctx, true)
}

// Continue is RequestNextPage for scroll-driven continuation: it is also
// rejected in ERROR, so only Reset lets the feed move on after a failure.
// The state check and the switch to LOADING happen under one lock.
func (a *Accumulator) Continue(ctx context.Context) (bool, error) {
	return a.request(ctx, false)
}

func (a *Accumulator) request(ctx context.Context, fromError bool) (bool, error) {
	a.mu.Lock()
	if !CanRequest(a.state) || (a.state == StateError && !fromError) {
		a.mu.Unlock()
		return false, nil
	}
	a.transition(StateLoading)
	a.started = true
	req := model.PageRequest{Limit: a.pageSize, Offset: a.pages * a.pageSize}
	a.mu.Unlock()

	resp, err := a.fetcher.FetchPage(ctx, req)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.transition(StateError)
		a.lastErr = &FetchError{Offset: req.Offset, Err: err}
		slog.Warn("page fetch failed", "offset", req.Offset, "limit", req.Limit, "err", err)
		return true, a.lastErr
	}

	added := a.merge(resp.JDList)
	a.pages++
	a.transition(StateIdle)
	a.lastErr = nil
	slog.Debug("page merged",
		"offset", req.Offset, "received", len(resp.JDList), "added", added, "total", len(a.records))
	return true, nil
}

// transition moves to the next state. Callers hold mu. A move outside
// validTransitions is a bug in this package, so it panics.
func (a *Accumulator) transition(to State) {
	if !IsTransitionAllowed(a.state, to) {
		panic(fmt.Sprintf("feed: invalid transition %s → %s", a.state, to))
	}
	a.state = to
}

// merge appends records whose id has not been seen yet, in arrival order.
// Duplicates inside the same page are handled the same way as across pages.
func (a *Accumulator) merge(page []model.ListingRecord) int {
	added := 0
	for _, rec := range page {
		if !a.seen.Add(rec.JDUID) {
			continue
		}
		a.records = append(a.records, rec)
		added++
	}
	return added
}

// Reset clears an ERROR state back to IDLE. The collection and page counter
// are kept, so the next request retries the failed offset.
func (a *Accumulator) Reset() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateError {
		return false
	}
	a.transition(StateIdle)
	a.lastErr = nil
	return true
}

// Records returns the accumulated collection. The slice is capped at its
// length, and existing elements are never rewritten, so callers may hold it
// while further pages are merged.
func (a *Accumulator) Records() []model.ListingRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.records[:len(a.records):len(a.records)]
}

// Len returns the number of accumulated records.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

func (a *Accumulator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// PagesFetched is the number of successfully fetched pages, empty ones
// included.
func (a *Accumulator) PagesFetched() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pages
}

// Err returns the failure that put the accumulator in ERROR, if any.
func (a *Accumulator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// PageSize is the fixed limit sent with every request.
func (a *Accumulator) PageSize() int { return a.pageSize }
