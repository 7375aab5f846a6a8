package feed_test

import (
	"encoding/json"
	"testing"

	"jobmate/search-service/internal/feed"
)

// ── ParseState ─────────────────────────────────────────────────────────────

func TestParseState_ValidValues(t *testing.T) {
	for _, s := range []string{"IDLE", "LOADING", "ERROR"} {
		got, err := feed.ParseState(s)
		if err != nil {
			t.Errorf("ParseState(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseState(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseState_InvalidValues(t *testing.T) {
	for _, s := range []string{"", "idle", "DONE", " IDLE"} {
		if _, err := feed.ParseState(s); err == nil {
			t.Errorf("ParseState(%q) expected error, got nil", s)
		}
	}
}

func TestState_UnmarshalJSON(t *testing.T) {
	var v struct {
		State feed.State `json:"state"`
	}
	if err := json.Unmarshal([]byte(`{"state":"LOADING"}`), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.State != feed.StateLoading {
		t.Errorf("State = %q, want LOADING", v.State)
	}
	if err := json.Unmarshal([]byte(`{"state":"done"}`), &v); err == nil {
		t.Error("expected error for unknown state")
	}
}

// ── IsTransitionAllowed ────────────────────────────────────────────────────

func TestIsTransitionAllowed(t *testing.T) {
	cases := []struct {
		from, to feed.State
		want     bool
	}{
		{feed.StateIdle, feed.StateLoading, true},
		{feed.StateLoading, feed.StateIdle, true},
		{feed.StateLoading, feed.StateError, true},
		{feed.StateError, feed.StateLoading, true},
		{feed.StateError, feed.StateIdle, true},

		{feed.StateLoading, feed.StateLoading, false}, // one request in flight
		{feed.StateIdle, feed.StateError, false},
		{feed.StateIdle, feed.StateIdle, false},
		{feed.StateError, feed.StateError, false},
	}
	for _, c := range cases {
		if got := feed.IsTransitionAllowed(c.from, c.to); got != c.want {
			t.Errorf("IsTransitionAllowed(%s → %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestCanRequest(t *testing.T) {
	if !feed.CanRequest(feed.StateIdle) {
		t.Error("CanRequest(IDLE) should be true")
	}
	if !feed.CanRequest(feed.StateError) {
		t.Error("CanRequest(ERROR) should be true (caller re-trigger)")
	}
	if feed.CanRequest(feed.StateLoading) {
		t.Error("CanRequest(LOADING) should be false")
	}
}
