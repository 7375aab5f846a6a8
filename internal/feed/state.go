// Package feed owns the incremental fetch of listing pages and their
// deduplicated accumulation.
//
// Fetch state graph:
//
//	IDLE ──► LOADING ──► IDLE
//	  ▲         │
//	  │         └──► ERROR ──► LOADING (caller re-trigger)
//	  │                 │
//	  └─────────────────┘ (explicit reset)
//
// At most one page request is in flight: LOADING never transitions to itself.
package feed

import "fmt"

// State values are exposed verbatim to presentation clients.
type State string

const (
	StateIdle    State = "IDLE"
	StateLoading State = "LOADING"
	StateError   State = "ERROR"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[State][]State{
	StateIdle:    {StateLoading},
	StateLoading: {StateIdle, StateError},
	StateError:   {StateLoading, StateIdle},
}

// ParseState converts a raw string to a State, returning an error for
// unknown values.
func ParseState(s string) (State, error) {
	st := State(s)
	switch st {
	case StateIdle, StateLoading, StateError:
		return st, nil
	}
	return "", fmt.Errorf("unknown fetch state %q", s)
}

// UnmarshalText lets clients decode a state from JSON, rejecting unknown
// values.
func (s *State) UnmarshalText(b []byte) error {
	st, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// IsTransitionAllowed returns true when moving from → to is permitted.
func IsTransitionAllowed(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanRequest reports whether a new page request may be issued from s.
func CanRequest(s State) bool { return IsTransitionAllowed(s, StateLoading) }
