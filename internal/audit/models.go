// Package audit captures a structured trail of lookup activity: what was
// searched, what the servers answered, and how each search ended. Events are
// kept transport-agnostic so stores and sinks can fan out.
package audit

import "time"

// Action classifies what happened during a lookup.
type Action string

const (
	// ActionLookupFound records a confirmed address.
	ActionLookupFound Action = "lookup_found"
	// ActionLookupCatchAll records a domain that accepts anything.
	ActionLookupCatchAll Action = "lookup_catch_all"
	// ActionLookupExhausted records a search that ran out of candidates.
	ActionLookupExhausted Action = "lookup_exhausted"
	// ActionCatchAllProbeFailed records a catch-all check that could not
	// complete, aborting the search.
	ActionCatchAllProbeFailed Action = "catch_all_probe_failed"
)

// Event is emitted once per finished lookup. Email is only set for found
// lookups; Probes counts every probe issued including the catch-all check.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Domain    string    `json:"domain"`
	Email     string    `json:"email,omitempty"`
	Probes    int       `json:"probes"`
	RequestID string    `json:"request_id,omitempty"`
}
