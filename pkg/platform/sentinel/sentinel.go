package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and clients return these
// (optionally wrapped) so callers can branch on the fact without knowing the
// backend. They represent factual states about resources, not validation
// failures; bad input gets a coded error from pkg/domain-errors instead.
var (
	// ErrNotFound marks a store miss, e.g. no fresh catch-all verdict for a
	// domain.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks a backing service that is not answering, e.g. a
	// failed Redis ping.
	ErrUnavailable = errors.New("unavailable")
)
