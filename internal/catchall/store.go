// Package catchall caches per-domain catch-all verdicts so repeated lookups
// against the same domain do not re-probe a random address every time.
// Whether a domain is catch-all is a property of its mail server, not of any
// single lookup, which is why it is safe to share across requests.
package catchall

import (
	"context"
	"time"
)

// Verdict records what the catch-all check concluded about a domain.
// Probe failures are never cached; only decisive outcomes are.
type Verdict string

const (
	VerdictCatchAll    Verdict = "catch-all"
	VerdictNotCatchAll Verdict = "not-catch-all"
)

// Store is the verdict cache. Get returns sentinel.ErrNotFound when the
// domain has no fresh verdict.
type Store interface {
	Get(ctx context.Context, domain string) (Verdict, error)
	Set(ctx context.Context, domain string, verdict Verdict, ttl time.Duration) error
}
