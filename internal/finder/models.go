package finder

import (
	"errors"
	"strings"
)

// Sentinel errors for malformed input. These are the only conditions FindEmail
// surfaces as errors; probe-level failures are folded into the Result.
var (
	ErrInvalidName   = errors.New("name normalizes to an empty token sequence")
	ErrInvalidDomain = errors.New("domain is malformed")
)

// NameParts is the ordered sequence of lowercase, accent-stripped tokens
// derived from a raw name. It always holds at least one non-empty token.
type NameParts []string

// Initial returns the first rune of the leading token.
func (p NameParts) Initial() string {
	return string([]rune(p[0])[:1])
}

// String renders the canonical hyphen-joined form.
func (p NameParts) String() string {
	return strings.Join(p, "-")
}

// Candidate pairs a full address with its plausibility score.
// Lower score means more plausible.
type Candidate struct {
	Email string `json:"email"`
	Score int    `json:"score"`
}

// Outcome is the three-valued result of a lookup.
type Outcome string

const (
	// OutcomeFound means a candidate address was confirmed by the mail server.
	OutcomeFound Outcome = "found"
	// OutcomeCatchAll means the domain accepts mail to any address, so
	// positive probes are meaningless and the search never ran.
	OutcomeCatchAll Outcome = "catch-all"
	// OutcomeNotFound means no candidate could be confirmed, either because
	// the list was exhausted or the catch-all check could not complete.
	OutcomeNotFound Outcome = "not-found"
)

// Result is the outcome of a FindEmail lookup. Email is set only when
// Outcome is OutcomeFound. Probes counts every probe attempt issued,
// including the catch-all check.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Email   string  `json:"email,omitempty"`
	Probes  int     `json:"probes"`
}
