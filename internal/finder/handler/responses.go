package handler

import "github.com/adverot/emailfinder/internal/finder"

// LookupResponse is the body returned by POST /v1/lookups.
type LookupResponse struct {
	Outcome finder.Outcome `json:"outcome"`
	Email   string         `json:"email,omitempty"`
	Probes  int            `json:"probes"`
}

// CandidatesResponse is the body returned by POST /v1/candidates.
type CandidatesResponse struct {
	Domain     string             `json:"domain"`
	Candidates []finder.Candidate `json:"candidates"`
}
