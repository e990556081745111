// Package probe implements the mail-server probing collaborator: a single
// verification attempt against one address, reduced to a three-way outcome.
package probe

import "context"

//go:generate mockgen -source=probe.go -destination=mocks/prober_mock.go -package=mocks

// Status is the outcome of one probe.
type Status int

const (
	// StatusUnknown means the server gave no decisive answer (greylisting,
	// temporary failures, unrecognized replies).
	StatusUnknown Status = iota
	// StatusExists means the server accepted the recipient.
	StatusExists
	// StatusInvalid means the server rejected the recipient as nonexistent.
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusExists:
		return "exists"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Prober sends one verification probe to an address. Implementations honor
// ctx for timeout and cancellation; a timed-out probe surfaces as an error.
// A single attempt per address is final — no retries.
type Prober interface {
	Probe(ctx context.Context, address string) (Status, error)
}
