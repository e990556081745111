package probe

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProber struct {
	status Status
	err    error
	calls  int
}

func (s *scriptedProber) Probe(context.Context, string) (Status, error) {
	s.calls++
	return s.status, s.err
}

func newCircuitUnderTest(next Prober) (*CircuitProber, *time.Time) {
	clock := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	p := NewCircuit(next,
		WithCircuitFailureThreshold(2),
		WithCircuitCooldown(time.Minute),
		WithCircuitLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	p.clock = func() time.Time { return clock }
	return p, &clock
}

func TestCircuitProber_PassesThroughWhileClosed(t *testing.T) {
	next := &scriptedProber{status: StatusInvalid}
	p, _ := newCircuitUnderTest(next)

	status, err := p.Probe(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, status)
	assert.Equal(t, 1, next.calls)
}

func TestCircuitProber_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &scriptedProber{status: StatusUnknown, err: assert.AnError}
	p, _ := newCircuitUnderTest(next)
	ctx := context.Background()

	_, err := p.Probe(ctx, "a@example.com")
	require.Error(t, err)
	_, err = p.Probe(ctx, "b@example.com")
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)

	// Circuit is open now; the upstream must not be called again.
	status, err := p.Probe(ctx, "c@example.com")
	require.Error(t, err)
	assert.Equal(t, StatusUnknown, status)
	assert.Equal(t, 2, next.calls)
}

func TestCircuitProber_CircuitsAreScopedByDomain(t *testing.T) {
	next := &scriptedProber{status: StatusUnknown, err: assert.AnError}
	p, _ := newCircuitUnderTest(next)
	ctx := context.Background()

	p.Probe(ctx, "a@down.example")
	p.Probe(ctx, "b@down.example")
	assert.Equal(t, 2, next.calls)

	// A different domain still reaches the upstream.
	p.Probe(ctx, "a@up.example")
	assert.Equal(t, 3, next.calls)
}

func TestCircuitProber_FailedTrialRestartsCooldown(t *testing.T) {
	next := &scriptedProber{status: StatusUnknown, err: assert.AnError}
	p, clock := newCircuitUnderTest(next)
	ctx := context.Background()

	p.Probe(ctx, "a@example.com")
	p.Probe(ctx, "b@example.com")
	require.Equal(t, 2, next.calls)

	*clock = clock.Add(2 * time.Minute)

	// The trial probe fails, so the circuit must go back to rejecting.
	_, err := p.Probe(ctx, "c@example.com")
	require.Error(t, err)
	require.Equal(t, 3, next.calls)

	for i := 0; i < 5; i++ {
		_, err = p.Probe(ctx, "d@example.com")
		require.Error(t, err)
	}
	assert.Equal(t, 3, next.calls)

	// A fresh cooldown plus a successful trial still recovers.
	*clock = clock.Add(2 * time.Minute)
	next.err = nil
	next.status = StatusExists

	status, err := p.Probe(ctx, "e@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusExists, status)
	assert.Equal(t, 4, next.calls)
}

func TestCircuitProber_TrialProbeAfterCooldown(t *testing.T) {
	next := &scriptedProber{status: StatusUnknown, err: assert.AnError}
	p, clock := newCircuitUnderTest(next)
	ctx := context.Background()

	p.Probe(ctx, "a@example.com")
	p.Probe(ctx, "b@example.com")
	require.Equal(t, 2, next.calls)

	*clock = clock.Add(2 * time.Minute)
	next.err = nil
	next.status = StatusExists

	status, err := p.Probe(ctx, "c@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusExists, status)
	assert.Equal(t, 3, next.calls)

	// Trial success closed the circuit again.
	status, err = p.Probe(ctx, "d@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusExists, status)
	assert.Equal(t, 4, next.calls)
}
