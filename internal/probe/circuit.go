package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/adverot/emailfinder/pkg/platform/circuit"
)

// CircuitProber wraps a Prober with one circuit breaker per recipient domain.
// Mail servers that keep failing at the transport level stop being probed for
// a cooldown period instead of eating a timeout per candidate.
type CircuitProber struct {
	next             Prober
	failureThreshold int
	cooldown         time.Duration
	logger           *slog.Logger
	clock            func() time.Time

	mu       sync.Mutex
	breakers map[string]*domainBreaker
}

type domainBreaker struct {
	breaker  *circuit.Breaker
	openedAt time.Time
}

// CircuitOption configures a CircuitProber.
type CircuitOption func(*CircuitProber)

// WithCircuitFailureThreshold sets how many consecutive transport failures
// open a domain's circuit.
func WithCircuitFailureThreshold(n int) CircuitOption {
	return func(p *CircuitProber) { p.failureThreshold = n }
}

// WithCircuitCooldown sets how long an open circuit rejects probes before a
// trial call is let through.
func WithCircuitCooldown(d time.Duration) CircuitOption {
	return func(p *CircuitProber) { p.cooldown = d }
}

// WithCircuitLogger sets the logger for state transitions.
func WithCircuitLogger(logger *slog.Logger) CircuitOption {
	return func(p *CircuitProber) { p.logger = logger }
}

// NewCircuit wraps next with per-domain circuit breaking.
func NewCircuit(next Prober, opts ...CircuitOption) *CircuitProber {
	p := &CircuitProber{
		next:             next,
		failureThreshold: 3,
		cooldown:         time.Minute,
		logger:           slog.Default(),
		clock:            time.Now,
		breakers:         make(map[string]*domainBreaker),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe implements Prober. Decisive replies and inconclusive ones both count
// as success: only transport-level errors trip the breaker.
func (p *CircuitProber) Probe(ctx context.Context, address string) (Status, error) {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return p.next.Probe(ctx, address)
	}
	domain := address[at+1:]

	db := p.breakerFor(domain)
	if p.rejecting(db) {
		return StatusUnknown, fmt.Errorf("probe circuit open for %s", domain)
	}

	status, err := p.next.Probe(ctx, address)
	if err != nil {
		useFallback, change := db.breaker.RecordFailure()
		if useFallback {
			// Every failure while open restarts the cooldown; otherwise a
			// failed trial probe would leave the stale openedAt in place and
			// the open circuit would forward all traffic.
			p.mu.Lock()
			db.openedAt = p.clock()
			p.mu.Unlock()
		}
		if change.Opened {
			p.logger.WarnContext(ctx, "probe circuit opened",
				"domain", domain,
				"error", err,
			)
		}
		return status, err
	}

	if _, change := db.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "probe circuit closed", "domain", domain)
	}
	return status, nil
}

func (p *CircuitProber) breakerFor(domain string) *domainBreaker {
	p.mu.Lock()
	defer p.mu.Unlock()
	db, ok := p.breakers[domain]
	if !ok {
		db = &domainBreaker{
			breaker: circuit.New(domain, circuit.WithFailureThreshold(p.failureThreshold)),
		}
		p.breakers[domain] = db
	}
	return db
}

// rejecting reports whether the domain's circuit is open and still inside its
// cooldown. After the cooldown one trial probe is allowed through; its
// outcome decides whether the circuit closes.
func (p *CircuitProber) rejecting(db *domainBreaker) bool {
	if !db.breaker.IsOpen() {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock().Sub(db.openedAt) < p.cooldown
}
