package finder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/adverot/emailfinder/internal/audit"
	"github.com/adverot/emailfinder/internal/catchall"
	"github.com/adverot/emailfinder/internal/finder/metrics"
	"github.com/adverot/emailfinder/internal/probe"
	dErrors "github.com/adverot/emailfinder/pkg/domain-errors"
	"github.com/adverot/emailfinder/pkg/platform/sentinel"
	"github.com/adverot/emailfinder/pkg/requestcontext"
)

const randomAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Config carries the verification policy knobs. The catch-all probe gets a
// longer timeout than candidate probes because its verdict gates the whole
// search.
type Config struct {
	CatchAllTimeout       time.Duration
	PingTimeout           time.Duration
	RandomLocalPartLength int
	CacheTTL              time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		CatchAllTimeout:       5 * time.Second,
		PingTimeout:           3 * time.Second,
		RandomLocalPartLength: 12,
		CacheTTL:              time.Hour,
	}
}

// AuditPublisher is the sink for lookup audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates a lookup: catch-all check first, then candidates in
// ascending-score order, probing sequentially until one is confirmed or the
// list runs out. Probing one address at a time is deliberate: it keeps the
// outbound footprint small against possibly rate-limiting servers and lets
// the cheapest guess terminate the search.
type Service struct {
	prober  probe.Prober
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditPublisher
	cache   catchall.Store
	tracer  trace.Tracer
	group   singleflight.Group

	randMu sync.Mutex
	rand   *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.audit = publisher }
}

// WithCatchAllCache shares catch-all verdicts across lookups.
func WithCatchAllCache(store catchall.Store) Option {
	return func(s *Service) { s.cache = store }
}

func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithRandom injects the random source used for catch-all probe addresses so
// tests can make them deterministic.
func WithRandom(rnd *rand.Rand) Option {
	return func(s *Service) { s.rand = rnd }
}

func New(prober probe.Prober, opts ...Option) (*Service, error) {
	if prober == nil {
		return nil, fmt.Errorf("prober is required")
	}

	svc := &Service{
		prober: prober,
		cfg:    DefaultConfig(),
		logger: slog.Default(),
		tracer: otel.Tracer("emailfinder/finder"),
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Candidates normalizes both names and expands them into the scored
// candidate list for domain, without probing anything.
func (s *Service) Candidates(ctx context.Context, firstName, lastName, domain string) ([]Candidate, error) {
	first, err := NormalizeName(firstName, FirstNameSeps)
	if err != nil {
		return nil, err
	}
	last, err := NormalizeName(lastName, LastNameSeps)
	if err != nil {
		return nil, err
	}
	candidates, err := GenerateCandidates(first, last, domain)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordCandidates(len(candidates))
	}
	return candidates, nil
}

// FindEmail runs the full lookup. Malformed input is the only error return;
// probe-level failures fold into the three-way Result per the orchestration
// policy: the catch-all check failing aborts the search (no safe way to
// interpret positives without it), while individual candidate probes failing
// just move the search along.
func (s *Service) FindEmail(ctx context.Context, firstName, lastName, domain string) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "finder.FindEmail",
		trace.WithAttributes(attribute.String("email.domain", domain)),
	)
	defer span.End()

	candidates, err := s.Candidates(ctx, firstName, lastName, domain)
	if err != nil {
		return nil, err
	}

	result := &Result{Outcome: OutcomeNotFound}

	verdict, ok := s.checkCatchAll(ctx, domain, result)
	if !ok {
		s.finish(ctx, span, result, audit.ActionCatchAllProbeFailed, domain)
		return result, nil
	}
	if verdict == catchall.VerdictCatchAll {
		result.Outcome = OutcomeCatchAll
		s.finish(ctx, span, result, audit.ActionLookupCatchAll, domain)
		return result, nil
	}

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "lookup canceled")
		}
		result.Probes++
		if s.probeCandidate(ctx, cand.Email) == probe.StatusExists {
			result.Outcome = OutcomeFound
			result.Email = cand.Email
			s.finish(ctx, span, result, audit.ActionLookupFound, domain)
			return result, nil
		}
	}

	s.finish(ctx, span, result, audit.ActionLookupExhausted, domain)
	return result, nil
}

// checkCatchAll resolves the domain's catch-all verdict: from cache when
// fresh, otherwise by probing one random address. Concurrent lookups for the
// same domain share a single probe. ok is false when no verdict could be
// established.
func (s *Service) checkCatchAll(ctx context.Context, domain string, result *Result) (catchall.Verdict, bool) {
	if s.cache != nil {
		verdict, err := s.cache.Get(ctx, domain)
		switch {
		case err == nil:
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			return verdict, true
		case !errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "catch-all cache read failed",
				"domain", domain,
				"error", err,
			)
		}
	}

	probed := false
	v, err, _ := s.group.Do(domain, func() (any, error) {
		probed = true
		pctx, cancel := context.WithTimeout(ctx, s.cfg.CatchAllTimeout)
		defer cancel()

		address := s.randomLocalPart() + "@" + domain
		status := s.timedProbe(pctx, address)
		switch status {
		case probe.StatusExists:
			return catchall.VerdictCatchAll, nil
		case probe.StatusInvalid:
			return catchall.VerdictNotCatchAll, nil
		default:
			return nil, fmt.Errorf("catch-all probe inconclusive for %s", domain)
		}
	})
	if probed {
		result.Probes++
	}
	if err != nil {
		s.logger.WarnContext(ctx, "catch-all check failed, aborting search",
			"domain", domain,
			"error", err,
		)
		return "", false
	}

	verdict := v.(catchall.Verdict)
	if s.cache != nil {
		if cerr := s.cache.Set(ctx, domain, verdict, s.cfg.CacheTTL); cerr != nil {
			s.logger.WarnContext(ctx, "catch-all cache write failed",
				"domain", domain,
				"error", cerr,
			)
		}
	}
	return verdict, true
}

// probeCandidate issues one candidate probe under the ping timeout. Errors
// and inconclusive replies both read as "not this one".
func (s *Service) probeCandidate(ctx context.Context, address string) probe.Status {
	pctx, cancel := context.WithTimeout(ctx, s.cfg.PingTimeout)
	defer cancel()
	return s.timedProbe(pctx, address)
}

func (s *Service) timedProbe(ctx context.Context, address string) probe.Status {
	start := time.Now()
	status, err := s.prober.Probe(ctx, address)
	if err != nil {
		status = probe.StatusUnknown
		s.logger.DebugContext(ctx, "probe failed",
			"address", address,
			"error", err,
		)
	}
	if s.metrics != nil {
		s.metrics.RecordProbe(status.String(), time.Since(start).Seconds())
	}
	return status
}

func (s *Service) randomLocalPart() string {
	buf := make([]byte, s.cfg.RandomLocalPartLength)
	s.randMu.Lock()
	for i := range buf {
		buf[i] = randomAlphabet[s.rand.Intn(len(randomAlphabet))]
	}
	s.randMu.Unlock()
	return string(buf)
}

// finish records the terminal state of a lookup in the span, metrics, and
// audit trail. Audit failures are logged and swallowed.
func (s *Service) finish(ctx context.Context, span trace.Span, result *Result, action audit.Action, domain string) {
	span.SetAttributes(attribute.String("email.lookup_outcome", string(result.Outcome)))
	if s.metrics != nil {
		s.metrics.RecordLookup(string(result.Outcome))
	}
	if s.audit == nil {
		return
	}
	err := s.audit.Emit(ctx, audit.Event{
		Action:    action,
		Domain:    domain,
		Email:     result.Email,
		Probes:    result.Probes,
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", action,
			"domain", domain,
			"error", err,
		)
	}
}
