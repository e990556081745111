package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/adverot/emailfinder/pkg/requestcontext"
)

// Publisher records audit events. Appends to the store are synchronous;
// events additionally flow into a bounded outbox channel that a Worker
// drains toward slower sinks, so the request path never waits on Kafka.
type Publisher struct {
	store  Store
	logger *slog.Logger
	outbox chan Event
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithLogger sets the logger used for drop warnings.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.logger = logger }
}

// WithOutbox enables the outbox channel with the given capacity.
func WithOutbox(capacity int) PublisherOption {
	return func(p *Publisher) { p.outbox = make(chan Event, capacity) }
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit records one event, filling in ID and timestamp when absent. When the
// outbox is full the event is dropped from the sink path (never from the
// store) with a warning: audit must not stall lookups.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx).UTC()
	}

	if err := p.store.Append(ctx, event); err != nil {
		return err
	}

	if p.outbox != nil {
		select {
		case p.outbox <- event:
		default:
			p.logger.WarnContext(ctx, "audit outbox full, dropping event from sink path",
				"action", event.Action,
				"domain", event.Domain,
			)
		}
	}
	return nil
}

// Outbox exposes the sink-bound event stream for a Worker. Nil when the
// publisher was built without an outbox.
func (p *Publisher) Outbox() <-chan Event {
	return p.outbox
}

// List returns the recorded events for a domain.
func (p *Publisher) List(ctx context.Context, domain string) ([]Event, error) {
	return p.store.ListByDomain(ctx, domain)
}
