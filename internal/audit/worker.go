package audit

import (
	"context"
	"log/slog"
)

// Worker drains the publisher outbox into a sink. It keeps slow sinks off
// the request path without wiring a queue implementation into the service.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run consumes events until ctx is canceled. Sink failures are logged and
// the loop continues; one bad event must not wedge the trail.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Publish(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "audit sink publish failed",
					"action", event.Action,
					"domain", event.Domain,
					"error", err,
				)
			}
		}
	}
}
