package audit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverot/emailfinder/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher_EmitFillsIdentityAndAppends(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	publisher := NewPublisher(store, WithLogger(discardLogger()))

	err := publisher.Emit(ctx, Event{
		Action: ActionLookupFound,
		Domain: "example.com",
		Email:  "john.smith@example.com",
		Probes: 2,
	})
	require.NoError(t, err)

	events, err := publisher.List(ctx, "example.com")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, ActionLookupFound, events[0].Action)
	assert.Equal(t, "john.smith@example.com", events[0].Email)
}

func TestPublisher_EmitPreservesCallerIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	publisher := NewPublisher(store, WithLogger(discardLogger()))

	stamp := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	err := publisher.Emit(ctx, Event{
		ID:        "fixed-id",
		Timestamp: stamp,
		Action:    ActionLookupExhausted,
		Domain:    "example.com",
	})
	require.NoError(t, err)

	events, err := publisher.List(ctx, "example.com")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "fixed-id", events[0].ID)
	assert.Equal(t, stamp, events[0].Timestamp)
}

func TestPublisher_UsesRequestScopedTime(t *testing.T) {
	store := NewMemoryStore()
	publisher := NewPublisher(store, WithLogger(discardLogger()))

	stamp := time.Date(2026, 4, 2, 14, 30, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), stamp)

	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionLookupFound, Domain: "example.com"}))

	events, err := publisher.List(ctx, "example.com")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, stamp, events[0].Timestamp)
}

func TestPublisher_OutboxReceivesEvents(t *testing.T) {
	ctx := context.Background()
	publisher := NewPublisher(NewMemoryStore(), WithLogger(discardLogger()), WithOutbox(4))

	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionLookupCatchAll, Domain: "example.com"}))

	select {
	case event := <-publisher.Outbox():
		assert.Equal(t, ActionLookupCatchAll, event.Action)
	default:
		t.Fatal("expected event on outbox")
	}
}

func TestPublisher_FullOutboxDropsFromSinkPathOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	publisher := NewPublisher(store, WithLogger(discardLogger()), WithOutbox(1))

	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionLookupFound, Domain: "example.com"}))
	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionLookupFound, Domain: "example.com"}))

	events, err := store.ListByDomain(ctx, "example.com")
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Len(t, publisher.Outbox(), 1)
}

type fakeSink struct {
	mu        sync.Mutex
	published []Event
	err       error
}

func (f *fakeSink) Publish(_ context.Context, event Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func TestWorker_DrainsOutboxIntoSink(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := NewPublisher(NewMemoryStore(), WithLogger(discardLogger()), WithOutbox(8))
	sink := &fakeSink{}
	worker := NewWorker(sink, publisher.Outbox(), discardLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	for i := 0; i < 3; i++ {
		require.NoError(t, publisher.Emit(ctx, Event{Action: ActionLookupFound, Domain: "example.com"}))
	}

	assert.Eventually(t, func() bool { return sink.count() == 3 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}

func TestWorker_SinkFailureDoesNotStopTheLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := NewPublisher(NewMemoryStore(), WithLogger(discardLogger()), WithOutbox(8))
	sink := &fakeSink{err: assert.AnError}
	worker := NewWorker(sink, publisher.Outbox(), discardLogger())

	go func() { _ = worker.Run(ctx) }()

	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionLookupFound, Domain: "example.com"}))

	// The failing event must be consumed so later ones still flow.
	assert.Eventually(t, func() bool { return len(publisher.Outbox()) == 0 }, time.Second, 10*time.Millisecond)

	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()

	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionLookupExhausted, Domain: "example.com"}))
	assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
}
