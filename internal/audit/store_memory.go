package audit

import (
	"context"
	"sync"
)

// Store is an append-only event log.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByDomain(ctx context.Context, domain string) ([]Event, error)
}

// MemoryStore keeps events in process memory. It backs tests and
// single-instance deployments; durable history belongs to the Kafka sink.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) ListByDomain(_ context.Context, domain string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.Domain == domain {
			out = append(out, e)
		}
	}
	return out, nil
}
