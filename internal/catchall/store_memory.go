package catchall

import (
	"context"
	"sync"
	"time"

	"github.com/adverot/emailfinder/pkg/platform/sentinel"
)

type memoryEntry struct {
	verdict   Verdict
	expiresAt time.Time
}

// MemoryStore is a process-local Store for single-instance deployments and
// tests. Expired entries are dropped lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-memory verdict cache.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, domain string) (Verdict, error) {
	s.mu.RLock()
	entry, ok := s.entries[domain]
	s.mu.RUnlock()
	if !ok {
		return "", sentinel.ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// refreshed the entry in between.
		if cur, ok := s.entries[domain]; ok && s.now().After(cur.expiresAt) {
			delete(s.entries, domain)
		}
		s.mu.Unlock()
		return "", sentinel.ErrNotFound
	}
	return entry.verdict, nil
}

func (s *MemoryStore) Set(_ context.Context, domain string, verdict Verdict, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[domain] = memoryEntry{verdict: verdict, expiresAt: s.now().Add(ttl)}
	return nil
}
